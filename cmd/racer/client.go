package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wricardo/maze-race/game/service"
)

// Client talks to a running Maze Race server over its REST API.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// State fetches the current session.
func (c *Client) State(ctx context.Context) (*service.StateView, error) {
	var state service.StateView
	if err := c.do(ctx, http.MethodGet, "/api/state", nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

// Maze fetches the maze of the current round.
func (c *Client) Maze(ctx context.Context) (*service.MazeView, error) {
	var view service.MazeView
	if err := c.do(ctx, http.MethodGet, "/api/maze", nil, &view); err != nil {
		return nil, fmt.Errorf("get maze: %w", err)
	}
	return &view, nil
}

// Send posts a command and returns the server's verdict.
func (c *Client) Send(ctx context.Context, req service.CommandRequest) (*service.CommandResult, error) {
	var result service.CommandResult
	if err := c.do(ctx, http.MethodPost, "/api/commands", req, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", req.Command, err)
	}
	return &result, nil
}

// Move steps one agent one cell.
func (c *Client) Move(ctx context.Context, agent, direction string) (*service.CommandResult, error) {
	return c.Send(ctx, service.CommandRequest{Command: "move_agent", Agent: agent, Direction: direction})
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
