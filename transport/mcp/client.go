package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/maze-race/game/config"
	"github.com/wricardo/maze-race/game/service"
)

// maxSteps bounds the steps a single move call may take
const maxSteps = 30

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Maze Race",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Maze Race - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Two agents race from the start cell (S, top-left) to the goal cell (G, bottom-right)
of a 31x31 maze. The first agent to reach G wins the round; reaching it on the same
tick is a tie. The countdown runs before the race starts; agents cannot move until
it reaches zero.

FLOW:
menu -> new_game -> enter_name (agent1) -> enter_name (agent2) -> countdown -> playing -> finished
A paused session can be saved; continue_game restores it from the menu.

AVAILABLE TOOLS:
- game_state: Current mode, agents, countdown and the maze with agent markers
- new_game / continue_game: Start from the menu
- enter_name: Type a racer name and confirm it
- move: Move an agent one or more steps (north/south/east/west)
- toggle_pause: Pause or resume the round
- restart: Start a new round after a round finishes
- reset_tallies: Zero the win tally (menu only)
- win_history: Most recent round results
- describe_cell: Details about a single maze cell
- list_configs: Available server profiles
- game_instructions: Rules in full`),
	)

	c.registerTools()
}

// simpleCommands are tools that forward a bare command
var simpleCommands = []struct {
	name        string
	description string
}{
	{"new_game", "Start a new game from the menu. Discards any saved session."},
	{"continue_game", "Resume the saved session from the menu"},
	{"toggle_pause", "Pause a running round, or resume a paused one"},
	{"restart", "Start a new round once the current round has finished"},
	{"reset_tallies", "Reset both win counters to zero (menu only)"},
	{"backspace", "Delete the last character of the name being entered"},
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	for _, cmd := range simpleCommands {
		c.mcpServer.AddTool(mcp.Tool{
			Name:        cmd.name,
			Description: cmd.description,
			InputSchema: mcp.ToolInputSchema{
				Type:       "object",
				Properties: map[string]interface{}{},
			},
		}, c.commandHandler(cmd.name))
	}

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current session state with the maze rendered",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"include_maze": map[string]interface{}{
					"type":        "boolean",
					"description": "Render the maze with agent markers (default true)",
				},
			},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "enter_name",
		Description: "Type the name of the racer currently being entered (at most 12 characters)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Name to type",
				},
				"confirm": map[string]interface{}{
					"type":        "boolean",
					"description": "Confirm the name after typing it (default true)",
				},
			},
			Required: []string{"name"},
		},
	}, c.handleEnterName)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move an agent one cell, or several cells in the same direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"agent": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"agent1", "agent2"},
					"description": "Agent to move",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"north", "south", "east", "west"},
					"description": "Direction to move",
				},
				"steps": map[string]interface{}{
					"type":        "number",
					"description": fmt.Sprintf("Cells to move, stopping early at a wall (default 1, max %d)", maxSteps),
				},
			},
			Required: []string{"agent", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "win_history",
		Description: "Get the win tally and the most recent round results, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleWinHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get detailed information about a specific maze cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"x": map[string]interface{}{
					"type":        "number",
					"description": "X coordinate (column) of the cell (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "number",
					"description": "Y coordinate (row) of the cell (0-based)",
				},
			},
			Required: []string{"x", "y"},
		},
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List the profiles available to the server",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of Maze Race",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func (c *Client) sendCommand(ctx context.Context, req service.CommandRequest) (*service.CommandResult, error) {
	var result service.CommandResult
	if err := c.apiCall(ctx, "POST", "/api/commands", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// Tool handlers

func (c *Client) commandHandler(name string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := c.sendCommand(ctx, service.CommandRequest{Command: name})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatCommandResult(result)), nil
	}
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	includeMaze := true
	if v, ok := args["include_maze"].(bool); ok {
		includeMaze = v
	}

	var state service.StateView
	if err := c.apiCall(ctx, "GET", "/api/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var maze *service.MazeView
	if includeMaze {
		maze = &service.MazeView{}
		if err := c.apiCall(ctx, "GET", "/api/maze", nil, maze); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	return mcp.NewToolResultText(formatGameState(&state, maze)), nil
}

func (c *Client) handleEnterName(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	name, _ := args["name"].(string)
	confirm := true
	if v, ok := args["confirm"].(bool); ok {
		confirm = v
	}

	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	result, err := c.sendCommand(ctx, service.CommandRequest{Command: "type_char", Text: name})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if confirm {
		result, err = c.sendCommand(ctx, service.CommandRequest{Command: "confirm_name"})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	return mcp.NewToolResultText(formatCommandResult(result)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	agent, _ := args["agent"].(string)
	direction, _ := args["direction"].(string)
	steps := 1
	if v, ok := args["steps"].(float64); ok {
		steps = int(v)
	}
	if steps < 1 || steps > maxSteps {
		return mcp.NewToolResultError(fmt.Sprintf("steps must be between 1 and %d", maxSteps)), nil
	}

	req := service.CommandRequest{Command: "move_agent", Agent: agent, Direction: direction}
	var (
		result *service.CommandResult
		moved  int
	)
	for i := 0; i < steps; i++ {
		res, err := c.sendCommand(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result = res
		if !res.Applied {
			break
		}
		moved++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Moved %s %s %d of %d step(s)\n", agent, direction, moved, steps)
	if moved < steps {
		b.WriteString("Stopped early: blocked by a wall, or the round is not running\n")
	}
	b.WriteString("\n")
	b.WriteString(formatCommandResult(result))
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleWinHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var stats service.StatsView
	if err := c.apiCall(ctx, "GET", "/api/stats", nil, &stats); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatStats(&stats)), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	x, okX := args["x"].(float64)
	y, okY := args["y"].(float64)
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required numbers"), nil
	}

	var cell service.CellView
	path := fmt.Sprintf("/api/cells/%d/%d", int(x), int(y))
	if err := c.apiCall(ctx, "GET", path, nil, &cell); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCell(&cell)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Configs []*config.ProfileInfo `json:"configs"`
		Count   int                   `json:"count"`
	}
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available profiles (%d):\n", resp.Count)
	for _, p := range resp.Configs {
		fmt.Fprintf(&b, "- %s (%s): %s [generator: %s]\n", p.ConfigID, p.Name, p.Description, p.Generator)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

const gameInstructions = `MAZE RACE - RULES

THE MAZE
- 31x31 grid. Walls (#) and paths. The outer border is always wall.
- Exactly one route connects any two path cells; there are no loops.
- Start S is (1,1) in the top-left corner. Goal G is (29,29) in the bottom-right.

A SESSION
1. menu: new_game starts fresh; continue_game resumes a saved session.
2. enter_name: type each racer's name (1-12 printable characters), then confirm.
   Agent 1's name is entered first, then agent 2's.
3. countdown: 120 ticks (two seconds) before the race; both agents wait at S.
4. playing: agents move one cell per move command. Moving into a wall does nothing.
   Any number of agents may share a cell.
5. finished: the first agent on G wins. Both reaching G on the same tick is a tie.
   restart starts a fresh round with new names and a new maze.

PAUSING
- toggle_pause during countdown or playing freezes the round; toggle again to
  resume racing. Pausing a countdown and resuming starts the race at once.
- The session is saved periodically while a round is active. After a crash,
  continue_game picks up where the save left off, countdown included.

RESULTS
- Each win increments that player's tally. Ties are recorded in the history only.
- win_history shows the last few results, newest first.
- reset_tallies (menu only) zeros both counters.

COORDINATES
- x is the column (0 = left edge), y is the row (0 = top edge).
- north decreases y, south increases y, west decreases x, east increases x.`

// Formatting helpers

func formatCommandResult(result *service.CommandResult) string {
	if result == nil {
		return "No result"
	}

	var b strings.Builder
	if result.Applied {
		fmt.Fprintf(&b, "%s: applied\n", result.Command)
	} else {
		fmt.Fprintf(&b, "%s: ignored\n", result.Command)
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", result.Message)
	}
	if result.Outcome != nil {
		fmt.Fprintf(&b, "Round finished: %s\n", result.Outcome.Label)
	}
	if result.State != nil {
		b.WriteString("\n")
		b.WriteString(formatGameState(result.State, nil))
	}
	return b.String()
}

func formatGameState(state *service.StateView, maze *service.MazeView) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Mode: %s | Countdown: %d | Tally: %d-%d\n",
		state.Countdown, state.Tally.Player1Wins, state.Tally.Player2Wins)

	for _, a := range state.Agents {
		name := a.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(&b, "%s %s at (%d,%d)", a.ID, name, a.Position.X, a.Position.Y)
		if a.Reached {
			b.WriteString(" REACHED GOAL")
		}
		if len(a.PossibleMoves) > 0 {
			fmt.Fprintf(&b, " | moves: %s", strings.Join(a.PossibleMoves, ", "))
		}
		b.WriteString("\n")
	}

	if state.Outcome != nil {
		fmt.Fprintf(&b, "Round finished: %s\n", state.Outcome.Label)
	}
	if state.Mode == "menu" && state.HasSave {
		b.WriteString("A saved session is available (continue_game)\n")
	}

	if maze != nil && len(maze.Rows) > 0 {
		b.WriteString("\n")
		b.WriteString(renderMaze(state, maze))
	}
	return b.String()
}

// renderMaze draws the maze with # for walls, . for paths, S/G for the
// endpoints and 1/2 for the agents. A shared cell shows *.
func renderMaze(state *service.StateView, maze *service.MazeView) string {
	markers := make(map[[2]int]byte)
	if state.Mode != "menu" {
		for i, a := range state.Agents {
			key := [2]int{a.Position.X, a.Position.Y}
			if _, taken := markers[key]; taken {
				markers[key] = '*'
			} else {
				markers[key] = byte('1' + i)
			}
		}
	}

	var b strings.Builder
	for y, row := range maze.Rows {
		for x := 0; x < len(row); x++ {
			if m, ok := markers[[2]int{x, y}]; ok {
				b.WriteByte(m)
				continue
			}
			switch {
			case x == maze.Start.X && y == maze.Start.Y:
				b.WriteByte('S')
			case x == maze.Goal.X && y == maze.Goal.Y:
				b.WriteByte('G')
			case row[x] == '1':
				b.WriteByte('#')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatStats(stats *service.StatsView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tally: player 1 %d, player 2 %d\n", stats.Tally.Player1Wins, stats.Tally.Player2Wins)
	if len(stats.History) == 0 {
		b.WriteString("No rounds recorded yet\n")
		return b.String()
	}
	b.WriteString("Recent results:\n")
	for i, entry := range stats.History {
		fmt.Fprintf(&b, "%d. %s\n", i+1, entry)
	}
	return b.String()
}

func formatCell(cell *service.CellView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cell (%d,%d): %s\n", cell.X, cell.Y, cell.Cell)
	fmt.Fprintf(&b, "Walkable: %t\n", cell.Walkable)
	if !cell.Interior {
		b.WriteString("On the outer border\n")
	}
	if cell.Start {
		b.WriteString("Start cell\n")
	}
	if cell.Goal {
		b.WriteString("Goal cell\n")
	}
	if len(cell.Agents) > 0 {
		fmt.Fprintf(&b, "Occupied by: %s\n", strings.Join(cell.Agents, ", "))
	}
	return b.String()
}
