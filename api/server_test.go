package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/maze-race/game/config"
	"github.com/wricardo/maze-race/game/engine"
	"github.com/wricardo/maze-race/game/service"
	"github.com/wricardo/maze-race/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	GetStateFunc     func(ctx context.Context) (*service.StateView, error)
	GetMazeFunc      func(ctx context.Context) (*service.MazeView, error)
	DescribeCellFunc func(ctx context.Context, x, y int) (*service.CellView, error)
	ExecuteFunc      func(ctx context.Context, req service.CommandRequest) (*service.CommandResult, error)
	GetStatsFunc     func(ctx context.Context) (*service.StatsView, error)
	ListConfigsFunc  func(ctx context.Context) ([]*config.ProfileInfo, error)
}

func (m *MockGameService) GetState(ctx context.Context) (*service.StateView, error) {
	if m.GetStateFunc != nil {
		return m.GetStateFunc(ctx)
	}
	return &service.StateView{Mode: "menu"}, nil
}

func (m *MockGameService) GetMaze(ctx context.Context) (*service.MazeView, error) {
	if m.GetMazeFunc != nil {
		return m.GetMazeFunc(ctx)
	}
	return &service.MazeView{Width: 3, Height: 3, Rows: []string{"111", "101", "111"}}, nil
}

func (m *MockGameService) DescribeCell(ctx context.Context, x, y int) (*service.CellView, error) {
	if m.DescribeCellFunc != nil {
		return m.DescribeCellFunc(ctx, x, y)
	}
	return &service.CellView{X: x, Y: y, Cell: "path"}, nil
}

func (m *MockGameService) Execute(ctx context.Context, req service.CommandRequest) (*service.CommandResult, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, req)
	}
	return &service.CommandResult{
		Command: req.Command,
		Applied: true,
		State:   &service.StateView{Mode: "menu"},
	}, nil
}

func (m *MockGameService) Apply(ctx context.Context, cmd engine.Command) (*service.CommandResult, error) {
	return &service.CommandResult{Command: cmd.Kind.String(), State: &service.StateView{}}, nil
}

func (m *MockGameService) Tick(ctx context.Context) (*service.OutcomeEvent, error) {
	return nil, nil
}

func (m *MockGameService) Shutdown(ctx context.Context) error {
	return nil
}

func (m *MockGameService) GetStats(ctx context.Context) (*service.StatsView, error) {
	if m.GetStatsFunc != nil {
		return m.GetStatsFunc(ctx)
	}
	return &service.StatsView{History: []string{}}, nil
}

func (m *MockGameService) ListConfigs(ctx context.Context) ([]*config.ProfileInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*config.ProfileInfo{}, nil
}

// Test helpers
func setupTestServer(t *testing.T, mockService *MockGameService) *Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := websocket.NewHub()
	go hub.Run(ctx)
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "parse response %s", w.Body.String())
}

func TestGetState(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "Returns the observable session",
			setupMock: func(m *MockGameService) {
				m.GetStateFunc = func(ctx context.Context) (*service.StateView, error) {
					return &service.StateView{
						Mode:      "playing",
						ModeTag:   int(engine.ModePlaying),
						Countdown: 42,
						Agents: []service.AgentView{
							{ID: "agent1", Name: "Ann"},
							{ID: "agent2", Name: "Bob"},
						},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.StateView
				parseResponse(t, w, &resp)
				assert.Equal(t, "playing", resp.Mode)
				assert.Equal(t, 42, resp.Countdown)
				require.Len(t, resp.Agents, 2)
				assert.Equal(t, "Ann", resp.Agents[0].Name)
			},
		},
		{
			name: "Handle service error",
			setupMock: func(m *MockGameService) {
				m.GetStateFunc = func(ctx context.Context) (*service.StateView, error) {
					return nil, fmt.Errorf("state unavailable")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				assert.Equal(t, "state unavailable", resp["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/state", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		rawBody        string
		setupMock      func(*testing.T, *MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "Move agent",
			body: service.CommandRequest{Command: "move_agent", Agent: "agent2", Direction: "west"},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.ExecuteFunc = func(ctx context.Context, req service.CommandRequest) (*service.CommandResult, error) {
					assert.Equal(t, "agent2", req.Agent)
					assert.Equal(t, "west", req.Direction)
					return &service.CommandResult{
						Command: req.Command,
						Applied: true,
						State:   &service.StateView{Mode: "playing"},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.CommandResult
				parseResponse(t, w, &resp)
				assert.True(t, resp.Applied)
				require.NotNil(t, resp.State)
				assert.Equal(t, "playing", resp.State.Mode)
			},
		},
		{
			name: "Ignored command is still a success",
			body: service.CommandRequest{Command: "toggle_pause"},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.ExecuteFunc = func(ctx context.Context, req service.CommandRequest) (*service.CommandResult, error) {
					return &service.CommandResult{
						Command: req.Command,
						Message: "toggle_pause ignored in mode menu",
						State:   &service.StateView{Mode: "menu"},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.CommandResult
				parseResponse(t, w, &resp)
				assert.False(t, resp.Applied)
				assert.NotEmpty(t, resp.Message, "ignored results carry a message")
			},
		},
		{
			name: "Invalid request maps to 400",
			body: service.CommandRequest{Command: "fly"},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.ExecuteFunc = func(ctx context.Context, req service.CommandRequest) (*service.CommandResult, error) {
					return nil, fmt.Errorf("%w: unknown command %q", service.ErrInvalidRequest, req.Command)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Storage failure maps to 500",
			body: service.CommandRequest{Command: "reset_tallies"},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.ExecuteFunc = func(ctx context.Context, req service.CommandRequest) (*service.CommandResult, error) {
					return nil, fmt.Errorf("failed to reset tally: disk full")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "Missing command",
			body:           map[string]string{"agent": "agent1"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Malformed body",
			rawBody:        "{not json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(t, mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/commands", tt.body)
			if tt.rawBody != "" {
				req = httptest.NewRequest("POST", "/api/commands", strings.NewReader(tt.rawBody))
			}

			server.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestGetMaze(t *testing.T) {
	server := setupTestServer(t, &MockGameService{})
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/maze", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp service.MazeView
	parseResponse(t, w, &resp)
	assert.Equal(t, 3, resp.Width)
	assert.Equal(t, []string{"111", "101", "111"}, resp.Rows)
}

func TestDescribeCell(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{"Interior cell", "/api/cells/3/5", http.StatusOK},
		{"Out of bounds", "/api/cells/99/1", http.StatusNotFound},
		{"Not a number", "/api/cells/a/1", http.StatusBadRequest},
	}

	mockService := &MockGameService{
		DescribeCellFunc: func(ctx context.Context, x, y int) (*service.CellView, error) {
			if x > 30 {
				return nil, fmt.Errorf("%w: (%d,%d)", service.ErrOutOfBounds, x, y)
			}
			return &service.CellView{X: x, Y: y, Cell: "wall"}, nil
		},
	}
	server := setupTestServer(t, mockService)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if w.Code == http.StatusOK {
				var resp service.CellView
				parseResponse(t, w, &resp)
				assert.Equal(t, 3, resp.X)
				assert.Equal(t, 5, resp.Y)
				assert.Equal(t, "wall", resp.Cell)
			}
		})
	}
}

func TestGetStats(t *testing.T) {
	mockService := &MockGameService{
		GetStatsFunc: func(ctx context.Context) (*service.StatsView, error) {
			view := &service.StatsView{History: []string{
				"Bob wins at 2024-05-01 10:00:02",
				"Tie at 2024-05-01 10:00:01",
				"Ann wins at 2024-05-01 10:00:00",
			}}
			view.Tally.Player1Wins = 1
			view.Tally.Player2Wins = 1
			return view, nil
		},
	}
	server := setupTestServer(t, mockService)

	t.Run("Stats", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/stats", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var resp service.StatsView
		parseResponse(t, w, &resp)
		assert.Equal(t, uint(1), resp.Tally.Player1Wins)
		assert.Equal(t, uint(1), resp.Tally.Player2Wins)
		assert.Len(t, resp.History, 3)
	})

	t.Run("History with limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/history?limit=2", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			History []string `json:"history"`
			Count   int      `json:"count"`
		}
		parseResponse(t, w, &resp)
		assert.Equal(t, 2, resp.Count)
		require.NotEmpty(t, resp.History)
		assert.Equal(t, "Bob wins at 2024-05-01 10:00:02", resp.History[0])
	})

	t.Run("History with bad limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/history?limit=-1", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListConfigs(t *testing.T) {
	mockService := &MockGameService{
		ListConfigsFunc: func(ctx context.Context) ([]*config.ProfileInfo, error) {
			return []*config.ProfileInfo{
				{Filename: "classic.json", ConfigID: "classic", Name: "Classic", Generator: "backtracker"},
				{Filename: "hunt.json", ConfigID: "hunt", Name: "Hunt", Generator: "jump-scan"},
			}, nil
		},
	}
	server := setupTestServer(t, mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/configs", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	parseResponse(t, w, &resp)
	assert.EqualValues(t, 2, resp["count"])
}

func TestMethodNotAllowed(t *testing.T) {
	server := setupTestServer(t, &MockGameService{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/commands", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealth(t *testing.T) {
	server := setupTestServer(t, &MockGameService{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/health", nil))

	var resp map[string]string
	parseResponse(t, w, &resp)
	assert.Equal(t, "healthy", resp["status"])
}

func TestWebSocketSendsInitialState(t *testing.T) {
	mockService := &MockGameService{
		GetStateFunc: func(ctx context.Context) (*service.StateView, error) {
			return &service.StateView{Mode: "name_entry"}, nil
		},
	}
	httpServer := httptest.NewServer(setupTestServer(t, mockService))
	defer httpServer.Close()

	wsURL := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "connect to WebSocket")
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var msg struct {
		Event string            `json:"event"`
		Data  service.StateView `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg), "read initial message")
	assert.Equal(t, service.EventStateUpdate, msg.Event)
	assert.Equal(t, "name_entry", msg.Data.Mode)
}

func TestNoWebSocketWithoutHub(t *testing.T) {
	server := NewServer(&MockGameService{}, nil)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/ws", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
