package service

import (
	"context"

	"github.com/wricardo/maze-race/game/config"
	"github.com/wricardo/maze-race/game/engine"
	"github.com/wricardo/maze-race/game/stats"
)

// GameService defines all operations the transports expose
type GameService interface {
	// Game State
	GetState(ctx context.Context) (*StateView, error)
	GetMaze(ctx context.Context) (*MazeView, error)
	DescribeCell(ctx context.Context, x, y int) (*CellView, error)

	// Commands
	Execute(ctx context.Context, req CommandRequest) (*CommandResult, error)
	Apply(ctx context.Context, cmd engine.Command) (*CommandResult, error)
	Tick(ctx context.Context) (*OutcomeEvent, error)
	Shutdown(ctx context.Context) error

	// Results
	GetStats(ctx context.Context) (*StatsView, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*config.ProfileInfo, error)
}

// SessionController is the single-session control loop the service drives.
// session.Manager implements it.
type SessionController interface {
	Execute(cmd engine.Command) (engine.Result, error)
	Snapshot() *engine.SessionState
	LastRecord() *stats.WinRecord
	HasSave() bool
	Tally() (stats.Tally, error)
	History() ([]stats.WinRecord, error)
}

// ConfigManager lists the profiles available to the process
type ConfigManager interface {
	ListConfigs() ([]*config.ProfileInfo, error)
	GetDefault() *config.Profile
}

// Broadcaster pushes events to live observers such as websocket clients.
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

// Event names sent through a Broadcaster.
const (
	EventStateUpdate   = "state_update"
	EventRoundFinished = "round_finished"
)
