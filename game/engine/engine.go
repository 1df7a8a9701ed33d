package engine

import (
	"fmt"

	"github.com/wricardo/maze-race/game/maze"
)

// MazeSource produces a freshly carved maze for a new round.
type MazeSource interface {
	Generate(start maze.Position) *maze.Grid
}

// Result reports what a command did. Applied is false for commands that mean
// nothing in the current mode; those are ignored, not errors.
type Result struct {
	Applied bool
	Outcome *Outcome
}

// Engine provides the main interface for session operations
type Engine interface {
	State() *SessionState
	SetState(state *SessionState) error
	Apply(cmd Command) Result
	StartNewGame()
	LastOutcome() *Outcome
}

// GameEngine implements Engine over a single owned SessionState.
type GameEngine struct {
	state  *SessionState
	mazes  MazeSource
	judge  GoalJudge
	recent *Outcome
}

// NewEngine creates an engine sitting in the menu with a pre-generated maze.
func NewEngine(mazes MazeSource) *GameEngine {
	return &GameEngine{
		state: NewSessionState(mazes.Generate(maze.Position{X: 1, Y: 1})),
		mazes: mazes,
	}
}

// State returns the live session. Callers outside the control loop should Clone it.
func (e *GameEngine) State() *SessionState {
	return e.state
}

// SetState replaces the session, used when restoring a save.
func (e *GameEngine) SetState(state *SessionState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if err := state.Validate(); err != nil {
		return err
	}
	// Restored mazes must match the size this engine generates.
	w, h := e.state.Maze.Width(), e.state.Maze.Height()
	if state.Maze.Width() != w || state.Maze.Height() != h {
		return fmt.Errorf("%w: maze is %dx%d, want %dx%d", ErrInvalidState, state.Maze.Width(), state.Maze.Height(), w, h)
	}
	e.state = state
	e.recent = nil
	return nil
}

// LastOutcome is the round result raised by the most recent tick, if any.
// It is cleared by the following tick.
func (e *GameEngine) LastOutcome() *Outcome {
	return e.recent
}

// StartNewGame regenerates the maze and enters name entry with a clean slate.
func (e *GameEngine) StartNewGame() {
	e.state.useMaze(e.mazes.Generate(maze.Position{X: 1, Y: 1}))
	e.state.Names = [2]string{}
	e.state.Countdown = CountdownTicks
	e.state.Mode = ModeEnterName1
	e.recent = nil
}

// Apply runs one command against the session. Commands that need storage
// (continue, tally reset, shutdown) are not handled here and report !Applied.
func (e *GameEngine) Apply(cmd Command) Result {
	s := e.state

	switch cmd.Kind {
	case CmdNewGame:
		if s.Mode != ModeMenu {
			return Result{}
		}
		e.StartNewGame()
		return Result{Applied: true}

	case CmdTypeChar:
		name, ok := s.activeName()
		if !ok || !isPrintableASCII(cmd.Char) || len(*name) >= MaxNameLength {
			return Result{}
		}
		*name += string(cmd.Char)
		return Result{Applied: true}

	case CmdBackspace:
		name, ok := s.activeName()
		if !ok || len(*name) == 0 {
			return Result{}
		}
		*name = (*name)[:len(*name)-1]
		return Result{Applied: true}

	case CmdConfirmName:
		return e.confirmName()

	case CmdTogglePause:
		switch s.Mode {
		case ModeCountdown, ModePlaying:
			s.Mode = ModePaused
		case ModePaused:
			s.Mode = ModePlaying
		default:
			return Result{}
		}
		return Result{Applied: true}

	case CmdMoveAgent:
		if s.Mode != ModePlaying {
			return Result{}
		}
		return Result{Applied: s.MoveAgent(cmd.Agent, cmd.Direction)}

	case CmdTick:
		return e.tick()

	case CmdRestart:
		if s.Mode != ModeFinished {
			return Result{}
		}
		s.Names = [2]string{}
		s.Mode = ModeEnterName1
		e.recent = nil
		return Result{Applied: true}

	default:
		return Result{}
	}
}

func (e *GameEngine) confirmName() Result {
	s := e.state
	switch s.Mode {
	case ModeEnterName1:
		if s.Names[Agent1] == "" {
			return Result{}
		}
		s.Mode = ModeEnterName2
	case ModeEnterName2:
		if s.Names[Agent2] == "" {
			return Result{}
		}
		s.useMaze(e.mazes.Generate(maze.Position{X: 1, Y: 1}))
		s.Countdown = CountdownTicks
		s.Mode = ModeCountdown
	default:
		return Result{}
	}
	return Result{Applied: true}
}

func (e *GameEngine) tick() Result {
	s := e.state
	e.recent = nil

	switch s.Mode {
	case ModeCountdown:
		s.Countdown--
		if s.Countdown <= 0 {
			s.Countdown = CountdownTicks
			s.Mode = ModePlaying
		}
		return Result{Applied: true}

	case ModePlaying:
		outcome, done := e.judge.Judge(s)
		if !done {
			return Result{Applied: true}
		}
		s.Mode = ModeFinished
		e.recent = &outcome
		return Result{Applied: true, Outcome: &outcome}

	default:
		return Result{Applied: true}
	}
}
