package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wricardo/maze-race/game/maze"
)

const (
	// CountdownTicks is the countdown length on every entry into ModeCountdown.
	CountdownTicks = 120

	// MaxNameLength bounds player names.
	MaxNameLength = 12

	// TieLabel is the win-history label for a round both agents finish together.
	TieLabel = "Tie"
)

var (
	ErrInvalidMode      = errors.New("invalid mode")
	ErrInvalidAgent     = errors.New("invalid agent")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrInvalidState     = errors.New("invalid session state")
)

// Mode is the session state-machine tag. The numeric values are the save-file tags.
type Mode int

const (
	ModeEnterName1 Mode = 0
	ModeEnterName2 Mode = 1
	ModeCountdown  Mode = 2
	ModePlaying    Mode = 3
	ModeFinished   Mode = 4
	ModePaused     Mode = 5
	ModeMenu       Mode = 10
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeMenu:
		return "menu"
	case ModeEnterName1:
		return "enter_name_1"
	case ModeEnterName2:
		return "enter_name_2"
	case ModeCountdown:
		return "countdown"
	case ModePlaying:
		return "playing"
	case ModePaused:
		return "paused"
	case ModeFinished:
		return "finished"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeMenu, ModeEnterName1, ModeEnterName2, ModeCountdown, ModePlaying, ModePaused, ModeFinished:
		return true
	}
	return false
}

// ParseMode converts a save-file tag into a Mode.
func ParseMode(tag int) (Mode, error) {
	m := Mode(tag)
	if !m.Valid() {
		return 0, fmt.Errorf("%w: tag %d", ErrInvalidMode, tag)
	}
	return m, nil
}

// AgentID names one of the two racers.
type AgentID int

const (
	Agent1 AgentID = 0
	Agent2 AgentID = 1
)

func (a AgentID) Valid() bool { return a == Agent1 || a == Agent2 }

func (a AgentID) String() string {
	switch a {
	case Agent1:
		return "agent1"
	case Agent2:
		return "agent2"
	default:
		return fmt.Sprintf("agent(%d)", int(a))
	}
}

// ParseAgent accepts "agent1"/"agent2", "1"/"2" and "p1"/"p2".
func ParseAgent(s string) (AgentID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "agent1", "1", "p1", "player1":
		return Agent1, nil
	case "agent2", "2", "p2", "player2":
		return Agent2, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAgent, s)
	}
}

// Direction is one of the four axis moves.
type Direction int

const (
	North Direction = iota
	South
	West
	East
)

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case West:
		return "west"
	case East:
		return "east"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Offset returns the unit step for d.
func (d Direction) Offset() maze.Position {
	switch d {
	case North:
		return maze.Position{X: 0, Y: -1}
	case South:
		return maze.Position{X: 0, Y: 1}
	case West:
		return maze.Position{X: -1, Y: 0}
	case East:
		return maze.Position{X: 1, Y: 0}
	default:
		return maze.Position{}
	}
}

// ParseDirection accepts compass names and their up/down/left/right aliases.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "up", "n":
		return North, nil
	case "south", "down", "s":
		return South, nil
	case "west", "left", "w":
		return West, nil
	case "east", "right", "e":
		return East, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// Agent is a racer's position and whether it has reached the goal this round.
type Agent struct {
	Pos     maze.Position `json:"pos"`
	Reached bool          `json:"reached"`
}

// Outcome describes how a round ended.
type Outcome struct {
	Tie    bool    `json:"tie"`
	Winner AgentID `json:"winner"`
	Label  string  `json:"label"`
}
