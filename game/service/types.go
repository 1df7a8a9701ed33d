package service

import (
	"time"

	"github.com/wricardo/maze-race/game/maze"
	"github.com/wricardo/maze-race/game/stats"
)

// StateView is the observable session: everything a renderer needs.
type StateView struct {
	Mode      string        `json:"mode"`
	ModeTag   int           `json:"mode_tag"`
	Agents    []AgentView   `json:"agents"`
	Countdown int           `json:"countdown"`
	Start     maze.Position `json:"start"`
	Goal      maze.Position `json:"goal"`
	Tally     stats.Tally   `json:"tally"`
	HasSave   bool          `json:"has_save"`
	Outcome   *OutcomeEvent `json:"outcome,omitempty"`
}

// AgentView describes one racer
type AgentView struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Position      maze.Position `json:"position"`
	Reached       bool          `json:"reached"`
	PossibleMoves []string      `json:"possible_moves,omitempty"`
}

// OutcomeEvent is the one-tick "round finished" event.
type OutcomeEvent struct {
	RoundID string      `json:"round_id"`
	Label   string      `json:"label"`
	Tie     bool        `json:"tie"`
	Winner  string      `json:"winner,omitempty"`
	At      time.Time   `json:"at"`
	Tally   stats.Tally `json:"tally"`
}

// CommandRequest is a command as it arrives over the wire.
type CommandRequest struct {
	Command   string `json:"command"`
	Char      string `json:"char,omitempty"`
	Text      string `json:"text,omitempty"`
	Agent     string `json:"agent,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// CommandResult contains the result of a command
type CommandResult struct {
	Command string        `json:"command"`
	Applied bool          `json:"applied"`
	Message string        `json:"message,omitempty"`
	State   *StateView    `json:"state"`
	Outcome *OutcomeEvent `json:"outcome,omitempty"`
}

// MazeView is the current maze as rows of "0"/"1" plus a printable rendering.
type MazeView struct {
	Width  int           `json:"width"`
	Height int           `json:"height"`
	Rows   []string      `json:"rows"`
	Text   string        `json:"text"`
	Start  maze.Position `json:"start"`
	Goal   maze.Position `json:"goal"`
}

// CellView describes a single maze cell
type CellView struct {
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Cell     string   `json:"cell"`
	Interior bool     `json:"interior"`
	Walkable bool     `json:"walkable"`
	Start    bool     `json:"start,omitempty"`
	Goal     bool     `json:"goal,omitempty"`
	Agents   []string `json:"agents,omitempty"`
}

// StatsView contains the tally and win history
type StatsView struct {
	Tally   stats.Tally `json:"tally"`
	History []string    `json:"history"`
}
