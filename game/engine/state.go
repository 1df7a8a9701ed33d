package engine

import (
	"fmt"

	"github.com/wricardo/maze-race/game/maze"
)

// SessionState is the aggregate root of a race: mode, both agents, names,
// countdown and the maze they run in.
type SessionState struct {
	Mode      Mode
	Agents    [2]Agent
	Names     [2]string
	Countdown int
	Maze      *maze.Grid
	Start     maze.Position
	Goal      maze.Position
}

// NewSessionState returns a Menu-mode session running in grid.
func NewSessionState(grid *maze.Grid) *SessionState {
	s := &SessionState{
		Mode:      ModeMenu,
		Countdown: CountdownTicks,
	}
	s.useMaze(grid)
	return s
}

// useMaze installs grid and puts both agents back on its start room.
func (s *SessionState) useMaze(grid *maze.Grid) {
	s.Maze = grid
	s.Start = grid.Start()
	s.Goal = grid.Goal()
	s.resetAgents()
}

func (s *SessionState) resetAgents() {
	for i := range s.Agents {
		s.Agents[i] = Agent{Pos: s.Start}
	}
}

// Agent returns a copy of the given racer.
func (s *SessionState) Agent(id AgentID) Agent {
	return s.Agents[id]
}

// Name returns the player name for id.
func (s *SessionState) Name(id AgentID) string {
	return s.Names[id]
}

// activeName returns the name being edited in the current mode.
func (s *SessionState) activeName() (*string, bool) {
	switch s.Mode {
	case ModeEnterName1:
		return &s.Names[Agent1], true
	case ModeEnterName2:
		return &s.Names[Agent2], true
	default:
		return nil, false
	}
}

// Clone returns a deep copy that shares nothing with s.
func (s *SessionState) Clone() *SessionState {
	c := *s
	if s.Maze != nil {
		c.Maze = s.Maze.Clone()
	}
	return &c
}

// Equal compares every persisted field, including the full maze.
func (s *SessionState) Equal(o *SessionState) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Mode != o.Mode || s.Agents != o.Agents || s.Names != o.Names ||
		s.Countdown != o.Countdown || s.Start != o.Start || s.Goal != o.Goal {
		return false
	}
	return s.Maze.Equal(o.Maze)
}

// Validate checks the cross-field invariants a restored session must satisfy.
func (s *SessionState) Validate() error {
	if !s.Mode.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidMode, s.Mode)
	}
	if s.Maze == nil {
		return fmt.Errorf("%w: no maze", ErrInvalidState)
	}
	if !s.Maze.BorderIntact() {
		return fmt.Errorf("%w: maze border is not solid wall", ErrInvalidState)
	}
	if s.Start != s.Maze.Start() || s.Goal != s.Maze.Goal() {
		return fmt.Errorf("%w: start %v and goal %v must be %v and %v", ErrInvalidState, s.Start, s.Goal, s.Maze.Start(), s.Maze.Goal())
	}
	if !s.Maze.IsPath(s.Start) || !s.Maze.IsPath(s.Goal) {
		return fmt.Errorf("%w: start or goal is walled in", ErrInvalidState)
	}
	for i, a := range s.Agents {
		if !s.Maze.IsInterior(a.Pos) || !s.Maze.IsPath(a.Pos) {
			return fmt.Errorf("%w: %v stands on a wall or border at %v", ErrInvalidState, AgentID(i), a.Pos)
		}
		if a.Reached && a.Pos != s.Goal {
			return fmt.Errorf("%w: %v marked reached away from the goal", ErrInvalidState, AgentID(i))
		}
	}
	for i, name := range s.Names {
		if err := validateName(name); err != nil {
			return fmt.Errorf("%w: player %d name: %v", ErrInvalidState, i+1, err)
		}
	}
	if s.Mode == ModeFinished && !s.Agents[Agent1].Reached && !s.Agents[Agent2].Reached {
		return fmt.Errorf("%w: finished round without a finisher", ErrInvalidState)
	}
	return nil
}

func validateName(name string) error {
	if len(name) > MaxNameLength {
		return fmt.Errorf("longer than %d characters", MaxNameLength)
	}
	for _, r := range name {
		if !isPrintableASCII(r) {
			return fmt.Errorf("non-printable character %q", r)
		}
	}
	return nil
}

func isPrintableASCII(r rune) bool {
	return r >= 32 && r < 127
}

// Outcome derives the result of a finished round from the reached flags.
func (s *SessionState) Outcome() (Outcome, bool) {
	r1, r2 := s.Agents[Agent1].Reached, s.Agents[Agent2].Reached
	switch {
	case r1 && r2:
		return Outcome{Tie: true, Label: TieLabel}, true
	case r1:
		return Outcome{Winner: Agent1, Label: s.Names[Agent1]}, true
	case r2:
		return Outcome{Winner: Agent2, Label: s.Names[Agent2]}, true
	default:
		return Outcome{}, false
	}
}
