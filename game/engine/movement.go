package engine

import "github.com/wricardo/maze-race/game/maze"

// CanMoveTo checks if an agent may stand on p: strictly inside the border
// and on an open cell.
func (s *SessionState) CanMoveTo(p maze.Position) bool {
	return s.Maze.IsInterior(p) && s.Maze.IsPath(p)
}

// MoveAgent attempts to step the agent one cell in dir. Blocked moves leave
// the agent where it is. Agents that already reached the goal are frozen.
// Returns whether the agent moved.
func (s *SessionState) MoveAgent(id AgentID, dir Direction) bool {
	if !id.Valid() {
		return false
	}
	agent := &s.Agents[id]
	if agent.Reached {
		return false
	}

	target := agent.Pos.Add(dir.Offset())
	if target == agent.Pos || !s.CanMoveTo(target) {
		return false
	}

	agent.Pos = target
	if agent.Pos == s.Goal {
		agent.Reached = true
	}
	return true
}

// PossibleMoves returns the directions id can currently take.
func (s *SessionState) PossibleMoves(id AgentID) []Direction {
	if !id.Valid() || s.Agents[id].Reached {
		return nil
	}
	var possible []Direction
	for _, dir := range []Direction{North, South, West, East} {
		if s.CanMoveTo(s.Agents[id].Pos.Add(dir.Offset())) {
			possible = append(possible, dir)
		}
	}
	return possible
}
