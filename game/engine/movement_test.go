package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/maze-race/game/maze"
)

// corridorGrid is a 5x5 maze with a single L-shaped corridor:
//
//	#####
//	#SOO#
//	###O#
//	###G#
//	#####
func corridorGrid(t *testing.T) *maze.Grid {
	t.Helper()
	g, err := maze.NewGrid(5, 5)
	require.NoError(t, err)
	for _, p := range []maze.Position{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 2}, {X: 3, Y: 3}} {
		g.Set(p, maze.Path)
	}
	return g
}

func createTestState(t *testing.T) *SessionState {
	t.Helper()
	s := NewSessionState(corridorGrid(t))
	s.Mode = ModePlaying
	return s
}

func TestCanMoveTo(t *testing.T) {
	s := createTestState(t)
	// Open a border cell to prove the interior rule, not just the wall check.
	s.Maze.Set(maze.Position{X: 4, Y: 1}, maze.Path)

	tests := []struct {
		name     string
		pos      maze.Position
		expected bool
	}{
		{"start room", maze.Position{X: 1, Y: 1}, true},
		{"corridor", maze.Position{X: 2, Y: 1}, true},
		{"goal", maze.Position{X: 3, Y: 3}, true},
		{"interior wall", maze.Position{X: 1, Y: 2}, false},
		{"open border cell", maze.Position{X: 4, Y: 1}, false},
		{"border wall", maze.Position{X: 0, Y: 0}, false},
		{"off grid", maze.Position{X: -1, Y: 1}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, s.CanMoveTo(test.pos), "CanMoveTo(%v)", test.pos)
		})
	}
}

func TestMoveAgent_DirectionMapping(t *testing.T) {
	tests := []struct {
		dir      Direction
		from, to maze.Position
	}{
		{East, maze.Position{X: 1, Y: 1}, maze.Position{X: 2, Y: 1}},
		{West, maze.Position{X: 2, Y: 1}, maze.Position{X: 1, Y: 1}},
		{South, maze.Position{X: 3, Y: 1}, maze.Position{X: 3, Y: 2}},
		{North, maze.Position{X: 3, Y: 2}, maze.Position{X: 3, Y: 1}},
	}

	for _, test := range tests {
		t.Run(test.dir.String(), func(t *testing.T) {
			s := createTestState(t)
			s.Agents[Agent1].Pos = test.from
			require.True(t, s.MoveAgent(Agent1, test.dir), "move %s from %v", test.dir, test.from)
			assert.Equal(t, test.to, s.Agents[Agent1].Pos)
		})
	}
}

func TestMoveAgent_BlockedMovesLeavePositionUnchanged(t *testing.T) {
	s := createTestState(t)
	start := s.Agents[Agent1].Pos

	for _, dir := range []Direction{North, South, West} {
		assert.False(t, s.MoveAgent(Agent1, dir), "move %s from start should be blocked", dir)
		assert.Equal(t, start, s.Agents[Agent1].Pos, "position changed after blocked move %s", dir)
	}

	// Repeated blocked moves stay put
	for i := 0; i < 3; i++ {
		s.MoveAgent(Agent1, North)
	}
	assert.Equal(t, start, s.Agents[Agent1].Pos)
}

func TestMoveAgent_AgentsAreIndependent(t *testing.T) {
	s := createTestState(t)
	s.MoveAgent(Agent1, East)

	assert.Equal(t, s.Start, s.Agents[Agent2].Pos, "agent2 should not move when agent1 does")
}

func TestMoveAgent_ReachingGoalFreezesAgent(t *testing.T) {
	s := createTestState(t)
	for _, dir := range []Direction{East, East, South, South} {
		require.True(t, s.MoveAgent(Agent1, dir), "move %s", dir)
	}

	a := s.Agents[Agent1]
	require.True(t, a.Reached, "agent on the goal should be marked reached")
	assert.Equal(t, s.Goal, a.Pos)

	assert.False(t, s.MoveAgent(Agent1, North), "reached agent should not move")
	assert.Equal(t, a, s.Agents[Agent1])
}

func TestMoveAgent_InvalidAgent(t *testing.T) {
	s := createTestState(t)
	assert.False(t, s.MoveAgent(AgentID(5), East))
}

func TestPossibleMoves(t *testing.T) {
	s := createTestState(t)
	assert.Equal(t, []Direction{East}, s.PossibleMoves(Agent1))

	s.Agents[Agent2].Pos = maze.Position{X: 3, Y: 1}
	assert.Len(t, s.PossibleMoves(Agent2), 2, "two moves at the corner")

	s.Agents[Agent2] = Agent{Pos: s.Goal, Reached: true}
	assert.Nil(t, s.PossibleMoves(Agent2))
}
