package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	gen, err := NewGenerator(opts...)
	require.NoError(t, err)
	return gen
}

func TestGenerate_Invariants(t *testing.T) {
	for _, strategy := range []Strategy{StrategyBacktracker, StrategyJumpScan} {
		t.Run(string(strategy), func(t *testing.T) {
			for seed := int64(1); seed <= 50; seed++ {
				gen := newTestGenerator(t, WithSeed(seed), WithStrategy(strategy))
				grid := gen.Generate(Position{X: 1, Y: 1})

				assert.True(t, grid.BorderIntact(), "seed %d: border carved", seed)
				assert.Equal(t, Path, grid.At(grid.Start()), "seed %d: start not open", seed)
				assert.Equal(t, Path, grid.At(grid.Goal()), "seed %d: goal not open", seed)

				_, ok := ShortestPath(grid, grid.Start(), grid.Goal())
				assert.True(t, ok, "seed %d: goal unreachable", seed)
				assert.True(t, IsPerfect(grid), "seed %d: maze is not perfect", seed)
			}
		})
	}
}

func TestGenerate_PathLengthBounds(t *testing.T) {
	gen := newTestGenerator(t, WithSeed(7))
	grid := gen.Generate(Position{X: 1, Y: 1})

	require.Equal(t, 31, grid.Width())
	require.Equal(t, 31, grid.Height())
	assert.Equal(t, Position{X: 29, Y: 29}, grid.Goal())

	steps, ok := ShortestPath(grid, grid.Start(), grid.Goal())
	require.True(t, ok)
	assert.GreaterOrEqual(t, steps, 1)
	assert.LessOrEqual(t, steps, (31*31)/2)
}

func TestGenerate_DeterministicForSeed(t *testing.T) {
	a := newTestGenerator(t, WithSeed(99)).Generate(Position{X: 1, Y: 1})
	b := newTestGenerator(t, WithSeed(99)).Generate(Position{X: 1, Y: 1})
	c := newTestGenerator(t, WithSeed(100)).Generate(Position{X: 1, Y: 1})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c), "different seeds produced the same maze")
}

func TestGenerate_SmallGrids(t *testing.T) {
	sizes := []struct{ w, h int }{{3, 3}, {5, 3}, {3, 7}, {9, 9}}
	for _, size := range sizes {
		gen := newTestGenerator(t, WithSeed(3), WithSize(size.w, size.h))
		grid := gen.Generate(Position{X: 1, Y: 1})
		assert.True(t, IsPerfect(grid), "%dx%d", size.w, size.h)
		assert.True(t, grid.BorderIntact(), "%dx%d", size.w, size.h)
	}
}

func TestNewGenerator_Errors(t *testing.T) {
	_, err := NewGenerator(WithSize(4, 5))
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = NewGenerator(WithStrategy("prim"))
	assert.Error(t, err)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyBacktracker, s)

	s, err = ParseStrategy("jump-scan")
	require.NoError(t, err)
	assert.Equal(t, StrategyJumpScan, s)

	_, err = ParseStrategy("kruskal")
	assert.Error(t, err)
}
