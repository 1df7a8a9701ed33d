package maze

import (
	"fmt"
	"math/rand"
	"time"
)

// Strategy selects the carving algorithm.
type Strategy string

const (
	// StrategyBacktracker is the explicit-stack depth-first carve. It visits
	// every room and always yields a perfect maze.
	StrategyBacktracker Strategy = "backtracker"

	// StrategyJumpScan walks a single cursor and, when it dead-ends, scans the
	// room lattice for a carved room that still borders an uncarved one.
	StrategyJumpScan Strategy = "jump-scan"
)

// ParseStrategy maps a config string to a Strategy. Empty selects the backtracker.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyBacktracker:
		return StrategyBacktracker, nil
	case StrategyJumpScan:
		return StrategyJumpScan, nil
	default:
		return "", fmt.Errorf("unknown generator strategy %q", s)
	}
}

// roomSteps are the four axis moves between neighbouring rooms.
var roomSteps = [4]Position{
	{X: 0, Y: -2},
	{X: 0, Y: 2},
	{X: -2, Y: 0},
	{X: 2, Y: 0},
}

// Generator carves mazes of a fixed size.
type Generator struct {
	width    int
	height   int
	strategy Strategy
	rng      *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes generation reproducible.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithStrategy selects the carving algorithm.
func WithStrategy(s Strategy) Option {
	return func(g *Generator) {
		g.strategy = s
	}
}

// WithSize overrides the default 31x31 dimensions. Used by tests and tooling.
func WithSize(width, height int) Option {
	return func(g *Generator) {
		g.width = width
		g.height = height
	}
}

// NewGenerator returns a time-seeded backtracker for Width x Height mazes
// unless options say otherwise.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		width:    Width,
		height:   Height,
		strategy: StrategyBacktracker,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if _, err := NewGrid(g.width, g.height); err != nil {
		return nil, err
	}
	if _, err := ParseStrategy(string(g.strategy)); err != nil {
		return nil, err
	}
	return g, nil
}

// Strategy returns the configured algorithm.
func (g *Generator) Strategy() Strategy { return g.strategy }

// Generate carves a new maze starting at start. Start and goal are always Path.
func (g *Generator) Generate(start Position) *Grid {
	grid, _ := NewGrid(g.width, g.height)

	switch g.strategy {
	case StrategyJumpScan:
		g.carveJumpScan(grid, start)
	default:
		g.carveBacktrack(grid, start)
	}

	grid.Set(start, Path)
	grid.Set(grid.Goal(), Path)
	return grid
}

// shuffledSteps returns the room steps in a Fisher-Yates shuffled order.
func (g *Generator) shuffledSteps() [4]Position {
	steps := roomSteps
	for i := len(steps) - 1; i > 0; i-- {
		j := g.rng.Intn(i + 1)
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}

// carveTo opens the wall between from and the room two steps away along step.
func carveTo(grid *Grid, from, step Position) Position {
	next := from.Add(step)
	grid.Set(Position{X: from.X + step.X/2, Y: from.Y + step.Y/2}, Path)
	grid.Set(next, Path)
	return next
}

// openNeighbour returns the first uncarved interior room reachable from p in
// shuffled order.
func (g *Generator) openNeighbour(grid *Grid, p Position) (Position, bool) {
	for _, step := range g.shuffledSteps() {
		next := p.Add(step)
		if grid.IsInterior(next) && grid.At(next) == Wall {
			return step, true
		}
	}
	return Position{}, false
}

func (g *Generator) carveBacktrack(grid *Grid, start Position) {
	stack := make([]Position, 0, (grid.width/2)*(grid.height/2))
	stack = append(stack, start)
	grid.Set(start, Path)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		step, ok := g.openNeighbour(grid, cur)
		if !ok {
			stack = stack[:len(stack)-1]
			continue
		}
		stack = append(stack, carveTo(grid, cur, step))
	}
}

func (g *Generator) carveJumpScan(grid *Grid, start Position) {
	cur := start
	grid.Set(cur, Path)

	for {
		if step, ok := g.openNeighbour(grid, cur); ok {
			cur = carveTo(grid, cur, step)
			continue
		}
		next, ok := scanForFrontier(grid)
		if !ok {
			return
		}
		cur = next
	}
}

// scanForFrontier finds, in row-major order, a carved room with at least one
// uncarved interior room neighbour.
func scanForFrontier(grid *Grid) (Position, bool) {
	for y := 1; y < grid.height-1; y += 2 {
		for x := 1; x < grid.width-1; x += 2 {
			p := Position{X: x, Y: y}
			if grid.At(p) != Path {
				continue
			}
			for _, step := range roomSteps {
				n := p.Add(step)
				if grid.IsInterior(n) && grid.At(n) == Wall {
					return p, true
				}
			}
		}
	}
	return Position{}, false
}
