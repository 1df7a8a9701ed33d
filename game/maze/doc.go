// Package maze provides the wall/path lattice and the generators that carve it.
//
// A Grid is an odd-by-odd array of cells. Cells with two odd coordinates are
// rooms; the cells between them are walls that carving may open. The outer
// border is never carved. The start room is (1,1) and the goal room is
// (W-2,H-2).
//
// Generators:
//
//   - StrategyBacktracker: explicit-stack depth-first search. Every room is
//     visited and the result is a perfect maze (one simple path between any
//     two rooms), so the goal is always reachable.
//   - StrategyJumpScan: a stackless cursor that, on reaching a dead end,
//     scans the lattice in row-major order for a carved room bordering an
//     uncarved one and resumes from there.
//
// Usage:
//
//	gen, err := maze.NewGenerator(maze.WithSeed(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//	grid := gen.Generate(maze.Position{X: 1, Y: 1})
//	steps, ok := maze.ShortestPath(grid, grid.Start(), grid.Goal())
package maze
