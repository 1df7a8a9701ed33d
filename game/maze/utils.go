package maze

// UnitSteps are the single-cell moves an agent can make.
var UnitSteps = [4]Position{
	{X: 0, Y: -1},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
}

// ShortestPath returns the number of single-cell moves on the shortest open
// route from -> to, using breadth-first search over Path cells.
func ShortestPath(g *Grid, from, to Position) (int, bool) {
	if !g.IsPath(from) || !g.IsPath(to) {
		return 0, false
	}
	dist := make([]int, g.width*g.height)
	for i := range dist {
		dist[i] = -1
	}
	idx := func(p Position) int { return p.Y*g.width + p.X }

	queue := []Position{from}
	dist[idx(from)] = 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return dist[idx(cur)], true
		}
		for _, step := range UnitSteps {
			next := cur.Add(step)
			if !g.IsPath(next) || dist[idx(next)] >= 0 {
				continue
			}
			dist[idx(next)] = dist[idx(cur)] + 1
			queue = append(queue, next)
		}
	}
	return 0, false
}

// CountCells counts the cells of the given kind.
func CountCells(g *Grid, c Cell) int {
	count := 0
	for _, cell := range g.cells {
		if cell == c {
			count++
		}
	}
	return count
}

// DeadEnds counts open rooms with exactly one open neighbour.
func DeadEnds(g *Grid) int {
	count := 0
	for y := 1; y < g.height-1; y += 2 {
		for x := 1; x < g.width-1; x += 2 {
			p := Position{X: x, Y: y}
			if !g.IsPath(p) {
				continue
			}
			open := 0
			for _, step := range UnitSteps {
				if g.IsPath(p.Add(step)) {
					open++
				}
			}
			if open == 1 {
				count++
			}
		}
	}
	return count
}

// IsPerfect reports whether the open cells form a single tree: every room is
// carved, everything is connected, and there are no loops.
func IsPerfect(g *Grid) bool {
	rooms := 0
	for y := 1; y < g.height-1; y += 2 {
		for x := 1; x < g.width-1; x += 2 {
			if !g.IsPath(Position{X: x, Y: y}) {
				return false
			}
			rooms++
		}
	}

	open := CountCells(g, Path)
	// A spanning tree over the rooms has rooms-1 corridor cells.
	if open != rooms+(rooms-1) {
		return false
	}

	seen := make(map[Position]bool, open)
	queue := []Position{g.Start()}
	seen[g.Start()] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, step := range UnitSteps {
			next := cur.Add(step)
			if g.IsPath(next) && !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return len(seen) == open
}
