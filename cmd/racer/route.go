package main

import (
	"fmt"

	"github.com/wricardo/maze-race/game/maze"
	"github.com/wricardo/maze-race/game/service"
)

var steps = []struct {
	name  string
	delta maze.Position
}{
	{"north", maze.Position{X: 0, Y: -1}},
	{"south", maze.Position{X: 0, Y: 1}},
	{"west", maze.Position{X: -1, Y: 0}},
	{"east", maze.Position{X: 1, Y: 0}},
}

// gridFromView rebuilds a grid from the "0"/"1" rows the API serves.
func gridFromView(view *service.MazeView) (*maze.Grid, error) {
	rows := make([][]maze.Cell, len(view.Rows))
	for y, row := range view.Rows {
		rows[y] = make([]maze.Cell, len(row))
		for x, ch := range row {
			switch ch {
			case '0':
				rows[y][x] = maze.Path
			case '1':
				rows[y][x] = maze.Wall
			default:
				return nil, fmt.Errorf("row %d: unexpected cell %q", y, ch)
			}
		}
	}
	return maze.FromRows(rows)
}

// Route returns the compass directions of a shortest walk from start to goal,
// or nil when the goal cannot be reached.
func Route(g *maze.Grid, start, goal maze.Position) []string {
	if start == goal {
		return []string{}
	}

	type queueItem struct {
		pos  maze.Position
		path []string
	}

	queue := []queueItem{{pos: start, path: []string{}}}
	visited := map[maze.Position]bool{start: true}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, step := range steps {
			next := current.pos.Add(step.delta)
			if visited[next] || !g.IsPath(next) {
				continue
			}

			path := append(append([]string{}, current.path...), step.name)
			if next == goal {
				return path
			}

			visited[next] = true
			queue = append(queue, queueItem{pos: next, path: path})
		}
	}
	return nil
}
