package maze

import (
	"errors"
	"fmt"
	"strings"
)

// Cell classifies a single grid cell. The numeric values are the on-disk codes.
type Cell uint8

const (
	Path Cell = 0
	Wall Cell = 1
)

// Fixed race dimensions.
const (
	Width  = 31
	Height = 31
)

var ErrInvalidSize = errors.New("grid dimensions must be odd and at least 3")

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p offset by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Grid is a rectangular wall/path lattice. Rooms sit on odd coordinates.
type Grid struct {
	width  int
	height int
	cells  []Cell
}

// NewGrid returns a grid of the given size filled with walls.
func NewGrid(width, height int) (*Grid, error) {
	if width < 3 || height < 3 || width%2 == 0 || height%2 == 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	g.Fill(Wall)
	return g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Start is the fixed entry room.
func (g *Grid) Start() Position { return Position{X: 1, Y: 1} }

// Goal is the room diagonally opposite the start.
func (g *Grid) Goal() Position { return Position{X: g.width - 2, Y: g.height - 2} }

// Fill sets every cell to c.
func (g *Grid) Fill(c Cell) {
	for i := range g.cells {
		g.cells[i] = c
	}
}

// InBounds reports whether p lies anywhere on the grid, border included.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// IsInterior reports whether p lies strictly inside the outer border.
func (g *Grid) IsInterior(p Position) bool {
	return p.X > 0 && p.X < g.width-1 && p.Y > 0 && p.Y < g.height-1
}

// At returns the cell at p. Positions off the grid read as Wall.
func (g *Grid) At(p Position) Cell {
	if !g.InBounds(p) {
		return Wall
	}
	return g.cells[p.Y*g.width+p.X]
}

// Set overwrites the cell at p. Positions off the grid are ignored.
func (g *Grid) Set(p Position, c Cell) {
	if !g.InBounds(p) {
		return
	}
	g.cells[p.Y*g.width+p.X] = c
}

// IsPath reports whether p is an open cell.
func (g *Grid) IsPath(p Position) bool {
	return g.At(p) == Path
}

// Rows returns a copy of the grid as row-major slices.
func (g *Grid) Rows() [][]Cell {
	rows := make([][]Cell, g.height)
	for y := range rows {
		rows[y] = make([]Cell, g.width)
		copy(rows[y], g.cells[y*g.width:(y+1)*g.width])
	}
	return rows
}

// FromRows builds a grid from row-major cells. All rows must share one odd width.
func FromRows(rows [][]Cell) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidSize)
	}
	g, err := NewGrid(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("row %d has %d cells, want %d", y, len(row), g.width)
		}
		for x, c := range row {
			if c != Path && c != Wall {
				return nil, fmt.Errorf("row %d col %d: invalid cell %d", y, x, c)
			}
			g.cells[y*g.width+x] = c
		}
	}
	return g, nil
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{width: g.width, height: g.height, cells: make([]Cell, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Equal reports whether both grids have the same size and cells.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// BorderIntact reports whether every border cell is a wall.
func (g *Grid) BorderIntact() bool {
	for x := 0; x < g.width; x++ {
		if g.At(Position{X: x, Y: 0}) != Wall || g.At(Position{X: x, Y: g.height - 1}) != Wall {
			return false
		}
	}
	for y := 0; y < g.height; y++ {
		if g.At(Position{X: 0, Y: y}) != Wall || g.At(Position{X: g.width - 1, Y: y}) != Wall {
			return false
		}
	}
	return true
}

// String renders the grid with '#' for walls, ' ' for paths, S and G for the
// start and goal rooms.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.width + 1) * g.height)
	start, goal := g.Start(), g.Goal()
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			p := Position{X: x, Y: y}
			switch {
			case p == start:
				b.WriteByte('S')
			case p == goal:
				b.WriteByte('G')
			case g.At(p) == Wall:
				b.WriteByte('#')
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
