package session

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wricardo/maze-race/game/engine"
	"github.com/wricardo/maze-race/game/maze"
)

// Encode writes state in the line-oriented save format:
//
//	mode tag
//	player 1 name
//	player 2 name
//	agent 1 "x y"
//	agent 2 "x y"
//	reached "r1 r2"
//	countdown
//	start "x y"
//	goal "x y"
//	one row per maze line, cells "0" (path) or "1" (wall) separated by spaces
func Encode(w io.Writer, s *engine.SessionState) error {
	if s == nil || s.Maze == nil {
		return fmt.Errorf("cannot encode session without a maze")
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", int(s.Mode))
	fmt.Fprintf(bw, "%s\n%s\n", s.Names[engine.Agent1], s.Names[engine.Agent2])
	for _, a := range s.Agents {
		fmt.Fprintf(bw, "%d %d\n", a.Pos.X, a.Pos.Y)
	}
	fmt.Fprintf(bw, "%d %d\n", boolInt(s.Agents[engine.Agent1].Reached), boolInt(s.Agents[engine.Agent2].Reached))
	fmt.Fprintf(bw, "%d\n", s.Countdown)
	fmt.Fprintf(bw, "%d %d\n", s.Start.X, s.Start.Y)
	fmt.Fprintf(bw, "%d %d\n", s.Goal.X, s.Goal.Y)

	for _, row := range s.Maze.Rows() {
		for x, c := range row {
			if x > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteByte('0' + byte(c))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// lineReader hands out lines with their 1-based number.
type lineReader struct {
	scanner *bufio.Scanner
	line    int
}

func (lr *lineReader) next(field string) (string, error) {
	if !lr.scanner.Scan() {
		if err := lr.scanner.Err(); err != nil {
			return "", err
		}
		return "", parseErr(lr.line+1, field, "unexpected end of file")
	}
	lr.line++
	return strings.TrimRight(lr.scanner.Text(), "\r"), nil
}

func (lr *lineReader) ints(field string, n int) ([]int, error) {
	text, err := lr.next(field)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(text)
	if len(fields) != n {
		return nil, parseErr(lr.line, field, "expected %d integers, got %q", n, text)
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, parseErr(lr.line, field, "not an integer: %q", f)
		}
		out[i] = v
	}
	return out, nil
}

func (lr *lineReader) position(field string) (maze.Position, error) {
	v, err := lr.ints(field, 2)
	if err != nil {
		return maze.Position{}, err
	}
	return maze.Position{X: v[0], Y: v[1]}, nil
}

// Decode parses the save format into a new SessionState. Any malformed field,
// out-of-range value or inconsistent state is reported as a *ParseError.
func Decode(r io.Reader) (*engine.SessionState, error) {
	lr := &lineReader{scanner: bufio.NewScanner(r)}
	s := &engine.SessionState{}

	if err := decodeMode(lr, s); err != nil {
		return nil, err
	}

	for i := range s.Names {
		field := fmt.Sprintf("player%d name", i+1)
		name, err := lr.next(field)
		if err != nil {
			return nil, err
		}
		if len(name) > engine.MaxNameLength {
			return nil, parseErr(lr.line, field, "name longer than %d characters", engine.MaxNameLength)
		}
		s.Names[i] = name
	}

	for i := range s.Agents {
		pos, err := lr.position(fmt.Sprintf("agent%d position", i+1))
		if err != nil {
			return nil, err
		}
		s.Agents[i].Pos = pos
	}

	reached, err := lr.ints("reached", 2)
	if err != nil {
		return nil, err
	}
	for i, v := range reached {
		if v != 0 && v != 1 {
			return nil, parseErr(lr.line, "reached", "flag must be 0 or 1, got %d", v)
		}
		s.Agents[i].Reached = v == 1
	}

	countdown, err := lr.ints("countdown", 1)
	if err != nil {
		return nil, err
	}
	if countdown[0] < 0 || countdown[0] > engine.CountdownTicks {
		return nil, parseErr(lr.line, "countdown", "out of range: %d", countdown[0])
	}
	s.Countdown = countdown[0]

	if s.Start, err = lr.position("start"); err != nil {
		return nil, err
	}
	if s.Goal, err = lr.position("goal"); err != nil {
		return nil, err
	}

	grid, err := decodeGrid(lr)
	if err != nil {
		return nil, err
	}
	s.Maze = grid

	if err := s.Validate(); err != nil {
		return nil, &ParseError{Line: lr.line, Field: "state", Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	return s, nil
}

func decodeMode(lr *lineReader, s *engine.SessionState) error {
	tag, err := lr.ints("mode", 1)
	if err != nil {
		return err
	}
	m, err := engine.ParseMode(tag[0])
	if err != nil {
		return &ParseError{Line: lr.line, Field: "mode", Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	if m == engine.ModeMenu {
		return parseErr(lr.line, "mode", "menu is not a resumable mode")
	}
	s.Mode = m
	return nil
}

func decodeGrid(lr *lineReader) (*maze.Grid, error) {
	var rows [][]maze.Cell
	for lr.scanner.Scan() {
		lr.line++
		text := strings.TrimSpace(lr.scanner.Text())
		if text == "" {
			break
		}
		fields := strings.Fields(text)
		if len(rows) > 0 && len(fields) != len(rows[0]) {
			return nil, parseErr(lr.line, "maze", "row has %d cells, want %d", len(fields), len(rows[0]))
		}
		row := make([]maze.Cell, len(fields))
		for x, f := range fields {
			switch f {
			case "0":
				row[x] = maze.Path
			case "1":
				row[x] = maze.Wall
			default:
				return nil, parseErr(lr.line, "maze", "cell %d must be 0 or 1, got %q", x, f)
			}
		}
		rows = append(rows, row)
	}
	if err := lr.scanner.Err(); err != nil {
		return nil, err
	}

	// Only blank lines may follow the maze.
	for lr.scanner.Scan() {
		lr.line++
		if strings.TrimSpace(lr.scanner.Text()) != "" {
			return nil, parseErr(lr.line, "maze", "unexpected content after maze")
		}
	}

	grid, err := maze.FromRows(rows)
	if err != nil {
		return nil, &ParseError{Line: lr.line, Field: "maze", Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	return grid, nil
}
