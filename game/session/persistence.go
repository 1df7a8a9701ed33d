package session

import (
	"errors"
	"fmt"

	"github.com/wricardo/maze-race/game/engine"
)

var (
	ErrSaveNotFound = errors.New("save not found")
	ErrMalformed    = errors.New("malformed save")
)

// SessionPersistence stores the single resumable session.
type SessionPersistence interface {
	// Save writes a snapshot of state, replacing any previous save atomically
	Save(state *engine.SessionState) error

	// Load decodes the save into a freshly allocated state
	Load() (*engine.SessionState, error)

	// Exists reports whether a primary save file is present
	Exists() bool

	// Delete removes the save. Deleting a missing save is not an error.
	Delete() error
}

// IOError is a filesystem failure while touching save data.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports malformed save content. Line is 1-based.
type ParseError struct {
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("save line %d (%s): %v", e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErr(line int, field string, format string, args ...any) *ParseError {
	return &ParseError{
		Line:  line,
		Field: field,
		Err:   fmt.Errorf("%w: "+format, append([]any{ErrMalformed}, args...)...),
	}
}
