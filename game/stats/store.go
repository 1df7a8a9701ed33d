package stats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultHistoryLimit is how many win records are kept when no limit is configured.
const DefaultHistoryLimit = 3

// TimeLayout is the timestamp format used in win history lines.
const TimeLayout = "2006-01-02 15:04:05"

var ErrInvalidPlayer = errors.New("invalid player")

// Tally counts outright wins per player slot. Ties are never counted.
type Tally struct {
	Player1Wins uint `json:"player1_wins"`
	Player2Wins uint `json:"player2_wins"`
}

// WinRecord is one line of win history.
type WinRecord struct {
	Label string    `json:"label"`
	At    time.Time `json:"at"`
}

// String renders the record as "<label> at YYYY-MM-DD HH:MM:SS".
func (r WinRecord) String() string {
	return fmt.Sprintf("%s at %s", r.Label, r.At.Format(TimeLayout))
}

// ParseWinRecord reverses WinRecord.String. Labels may themselves contain " at ".
func ParseWinRecord(line string) (WinRecord, error) {
	i := strings.LastIndex(line, " at ")
	if i < 0 {
		return WinRecord{}, fmt.Errorf("malformed history line %q", line)
	}
	at, err := time.ParseInLocation(TimeLayout, line[i+len(" at "):], time.Local)
	if err != nil {
		return WinRecord{}, fmt.Errorf("malformed history time in %q: %w", line, err)
	}
	return WinRecord{Label: line[:i], At: at}, nil
}

// Store keeps the win tally and the capped win history across sessions.
type Store interface {
	// Tally returns the current counts; a store with nothing recorded yields 0/0.
	Tally() (Tally, error)

	// AddWin increments the count for player 1 or 2 and returns the new tally.
	AddWin(player int) (Tally, error)

	// ResetTally zeroes both counts.
	ResetTally() error

	// History returns win records newest first.
	History() ([]WinRecord, error)

	// AppendHistory prepends rec and drops records beyond the limit.
	AppendHistory(rec WinRecord) error

	Close() error
}

func increment(t Tally, player int) (Tally, error) {
	switch player {
	case 1:
		t.Player1Wins++
	case 2:
		t.Player2Wins++
	default:
		return t, fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}
	return t, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	return limit
}

// Open returns the backend named by kind ("file" or "sqlite") rooted at dir.
func Open(kind, dir string, limit int) (Store, error) {
	switch kind {
	case "", "file":
		return NewFileStore(dir, limit)
	case "sqlite":
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create stats directory: %w", err)
		}
		return NewSQLiteStore(filepath.Join(dir, DatabaseFile), limit)
	default:
		return nil, fmt.Errorf("unknown stats backend %q", kind)
	}
}
