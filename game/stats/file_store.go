package stats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/moby/sys/atomicwriter"
)

const (
	TallyFile   = "wins_count.txt"
	HistoryFile = "winhistory.txt"
)

// FileStore keeps the tally and history as two small text files in a directory.
// Each write replaces the whole file atomically.
type FileStore struct {
	dir   string
	limit int
}

// NewFileStore creates dir if needed and returns a store capped at limit records.
func NewFileStore(dir string, limit int) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create stats directory: %w", err)
	}
	return &FileStore{dir: dir, limit: normalizeLimit(limit)}, nil
}

func (fs *FileStore) tallyPath() string   { return filepath.Join(fs.dir, TallyFile) }
func (fs *FileStore) historyPath() string { return filepath.Join(fs.dir, HistoryFile) }

// Tally reads "<p1> <p2>". A missing file is 0/0.
func (fs *FileStore) Tally() (Tally, error) {
	data, err := os.ReadFile(fs.tallyPath())
	if errors.Is(err, os.ErrNotExist) {
		return Tally{}, nil
	}
	if err != nil {
		return Tally{}, fmt.Errorf("failed to read tally: %w", err)
	}

	var t Tally
	if _, err := fmt.Sscanf(strings.TrimSpace(string(data)), "%d %d", &t.Player1Wins, &t.Player2Wins); err != nil {
		return Tally{}, fmt.Errorf("malformed tally file: %w", err)
	}
	return t, nil
}

func (fs *FileStore) writeTally(t Tally) error {
	data := fmt.Sprintf("%d %d\n", t.Player1Wins, t.Player2Wins)
	if err := atomicwriter.WriteFile(fs.tallyPath(), []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write tally: %w", err)
	}
	return nil
}

// AddWin increments one player's count and persists the result.
func (fs *FileStore) AddWin(player int) (Tally, error) {
	t, err := fs.Tally()
	if err != nil {
		return Tally{}, err
	}
	t, err = increment(t, player)
	if err != nil {
		return Tally{}, err
	}
	return t, fs.writeTally(t)
}

func (fs *FileStore) ResetTally() error {
	return fs.writeTally(Tally{})
}

// History reads the history file newest first. Malformed lines are skipped.
func (fs *FileStore) History() ([]WinRecord, error) {
	data, err := os.ReadFile(fs.historyPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read win history: %w", err)
	}

	var records []WinRecord
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		rec, err := ParseWinRecord(line)
		if err != nil {
			log.Printf("Warning: skipping win history entry: %v", err)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan win history: %w", err)
	}
	return records, nil
}

// AppendHistory rewrites the history file with rec first, capped at the limit.
func (fs *FileStore) AppendHistory(rec WinRecord) error {
	existing, err := fs.History()
	if err != nil {
		return err
	}

	records := append([]WinRecord{rec}, existing...)
	if len(records) > fs.limit {
		records = records[:fs.limit]
	}

	var buf bytes.Buffer
	for _, r := range records {
		buf.WriteString(r.String())
		buf.WriteByte('\n')
	}
	if err := atomicwriter.WriteFile(fs.historyPath(), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write win history: %w", err)
	}
	return nil
}

func (fs *FileStore) Close() error { return nil }
