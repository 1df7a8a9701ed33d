package stats

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	name string
	open func(t *testing.T, limit int) Store
}

func backends() []backend {
	return []backend{
		{"file", func(t *testing.T, limit int) Store {
			s, err := NewFileStore(t.TempDir(), limit)
			require.NoError(t, err)
			return s
		}},
		{"sqlite", func(t *testing.T, limit int) Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), DatabaseFile), limit)
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		}},
	}
}

func recordAt(label string, minute int) WinRecord {
	return WinRecord{Label: label, At: time.Date(2024, 3, 9, 14, minute, 5, 0, time.Local)}
}

func TestStore_EmptyTally(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t, 0)
			tally, err := s.Tally()
			require.NoError(t, err)
			assert.Equal(t, Tally{}, tally)
		})
	}
}

func TestStore_TallyIsMonotonic(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t, 0)
			prev := Tally{}
			for _, player := range []int{1, 2, 2, 1, 2} {
				next, err := s.AddWin(player)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, next.Player1Wins, prev.Player1Wins)
				assert.GreaterOrEqual(t, next.Player2Wins, prev.Player2Wins)
				assert.Equal(t, prev.Player1Wins+prev.Player2Wins+1, next.Player1Wins+next.Player2Wins)
				prev = next
			}
			assert.Equal(t, Tally{Player1Wins: 2, Player2Wins: 3}, prev)

			_, err := s.AddWin(3)
			assert.ErrorIs(t, err, ErrInvalidPlayer)

			require.NoError(t, s.ResetTally())
			tally, err := s.Tally()
			require.NoError(t, err)
			assert.Equal(t, Tally{}, tally)
		})
	}
}

func TestStore_HistoryCap(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t, 3)
			for i := 0; i < 5; i++ {
				require.NoError(t, s.AppendHistory(recordAt(fmt.Sprintf("p%d", i), i)))
			}

			history, err := s.History()
			require.NoError(t, err)
			require.Len(t, history, 3)
			assert.Equal(t, "p4", history[0].Label)
			assert.Equal(t, "p3", history[1].Label)
			assert.Equal(t, "p2", history[2].Label)
			assert.True(t, history[0].At.Equal(recordAt("", 4).At))
		})
	}
}

func TestFileStore_Format(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, 3)
	require.NoError(t, err)

	_, err = s.AddWin(1)
	require.NoError(t, err)
	_, err = s.AddWin(2)
	require.NoError(t, err)
	_, err = s.AddWin(2)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, TallyFile))
	require.NoError(t, err)
	assert.Equal(t, "1 2\n", string(data))

	require.NoError(t, s.AppendHistory(recordAt("Tie", 1)))
	require.NoError(t, s.AppendHistory(recordAt("Ann", 2)))

	data, err = os.ReadFile(filepath.Join(dir, HistoryFile))
	require.NoError(t, err)
	assert.Equal(t, "Ann at 2024-03-09 14:02:05\nTie at 2024-03-09 14:01:05\n", string(data))
}

func TestFileStore_SkipsMalformedHistory(t *testing.T) {
	dir := t.TempDir()
	content := "Ann at 2024-03-09 14:02:05\ngarbage\nBob at yesterday\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, HistoryFile), []byte(content), 0644))

	s, err := NewFileStore(dir, 3)
	require.NoError(t, err)

	history, err := s.History()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Ann", history[0].Label)
}

func TestFileStore_MalformedTally(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TallyFile), []byte("three"), 0644))

	s, err := NewFileStore(dir, 3)
	require.NoError(t, err)

	_, err = s.Tally()
	assert.Error(t, err)
}

func TestParseWinRecord(t *testing.T) {
	rec, err := ParseWinRecord("Meet at Noon at 2024-01-02 03:04:05")
	require.NoError(t, err)
	assert.Equal(t, "Meet at Noon", rec.Label)
	assert.Equal(t, "Meet at Noon at 2024-01-02 03:04:05", rec.String())

	_, err = ParseWinRecord("no timestamp here")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("file", dir, 0)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open("sqlite", filepath.Join(dir, "nested"), 0)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())
	assert.FileExists(t, filepath.Join(dir, "nested", DatabaseFile))

	_, err = Open("redis", dir, 0)
	assert.Error(t, err)
}
