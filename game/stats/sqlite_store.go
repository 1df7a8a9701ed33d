package stats

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DatabaseFile is the default SQLite file name inside the data directory.
const DatabaseFile = "stats.db"

// SQLiteStore keeps tally and history in a single SQLite database.
type SQLiteStore struct {
	db    *sql.DB
	limit int
}

// NewSQLiteStore opens or creates the database at dbPath and runs migrations.
func NewSQLiteStore(dbPath string, limit int) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&cache=shared", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, limit: normalizeLimit(limit)}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate stats database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tally (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			player1_wins INTEGER NOT NULL DEFAULT 0,
			player2_wins INTEGER NOT NULL DEFAULT 0
		);`,
		`INSERT OR IGNORE INTO tally (id, player1_wins, player2_wins) VALUES (1, 0, 0);`,
		`CREATE TABLE IF NOT EXISTS win_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			label TEXT NOT NULL,
			won_at TEXT NOT NULL
		);`,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Tally() (Tally, error) {
	var p1, p2 int64
	err := s.db.QueryRow(`SELECT player1_wins, player2_wins FROM tally WHERE id = 1`).Scan(&p1, &p2)
	if err != nil {
		return Tally{}, fmt.Errorf("failed to read tally: %w", err)
	}
	return Tally{Player1Wins: uint(p1), Player2Wins: uint(p2)}, nil
}

func (s *SQLiteStore) AddWin(player int) (Tally, error) {
	var q string
	switch player {
	case 1:
		q = `UPDATE tally SET player1_wins = player1_wins + 1 WHERE id = 1`
	case 2:
		q = `UPDATE tally SET player2_wins = player2_wins + 1 WHERE id = 1`
	default:
		return Tally{}, fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}
	if _, err := s.db.Exec(q); err != nil {
		return Tally{}, fmt.Errorf("failed to update tally: %w", err)
	}
	return s.Tally()
}

func (s *SQLiteStore) ResetTally() error {
	if _, err := s.db.Exec(`UPDATE tally SET player1_wins = 0, player2_wins = 0 WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to reset tally: %w", err)
	}
	return nil
}

func (s *SQLiteStore) History() ([]WinRecord, error) {
	rows, err := s.db.Query(`SELECT label, won_at FROM win_history ORDER BY id DESC LIMIT ?`, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query win history: %w", err)
	}
	defer rows.Close()

	var records []WinRecord
	for rows.Next() {
		var label, wonAt string
		if err := rows.Scan(&label, &wonAt); err != nil {
			return nil, err
		}
		at, err := time.ParseInLocation(TimeLayout, wonAt, time.Local)
		if err != nil {
			return nil, fmt.Errorf("malformed history time %q: %w", wonAt, err)
		}
		records = append(records, WinRecord{Label: label, At: at})
	}
	return records, rows.Err()
}

// AppendHistory inserts rec and prunes rows beyond the limit in one transaction.
func (s *SQLiteStore) AppendHistory(rec WinRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO win_history (label, won_at) VALUES (?, ?)`,
		rec.Label, rec.At.Format(TimeLayout)); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert win record: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM win_history WHERE id NOT IN (
		SELECT id FROM win_history ORDER BY id DESC LIMIT ?)`, s.limit); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prune win history: %w", err)
	}
	return tx.Commit()
}
