package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/TornikeK2/Meeting-prep-assistant/internal/model"
)

// SQLiteStore persists generated briefs in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at the given path and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS briefs (
	id            TEXT PRIMARY KEY,
	meeting_id    TEXT NOT NULL,
	meeting_title TEXT NOT NULL DEFAULT '',
	start_time    TEXT NOT NULL DEFAULT '',
	priority      TEXT NOT NULL DEFAULT 'LOW',
	summary       TEXT NOT NULL DEFAULT '',
	email_count   INTEGER NOT NULL DEFAULT 0,
	generated_at  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_briefs_meeting ON briefs(meeting_id);
CREATE INDEX IF NOT EXISTS idx_briefs_start   ON briefs(start_time);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveBrief inserts a brief, replacing any earlier brief for the same meeting
// so repeated runs keep only the freshest preparation.
func (s *SQLiteStore) SaveBrief(ctx context.Context, b model.Brief) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM briefs WHERE meeting_id = ?", b.MeetingID); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO briefs (id, meeting_id, meeting_title, start_time, priority, summary, email_count, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.MeetingID, b.MeetingTitle,
		b.StartTime.UTC().Format(time.RFC3339),
		string(b.Priority), b.Summary, b.EmailCount,
		b.GeneratedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	return tx.Commit()
}

// ListBriefs returns stored briefs ordered by meeting start time, soonest first.
func (s *SQLiteStore) ListBriefs(ctx context.Context) ([]model.Brief, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, meeting_id, meeting_title, start_time, priority, summary, email_count, generated_at
		FROM briefs ORDER BY start_time ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var briefs []model.Brief
	for rows.Next() {
		b, err := scanBrief(rows)
		if err != nil {
			return nil, err
		}
		briefs = append(briefs, b)
	}
	return briefs, rows.Err()
}

// GetBrief fetches one brief by id. Returns sql.ErrNoRows when absent.
func (s *SQLiteStore) GetBrief(ctx context.Context, id string) (model.Brief, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, meeting_id, meeting_title, start_time, priority, summary, email_count, generated_at
		FROM briefs WHERE id = ?
	`, id)
	return scanBrief(row)
}

// CountBriefs reports how many briefs are stored.
func (s *SQLiteStore) CountBriefs(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM briefs").Scan(&count)
	return count, err
}

// PruneBefore deletes briefs for meetings that started before the cutoff and
// returns how many were removed.
func (s *SQLiteStore) PruneBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM briefs WHERE start_time < ?", cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBrief(row rowScanner) (model.Brief, error) {
	var (
		b         model.Brief
		start     string
		priority  string
		generated string
	)
	if err := row.Scan(&b.ID, &b.MeetingID, &b.MeetingTitle, &start, &priority, &b.Summary, &b.EmailCount, &generated); err != nil {
		return model.Brief{}, err
	}
	b.Priority = model.Priority(priority)
	if t, err := time.Parse(time.RFC3339, start); err == nil {
		b.StartTime = t
	}
	if t, err := time.Parse(time.RFC3339, generated); err == nil {
		b.GeneratedAt = t
	}
	return b, nil
}
