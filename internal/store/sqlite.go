package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mindtrack/api/internal/models"
)

// SQLiteStore is the embedded file-based backend.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS habits (
	id TEXT PRIMARY KEY,
	owner TEXT NOT NULL,
	name TEXT NOT NULL,
	is_deletable INTEGER NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL,
	UNIQUE(owner, name)
);
CREATE TABLE IF NOT EXISTS day_logs (
	owner TEXT NOT NULL,
	date TEXT NOT NULL,
	habits_json TEXT NOT NULL,
	logged_at TIMESTAMP NOT NULL,
	PRIMARY KEY (owner, date)
);
`

// NewSQLiteStore opens (creating if necessary) the database file at path and
// bootstraps the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureDefaults(ctx context.Context, owner string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seeding transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var seeded bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM day_logs WHERE owner = ? AND date = ?)`,
		owner, MetaKey,
	).Scan(&seeded)
	if err != nil {
		return fmt.Errorf("failed to check seeding marker: %w", err)
	}
	if seeded {
		return nil
	}

	// ON CONFLICT DO NOTHING keeps seeding idempotent when a concurrent first
	// request already wrote some of the rows.
	now := time.Now().UTC()
	for i, name := range defaultHabits {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO habits (id, owner, name, is_deletable, created_at) VALUES (?, ?, ?, 0, ?)
			 ON CONFLICT(owner, name) DO NOTHING`,
			uuid.NewString(), owner, name, now.Add(time.Duration(i)*time.Microsecond),
		)
		if err != nil {
			return fmt.Errorf("failed to seed default habit: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO day_logs (owner, date, habits_json, logged_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(owner, date) DO NOTHING`,
		owner, MetaKey, `{"default_habits_set":true}`, now,
	)
	if err != nil {
		return fmt.Errorf("failed to write seeding marker: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seeding: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListHabits(ctx context.Context, owner string) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, is_deletable, created_at FROM habits WHERE owner = ? ORDER BY created_at`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		var h models.Habit
		if err := rows.Scan(&h.ID, &h.Name, &h.Deletable, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating habits: %w", err)
	}

	return habits, nil
}

func (s *SQLiteStore) AddHabit(ctx context.Context, owner, name string) (*models.Habit, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM habits WHERE owner = ? AND name = ?)`,
		owner, name,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate habit: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("habit %q: %w", name, ErrDuplicateName)
	}

	habit := &models.Habit{
		ID:        uuid.NewString(),
		Name:      name,
		Deletable: true,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO habits (id, owner, name, is_deletable, created_at) VALUES (?, ?, ?, 1, ?)`,
		habit.ID, owner, habit.Name, habit.CreatedAt,
	)
	if err != nil {
		// Two concurrent adds can both pass the check; the unique index wins.
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, fmt.Errorf("habit %q: %w", name, ErrDuplicateName)
		}
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	return habit, nil
}

func (s *SQLiteStore) DeleteHabit(ctx context.Context, owner, id string) error {
	var deletable bool
	err := s.db.QueryRowContext(ctx,
		`SELECT is_deletable FROM habits WHERE owner = ? AND id = ?`,
		owner, id,
	).Scan(&deletable)
	if err == sql.ErrNoRows {
		return fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get habit: %w", err)
	}
	if !deletable {
		return fmt.Errorf("habit %s: %w", id, ErrNotDeletable)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE owner = ? AND id = ?`, owner, id); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DayRecords(ctx context.Context, owner string) ([]DayRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, habits_json FROM day_logs WHERE owner = ? AND date != ? ORDER BY date`,
		owner, MetaKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query day records: %w", err)
	}
	defer rows.Close()

	var records []DayRecord
	for rows.Next() {
		var rec DayRecord
		if err := rows.Scan(&rec.Date, &rec.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan day record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating day records: %w", err)
	}

	return records, nil
}

func (s *SQLiteStore) DayRecord(ctx context.Context, owner, date string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT habits_json FROM day_logs WHERE owner = ? AND date = ?`,
		owner, date,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("day record %s: %w", date, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get day record: %w", err)
	}
	return payload, nil
}

func (s *SQLiteStore) PutDayRecord(ctx context.Context, owner, date string, habits []string) error {
	if habits == nil {
		habits = []string{}
	}
	payload, err := json.Marshal(habits)
	if err != nil {
		return fmt.Errorf("failed to marshal habits: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO day_logs (owner, date, habits_json, logged_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(owner, date) DO UPDATE SET habits_json = excluded.habits_json, logged_at = excluded.logged_at`,
		owner, date, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert day record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
