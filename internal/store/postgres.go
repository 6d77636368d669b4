package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mindtrack/api/internal/models"
)

// PostgresStore is the managed relational backend.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS habits (
	id UUID PRIMARY KEY,
	owner TEXT NOT NULL,
	name TEXT NOT NULL,
	is_deletable BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE(owner, name)
);
CREATE TABLE IF NOT EXISTS day_logs (
	owner TEXT NOT NULL,
	date TEXT NOT NULL,
	habits_json TEXT NOT NULL,
	logged_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (owner, date)
);
`

// NewPostgresStore connects to the database and bootstraps the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) EnsureDefaults(ctx context.Context, owner string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seeding transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var seeded bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM day_logs WHERE owner = $1 AND date = $2)`,
		owner, MetaKey,
	).Scan(&seeded)
	if err != nil {
		return fmt.Errorf("failed to check seeding marker: %w", err)
	}
	if seeded {
		return nil
	}

	// ON CONFLICT DO NOTHING keeps seeding idempotent when a concurrent first
	// request already wrote some of the rows; an error would also poison the
	// transaction.
	now := time.Now().UTC()
	for i, name := range defaultHabits {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO habits (id, owner, name, is_deletable, created_at) VALUES ($1, $2, $3, FALSE, $4)
			 ON CONFLICT (owner, name) DO NOTHING`,
			uuid.New(), owner, name, now.Add(time.Duration(i)*time.Microsecond),
		)
		if err != nil {
			return fmt.Errorf("failed to seed default habit: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO day_logs (owner, date, habits_json, logged_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (owner, date) DO NOTHING`,
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

func (s *PostgresStore) ListHabits(ctx context.Context, owner string) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, is_deletable, created_at FROM habits WHERE owner = $1 ORDER BY created_at`,
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

func (s *PostgresStore) AddHabit(ctx context.Context, owner, name string) (*models.Habit, error) {
	habit := &models.Habit{
		ID:        uuid.NewString(),
		Name:      name,
		Deletable: true,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO habits (id, owner, name, is_deletable, created_at) VALUES ($1, $2, $3, TRUE, $4)`,
		habit.ID, owner, habit.Name, habit.CreatedAt,
	)
	if err != nil {
		// 23505 = unique_violation
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("habit %q: %w", name, ErrDuplicateName)
		}
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	return habit, nil
}

func (s *PostgresStore) DeleteHabit(ctx context.Context, owner, id string) error {
	var deletable bool
	err := s.db.QueryRowContext(ctx,
		`SELECT is_deletable FROM habits WHERE owner = $1 AND id = $2`,
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

	if _, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE owner = $1 AND id = $2`, owner, id); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return nil
}

func (s *PostgresStore) DayRecords(ctx context.Context, owner string) ([]DayRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, habits_json FROM day_logs WHERE owner = $1 AND date != $2 ORDER BY date`,
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

func (s *PostgresStore) DayRecord(ctx context.Context, owner, date string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT habits_json FROM day_logs WHERE owner = $1 AND date = $2`,
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

func (s *PostgresStore) PutDayRecord(ctx context.Context, owner, date string, habits []string) error {
	if habits == nil {
		habits = []string{}
	}
	payload, err := json.Marshal(habits)
	if err != nil {
		return fmt.Errorf("failed to marshal habits: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO day_logs (owner, date, habits_json, logged_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (owner, date) DO UPDATE SET habits_json = EXCLUDED.habits_json, logged_at = EXCLUDED.logged_at`,
		owner, date, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert day record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
