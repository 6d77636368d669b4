package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/mindtrack/api/internal/models"
)

// MetaKey is the reserved per-owner log key that marks whether default-habit
// seeding has run. It is never a day record and must be excluded from every
// statistics scan.
const MetaKey = "__meta__"

// DateFormat is the canonical layout for day-record keys (ISO 8601 date).
const DateFormat = "2006-01-02"

// Sentinel errors returned by store implementations. Handlers translate these
// to HTTP statuses with errors.Is; implementations wrap them with context.
var (
	ErrDuplicateName = errors.New("habit name already exists")
	ErrNotFound      = errors.New("not found")
	ErrNotDeletable  = errors.New("habit is not deletable")
	ErrUnavailable   = errors.New("storage backend unavailable")
)

// DayRecord is one calendar day's raw completion payload for one owner, as
// read from storage. Payload is the wire encoding (a JSON array of habit name
// strings) and may be malformed; decoding and corruption handling belong to
// the stats engine, not the store.
type DayRecord struct {
	Date    string
	Payload []byte
}

// Store is the narrow contract every storage backend implements. The stats
// engine is written once against DayRecords output and never against a
// concrete backend.
type Store interface {
	// EnsureDefaults lazily seeds the non-deletable default habits for an
	// owner the first time that owner is seen. Idempotent.
	EnsureDefaults(ctx context.Context, owner string) error

	// ListHabits returns the owner's habits in creation order.
	ListHabits(ctx context.Context, owner string) ([]models.Habit, error)

	// AddHabit creates a deletable habit. Returns ErrDuplicateName if the
	// owner already has a habit with the same name (case-sensitive).
	AddHabit(ctx context.Context, owner, name string) (*models.Habit, error)

	// DeleteHabit removes a habit by id. Returns ErrNotFound if the id does
	// not exist for the owner, ErrNotDeletable for default habits. Historical
	// day records are never touched.
	DeleteHabit(ctx context.Context, owner, id string) error

	// DayRecords returns all of the owner's day records, excluding MetaKey.
	DayRecords(ctx context.Context, owner string) ([]DayRecord, error)

	// DayRecord returns the raw payload for one date, or ErrNotFound if no
	// record exists.
	DayRecord(ctx context.Context, owner, date string) ([]byte, error)

	// PutDayRecord upserts the full habit set for one date. The prior set for
	// that date is replaced, never merged. Last write wins.
	PutDayRecord(ctx context.Context, owner, date string, habits []string) error

	Ping(ctx context.Context) error
	Close() error
}

// defaultHabits are seeded once per owner and cannot be deleted.
var defaultHabits = []string{
	"Drink 8 glasses of water",
	"Read for 20 minutes",
	"Go for a 15-min walk",
}

// Backend names accepted by Open.
const (
	BackendMongo    = "mongo"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Options selects and configures a storage backend.
type Options struct {
	Backend       string
	MongoURI      string
	MongoDatabase string
	SQLitePath    string
	DatabaseURL   string
}

// Open constructs the configured backend and verifies connectivity.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMongo:
		return NewMongoStore(ctx, opts.MongoURI, opts.MongoDatabase)
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath)
	case BackendPostgres:
		return NewPostgresStore(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
