package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindtrack/api/internal/models"
)

// MongoStore is the managed document-store backend. Layout mirrors the
// service's document model: a "habits" collection of habit definitions and a
// "logs" collection keyed by (owner, date) with the reserved MetaKey entry
// marking that default seeding has run.
type MongoStore struct {
	client *mongo.Client
	habits *mongo.Collection
	logs   *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

type habitDoc struct {
	ID        string    `bson:"_id"`
	Owner     string    `bson:"owner"`
	Name      string    `bson:"name"`
	Deletable bool      `bson:"is_deletable"`
	CreatedAt time.Time `bson:"created_at"`
}

type logDoc struct {
	Owner      string    `bson:"owner"`
	Date       string    `bson:"date"`
	HabitsJSON string    `bson:"habits_json"`
	LoggedAt   time.Time `bson:"logged_at"`
}

// NewMongoStore connects to the cluster, verifies reachability and ensures
// the unique indexes the habit and log contracts rely on.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	db := client.Database(database)
	s := &MongoStore{
		client: client,
		habits: db.Collection("habits"),
		logs:   db.Collection("logs"),
	}

	_, err = s.habits.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create habits index: %w", err)
	}

	_, err = s.logs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create logs index: %w", err)
	}

	return s, nil
}

func (s *MongoStore) EnsureDefaults(ctx context.Context, owner string) error {
	err := s.logs.FindOne(ctx, bson.M{"owner": owner, "date": MetaKey}).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return fmt.Errorf("failed to check seeding marker: %w", err)
	}

	now := time.Now().UTC()
	docs := make([]any, 0, len(defaultHabits))
	for i, name := range defaultHabits {
		docs = append(docs, habitDoc{
			ID:        uuid.NewString(),
			Owner:     owner,
			Name:      name,
			Deletable: false,
			CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
		})
	}
	// Unordered so that defaults already written by a crashed or concurrent
	// earlier seed are reported as duplicates while the rest still insert.
	_, err = s.habits.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to seed default habits: %w", err)
	}

	// Written last so a partial seed is retried rather than skipped. A
	// duplicate here means the concurrent seeder finished first.
	_, err = s.logs.InsertOne(ctx, logDoc{
		Owner:      owner,
		Date:       MetaKey,
		HabitsJSON: `{"default_habits_set":true}`,
		LoggedAt:   now,
	})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to write seeding marker: %w", err)
	}
	return nil
}

func (s *MongoStore) ListHabits(ctx context.Context, owner string) ([]models.Habit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.habits.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer cursor.Close(ctx)

	var habits []models.Habit
	for cursor.Next(ctx) {
		var doc habitDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode habit: %w", err)
		}
		habits = append(habits, models.Habit{
			ID:        doc.ID,
			Name:      doc.Name,
			Deletable: doc.Deletable,
			CreatedAt: doc.CreatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating habits: %w", err)
	}

	return habits, nil
}

func (s *MongoStore) AddHabit(ctx context.Context, owner, name string) (*models.Habit, error) {
	habit := &models.Habit{
		ID:        uuid.NewString(),
		Name:      name,
		Deletable: true,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.habits.InsertOne(ctx, habitDoc{
		ID:        habit.ID,
		Owner:     owner,
		Name:      habit.Name,
		Deletable: true,
		CreatedAt: habit.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("habit %q: %w", name, ErrDuplicateName)
		}
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	return habit, nil
}

func (s *MongoStore) DeleteHabit(ctx context.Context, owner, id string) error {
	var doc habitDoc
	err := s.habits.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get habit: %w", err)
	}
	if !doc.Deletable {
		return fmt.Errorf("habit %s: %w", id, ErrNotDeletable)
	}

	if _, err := s.habits.DeleteOne(ctx, bson.M{"_id": id, "owner": owner}); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return nil
}

func (s *MongoStore) DayRecords(ctx context.Context, owner string) ([]DayRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := s.logs.Find(ctx, bson.M{"owner": owner, "date": bson.M{"$ne": MetaKey}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query day records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []DayRecord
	for cursor.Next(ctx) {
		var doc logDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode day record: %w", err)
		}
		records = append(records, DayRecord{Date: doc.Date, Payload: []byte(doc.HabitsJSON)})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating day records: %w", err)
	}

	return records, nil
}

func (s *MongoStore) DayRecord(ctx context.Context, owner, date string) ([]byte, error) {
	var doc logDoc
	err := s.logs.FindOne(ctx, bson.M{"owner": owner, "date": date}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("day record %s: %w", date, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get day record: %w", err)
	}
	return []byte(doc.HabitsJSON), nil
}

func (s *MongoStore) PutDayRecord(ctx context.Context, owner, date string, habits []string) error {
	if habits == nil {
		habits = []string{}
	}
	payload, err := json.Marshal(habits)
	if err != nil {
		return fmt.Errorf("failed to marshal habits: %w", err)
	}

	_, err = s.logs.ReplaceOne(ctx,
		bson.M{"owner": owner, "date": date},
		logDoc{Owner: owner, Date: date, HabitsJSON: string(payload), LoggedAt: time.Now().UTC()},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert day record: %w", err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
