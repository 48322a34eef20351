package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationLogCollection = "notification_logs"

var _ NotificationStore = (*MongoNotificationStore)(nil)

// DatabaseProvider hands out the application database once it is reachable.
// database.Supervisor satisfies it.
type DatabaseProvider interface {
	Database() (*mongo.Database, error)
}

// MongoNotificationStore keeps notification logs in MongoDB. Every call
// resolves the database handle first, so the store can be constructed before
// the connection exists; until then calls fail with the provider's error.
type MongoNotificationStore struct {
	db      DatabaseProvider
	timeout time.Duration
}

// NewMongoNotificationStore creates a store backed by the provider's database.
func NewMongoNotificationStore(db DatabaseProvider) *MongoNotificationStore {
	return &MongoNotificationStore{db: db, timeout: 5 * time.Second}
}

func (s *MongoNotificationStore) collection() (*mongo.Collection, error) {
	db, err := s.db.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(notificationLogCollection), nil
}

// LogNotification inserts entry, assigning an ID and timestamp when missing.
func (s *MongoNotificationStore) LogNotification(ctx context.Context, entry NotificationLogEntry) error {
	coll, err := s.collection()
	if err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("inserting notification log: %w", err)
	}
	return nil
}

// ListNotifications returns up to limit entries, newest first.
func (s *MongoNotificationStore) ListNotifications(ctx context.Context, limit int) ([]NotificationLogEntry, error) {
	coll, err := s.collection()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := coll.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("finding notification logs: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []NotificationLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decoding notification logs: %w", err)
	}
	return entries, nil
}
