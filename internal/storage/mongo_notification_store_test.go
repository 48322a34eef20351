package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shaharia-lab/jobportal/internal/storage"
)

var errNotConnected = errors.New("database not connected")

type offlineProvider struct{}

func (offlineProvider) Database() (*mongo.Database, error) { return nil, errNotConnected }

func TestMongoNotificationStore_NotConnected(t *testing.T) {
	store := storage.NewMongoNotificationStore(offlineProvider{})

	err := store.LogNotification(context.Background(), storage.NotificationLogEntry{
		Kind:      "acceptance",
		Recipient: "candidate@example.com",
		Status:    storage.NotificationStatusSent,
	})
	assert.ErrorIs(t, err, errNotConnected)

	entries, err := store.ListNotifications(context.Background(), 10)
	assert.ErrorIs(t, err, errNotConnected)
	assert.Nil(t, entries)
}
