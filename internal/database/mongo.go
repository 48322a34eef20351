// Package database owns the MongoDB connection: a connector that performs a
// single attempt and a supervisor that keeps retrying until one succeeds.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connector performs one connection attempt against uri.
type Connector interface {
	Connect(ctx context.Context, uri string) (*mongo.Client, error)
}

// MongoConnector connects with the official MongoDB driver and verifies the
// connection with a ping against the primary.
type MongoConnector struct {
	timeout time.Duration
}

// NewMongoConnector returns a connector that bounds each attempt by timeout.
func NewMongoConnector(timeout time.Duration) *MongoConnector {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MongoConnector{timeout: timeout}
}

// Connect dials uri and pings the primary. The client is disconnected again
// when the ping fails, so a failed attempt leaves nothing open.
func (c *MongoConnector) Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, ErrMissingURI
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(c.timeout).
		SetConnectTimeout(c.timeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}
