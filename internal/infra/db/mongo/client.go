// Package mongo persists the booking aggregates. One database holds the
// bookings, suite calendars, outbox, event inbox, and idempotency records;
// repositories in this package map them to and from the domain types.
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client owns the database handle the repositories and stores share.
type Client struct {
	DB *mongo.Database
}

// New connects with retryable writes on; booking saves ride single-document
// updates, so driver-level retries are safe. Connection setup gets ten
// seconds before the app falls back to memory-only mode.
func New(uri, database string) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	opts := options.Client().ApplyURI(uri).SetRetryWrites(true)
	m, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Client{DB: m.Database(database)}, nil
}

// Ping backs the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.Client().Ping(ctx, nil)
}
