// Package mongo holds the MongoDB bootstrap and one repository per
// marketplace entity.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cargoconnect/marketplace-api/internal/infrastructure/config"
)

const (
	connectTimeout = 10 * time.Second

	// defaultTimeout bounds every repository operation.
	defaultTimeout = 5 * time.Second
)

// Connect establishes the MongoDB client from the marketplace configuration,
// verifies connectivity with a ping, and returns the client plus the
// selected database.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
