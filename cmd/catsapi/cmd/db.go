package cmd

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	mongodb "github.com/whiskerworks/cats-api/internal/infrastructure/db/mongo"
)

// openMongo connects with the configured settings. The returned func
// disconnects the client.
func openMongo(ctx context.Context) (*mongo.Database, func(), error) {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
	return db, closeFn, nil
}
