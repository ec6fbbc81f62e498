// internal/infrastructure/database/mongodb/connection.go
package mongodb

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a client and checks that the primary answers
func Connect(ctx context.Context, cfg config.MongoConfig, log *logrus.Logger) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	log.WithField("database", cfg.Database).Info("Connected to MongoDB")
	return client, nil
}

// Disconnect closes the client
func Disconnect(ctx context.Context, client *mongo.Client, log *logrus.Logger) {
	if err := client.Disconnect(ctx); err != nil {
		log.WithError(err).Error("Error disconnecting from MongoDB")
		return
	}
	log.Info("MongoDB connection closed")
}
