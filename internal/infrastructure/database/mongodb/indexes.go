// internal/infrastructure/database/mongodb/indexes.go
package mongodb

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Indexes lists the indexes of every collection
func Indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		CollectionCategories: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		CollectionProducts: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: newestFirst},
			{Keys: bson.D{{Key: "category_id", Value: 1}, {Key: "price", Value: 1}}},
			{Keys: bson.D{{Key: "brand", Value: 1}, {Key: "price", Value: 1}}},
			{Keys: bson.D{{Key: "color", Value: 1}, {Key: "price", Value: 1}}},
			{Keys: bson.D{{Key: "size", Value: 1}, {Key: "price", Value: 1}}},
		},
		CollectionCartItems: {
			{Keys: bson.D{{Key: "cart_id", Value: 1}, {Key: "product_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "cart_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
	}
}

// EnsureIndexes creates missing indexes
func (s *Store) EnsureIndexes(ctx context.Context, log *logrus.Logger) error {
	for collection, models := range Indexes() {
		names, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", collection, err)
		}
		log.WithFields(logrus.Fields{
			"collection": collection,
			"indexes":    names,
		}).Debug("Indexes ensured")
	}
	return nil
}
