package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var demoSeedIDs = []string{
	"2026-08-20_menu_demo_dishes",
	"2026-08-20_tables_demo",
}

// ClearDemo removes seeded demo dishes and tables
func ClearDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("Starting demo data cleanup...")

	client, dbName, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB")

	db := client.Database(dbName)

	if err := clearSeededDocs(ctx, db, "dishes", logger); err != nil {
		return err
	}
	if err := clearSeededDocs(ctx, db, "tables", logger); err != nil {
		return err
	}

	// Clear seed tracker so seed-demo can run again
	seedsCollection := db.Collection("_seeds")
	for _, id := range demoSeedIDs {
		result, err := seedsCollection.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("delete seed tracker %s: %w", id, err)
		}
		logger.Info("Cleared seed tracker", "seed", id, "deleted", result.DeletedCount)
	}

	return nil
}

func clearSeededDocs(ctx context.Context, db *mongo.Database, collection string, logger apt.Logger) error {
	result, err := db.Collection(collection).DeleteMany(ctx, bson.M{"created_by": "seed"})
	if err != nil {
		return fmt.Errorf("delete seeded %s: %w", collection, err)
	}
	logger.Info("Deleted seeded documents", "collection", collection, "count", result.DeletedCount)
	return nil
}
