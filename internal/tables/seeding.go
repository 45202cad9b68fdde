package tables

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DemoTableCount is how many numbered tables the demo seed provisions.
const DemoTableCount = 10

// Seeds returns all seeds for tables
func Seeds(db *mongo.Database) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "2026-08-20_tables_demo",
			Description: "Seed numbered demo tables for QR ordering",
			Run: func(ctx context.Context) error {
				return seedDemoTables(ctx, db)
			},
		},
	}
}

func seedDemoTables(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("tables")
	now := time.Now()

	for number := 1; number <= DemoTableCount; number++ {
		doc := bson.M{
			"_id":        uuid.New(),
			"number":     number,
			"created_at": now,
			"created_by": "seed",
			"updated_at": now,
			"updated_by": "seed",
		}

		filter := bson.M{"number": number}
		update := bson.M{"$setOnInsert": doc}
		if _, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("seed table %d: %w", number, err)
		}
	}

	return nil
}

// SeedingFunc returns a function for running seeds during startup
func SeedingFunc(appName string, dbFn func() *mongo.Database, logger apt.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		logger.Info("Applying table database seeds...")
		db := dbFn()
		tracker := seed.NewMongoTracker(db)
		seeds := Seeds(db)
		if err := seed.Apply(ctx, tracker, seeds, appName); err != nil {
			return fmt.Errorf("apply seeds: %w", err)
		}
		logger.Info("Table database seeds applied successfully")
		return nil
	}
}
