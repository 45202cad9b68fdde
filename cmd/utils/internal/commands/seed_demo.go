package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"

	"github.com/misterg2020/bistro-chat-connect/internal/menu"
	"github.com/misterg2020/bistro-chat-connect/internal/tables"
)

// SeedDemo applies demo seeding for dishes and tables
func SeedDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("Starting demo seeding process...")

	client, dbName, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB")

	db := client.Database(dbName)
	tracker := seed.NewMongoTracker(db)

	seeds := append(menu.Seeds(db), tables.Seeds(db)...)
	if err := seed.Apply(ctx, tracker, seeds, "bistro-utils"); err != nil {
		return fmt.Errorf("apply seeds: %w", err)
	}

	logger.Info("Demo seeds applied successfully")
	return nil
}
