package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/appetiteclub/apt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/misterg2020/bistro-chat-connect/internal/tables"
)

// ExportQR fetches a QR code image for every table and writes them to
// a zip file on disk
func ExportQR(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	client, dbName, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB")

	db := client.Database(dbName)
	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})
	cursor, err := db.Collection("tables").Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	defer cursor.Close(ctx)

	var all []*tables.Table
	if err := cursor.All(ctx, &all); err != nil {
		return fmt.Errorf("decode tables: %w", err)
	}
	if len(all) == 0 {
		return fmt.Errorf("no tables found, run seed-demo first")
	}

	endpoint := config.GetStringOrDef("qr.endpoint", tables.DefaultQREndpoint)
	baseURL := config.GetStringOrDef("base_url", "http://localhost:8080")
	output := config.GetStringOrDef("qr.output", "table-qr-codes.zip")

	exporter := tables.NewQRExporter(endpoint, baseURL, logger)

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	if err := exporter.WriteArchive(ctx, file, all); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	logger.Info("QR archive written", "file", output, "tables", len(all))
	return nil
}
