package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/misterg2020/bistro-chat-connect/internal/tables"
)

// TableRepo implements the tables.TableRepo interface using MongoDB
type TableRepo struct {
	collection *mongo.Collection
	logger     apt.Logger
}

// NewTableRepo creates a new MongoDB table repository on the shared
// database connection
func NewTableRepo(db *mongo.Database, logger apt.Logger) *TableRepo {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &TableRepo{
		collection: db.Collection("tables"),
		logger:     logger,
	}
}

// EnsureIndexes creates the unique index on the table number. The
// atomicity of FindOrCreate depends on it.
func (r *TableRepo) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "number", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("cannot create number index: %w", err)
	}
	return nil
}

// Create inserts a new table
func (r *TableRepo) Create(ctx context.Context, table *tables.Table) error {
	if table == nil {
		return fmt.Errorf("table cannot be nil")
	}

	table.EnsureID()

	if _, err := r.collection.InsertOne(ctx, table); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("table %d already exists", table.Number)
		}
		return fmt.Errorf("could not create table: %w", err)
	}
	return nil
}

// Get retrieves a table by ID
func (r *TableRepo) Get(ctx context.Context, id uuid.UUID) (*tables.Table, error) {
	var table tables.Table

	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&table)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get table: %w", err)
	}

	return &table, nil
}

// GetByNumber retrieves a table by its printed number
func (r *TableRepo) GetByNumber(ctx context.Context, number int) (*tables.Table, error) {
	var table tables.Table

	filter := bson.M{"number": number}
	err := r.collection.FindOne(ctx, filter).Decode(&table)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get table by number: %w", err)
	}

	return &table, nil
}

// FindOrCreate resolves a table by number, creating it atomically when
// absent. A single upsert keyed on the unique number means concurrent
// first-orders for a new table all land on the same record.
func (r *TableRepo) FindOrCreate(ctx context.Context, number int) (*tables.Table, error) {
	now := time.Now()
	filter := bson.M{"number": number}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":        apt.GenerateNewID(),
		"number":     number,
		"created_at": now,
		"created_by": "system",
		"updated_at": now,
		"updated_by": "system",
	}}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var table tables.Table
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&table); err != nil {
		return nil, fmt.Errorf("could not find or create table %d: %w", number, err)
	}

	return &table, nil
}

// List retrieves all tables sorted by number
func (r *TableRepo) List(ctx context.Context) ([]*tables.Table, error) {
	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("could not list tables: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*tables.Table
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("could not decode tables: %w", err)
	}

	return result, nil
}

// Delete removes a table by ID
func (r *TableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	filter := bson.M{"_id": id}
	if _, err := r.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("could not delete table: %w", err)
	}
	return nil
}
