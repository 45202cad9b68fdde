package mongo

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/misterg2020/bistro-chat-connect/internal/order"
)

// OrderRepo implements the order.OrderRepo interface using MongoDB
type OrderRepo struct {
	collection *mongo.Collection
	logger     apt.Logger
}

// NewOrderRepo creates a new MongoDB order repository on the shared
// database connection
func NewOrderRepo(db *mongo.Database, logger apt.Logger) *OrderRepo {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &OrderRepo{
		collection: db.Collection("orders"),
		logger:     logger,
	}
}

// EnsureIndexes creates indexes supporting the board and table lookups
func (r *OrderRepo) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "placed_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "table_number", Value: 1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("cannot create order indexes: %w", err)
	}
	return nil
}

// Create inserts a new order
func (r *OrderRepo) Create(ctx context.Context, o *order.Order) error {
	if o == nil {
		return fmt.Errorf("order cannot be nil")
	}

	o.EnsureID()

	if _, err := r.collection.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("could not create order: %w", err)
	}
	return nil
}

// Get retrieves an order by ID
func (r *OrderRepo) Get(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order

	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get order: %w", err)
	}

	return &o, nil
}

// List retrieves all orders, newest first
func (r *OrderRepo) List(ctx context.Context) ([]*order.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "placed_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("could not list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*order.Order
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("could not decode orders: %w", err)
	}

	return result, nil
}

// Save replaces an existing order
func (r *OrderRepo) Save(ctx context.Context, o *order.Order) error {
	if o == nil {
		return fmt.Errorf("order cannot be nil")
	}

	filter := bson.M{"_id": o.ID}
	result, err := r.collection.ReplaceOne(ctx, filter, o)
	if err != nil {
		return fmt.Errorf("could not save order: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("order not found: %s", o.ID)
	}
	return nil
}

// DeleteAll removes every order
func (r *OrderRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("could not delete orders: %w", err)
	}
	return nil
}
