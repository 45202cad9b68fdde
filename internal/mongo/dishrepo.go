package mongo

import (
	"context"
	"fmt"
	"regexp"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/misterg2020/bistro-chat-connect/internal/menu"
)

// DishRepo implements the menu.DishRepo interface using MongoDB
type DishRepo struct {
	collection *mongo.Collection
	logger     apt.Logger
}

// NewDishRepo creates a new MongoDB dish repository on the shared
// database connection
func NewDishRepo(db *mongo.Database, logger apt.Logger) *DishRepo {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &DishRepo{
		collection: db.Collection("dishes"),
		logger:     logger,
	}
}

// EnsureIndexes creates the indexes dish queries rely on
func (r *DishRepo) EnsureIndexes(ctx context.Context) error {
	nameIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, nameIndex); err != nil {
		return fmt.Errorf("cannot create name index: %w", err)
	}

	categoryIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}},
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, categoryIndex); err != nil {
		return fmt.Errorf("cannot create category index: %w", err)
	}

	return nil
}

// Create inserts a new dish
func (r *DishRepo) Create(ctx context.Context, dish *menu.Dish) error {
	if dish == nil {
		return fmt.Errorf("dish cannot be nil")
	}

	dish.EnsureID()

	if _, err := r.collection.InsertOne(ctx, dish); err != nil {
		return fmt.Errorf("could not create dish: %w", err)
	}
	return nil
}

// Get retrieves a dish by ID
func (r *DishRepo) Get(ctx context.Context, id uuid.UUID) (*menu.Dish, error) {
	var dish menu.Dish

	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&dish)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get dish: %w", err)
	}

	return &dish, nil
}

// List retrieves all dishes sorted by category then name
func (r *DishRepo) List(ctx context.Context) ([]*menu.Dish, error) {
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("could not list dishes: %w", err)
	}
	defer cursor.Close(ctx)

	var dishes []*menu.Dish
	if err := cursor.All(ctx, &dishes); err != nil {
		return nil, fmt.Errorf("could not decode dishes: %w", err)
	}

	return dishes, nil
}

// Search retrieves dishes whose name contains the query substring
// (case-insensitive), optionally restricted to a category
func (r *DishRepo) Search(ctx context.Context, query, category string) ([]*menu.Dish, error) {
	filter := bson.M{}
	if query != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	}
	if category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("could not search dishes: %w", err)
	}
	defer cursor.Close(ctx)

	var dishes []*menu.Dish
	if err := cursor.All(ctx, &dishes); err != nil {
		return nil, fmt.Errorf("could not decode dishes: %w", err)
	}

	return dishes, nil
}

// Save updates an existing dish
func (r *DishRepo) Save(ctx context.Context, dish *menu.Dish) error {
	if dish == nil {
		return fmt.Errorf("dish cannot be nil")
	}

	filter := bson.M{"_id": dish.ID}
	result, err := r.collection.ReplaceOne(ctx, filter, dish)
	if err != nil {
		return fmt.Errorf("could not save dish: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("dish %s not found", dish.ID)
	}

	return nil
}

// Delete removes a dish by ID
func (r *DishRepo) Delete(ctx context.Context, id uuid.UUID) error {
	filter := bson.M{"_id": id}
	if _, err := r.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("could not delete dish: %w", err)
	}
	return nil
}
