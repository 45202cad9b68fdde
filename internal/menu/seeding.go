package menu

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

// Seeds returns all seeds for the menu catalog
func Seeds(db *mongo.Database) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "2026-08-20_menu_demo_dishes",
			Description: "Seed demo dishes for the table-ordering flow",
			Run: func(ctx context.Context) error {
				return seedDemoDishes(ctx, db)
			},
		},
	}
}

func seedDemoDishes(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("dishes")
	now := time.Now()
	dishes := []struct {
		Name        string
		Description string
		Price       int64
		Category    string
		ImageURL    string
	}{
		{"Attiéké au poisson", "Cassava semolina served with grilled fish and fresh vegetables", 5000, "Main course", "https://i.ytimg.com/vi/o9v9co-ohWc/maxresdefault.jpg"},
		{"Poulet yassa", "Chicken marinated in onions and lemon, a Senegalese tradition", 6500, "Main course", "https://res.cloudinary.com/hv9ssmzrz/image/fetch/c_fill,f_auto,h_600,q_auto,w_800/https://s3-eu-west-1.amazonaws.com/images-ca-1-0-1-eu/recipe_photos/original/228351/Poulet_Yassa_S%C3%A9n%C3%A9galais.jpg"},
		{"Tilapia grillé", "Grilled tilapia served with plantains and a spicy sauce", 7000, "Main course", "https://www.maggi.ci/sites/default/files/srh_recipes/3bff11a994c06addd766ec13196124ec.jpg"},
		{"Mafé de boeuf", "Beef simmered in a rich peanut sauce, served with rice", 6000, "Main course", ""},
		{"Alloco poulet", "Fried plantains with braised chicken and tomato relish", 4500, "Main course", ""},
		{"Salade d'avocat", "Avocado, tomato and onion salad with lime dressing", 3000, "Starter", ""},
		{"Tarte tatin", "Caramelized apple tart, served warm with vanilla ice cream", 4000, "Dessert", "https://images.immediate.co.uk/production/volatile/sites/30/2020/08/tarte-tatin-502b8b9.jpg"},
		{"Thiakry", "Sweet millet couscous with vanilla yogurt", 2500, "Dessert", ""},
		{"Bissap", "Refreshing hibiscus flower drink with sugar and fresh mint", 2000, "Drink", "https://chroniquebeautenoire.com/wp-content/uploads/2019/12/Cheveux_bissap_fleur_hibiscus.png"},
		{"Gingembre", "Fresh pressed ginger juice, lightly spiced", 2000, "Drink", ""},
	}

	for _, d := range dishes {
		doc := bson.M{
			"_id":            uuid.New(),
			"name":           d.Name,
			"description":    d.Description,
			"price":          d.Price,
			"category":       d.Category,
			"image_url":      d.ImageURL,
			"schema_version": CurrentDishSchemaVersion,
			"created_at":     now,
			"created_by":     "seed",
			"updated_at":     now,
			"updated_by":     "seed",
		}

		filter := bson.M{"name": d.Name}
		update := bson.M{"$setOnInsert": doc}
		if _, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("seed dish %s: %w", d.Name, err)
		}
	}

	return nil
}

// SeedingFunc returns a function for running seeds during startup
func SeedingFunc(appName string, dbFn func() *mongo.Database, logger apt.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		logger.Info("Applying menu database seeds...")
		db := dbFn()
		tracker := seed.NewMongoTracker(db)
		seeds := Seeds(db)
		if err := seed.Apply(ctx, tracker, seeds, appName); err != nil {
			return fmt.Errorf("apply seeds: %w", err)
		}
		logger.Info("Menu database seeds applied successfully")
		return nil
	}
}
