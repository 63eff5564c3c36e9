package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates every index the portal relies on. Each group is
// attempted even when an earlier one fails; the first error is returned.
func EnsureIndexes(db *mongo.Database) error {
	var firstErr error
	for _, ensure := range []func(*mongo.Database) error{
		EnsureRestaurantIndexes,
		EnsureMenuIndexes,
		EnsureOrderIndexes,
	} {
		if err := ensure(db); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func EnsureRestaurantIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(CollectionRestaurants).Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "ownerEmail", Value: 1}},
		Options: options.Index().
			SetName("ownerEmail_unique").
			SetUnique(true),
	}

	log.Println("EnsureRestaurantIndexes: creating ownerEmail_unique index")
	if _, err := indexes.CreateOne(ctx, emailIndex); err != nil {
		log.Println("EnsureRestaurantIndexes: ownerEmail index error:", err)
		return err
	}
	log.Println("EnsureRestaurantIndexes: ownerEmail_unique index created")
	return nil
}

func EnsureMenuIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	categoryIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "restaurantId", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetName("restaurant_name"),
	}
	log.Println("EnsureMenuIndexes: creating restaurant_name index")
	if _, err := db.Collection(CollectionMenuCategories).Indexes().CreateOne(ctx, categoryIndex); err != nil {
		log.Println("EnsureMenuIndexes: category index error:", err)
		return err
	}

	itemIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "restaurantId", Value: 1},
			{Key: "categoryId", Value: 1},
			{Key: "name", Value: 1},
		},
		Options: options.Index().SetName("restaurant_category_name"),
	}
	log.Println("EnsureMenuIndexes: creating restaurant_category_name index")
	if _, err := db.Collection(CollectionMenuItems).Indexes().CreateOne(ctx, itemIndex); err != nil {
		log.Println("EnsureMenuIndexes: item index error:", err)
		return err
	}
	log.Println("EnsureMenuIndexes: menu indexes created")
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	restaurantIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "restaurantId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("restaurant_createdAt"),
	}
	statusIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "restaurantId", Value: 1},
			{Key: "status", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("restaurant_status_createdAt"),
	}

	log.Println("EnsureOrderIndexes: creating restaurant order indexes")
	if _, err := db.Collection(CollectionRestaurantOrders).Indexes().CreateMany(ctx, []mongo.IndexModel{restaurantIndex, statusIndex}); err != nil {
		log.Println("EnsureOrderIndexes: restaurant order index error:", err)
		return err
	}

	globalIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "restaurantId", Value: 1}},
		Options: options.Index().SetName("restaurantId_index"),
	}
	if _, err := db.Collection(CollectionOrders).Indexes().CreateOne(ctx, globalIndex); err != nil {
		log.Println("EnsureOrderIndexes: order index error:", err)
		return err
	}
	log.Println("EnsureOrderIndexes: order indexes created")
	return nil
}
