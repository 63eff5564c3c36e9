package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"restaurantportal/internal/apperr"
	"restaurantportal/internal/models"
)

type RestaurantRepository struct {
	restaurants *mongo.Collection
}

func NewRestaurantRepository(db *mongo.Database) *RestaurantRepository {
	return &RestaurantRepository{restaurants: db.Collection(CollectionRestaurants)}
}

func (r *RestaurantRepository) Create(ctx context.Context, restaurant models.Restaurant) error {
	_, err := r.restaurants.InsertOne(ctx, restaurant)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return apperr.Conflict("restaurant", "email already registered")
	}
	return err
}

func (r *RestaurantRepository) FindByEmail(ctx context.Context, email string) (models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.restaurants.FindOne(ctx, bson.M{"ownerEmail": strings.ToLower(strings.TrimSpace(email))}).Decode(&restaurant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Restaurant{}, apperr.NotFound("restaurant", email)
	}
	return restaurant, err
}

func (r *RestaurantRepository) FindByID(ctx context.Context, id string) (models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.restaurants.FindOne(ctx, bson.M{"_id": id}).Decode(&restaurant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Restaurant{}, apperr.NotFound("restaurant", id)
	}
	return restaurant, err
}

// UpdateProfile changes the owner-editable fields. Nil leaves a field as is.
func (r *RestaurantRepository) UpdateProfile(ctx context.Context, id string, name, websiteURL *string, now time.Time) (models.Restaurant, error) {
	set := bson.M{"updatedAt": now}
	if name != nil {
		set["name"] = *name
	}
	if websiteURL != nil {
		set["websiteUrl"] = *websiteURL
	}

	res, err := r.restaurants.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return models.Restaurant{}, err
	}
	if res.MatchedCount == 0 {
		return models.Restaurant{}, apperr.NotFound("restaurant", id)
	}
	return r.FindByID(ctx, id)
}
