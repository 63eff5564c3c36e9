package menu

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurantportal/internal/apperr"
	"restaurantportal/internal/models"
)

// Reader is the read path shared by the owner editor and the public menu.
// Categories and items come back ordered by name.
type Reader interface {
	ListCategories(ctx context.Context, restaurantID string) ([]models.MenuCategory, error)
	ListItems(ctx context.Context, restaurantID string, categoryID primitive.ObjectID) ([]models.MenuItem, error)
}

// Repository persists categories and items scoped to one restaurant. Lookups
// of absent records return apperr.NotFoundError.
type Repository interface {
	Reader

	InsertCategory(ctx context.Context, category *models.MenuCategory) error
	GetCategory(ctx context.Context, restaurantID string, categoryID primitive.ObjectID) (models.MenuCategory, error)
	SaveCategory(ctx context.Context, category models.MenuCategory) error
	DeleteCategory(ctx context.Context, restaurantID string, categoryID primitive.ObjectID) error

	InsertItem(ctx context.Context, item *models.MenuItem) error
	GetItem(ctx context.Context, restaurantID string, categoryID, itemID primitive.ObjectID) (models.MenuItem, error)
	SaveItem(ctx context.Context, item models.MenuItem) error
	DeleteItem(ctx context.Context, restaurantID string, categoryID, itemID primitive.ObjectID) error
}

// ParseID turns a hex id from a URL into an ObjectID.
func ParseID(field, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation(field, "invalid id")
	}
	return id, nil
}

func wrapRepoErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperr.IsNotFound(err) || apperr.IsValidation(err) {
		return err
	}
	return apperr.Dependency(op, err)
}
