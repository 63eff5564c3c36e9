package menu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurantportal/internal/apperr"
	"restaurantportal/internal/models"
)

func TestGetMenuRequiresRestaurant(t *testing.T) {
	q := NewQueryService(newMemoryRepo())

	_, err := q.GetMenu(context.Background(), "  ")
	assert.True(t, apperr.IsValidation(err))
}

func TestGetMenuUnknownRestaurantIsEmpty(t *testing.T) {
	q := NewQueryService(newMemoryRepo())

	menu, err := q.GetMenu(context.Background(), "ghost")
	require.NoError(t, err)
	assert.NotNil(t, menu.Categories)
	assert.Empty(t, menu.Categories)
}

func TestGetMenuNormalizesItems(t *testing.T) {
	repo := newMemoryRepo()
	categoryID := primitive.NewObjectID()
	repo.categories[categoryID] = models.MenuCategory{ID: categoryID, RestaurantID: testRestaurant, Name: "Legacy"}

	legacyID := primitive.NewObjectID()
	repo.items[legacyID] = models.MenuItem{
		ID:            legacyID,
		RestaurantID:  testRestaurant,
		CategoryID:    categoryID,
		Name:          "Old entry",
		Price:         8,
		DiscountType:  "",
		DiscountValue: 3,
	}
	soldOutID := primitive.NewObjectID()
	repo.items[soldOutID] = models.MenuItem{
		ID:            soldOutID,
		RestaurantID:  testRestaurant,
		CategoryID:    categoryID,
		Name:          "Sold out",
		Price:         10,
		DiscountType:  models.DiscountAmount,
		DiscountValue: 2.5,
		FinalPrice:    7.5,
		Available:     false,
	}

	menu, err := NewQueryService(repo).GetMenu(context.Background(), testRestaurant)
	require.NoError(t, err)
	require.Len(t, menu.Categories, 1)
	items := menu.Categories[0].Items
	require.Len(t, items, 2)

	legacy := items[0]
	assert.Equal(t, models.DiscountNone, legacy.DiscountType)
	assert.Equal(t, 0.0, legacy.DiscountValue)
	assert.Equal(t, 0.0, legacy.Discount)
	assert.Equal(t, 8.0, legacy.FinalPrice)

	soldOut := items[1]
	assert.False(t, soldOut.Available)
	assert.Equal(t, 7.5, soldOut.FinalPrice)
}

func TestGetMenuDependencyFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.failList = true

	_, err := NewQueryService(repo).GetMenu(context.Background(), testRestaurant)
	var dependency apperr.DependencyError
	require.ErrorAs(t, err, &dependency)
	assert.Equal(t, 500, apperr.HTTPStatus(err))
}
