package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurantportal/internal/apperr"
	"restaurantportal/internal/models"
	"restaurantportal/internal/orders"
)

func TestMenuScopesByRestaurant(t *testing.T) {
	ctx := context.Background()
	store := NewMenu()

	category := models.MenuCategory{RestaurantID: "r1", Name: "Pizza"}
	require.NoError(t, store.InsertCategory(ctx, &category))
	require.False(t, category.ID.IsZero())

	_, err := store.GetCategory(ctx, "r2", category.ID)
	assert.True(t, apperr.IsNotFound(err))

	item := models.MenuItem{RestaurantID: "r1", CategoryID: category.ID, Name: "Margherita"}
	require.NoError(t, store.InsertItem(ctx, &item))

	err = store.DeleteItem(ctx, "r1", primitive.NewObjectID(), item.ID)
	assert.True(t, apperr.IsNotFound(err), "wrong category")

	items, err := store.ListItems(ctx, "r1", category.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestOrdersDuplicateAndPaging(t *testing.T) {
	ctx := context.Background()
	store := NewOrders()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, number := range []string{"A", "B", "C"} {
		order := models.Order{OrderNumber: number, RestaurantID: "r1", Status: models.OrderStatusNew, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, store.InsertGlobal(ctx, order))
		require.NoError(t, store.InsertRestaurantCopy(ctx, order))
	}
	assert.ErrorIs(t, store.InsertGlobal(ctx, models.Order{OrderNumber: "A"}), orders.ErrDuplicate)

	page, total, err := store.ListRestaurantOrders(ctx, "r1", orders.ListQuery{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "C", page[0].OrderNumber)

	page, _, err = store.ListRestaurantOrders(ctx, "r1", orders.ListQuery{Page: 5, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestRestaurantsRejectDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewRestaurants()

	require.NoError(t, store.Create(ctx, models.Restaurant{ID: "1", OwnerEmail: "a@b.c"}))
	err := store.Create(ctx, models.Restaurant{ID: "2", OwnerEmail: "A@B.C"})
	assert.True(t, apperr.IsConflict(err))

	name := "Luigi's"
	updated, err := store.UpdateProfile(ctx, "1", &name, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Luigi's", updated.Name)
}
