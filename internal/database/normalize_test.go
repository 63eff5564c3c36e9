package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"restaurantportal/internal/models"
	"restaurantportal/internal/orders"
)

func TestNormalizeItemDocumentLegacyValues(t *testing.T) {
	categoryID := primitive.NewObjectID()
	raw := bson.M{
		"_id":           primitive.NewObjectID(),
		"restaurantId":  "r1",
		"categoryId":    categoryID.Hex(),
		"name":          "Garlic bread",
		"price":         "6.50",
		"discountValue": nil,
	}

	item, err := normalizeItemDocument(raw)
	require.NoError(t, err)

	assert.Equal(t, categoryID, item.CategoryID)
	assert.Equal(t, 6.5, item.Price)
	assert.Equal(t, models.DiscountNone, item.DiscountType)
	assert.Equal(t, 0.0, item.DiscountValue)
	assert.Equal(t, 6.5, item.FinalPrice)
	assert.True(t, item.Available)
}

func TestNormalizeItemDocumentKeepsStoredFinalPrice(t *testing.T) {
	raw := bson.M{
		"_id":           primitive.NewObjectID(),
		"restaurantId":  "r1",
		"categoryId":    primitive.NewObjectID(),
		"name":          "Pasta",
		"price":         int32(12),
		"discountType":  "Percentage",
		"discountValue": int64(25),
		"finalPrice":    9.0,
		"available":     "false",
	}

	item, err := normalizeItemDocument(raw)
	require.NoError(t, err)

	assert.Equal(t, 12.0, item.Price)
	assert.Equal(t, models.DiscountPercentage, item.DiscountType)
	assert.Equal(t, 25.0, item.DiscountValue)
	assert.Equal(t, 9.0, item.FinalPrice)
	assert.False(t, item.Available)
}

func TestNormalizeItemDocumentUnusableNumbers(t *testing.T) {
	raw := bson.M{
		"_id":          primitive.NewObjectID(),
		"restaurantId": "r1",
		"categoryId":   primitive.NewObjectID(),
		"name":         "Mystery",
		"price":        "ask staff",
		"discountType": "bogo",
		"available":    42,
	}

	item, err := normalizeItemDocument(raw)
	require.NoError(t, err)

	assert.Equal(t, 0.0, item.Price)
	assert.Equal(t, models.DiscountNone, item.DiscountType)
	assert.True(t, item.Available)
}

func TestIsTransactionUnsupported(t *testing.T) {
	assert.False(t, isTransactionUnsupported(nil))
	assert.True(t, isTransactionUnsupported(mongo.CommandError{Code: 20, Message: "IllegalOperation"}))
	assert.True(t, isTransactionUnsupported(fmt.Errorf("wrapped: %w", mongo.CommandError{
		Code:    263,
		Message: "Transaction numbers are only allowed on a replica set member or mongos",
	})))
	assert.False(t, isTransactionUnsupported(mongo.CommandError{Code: 11000, Message: "duplicate key"}))
	assert.False(t, isTransactionUnsupported(errors.New("timeout")))
}

func TestOrderFilter(t *testing.T) {
	assert.Equal(t, bson.M{"restaurantId": "r1"}, orderFilter("r1", orders.ListQuery{}))
	assert.Equal(t,
		bson.M{"restaurantId": "r1", "status": models.OrderStatusReady},
		orderFilter("r1", orders.ListQuery{Status: models.OrderStatusReady}))
}

func TestItemScopeMatchesLegacyCategoryIDs(t *testing.T) {
	categoryID := primitive.NewObjectID()
	scope := itemScope("r1", categoryID)

	assert.Equal(t, "r1", scope["restaurantId"])
	assert.Equal(t, bson.M{"$in": bson.A{categoryID, categoryID.Hex()}}, scope["categoryId"])
}
