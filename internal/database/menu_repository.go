package database

import (
	"context"
	"errors"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"restaurantportal/internal/apperr"
	"restaurantportal/internal/models"
	"restaurantportal/internal/pricing"
)

// MenuRepository stores categories and items in two collections linked by
// restaurantId and categoryId.
type MenuRepository struct {
	categories *mongo.Collection
	items      *mongo.Collection
}

func NewMenuRepository(db *mongo.Database) *MenuRepository {
	return &MenuRepository{
		categories: db.Collection(CollectionMenuCategories),
		items:      db.Collection(CollectionMenuItems),
	}
}

var byName = options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

func (r *MenuRepository) ListCategories(ctx context.Context, restaurantID string) ([]models.MenuCategory, error) {
	cursor, err := r.categories.Find(ctx, bson.M{"restaurantId": restaurantID}, byName)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := make([]models.MenuCategory, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *MenuRepository) ListItems(ctx context.Context, restaurantID string, categoryID primitive.ObjectID) ([]models.MenuItem, error) {
	cursor, err := r.items.Find(ctx, itemScope(restaurantID, categoryID), byName)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeItems(ctx, cursor)
}

func (r *MenuRepository) InsertCategory(ctx context.Context, category *models.MenuCategory) error {
	category.ID = primitive.NewObjectID()
	_, err := r.categories.InsertOne(ctx, category)
	return err
}

func (r *MenuRepository) GetCategory(ctx context.Context, restaurantID string, categoryID primitive.ObjectID) (models.MenuCategory, error) {
	var category models.MenuCategory
	err := r.categories.FindOne(ctx, bson.M{"_id": categoryID, "restaurantId": restaurantID}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.MenuCategory{}, apperr.NotFound("category", categoryID.Hex())
	}
	return category, err
}

func (r *MenuRepository) SaveCategory(ctx context.Context, category models.MenuCategory) error {
	res, err := r.categories.UpdateOne(ctx,
		bson.M{"_id": category.ID, "restaurantId": category.RestaurantID},
		bson.M{"$set": bson.M{
			"name":        category.Name,
			"description": category.Description,
			"updatedAt":   category.UpdatedAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("category", category.ID.Hex())
	}
	return nil
}

func (r *MenuRepository) DeleteCategory(ctx context.Context, restaurantID string, categoryID primitive.ObjectID) error {
	res, err := r.categories.DeleteOne(ctx, bson.M{"_id": categoryID, "restaurantId": restaurantID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("category", categoryID.Hex())
	}
	return nil
}

func (r *MenuRepository) InsertItem(ctx context.Context, item *models.MenuItem) error {
	item.ID = primitive.NewObjectID()
	_, err := r.items.InsertOne(ctx, item)
	return err
}

func (r *MenuRepository) GetItem(ctx context.Context, restaurantID string, categoryID, itemID primitive.ObjectID) (models.MenuItem, error) {
	filter := itemScope(restaurantID, categoryID)
	filter["_id"] = itemID

	var raw bson.M
	err := r.items.FindOne(ctx, filter).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.MenuItem{}, apperr.NotFound("item", itemID.Hex())
	}
	if err != nil {
		return models.MenuItem{}, err
	}
	return normalizeItemDocument(raw)
}

// SaveItem rewrites every editable field; the last writer wins.
func (r *MenuRepository) SaveItem(ctx context.Context, item models.MenuItem) error {
	set := bson.M{
		"name":          item.Name,
		"description":   item.Description,
		"price":         item.Price,
		"discountType":  item.DiscountType,
		"discountValue": item.DiscountValue,
		"finalPrice":    item.FinalPrice,
		"available":     item.Available,
		"updatedAt":     item.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if item.ImageStoragePath == "" {
		update["$unset"] = bson.M{"imageUrl": "", "imageStoragePath": ""}
	} else {
		set["imageUrl"] = item.ImageURL
		set["imageStoragePath"] = item.ImageStoragePath
	}

	filter := itemScope(item.RestaurantID, item.CategoryID)
	filter["_id"] = item.ID

	res, err := r.items.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("item", item.ID.Hex())
	}
	return nil
}

func (r *MenuRepository) DeleteItem(ctx context.Context, restaurantID string, categoryID, itemID primitive.ObjectID) error {
	filter := itemScope(restaurantID, categoryID)
	filter["_id"] = itemID

	res, err := r.items.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("item", itemID.Hex())
	}
	return nil
}

// itemScope also matches items whose categoryId was stored as a hex string
// by older admin revisions.
func itemScope(restaurantID string, categoryID primitive.ObjectID) bson.M {
	return bson.M{
		"restaurantId": restaurantID,
		"categoryId":   bson.M{"$in": bson.A{categoryID, categoryID.Hex()}},
	}
}

func decodeItems(ctx context.Context, cursor *mongo.Cursor) ([]models.MenuItem, error) {
	items := make([]models.MenuItem, 0)

	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}

		item, err := normalizeItemDocument(raw)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// normalizeItemDocument coerces item documents written by older admin
// revisions: numbers stored as strings or null, a missing discountType or
// available flag, a missing finalPrice and a string categoryId.
func normalizeItemDocument(raw bson.M) (models.MenuItem, error) {
	for _, key := range []string{"price", "discountValue"} {
		raw[key] = coerceFloat(raw[key])
	}

	discountType, ok := models.ParseDiscountType(stringValue(raw["discountType"]))
	if !ok {
		discountType = models.DiscountNone
	}
	raw["discountType"] = string(discountType)

	if val, ok := raw["available"]; ok {
		switch typed := val.(type) {
		case string:
			raw["available"] = !strings.EqualFold(strings.TrimSpace(typed), "false")
		case bool:
			// already bool, keep as is
		default:
			raw["available"] = true
		}
	} else {
		raw["available"] = true
	}

	if hex, ok := raw["categoryId"].(string); ok {
		if id, err := primitive.ObjectIDFromHex(hex); err == nil {
			raw["categoryId"] = id
		}
	}

	_, hasFinal := raw["finalPrice"]
	if hasFinal && raw["finalPrice"] != nil {
		raw["finalPrice"] = coerceFloat(raw["finalPrice"])
	} else {
		delete(raw, "finalPrice")
	}

	data, err := bson.Marshal(raw)
	if err != nil {
		return models.MenuItem{}, err
	}

	var item models.MenuItem
	if err := bson.Unmarshal(data, &item); err != nil {
		return models.MenuItem{}, err
	}

	if !hasFinal || raw["finalPrice"] == nil {
		item.FinalPrice = pricing.StoredFinalPrice(item.Price, item.DiscountType, item.DiscountValue)
	}

	return item, nil
}

// coerceFloat reuses FlexFloat's lenient decoding; unusable values become 0.
func coerceFloat(value interface{}) float64 {
	if value == nil {
		return 0
	}
	t, data, err := bson.MarshalValue(value)
	if err != nil {
		return 0
	}
	var f models.FlexFloat
	if err := f.UnmarshalBSONValue(t, data); err != nil {
		return 0
	}
	if math.IsNaN(f.Float64()) || math.IsInf(f.Float64(), 0) {
		return 0
	}
	return f.Float64()
}

func stringValue(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}
