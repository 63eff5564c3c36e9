package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"restaurantportal/internal/apperr"
	"restaurantportal/internal/models"
	"restaurantportal/internal/orders"
)

// OrderStore keeps the global registry in "orders" and each restaurant's
// index in "restaurantOrders". Both use the order number as _id.
type OrderStore struct {
	client     *mongo.Client
	global     *mongo.Collection
	restaurant *mongo.Collection
}

func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{
		client:     db.Client(),
		global:     db.Collection(CollectionOrders),
		restaurant: db.Collection(CollectionRestaurantOrders),
	}
}

func (s *OrderStore) InsertGlobal(ctx context.Context, order models.Order) error {
	_, err := s.global.InsertOne(ctx, order)
	return classifyWriteError(err)
}

func (s *OrderStore) DeleteGlobal(ctx context.Context, orderNumber string) error {
	res, err := s.global.DeleteOne(ctx, bson.M{"_id": orderNumber})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("order", orderNumber)
	}
	return nil
}

func (s *OrderStore) UpdateGlobalStatus(ctx context.Context, orderNumber string, status models.OrderStatus, updatedAt time.Time) error {
	res, err := s.global.UpdateOne(ctx,
		bson.M{"_id": orderNumber},
		bson.M{"$set": bson.M{"status": status, "updatedAt": updatedAt}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("order", orderNumber)
	}
	return nil
}

func (s *OrderStore) InsertRestaurantCopy(ctx context.Context, order models.Order) error {
	_, err := s.restaurant.InsertOne(ctx, order)
	return classifyWriteError(err)
}

func (s *OrderStore) GetRestaurantCopy(ctx context.Context, restaurantID, orderNumber string) (models.Order, error) {
	var order models.Order
	err := s.restaurant.FindOne(ctx, bson.M{"_id": orderNumber, "restaurantId": restaurantID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, apperr.NotFound("order", orderNumber)
	}
	return order, err
}

func (s *OrderStore) UpdateRestaurantStatus(ctx context.Context, restaurantID, orderNumber string, status models.OrderStatus, updatedAt time.Time) error {
	res, err := s.restaurant.UpdateOne(ctx,
		bson.M{"_id": orderNumber, "restaurantId": restaurantID},
		bson.M{"$set": bson.M{"status": status, "updatedAt": updatedAt}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("order", orderNumber)
	}
	return nil
}

func (s *OrderStore) ListRestaurantOrders(ctx context.Context, restaurantID string, query orders.ListQuery) ([]models.Order, int64, error) {
	filter := orderFilter(restaurantID, query)

	total, err := s.restaurant.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(query.Skip()).
		SetLimit(int64(query.Limit))

	cursor, err := s.restaurant.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	list := make([]models.Order, 0)
	if err := cursor.All(ctx, &list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// RecordAtomically writes both copies in one multi-document transaction.
func (s *OrderStore) RecordAtomically(ctx context.Context, order models.Order) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := s.global.InsertOne(sessCtx, order); err != nil {
			return nil, err
		}
		if _, err := s.restaurant.InsertOne(sessCtx, order); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if isTransactionUnsupported(err) {
		return orders.ErrTransactionsUnsupported
	}
	return classifyWriteError(err)
}

func orderFilter(restaurantID string, query orders.ListQuery) bson.M {
	filter := bson.M{"restaurantId": restaurantID}
	if query.Status != "" {
		filter["status"] = query.Status
	}
	return filter
}

func classifyWriteError(err error) error {
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return orders.ErrDuplicate
	}
	return err
}

// isTransactionUnsupported recognises a standalone mongod, which rejects
// transactions with IllegalOperation (code 20).
func isTransactionUnsupported(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		if cmdErr.Code == 20 {
			return true
		}
		return strings.Contains(cmdErr.Message, "Transaction numbers are only allowed")
	}
	return strings.Contains(err.Error(), "Transaction numbers are only allowed")
}
