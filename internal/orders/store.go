package orders

import (
	"context"
	"errors"
	"time"

	"restaurantportal/internal/models"
)

var (
	// ErrDuplicate is returned by a Store when an order number already exists.
	ErrDuplicate = errors.New("order already exists")
	// ErrTransactionsUnsupported is returned by a Transactor when the
	// backing deployment cannot run multi-document transactions.
	ErrTransactionsUnsupported = errors.New("transactions not supported")
)

// Store is the persistence behind the two order copies: the global
// registry keyed by order number and the owning restaurant's index.
// Missing orders are reported as apperr.NotFoundError.
type Store interface {
	InsertGlobal(ctx context.Context, order models.Order) error
	DeleteGlobal(ctx context.Context, orderNumber string) error
	UpdateGlobalStatus(ctx context.Context, orderNumber string, status models.OrderStatus, updatedAt time.Time) error

	InsertRestaurantCopy(ctx context.Context, order models.Order) error
	GetRestaurantCopy(ctx context.Context, restaurantID, orderNumber string) (models.Order, error)
	UpdateRestaurantStatus(ctx context.Context, restaurantID, orderNumber string, status models.OrderStatus, updatedAt time.Time) error
	ListRestaurantOrders(ctx context.Context, restaurantID string, query ListQuery) ([]models.Order, int64, error)
}

// Transactor is implemented by stores that can write both copies
// atomically.
type Transactor interface {
	RecordAtomically(ctx context.Context, order models.Order) error
}

// ListQuery selects a page of a restaurant's orders, newest first. An empty
// Status matches every status.
type ListQuery struct {
	Status models.OrderStatus
	Page   int
	Limit  int
}

func (q ListQuery) Skip() int64 {
	return int64((q.Page - 1) * q.Limit)
}
