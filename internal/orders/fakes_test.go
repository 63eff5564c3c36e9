package orders

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"restaurantportal/internal/apperr"
	"restaurantportal/internal/events"
	"restaurantportal/internal/models"
)

var errStoreDown = errors.New("store unavailable")

type memoryStore struct {
	mu         sync.Mutex
	global     map[string]models.Order
	restaurant map[string]models.Order

	failRestaurantInserts int
	restaurantInsertLands bool
	failGlobalDeletes     int
	failGlobalUpdates     int
	failRestaurantUpdates int
	globalDeletes         int
	restaurantInserts     int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{global: map[string]models.Order{}, restaurant: map[string]models.Order{}}
}

func (m *memoryStore) InsertGlobal(_ context.Context, order models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.global[order.OrderNumber]; ok {
		return ErrDuplicate
	}
	m.global[order.OrderNumber] = order
	return nil
}

func (m *memoryStore) DeleteGlobal(_ context.Context, orderNumber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.globalDeletes++
	if m.failGlobalDeletes > 0 {
		m.failGlobalDeletes--
		return errStoreDown
	}
	if _, ok := m.global[orderNumber]; !ok {
		return apperr.NotFound("order", orderNumber)
	}
	delete(m.global, orderNumber)
	return nil
}

func (m *memoryStore) UpdateGlobalStatus(_ context.Context, orderNumber string, status models.OrderStatus, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGlobalUpdates > 0 {
		m.failGlobalUpdates--
		return errStoreDown
	}
	order, ok := m.global[orderNumber]
	if !ok {
		return apperr.NotFound("order", orderNumber)
	}
	order.Status = status
	order.UpdatedAt = updatedAt
	m.global[orderNumber] = order
	return nil
}

func (m *memoryStore) InsertRestaurantCopy(_ context.Context, order models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restaurantInserts++
	if m.failRestaurantInserts > 0 {
		m.failRestaurantInserts--
		if m.restaurantInsertLands {
			m.restaurant[order.OrderNumber] = order
		}
		return errStoreDown
	}
	if _, ok := m.restaurant[order.OrderNumber]; ok {
		return ErrDuplicate
	}
	m.restaurant[order.OrderNumber] = order
	return nil
}

func (m *memoryStore) GetRestaurantCopy(_ context.Context, restaurantID, orderNumber string) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.restaurant[orderNumber]
	if !ok || order.RestaurantID != restaurantID {
		return models.Order{}, apperr.NotFound("order", orderNumber)
	}
	return order, nil
}

func (m *memoryStore) UpdateRestaurantStatus(_ context.Context, restaurantID, orderNumber string, status models.OrderStatus, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRestaurantUpdates > 0 {
		m.failRestaurantUpdates--
		return errStoreDown
	}
	order, ok := m.restaurant[orderNumber]
	if !ok || order.RestaurantID != restaurantID {
		return apperr.NotFound("order", orderNumber)
	}
	order.Status = status
	order.UpdatedAt = updatedAt
	m.restaurant[orderNumber] = order
	return nil
}

func (m *memoryStore) ListRestaurantOrders(_ context.Context, restaurantID string, query ListQuery) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := []models.Order{}
	for _, order := range m.restaurant {
		if order.RestaurantID != restaurantID {
			continue
		}
		if query.Status != "" && order.Status != query.Status {
			continue
		}
		matched = append(matched, order)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := int(query.Skip())
	if start > len(matched) {
		start = len(matched)
	}
	end := start + query.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// transactionalStore adds atomic writes on top of memoryStore.
type transactionalStore struct {
	*memoryStore
	unsupported bool
	calls       int
}

func (t *transactionalStore) RecordAtomically(ctx context.Context, order models.Order) error {
	t.calls++
	if t.unsupported {
		return ErrTransactionsUnsupported
	}
	if err := t.InsertGlobal(ctx, order); err != nil {
		return err
	}
	return t.InsertRestaurantCopy(ctx, order)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
