// Package memstore keeps portal data in process memory. It backs the
// in-memory server mode used for local development and the HTTP tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurantportal/internal/apperr"
	"restaurantportal/internal/models"
	"restaurantportal/internal/orders"
)

/* =======================
   MENU
======================= */

type Menu struct {
	mu         sync.RWMutex
	categories map[primitive.ObjectID]models.MenuCategory
	items      map[primitive.ObjectID]models.MenuItem
}

func NewMenu() *Menu {
	return &Menu{
		categories: map[primitive.ObjectID]models.MenuCategory{},
		items:      map[primitive.ObjectID]models.MenuItem{},
	}
}

func (m *Menu) ListCategories(_ context.Context, restaurantID string) ([]models.MenuCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.MenuCategory, 0)
	for _, category := range m.categories {
		if category.RestaurantID == restaurantID {
			out = append(out, category)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Menu) ListItems(_ context.Context, restaurantID string, categoryID primitive.ObjectID) ([]models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.MenuItem, 0)
	for _, item := range m.items {
		if item.RestaurantID == restaurantID && item.CategoryID == categoryID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Menu) InsertCategory(_ context.Context, category *models.MenuCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	category.ID = primitive.NewObjectID()
	m.categories[category.ID] = *category
	return nil
}

func (m *Menu) GetCategory(_ context.Context, restaurantID string, categoryID primitive.ObjectID) (models.MenuCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	category, ok := m.categories[categoryID]
	if !ok || category.RestaurantID != restaurantID {
		return models.MenuCategory{}, apperr.NotFound("category", categoryID.Hex())
	}
	return category, nil
}

func (m *Menu) SaveCategory(_ context.Context, category models.MenuCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.categories[category.ID]
	if !ok || existing.RestaurantID != category.RestaurantID {
		return apperr.NotFound("category", category.ID.Hex())
	}
	m.categories[category.ID] = category
	return nil
}

func (m *Menu) DeleteCategory(_ context.Context, restaurantID string, categoryID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.categories[categoryID]
	if !ok || existing.RestaurantID != restaurantID {
		return apperr.NotFound("category", categoryID.Hex())
	}
	delete(m.categories, categoryID)
	return nil
}

func (m *Menu) InsertItem(_ context.Context, item *models.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item.ID = primitive.NewObjectID()
	m.items[item.ID] = *item
	return nil
}

func (m *Menu) GetItem(_ context.Context, restaurantID string, categoryID, itemID primitive.ObjectID) (models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[itemID]
	if !ok || item.RestaurantID != restaurantID || item.CategoryID != categoryID {
		return models.MenuItem{}, apperr.NotFound("item", itemID.Hex())
	}
	return item, nil
}

func (m *Menu) SaveItem(_ context.Context, item models.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.items[item.ID]
	if !ok || existing.RestaurantID != item.RestaurantID || existing.CategoryID != item.CategoryID {
		return apperr.NotFound("item", item.ID.Hex())
	}
	m.items[item.ID] = item
	return nil
}

func (m *Menu) DeleteItem(_ context.Context, restaurantID string, categoryID, itemID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.items[itemID]
	if !ok || existing.RestaurantID != restaurantID || existing.CategoryID != categoryID {
		return apperr.NotFound("item", itemID.Hex())
	}
	delete(m.items, itemID)
	return nil
}

/* =======================
   ORDERS
======================= */

type Orders struct {
	mu         sync.RWMutex
	global     map[string]models.Order
	restaurant map[string]models.Order
}

func NewOrders() *Orders {
	return &Orders{global: map[string]models.Order{}, restaurant: map[string]models.Order{}}
}

func (o *Orders) InsertGlobal(_ context.Context, order models.Order) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.global[order.OrderNumber]; ok {
		return orders.ErrDuplicate
	}
	o.global[order.OrderNumber] = order
	return nil
}

func (o *Orders) DeleteGlobal(_ context.Context, orderNumber string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.global[orderNumber]; !ok {
		return apperr.NotFound("order", orderNumber)
	}
	delete(o.global, orderNumber)
	return nil
}

func (o *Orders) UpdateGlobalStatus(_ context.Context, orderNumber string, status models.OrderStatus, updatedAt time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	order, ok := o.global[orderNumber]
	if !ok {
		return apperr.NotFound("order", orderNumber)
	}
	order.Status = status
	order.UpdatedAt = updatedAt
	o.global[orderNumber] = order
	return nil
}

func (o *Orders) InsertRestaurantCopy(_ context.Context, order models.Order) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.restaurant[order.OrderNumber]; ok {
		return orders.ErrDuplicate
	}
	o.restaurant[order.OrderNumber] = order
	return nil
}

func (o *Orders) GetRestaurantCopy(_ context.Context, restaurantID, orderNumber string) (models.Order, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	order, ok := o.restaurant[orderNumber]
	if !ok || order.RestaurantID != restaurantID {
		return models.Order{}, apperr.NotFound("order", orderNumber)
	}
	return order, nil
}

func (o *Orders) UpdateRestaurantStatus(_ context.Context, restaurantID, orderNumber string, status models.OrderStatus, updatedAt time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	order, ok := o.restaurant[orderNumber]
	if !ok || order.RestaurantID != restaurantID {
		return apperr.NotFound("order", orderNumber)
	}
	order.Status = status
	order.UpdatedAt = updatedAt
	o.restaurant[orderNumber] = order
	return nil
}

func (o *Orders) ListRestaurantOrders(_ context.Context, restaurantID string, query orders.ListQuery) ([]models.Order, int64, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	matched := make([]models.Order, 0)
	for _, order := range o.restaurant {
		if order.RestaurantID != restaurantID {
			continue
		}
		if query.Status != "" && order.Status != query.Status {
			continue
		}
		matched = append(matched, order)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].OrderNumber > matched[j].OrderNumber
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := int(query.Skip())
	if start < 0 || start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if query.Limit > 0 && start+query.Limit < end {
		end = start + query.Limit
	}
	return matched[start:end], total, nil
}

// Global returns the registry copy of an order.
func (o *Orders) Global(orderNumber string) (models.Order, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	order, ok := o.global[orderNumber]
	return order, ok
}

/* =======================
   RESTAURANTS
======================= */

type Restaurants struct {
	mu          sync.RWMutex
	restaurants map[string]models.Restaurant
}

func NewRestaurants() *Restaurants {
	return &Restaurants{restaurants: map[string]models.Restaurant{}}
}

func (r *Restaurants) Create(_ context.Context, restaurant models.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.restaurants {
		if strings.EqualFold(existing.OwnerEmail, restaurant.OwnerEmail) {
			return apperr.Conflict("restaurant", "email already registered")
		}
	}
	r.restaurants[restaurant.ID] = restaurant
	return nil
}

func (r *Restaurants) FindByEmail(_ context.Context, email string) (models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, restaurant := range r.restaurants {
		if restaurant.OwnerEmail == email {
			return restaurant, nil
		}
	}
	return models.Restaurant{}, apperr.NotFound("restaurant", email)
}

func (r *Restaurants) FindByID(_ context.Context, id string) (models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	restaurant, ok := r.restaurants[id]
	if !ok {
		return models.Restaurant{}, apperr.NotFound("restaurant", id)
	}
	return restaurant, nil
}

func (r *Restaurants) UpdateProfile(_ context.Context, id string, name, websiteURL *string, now time.Time) (models.Restaurant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	restaurant, ok := r.restaurants[id]
	if !ok {
		return models.Restaurant{}, apperr.NotFound("restaurant", id)
	}
	if name != nil {
		restaurant.Name = *name
	}
	if websiteURL != nil {
		restaurant.WebsiteURL = *websiteURL
	}
	restaurant.UpdatedAt = now
	r.restaurants[id] = restaurant
	return restaurant, nil
}
