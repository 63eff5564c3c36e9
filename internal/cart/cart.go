// Package cart keeps a visitor's in-progress order for one restaurant. Each
// mutation is persisted immediately so a reload restores the same lines.
package cart

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"restaurantportal/internal/apperr"
	"restaurantportal/internal/pricing"
)

const keyPrefix = "restaurant-cart-"

// Snapshot is the item data captured when a line is added. Later menu edits
// do not change lines already in a cart.
type Snapshot struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	FinalPrice float64 `json:"finalPrice"`
}

type Line struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	FinalPrice float64 `json:"finalPrice"`
	Quantity   int     `json:"quantity"`
}

func (l Line) UnitPrice() float64 { return l.FinalPrice }
func (l Line) Count() int         { return l.Quantity }

// Storage persists cart lines under an opaque key.
type Storage interface {
	Load(ctx context.Context, key string) ([]Line, error)
	Save(ctx context.Context, key string, lines []Line) error
	Delete(ctx context.Context, key string) error
}

// StorageKey scopes a cart to a restaurant and a visitor session.
func StorageKey(restaurantID, session string) string {
	return keyPrefix + restaurantID + ":" + session
}

type Cart struct {
	mu           sync.Mutex
	restaurantID string
	session      string
	key          string
	storage      Storage
	lines        []Line
}

// View is the JSON shape returned to embed clients.
type View struct {
	RestaurantID string  `json:"restaurantId"`
	Session      string  `json:"session"`
	Items        []Line  `json:"items"`
	Total        float64 `json:"total"`
}

// New loads the persisted cart of session at restaurantID. A missing cart
// starts empty.
func New(ctx context.Context, restaurantID, session string, storage Storage) (*Cart, error) {
	restaurantID = strings.TrimSpace(restaurantID)
	session = strings.TrimSpace(session)
	if restaurantID == "" {
		return nil, apperr.Validation("restaurantId", "restaurantId is required")
	}
	if session == "" {
		return nil, apperr.Validation("session", "session is required")
	}

	key := StorageKey(restaurantID, session)
	lines, err := storage.Load(ctx, key)
	if err != nil {
		return nil, apperr.Dependency("load cart", err)
	}

	return &Cart{
		restaurantID: restaurantID,
		session:      session,
		key:          key,
		storage:      storage,
		lines:        sanitize(lines),
	}, nil
}

func (c *Cart) RestaurantID() string { return c.restaurantID }

// AddItem increments the line for snapshot.ID or appends a new one. A
// quantity of zero or less adds one unit.
func (c *Cart) AddItem(ctx context.Context, snapshot Snapshot, quantity int) error {
	snapshot.ID = strings.TrimSpace(snapshot.ID)
	if snapshot.ID == "" {
		return apperr.Validation("id", "item id is required")
	}
	if math.IsNaN(snapshot.FinalPrice) || math.IsInf(snapshot.FinalPrice, 0) || snapshot.FinalPrice < 0 {
		return apperr.Validation("finalPrice", "finalPrice must be a non-negative number")
	}
	if quantity <= 0 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID == snapshot.ID {
			c.lines[i].Quantity += quantity
			return c.persist(ctx)
		}
	}
	c.lines = append(c.lines, Line{
		ID:         snapshot.ID,
		Name:       snapshot.Name,
		FinalPrice: snapshot.FinalPrice,
		Quantity:   quantity,
	})
	return c.persist(ctx)
}

// UpdateQuantity sets the quantity of an existing line; zero or less removes
// it. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(ctx, itemID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID == itemID {
			c.lines[i].Quantity = quantity
			return c.persist(ctx)
		}
	}
	return nil
}

func (c *Cart) RemoveItem(ctx context.Context, itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.lines[:0]
	removed := false
	for _, line := range c.lines {
		if line.ID == itemID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	c.lines = kept
	if !removed {
		return nil
	}
	return c.persist(ctx)
}

func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	if err := c.storage.Delete(ctx, c.key); err != nil {
		return apperr.Dependency("clear cart", err)
	}
	return nil
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Total() float64 {
	return pricing.Total(c.Lines())
}

func (c *Cart) View() View {
	lines := c.Lines()
	return View{
		RestaurantID: c.restaurantID,
		Session:      c.session,
		Items:        lines,
		Total:        pricing.Total(lines),
	}
}

// Checkout hands the lines and total to place and clears the cart only
// after place succeeds. An empty cart is rejected before place runs.
func (c *Cart) Checkout(ctx context.Context, place func(ctx context.Context, lines []Line, total float64) error) error {
	lines := c.Lines()
	if len(lines) == 0 {
		return apperr.Validation("items", "cart is empty")
	}
	if err := place(ctx, lines, pricing.Total(lines)); err != nil {
		return err
	}
	return c.Clear(ctx)
}

func (c *Cart) persist(ctx context.Context) error {
	if len(c.lines) == 0 {
		if err := c.storage.Delete(ctx, c.key); err != nil {
			return apperr.Dependency("save cart", err)
		}
		return nil
	}
	if err := c.storage.Save(ctx, c.key, c.lines); err != nil {
		return apperr.Dependency("save cart", fmt.Errorf("%s: %w", c.key, err))
	}
	return nil
}

// sanitize drops lines a tampered or outdated payload may carry.
func sanitize(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line.ID) == "" || line.Quantity <= 0 {
			continue
		}
		if math.IsNaN(line.FinalPrice) || math.IsInf(line.FinalPrice, 0) || line.FinalPrice < 0 {
			continue
		}
		out = append(out, line)
	}
	return out
}
