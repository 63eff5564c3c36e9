// Package orders accepts orders from the public widget, records them in
// both the global registry and the restaurant's own index, and lets owners
// move them through their lifecycle.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"restaurantportal/internal/apperr"
	"restaurantportal/internal/events"
	"restaurantportal/internal/models"
	"restaurantportal/internal/pricing"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

var validate = validator.New()

type Options struct {
	// Transactions enables atomic dual writes when the store supports them.
	Transactions bool
	WriteRetries int
	RetryDelay   time.Duration
}

type Service struct {
	store     Store
	publisher events.Publisher
	opts      Options
	now       func() time.Time
	newNumber func(time.Time) (string, error)
}

func NewService(store Store, publisher events.Publisher, opts Options) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if opts.WriteRetries < 1 {
		opts.WriteRetries = 1
	}
	return &Service{
		store:     store,
		publisher: publisher,
		opts:      opts,
		now:       time.Now,
		newNumber: NewOrderNumber,
	}
}

type SubmitItem struct {
	ID         string
	Name       string
	FinalPrice float64
	Quantity   int
}

func (i SubmitItem) UnitPrice() float64 { return i.FinalPrice }
func (i SubmitItem) Count() int         { return i.Quantity }

type SubmitRequest struct {
	RestaurantID  string
	Customer      models.OrderCustomer
	Items         []SubmitItem
	PickupTime    string
	OrderType     string
	PaymentMethod string
	// Total is what the customer saw; nil means it was not sent.
	Total *float64
}

/* =======================
   SUBMIT
======================= */

// Submit validates the request and records the order in both indices. The
// caller sees success only when both copies are durable.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (models.Order, error) {
	order, err := s.buildOrder(req)
	if err != nil {
		return models.Order{}, err
	}

	number, err := s.newNumber(order.CreatedAt)
	if err != nil {
		return models.Order{}, apperr.Dependency("generate order number", err)
	}
	order.OrderNumber = number

	if err := s.record(ctx, order); err != nil {
		log.Printf("[ORDER] [ERROR] submit %s for restaurant %s failed: %v", number, order.RestaurantID, err)
		return models.Order{}, err
	}

	log.Printf("[ORDER] [INFO] order %s recorded for restaurant %s total=%s",
		number, order.RestaurantID, pricing.FormatPrice(order.Total))

	event := events.New(events.TypeOrderCreated, order.RestaurantID, number, string(order.Status), order.CreatedAt)
	event.Total = order.Total
	events.PublishBestEffort(ctx, s.publisher, event)

	return order, nil
}

func (s *Service) buildOrder(req SubmitRequest) (models.Order, error) {
	restaurantID := strings.TrimSpace(req.RestaurantID)
	if restaurantID == "" {
		return models.Order{}, apperr.Validation("restaurantId", "restaurantId is required")
	}

	customer := models.OrderCustomer{
		Name:  strings.TrimSpace(req.Customer.Name),
		Phone: strings.TrimSpace(req.Customer.Phone),
		Email: strings.TrimSpace(req.Customer.Email),
	}
	if customer.Name == "" {
		return models.Order{}, apperr.Validation("customer.name", "customer name is required")
	}
	if customer.Phone == "" {
		return models.Order{}, apperr.Validation("customer.phone", "customer phone is required")
	}
	if customer.Email == "" {
		return models.Order{}, apperr.Validation("customer.email", "customer email is required")
	}
	if err := validate.Var(customer.Email, "email"); err != nil {
		return models.Order{}, apperr.Validation("customer.email", "customer email is invalid")
	}

	if len(req.Items) == 0 {
		return models.Order{}, apperr.Validation("items", "at least one item is required")
	}
	items := make([]models.OrderItem, 0, len(req.Items))
	for i, item := range req.Items {
		field := fmt.Sprintf("items[%d]", i)
		id := strings.TrimSpace(item.ID)
		name := strings.TrimSpace(item.Name)
		switch {
		case id == "":
			return models.Order{}, apperr.Validation(field+".id", "item id is required")
		case name == "":
			return models.Order{}, apperr.Validation(field+".name", "item name is required")
		case item.Quantity < 1:
			return models.Order{}, apperr.Validation(field+".quantity", "quantity must be at least 1")
		case math.IsNaN(item.FinalPrice) || math.IsInf(item.FinalPrice, 0) || item.FinalPrice < 0:
			return models.Order{}, apperr.Validation(field+".finalPrice", "finalPrice must be a non-negative number")
		}
		items = append(items, models.OrderItem{ItemID: id, Name: name, FinalPrice: item.FinalPrice, Quantity: item.Quantity})
	}

	pickupTime := strings.TrimSpace(req.PickupTime)
	if pickupTime == "" {
		return models.Order{}, apperr.Validation("pickupTime", "pickupTime is required")
	}

	orderType, err := parseOrderType(req.OrderType)
	if err != nil {
		return models.Order{}, err
	}
	paymentMethod, err := parsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return models.Order{}, err
	}

	if req.Total == nil {
		return models.Order{}, apperr.Validation("total", "total is required")
	}
	total := pricing.Total(req.Items)
	if !pricing.SameAmount(*req.Total, total) {
		return models.Order{}, apperr.Validation("total", fmt.Sprintf("total does not match items (expected %s)", pricing.FormatPrice(total)))
	}

	now := s.now().UTC()
	return models.Order{
		RestaurantID:  restaurantID,
		Customer:      customer,
		Items:         items,
		Total:         total,
		PickupTime:    pickupTime,
		OrderType:     orderType,
		PaymentMethod: paymentMethod,
		Status:        models.OrderStatusNew,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func parseOrderType(raw string) (models.OrderType, error) {
	if strings.TrimSpace(raw) == "" {
		return "", apperr.Validation("orderType", "orderType is required")
	}
	orderType, ok := models.ParseOrderType(raw)
	if !ok {
		return "", apperr.Validation("orderType", "unknown orderType")
	}
	if orderType != models.OrderTypePickup {
		return "", apperr.Validation("orderType", string(orderType)+" is not available yet")
	}
	return orderType, nil
}

func parsePaymentMethod(raw string) (models.PaymentMethod, error) {
	if strings.TrimSpace(raw) == "" {
		return "", apperr.Validation("paymentMethod", "paymentMethod is required")
	}
	method, ok := models.ParsePaymentMethod(raw)
	if !ok {
		return "", apperr.Validation("paymentMethod", "unknown paymentMethod")
	}
	if method != models.PaymentAtRestaurant {
		return "", apperr.Validation("paymentMethod", string(method)+" payment is not available yet")
	}
	return method, nil
}

// record writes both copies as one logical operation. A transaction is used
// when enabled and supported; otherwise the restaurant copy is retried and,
// if it never lands, the global copy is removed again.
func (s *Service) record(ctx context.Context, order models.Order) error {
	if s.opts.Transactions {
		if tx, ok := s.store.(Transactor); ok {
			err := tx.RecordAtomically(ctx, order)
			switch {
			case err == nil:
				return nil
			case errors.Is(err, ErrTransactionsUnsupported):
				log.Printf("[ORDER] [WARN] transactions unavailable, using compensating writes for %s", order.OrderNumber)
			default:
				return apperr.Dependency("record order", err)
			}
		}
	}
	return s.recordWithCompensation(ctx, order)
}

func (s *Service) recordWithCompensation(ctx context.Context, order models.Order) error {
	if err := s.store.InsertGlobal(ctx, order); err != nil {
		return apperr.Dependency("insert order", err)
	}

	insertErr := retry(ctx, "insert restaurant order", s.opts.WriteRetries, s.opts.RetryDelay, func(ctx context.Context) error {
		err := s.store.InsertRestaurantCopy(ctx, order)
		if errors.Is(err, ErrDuplicate) {
			// an earlier attempt landed before reporting failure
			return nil
		}
		return err
	})
	if insertErr == nil {
		return nil
	}

	compensateErr := retry(ctx, "remove global order", s.opts.WriteRetries, s.opts.RetryDelay, func(ctx context.Context) error {
		err := s.store.DeleteGlobal(ctx, order.OrderNumber)
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	})
	if compensateErr != nil {
		log.Printf("[ORDER] [ERROR] order %s left only in global registry: insert=%v compensate=%v",
			order.OrderNumber, insertErr, compensateErr)
		return apperr.ConsistencyError{
			OrderNumber: order.OrderNumber,
			Op:          "insert restaurant order",
			Err:         errors.Join(insertErr, compensateErr),
		}
	}
	return apperr.Dependency("insert restaurant order", insertErr)
}

/* =======================
   STATUS MANAGEMENT
======================= */

type OrderPage struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}

// ListOrders returns the restaurant's orders newest first. status may be
// empty or "all" for no filter.
func (s *Service) ListOrders(ctx context.Context, restaurantID, status string, page, limit int) (OrderPage, error) {
	query := ListQuery{Page: page, Limit: limit}
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = defaultPageLimit
	}
	if query.Limit > maxPageLimit {
		query.Limit = maxPageLimit
	}

	status = strings.TrimSpace(status)
	if status != "" && !strings.EqualFold(status, "all") {
		parsed, ok := models.ParseOrderStatus(status)
		if !ok {
			return OrderPage{}, apperr.Validation("status", "unknown status")
		}
		query.Status = parsed
	}

	orders, total, err := s.store.ListRestaurantOrders(ctx, restaurantID, query)
	if err != nil {
		return OrderPage{}, apperr.Dependency("list orders", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return OrderPage{Orders: orders, Total: total, Page: query.Page, Limit: query.Limit}, nil
}

// SetStatus moves an order to status in both copies. The restaurant copy is
// updated first; if the registry cannot follow, the restaurant copy is put
// back so both keep agreeing.
func (s *Service) SetStatus(ctx context.Context, restaurantID, orderNumber, rawStatus string) (models.Order, error) {
	status, ok := models.ParseOrderStatus(rawStatus)
	if !ok {
		return models.Order{}, apperr.Validation("status", "status must be one of new, preparing, ready, completed, cancelled")
	}
	orderNumber = strings.TrimSpace(orderNumber)

	current, err := s.store.GetRestaurantCopy(ctx, restaurantID, orderNumber)
	if err != nil {
		if apperr.IsNotFound(err) {
			return models.Order{}, err
		}
		return models.Order{}, apperr.Dependency("find order", err)
	}

	now := s.now().UTC()
	if err := s.store.UpdateRestaurantStatus(ctx, restaurantID, orderNumber, status, now); err != nil {
		if apperr.IsNotFound(err) {
			return models.Order{}, err
		}
		return models.Order{}, apperr.Dependency("update order status", err)
	}

	globalErr := retry(ctx, "update global order status", s.opts.WriteRetries, s.opts.RetryDelay, func(ctx context.Context) error {
		err := s.store.UpdateGlobalStatus(ctx, orderNumber, status, now)
		if apperr.IsNotFound(err) {
			return errRegistryMissing
		}
		return err
	})
	if globalErr != nil {
		return models.Order{}, s.revertStatus(ctx, restaurantID, current, globalErr)
	}

	updated := current
	updated.Status = status
	updated.UpdatedAt = now

	log.Printf("[ORDER] [INFO] order %s status %s -> %s", orderNumber, current.Status, status)
	events.PublishBestEffort(ctx, s.publisher,
		events.New(events.TypeOrderStatusChanged, restaurantID, orderNumber, string(status), now))

	return updated, nil
}

var errRegistryMissing = errors.New("order missing from global registry")

func (s *Service) revertStatus(ctx context.Context, restaurantID string, previous models.Order, cause error) error {
	revertErr := retry(ctx, "revert order status", s.opts.WriteRetries, s.opts.RetryDelay, func(ctx context.Context) error {
		return s.store.UpdateRestaurantStatus(ctx, restaurantID, previous.OrderNumber, previous.Status, previous.UpdatedAt)
	})

	if revertErr != nil || errors.Is(cause, errRegistryMissing) {
		log.Printf("[ORDER] [ERROR] order %s status diverged: update=%v revert=%v", previous.OrderNumber, cause, revertErr)
		return apperr.ConsistencyError{
			OrderNumber: previous.OrderNumber,
			Op:          "update order status",
			Err:         errors.Join(cause, revertErr),
		}
	}
	return apperr.Dependency("update order status", cause)
}
