package models

import (
	"strings"
	"time"
)

// OrderStatus is the order-management lifecycle. It is unrelated to
// SocialPostStatus even where the string values overlap.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

func ParseOrderStatus(value string) (OrderStatus, bool) {
	candidate := OrderStatus(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range OrderStatuses {
		if status == candidate {
			return status, true
		}
	}
	return "", false
}

type OrderType string

const (
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery" // reserved
)

type PaymentMethod string

const (
	PaymentAtRestaurant PaymentMethod = "pay-at-restaurant"
	PaymentOnline       PaymentMethod = "online" // reserved
)

// ParsePaymentMethod also understands the spellings sent by the embed
// widget's radio buttons.
func ParsePaymentMethod(value string) (PaymentMethod, bool) {
	switch strings.TrimSpace(value) {
	case string(PaymentAtRestaurant), "payAtRestaurant":
		return PaymentAtRestaurant, true
	case string(PaymentOnline), "onlinePayment":
		return PaymentOnline, true
	default:
		return "", false
	}
}

func ParseOrderType(value string) (OrderType, bool) {
	switch OrderType(strings.ToLower(strings.TrimSpace(value))) {
	case OrderTypePickup:
		return OrderTypePickup, true
	case OrderTypeDelivery:
		return OrderTypeDelivery, true
	default:
		return "", false
	}
}

// OrderCustomer captures the contact details entered at checkout.
type OrderCustomer struct {
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone" json:"phone"`
	Email string `bson:"email" json:"email"`
}

// OrderItem snapshots a menu item at the moment the order was placed.
type OrderItem struct {
	ItemID     string  `bson:"itemId" json:"id"`
	Name       string  `bson:"name" json:"name"`
	FinalPrice float64 `bson:"finalPrice" json:"finalPrice"`
	Quantity   int     `bson:"quantity" json:"quantity"`
}

// Order is stored twice: once in the global registry and once in the
// restaurant's own index. Both copies carry this exact document.
type Order struct {
	OrderNumber   string        `bson:"_id" json:"orderNumber"`
	RestaurantID  string        `bson:"restaurantId" json:"restaurantId"`
	Customer      OrderCustomer `bson:"customer" json:"customer"`
	Items         []OrderItem   `bson:"items" json:"items"`
	Total         float64       `bson:"total" json:"total"`
	PickupTime    string        `bson:"pickupTime" json:"pickupTime"`
	OrderType     OrderType     `bson:"orderType" json:"orderType"`
	PaymentMethod PaymentMethod `bson:"paymentMethod" json:"paymentMethod"`
	Status        OrderStatus   `bson:"status" json:"status"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt" json:"updatedAt"`
}
