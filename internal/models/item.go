package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountAmount     DiscountType = "amount"
	DiscountPercentage DiscountType = "percentage"
)

// ParseDiscountType accepts the stored spellings; an empty value means no
// discount.
func ParseDiscountType(value string) (DiscountType, bool) {
	switch DiscountType(strings.ToLower(strings.TrimSpace(value))) {
	case "", DiscountNone:
		return DiscountNone, true
	case DiscountAmount:
		return DiscountAmount, true
	case DiscountPercentage:
		return DiscountPercentage, true
	default:
		return "", false
	}
}

// MenuItem belongs to exactly one category. FinalPrice is derived from
// Price, DiscountType and DiscountValue and stored rounded to cents.
type MenuItem struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RestaurantID     string             `bson:"restaurantId" json:"-"`
	CategoryID       primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description" json:"description"`
	Price            float64            `bson:"price" json:"price"`
	DiscountType     DiscountType       `bson:"discountType" json:"discountType"`
	DiscountValue    float64            `bson:"discountValue" json:"discountValue"`
	FinalPrice       float64            `bson:"finalPrice" json:"finalPrice"`
	Available        bool               `bson:"available" json:"available"`
	ImageURL         string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ImageStoragePath string             `bson:"imageStoragePath,omitempty" json:"-"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
