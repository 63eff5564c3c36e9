package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MenuCategory struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RestaurantID string             `bson:"restaurantId" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CategoryWithItems is the owner-side projection used by the menu editor.
type CategoryWithItems struct {
	MenuCategory `bson:",inline"`
	Items        []MenuItem `bson:"-" json:"items"`
}
