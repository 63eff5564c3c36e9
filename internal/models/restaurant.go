package models

import "time"

// Restaurant is keyed by the owner identity; one owner runs one restaurant.
type Restaurant struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	OwnerEmail   string    `bson:"ownerEmail" json:"ownerEmail"`
	WebsiteURL   string    `bson:"websiteUrl,omitempty" json:"websiteUrl,omitempty"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
