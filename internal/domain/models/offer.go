package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Offer review statuses.
const (
	OfferPending  = "pending"
	OfferApproved = "approved"
	OfferRejected = "rejected"
)

// GeoPoint is a GeoJSON Point; Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type,omitempty"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// Discount is an optional percentage or amount off.
type Discount struct {
	Enable bool    `bson:"enable" json:"enable"`
	Value  float64 `bson:"value" json:"value"`
}

// ExclusiveOffer is a partner's offer to club members.
type ExclusiveOffer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name,omitempty"`
	Title       string             `bson:"title" json:"title,omitempty"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	Location    *GeoPoint          `bson:"location,omitempty" json:"location,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Discount    Discount           `bson:"discount" json:"discount"`
	User        primitive.ObjectID `bson:"user" json:"user,omitzero"`
	Status      string             `bson:"status" json:"status,omitempty"`
	Published   bool               `bson:"published" json:"published"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at,omitzero"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at,omitzero"`
}

// OfferFavourite marks an offer as a member's favourite. (user, offer) is unique.
type OfferFavourite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user,omitzero"`
	Offer     primitive.ObjectID `bson:"offer" json:"offer,omitzero"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at,omitzero"`
}

// OfferView is one detail-page view of an offer.
type OfferView struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user,omitzero"`
	Offer     primitive.ObjectID `bson:"offer" json:"offer,omitzero"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at,omitzero"`
}
