package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name,omitempty"`
	Title       string             `bson:"title" json:"title,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	EventDate   time.Time          `bson:"event_date" json:"event_date,omitzero"`
	Published   bool               `bson:"published" json:"published"`
	CreatedBy   primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitzero"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at,omitzero"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at,omitzero"`
}

// Registration statuses.
const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
	RegistrationRejected = "rejected"
)

// EventRegistration is a member's request to attend an event.
type EventRegistration struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Event     primitive.ObjectID `bson:"event" json:"event,omitzero"`
	User      primitive.ObjectID `bson:"user" json:"user,omitzero"`
	Status    string             `bson:"status" json:"status,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at,omitzero"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at,omitzero"`
}
