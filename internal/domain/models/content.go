package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Sponsor struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title,omitempty"`
	Logo        string             `bson:"logo,omitempty" json:"logo,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Website     string             `bson:"website,omitempty" json:"website,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at,omitzero"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at,omitzero"`
}

type Story struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Club        string             `bson:"club,omitempty" json:"club,omitempty"`
	Published   bool               `bson:"published" json:"published"`
	CreatedBy   primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitzero"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at,omitzero"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at,omitzero"`
}

// StoryLike is one member's like; (user, story) is unique.
type StoryLike struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user,omitzero"`
	Story     primitive.ObjectID `bson:"story" json:"story,omitzero"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at,omitzero"`
}

// Notification is an in-app message for one receiver.
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Receiver  primitive.ObjectID  `bson:"receiver" json:"receiver,omitzero"`
	Sender    *primitive.ObjectID `bson:"sender,omitempty" json:"sender,omitempty"`
	Title     string              `bson:"title" json:"title,omitempty"`
	Message   string              `bson:"message" json:"message,omitempty"`
	RefID     *primitive.ObjectID `bson:"ref_id,omitempty" json:"ref_id,omitempty"`
	Path      string              `bson:"path,omitempty" json:"path,omitempty"`
	Seen      bool                `bson:"seen" json:"seen"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at,omitzero"`
}

// NotificationCount is a user's unseen-notification badge counter.
type NotificationCount struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User  primitive.ObjectID `bson:"user" json:"user,omitzero"`
	Count int                `bson:"count" json:"count"`
}
