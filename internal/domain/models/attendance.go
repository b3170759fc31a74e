package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyAttendance is one member check-in. Day is the YYYY-MM-DD key of
// Date; (user, day) is unique.
type DailyAttendance struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Creator   primitive.ObjectID `bson:"creator" json:"creator,omitzero"`
	User      primitive.ObjectID `bson:"user" json:"user,omitzero"`
	Date      time.Time          `bson:"date" json:"date,omitzero"`
	Day       string             `bson:"day" json:"day,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at,omitzero"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at,omitzero"`
}

// MemberRedemption records that a member used their one-time benefit.
type MemberRedemption struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Creator   primitive.ObjectID `bson:"creator" json:"creator,omitzero"`
	User      primitive.ObjectID `bson:"user" json:"user,omitzero"`
	Date      time.Time          `bson:"date" json:"date,omitzero"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at,omitzero"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at,omitzero"`
}
