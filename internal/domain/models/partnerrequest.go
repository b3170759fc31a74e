package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Partnership statuses.
const (
	PartnershipPending  = "pending"
	PartnershipActive   = "active"
	PartnershipRejected = "rejected"
)

// PartnerRequest is a business's application to become a club partner.
// PartnershipID is the human-facing PC-00001 style identifier.
type PartnerRequest struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PartnershipID     string             `bson:"partnership_id,omitempty" json:"partnership_id,omitempty"`
	CompanyName       string             `bson:"company_name" json:"company_name,omitempty"`
	Industry          string             `bson:"industry,omitempty" json:"industry,omitempty"`
	ContactName       string             `bson:"contact_name" json:"contact_name,omitempty"`
	ContactEmail      string             `bson:"contact_email" json:"contact_email,omitempty"`
	ContactPhone      string             `bson:"contact_phone,omitempty" json:"contact_phone,omitempty"`
	Website           string             `bson:"website,omitempty" json:"website,omitempty"`
	Message           string             `bson:"message,omitempty" json:"message,omitempty"`
	ProfileImage      string             `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	PartnershipStatus string             `bson:"partnership_status" json:"partnership_status,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at,omitzero"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at,omitzero"`
}
