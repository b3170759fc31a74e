package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership statuses.
const (
	MembershipPending  = "pending"
	MembershipActive   = "active"
	MembershipRejected = "rejected"
	MembershipExpired  = "expired"
)

// FamilyMember is a dependant listed on a membership application.
type FamilyMember struct {
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email,omitempty" json:"email,omitempty"`
	Relation string `bson:"relation,omitempty" json:"relation,omitempty"`
}

// MembershipApplication is a member's application for a club card. Its
// _id is the card id staff scan at the desk; once active it is stored on
// the member as User.ApplicationForm. MembershipID is the human-facing
// AC-00001 style number.
type MembershipApplication struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	MembershipID     string              `bson:"membership_id,omitempty" json:"membership_id,omitempty"`
	MembershipType   string              `bson:"membership_type" json:"membership_type"`
	User             *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	Name             string              `bson:"name" json:"name"`
	Email            string              `bson:"email" json:"email"`
	Phone            string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Address          string              `bson:"address,omitempty" json:"address,omitempty"`
	FamilyMembers    []FamilyMember      `bson:"family_members,omitempty" json:"family_members,omitempty"`
	JobTitle         string              `bson:"job_title,omitempty" json:"job_title,omitempty"`
	OrganizationName string              `bson:"organization_name,omitempty" json:"organization_name,omitempty"`
	Nationality      string              `bson:"nationality,omitempty" json:"nationality,omitempty"`
	Image            string              `bson:"image,omitempty" json:"image,omitempty"`
	MembershipStatus string              `bson:"membership_status" json:"membership_status"`
	ExpiresAt        *time.Time          `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	CreatedAt        time.Time           `bson:"created_at" json:"created_at,omitzero"`
	UpdatedAt        time.Time           `bson:"updated_at" json:"updated_at,omitzero"`
}
