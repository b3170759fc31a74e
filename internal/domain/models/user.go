// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is any account: club members (role user), partners, admins and
// superadmins.
//
// ApplicationForm is the member's card / application id. Partners type
// it at the desk to check a member in or record a redemption.
type User struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Name            string              `bson:"name" json:"name,omitempty"`
	NameCI          string              `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email           string              `bson:"email" json:"email,omitempty"`
	Phone           string              `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash    string              `bson:"password_hash,omitempty" json:"-"`
	Role            string              `bson:"role" json:"role,omitempty"`
	Verified        bool                `bson:"verified" json:"verified"`
	ProfileImage    string              `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	Preferences     []string            `bson:"preferences,omitempty" json:"preferences,omitempty"`
	ApplicationForm *primitive.ObjectID `bson:"application_form,omitempty" json:"application_form,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at,omitzero"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at,omitzero"`
}

// UserSummary is the public shape of a user embedded in other records.
type UserSummary struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	Name         string             `bson:"name" json:"name,omitempty"`
	Email        string             `bson:"email" json:"email,omitempty"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	ProfileImage string             `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	Role         string             `bson:"role" json:"role,omitempty"`
}

// Summary returns the public shape of u.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		ProfileImage: u.ProfileImage,
		Role:         u.Role,
	}
}
