// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), Mongo ObjectID, and a found flag.
// If no user is present or the session carries a malformed ID, it returns
// "visitor", NilObjectID, false, so ok=true always means a usable ObjectID.
func UserCtx(r *http.Request) (role string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return "visitor", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), userID, true
}

// UserID returns the signed-in user's ObjectID, or NilObjectID.
func UserID(r *http.Request) primitive.ObjectID {
	_, id, _ := UserCtx(r)
	return id
}

// IsSuperAdmin reports whether the current request's user is a superadmin.
func IsSuperAdmin(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == RoleSuperAdmin
}

// IsAdmin reports whether the current request's user is an admin.
// Superadmins count as admins.
func IsAdmin(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && (role == RoleAdmin || role == RoleSuperAdmin)
}

// IsPartner reports whether the current request's user is a partner.
func IsPartner(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == RolePartner
}

// CanModify reports whether the caller may change a record owned by owner:
// staff always, everyone else only their own.
func CanModify(r *http.Request, owner primitive.ObjectID) bool {
	role, id, ok := UserCtx(r)
	if !ok {
		return false
	}
	if role == RoleAdmin || role == RoleSuperAdmin {
		return true
	}
	return !owner.IsZero() && owner == id
}
