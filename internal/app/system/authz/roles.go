// internal/app/system/authz/roles.go
package authz

import (
	"net/http"
	"strings"
)

// Roles known to the club backend.
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RolePartner    = "partner"
	RoleUser       = "user"
)

// Staff roles may manage club content.
var Staff = []string{RoleSuperAdmin, RoleAdmin}

// Desk roles may record check-ins and redemptions.
var Desk = []string{RoleSuperAdmin, RoleAdmin, RolePartner}

// All is every signed-in role.
var All = []string{RoleSuperAdmin, RoleAdmin, RolePartner, RoleUser}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleSuperAdmin, RoleAdmin, RolePartner, RoleUser:
		return true
	}
	return false
}

// HasAnyRole reports whether the current request's user has any of the given roles.
// Returns false if no user is present (i.e., not signed in).
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// Role returns the current user's role (lowercased) and whether a user is present.
func Role(r *http.Request) (string, bool) {
	role, _, ok := UserCtx(r)
	return role, ok
}
