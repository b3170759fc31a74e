// Package formutil reads path parameters and request fields for the JSON
// handlers and turns malformed input into 400 API errors.
package formutil

import (
	"net/http"
	"strings"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dateLayouts are accepted for date fields in request bodies.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// IDParam parses the chi URL parameter name as an ObjectID.
func IDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	return ObjectID(chi.URLParam(r, name), name)
}

// ObjectID parses hex, naming field in the error.
func ObjectID(hex, field string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, apierr.BadRequest("Invalid " + field)
	}
	return oid, nil
}

// Required returns a 400 naming label when value is blank.
func Required(label, value string) error {
	if strings.TrimSpace(value) == "" {
		return apierr.BadRequest(label + " is required")
	}
	return nil
}

// Trim returns a trimmed copy of p, or nil.
func Trim(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	return &s
}

// Date parses a date or timestamp from a request body.
func Date(raw, field string) (time.Time, error) {
	v := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apierr.BadRequest("Invalid " + field)
}
