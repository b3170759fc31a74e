// internal/app/system/querybuilder/schema.go
package querybuilder

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind is the stored type of a field, used to coerce string filter values.
type Kind int

const (
	String Kind = iota
	Bool
	Int
	Float
	Time
	ObjectID
)

// Schema maps field names to their stored kind. Fields not listed are
// compared as strings.
type Schema map[string]Kind

// dateLayouts are tried in order when coercing a Time value.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// coerce converts a raw string to the field's kind. A value that does not
// parse is returned unchanged so that it simply matches nothing.
func (s Schema) coerce(field, raw string) any {
	kind, ok := s[field]
	if !ok {
		return raw
	}
	v := strings.TrimSpace(raw)
	switch kind {
	case Bool:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	case Int:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case Float:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	case Time:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC()
			}
		}
	case ObjectID:
		if oid, err := primitive.ObjectIDFromHex(v); err == nil {
			return oid
		}
	}
	return raw
}
