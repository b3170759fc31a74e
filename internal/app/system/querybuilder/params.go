// internal/app/system/querybuilder/params.go
package querybuilder

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Reserved query-string keys. These control the query and are never
// treated as filters.
const (
	KeySearchTerm = "searchTerm"
	KeyPage       = "page"
	KeyLimit      = "limit"
	KeyFields     = "fields"
	KeySortBy     = "sortBy"
	KeySortOrder  = "sortOrder"
)

// ReservedKeys is the single list shared by parsing and filtering.
// Any key not in this list is a candidate filter.
var ReservedKeys = []string{
	KeySearchTerm,
	KeyPage,
	KeyLimit,
	KeyFields,
	KeySortBy,
	KeySortOrder,
}

// Defaults applied when a control parameter is absent or invalid.
const (
	DefaultPage   = 1
	DefaultLimit  = 10
	DefaultSortBy = "created_at"
	IDField       = "_id"
)

// SortOrder is the direction of the primary sort key.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// dir returns the Mongo sort direction for the order.
func (o SortOrder) dir() int {
	if o == Asc {
		return 1
	}
	return -1
}

// Range is a structured range filter. Empty bounds are ignored.
// On the query string it arrives as field[gte]=..&field[lte]=..
type Range struct {
	Gte string
	Lte string
	Gt  string
	Lt  string
}

// IsZero reports whether no bound is set.
func (r Range) IsZero() bool {
	return r.Gte == "" && r.Lte == "" && r.Gt == "" && r.Lt == ""
}

// Params is the typed form of a list request's query string.
//
// Filters holds every non-reserved key. Values are string (equality),
// []string (membership), Range, or anything a caller pre-shaped before
// handing Params to New (bson.M, primitive.ObjectID, bool, ...).
type Params struct {
	Page       int
	Limit      int
	SearchTerm string
	Fields     []string
	SortBy     string
	SortOrder  SortOrder
	Filters    map[string]any
}

// FromRequest parses the request's query string.
func FromRequest(r *http.Request) Params {
	return ParseParams(r.URL.Query())
}

// ParseParams converts raw query values into Params. Malformed numbers
// fall back to defaults; nothing here returns an error. The input is
// not modified.
func ParseParams(q url.Values) Params {
	p := Params{
		Page:       positiveInt(q.Get(KeyPage), DefaultPage),
		Limit:      positiveInt(q.Get(KeyLimit), DefaultLimit),
		SearchTerm: strings.TrimSpace(q.Get(KeySearchTerm)),
		Fields:     splitFields(q.Get(KeyFields)),
		SortBy:     strings.TrimSpace(q.Get(KeySortBy)),
		SortOrder:  parseSortOrder(q.Get(KeySortOrder)),
		Filters:    map[string]any{},
	}
	p.Page = clampPage(p.Page, p.Limit)

	ranges := map[string]Range{}
	for key, vals := range q {
		if isReserved(key) || len(vals) == 0 {
			continue
		}
		if field, op, ok := splitRangeKey(key); ok {
			rg := ranges[field]
			v := strings.TrimSpace(vals[0])
			switch op {
			case "gte":
				rg.Gte = v
			case "lte":
				rg.Lte = v
			case "gt":
				rg.Gt = v
			case "lt":
				rg.Lt = v
			}
			ranges[field] = rg
			continue
		}
		if len(vals) == 1 {
			p.Filters[key] = vals[0]
			continue
		}
		cp := make([]string, len(vals))
		copy(cp, vals)
		p.Filters[key] = cp
	}
	for field, rg := range ranges {
		if !rg.IsZero() {
			p.Filters[field] = rg
		}
	}
	return p
}

// Skip returns the number of records before the requested page.
func (p Params) Skip() int64 {
	return skip(p.Page, p.Limit)
}

// clampPage bounds page so that (page-1)*limit fits in an int64.
func clampPage(page, limit int) int {
	if limit < 1 || page < 1 {
		return page
	}
	if maxSkipPages := math.MaxInt64 / int64(limit); int64(page-1) > maxSkipPages {
		return int(maxSkipPages) + 1
	}
	return page
}

func skip(page, limit int) int64 {
	if page < 1 || limit < 1 {
		return 0
	}
	return int64(clampPage(page, limit)-1) * int64(limit)
}

func isReserved(key string) bool {
	for _, k := range ReservedKeys {
		if k == key {
			return true
		}
	}
	return false
}

func positiveInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func parseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(Asc)) {
		return Asc
	}
	return Desc
}

func splitFields(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// splitRangeKey recognises "field[op]" keys.
func splitRangeKey(key string) (field, op string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	field = key[:open]
	op = strings.ToLower(key[open+1 : len(key)-1])
	switch op {
	case "gte", "lte", "gt", "lt":
		return field, op, true
	}
	return "", "", false
}
