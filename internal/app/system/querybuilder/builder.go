// internal/app/system/querybuilder/builder.go
package querybuilder

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Source is a queryable handle bound to one collection. *mongo.Collection
// satisfies it.
type Source interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

// Builder composes a list query from Params. It is a value: every step
// returns a new Builder and never mutates the receiver, so a Builder can
// be shared between the data fetch and the count.
//
// Each step owns one slot (window, search, projection, filter, sort).
// Steps therefore commute; only the window is excluded from the count.
type Builder struct {
	src    Source
	params Params
	schema Schema

	base       bson.M // caller scope, always applied
	hidden     map[string]bool
	defProj    []string
	defSort    string
	paginated  bool
	page       int
	limit      int
	search     bson.A // $or branches
	projection bson.D
	filter     bson.M
	sort       bson.D
}

// Option configures a Builder at construction.
type Option func(*Builder)

// WithSchema declares field kinds used to coerce filter values.
func WithSchema(s Schema) Option {
	return func(b *Builder) { b.schema = s }
}

// WithBaseFilter scopes every query and count to the given predicate
// (e.g. "offers owned by the caller").
func WithBaseFilter(f bson.M) Option {
	return func(b *Builder) {
		cp := bson.M{}
		for k, v := range f {
			cp[k] = v
		}
		b.base = cp
	}
}

// WithHiddenFields names fields a request may never filter on, sort by or
// project. They are also excluded from results when no projection is set.
func WithHiddenFields(fields ...string) Option {
	return func(b *Builder) {
		b.hidden = make(map[string]bool, len(fields))
		for _, f := range fields {
			b.hidden[f] = true
		}
	}
}

// WithProjection sets the projection used when the request has no fields.
func WithProjection(fields ...string) Option {
	return func(b *Builder) { b.defProj = append([]string(nil), fields...) }
}

// WithDefaultSort replaces DefaultSortBy for requests without sortBy.
func WithDefaultSort(field string) Option {
	return func(b *Builder) { b.defSort = field }
}

// New returns a Builder over src. params is copied; the caller's maps are
// never written.
func New(src Source, params Params, opts ...Option) Builder {
	b := Builder{
		src:    src,
		params: params,
		page:   DefaultPage,
		limit:  DefaultLimit,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Paginate records page/limit and sets the skip/limit window.
func (b Builder) Paginate() Builder {
	b.page = b.params.Page
	if b.page < 1 {
		b.page = DefaultPage
	}
	b.limit = b.params.Limit
	if b.limit < 1 {
		b.limit = DefaultLimit
	}
	b.page = clampPage(b.page, b.limit)
	b.paginated = true
	return b
}

// Search adds a case-insensitive substring match over fields, OR-ed
// together. Fields not listed are never matched. No-op without a search
// term or fields.
func (b Builder) Search(fields ...string) Builder {
	term := strings.TrimSpace(b.params.SearchTerm)
	if term == "" || len(fields) == 0 {
		b.search = nil
		return b
	}
	pattern := regexp.QuoteMeta(term)
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: bson.M{"$regex": pattern, "$options": "i"}})
	}
	b.search = or
	return b
}

// Fields restricts the projection to the requested fields plus _id.
func (b Builder) Fields() Builder {
	fields := b.params.Fields
	if len(fields) == 0 {
		fields = b.defProj
	}
	if len(fields) == 0 {
		b.projection = b.hiddenExclusion()
		return b
	}
	proj := bson.D{{Key: IDField, Value: 1}}
	for _, f := range fields {
		if f == IDField || strings.HasPrefix(f, "$") || b.isHidden(f) {
			continue
		}
		proj = append(proj, bson.E{Key: f, Value: 1})
	}
	b.projection = proj
	return b
}

// Filter turns every non-reserved key into a predicate. Strings compare
// for equality, slices become $in, Range becomes $gte/$lte/$gt/$lt, and
// pre-shaped values pass through. Keys beginning with "$" are dropped.
func (b Builder) Filter() Builder {
	out := bson.M{}
	for key, val := range b.params.Filters {
		if key == "" || strings.HasPrefix(key, "$") || isReserved(key) || b.isHidden(key) {
			continue
		}
		out[key] = b.condition(key, val)
	}
	if len(out) == 0 {
		b.filter = nil
		return b
	}
	b.filter = out
	return b
}

// Sort orders by sortBy in sortOrder, then by _id in the same direction
// so equal keys keep a stable order across pages.
func (b Builder) Sort() Builder {
	field := b.params.SortBy
	if field == "" || b.isHidden(field) {
		field = b.defSort
	}
	if field == "" {
		field = DefaultSortBy
	}
	order := b.params.SortOrder
	if order == "" {
		order = Desc
	}
	dir := order.dir()
	s := bson.D{{Key: field, Value: dir}}
	if field != IDField {
		s = append(s, bson.E{Key: IDField, Value: dir})
	}
	b.sort = s
	return b
}

// Predicate is the conjunction of the base scope, the filter and the
// search clause. It does not depend on the order the steps ran in.
func (b Builder) Predicate() bson.M {
	var parts bson.A
	if len(b.base) > 0 {
		parts = append(parts, b.base)
	}
	if len(b.filter) > 0 {
		parts = append(parts, b.filter)
	}
	if len(b.search) > 0 {
		parts = append(parts, bson.M{"$or": b.search})
	}
	switch len(parts) {
	case 0:
		return bson.M{}
	case 1:
		return parts[0].(bson.M)
	}
	return bson.M{"$and": parts}
}

// FindOptions returns projection, sort and the page window.
func (b Builder) FindOptions() *options.FindOptions {
	fo := options.Find()
	if len(b.projection) > 0 {
		fo.SetProjection(b.projection)
	}
	if len(b.sort) > 0 {
		fo.SetSort(b.sort)
	}
	if b.paginated {
		fo.SetSkip(skip(b.page, b.limit))
		fo.SetLimit(int64(b.limit))
	}
	return fo
}

// Page returns the page and limit that PaginationInfo reports.
func (b Builder) Page() (page, limit int) {
	return b.page, b.limit
}

// PaginationInfo counts the records matching Predicate, ignoring the
// window, and derives totalPages from the recorded limit.
func (b Builder) PaginationInfo(ctx context.Context) (Pagination, error) {
	total, err := b.src.CountDocuments(ctx, b.Predicate())
	if err != nil {
		return Pagination{}, err
	}
	return NewPagination(b.page, b.limit, total), nil
}

// isHidden reports whether field, or the document it is nested in, is
// hidden.
func (b Builder) isHidden(field string) bool {
	if len(b.hidden) == 0 {
		return false
	}
	if b.hidden[field] {
		return true
	}
	for i := 0; i < len(field); i++ {
		if field[i] == '.' && b.hidden[field[:i]] {
			return true
		}
	}
	return false
}

func (b Builder) hiddenExclusion() bson.D {
	if len(b.hidden) == 0 {
		return nil
	}
	keys := make([]string, 0, len(b.hidden))
	for k := range b.hidden {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	proj := make(bson.D, 0, len(keys))
	for _, k := range keys {
		proj = append(proj, bson.E{Key: k, Value: 0})
	}
	return proj
}

func (b Builder) condition(field string, val any) any {
	switch v := val.(type) {
	case string:
		return b.schema.coerce(field, v)
	case []string:
		in := make(bson.A, 0, len(v))
		for _, s := range v {
			in = append(in, b.schema.coerce(field, s))
		}
		return bson.M{"$in": in}
	case Range:
		return b.rangeCondition(field, v)
	default:
		return val
	}
}

func (b Builder) rangeCondition(field string, r Range) bson.M {
	m := bson.M{}
	if r.Gte != "" {
		m["$gte"] = b.schema.coerce(field, r.Gte)
	}
	if r.Gt != "" {
		m["$gt"] = b.schema.coerce(field, r.Gt)
	}
	if r.Lte != "" {
		m["$lte"] = b.upperBound(field, r.Lte)
	}
	if r.Lt != "" {
		m["$lt"] = b.schema.coerce(field, r.Lt)
	}
	return m
}

// upperBound makes a bare date inclusive of the whole day.
func (b Builder) upperBound(field, raw string) any {
	v := b.schema.coerce(field, raw)
	t, ok := v.(time.Time)
	if !ok {
		return v
	}
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(raw)); err == nil {
		return t.Add(24*time.Hour - time.Nanosecond)
	}
	return t
}

// FilterKeys returns the active filter fields in sorted order. Used for
// logging.
func (b Builder) FilterKeys() []string {
	keys := make([]string, 0, len(b.filter))
	for k := range b.filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
