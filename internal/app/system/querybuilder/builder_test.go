package querybuilder_test

import (
	"context"
	"errors"
	"math"
	"net/url"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeSource records what it was asked and returns canned results.
type fakeSource struct {
	mu        sync.Mutex
	docs      []interface{}
	total     int64
	findErr   error
	countErr  error
	findArg   interface{}
	countArg  interface{}
	findOpts  *options.FindOptions
	findCalls int
}

func (f *fakeSource) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	f.findArg = filter
	if len(opts) > 0 {
		f.findOpts = opts[0]
	}
	if f.findErr != nil {
		return nil, f.findErr
	}
	return mongo.NewCursorFromDocuments(f.docs, nil, nil)
}

func (f *fakeSource) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countArg = filter
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.total, nil
}

func build(q url.Values, opts ...querybuilder.Option) querybuilder.Builder {
	return querybuilder.New(&fakeSource{}, querybuilder.ParseParams(q), opts...)
}

func TestPredicate_EmptyWithoutSteps(t *testing.T) {
	b := build(url.Values{"status": {"x"}, "searchTerm": {"y"}})
	if p := b.Predicate(); len(p) != 0 {
		t.Errorf("expected empty predicate, got %v", p)
	}
}

func TestPredicate_FilterEqualityAndIn(t *testing.T) {
	b := build(url.Values{"status": {"active"}, "role": {"admin", "user"}}).Filter()
	p := b.Predicate()

	if p["status"] != "active" {
		t.Errorf("status: got %#v", p["status"])
	}
	in, ok := p["role"].(bson.M)
	if !ok {
		t.Fatalf("role: got %#v", p["role"])
	}
	if !reflect.DeepEqual(in["$in"], bson.A{"admin", "user"}) {
		t.Errorf("role $in: got %#v", in["$in"])
	}
}

func TestFilter_DropsOperatorKeys(t *testing.T) {
	b := build(url.Values{"$where": {"1"}, "name": {"x"}}).Filter()
	p := b.Predicate()
	if _, ok := p["$where"]; ok {
		t.Error("operator key reached the predicate")
	}
	if p["name"] != "x" {
		t.Errorf("name: got %#v", p["name"])
	}
}

func TestFilter_SchemaCoercion(t *testing.T) {
	oid := primitive.NewObjectID()
	schema := querybuilder.Schema{
		"published": querybuilder.Bool,
		"count":     querybuilder.Int,
		"user":      querybuilder.ObjectID,
		"price":     querybuilder.Float,
	}
	q := url.Values{
		"published": {"true"},
		"count":     {"7"},
		"user":      {oid.Hex()},
		"price":     {"notanumber"},
	}
	p := build(q, querybuilder.WithSchema(schema)).Filter().Predicate()

	if p["published"] != true {
		t.Errorf("published: got %#v", p["published"])
	}
	if p["count"] != int64(7) {
		t.Errorf("count: got %#v", p["count"])
	}
	if p["user"] != oid {
		t.Errorf("user: got %#v", p["user"])
	}
	// failed coercion passes the raw string through
	if p["price"] != "notanumber" {
		t.Errorf("price: got %#v", p["price"])
	}
}

func TestFilter_DateRangeInclusiveEnd(t *testing.T) {
	schema := querybuilder.Schema{"created_at": querybuilder.Time}
	q := url.Values{"created_at[gte]": {"2024-01-01"}, "created_at[lte]": {"2024-01-31"}}
	p := build(q, querybuilder.WithSchema(schema)).Filter().Predicate()

	rg, ok := p["created_at"].(bson.M)
	if !ok {
		t.Fatalf("created_at: got %#v", p["created_at"])
	}
	from := rg["$gte"].(time.Time)
	to := rg["$lte"].(time.Time)
	if !from.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("$gte: got %v", from)
	}
	if !to.Equal(time.Date(2024, 1, 31, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)) {
		t.Errorf("$lte: got %v", to)
	}
}

func TestSearch_RegexEscapedCaseInsensitive(t *testing.T) {
	b := build(url.Values{"searchTerm": {"a.b"}}).Search("name", "email")
	p := b.Predicate()

	or, ok := p["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("$or: got %#v", p["$or"])
	}
	first := or[0].(bson.M)["name"].(bson.M)
	if first["$regex"] != `a\.b` || first["$options"] != "i" {
		t.Errorf("regex: got %#v", first)
	}
}

func TestSearch_NoOps(t *testing.T) {
	if p := build(url.Values{}).Search("name").Predicate(); len(p) != 0 {
		t.Errorf("no term: got %v", p)
	}
	if p := build(url.Values{"searchTerm": {"x"}}).Search().Predicate(); len(p) != 0 {
		t.Errorf("no fields: got %v", p)
	}
}

func TestPredicate_OrderIndependent(t *testing.T) {
	q := url.Values{"searchTerm": {"john"}, "status": {"active"}, "page": {"2"}, "sortBy": {"name"}}
	a := build(q).Paginate().Search("name").Fields().Filter().Sort()
	b := build(q).Sort().Filter().Fields().Search("name").Paginate()

	if !reflect.DeepEqual(a.Predicate(), b.Predicate()) {
		t.Errorf("predicates differ:\n%v\n%v", a.Predicate(), b.Predicate())
	}
	if !reflect.DeepEqual(a.FindOptions(), b.FindOptions()) {
		t.Error("find options differ by step order")
	}
}

func TestBuilder_Immutable(t *testing.T) {
	base := build(url.Values{"status": {"active"}, "searchTerm": {"x"}})
	_ = base.Filter().Search("name").Paginate()

	if p := base.Predicate(); len(p) != 0 {
		t.Errorf("base builder changed: %v", p)
	}
	if fo := base.FindOptions(); fo.Limit != nil || fo.Skip != nil {
		t.Error("base builder gained a window")
	}
}

func TestPredicate_BaseFilterAnded(t *testing.T) {
	owner := primitive.NewObjectID()
	b := build(url.Values{"status": {"active"}}, querybuilder.WithBaseFilter(bson.M{"user": owner})).Filter()
	p := b.Predicate()

	and, ok := p["$and"].(bson.A)
	if !ok || len(and) != 2 {
		t.Fatalf("$and: got %#v", p)
	}
	if and[0].(bson.M)["user"] != owner {
		t.Errorf("base filter missing: %v", and[0])
	}
}

func TestPaginate_Window(t *testing.T) {
	fo := build(url.Values{"page": {"2"}, "limit": {"5"}}).Paginate().FindOptions()
	if fo.Skip == nil || *fo.Skip != 5 {
		t.Errorf("skip: got %v", fo.Skip)
	}
	if fo.Limit == nil || *fo.Limit != 5 {
		t.Errorf("limit: got %v", fo.Limit)
	}
}

func TestPaginate_HugePageDoesNotOverflowSkip(t *testing.T) {
	tests := []struct {
		page, limit string
	}{
		{"9223372036854775807", "2"},
		{"9223372036854775807", "9223372036854775807"},
		{"4611686018427387905", "3"},
	}
	for _, tt := range tests {
		fo := build(url.Values{"page": {tt.page}, "limit": {tt.limit}}).Paginate().FindOptions()
		if fo.Skip == nil || *fo.Skip < 0 {
			t.Errorf("page=%s limit=%s: skip = %v, want non-negative", tt.page, tt.limit, fo.Skip)
		}
		if fo.Limit == nil || *fo.Limit < 1 {
			t.Errorf("page=%s limit=%s: limit = %v", tt.page, tt.limit, fo.Limit)
		}
	}
}

func TestPaginate_ClampsParamsBuiltByHand(t *testing.T) {
	p := querybuilder.Params{Page: math.MaxInt64, Limit: 4}
	b := querybuilder.New(&fakeSource{}, p).Paginate()
	fo := b.FindOptions()
	if fo.Skip == nil || *fo.Skip < 0 || *fo.Skip > math.MaxInt64-3 {
		t.Errorf("skip = %v", fo.Skip)
	}
	if p.Skip() < 0 {
		t.Errorf("Params.Skip = %d", p.Skip())
	}
}

func TestSort_ExplicitCreatedAtBeatsDefaultSort(t *testing.T) {
	fo := build(url.Values{"sortBy": {"created_at"}}, querybuilder.WithDefaultSort("timestamp")).Sort().FindOptions()
	want := bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	if !reflect.DeepEqual(fo.Sort, want) {
		t.Errorf("sort: got %#v, want %#v", fo.Sort, want)
	}

	fo = build(url.Values{}, querybuilder.WithDefaultSort("timestamp")).Sort().FindOptions()
	want = bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}
	if !reflect.DeepEqual(fo.Sort, want) {
		t.Errorf("default sort: got %#v, want %#v", fo.Sort, want)
	}
}

func TestHiddenFields_NeverFilteredSortedOrProjected(t *testing.T) {
	q := url.Values{
		"password_hash[gte]": {"$2a$10$"},
		"password_hash.x":    {"y"},
		"role":               {"admin"},
		"sortBy":             {"password_hash"},
		"fields":             {"name,password_hash"},
	}
	b := build(q, querybuilder.WithHiddenFields("password_hash")).Filter().Sort().Fields()

	want := bson.M{"role": "admin"}
	if got := b.Predicate(); !reflect.DeepEqual(got, want) {
		t.Errorf("predicate: got %#v, want %#v", got, want)
	}
	fo := b.FindOptions()
	if wantSort := (bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}); !reflect.DeepEqual(fo.Sort, wantSort) {
		t.Errorf("sort: got %#v", fo.Sort)
	}
	if wantProj := (bson.D{{Key: "_id", Value: 1}, {Key: "name", Value: 1}}); !reflect.DeepEqual(fo.Projection, wantProj) {
		t.Errorf("projection: got %#v", fo.Projection)
	}

	fo = build(url.Values{}, querybuilder.WithHiddenFields("password_hash")).Fields().FindOptions()
	if wantProj := (bson.D{{Key: "password_hash", Value: 0}}); !reflect.DeepEqual(fo.Projection, wantProj) {
		t.Errorf("exclusion projection: got %#v", fo.Projection)
	}
}

func TestSort_TieBreakSameDirection(t *testing.T) {
	fo := build(url.Values{"sortBy": {"name"}, "sortOrder": {"asc"}}).Sort().FindOptions()
	want := bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}
	if !reflect.DeepEqual(fo.Sort, want) {
		t.Errorf("sort: got %#v, want %#v", fo.Sort, want)
	}

	fo = build(url.Values{}).Sort().FindOptions()
	want = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	if !reflect.DeepEqual(fo.Sort, want) {
		t.Errorf("default sort: got %#v, want %#v", fo.Sort, want)
	}
}

func TestFields_ProjectionIncludesID(t *testing.T) {
	fo := build(url.Values{"fields": {"name,email"}}).Fields().FindOptions()
	want := bson.D{{Key: "_id", Value: 1}, {Key: "name", Value: 1}, {Key: "email", Value: 1}}
	if !reflect.DeepEqual(fo.Projection, want) {
		t.Errorf("projection: got %#v", fo.Projection)
	}

	if fo := build(url.Values{}).Fields().FindOptions(); fo.Projection != nil {
		t.Errorf("expected no projection, got %#v", fo.Projection)
	}

	fo = build(url.Values{}, querybuilder.WithProjection("logo", "title")).Fields().FindOptions()
	want = bson.D{{Key: "_id", Value: 1}, {Key: "logo", Value: 1}, {Key: "title", Value: 1}}
	if !reflect.DeepEqual(fo.Projection, want) {
		t.Errorf("default projection: got %#v", fo.Projection)
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		total     int64
		limit     int
		wantPages int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{12, 5, 3},
		{12, math.MaxInt64, 1},
		{math.MaxInt64, 2, math.MaxInt64/2 + 1},
	}
	for _, tt := range tests {
		if got := querybuilder.NewPagination(1, tt.limit, tt.total).TotalPages; got != tt.wantPages {
			t.Errorf("total=%d limit=%d: got %d pages, want %d", tt.total, tt.limit, got, tt.wantPages)
		}
	}
}

func TestPaginationInfo_CountsWithoutWindow(t *testing.T) {
	src := &fakeSource{total: 12}
	q := url.Values{"page": {"2"}, "limit": {"5"}, "status": {"active"}}
	b := querybuilder.New(src, querybuilder.ParseParams(q)).Paginate().Filter()

	pg, err := b.PaginationInfo(context.Background())
	if err != nil {
		t.Fatalf("PaginationInfo failed: %v", err)
	}
	if pg.Page != 2 || pg.Limit != 5 || pg.Total != 12 || pg.TotalPages != 3 {
		t.Errorf("pagination: got %+v", pg)
	}
	if !reflect.DeepEqual(src.countArg, b.Predicate()) {
		t.Errorf("count filter: got %v, want %v", src.countArg, b.Predicate())
	}
}

func TestPaginationInfo_DefaultsWithoutPaginate(t *testing.T) {
	src := &fakeSource{total: 3}
	pg, err := querybuilder.New(src, querybuilder.ParseParams(url.Values{"page": {"4"}})).PaginationInfo(context.Background())
	if err != nil {
		t.Fatalf("PaginationInfo failed: %v", err)
	}
	if pg.Page != 1 || pg.Limit != 10 {
		t.Errorf("expected defaults, got %+v", pg)
	}
}

type row struct {
	Name string `bson:"name"`
}

func TestList_ReturnsRowsAndPagination(t *testing.T) {
	src := &fakeSource{
		docs:  []interface{}{bson.D{{Key: "name", Value: "a"}}, bson.D{{Key: "name", Value: "b"}}},
		total: 2,
	}
	rows, pg, err := querybuilder.List[row](context.Background(), querybuilder.New(src, querybuilder.Params{}).Paginate())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rows) != 2 || rows[0].Name != "a" {
		t.Errorf("rows: got %+v", rows)
	}
	if pg.Total != 2 || pg.TotalPages != 1 {
		t.Errorf("pagination: got %+v", pg)
	}
}

func TestList_PropagatesSourceErrors(t *testing.T) {
	boom := errors.New("connection lost")

	src := &fakeSource{findErr: boom}
	if _, _, err := querybuilder.List[row](context.Background(), querybuilder.New(src, querybuilder.Params{})); !errors.Is(err, boom) {
		t.Errorf("find error: got %v", err)
	}

	src = &fakeSource{countErr: boom}
	if _, _, err := querybuilder.List[row](context.Background(), querybuilder.New(src, querybuilder.Params{})); !errors.Is(err, boom) {
		t.Errorf("count error: got %v", err)
	}
}

func TestFind_EmptyResultIsEmptySlice(t *testing.T) {
	rows, err := querybuilder.Find[row](context.Background(), querybuilder.New(&fakeSource{}, querybuilder.Params{}))
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", rows)
	}
}
