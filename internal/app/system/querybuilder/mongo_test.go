package querybuilder_test

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type person struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email,omitempty"`
	Status    string             `bson:"status,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

func TestMongo_PageTwoOfTwelve(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		_, err := db.Collection("people").InsertOne(ctx, person{
			ID:        primitive.NewObjectID(),
			Name:      fmt.Sprintf("person %02d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	q := url.Values{"page": {"2"}, "limit": {"5"}}
	b := querybuilder.New(db.Collection("people"), querybuilder.ParseParams(q)).Paginate().Filter().Sort()
	rows, pg, err := querybuilder.List[person](ctx, b)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows: got %d, want 5", len(rows))
	}
	// newest first; page 2 starts at the sixth newest (index 6)
	if rows[0].Name != "person 06" {
		t.Errorf("first row: got %q, want person 06", rows[0].Name)
	}
	if pg.Page != 2 || pg.Limit != 5 || pg.Total != 12 || pg.TotalPages != 3 {
		t.Errorf("pagination: got %+v", pg)
	}
}

func TestMongo_PageTwoByNameAscending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Names go down as created_at goes up, so the default sort would
	// return a different window.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	order := []int{7, 2, 11, 0, 9, 4, 1, 10, 5, 3, 8, 6}
	for i, n := range order {
		_, err := db.Collection("people").InsertOne(ctx, person{
			ID:        primitive.NewObjectID(),
			Name:      fmt.Sprintf("member %02d", 11-n),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	q := url.Values{"page": {"2"}, "limit": {"5"}, "sortBy": {"name"}, "sortOrder": {"asc"}}
	b := querybuilder.New(db.Collection("people"), querybuilder.ParseParams(q)).Paginate().Filter().Sort()
	rows, pg, err := querybuilder.List[person](ctx, b)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows: got %d, want 5", len(rows))
	}
	for i, r := range rows {
		if want := fmt.Sprintf("member %02d", i+5); r.Name != want {
			t.Errorf("rank %d: got %q, want %q", i+6, r.Name, want)
		}
	}
	if pg.Page != 2 || pg.Limit != 5 || pg.Total != 12 || pg.TotalPages != 3 {
		t.Errorf("pagination: got %+v", pg)
	}
}

func TestMongo_SearchJohn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	seed := []interface{}{
		person{ID: primitive.NewObjectID(), Name: "John Smith", Email: "js@example.com", CreatedAt: now},
		person{ID: primitive.NewObjectID(), Name: "Alice", Email: "JOHNNY@example.com", CreatedAt: now},
		person{ID: primitive.NewObjectID(), Name: "Bob", Email: "bob@example.com", CreatedAt: now},
	}
	if _, err := db.Collection("people").InsertMany(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	q := url.Values{"searchTerm": {"john"}}
	b := querybuilder.New(db.Collection("people"), querybuilder.ParseParams(q)).Search("name", "email").Paginate()
	rows, pg, err := querybuilder.List[person](ctx, b)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rows) != 2 || pg.Total != 2 {
		t.Errorf("got %d rows, total %d; want 2/2", len(rows), pg.Total)
	}

	// a field outside the searchable list never matches
	b = querybuilder.New(db.Collection("people"), querybuilder.ParseParams(q)).Search("name")
	rows, err = querybuilder.Find[person](ctx, b)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "John Smith" {
		t.Errorf("name-only search: got %+v", rows)
	}
}

func TestMongo_FieldsAndTieBreak(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	same := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		_, err := db.Collection("people").InsertOne(ctx, bson.M{
			"name": fmt.Sprintf("n%d", i), "email": "x@example.com", "created_at": same,
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	seen := map[string]bool{}
	for page := 1; page <= 3; page++ {
		q := url.Values{"page": {fmt.Sprint(page)}, "limit": {"2"}, "fields": {"name"}}
		b := querybuilder.New(db.Collection("people"), querybuilder.ParseParams(q)).Paginate().Fields().Sort()
		rows, err := querybuilder.Find[bson.M](ctx, b)
		if err != nil {
			t.Fatalf("Find failed: %v", err)
		}
		for _, r := range rows {
			if _, ok := r["email"]; ok {
				t.Error("projection leaked email")
			}
			if _, ok := r["_id"]; !ok {
				t.Error("projection dropped _id")
			}
			name := r["name"].(string)
			if seen[name] {
				t.Errorf("%s returned on two pages", name)
			}
			seen[name] = true
		}
	}
	if len(seen) != 6 {
		t.Errorf("saw %d distinct rows, want 6", len(seen))
	}
}
