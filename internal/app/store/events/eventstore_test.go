package eventstore_test

import (
	"errors"
	"testing"
	"time"

	eventstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/events"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e, err := store.Create(ctx, models.Event{Name: "Gala", Title: "Winter Gala", Location: "Gulshan", EventDate: time.Now().Add(48 * time.Hour)})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ok, err := store.Exists(ctx, e.ID)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}

	title := "Summer Gala"
	pub := true
	upd, err := store.Update(ctx, e.ID, eventstore.Update{Title: &title, Published: &pub})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if upd.Title != "Summer Gala" || !upd.Published || upd.Name != "Gala" {
		t.Errorf("updated = %+v", upd)
	}

	if _, err := store.Update(ctx, primitive.NewObjectID(), eventstore.Update{Title: &title}); !errors.Is(err, eventstore.ErrNotFound) {
		t.Errorf("Update missing: %v", err)
	}
	if err := store.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, e.ID); !errors.Is(err, eventstore.ErrNotFound) {
		t.Errorf("GetByID after delete: %v", err)
	}
}

func TestStore_List_SearchAndPublishedFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, e := range []models.Event{
		{Name: "Golf Day", Title: "Members golf", Location: "Kurmitola", Published: true},
		{Name: "Wine Night", Title: "Tasting", Location: "Golf Club Lounge", Published: false},
		{Name: "Book Club", Title: "Reading", Location: "Library", Published: true},
	} {
		if _, err := store.Create(ctx, e); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	rows, pg, err := store.List(ctx, querybuilder.ParseParams(map[string][]string{"searchTerm": {"golf"}}))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rows) != 2 || pg.Total != 2 {
		t.Errorf("search golf: %d rows, total %d; want 2", len(rows), pg.Total)
	}

	rows, _, err = store.List(ctx, querybuilder.ParseParams(map[string][]string{
		"searchTerm": {"golf"},
		"published":  {"true"},
	}))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Golf Day" {
		t.Errorf("search+filter: %+v", rows)
	}
}
