package sponsorstore_test

import (
	"errors"
	"testing"

	sponsorstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/sponsors"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/testutil"
)

func TestStore_CRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sponsorstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sp, err := store.Create(ctx, models.Sponsor{Title: "Coastal Bank", Logo: "https://cdn.example/logo.png", Location: "Dhaka"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	website := "https://coastal.example"
	got, err := store.Update(ctx, sp.ID, sponsorstore.Update{Website: &website})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Website != website || got.Title != "Coastal Bank" {
		t.Errorf("Update result = %+v", got)
	}

	if err := store.Delete(ctx, sp.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetByID(ctx, sp.ID); !errors.Is(err, sponsorstore.ErrNotFound) {
		t.Errorf("GetByID after delete = %v", err)
	}
}

func TestStore_ListDefaultProjection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sponsorstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Sponsor{
		Title:       "Harbor Hotel",
		Logo:        "logo.png",
		Location:    "Chittagong",
		Description: "long text",
		Website:     "https://harbor.example",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	items, _, err := store.List(ctx, querybuilder.Params{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	it := items[0]
	if it.Title == "" || it.Logo == "" || it.Location == "" {
		t.Errorf("default fields missing: %+v", it)
	}
	if it.Description != "" || it.Website != "" || !it.CreatedAt.IsZero() {
		t.Errorf("fields outside the default projection leaked: %+v", it)
	}

	items, _, err = store.List(ctx, querybuilder.Params{Fields: []string{"website"}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items[0].Website == "" || items[0].Title != "" {
		t.Errorf("requested fields should replace the default: %+v", items[0])
	}
}
