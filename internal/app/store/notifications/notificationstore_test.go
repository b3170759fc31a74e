package notificationstore_test

import (
	"testing"

	notificationstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/notifications"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateListAndSeen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()
	ref := primitive.NewObjectID()
	_, err := store.CreateMany(ctx, []models.Notification{
		{Receiver: alice, Title: "New application", Message: "m1", RefID: &ref},
		{Receiver: alice, Title: "Second", Message: "m2", Seen: true},
		{Receiver: bob, Title: "New application", Message: "m1"},
	})
	if err != nil {
		t.Fatalf("CreateMany: %v", err)
	}

	if n, err := store.UnseenCount(ctx, alice); err != nil || n != 2 {
		t.Errorf("UnseenCount(alice) = %d, %v; want 2", n, err)
	}

	items, pg, err := store.List(ctx, alice, querybuilder.Params{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || pg.Total != 2 {
		t.Errorf("List(alice): %d items, total %d", len(items), pg.Total)
	}
	for _, it := range items {
		if it.Receiver != alice {
			t.Errorf("leaked notification for %v", it.Receiver)
		}
		if it.Seen {
			t.Error("new notifications must start unseen")
		}
	}

	changed, err := store.MarkAllSeen(ctx, alice)
	if err != nil {
		t.Fatalf("MarkAllSeen: %v", err)
	}
	if changed != 2 {
		t.Errorf("MarkAllSeen changed %d, want 2", changed)
	}
	if n, _ := store.UnseenCount(ctx, alice); n != 0 {
		t.Errorf("counter not reset: %d", n)
	}
	if n, _ := store.UnseenCount(ctx, bob); n != 1 {
		t.Errorf("bob's counter changed: %d", n)
	}

	unseen, _, err := store.List(ctx, alice, querybuilder.Params{Filters: map[string]any{"seen": "false"}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(unseen) != 0 {
		t.Errorf("expected no unseen, got %d", len(unseen))
	}
}

func TestStore_UnseenCountMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if n, err := store.UnseenCount(ctx, primitive.NewObjectID()); err != nil || n != 0 {
		t.Errorf("UnseenCount = %d, %v; want 0, nil", n, err)
	}
}
