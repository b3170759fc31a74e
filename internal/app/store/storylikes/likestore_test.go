package likestore_test

import (
	"testing"

	likestore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/storylikes"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/indexes"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Toggle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := likestore.New(db)

	user, story := primitive.NewObjectID(), primitive.NewObjectID()
	liked, err := store.Toggle(ctx, user, story)
	if err != nil || !liked {
		t.Fatalf("first Toggle = %v, %v; want true", liked, err)
	}
	if n, _ := store.CountForStory(ctx, story); n != 1 {
		t.Errorf("CountForStory = %d, want 1", n)
	}

	liked, err = store.Toggle(ctx, user, story)
	if err != nil || liked {
		t.Fatalf("second Toggle = %v, %v; want false", liked, err)
	}
	if n, _ := store.CountForStory(ctx, story); n != 0 {
		t.Errorf("CountForStory = %d, want 0", n)
	}
}

func TestStore_CountsForStories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := likestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	for i := 0; i < 3; i++ {
		if _, err := store.Toggle(ctx, primitive.NewObjectID(), a); err != nil {
			t.Fatalf("Toggle: %v", err)
		}
	}
	if _, err := store.Toggle(ctx, primitive.NewObjectID(), b); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	counts, err := store.CountsForStories(ctx, []primitive.ObjectID{a, b, c})
	if err != nil {
		t.Fatalf("CountsForStories: %v", err)
	}
	if counts[a] != 3 || counts[b] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if _, ok := counts[c]; ok {
		t.Error("story without likes should be absent")
	}

	if err := store.DeleteByStory(ctx, a); err != nil {
		t.Fatalf("DeleteByStory: %v", err)
	}
	if n, _ := store.CountForStory(ctx, a); n != 0 {
		t.Errorf("likes remain after DeleteByStory: %d", n)
	}

	empty, err := store.CountsForStories(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("CountsForStories(nil) = %v, %v", empty, err)
	}
}
