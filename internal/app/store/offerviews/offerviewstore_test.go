package offerviewstore_test

import (
	"testing"

	offerviewstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/offerviews"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_RecordAndCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := offerviewstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	offer := primitive.NewObjectID()
	viewer := primitive.NewObjectID()
	for i := 0; i < 3; i++ {
		if err := store.Record(ctx, viewer, offer); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	_ = store.Record(ctx, viewer, primitive.NewObjectID())

	n, err := store.Count(ctx, offer)
	if err != nil || n != 3 {
		t.Errorf("Count = %d, %v; want 3", n, err)
	}

	if err := store.DeleteByOffer(ctx, offer); err != nil {
		t.Fatalf("DeleteByOffer: %v", err)
	}
	if n, _ := store.Count(ctx, offer); n != 0 {
		t.Errorf("Count after delete = %d", n)
	}
}
