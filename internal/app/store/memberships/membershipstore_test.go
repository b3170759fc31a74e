package membershipstore_test

import (
	"errors"
	"testing"

	membershipstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/memberships"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/indexes"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFormatMembershipID(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{1, "AC-00001"},
		{99999, "AC-99999"},
		{100000, "AC-100000"},
	}
	for _, tt := range tests {
		if got := membershipstore.FormatMembershipID(tt.n); got != tt.want {
			t.Errorf("FormatMembershipID(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestStore_CreateOnePerUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := membershipstore.New(db)
	user := primitive.NewObjectID()

	first, err := store.Create(ctx, models.MembershipApplication{
		User:           &user,
		MembershipType: "family",
		Name:           "  Ann   Lee ",
		Email:          "Ann@Club.Test",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.MembershipID != "AC-00001" || first.MembershipStatus != models.MembershipPending {
		t.Errorf("created = %+v", first)
	}
	if first.Name != "Ann Lee" || first.Email != "ann@club.test" {
		t.Errorf("not normalized: %+v", first)
	}

	_, err = store.Create(ctx, models.MembershipApplication{User: &user, MembershipType: "single", Name: "Ann"})
	if !errors.Is(err, membershipstore.ErrDuplicate) {
		t.Errorf("second Create: got %v, want ErrDuplicate", err)
	}

	other := primitive.NewObjectID()
	second, err := store.Create(ctx, models.MembershipApplication{User: &other, MembershipType: "single", Name: "Bo"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// The rejected insert still consumed a sequence number.
	if second.MembershipID == first.MembershipID {
		t.Errorf("MembershipID reused: %q", second.MembershipID)
	}

	got, err := store.GetByUser(ctx, user)
	if err != nil || got.ID != first.ID {
		t.Errorf("GetByUser = %+v, %v", got, err)
	}
}

func TestStore_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	a, err := store.Create(ctx, models.MembershipApplication{User: &user, MembershipType: "single", Name: "Cy"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	active := models.MembershipActive
	got, err := store.Update(ctx, a.ID, membershipstore.Update{MembershipStatus: &active})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.MembershipStatus != models.MembershipActive || got.MembershipID != a.MembershipID {
		t.Errorf("updated = %+v", got)
	}

	bogus := "gold"
	if _, err := store.Update(ctx, a.ID, membershipstore.Update{MembershipStatus: &bogus}); !errors.Is(err, membershipstore.ErrInvalidStatus) {
		t.Errorf("bogus status: got %v", err)
	}
	if _, err := store.Update(ctx, primitive.NewObjectID(), membershipstore.Update{MembershipStatus: &active}); !errors.Is(err, membershipstore.ErrNotFound) {
		t.Errorf("missing id: got %v", err)
	}

	if err := store.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, a.ID); !errors.Is(err, membershipstore.ErrNotFound) {
		t.Errorf("after Delete: got %v", err)
	}
}
