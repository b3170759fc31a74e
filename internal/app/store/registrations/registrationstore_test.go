package registrationstore_test

import (
	"errors"
	"testing"

	registrationstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/registrations"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/indexes"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := registrationstore.New(db)

	event, user := primitive.NewObjectID(), primitive.NewObjectID()
	r, err := store.Create(ctx, models.EventRegistration{Event: event, User: user})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if r.Status != models.RegistrationPending {
		t.Errorf("Status = %q, want pending", r.Status)
	}
	if _, err := store.Create(ctx, models.EventRegistration{Event: event, User: user}); !errors.Is(err, registrationstore.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestStore_Cancel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := registrationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := primitive.NewObjectID()
	pending, approved := primitive.NewObjectID(), primitive.NewObjectID()
	if _, err := store.Create(ctx, models.EventRegistration{Event: event, User: pending}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	r, err := store.Create(ctx, models.EventRegistration{Event: event, User: approved})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.SetStatus(ctx, r.ID, models.RegistrationApproved); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	if _, err := store.Cancel(ctx, event, pending); err != nil {
		t.Errorf("cancel pending: %v", err)
	}
	if ok, _ := store.Exists(ctx, event, pending); ok {
		t.Error("pending registration should be gone")
	}
	if _, err := store.Cancel(ctx, event, approved); !errors.Is(err, registrationstore.ErrNotPending) {
		t.Errorf("cancel approved: expected ErrNotPending, got %v", err)
	}
	if _, err := store.Cancel(ctx, event, primitive.NewObjectID()); !errors.Is(err, registrationstore.ErrNotFound) {
		t.Errorf("cancel unknown: expected ErrNotFound, got %v", err)
	}
}

func TestStore_SetStatus_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := registrationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r, _ := store.Create(ctx, models.EventRegistration{Event: primitive.NewObjectID(), User: primitive.NewObjectID()})
	if _, err := store.SetStatus(ctx, r.ID, "maybe"); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := store.SetStatus(ctx, primitive.NewObjectID(), models.RegistrationRejected); !errors.Is(err, registrationstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
