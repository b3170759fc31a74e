package eventregistrations_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/eventregistrations"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/indexes"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*eventregistrations.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	return eventregistrations.NewHandler(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func register(t *testing.T, h *eventregistrations.Handler, u testutil.TestUser, event string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.WithUser(testutil.JSONRequest(t, "POST", "/", map[string]string{"event": event}), u))
	return rec
}

func cancelReg(t *testing.T, h *eventregistrations.Handler, u testutil.TestUser, event string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.HandleCancel(rec, testutil.WithUser(testutil.JSONRequest(t, "POST", "/cancel", map[string]string{"event": event}), u))
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return testutil.DecodeEnvelope(t, rec, nil).Message
}

func TestHandleCreate(t *testing.T) {
	h, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	ev := fx.CreateEvent(ctx, "Gala", time.Now())
	member := testutil.AsTestUser(fx.CreateUser(ctx, "Member", "m@club.test", "user"))

	rec := register(t, h, member, ev.ID.Hex())
	testutil.AssertStatus(t, rec, http.StatusCreated)
	var reg models.EventRegistration
	testutil.DecodeEnvelope(t, rec, &reg)
	if reg.Status != models.RegistrationPending || reg.User != member.OID() {
		t.Errorf("registration = %+v", reg)
	}

	rec = register(t, h, member, ev.ID.Hex())
	testutil.AssertStatus(t, rec, http.StatusConflict)
	if got := message(t, rec); got != "User has already registered for this event" {
		t.Errorf("message = %q", got)
	}

	rec = register(t, h, member, primitive.NewObjectID().Hex())
	testutil.AssertStatus(t, rec, http.StatusNotFound)
	if got := message(t, rec); got != "Event not found for registration" {
		t.Errorf("message = %q", got)
	}
}

func TestHandleCancel(t *testing.T) {
	h, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	ev := fx.CreateEvent(ctx, "Gala", time.Now())
	member := testutil.AsTestUser(fx.CreateUser(ctx, "Member", "m@club.test", "user"))

	rec := cancelReg(t, h, member, ev.ID.Hex())
	testutil.AssertStatus(t, rec, http.StatusNotFound)
	if got := message(t, rec); got != "Event registration not found" {
		t.Errorf("message = %q", got)
	}

	rec = register(t, h, member, ev.ID.Hex())
	testutil.AssertStatus(t, rec, http.StatusCreated)
	var reg models.EventRegistration
	testutil.DecodeEnvelope(t, rec, &reg)

	// Reviewed registrations stay.
	rec = httptest.NewRecorder()
	h.HandleUpdate(rec, testutil.WithChiURLParam(testutil.JSONRequest(t, "PATCH", "/", map[string]string{"status": "approved"}), "id", reg.ID.Hex()))
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = cancelReg(t, h, member, ev.ID.Hex())
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
	if got := message(t, rec); got != "You are not able to to cancel it" {
		t.Errorf("message = %q", got)
	}

	rec = httptest.NewRecorder()
	h.HandleUpdate(rec, testutil.WithChiURLParam(testutil.JSONRequest(t, "PATCH", "/", map[string]string{"status": "pending"}), "id", reg.ID.Hex()))
	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.AssertStatus(t, cancelReg(t, h, member, ev.ID.Hex()), http.StatusOK)
	testutil.AssertStatus(t, cancelReg(t, h, member, ev.ID.Hex()), http.StatusNotFound)
}

func TestHandleUpdate_BadStatus(t *testing.T) {
	h, _ := setup(t)
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, testutil.WithChiURLParam(testutil.JSONRequest(t, "PATCH", "/", map[string]string{"status": "maybe"}), "id", primitive.NewObjectID().Hex()))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestServeList_ScopedToCaller(t *testing.T) {
	h, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	ev := fx.CreateEvent(ctx, "Gala", time.Now())
	alice := testutil.AsTestUser(fx.CreateUser(ctx, "Alice", "alice@club.test", "user"))
	bob := testutil.AsTestUser(fx.CreateUser(ctx, "Bob", "bob@club.test", "user"))
	testutil.AssertStatus(t, register(t, h, alice, ev.ID.Hex()), http.StatusCreated)
	testutil.AssertStatus(t, register(t, h, bob, ev.ID.Hex()), http.StatusCreated)

	list := func(u testutil.TestUser) ([]struct {
		User models.UserSummary `json:"user"`
	}, int64) {
		rec := httptest.NewRecorder()
		h.ServeList(rec, testutil.WithUser(httptest.NewRequest("GET", "/?event="+ev.ID.Hex(), nil), u))
		testutil.AssertStatus(t, rec, http.StatusOK)
		var items []struct {
			User models.UserSummary `json:"user"`
		}
		env := testutil.DecodeEnvelope(t, rec, &items)
		return items, env.Pagination.Total
	}

	items, total := list(alice)
	if total != 1 || items[0].User.Name != "Alice" {
		t.Errorf("alice sees %d: %+v", total, items)
	}
	if _, total := list(testutil.AdminUser()); total != 2 {
		t.Errorf("admin sees %d, want 2", total)
	}
}

func TestHandleDelete_OwnerOrStaff(t *testing.T) {
	h, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	ev := fx.CreateEvent(ctx, "Gala", time.Now())
	alice := testutil.AsTestUser(fx.CreateUser(ctx, "Alice", "alice@club.test", "user"))

	rec := register(t, h, alice, ev.ID.Hex())
	var reg models.EventRegistration
	testutil.DecodeEnvelope(t, rec, &reg)

	del := func(u testutil.TestUser) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := testutil.WithChiURLParam(httptest.NewRequest("DELETE", "/", nil), "id", reg.ID.Hex())
		h.HandleDelete(rec, testutil.WithUser(req, u))
		return rec
	}
	testutil.AssertStatus(t, del(testutil.MemberUser()), http.StatusForbidden)
	testutil.AssertStatus(t, del(alice), http.StatusOK)
	testutil.AssertStatus(t, del(alice), http.StatusNotFound)
}
