package auditlog_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/auditlog"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/audit"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auth"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/testutil"
	"go.uber.org/zap"
)

func TestServeList_FiltersByCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h := auditlog.NewHandler(db, zap.NewNop())

	for _, e := range []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true},
		{Category: audit.CategoryAuth, EventType: audit.EventLogout, Success: true},
		{Category: audit.CategoryAdmin, EventType: audit.EventPartnerRequestRejected, Success: true},
	} {
		if err := h.Events.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeList(rec, testutil.WithUser(httptest.NewRequest("GET", "/audit-events?category=auth&limit=1", nil), testutil.AdminUser()))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var items []audit.Event
	env := testutil.DecodeEnvelope(t, rec, &items)
	if env.Pagination == nil || env.Pagination.Total != 2 {
		t.Fatalf("pagination = %+v, want total 2", env.Pagination)
	}
	if len(items) != 1 || items[0].Category != audit.CategoryAuth {
		t.Errorf("items = %+v", items)
	}
}

func TestRoutes_AdminsOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only-0123456789", "s", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	router := auditlog.Routes(auditlog.NewHandler(db, zap.NewNop()), sm)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(httptest.NewRequest("GET", "/", nil), testutil.PartnerUser()))
	testutil.AssertStatus(t, rec, http.StatusForbidden)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(httptest.NewRequest("GET", "/", nil), testutil.SuperAdminUser()))
	testutil.AssertStatus(t, rec, http.StatusOK)
}
