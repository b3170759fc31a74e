package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestRequireSignedIn_NoUser_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)
	rec := httptest.NewRecorder()
	sm.RequireSignedIn(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/users", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON, got %q", ct)
	}
}

func TestRequireSignedIn_WithUser_Passes(t *testing.T) {
	sm := newTestSessionManager(t)
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: "1", Role: "user"})
	rec := httptest.NewRecorder()
	sm.RequireSignedIn(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	sm := newTestSessionManager(t)
	mw := sm.RequireRole("admin", "superadmin", "partner")

	tests := []struct {
		name string
		user *auth.SessionUser
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"member", &auth.SessionUser{ID: "1", Role: "user"}, http.StatusForbidden},
		{"partner", &auth.SessionUser{ID: "2", Role: "partner"}, http.StatusOK},
		{"mixed case", &auth.SessionUser{ID: "3", Role: "SuperAdmin"}, http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		if tt.user != nil {
			req = auth.WithTestUser(req, tt.user)
		}
		rec := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, rec.Code, tt.want)
		}
	}
}

type stubFetcher struct {
	user *auth.SessionUser
}

func (f stubFetcher) FetchUser(ctx context.Context, id string) *auth.SessionUser {
	return f.user
}

func TestSignIn_RoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	if err := sm.SignIn(rec, req, &auth.SessionUser{ID: "abc", Name: "A", Email: "a@x.com", Role: "Admin"}); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	var got *auth.SessionUser
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})
	next := httptest.NewRequest("GET", "/", nil)
	next.AddCookie(cookies[0])
	sm.LoadSessionUser(capture).ServeHTTP(httptest.NewRecorder(), next)

	if got == nil || got.ID != "abc" || got.Role != "admin" {
		t.Errorf("session user: got %+v", got)
	}
}

func TestLoadSessionUser_FetcherDropsDeletedUser(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{user: nil})

	rec := httptest.NewRecorder()
	if err := sm.SignIn(rec, httptest.NewRequest("POST", "/", nil), &auth.SessionUser{ID: "gone", Role: "user"}); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	found := true
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = auth.CurrentUser(r)
	})
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	sm.LoadSessionUser(capture).ServeHTTP(httptest.NewRecorder(), req)

	if found {
		t.Error("deleted user should not be signed in")
	}
}

func TestLoadSessionUser_GarbageCookieIgnored(t *testing.T) {
	sm := newTestSessionManager(t)
	called := false
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := auth.CurrentUser(r); ok {
			t.Error("garbage cookie produced a user")
		}
	})
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "not-a-valid-cookie"})
	sm.LoadSessionUser(capture).ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Error("next handler not called")
	}
}
