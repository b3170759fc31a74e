package formutil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/formutil"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIDParam(t *testing.T) {
	id := primitive.NewObjectID()
	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/x", nil), "id", id.Hex())
	got, err := formutil.IDParam(req, "id")
	if err != nil || got != id {
		t.Fatalf("IDParam = %v, %v; want %v", got, err, id)
	}

	req = testutil.WithChiURLParam(httptest.NewRequest("GET", "/x", nil), "id", "nope")
	_, err = formutil.IDParam(req, "id")
	if apierr.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("bad id: status %d, want 400", apierr.StatusOf(err))
	}
}

func TestRequired(t *testing.T) {
	if err := formutil.Required("Email", "a@b.c"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := formutil.Required("Email", "   ")
	ae, ok := apierr.As(err)
	if !ok || ae.Message != "Email is required" {
		t.Errorf("Required blank = %v", err)
	}
}

func TestTrim(t *testing.T) {
	if formutil.Trim(nil) != nil {
		t.Error("Trim(nil) should be nil")
	}
	s := "  hi "
	if got := formutil.Trim(&s); *got != "hi" || s != "  hi " {
		t.Errorf("Trim = %q, original %q", *got, s)
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		in     string
		wantOK bool
	}{
		{"2025-06-01", true},
		{"2025-06-01T18:30", true},
		{"2025-06-01T18:30:00Z", true},
		{"2025-06-01T18:30:00+06:00", true},
		{"June 1", false},
		{"", false},
	}
	for _, tt := range tests {
		_, err := formutil.Date(tt.in, "event_date")
		if (err == nil) != tt.wantOK {
			t.Errorf("Date(%q) err = %v, wantOK %v", tt.in, err, tt.wantOK)
		}
	}
}
