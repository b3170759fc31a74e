package apiresp_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"go.uber.org/zap"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestPage_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	apiresp.Page(rec, "Users retrieved", []string{"a"}, querybuilder.NewPagination(2, 5, 12))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != true || body["statusCode"] != float64(200) {
		t.Errorf("envelope: got %v", body)
	}
	pg := body["pagination"].(map[string]any)
	if pg["totalPages"] != float64(3) || pg["total"] != float64(12) {
		t.Errorf("pagination: got %v", pg)
	}
}

func TestOK_EmptySliceKept(t *testing.T) {
	rec := httptest.NewRecorder()
	apiresp.OK(rec, "none", []string{})
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("expected empty data array, got %s", rec.Body.String())
	}
}

func TestError_APIError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/x", nil)
	apiresp.Error(rec, req, zap.NewNop(), apierr.Conflict("Already exists"))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != false || body["message"] != "Already exists" {
		t.Errorf("envelope: got %v", body)
	}
	if _, ok := body["errorId"]; ok {
		t.Error("4xx responses should not carry an errorId")
	}
}

func TestError_Internal(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	apiresp.Error(rec, req, zap.NewNop(), errors.New("mongo exploded"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["message"] != "Something went wrong" {
		t.Errorf("message leaked: %v", body["message"])
	}
	if id, _ := body["errorId"].(string); id == "" {
		t.Error("expected errorId")
	}
}

func TestDecode(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x"}`))
	if err := apiresp.Decode(httptest.NewRecorder(), req, &dst); err != nil || dst.Name != "x" {
		t.Fatalf("Decode: err=%v name=%q", err, dst.Name)
	}

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{bad`))
	if err := apiresp.Decode(httptest.NewRecorder(), req, &dst); apierr.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("malformed: got %v", err)
	}

	req = httptest.NewRequest("POST", "/", strings.NewReader(""))
	if err := apiresp.Decode(httptest.NewRecorder(), req, &dst); apierr.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("empty: got %v", err)
	}
}
