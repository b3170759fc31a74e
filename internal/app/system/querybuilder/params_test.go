package querybuilder_test

import (
	"math"
	"net/url"
	"testing"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
)

func TestParseParams_Defaults(t *testing.T) {
	p := querybuilder.ParseParams(url.Values{})

	if p.Page != 1 || p.Limit != 10 {
		t.Errorf("page/limit: got %d/%d, want 1/10", p.Page, p.Limit)
	}
	if p.SortBy != "" {
		t.Errorf("sortBy: got %q, want empty (resolved by Sort)", p.SortBy)
	}
	if p.SortOrder != querybuilder.Desc {
		t.Errorf("sortOrder: got %q, want desc", p.SortOrder)
	}
	if len(p.Filters) != 0 {
		t.Errorf("expected no filters, got %v", p.Filters)
	}
}

func TestParseParams_HugePageClamped(t *testing.T) {
	p := querybuilder.ParseParams(url.Values{"page": {"9223372036854775807"}, "limit": {"2"}})
	if p.Limit != 2 {
		t.Errorf("limit = %d, want 2", p.Limit)
	}
	if p.Skip() < 0 {
		t.Errorf("skip overflowed: %d", p.Skip())
	}
	if want := int64(math.MaxInt64/2) * 2; p.Skip() != want {
		t.Errorf("skip = %d, want %d", p.Skip(), want)
	}
}

func TestParseParams_InvalidNumbersFallBack(t *testing.T) {
	tests := []struct {
		page, limit string
		wantPage    int
		wantLimit   int
	}{
		{"abc", "xyz", 1, 10},
		{"0", "0", 1, 10},
		{"-3", "-1", 1, 10},
		{"2", "5", 2, 5},
		{" 3 ", "25", 3, 25},
	}
	for _, tt := range tests {
		p := querybuilder.ParseParams(url.Values{"page": {tt.page}, "limit": {tt.limit}})
		if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
			t.Errorf("page=%q limit=%q: got %d/%d, want %d/%d",
				tt.page, tt.limit, p.Page, p.Limit, tt.wantPage, tt.wantLimit)
		}
	}
}

func TestParseParams_ReservedKeysNeverFilters(t *testing.T) {
	q := url.Values{
		"searchTerm": {"john"},
		"page":       {"2"},
		"limit":      {"5"},
		"fields":     {"name,email"},
		"sortBy":     {"name"},
		"sortOrder":  {"asc"},
		"status":     {"active"},
	}
	p := querybuilder.ParseParams(q)

	for _, k := range querybuilder.ReservedKeys {
		if _, ok := p.Filters[k]; ok {
			t.Errorf("reserved key %q leaked into filters", k)
		}
	}
	if p.Filters["status"] != "active" {
		t.Errorf("status filter: got %v", p.Filters["status"])
	}
	if p.SearchTerm != "john" || p.SortBy != "name" || p.SortOrder != querybuilder.Asc {
		t.Errorf("unexpected params: %+v", p)
	}
}

func TestParseParams_SortOrderCaseInsensitive(t *testing.T) {
	for _, v := range []string{"asc", "ASC", "Asc"} {
		if got := querybuilder.ParseParams(url.Values{"sortOrder": {v}}).SortOrder; got != querybuilder.Asc {
			t.Errorf("sortOrder=%q: got %q, want asc", v, got)
		}
	}
	for _, v := range []string{"desc", "sideways", ""} {
		if got := querybuilder.ParseParams(url.Values{"sortOrder": {v}}).SortOrder; got != querybuilder.Desc {
			t.Errorf("sortOrder=%q: got %q, want desc", v, got)
		}
	}
}

func TestParseParams_Fields(t *testing.T) {
	p := querybuilder.ParseParams(url.Values{"fields": {" name, ,email,name "}})
	if len(p.Fields) != 2 || p.Fields[0] != "name" || p.Fields[1] != "email" {
		t.Errorf("fields: got %v, want [name email]", p.Fields)
	}
}

func TestParseParams_RepeatedAndRange(t *testing.T) {
	q := url.Values{
		"status":          {"active", "pending"},
		"created_at[gte]": {"2024-01-01"},
		"created_at[lte]": {"2024-01-31"},
		"score[between]":  {"1"},
	}
	p := querybuilder.ParseParams(q)

	in, ok := p.Filters["status"].([]string)
	if !ok || len(in) != 2 {
		t.Fatalf("status: got %#v, want two values", p.Filters["status"])
	}
	rg, ok := p.Filters["created_at"].(querybuilder.Range)
	if !ok {
		t.Fatalf("created_at: got %#v, want Range", p.Filters["created_at"])
	}
	if rg.Gte != "2024-01-01" || rg.Lte != "2024-01-31" {
		t.Errorf("range: got %+v", rg)
	}
	// unknown operators are plain keys
	if p.Filters["score[between]"] != "1" {
		t.Errorf("score[between]: got %#v", p.Filters["score[between]"])
	}
}

func TestParseParams_DoesNotMutateInput(t *testing.T) {
	q := url.Values{"status": {"a", "b"}, "page": {"2"}}
	p := querybuilder.ParseParams(q)

	p.Filters["status"].([]string)[0] = "changed"
	if q.Get("status") != "a" {
		t.Errorf("input mutated: %v", q)
	}
	if len(q) != 2 {
		t.Errorf("input keys changed: %v", q)
	}
}

func TestParams_Skip(t *testing.T) {
	p := querybuilder.Params{Page: 3, Limit: 10}
	if p.Skip() != 20 {
		t.Errorf("skip: got %d, want 20", p.Skip())
	}
}
