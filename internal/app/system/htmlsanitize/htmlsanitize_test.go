package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/htmlsanitize"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string // exact, when set
		absent  string
		present string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "Hello, World!", want: "Hello, World!"},
		{name: "formatting kept", in: "<p><strong>Bold</strong> and <em>italic</em></p>", want: "<p><strong>Bold</strong> and <em>italic</em></p>"},
		{name: "script removed", in: "<p>Hello</p><script>alert('xss')</script>", want: "<p>Hello</p>"},
		{name: "onclick removed", in: `<p onclick="alert(1)">x</p>`, absent: "onclick"},
		{name: "javascript href removed", in: `<a href="javascript:alert(1)">x</a>`, absent: "javascript:"},
		{name: "safe link kept", in: `<a href="https://example.com">Link</a>`, present: "https://example.com"},
		{name: "iframe removed", in: `<p>Content</p><iframe src="https://evil.com"></iframe>`, absent: "iframe", present: "Content"},
		{name: "onerror removed", in: `<img src="https://example.com/a.png" onerror="alert(1)">`, absent: "onerror", present: "src="},
		{name: "lists kept", in: "<ul><li>One</li><li>Two</li></ul>", want: "<ul><li>One</li><li>Two</li></ul>"},
	}
	for _, tt := range tests {
		got := htmlsanitize.Sanitize(tt.in)
		if tt.want != "" || tt.in == "" {
			if got != tt.want {
				t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
			}
		}
		if tt.absent != "" && strings.Contains(got, tt.absent) {
			t.Errorf("%s: %q still present in %q", tt.name, tt.absent, got)
		}
		if tt.present != "" && !strings.Contains(got, tt.present) {
			t.Errorf("%s: %q missing from %q", tt.name, tt.present, got)
		}
	}
}

func TestStripTags(t *testing.T) {
	if got := htmlsanitize.StripTags(" <b>Gala</b> Night "); got != "Gala Night" {
		t.Errorf("got %q", got)
	}
	if got := htmlsanitize.StripTags("<script>alert(1)</script>Dhaka"); got != "Dhaka" {
		t.Errorf("got %q", got)
	}
}

func TestIsPlainText(t *testing.T) {
	tests := map[string]bool{
		"":             true,
		"Hello":        true,
		"5 < 10":       true,
		"5 > 3":        true,
		"<p>Hello</p>": false,
	}
	for in, want := range tests {
		if got := htmlsanitize.IsPlainText(in); got != want {
			t.Errorf("IsPlainText(%q): got %v, want %v", in, got, want)
		}
	}
}
