// Package htmlsanitize cleans user-supplied rich text (story, event, offer
// and sponsor descriptions) before it is stored.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richOnce sync.Once
	rich     *bluemonday.Policy

	plainOnce sync.Once
	plain     *bluemonday.Policy
)

func richPolicy() *bluemonday.Policy {
	richOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").OnElements("table", "tr", "td", "th")
		p.AllowStyles("text-align").OnElements("p", "td", "th")
		rich = p
	})
	return rich
}

func plainPolicy() *bluemonday.Policy {
	plainOnce.Do(func() { plain = bluemonday.StrictPolicy() })
	return plain
}

// Sanitize keeps formatting markup (paragraphs, lists, links, images,
// tables) and removes scripts, event handlers and unsafe URLs.
func Sanitize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return richPolicy().Sanitize(s)
}

// StripTags removes all markup, for fields shown as plain text (titles,
// names, locations).
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(plainPolicy().Sanitize(s))
}

// IsPlainText reports whether s contains no tag-like sequence.
func IsPlainText(s string) bool {
	lt := strings.IndexByte(s, '<')
	return lt < 0 || strings.IndexByte(s[lt:], '>') < 0
}
