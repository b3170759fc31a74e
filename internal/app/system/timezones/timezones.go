// Package timezones resolves the club's configured IANA time zone, which
// fixes where a "day" and a "month" begin for attendance limits and
// redemption statistics.
package timezones

import (
	"fmt"
	"strings"
	"sync"
	"time"

	// Embedded zone database so minimal images without /usr/share/zoneinfo
	// still resolve names.
	_ "time/tzdata"
)

var (
	mu    sync.Mutex
	cache = map[string]*time.Location{}
)

// Resolve loads the zone named id. A blank id or "UTC" yields time.UTC.
func Resolve(id string) (*time.Location, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.EqualFold(id, "UTC") {
		return time.UTC, nil
	}
	// "Local" depends on the host and is rejected.
	if id == "Local" {
		return nil, fmt.Errorf("time zone %q is not allowed", id)
	}

	mu.Lock()
	defer mu.Unlock()
	if loc, ok := cache[id]; ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", id, err)
	}
	cache[id] = loc
	return loc, nil
}

// Valid reports whether id resolves.
func Valid(id string) bool {
	_, err := Resolve(id)
	return err == nil
}

// Label renders a zone with its current UTC offset, e.g.
// "Asia/Dhaka (UTC+06:00)". Unknown ids are returned unchanged.
func Label(id string) string {
	loc, err := Resolve(id)
	if err != nil {
		return id
	}
	_, off := time.Now().In(loc).Zone()
	sign := '+'
	if off < 0 {
		sign = '-'
		off = -off
	}
	return fmt.Sprintf("%s (UTC%c%02d:%02d)", loc.String(), sign, off/3600, (off%3600)/60)
}
