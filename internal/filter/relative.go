package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Google Maps shows review ages as relative text ("2 weeks ago", "a month
// ago"). These resolve against the current time.
var relativePattern = regexp.MustCompile(`^(a|an|\d+)\s+(second|minute|hour|day|week|month|year)s?\s+ago$`)

var relativeUnits = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
	"month":  30 * 24 * time.Hour,
	"year":   365 * 24 * time.Hour,
}

func parseRelative(s string) (time.Time, bool) {
	m := relativePattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return time.Time{}, false
	}
	n := 1
	if m[1] != "a" && m[1] != "an" {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		n = v
	}
	return time.Now().Add(-time.Duration(n) * relativeUnits[m[2]]), true
}
