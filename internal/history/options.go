// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Options selects which commits the miner yields.
type Options struct {
	Since time.Time
	Until time.Time
	// Author is matched case-insensitively as a substring of name or email.
	Author string
	// Ref defaults to HEAD.
	Ref           string
	AllBranches   bool
	IncludeMerges bool
	// Limit caps the number of commits; 0 means unlimited.
	Limit int
}

// Validate rejects ranges that can never match.
func (o Options) Validate() error {
	if !o.Since.IsZero() && !o.Until.IsZero() && o.Since.After(o.Until) {
		return &RangeError{Since: o.Since, Until: o.Until, Reason: "since is after until"}
	}
	if o.Limit < 0 {
		return &RangeError{Since: o.Since, Until: o.Until, Reason: "limit must not be negative"}
	}
	return nil
}

var relativeDate = regexp.MustCompile(`^(\d+)\s+(second|minute|hour|day|week|month|year)s?\s+ago$`)

var relativeUnits = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
	"month":  30 * 24 * time.Hour,
	"year":   365 * 24 * time.Hour,
}

// ParseDate parses an absolute or relative date. Accepted forms: RFC3339,
// YYYY-MM-DD, "today", "yesterday" and "N <unit>s ago". An empty string yields
// the zero time.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return time.Time{}, nil
	}

	switch s {
	case "today":
		return startOfDay(now), nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	}

	if m := relativeDate.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, &RangeError{Reason: "bad date " + strconv.Quote(s)}
		}
		return now.Add(-time.Duration(n) * relativeUnits[m[2]]), nil
	}

	if t, err := time.Parse(time.RFC3339, strings.ToUpper(s)); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, now.Location()); err == nil {
		return t, nil
	}
	return time.Time{}, &RangeError{Reason: "unrecognised date " + strconv.Quote(s)}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
