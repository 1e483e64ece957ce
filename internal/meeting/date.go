package meeting

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// All meetings in this deployment are scheduled in Mountain Time.
var denver = loadZone()

func loadZone() *time.Location {
	loc, err := time.LoadLocation("America/Denver")
	if err != nil {
		return time.UTC
	}
	return loc
}

// Zone returns the fixed reference zone for the deployment.
func Zone() *time.Location { return denver }

var dateLayouts = []string{
	"Monday, January 2, 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
}

// ParseDate parses a posted date string into ISO YYYY-MM-DD. Adapters must
// skip records whose date does not parse rather than emit a sentinel.
func ParseDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unparseable date: %q", raw)
}

var clockRe = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*([AP])\.?M\.?`)

// ParseClock extracts a human-readable start time like "6:00 PM" from raw
// text. Unparseable input yields TimeTBD.
func ParseClock(raw string) string {
	m := clockRe.FindStringSubmatch(raw)
	if m == nil {
		return TimeTBD
	}
	hh, _ := strconv.Atoi(m[1])
	if hh < 1 || hh > 12 {
		return TimeTBD
	}
	mm := 0
	if m[2] != "" {
		mm, _ = strconv.Atoi(m[2])
	}
	if mm > 59 {
		return TimeTBD
	}
	return fmt.Sprintf("%d:%02d %sM", hh, mm, strings.ToUpper(m[3]))
}

// Today returns the current civil date in the reference zone.
func Today() string {
	return time.Now().In(denver).Format("2006-01-02")
}

// IsFuture reports whether dateISO is today or later. ISO dates compare
// lexicographically.
func IsFuture(dateISO string) bool {
	return dateISO >= Today()
}
