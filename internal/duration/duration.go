// Package duration parses free-text duration tokens like "7d" or "30min"
// into absolute expiry timestamps.
package duration

import (
	"strconv"
	"strings"
	"time"
)

// Fixed unit approximations. A month is always 31 days and a year is
// always 365 days; expiries are not calendar-accurate.
const (
	Second = time.Second
	Minute = time.Minute
	Hour   = time.Hour
	Day    = 24 * time.Hour
	Week   = 7 * Day
	Month  = 31 * Day
	Year   = 365 * Day
)

var units = map[string]time.Duration{
	"s":       Second,
	"sec":     Second,
	"second":  Second,
	"seconds": Second,
	"m":       Minute,
	"min":     Minute,
	"minute":  Minute,
	"minutes": Minute,
	"h":       Hour,
	"hr":      Hour,
	"hrs":     Hour,
	"hour":    Hour,
	"hours":   Hour,
	"d":       Day,
	"day":     Day,
	"days":    Day,
	"w":       Week,
	"week":    Week,
	"weeks":   Week,
	"mo":      Month,
	"month":   Month,
	"months":  Month,
	"y":       Year,
	"yr":      Year,
	"year":    Year,
	"years":   Year,
}

// Parse converts a token of the form "<amount><unit>" into an absolute
// timestamp relative to now. Spaces anywhere in the token are ignored, so
// "7 d" parses the same as "7d". The second return value is false when the
// token has no numeric amount, the amount is zero, or the unit suffix is
// unknown.
func Parse(s string, now time.Time) (time.Time, bool) {
	s = strings.ReplaceAll(s, " ", "")
	var digits, suffix strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		} else {
			suffix.WriteRune(r)
		}
	}

	unit, ok := units[strings.ToLower(suffix.String())]
	if !ok {
		return time.Time{}, false
	}
	amount, err := strconv.Atoi(digits.String())
	if err != nil || amount == 0 {
		return time.Time{}, false
	}
	return now.Add(time.Duration(amount) * unit), true
}
