package jalali

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// CanonicalLayout is the time layout of canonical date strings.
const CanonicalLayout = "2006-01-02"

// digitFolder maps Extended Arabic-Indic (Persian) and Arabic-Indic digits
// to their ASCII equivalents and leaves every other rune alone.
var digitFolder = runes.Map(func(r rune) rune {
	switch {
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰')
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠')
	}
	return r
})

// NormalizeDigits rewrites Persian and Arabic-Indic digits in s as ASCII.
func NormalizeDigits(s string) string {
	out, _, err := transform.String(digitFolder, s)
	if err != nil {
		return s
	}
	return out
}

// ParseLocal parses a "YYYY/MM/DD" Jalali date in any supported digit
// script. It returns false if the string is not exactly three numeric parts
// or does not name a real day.
func ParseLocal(s string) (Date, bool) {
	s = strings.TrimSpace(NormalizeDigits(s))
	if s == "" {
		return Date{}, false
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Date{}, false
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Date{}, false
		}
		nums[i] = n
	}

	d := Date{Year: nums[0], Month: nums[1], Day: nums[2]}
	if !d.Valid() {
		return Date{}, false
	}
	return d, true
}

// ToCanonical converts a local Jalali date string to a canonical
// "YYYY-MM-DD" Gregorian date. Malformed input yields "".
func ToCanonical(local string) string {
	d, ok := ParseLocal(local)
	if !ok {
		return ""
	}
	g, ok := d.Gregorian()
	if !ok {
		return ""
	}
	return g.Format(CanonicalLayout)
}

// ToLocal converts the calendar day of t, in t's own location, to a local
// "YYYY/MM/DD" Jalali date. The zero time yields "".
func ToLocal(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d, ok := FromGregorian(t.Year(), t.Month(), t.Day())
	if !ok {
		return ""
	}
	return d.String()
}

// ToLocalString is ToLocal for a canonical date or RFC 3339 timestamp string.
func ToLocalString(canonical string) string {
	t, ok := ParseCanonical(canonical, time.UTC)
	if !ok {
		return ""
	}
	return ToLocal(t)
}

// ParseCanonical parses a canonical date ("YYYY-MM-DD", taken as midnight
// in loc) or an RFC 3339 timestamp (converted to loc).
func ParseCanonical(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(CanonicalLayout, s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}
