package report

import (
	"strings"
	"time"

	"github.com/roach88/daftar/internal/jalali"
	"github.com/roach88/daftar/internal/sale"
)

// Query selects the records a report covers. All fields are optional.
type Query struct {
	// From and To are canonical dates ("YYYY-MM-DD"). Empty or unparsable
	// values leave that side of the range open.
	From string
	To   string

	// Category keeps only records with exactly this category when non-blank.
	Category sale.Category

	// Location decides where calendar days begin and end. Nil means time.Local.
	Location *time.Location
}

func (q Query) location() *time.Location {
	if q.Location == nil {
		return time.Local
	}
	return q.Location
}

// bounds resolves the query's date range. A nil pointer means unbounded.
func (q Query) bounds() (from, to *time.Time) {
	loc := q.location()
	if t, ok := jalali.ParseCanonical(q.From, loc); ok {
		start := sale.StartOfDay(t)
		from = &start
	}
	if t, ok := jalali.ParseCanonical(q.To, loc); ok {
		end := sale.EndOfDay(t)
		to = &end
	}
	return from, to
}

// Filter returns the records matching q, in input order.
// The input slice is never modified.
//
// A record's own date is reduced to the start of its calendar day before
// it is compared against [startOfDay(From), endOfDay(To)].
func Filter(records []sale.Record, q Query) []sale.Record {
	from, to := q.bounds()
	loc := q.location()
	byCategory := strings.TrimSpace(string(q.Category)) != ""

	out := make([]sale.Record, 0, len(records))
	for _, r := range records {
		if from != nil || to != nil {
			day := sale.StartOfDay(r.Date.In(loc))
			if from != nil && day.Before(*from) {
				continue
			}
			if to != nil && day.After(*to) {
				continue
			}
		}
		if byCategory && r.Category != q.Category {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Range returns the query's date range as instants. A zero time means that
// side is open.
func (q Query) Range() (from, to time.Time) {
	f, t := q.bounds()
	if f != nil {
		from = *f
	}
	if t != nil {
		to = *t
	}
	return from, to
}
