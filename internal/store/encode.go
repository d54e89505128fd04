package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// timeLayout is fixed width so that text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000Z"

// formatTime converts t to stored text. Precision below a millisecond is
// truncated.
func formatTime(t time.Time) string {
	return t.UTC().Truncate(time.Millisecond).Format(timeLayout)
}

// parseTime reads stored text back into a UTC instant.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.UTC(), nil
}

// formatAmount converts an amount to stored text.
func formatAmount(d decimal.Decimal) string {
	return d.String()
}

// parseAmount reads a stored amount.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}
