// Package sale defines the records kept by the ledger: sales, customers and
// expense reminders, plus the input normalization shared by every writer.
package sale

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Errors returned by input parsing.
var (
	ErrEmptyName       = errors.New("customer name is required")
	ErrInvalidAmount   = errors.New("amount must be a positive number")
	ErrUnknownCategory = errors.New("unknown category")
	ErrEmptyTitle      = errors.New("reminder title is required")
)

// Record is one recorded sale.
//
// ID is assigned by the store and never reused. Date is set when the sale
// is recorded and never changes; Amount and Category are the only fields
// edited after creation.
type Record struct {
	ID           int64
	CustomerName string
	Contact      string
	Amount       decimal.Decimal
	Note         string
	Category     Category
	Date         time.Time
}

// RoundedAmount returns the amount rounded to whole currency units.
func (r Record) RoundedAmount() int64 {
	return Round(r.Amount)
}

// Customer is keyed by name. Contact is overwritten every time a sale is
// recorded for the name.
type Customer struct {
	Name        string
	Contact     string
	LastUpdated time.Time
}

// Reminder is an upcoming expense. DueDate is the last instant of the due day.
type Reminder struct {
	ID          int64
	Title       string
	Amount      int64
	DueDate     time.Time
	Description string
	CreatedAt   time.Time
}

// DaysUntilDue returns the whole days from the start of now's day to the
// start of the due day, in now's location. Overdue reminders are negative.
func (r Reminder) DaysUntilDue(now time.Time) int {
	loc := now.Location()
	today := StartOfDay(now)
	due := StartOfDay(r.DueDate.In(loc))
	// Calendar-day difference; DST shifts never move a date by a full day.
	return int(due.Sub(today).Round(24*time.Hour) / (24 * time.Hour))
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last millisecond of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
