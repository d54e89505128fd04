package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roach88/daftar/internal/jalali"
	"github.com/roach88/daftar/internal/report"
	"github.com/roach88/daftar/internal/sale"
	"github.com/roach88/daftar/internal/store"
)

// rangeFlags are the --from/--to filters shared by report commands.
type rangeFlags struct {
	From string
	To   string
}

func (r *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.From, "from", "", "first day to include (Jalali YYYY/MM/DD)")
	cmd.Flags().StringVar(&r.To, "to", "", "last day to include (Jalali YYYY/MM/DD)")
}

// query builds a report query. A date that does not parse leaves its side
// of the range open and is reported as a warning.
func (opts *RootOptions) query(r rangeFlags, category sale.Category) report.Query {
	q := report.Query{
		From:     opts.canonicalDate("from", r.From),
		To:       opts.canonicalDate("to", r.To),
		Category: category,
		Location: opts.location(),
	}
	if opts.Log.IsLevelEnabled(logrus.DebugLevel) {
		opts.Log.Debugf("report query:\n%s", queryDumper.Sdump(struct {
			From, To string
			Category sale.Category
			Location string
		}{q.From, q.To, q.Category, q.Location.String()}))
	}
	return q
}

var queryDumper = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}

func (opts *RootOptions) canonicalDate(flag, local string) string {
	if strings.TrimSpace(local) == "" {
		return ""
	}
	canonical := jalali.ToCanonical(local)
	if canonical == "" {
		opts.Log.WithFields(logrus.Fields{"flag": flag, "value": local}).Warn("ignoring unparsable date")
	}
	return canonical
}

// parseID parses a positive record id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(jalali.NormalizeDigits(arg)), 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid id %q", arg))
	}
	return id, nil
}

// parseLocalDay parses a Jalali date as a calendar day in loc.
func parseLocalDay(s string, loc *time.Location) (time.Time, error) {
	d, ok := jalali.ParseLocal(s)
	if !ok {
		return time.Time{}, NewExitError(ExitCommandError, fmt.Sprintf("invalid date %q: expected YYYY/MM/DD", s))
	}
	g, ok := d.Gregorian()
	if !ok {
		return time.Time{}, NewExitError(ExitCommandError, fmt.Sprintf("date %q is out of range", s))
	}
	return time.Date(g.Year(), g.Month(), g.Day(), 0, 0, 0, 0, loc), nil
}

// storeError maps store and input errors to exit codes.
func storeError(message string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return WrapExitError(ExitFailure, message, err)
	case errors.Is(err, sale.ErrEmptyName),
		errors.Is(err, sale.ErrInvalidAmount),
		errors.Is(err, sale.ErrUnknownCategory),
		errors.Is(err, sale.ErrEmptyTitle):
		return WrapExitError(ExitCommandError, message, err)
	}
	return WrapExitError(ExitFailure, message, err)
}

// saleView is the JSON shape of a sale.
type saleView struct {
	ID           int64  `json:"id"`
	Customer     string `json:"customer"`
	Contact      string `json:"contact"`
	Amount       string `json:"amount"`
	Rounded      int64  `json:"rounded"`
	Note         string `json:"note"`
	Category     string `json:"category"`
	CategorySlug string `json:"category_slug"`
	Date         string `json:"date"`
	LocalDate    string `json:"local_date"`
}

func newSaleView(r sale.Record, loc *time.Location) saleView {
	return saleView{
		ID:           r.ID,
		Customer:     r.CustomerName,
		Contact:      r.Contact,
		Amount:       r.Amount.String(),
		Rounded:      r.RoundedAmount(),
		Note:         r.Note,
		Category:     string(r.Category),
		CategorySlug: r.Category.Slug(),
		Date:         r.Date.UTC().Format(time.RFC3339),
		LocalDate:    formatDate(r.Date, loc),
	}
}

type customerView struct {
	Name        string `json:"name"`
	Contact     string `json:"contact"`
	LastUpdated string `json:"last_updated"`
	LocalDate   string `json:"local_date"`
}

func newCustomerView(c sale.Customer, loc *time.Location) customerView {
	return customerView{
		Name:        c.Name,
		Contact:     c.Contact,
		LastUpdated: c.LastUpdated.UTC().Format(time.RFC3339),
		LocalDate:   formatDate(c.LastUpdated, loc),
	}
}

type reminderView struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Amount       int64  `json:"amount"`
	DueDate      string `json:"due_date"`
	LocalDueDate string `json:"local_due_date"`
	DaysUntilDue int    `json:"days_until_due"`
	Description  string `json:"description"`
}

func newReminderView(r sale.Reminder, now time.Time) reminderView {
	return reminderView{
		ID:           r.ID,
		Title:        r.Title,
		Amount:       r.Amount,
		DueDate:      r.DueDate.UTC().Format(time.RFC3339),
		LocalDueDate: formatDate(r.DueDate, now.Location()),
		DaysUntilDue: r.DaysUntilDue(now),
		Description:  r.Description,
	}
}

// categoryLabel shows a category for humans.
func categoryLabel(c sale.Category) string {
	if c == sale.CategoryNone {
		return "-"
	}
	return string(c)
}
