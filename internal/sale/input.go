package sale

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/daftar/internal/jalali"
)

// thousandsSeparators are stripped from typed amounts.
var thousandsSeparators = strings.NewReplacer(",", "", "٬", "", "،", "")

// ParseAmount parses a typed amount such as "50,000" or "۵۰٬۰۰۰".
// The result must be strictly positive.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(jalali.NormalizeDigits(thousandsSeparators.Replace(s)))
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Round rounds an amount to whole units, halves away from zero.
func Round(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// NormalizeName trims a customer name and puts it in Unicode NFC so that
// the same name typed on different keyboards maps to one customer.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NewSale is the validated input for recording a sale.
type NewSale struct {
	CustomerName string
	Contact      string
	Amount       decimal.Decimal
	Note         string
	Category     Category
}

// Validate normalizes the input in place and reports the first problem.
func (n *NewSale) Validate() error {
	n.CustomerName = NormalizeName(n.CustomerName)
	n.Contact = strings.TrimSpace(jalali.NormalizeDigits(n.Contact))
	n.Note = strings.TrimSpace(n.Note)

	if n.CustomerName == "" {
		return ErrEmptyName
	}
	if !n.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !n.Category.Known() {
		return ErrUnknownCategory
	}
	return nil
}
