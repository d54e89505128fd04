package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/daftar/internal/sale"
)

// timeLayout matches the ISO strings JavaScript's Date.toJSON produces.
const timeLayout = "2006-01-02T15:04:05.000Z"

// docTime is a timestamp in backup documents.
type docTime time.Time

func (t docTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(timeLayout))
}

func (t *docTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		*t = docTime{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t = docTime(parsed.UTC())
	return nil
}

// docAmount is a money amount in backup documents. It is written as a bare
// number and read from either a number or a numeric string.
type docAmount decimal.Decimal

func (a docAmount) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(a).String()), nil
}

func (a *docAmount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*a = docAmount(decimal.Zero)
		return nil
	}
	s := strings.Trim(string(b), `"`)
	d, err := sale.ParseAmount(s)
	if err != nil {
		// Zero and negative amounts still load; the store rejects them row by row.
		d, err = decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("invalid amount %s", b)
		}
	}
	*a = docAmount(d)
	return nil
}

type saleDoc struct {
	ID           int64     `json:"id"`
	CustomerName string    `json:"customerName"`
	PhoneNumber  string    `json:"phoneNumber"`
	Price        docAmount `json:"price"`
	Explanation  string    `json:"explanation"`
	Category     string    `json:"category"`
	Date         docTime   `json:"date"`
}

func saleToDoc(r sale.Record) saleDoc {
	return saleDoc{
		ID:           r.ID,
		CustomerName: r.CustomerName,
		PhoneNumber:  r.Contact,
		Price:        docAmount(r.Amount),
		Explanation:  r.Note,
		Category:     string(r.Category),
		Date:         docTime(r.Date),
	}
}

func (d saleDoc) record() sale.Record {
	return sale.Record{
		ID:           d.ID,
		CustomerName: d.CustomerName,
		Contact:      d.PhoneNumber,
		Amount:       decimal.Decimal(d.Price),
		Note:         d.Explanation,
		Category:     sale.Category(d.Category),
		Date:         time.Time(d.Date),
	}
}

type customerDoc struct {
	CustomerName string  `json:"customerName"`
	PhoneNumber  string  `json:"phoneNumber"`
	LastUpdated  docTime `json:"lastUpdated"`
}

func customerToDoc(c sale.Customer) customerDoc {
	return customerDoc{
		CustomerName: c.Name,
		PhoneNumber:  c.Contact,
		LastUpdated:  docTime(c.LastUpdated),
	}
}

func (d customerDoc) customer() sale.Customer {
	return sale.Customer{
		Name:        d.CustomerName,
		Contact:     d.PhoneNumber,
		LastUpdated: time.Time(d.LastUpdated),
	}
}

type reminderDoc struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Amount      docAmount `json:"amount"`
	DueDate     docTime   `json:"dueDate"`
	Description string    `json:"description"`
	CreatedAt   docTime   `json:"createdAt"`
}

func reminderToDoc(r sale.Reminder) reminderDoc {
	return reminderDoc{
		ID:          r.ID,
		Title:       r.Title,
		Amount:      docAmount(decimal.NewFromInt(r.Amount)),
		DueDate:     docTime(r.DueDate),
		Description: r.Description,
		CreatedAt:   docTime(r.CreatedAt),
	}
}

func (d reminderDoc) reminder() sale.Reminder {
	return sale.Reminder{
		ID:          d.ID,
		Title:       d.Title,
		Amount:      sale.Round(decimal.Decimal(d.Amount)),
		DueDate:     time.Time(d.DueDate),
		Description: d.Description,
		CreatedAt:   time.Time(d.CreatedAt),
	}
}
