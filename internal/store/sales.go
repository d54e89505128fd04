package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/roach88/daftar/internal/sale"
)

const saleColumns = "id, customer_name, contact, amount, note, category, created_at"

// AddSale validates n, records it with the current time and refreshes the
// customer's contact.
//
// The customer upsert is best effort: if it fails the sale is still
// recorded and the failure is logged.
func (s *Store) AddSale(ctx context.Context, n sale.NewSale) (sale.Record, error) {
	if err := n.Validate(); err != nil {
		return sale.Record{}, err
	}

	now := s.now()
	rec := sale.Record{
		CustomerName: n.CustomerName,
		Contact:      n.Contact,
		Amount:       n.Amount,
		Note:         n.Note,
		Category:     n.Category,
		Date:         now.UTC().Truncate(time.Millisecond),
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sales (customer_name, contact, amount, note, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.CustomerName, rec.Contact, formatAmount(rec.Amount), rec.Note, string(rec.Category), formatTime(rec.Date))
	if err != nil {
		return sale.Record{}, fmt.Errorf("insert sale: %w", err)
	}

	rec.ID, err = res.LastInsertId()
	if err != nil {
		return sale.Record{}, fmt.Errorf("sale id: %w", err)
	}

	cust := sale.Customer{Name: rec.CustomerName, Contact: rec.Contact, LastUpdated: now}
	if err := s.UpsertCustomer(ctx, cust); err != nil {
		s.log.WithFields(logrus.Fields{
			"sale_id":  rec.ID,
			"customer": rec.CustomerName,
		}).WithError(err).Warn("sale recorded but customer was not updated")
	}

	return rec, nil
}

// ReadAllSales returns every sale in id order.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ReadAllSales(ctx context.Context) ([]sale.Record, error) {
	return s.querySales(ctx, "SELECT "+saleColumns+" FROM sales ORDER BY id ASC")
}

// ReadSalesByDateRange returns the sales dated within [from, to], in id
// order. A zero bound leaves that side open.
//
// Callers pass start-of-day and end-of-day instants, which makes the result
// equal to filtering ReadAllSales by calendar day.
func (s *Store) ReadSalesByDateRange(ctx context.Context, from, to time.Time) ([]sale.Record, error) {
	var (
		where []string
		args  []any
	)
	if !from.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, formatTime(from))
	}
	if !to.IsZero() {
		where = append(where, "created_at <= ?")
		args = append(args, formatTime(to))
	}

	query := "SELECT " + saleColumns + " FROM sales"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id ASC"

	return s.querySales(ctx, query, args...)
}

// ReadSale returns one sale by id.
func (s *Store) ReadSale(ctx context.Context, id int64) (sale.Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+saleColumns+" FROM sales WHERE id = ?", id)
	rec, err := scanSale(row)
	if errors.Is(err, sql.ErrNoRows) {
		return sale.Record{}, fmt.Errorf("sale %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return sale.Record{}, err
	}
	return rec, nil
}

// UpdateSaleAmount replaces the amount of an existing sale.
func (s *Store) UpdateSaleAmount(ctx context.Context, id int64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return sale.ErrInvalidAmount
	}
	res, err := s.db.ExecContext(ctx, "UPDATE sales SET amount = ? WHERE id = ?", formatAmount(amount), id)
	if err != nil {
		return fmt.Errorf("update sale amount: %w", err)
	}
	return expectOneRow(res, "sale", id)
}

// UpdateSaleCategory replaces the category of an existing sale.
func (s *Store) UpdateSaleCategory(ctx context.Context, id int64, c sale.Category) error {
	if !c.Known() {
		return sale.ErrUnknownCategory
	}
	res, err := s.db.ExecContext(ctx, "UPDATE sales SET category = ? WHERE id = ?", string(c), id)
	if err != nil {
		return fmt.Errorf("update sale category: %w", err)
	}
	return expectOneRow(res, "sale", id)
}

// DeleteSale removes one sale.
func (s *Store) DeleteSale(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sales WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return expectOneRow(res, "sale", id)
}

// ClearSales removes every sale and returns how many were removed.
// Customers are kept.
func (s *Store) ClearSales(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sales")
	if err != nil {
		return 0, fmt.Errorf("clear sales: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear sales: %w", err)
	}
	return n, nil
}

func (s *Store) querySales(ctx context.Context, query string, args ...any) ([]sale.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	records := []sale.Record{}
	for rows.Next() {
		rec, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	return records, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSale(row rowScanner) (sale.Record, error) {
	var (
		rec      sale.Record
		amount   string
		category string
		date     string
	)
	if err := row.Scan(&rec.ID, &rec.CustomerName, &rec.Contact, &amount, &rec.Note, &category, &date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sale.Record{}, err
		}
		return sale.Record{}, fmt.Errorf("scan sale: %w", err)
	}

	var err error
	if rec.Amount, err = parseAmount(amount); err != nil {
		return sale.Record{}, fmt.Errorf("sale %d: %w", rec.ID, err)
	}
	if rec.Date, err = parseTime(date); err != nil {
		return sale.Record{}, fmt.Errorf("sale %d: %w", rec.ID, err)
	}
	rec.Category = sale.Category(category)
	return rec, nil
}

func expectOneRow(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: %w", kind, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}
