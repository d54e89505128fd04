package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roach88/daftar/internal/sale"
)

// RestoreResult counts the rows written by a replace operation.
type RestoreResult struct {
	Restored int
	Failed   int
}

// ReplaceSales clears the sales table and inserts records.
//
// Records keep their ids when non-zero. A row that cannot be inserted
// (duplicate id, empty name, non-positive amount) is counted in Failed and
// the rest are still written. The whole replace is one transaction; only a
// failure to clear or commit returns an error.
func (s *Store) ReplaceSales(ctx context.Context, records []sale.Record) (RestoreResult, error) {
	var result RestoreResult
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM sales"); err != nil {
			return fmt.Errorf("clear sales: %w", err)
		}
		for _, rec := range records {
			if err := insertRestoredSale(ctx, tx, rec); err != nil {
				s.log.WithFields(logrus.Fields{
					"sale_id":  rec.ID,
					"customer": rec.CustomerName,
				}).WithError(err).Warn("skipping sale during restore")
				result.Failed++
				continue
			}
			result.Restored++
		}
		return nil
	})
	if err != nil {
		return RestoreResult{}, err
	}
	return result, nil
}

// ReplaceCustomers clears the customers table and inserts customers with
// the same per-row failure counting as ReplaceSales.
func (s *Store) ReplaceCustomers(ctx context.Context, customers []sale.Customer) (RestoreResult, error) {
	var result RestoreResult
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM customers"); err != nil {
			return fmt.Errorf("clear customers: %w", err)
		}
		for _, c := range customers {
			if err := insertRestoredCustomer(ctx, tx, c, s.now); err != nil {
				s.log.WithField("customer", c.Name).WithError(err).Warn("skipping customer during restore")
				result.Failed++
				continue
			}
			result.Restored++
		}
		return nil
	})
	if err != nil {
		return RestoreResult{}, err
	}
	return result, nil
}

// ReplaceReminders clears the reminders table and inserts reminders with
// the same per-row failure counting as ReplaceSales.
func (s *Store) ReplaceReminders(ctx context.Context, reminders []sale.Reminder) (RestoreResult, error) {
	var result RestoreResult
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM reminders"); err != nil {
			return fmt.Errorf("clear reminders: %w", err)
		}
		for _, r := range reminders {
			if err := insertRestoredReminder(ctx, tx, r, s.now); err != nil {
				s.log.WithFields(logrus.Fields{
					"reminder_id": r.ID,
					"title":       r.Title,
				}).WithError(err).Warn("skipping reminder during restore")
				result.Failed++
				continue
			}
			result.Restored++
		}
		return nil
	})
	if err != nil {
		return RestoreResult{}, err
	}
	return result, nil
}

func insertRestoredSale(ctx context.Context, tx *sql.Tx, rec sale.Record) error {
	name := sale.NormalizeName(rec.CustomerName)
	if name == "" {
		return sale.ErrEmptyName
	}
	if !rec.Amount.IsPositive() {
		return sale.ErrInvalidAmount
	}
	date := rec.Date
	if date.IsZero() {
		return fmt.Errorf("sale %d has no date", rec.ID)
	}

	var id any
	if rec.ID > 0 {
		id = rec.ID
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO sales (id, customer_name, contact, amount, note, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, name, rec.Contact, formatAmount(rec.Amount), rec.Note, string(rec.Category), formatTime(date))
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func insertRestoredCustomer(ctx context.Context, tx *sql.Tx, c sale.Customer, now func() time.Time) error {
	name := sale.NormalizeName(c.Name)
	if name == "" {
		return sale.ErrEmptyName
	}
	updated := c.LastUpdated
	if updated.IsZero() {
		updated = now()
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO customers (name, contact, last_updated) VALUES (?, ?, ?)",
		name, c.Contact, formatTime(updated))
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func insertRestoredReminder(ctx context.Context, tx *sql.Tx, r sale.Reminder, now func() time.Time) error {
	if strings.TrimSpace(r.Title) == "" {
		return sale.ErrEmptyTitle
	}
	if r.DueDate.IsZero() {
		return fmt.Errorf("reminder %d has no due date", r.ID)
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = now()
	}

	var id any
	if r.ID > 0 {
		id = r.ID
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO reminders (id, title, amount, due_date, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, strings.TrimSpace(r.Title), r.Amount, formatTime(r.DueDate), r.Description, formatTime(created))
	if err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}

// inTx runs fn in a transaction, committing on success.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
