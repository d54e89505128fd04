package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/daftar/internal/sale"
)

const reminderColumns = "id, title, amount, due_date, description, created_at"

// AddReminder stores a new reminder. CreatedAt is set to now and the
// assigned id is returned in the result.
func (s *Store) AddReminder(ctx context.Context, r sale.Reminder) (sale.Reminder, error) {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	if r.Title == "" {
		return sale.Reminder{}, sale.ErrEmptyTitle
	}
	if r.Amount <= 0 {
		return sale.Reminder{}, sale.ErrInvalidAmount
	}
	if r.DueDate.IsZero() {
		return sale.Reminder{}, errors.New("reminder due date is required")
	}

	r.CreatedAt = s.now().UTC().Truncate(time.Millisecond)
	r.DueDate = r.DueDate.UTC().Truncate(time.Millisecond)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (title, amount, due_date, description, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, r.Title, r.Amount, formatTime(r.DueDate), r.Description, formatTime(r.CreatedAt))
	if err != nil {
		return sale.Reminder{}, fmt.Errorf("insert reminder: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return sale.Reminder{}, fmt.Errorf("reminder id: %w", err)
	}
	return r, nil
}

// ReadAllReminders returns every reminder, soonest due first.
func (s *Store) ReadAllReminders(ctx context.Context) ([]sale.Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+reminderColumns+" FROM reminders ORDER BY due_date ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	reminders := []sale.Reminder{}
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminders: %w", err)
	}
	return reminders, nil
}

// ReadDueReminders returns the reminders due within window days of now,
// overdue ones included. Days are counted in now's location.
func (s *Store) ReadDueReminders(ctx context.Context, now time.Time, window int) ([]sale.Reminder, error) {
	all, err := s.ReadAllReminders(ctx)
	if err != nil {
		return nil, err
	}
	due := []sale.Reminder{}
	for _, r := range all {
		if r.DaysUntilDue(now) <= window {
			due = append(due, r)
		}
	}
	return due, nil
}

// DeleteReminder removes one reminder.
func (s *Store) DeleteReminder(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reminders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	return expectOneRow(res, "reminder", id)
}

func scanReminder(row rowScanner) (sale.Reminder, error) {
	var (
		r            sale.Reminder
		due, created string
	)
	if err := row.Scan(&r.ID, &r.Title, &r.Amount, &due, &r.Description, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sale.Reminder{}, err
		}
		return sale.Reminder{}, fmt.Errorf("scan reminder: %w", err)
	}
	var err error
	if r.DueDate, err = parseTime(due); err != nil {
		return sale.Reminder{}, fmt.Errorf("reminder %d: %w", r.ID, err)
	}
	if r.CreatedAt, err = parseTime(created); err != nil {
		return sale.Reminder{}, fmt.Errorf("reminder %d: %w", r.ID, err)
	}
	return r, nil
}
