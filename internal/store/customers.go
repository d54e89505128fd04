package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/roach88/daftar/internal/sale"
)

// DefaultSearchLimit caps SearchCustomers when no limit is given.
const DefaultSearchLimit = 10

// UpsertCustomer inserts the customer or overwrites the contact and
// timestamp of an existing one. A zero LastUpdated is replaced with now.
func (s *Store) UpsertCustomer(ctx context.Context, c sale.Customer) error {
	c.Name = sale.NormalizeName(c.Name)
	if c.Name == "" {
		return sale.ErrEmptyName
	}
	if c.LastUpdated.IsZero() {
		c.LastUpdated = s.now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (name, contact, last_updated)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			contact = excluded.contact,
			last_updated = excluded.last_updated
	`, c.Name, c.Contact, formatTime(c.LastUpdated))
	if err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}

// ReadCustomer returns the customer with the given name.
func (s *Store) ReadCustomer(ctx context.Context, name string) (sale.Customer, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT name, contact, last_updated FROM customers WHERE name = ?",
		sale.NormalizeName(name))
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return sale.Customer{}, fmt.Errorf("customer %q: %w", name, ErrNotFound)
	}
	return c, err
}

// ReadAllCustomers returns every customer ordered by name.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ReadAllCustomers(ctx context.Context) ([]sale.Customer, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, contact, last_updated FROM customers ORDER BY name COLLATE BINARY ASC")
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := []sale.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}

// SearchCustomers returns customers whose name contains term, ignoring
// case, ordered by name and capped at limit. A limit <= 0 means
// DefaultSearchLimit. A blank term matches nobody.
func (s *Store) SearchCustomers(ctx context.Context, term string, limit int) ([]sale.Customer, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	fold := cases.Fold()
	needle := fold.String(sale.NormalizeName(term))
	if needle == "" {
		return []sale.Customer{}, nil
	}

	customers, err := s.ReadAllCustomers(ctx)
	if err != nil {
		return nil, err
	}
	matches := []sale.Customer{}
	for _, c := range customers {
		if !strings.Contains(fold.String(c.Name), needle) {
			continue
		}
		matches = append(matches, c)
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}

// ContactMap returns the name to contact lookup used by the lottery.
func (s *Store) ContactMap(ctx context.Context) (map[string]string, error) {
	customers, err := s.ReadAllCustomers(ctx)
	if err != nil {
		return nil, err
	}
	contacts := make(map[string]string, len(customers))
	for _, c := range customers {
		contacts[c.Name] = c.Contact
	}
	return contacts, nil
}

// ClearCustomers removes every customer and returns how many were removed.
func (s *Store) ClearCustomers(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM customers")
	if err != nil {
		return 0, fmt.Errorf("clear customers: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear customers: %w", err)
	}
	return n, nil
}

func scanCustomer(row rowScanner) (sale.Customer, error) {
	var (
		c       sale.Customer
		updated string
	)
	if err := row.Scan(&c.Name, &c.Contact, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sale.Customer{}, err
		}
		return sale.Customer{}, fmt.Errorf("scan customer: %w", err)
	}
	t, err := parseTime(updated)
	if err != nil {
		return sale.Customer{}, fmt.Errorf("customer %q: %w", c.Name, err)
	}
	c.LastUpdated = t
	return c, nil
}
