package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/daftar/internal/sale"
)

func TestReplaceSales_KeepsIDsAndCountsFailures(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	_, err := s.AddSale(ctx, newSale("Old", "100"))
	require.NoError(t, err)

	day := time.Date(2024, time.March, 20, 8, 0, 0, 0, time.UTC)
	records := []sale.Record{
		{ID: 7, CustomerName: "Ana", Amount: decimal.NewFromInt(60000), Date: day},
		{ID: 7, CustomerName: "Dup", Amount: decimal.NewFromInt(1), Date: day},
		{ID: 8, CustomerName: "", Amount: decimal.NewFromInt(1), Date: day},
		{ID: 9, CustomerName: "Zero", Amount: decimal.Zero, Date: day},
		{CustomerName: "Bo", Amount: decimal.RequireFromString("12.5"), Category: sale.CategoryMedia, Date: day},
	}

	result, err := s.ReplaceSales(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, RestoreResult{Restored: 2, Failed: 3}, result)

	all, err := s.ReadAllSales(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(7), all[0].ID)
	assert.Equal(t, "Ana", all[0].CustomerName)
	assert.Greater(t, all[1].ID, int64(7))
	assert.Equal(t, sale.CategoryMedia, all[1].Category)
	assert.True(t, all[1].Date.Equal(day))
}

func TestReplaceSales_Empty(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	_, err := s.AddSale(ctx, newSale("Old", "100"))
	require.NoError(t, err)

	result, err := s.ReplaceSales(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, RestoreResult{}, result)

	all, err := s.ReadAllSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestReplaceCustomers(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertCustomer(ctx, sale.Customer{Name: "Old"}))

	when := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	result, err := s.ReplaceCustomers(ctx, []sale.Customer{
		{Name: "Ana", Contact: "111", LastUpdated: when},
		{Name: "Ana", Contact: "222"},
		{Name: "Bo"},
	})
	require.NoError(t, err)
	assert.Equal(t, RestoreResult{Restored: 2, Failed: 1}, result)

	customers, err := s.ReadAllCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "111", customers[0].Contact)
	assert.True(t, customers[0].LastUpdated.Equal(when))
	assert.True(t, customers[1].LastUpdated.Equal(testEpoch))
}

func TestReplaceReminders(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	_, err := s.AddReminder(ctx, sale.Reminder{Title: "old", Amount: 1, DueDate: dueOn(2024, time.March, 22)})
	require.NoError(t, err)

	result, err := s.ReplaceReminders(ctx, []sale.Reminder{
		{ID: 4, Title: "rent", Amount: 900, DueDate: dueOn(2024, time.April, 1)},
		{ID: 5, Title: " ", Amount: 1, DueDate: dueOn(2024, time.April, 1)},
		{ID: 6, Title: "tax", Amount: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, RestoreResult{Restored: 1, Failed: 2}, result)

	all, err := s.ReadAllReminders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(4), all[0].ID)
	assert.True(t, all[0].CreatedAt.Equal(testEpoch))
}
