package sale

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"50000", "50000"},
		{"50,000", "50000"},
		{" 1,250,000 ", "1250000"},
		{"۵۰٬۰۰۰", "50000"},
		{"49999.5", "49999.5"},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "input %q got %s", tt.in, got)
	}
}

func TestParseAmount_Rejects(t *testing.T) {
	for _, in := range []string{"", "  ", "abc", "0", "-100", "12x"} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", in)
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, int64(30000), Round(decimal.NewFromInt(30000)))
	assert.Equal(t, int64(50000), Round(decimal.RequireFromString("49999.5")))
	assert.Equal(t, int64(49999), Round(decimal.RequireFromString("49999.4")))
	assert.Equal(t, int64(0), Round(decimal.RequireFromString("0.4")))
}

func TestNormalizeName(t *testing.T) {
	// "e" followed by a combining acute accent composes to a single rune.
	assert.Equal(t, "caf\u00e9", NormalizeName("  cafe\u0301 "))
	assert.Equal(t, "Ana", NormalizeName("Ana"))
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("vpn")
	require.NoError(t, err)
	assert.Equal(t, CategoryVPN, c)

	c, err = ParseCategory("سایر")
	require.NoError(t, err)
	assert.Equal(t, CategoryOther, c)

	c, err = ParseCategory("  ")
	require.NoError(t, err)
	assert.Equal(t, CategoryNone, c)

	_, err = ParseCategory("VPN")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestCategories(t *testing.T) {
	all := Categories()
	require.Len(t, all, 7)
	for _, c := range all {
		assert.True(t, c.Known())
		assert.NotEmpty(t, c.Slug())
	}
	assert.True(t, CategoryNone.Known())
	assert.False(t, Category("X").Known())
}

func TestNewSaleValidate(t *testing.T) {
	n := NewSale{CustomerName: "  Ana ", Contact: " ۰۹۱۲ ", Amount: decimal.NewFromInt(10)}
	require.NoError(t, n.Validate())
	assert.Equal(t, "Ana", n.CustomerName)
	assert.Equal(t, "0912", n.Contact)

	n = NewSale{CustomerName: " ", Amount: decimal.NewFromInt(10)}
	assert.ErrorIs(t, n.Validate(), ErrEmptyName)

	n = NewSale{CustomerName: "Bo"}
	assert.ErrorIs(t, n.Validate(), ErrInvalidAmount)

	n = NewSale{CustomerName: "Bo", Amount: decimal.NewFromInt(1), Category: "X"}
	assert.ErrorIs(t, n.Validate(), ErrUnknownCategory)
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("X", 2*3600)
	ts := time.Date(2024, 5, 6, 13, 45, 10, 0, loc)

	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, loc), StartOfDay(ts))
	assert.Equal(t, time.Date(2024, 5, 6, 23, 59, 59, 999000000, loc), EndOfDay(ts))
}

func TestReminderDaysUntilDue(t *testing.T) {
	now := time.Date(2024, 5, 6, 18, 0, 0, 0, time.UTC)

	r := Reminder{DueDate: EndOfDay(time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC))}
	assert.Equal(t, 5, r.DaysUntilDue(now))

	r.DueDate = EndOfDay(time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 0, r.DaysUntilDue(now))

	r.DueDate = EndOfDay(time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, -2, r.DaysUntilDue(now))
}
