package jalali

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCanonical_ReferenceTable(t *testing.T) {
	tests := []struct {
		name  string
		local string
		want  string
	}{
		{"nowruz 1402", "1402/01/01", "2023-03-21"},
		{"nowruz 1403 after leap 1402 start shift", "1403/01/01", "2024-03-20"},
		{"last day of leap 1403", "1403/12/30", "2025-03-20"},
		{"nowruz 1404", "1404/01/01", "2025-03-21"},
		{"last day of leap 1399", "1399/12/30", "2021-03-20"},
		{"nowruz 1400", "1400/01/01", "2021-03-21"},
		{"first of mehr", "1402/07/01", "2023-09-23"},
		{"mid summer", "1360/05/26", "1981-08-17"},
		{"nowruz 1300", "1300/01/01", "1921-03-21"},
		{"unpadded parts", "1402/1/1", "2023-03-21"},
		{"surrounding space", "  1402/01/01 ", "2023-03-21"},
		{"persian digits", "۱۴۰۲/۰۱/۰۱", "2023-03-21"},
		{"arabic-indic digits", "١٤٠٢/٠١/٠١", "2023-03-21"},
		{"mixed digits", "۱۴۰۲/01/۰۱", "2023-03-21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToCanonical(tt.local))
		})
	}
}

func TestToCanonical_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"1402-01-01",
		"1402/01",
		"1402/01/01/01",
		"abc/01/01",
		"1402/13/01",
		"1402/00/10",
		"1402/01/32",
		"1402/07/31",
		"1402/12/30", // 1402 is not leap
		"0/01/01",
		"3178/01/01",
	}
	for _, in := range inputs {
		assert.Empty(t, ToCanonical(in), "input %q", in)
	}
}

func TestIsLeap(t *testing.T) {
	leap := []int{1395, 1399, 1403, 1408}
	common := []int{1400, 1401, 1402, 1404, 1407}

	for _, y := range leap {
		assert.True(t, IsLeap(y), "year %d", y)
		assert.Equal(t, 30, MonthLength(y, 12), "year %d", y)
	}
	for _, y := range common {
		assert.False(t, IsLeap(y), "year %d", y)
		assert.Equal(t, 29, MonthLength(y, 12), "year %d", y)
	}
	assert.False(t, IsLeap(0))
	assert.False(t, IsLeap(MaxYear+1))
}

func TestMonthLength(t *testing.T) {
	assert.Equal(t, 31, MonthLength(1402, 1))
	assert.Equal(t, 31, MonthLength(1402, 6))
	assert.Equal(t, 30, MonthLength(1402, 7))
	assert.Equal(t, 30, MonthLength(1402, 11))
	assert.Equal(t, 0, MonthLength(1402, 0))
	assert.Equal(t, 0, MonthLength(1402, 13))
	assert.Equal(t, 0, MonthLength(0, 1))
}

func TestToLocal(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2023, 3, 21, 0, 0, 0, 0, time.UTC), "1402/01/01"},
		{time.Date(2023, 3, 20, 23, 59, 59, 0, time.UTC), "1401/12/29"},
		{time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC), "1403/12/30"},
		{time.Date(2021, 3, 20, 0, 0, 0, 0, time.UTC), "1399/12/30"},
		{time.Date(1981, 8, 17, 8, 30, 0, 0, time.UTC), "1360/05/26"},
		{time.Date(2023, 9, 23, 0, 0, 0, 0, time.UTC), "1402/07/01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToLocal(tt.in), "input %s", tt.in)
	}

	assert.Empty(t, ToLocal(time.Time{}))
}

func TestToLocal_UsesInstantLocation(t *testing.T) {
	tehran := time.FixedZone("IRST", 3*3600+1800)
	// 21:00 UTC on 20 March is already 21 March in Tehran.
	instant := time.Date(2023, 3, 20, 21, 0, 0, 0, time.UTC)

	assert.Equal(t, "1401/12/29", ToLocal(instant))
	assert.Equal(t, "1402/01/01", ToLocal(instant.In(tehran)))
}

func TestToLocalString(t *testing.T) {
	assert.Equal(t, "1402/01/01", ToLocalString("2023-03-21"))
	assert.Equal(t, "1402/01/01", ToLocalString("2023-03-21T10:15:00.000Z"))
	assert.Empty(t, ToLocalString(""))
	assert.Empty(t, ToLocalString("21/03/2023"))
}

func TestRoundTrip_NoDrift(t *testing.T) {
	start, ok := Date{Year: 1390, Month: 1, Day: 1}.Gregorian()
	require.True(t, ok)

	expected := start
	for y := 1390; y <= 1410; y++ {
		for m := 1; m <= 12; m++ {
			for d := 1; d <= MonthLength(y, m); d++ {
				local := Date{Year: y, Month: m, Day: d}

				g, ok := local.Gregorian()
				require.True(t, ok, "date %s", local)
				require.Equal(t, expected, g, "date %s drifted", local)

				back, ok := FromGregorian(g.Year(), g.Month(), g.Day())
				require.True(t, ok, "date %s", local)
				require.Equal(t, local, back)

				canonical := ToCanonical(local.String())
				require.Equal(t, local.String(), ToLocalString(canonical))

				expected = expected.AddDate(0, 0, 1)
			}
		}
	}
}

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "0123456789", NormalizeDigits("۰۱۲۳۴۵۶۷۸۹"))
	assert.Equal(t, "0123456789", NormalizeDigits("٠١٢٣٤٥٦٧٨٩"))
	assert.Equal(t, "abc 12", NormalizeDigits("abc ۱۲"))
	assert.Equal(t, "", NormalizeDigits(""))
}

func TestParseCanonical(t *testing.T) {
	loc := time.FixedZone("X", 3600)

	got, ok := ParseCanonical("2023-03-21", loc)
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 3, 21, 0, 0, 0, 0, loc), got)

	got, ok = ParseCanonical("2023-03-21T23:30:00Z", loc)
	require.True(t, ok)
	assert.Equal(t, 22, got.Day())

	_, ok = ParseCanonical("", loc)
	assert.False(t, ok)
	_, ok = ParseCanonical("not-a-date", loc)
	assert.False(t, ok)
}
