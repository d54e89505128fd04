package jalali

import (
	"fmt"
	"time"
)

// MinYear and MaxYear bound the Jalali years the break table covers.
const (
	MinYear = 1
	MaxYear = 3177
)

// breaks holds the Jalali years at which the 33-year leap pattern shifts.
var breaks = [...]int{
	-61, 9, 38, 199, 426, 686, 756, 818, 1111, 1181, 1210,
	1635, 2060, 2097, 2192, 2262, 2324, 2394, 2456, 3178,
}

// Date is a day in the Jalali calendar.
type Date struct {
	Year  int
	Month int
	Day   int
}

// String formats the date as "YYYY/MM/DD" with ASCII digits.
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// Valid reports whether d names a real day of the Jalali calendar.
func (d Date) Valid() bool {
	if d.Year < MinYear || d.Year > MaxYear {
		return false
	}
	if d.Month < 1 || d.Month > 12 {
		return false
	}
	return d.Day >= 1 && d.Day <= MonthLength(d.Year, d.Month)
}

// Gregorian returns midnight UTC of the Gregorian day equal to d.
// The second return value is false if d is not a valid date.
func (d Date) Gregorian() (time.Time, bool) {
	if !d.Valid() {
		return time.Time{}, false
	}
	info, ok := yearInfo(d.Year)
	if !ok {
		return time.Time{}, false
	}
	farvardin1 := time.Date(info.gy, time.March, info.march, 0, 0, 0, 0, time.UTC)
	return farvardin1.AddDate(0, 0, dayOfYear(d.Month, d.Day)), true
}

// FromGregorian returns the Jalali date of the Gregorian calendar day
// year/month/day. The second return value is false when the day falls
// outside the supported range.
func FromGregorian(year int, month time.Month, day int) (Date, bool) {
	jy := year - 621
	info, ok := yearInfo(jy)
	if !ok {
		return Date{}, false
	}

	target := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	farvardin1 := time.Date(info.gy, time.March, info.march, 0, 0, 0, 0, time.UTC)
	k := int(target.Sub(farvardin1).Hours() / 24)

	if k >= 0 {
		if k <= 185 {
			return Date{Year: jy, Month: 1 + k/31, Day: k%31 + 1}, true
		}
		k -= 186
	} else {
		// Tail of the previous Jalali year, counted from 1 Mehr.
		jy--
		if jy < MinYear {
			return Date{}, false
		}
		k += 179
		if info.leap == 1 {
			k++
		}
	}
	return Date{Year: jy, Month: 7 + k/30, Day: k%30 + 1}, true
}

// IsLeap reports whether the Jalali year has 366 days.
func IsLeap(year int) bool {
	info, ok := yearInfo(year)
	return ok && info.leap == 0
}

// MonthLength returns the number of days in the given Jalali month, or 0
// for an unsupported year or month.
func MonthLength(year, month int) int {
	if year < MinYear || year > MaxYear {
		return 0
	}
	switch {
	case month >= 1 && month <= 6:
		return 31
	case month >= 7 && month <= 11:
		return 30
	case month == 12:
		if IsLeap(year) {
			return 30
		}
		return 29
	default:
		return 0
	}
}

// dayOfYear returns the zero-based offset of month/day from 1 Farvardin.
func dayOfYear(month, day int) int {
	if month <= 6 {
		return (month-1)*31 + day - 1
	}
	return 186 + (month-7)*30 + day - 1
}

type calendarYear struct {
	// leap counts years since the last leap year; 0 means this year is leap.
	leap int
	// gy is the Gregorian year in which this Jalali year begins.
	gy int
	// march is the day of March on which 1 Farvardin falls.
	march int
}

// yearInfo computes leap status and the Gregorian start of Jalali year jy.
// Integer division truncates toward zero, matching the published algorithm.
func yearInfo(jy int) (calendarYear, bool) {
	if jy < MinYear || jy > MaxYear {
		return calendarYear{}, false
	}

	gy := jy + 621
	leapJ := -14
	jp := breaks[0]
	jump := 0
	for i := 1; i < len(breaks); i++ {
		jm := breaks[i]
		jump = jm - jp
		if jy < jm {
			break
		}
		leapJ += jump/33*8 + (jump%33)/4
		jp = jm
	}
	n := jy - jp

	// Leap days in the Jalali calendar since AD 621.
	leapJ += n/33*8 + (n%33+3)/4
	if jump%33 == 4 && jump-n == 4 {
		leapJ++
	}
	// And in the Gregorian calendar up to gy.
	leapG := gy/4 - (gy/100+1)*3/4 - 150
	march := 20 + leapJ - leapG

	if jump-n < 6 {
		n = n - jump + (jump+4)/33*33
	}
	leap := ((n+1)%33 - 1) % 4
	if leap == -1 {
		leap = 4
	}

	return calendarYear{leap: leap, gy: gy, march: march}, true
}
