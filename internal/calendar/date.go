package calendar

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the wire and storage format of a Date.
const Layout = "2006-01-02"

// Date is a calendar day with no time-of-day or zone, stored as the number of
// days since 1970-01-01 in the proleptic Gregorian calendar. Dates compare with
// the ordinary integer operators.
type Date int32

// New builds a Date from its civil components.
func New(year int, month time.Month, day int) (Date, error) {
	if month < time.January || month > time.December {
		return 0, fmt.Errorf("month must be between 1 and 12")
	}
	if day < 1 || day > DaysInMonth(year, int(month)) {
		return 0, fmt.Errorf("day must be between 1 and %d", DaysInMonth(year, int(month)))
	}
	return Date(daysFromCivil(year, int(month), day)), nil
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Parse converts a yyyy-mm-dd formatted string into a Date.
func Parse(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return 0, fmt.Errorf("invalid date format %q, expected yyyy-mm-dd", s)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid year: %v", err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid month: %v", err)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("invalid day: %v", err)
	}

	return New(year, time.Month(month), day)
}

// FromTime returns the civil day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date(daysFromCivil(y, int(m), d))
}

// Today returns the current day of now as observed in loc.
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return FromTime(now.In(loc))
}

// DaysInMonth returns the number of days in a given month.
func DaysInMonth(year, month int) int {
	switch month {
	case 2:
		if isLeap(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

func isLeap(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return d + Date(n)
}

// DaysSince returns d - o in whole days.
func (d Date) DaysSince(o Date) int {
	return int(d) - int(o)
}

// Civil returns the year, month and day of d.
func (d Date) Civil() (year int, month time.Month, day int) {
	y, m, dd := civilFromDays(int(d))
	return y, time.Month(m), dd
}

// Time returns midnight UTC at the start of d.
func (d Date) Time() time.Time {
	y, m, dd := d.Civil()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	y, m, dd := d.Civil()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), dd)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the date as a yyyy-mm-dd string, which postgres casts to DATE.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan accepts the representations lib/pq and sqlmock produce for DATE columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = FromTime(v)
		return nil
	case string:
		return d.UnmarshalText([]byte(firstDay(v)))
	case []byte:
		return d.UnmarshalText([]byte(firstDay(string(v))))
	case nil:
		return fmt.Errorf("calendar: cannot scan NULL into Date")
	default:
		return fmt.Errorf("calendar: cannot scan %T into Date", src)
	}
}

// firstDay trims a timestamp rendering down to its yyyy-mm-dd prefix.
func firstDay(s string) string {
	if len(s) > len(Layout) {
		return s[:len(Layout)]
	}
	return s
}

// daysFromCivil maps a proleptic Gregorian date to a day number relative to
// 1970-01-01, using 400-year eras that start on March 1st.
func daysFromCivil(y, m, d int) int {
	if m <= 2 {
		y--
	}
	era := y / 400
	if y < 0 && y%400 != 0 {
		era--
	}
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func civilFromDays(z int) (int, int, int) {
	z += 719468
	era := z / 146097
	if z < 0 && z%146097 != 0 {
		era--
	}
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	m := mp + 3
	if m > 12 {
		m -= 12
	}
	if m <= 2 {
		y++
	}
	return y, m, d
}
