package core

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

const yearMonthLayout = "2006-01"

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month int // 1-12
}

// Period is the half-open day range [Start, End) of YYYY-MM-DD strings.
type Period struct {
	Start string
	End   string
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders t's calendar day, ignoring the time of day.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseYearMonth parses a YYYY-MM string.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(yearMonthLayout, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	return YearMonth{Year: t.Year(), Month: int(t.Month())}, nil
}

// YearMonthOf returns the month containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: int(t.Month())}
}

func (ym YearMonth) Validate() error {
	if ym.Month < 1 || ym.Month > 12 {
		return ErrInvalidYearMonth
	}
	return ValidateYear(ym.Year)
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

func (ym YearMonth) first() time.Time {
	return time.Date(ym.Year, time.Month(ym.Month), 1, 0, 0, 0, 0, time.UTC)
}

func (ym YearMonth) Prev() YearMonth {
	return YearMonthOf(ym.first().AddDate(0, -1, 0))
}

func (ym YearMonth) Next() YearMonth {
	return YearMonthOf(ym.first().AddDate(0, 1, 0))
}

// Window is the month as [first-of-month, first-of-next-month).
func (ym YearMonth) Window() Period {
	return Period{
		Start: FormatDate(ym.first()),
		End:   FormatDate(ym.first().AddDate(0, 1, 0)),
	}
}

// LastDay returns the number of days in the month.
func (ym YearMonth) LastDay() int {
	return ym.first().AddDate(0, 1, -1).Day()
}

// ValidateYear accepts four-digit years from the Unix epoch on.
func ValidateYear(year int) error {
	if year < 1970 || year > 9999 {
		return fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	return nil
}

// YearWindow is [Jan 1 of year, Jan 1 of year+1).
func YearWindow(year int) Period {
	return Period{
		Start: fmt.Sprintf("%04d-01-01", year),
		End:   fmt.Sprintf("%04d-01-01", year+1),
	}
}

// NewPeriod validates both bounds and that start precedes end.
func NewPeriod(start, end string) (Period, error) {
	p := Period{Start: start, End: end}
	return p, p.Validate()
}

func (p Period) Validate() error {
	s, err := ParseDate(p.Start)
	if err != nil {
		return err
	}
	e, err := ParseDate(p.End)
	if err != nil {
		return err
	}
	if !s.Before(e) {
		return fmt.Errorf("%w: %s is not before %s", ErrInvalidPeriod, p.Start, p.End)
	}
	return nil
}

// ClampDay builds the date (year, month, day); a day past the end of the
// month resolves to the month's last day instead of rolling over.
func ClampDay(year, month, day int) time.Time {
	ym := YearMonth{Year: year, Month: month}
	if last := ym.LastDay(); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// LookbackPeriod covers the days calendar days ending with now's day.
func LookbackPeriod(now time.Time, days int) Period {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return Period{
		Start: FormatDate(today.AddDate(0, 0, -(days - 1))),
		End:   FormatDate(today.AddDate(0, 0, 1)),
	}
}
