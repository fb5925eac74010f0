package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is a six-month evaluation half.
type Period string

const (
	FirstHalf  Period = "first-half"
	SecondHalf Period = "second-half"
)

// FirstMonth is the calendar month the period starts in.
func (p Period) FirstMonth() int {
	if p == SecondHalf {
		return PeriodMonths + 1
	}
	return 1
}

// Month is a calendar month.
type Month struct {
	Year  int
	Month int
}

// NewMonth builds a Month.
func NewMonth(year, month int) Month {
	return Month{Year: year, Month: month}
}

// excelEpoch is day zero of spreadsheet serial dates.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var monthLayouts = []string{
	"2006-01",
	"2006-01-02",
	"2006/01",
	"2006/01/02",
	"2006.01",
	"2006.01.02",
	"200601",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// ParseMonth parses the month formats found in uploads, including spreadsheet serial dates.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Month{}, fmt.Errorf("empty month")
	}
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Month{Year: t.Year(), Month: int(t.Month())}, nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 59 && serial < 2958466 {
		t := excelEpoch.AddDate(0, 0, int(serial))
		return Month{Year: t.Year(), Month: int(t.Month())}, nil
	}
	return Month{}, fmt.Errorf("unrecognized month %q", s)
}

// Valid reports whether the month number is 1..12.
func (m Month) Valid() bool {
	return m.Month >= 1 && m.Month <= 12
}

// Period returns first-half for months 1..6 and second-half for 7..12.
func (m Month) Period() Period {
	if m.Month <= PeriodMonths {
		return FirstHalf
	}
	return SecondHalf
}

// PeriodMonth returns the 1-based month index within the half-year.
func (m Month) PeriodMonth() int {
	if m.Month > PeriodMonths {
		return m.Month - PeriodMonths
	}
	return m.Month
}

// Index orders months across years.
func (m Month) Index() int {
	return m.Year*12 + m.Month - 1
}

// Before reports whether m is earlier than o.
func (m Month) Before(o Month) bool {
	return m.Index() < o.Index()
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// MarshalText renders the month as YYYY-MM.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses any format accepted by ParseMonth.
func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// PeriodKey identifies one half-year of one year.
type PeriodKey struct {
	Year   int
	Period Period
}

// PeriodKey returns the year and half the month falls in.
func (m Month) PeriodKey() PeriodKey {
	return PeriodKey{Year: m.Year, Period: m.Period()}
}

func (k PeriodKey) String() string {
	return fmt.Sprintf("%d %s", k.Year, k.Period)
}
