package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Period is the dashboard window in days.
type Period int

const (
	PeriodWeek    Period = 7
	PeriodMonth   Period = 30
	PeriodQuarter Period = 90

	DefaultPeriod = PeriodMonth

	// BaselineDays is the window the demo baseline numbers describe.
	BaselineDays = 30
)

var ErrInvalidPeriod = errors.New("period must be one of 7, 30 or 90")

// ParsePeriod accepts "7", "30" or "90". An empty string yields DefaultPeriod.
func ParsePeriod(raw string) (Period, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultPeriod, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultPeriod, errors.Wrapf(ErrInvalidPeriod, "got %q", raw)
	}

	p := Period(days)
	if !p.Valid() {
		return DefaultPeriod, errors.Wrapf(ErrInvalidPeriod, "got %d", days)
	}
	return p, nil
}

func (p Period) Valid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodQuarter:
		return true
	}
	return false
}

func (p Period) String() string {
	return strconv.Itoa(int(p)) + "d"
}

func (p Period) Days() int {
	return int(p)
}

// Multiplier scales baseline 30-day figures to this period.
func (p Period) Multiplier() float64 {
	return float64(p) / BaselineDays
}

// Range returns [now - period days, now].
func (p Period) Range(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, 0, -p.Days()), now
}
