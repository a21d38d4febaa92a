// internal/service/billing/period.go
package billing

import (
	"fmt"
	"strconv"
	"time"

	"prorata-service/internal/domain/billing"
	xerrors "prorata-service/internal/pkg/errors"
)

const dayLayout = "2006-01-02"

// ResolvePeriod parses a "YYYY-MM" designator into the inclusive first and
// last calendar day of that month. Month length is derived from the calendar,
// so leap-year February resolves to 29 days.
func ResolvePeriod(yearMonth string) (billing.Period, error) {
	if len(yearMonth) != 7 || yearMonth[4] != '-' {
		return billing.Period{}, fmt.Errorf("month %q is not in YYYY-MM form: %w", yearMonth, xerrors.ErrInvalidInput)
	}

	year, err := parseDigits(yearMonth[:4])
	if err != nil {
		return billing.Period{}, fmt.Errorf("month %q has a non-numeric year: %w", yearMonth, xerrors.ErrInvalidInput)
	}
	month, err := parseDigits(yearMonth[5:])
	if err != nil {
		return billing.Period{}, fmt.Errorf("month %q has a non-numeric month: %w", yearMonth, xerrors.ErrInvalidInput)
	}
	if month < 1 || month > 12 {
		return billing.Period{}, fmt.Errorf("month number %d out of range 1-12: %w", month, xerrors.ErrInvalidInput)
	}

	firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// Day zero of the following month is the last day of this one.
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)

	return billing.Period{
		Year:     year,
		Month:    time.Month(month),
		FirstDay: firstDay,
		LastDay:  lastDay,
		Days:     lastDay.Day(),
	}, nil
}

// ParseDay parses a "YYYY-MM-DD" date at day granularity (midnight UTC).
func ParseDay(value string) (time.Time, error) {
	t, err := time.Parse(dayLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not in YYYY-MM-DD form: %w", value, xerrors.ErrInvalidInput)
	}
	return t, nil
}

// parseDigits is a strict strconv.Atoi: signs and spaces are rejected so
// strings like "-1" or "+4" never sneak through as month numbers.
func parseDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit character %q", r)
		}
	}
	return strconv.Atoi(s)
}

// dateOnly truncates a timestamp to its calendar day at midnight UTC. All
// calculator comparisons happen on day-truncated values.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
