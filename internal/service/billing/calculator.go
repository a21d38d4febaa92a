// internal/service/billing/calculator.go
package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"prorata-service/internal/domain/billing"
	xerrors "prorata-service/internal/pkg/errors"
)

// ComputeMonthlyCharge calculates the prorated monthly bill for one customer
// in whole cents. Each user is billed only for the days their access was
// active inside the billing month; activation and deactivation days both
// count as active. The fractional day-sum is rounded exactly once at the
// end, half away from zero, so up to 31 daily terms never compound a
// rounding bias.
//
// A nil subscription is not an error: the charge is 0 regardless of users.
// The function is pure and safe for concurrent use.
func ComputeMonthlyCharge(month string, sub *billing.Subscription, users []billing.User) (int64, error) {
	period, err := ResolvePeriod(month)
	if err != nil {
		return 0, err
	}

	// No subscription means nothing to bill; users are not even validated.
	if sub == nil {
		return 0, nil
	}
	if sub.MonthlyPriceInCents < 0 {
		return 0, fmt.Errorf("subscription %d: %w", sub.ID, xerrors.ErrInvalidSubscription)
	}
	for i := range users {
		u := &users[i]
		if u.DeactivatedOn != nil && dateOnly(*u.DeactivatedOn).Before(dateOnly(u.ActivatedOn)) {
			return 0, fmt.Errorf("user %d: %w", u.ID, xerrors.ErrInvalidUserRecord)
		}
	}

	rate := DailyRate(sub.MonthlyPriceInCents, period.Days)
	total := decimal.Zero
	for day := period.FirstDay; !day.After(period.LastDay); day = day.AddDate(0, 0, 1) {
		active := ActiveUsersOn(day, users)
		if len(active) == 0 {
			continue
		}
		total = total.Add(rate.Mul(decimal.NewFromInt(int64(len(active)))))
	}

	return total.Round(0).IntPart(), nil
}

// DailyRate is the per-day, per-user rate for a billing month: the monthly
// price divided by the day count, kept fractional until the final rounding.
func DailyRate(monthlyPriceInCents int64, daysInMonth int) decimal.Decimal {
	return decimal.NewFromInt(monthlyPriceInCents).Div(decimal.NewFromInt(int64(daysInMonth)))
}

// ActiveUsersOn returns the users whose access was active on the given
// calendar day. A user is active on day D when activatedOn <= D and either
// deactivatedOn is unset or D <= deactivatedOn.
func ActiveUsersOn(day time.Time, users []billing.User) []billing.User {
	d := dateOnly(day)
	var active []billing.User
	for _, u := range users {
		if userActiveOn(d, u) {
			active = append(active, u)
		}
	}
	return active
}

func userActiveOn(day time.Time, u billing.User) bool {
	if dateOnly(u.ActivatedOn).After(day) {
		return false
	}
	if u.DeactivatedOn == nil {
		return true
	}
	return !day.After(dateOnly(*u.DeactivatedOn))
}
