package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prorata-service/internal/domain/billing"
	xerrors "prorata-service/internal/pkg/errors"
)

func sub(priceCents int64) *billing.Subscription {
	return &billing.Subscription{ID: 763, CustomerID: 328, MonthlyPriceInCents: priceCents}
}

// seat builds a billable user; deactivated == "" means still active.
func seat(id int64, activated, deactivated string) billing.User {
	u := billing.User{ID: id, Name: "Employee", CustomerID: 328, ActivatedOn: day(activated)}
	if deactivated != "" {
		d := day(deactivated)
		u.DeactivatedOn = &d
	}
	return u
}

func TestComputeMonthlyCharge(t *testing.T) {
	tests := []struct {
		name  string
		month string
		sub   *billing.Subscription
		users []billing.User
		want  int64
	}{
		{
			name:  "no subscription",
			month: "2022-04",
			sub:   nil,
			users: nil,
			want:  0,
		},
		{
			name:  "no subscription ignores users",
			month: "2022-04",
			sub:   nil,
			users: []billing.User{seat(1, "2022-04-01", "")},
			want:  0,
		},
		{
			name:  "no users",
			month: "2022-04",
			sub:   sub(3000),
			users: []billing.User{},
			want:  0,
		},
		{
			name:  "full month single user",
			month: "2022-04",
			sub:   sub(3000),
			users: []billing.User{seat(1, "2022-04-01", "2022-04-30")},
			want:  3000,
		},
		{
			name:  "activated mid month still active",
			month: "2022-04",
			sub:   sub(3000),
			users: []billing.User{seat(1, "2022-04-10", "")},
			want:  2100, // 21 days at 100/day
		},
		{
			name:  "full month plus single day user",
			month: "2022-04",
			sub:   sub(300),
			users: []billing.User{
				seat(1, "2022-03-01", ""),
				seat(2, "2022-04-01", "2022-04-01"),
			},
			want: 310, // day 1 bills two seats, days 2-30 bill one
		},
		{
			name:  "non leap february",
			month: "2022-02",
			sub:   sub(2800),
			users: []billing.User{seat(1, "2022-01-01", "")},
			want:  2800,
		},
		{
			name:  "leap february",
			month: "2020-02",
			sub:   sub(2900),
			users: []billing.User{seat(1, "2019-06-01", "")},
			want:  2900, // 29 days at 100/day
		},
		{
			name:  "deactivated mid month",
			month: "2022-04",
			sub:   sub(359),
			users: []billing.User{seat(1, "2021-11-04", "2022-04-10")},
			want:  120, // 10 days at 359/30, rounded once at the end
		},
		{
			name:  "range entirely before month",
			month: "2022-04",
			sub:   sub(3000),
			users: []billing.User{seat(1, "2021-01-01", "2021-12-31")},
			want:  0,
		},
		{
			name:  "range entirely after month",
			month: "2022-04",
			sub:   sub(3000),
			users: []billing.User{seat(1, "2022-06-01", "")},
			want:  0,
		},
		{
			name:  "range spanning whole month",
			month: "2022-04",
			sub:   sub(3000),
			users: []billing.User{seat(1, "2021-11-04", "2022-08-15")},
			want:  3000,
		},
		{
			name:  "zero price subscription",
			month: "2022-04",
			sub:   sub(0),
			users: []billing.User{seat(1, "2022-04-01", "")},
			want:  0,
		},
		{
			name:  "half cent rounds up",
			month: "2022-04",
			sub:   sub(45),
			users: []billing.User{seat(1, "2022-04-01", "2022-04-01")},
			want:  2, // one day at 1.5 cents
		},
		{
			name:  "fractional day sum rounds once",
			month: "2022-04",
			sub:   sub(2500),
			users: []billing.User{seat(1, "2022-04-28", "")},
			want:  250, // 3 days at 83.333...
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeMonthlyCharge(tt.month, tt.sub, tt.users)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, int64(0))
		})
	}
}

func TestComputeMonthlyChargeValidation(t *testing.T) {
	t.Run("malformed month", func(t *testing.T) {
		_, err := ComputeMonthlyCharge("April 2022", sub(3000), nil)
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	})

	t.Run("malformed month rejected even without subscription", func(t *testing.T) {
		_, err := ComputeMonthlyCharge("2022-13", nil, nil)
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	})

	t.Run("deactivated before activated", func(t *testing.T) {
		users := []billing.User{seat(1, "2022-04-20", "2022-04-10")}
		_, err := ComputeMonthlyCharge("2022-04", sub(3000), users)
		assert.ErrorIs(t, err, xerrors.ErrInvalidUserRecord)
	})

	t.Run("negative monthly price", func(t *testing.T) {
		_, err := ComputeMonthlyCharge("2022-04", sub(-100), nil)
		assert.ErrorIs(t, err, xerrors.ErrInvalidSubscription)
	})

	t.Run("nil subscription short circuits before user validation", func(t *testing.T) {
		users := []billing.User{seat(1, "2022-04-20", "2022-04-10")}
		got, err := ComputeMonthlyCharge("2022-04", nil, users)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got)
	})
}

func TestComputeMonthlyChargeProperties(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		users := []billing.User{seat(1, "2022-04-03", "2022-04-17"), seat(2, "2022-03-20", "")}
		first, err := ComputeMonthlyCharge("2022-04", sub(999), users)
		require.NoError(t, err)
		second, err := ComputeMonthlyCharge("2022-04", sub(999), users)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("user order is irrelevant", func(t *testing.T) {
		a := seat(1, "2022-04-03", "2022-04-17")
		b := seat(2, "2022-03-20", "")
		c := seat(3, "2022-04-29", "2022-04-29")

		forward, err := ComputeMonthlyCharge("2022-04", sub(777), []billing.User{a, b, c})
		require.NoError(t, err)
		reversed, err := ComputeMonthlyCharge("2022-04", sub(777), []billing.User{c, b, a})
		require.NoError(t, err)
		assert.Equal(t, forward, reversed)
	})

	t.Run("extra active day never decreases the charge", func(t *testing.T) {
		for d := 1; d < 30; d++ {
			shorter := []billing.User{seat(1, "2022-04-01", day("2022-04-01").AddDate(0, 0, d-1).Format("2006-01-02"))}
			longer := []billing.User{seat(1, "2022-04-01", day("2022-04-01").AddDate(0, 0, d).Format("2006-01-02"))}

			got, err := ComputeMonthlyCharge("2022-04", sub(3141), shorter)
			require.NoError(t, err)
			more, err := ComputeMonthlyCharge("2022-04", sub(3141), longer)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, more, got, "adding day %d lowered the charge", d)
		}
	})

	t.Run("per day sums match whole month price", func(t *testing.T) {
		// A user covering every day must pay exactly the monthly price,
		// whatever the month length is.
		for _, month := range []string{"2022-01", "2022-02", "2020-02", "2022-04", "2022-12"} {
			got, err := ComputeMonthlyCharge(month, sub(3099), []billing.User{seat(1, "2019-01-01", "")})
			require.NoError(t, err)
			assert.Equal(t, int64(3099), got, "month %s", month)
		}
	})
}

func TestActiveUsersOn(t *testing.T) {
	users := []billing.User{
		seat(1, "2022-04-05", "2022-04-10"),
		seat(2, "2022-04-10", ""),
		seat(3, "2022-05-01", ""),
	}

	tests := []struct {
		day     string
		wantIDs []int64
	}{
		{"2022-04-04", nil},
		{"2022-04-05", []int64{1}},  // activation day counts
		{"2022-04-10", []int64{1, 2}}, // deactivation day still counts
		{"2022-04-11", []int64{2}},
		{"2022-04-30", []int64{2}},
	}

	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			active := ActiveUsersOn(day(tt.day), users)
			var ids []int64
			for _, u := range active {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestActiveUsersOnIgnoresTimeOfDay(t *testing.T) {
	activated := time.Date(2022, time.April, 5, 23, 30, 0, 0, time.UTC)
	users := []billing.User{{ID: 1, ActivatedOn: activated}}

	active := ActiveUsersOn(time.Date(2022, time.April, 5, 0, 0, 0, 0, time.UTC), users)
	assert.Len(t, active, 1)
}

func TestDailyRate(t *testing.T) {
	assert.Equal(t, "100", DailyRate(3000, 30).String())
	assert.Equal(t, "11.9666666666666667", DailyRate(359, 30).String())
	assert.True(t, DailyRate(0, 31).IsZero())
}
