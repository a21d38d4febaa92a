package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "prorata-service/internal/pkg/errors"
)

func TestResolvePeriod(t *testing.T) {
	tests := []struct {
		name      string
		yearMonth string
		wantFirst string
		wantLast  string
		wantDays  int
	}{
		{"thirty day month", "2022-04", "2022-04-01", "2022-04-30", 30},
		{"thirty one day month", "2022-01", "2022-01-01", "2022-01-31", 31},
		{"february non leap", "2022-02", "2022-02-01", "2022-02-28", 28},
		{"february leap year", "2020-02", "2020-02-01", "2020-02-29", 29},
		{"february century leap", "2000-02", "2000-02-01", "2000-02-29", 29},
		{"february century non leap", "1900-02", "1900-02-01", "1900-02-28", 28},
		{"december", "2021-12", "2021-12-01", "2021-12-31", 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ResolvePeriod(tt.yearMonth)
			require.NoError(t, err)

			assert.Equal(t, tt.wantFirst, p.FirstDay.Format("2006-01-02"))
			assert.Equal(t, tt.wantLast, p.LastDay.Format("2006-01-02"))
			assert.Equal(t, tt.wantDays, p.Days)
			assert.Equal(t, time.UTC, p.FirstDay.Location())
		})
	}
}

func TestResolvePeriodInvalid(t *testing.T) {
	tests := []struct {
		name      string
		yearMonth string
	}{
		{"empty", ""},
		{"missing month", "2022"},
		{"missing dash", "2022.04"},
		{"extra day part", "2022-04-01"},
		{"short month", "2022-4"},
		{"month zero", "2022-00"},
		{"month thirteen", "2022-13"},
		{"non numeric year", "20xx-04"},
		{"non numeric month", "2022-ab"},
		{"signed month", "2022--4"},
		{"whitespace", " 2022-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolvePeriod(tt.yearMonth)
			require.Error(t, err)
			assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
		})
	}
}

func TestPeriodContains(t *testing.T) {
	p, err := ResolvePeriod("2022-04")
	require.NoError(t, err)

	assert.True(t, p.Contains(day("2022-04-01")))
	assert.True(t, p.Contains(day("2022-04-30")))
	assert.True(t, p.Contains(day("2022-04-15")))
	assert.False(t, p.Contains(day("2022-03-31")))
	assert.False(t, p.Contains(day("2022-05-01")))
}

func TestParseDay(t *testing.T) {
	got, err := ParseDay("2022-04-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, time.April, 10, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDay("10/04/2022")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

// day is a test helper building a UTC date from YYYY-MM-DD.
func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}
