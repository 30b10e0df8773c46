package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{
			name: "disjoint",
			a:    Interval{at(2025, 1, 1, 9), at(2025, 1, 1, 12)},
			b:    Interval{at(2025, 1, 1, 13), at(2025, 1, 1, 17)},
			want: false,
		},
		{
			name: "touching endpoints do not overlap",
			a:    Interval{at(2025, 1, 1, 9), at(2025, 1, 1, 12)},
			b:    Interval{at(2025, 1, 1, 12), at(2025, 1, 1, 17)},
			want: false,
		},
		{
			name: "partial overlap",
			a:    Interval{at(2025, 1, 1, 9), at(2025, 1, 1, 13)},
			b:    Interval{at(2025, 1, 1, 12), at(2025, 1, 1, 17)},
			want: true,
		},
		{
			name: "containment",
			a:    Interval{at(2025, 1, 1, 9), at(2025, 1, 1, 17)},
			b:    Interval{at(2025, 1, 1, 10), at(2025, 1, 1, 11)},
			want: true,
		},
		{
			name: "identical",
			a:    Interval{at(2025, 1, 1, 9), at(2025, 1, 1, 17)},
			b:    Interval{at(2025, 1, 1, 9), at(2025, 1, 1, 17)},
			want: true,
		},
		{
			name: "zero-length overlaps nothing",
			a:    Interval{at(2025, 1, 1, 12), at(2025, 1, 1, 12)},
			b:    Interval{at(2025, 1, 1, 9), at(2025, 1, 1, 17)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// overlap is symmetric
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestDateRange_Overlaps(t *testing.T) {
	jan := DateRange{date(2025, 1, 1), date(2025, 1, 31)}

	// inclusive endpoints: a range ending Jan 31 collides with one
	// starting Jan 31
	feb := DateRange{date(2025, 1, 31), date(2025, 2, 28)}
	assert.True(t, jan.Overlaps(feb))

	// adjacent ranges do not
	febStrict := DateRange{date(2025, 2, 1), date(2025, 2, 28)}
	assert.False(t, jan.Overlaps(febStrict))

	// single-day range is valid and occupies its day
	oneDay := DateRange{date(2025, 1, 15), date(2025, 1, 15)}
	assert.True(t, oneDay.IsValid())
	assert.True(t, jan.Overlaps(oneDay))
}

func TestDayOf(t *testing.T) {
	assert.Equal(t, date(2025, 3, 10), DayOf(at(2025, 3, 10, 23)))
	assert.Equal(t, date(2025, 3, 10), DayOf(date(2025, 3, 10)))

	// non-UTC instants resolve to their UTC calendar date
	loc := time.FixedZone("UTC+3", 3*60*60)
	assert.Equal(t, date(2025, 3, 9), DayOf(time.Date(2025, 3, 10, 1, 0, 0, 0, loc)))
}

func TestReservation_Dates(t *testing.T) {
	// membership: EndsAt is midnight after the last occupied day
	m := Reservation{
		StartsAt: date(2025, 1, 1),
		EndsAt:   date(2025, 2, 1),
	}
	assert.Equal(t, date(2025, 1, 1), m.Dates().Start)
	assert.Equal(t, date(2025, 1, 31), m.Dates().End)
	assert.Equal(t, date(2025, 1, 31), m.LastOccupiedDate())

	// adhoc booking ending mid-day still occupies that day
	a := Reservation{
		StartsAt: at(2025, 1, 5, 9),
		EndsAt:   at(2025, 1, 5, 12),
	}
	assert.Equal(t, date(2025, 1, 5), a.Dates().Start)
	assert.Equal(t, date(2025, 1, 5), a.Dates().End)
}
