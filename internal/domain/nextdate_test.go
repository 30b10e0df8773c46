package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func membership(slot Slot, start, endExclusive time.Time) Reservation {
	return Reservation{
		Kind:     KindMembership,
		Slot:     slot,
		StartsAt: start,
		EndsAt:   endExclusive,
		Status:   StatusConfirmed,
	}
}

func TestNextAvailableDate_EmptySeat(t *testing.T) {
	got := NextAvailableDate(date(2025, 1, 1), 3, SlotFull, nil)
	assert.True(t, got.AvailableNow)
	assert.Nil(t, got.NextDate)
	assert.Nil(t, got.ConflictEnd)
}

func TestNextAvailableDate_SingleConflict(t *testing.T) {
	// day membership occupying all of January
	occupied := []Reservation{
		membership(SlotDay, date(2025, 1, 1), date(2025, 2, 1)),
	}

	// a full-slot request conflicts and is deferred past Jan 31
	full := NextAvailableDate(date(2025, 1, 10), 3, SlotFull, occupied)
	require.False(t, full.AvailableNow)
	require.NotNil(t, full.NextDate)
	require.NotNil(t, full.ConflictEnd)
	assert.Equal(t, date(2025, 1, 31), *full.ConflictEnd)
	assert.Equal(t, date(2025, 2, 1), *full.NextDate)

	// a night request shares the seat with the day occupant
	night := NextAvailableDate(date(2025, 1, 10), 3, SlotNight, occupied)
	assert.True(t, night.AvailableNow)
}

func TestNextAvailableDate_LatestEndWins(t *testing.T) {
	occupied := []Reservation{
		membership(SlotFull, date(2025, 1, 1), date(2025, 3, 11)), // ends Mar 10
		membership(SlotFull, date(2025, 3, 11), date(2025, 4, 6)), // ends Apr 5
	}

	got := NextAvailableDate(date(2025, 2, 1), 6, SlotFull, occupied)
	require.False(t, got.AvailableNow)
	assert.Equal(t, date(2025, 4, 5), *got.ConflictEnd)
	assert.Equal(t, date(2025, 4, 6), *got.NextDate)
}

func TestNextAvailableDate_ConflictOutsideWindowIgnored(t *testing.T) {
	// occupant far in the future; a 1-month request today never reaches it
	occupied := []Reservation{
		membership(SlotFull, date(2026, 1, 1), date(2026, 2, 1)),
	}

	got := NextAvailableDate(date(2025, 1, 1), 1, SlotFull, occupied)
	assert.True(t, got.AvailableNow)
}

func TestNextAvailableDate_InactiveIgnored(t *testing.T) {
	m := membership(SlotFull, date(2025, 1, 1), date(2025, 6, 1))
	m.Status = StatusCancelled

	got := NextAvailableDate(date(2025, 2, 1), 3, SlotFull, []Reservation{m})
	assert.True(t, got.AvailableNow)
}

func TestNextAvailableDate_MonotonicInMonths(t *testing.T) {
	// staggered occupancy: short requests fit before the first
	// membership, longer ones reach further conflicts
	occupied := []Reservation{
		membership(SlotFull, date(2025, 4, 1), date(2025, 6, 1)),  // ends May 31
		membership(SlotFull, date(2025, 9, 1), date(2025, 12, 1)), // ends Nov 30
	}

	today := date(2025, 1, 15)

	var prevNext *time.Time
	seenConflict := false
	for m := MinMembershipMonths; m <= MaxMembershipMonths; m++ {
		got := NextAvailableDate(today, m, SlotFull, occupied)

		// a longer request never frees a seat a shorter one couldn't get
		if seenConflict {
			assert.False(t, got.AvailableNow, "months=%d", m)
		}

		if !got.AvailableNow {
			seenConflict = true
			require.NotNil(t, got.NextDate, "months=%d", m)
			if prevNext != nil {
				assert.False(t, got.NextDate.Before(*prevNext),
					"months=%d: next date moved backwards", m)
			}
			prevNext = got.NextDate
		}
	}

	// the set above must exercise both regimes
	assert.True(t, seenConflict)
}

func TestNextAvailableDate_NextDateIsFree(t *testing.T) {
	occupied := []Reservation{
		membership(SlotFull, date(2025, 1, 1), date(2025, 2, 1)),
	}

	got := NextAvailableDate(date(2025, 1, 10), 1, SlotFull, occupied)
	require.False(t, got.AvailableNow)

	// a membership starting on the suggested date has no conflict
	retry := NextAvailableDate(*got.NextDate, 1, SlotFull, occupied)
	assert.True(t, retry.AvailableNow)
}
