package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotsConflict(t *testing.T) {
	tests := []struct {
		a, b Slot
		want bool
	}{
		{SlotDay, SlotDay, true},
		{SlotNight, SlotNight, true},
		{SlotFull, SlotFull, true},
		{SlotDay, SlotNight, false},
		{SlotNight, SlotDay, false},
		{SlotFull, SlotDay, true},
		{SlotFull, SlotNight, true},
		{SlotDay, SlotFull, true},
		{SlotNight, SlotFull, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.a)+"_vs_"+string(tt.b), func(t *testing.T) {
			assert.Equal(t, tt.want, SlotsConflict(tt.a, tt.b))
		})
	}
}

func activeReservation(slot Slot, iv Interval) Reservation {
	return Reservation{
		Slot:     slot,
		StartsAt: iv.Start,
		EndsAt:   iv.End,
		Status:   StatusConfirmed,
	}
}

func TestCheckAvailability_EmptySeat(t *testing.T) {
	got := CheckAvailability(
		Interval{at(2025, 1, 1, 9), at(2025, 1, 1, 17)},
		SlotFull,
		nil,
	)
	assert.True(t, got.Available)
	assert.Nil(t, got.Conflicting)
}

func TestCheckAvailability_DayAndNightCoexist(t *testing.T) {
	window := Interval{date(2025, 1, 1), date(2025, 2, 1)}

	occupied := []Reservation{activeReservation(SlotDay, window)}

	night := CheckAvailability(window, SlotNight, occupied)
	assert.True(t, night.Available)

	day := CheckAvailability(window, SlotDay, occupied)
	assert.False(t, day.Available)

	full := CheckAvailability(window, SlotFull, occupied)
	require.False(t, full.Available)
	require.NotNil(t, full.Conflicting)
	assert.Equal(t, SlotDay, full.Conflicting.Slot)
}

func TestCheckAvailability_FullBlocksEverything(t *testing.T) {
	window := Interval{date(2025, 1, 1), date(2025, 2, 1)}
	occupied := []Reservation{activeReservation(SlotFull, window)}

	for _, slot := range []Slot{SlotDay, SlotNight, SlotFull} {
		got := CheckAvailability(window, slot, occupied)
		assert.False(t, got.Available, "slot %s should conflict with full", slot)
	}
}

func TestCheckAvailability_IgnoresInactiveRows(t *testing.T) {
	window := Interval{date(2025, 1, 1), date(2025, 2, 1)}

	cancelled := activeReservation(SlotFull, window)
	cancelled.Status = StatusCancelled
	timedOut := activeReservation(SlotFull, window)
	timedOut.Status = StatusTimedOut

	got := CheckAvailability(window, SlotFull, []Reservation{cancelled, timedOut})
	assert.True(t, got.Available)
}

func TestCheckAvailability_PendingHoldsBlock(t *testing.T) {
	window := Interval{date(2025, 1, 1), date(2025, 2, 1)}

	pending := activeReservation(SlotFull, window)
	pending.Status = StatusPending

	got := CheckAvailability(window, SlotFull, []Reservation{pending})
	assert.False(t, got.Available)
}

func TestCheckAvailability_NonOverlappingWindow(t *testing.T) {
	occupied := []Reservation{
		activeReservation(SlotFull, Interval{date(2025, 1, 1), date(2025, 2, 1)}),
	}

	// starts exactly when the occupant's window ends
	got := CheckAvailability(
		Interval{date(2025, 2, 1), date(2025, 3, 1)},
		SlotFull,
		occupied,
	)
	assert.True(t, got.Available)
}

func TestCheckAvailability_ReportsConflictingRow(t *testing.T) {
	window := Interval{date(2025, 1, 1), date(2025, 2, 1)}

	occ := activeReservation(SlotDay, window)
	occ.UserName = "Asha"

	got := CheckAvailability(window, SlotDay, []Reservation{occ})
	require.False(t, got.Available)
	require.NotNil(t, got.Conflicting)
	assert.Equal(t, "Asha", got.Conflicting.UserName)
}
