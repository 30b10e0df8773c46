package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFixed() Reservation {
	seat := int64(1)
	return Reservation{
		SeatID:   &seat,
		Category: CategoryFixed,
		Kind:     KindAdhoc,
		Slot:     SlotDay,
		StartsAt: at(2025, 1, 1, 9),
		EndsAt:   at(2025, 1, 1, 17),
	}
}

func TestReservation_Validate(t *testing.T) {
	require.NoError(t, validFixed().Validate())

	t.Run("unknown slot", func(t *testing.T) {
		r := validFixed()
		r.Slot = "afternoon"
		assert.ErrorIs(t, r.Validate(), ErrUnknownSlot)
	})

	t.Run("unknown category", func(t *testing.T) {
		r := validFixed()
		r.Category = "vip"
		assert.ErrorIs(t, r.Validate(), ErrUnknownCategory)
	})

	t.Run("unknown kind", func(t *testing.T) {
		r := validFixed()
		r.Kind = "weekly"
		assert.ErrorIs(t, r.Validate(), ErrUnknownKind)
	})

	t.Run("inverted window", func(t *testing.T) {
		r := validFixed()
		r.StartsAt, r.EndsAt = r.EndsAt, r.StartsAt
		assert.ErrorIs(t, r.Validate(), ErrInvalidInterval)
	})

	t.Run("zero-length window", func(t *testing.T) {
		r := validFixed()
		r.EndsAt = r.StartsAt
		assert.ErrorIs(t, r.Validate(), ErrInvalidInterval)
	})

	t.Run("floating with seat", func(t *testing.T) {
		r := validFixed()
		r.Category = CategoryFloating
		assert.ErrorIs(t, r.Validate(), ErrFloatingWithSeat)
	})

	t.Run("fixed without seat", func(t *testing.T) {
		r := validFixed()
		r.SeatID = nil
		assert.ErrorIs(t, r.Validate(), ErrFixedWithoutSeat)
	})

	t.Run("floating without seat", func(t *testing.T) {
		r := validFixed()
		r.Category = CategoryFloating
		r.SeatID = nil
		assert.NoError(t, r.Validate())
	})
}

func TestValidateMonths(t *testing.T) {
	assert.ErrorIs(t, ValidateMonths(0), ErrInvalidDuration)
	assert.ErrorIs(t, ValidateMonths(13), ErrInvalidDuration)
	assert.ErrorIs(t, ValidateMonths(-1), ErrInvalidDuration)
	assert.NoError(t, ValidateMonths(1))
	assert.NoError(t, ValidateMonths(12))
}
