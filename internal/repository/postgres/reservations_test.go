package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/seatspot-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore connects to the migrated database named by POSTGRES_TEST_DSN,
// skipping when none is configured.
func testStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewStore(pool)
}

func floatingReservation(status domain.ReservationStatus, payment domain.PaymentStatus) domain.Reservation {
	now := time.Now().UTC()
	return domain.Reservation{
		ID:            uuid.New(),
		UserID:        1,
		UserName:      "Asha",
		Category:      domain.CategoryFloating,
		Kind:          domain.KindAdhoc,
		Slot:          domain.SlotDay,
		StartsAt:      now,
		EndsAt:        now.Add(8 * time.Hour),
		Status:        status,
		PaymentStatus: payment,
	}
}

func TestReservationRepo_ExpirePending_Idempotent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	repo := store.Reservations()

	pending := floatingReservation(domain.StatusPending, domain.PaymentPending)
	confirmed := floatingReservation(domain.StatusConfirmed, domain.PaymentPaid)

	require.NoError(t, repo.Create(ctx, pending))
	require.NoError(t, repo.Create(ctx, confirmed))
	t.Cleanup(func() {
		_, _ = store.pool.Exec(context.Background(),
			`DELETE FROM reservations WHERE id = ANY($1)`,
			[]uuid.UUID{pending.ID, confirmed.ID},
		)
	})

	cutoff := time.Now().Add(time.Minute)

	first, err := repo.ExpirePending(ctx, cutoff)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, first, int64(1))

	// running the sweep again with the same cutoff transitions nothing
	second, err := repo.ExpirePending(ctx, cutoff)
	require.NoError(t, err)
	assert.Zero(t, second)

	expired, err := repo.Get(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTimedOut, expired.Status)
	assert.Equal(t, domain.PaymentTimedOut, expired.PaymentStatus)

	kept, err := repo.Get(ctx, confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, kept.Status)
	assert.Equal(t, domain.PaymentPaid, kept.PaymentStatus)
}
