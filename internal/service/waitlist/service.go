package waitlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kirinyoku/seatspot-go/internal/domain"
	"github.com/kirinyoku/seatspot-go/internal/repository"
	postgresrepo "github.com/kirinyoku/seatspot-go/internal/repository/postgres"
)

// Service records unfulfilled claims on occupied seats. There is no
// deduplication and no automatic promotion when a seat frees: entries
// leave the queue only through an administrator's Dequeue.
type Service struct {
	store *postgresrepo.Store
}

func New(store *postgresrepo.Store) *Service {
	return &Service{store: store}
}

// Enqueue queues a claim for a seat and slot.
//
// Returns:
//   - uuid.UUID: the created entry ID.
//   - error: waitlist.ErrSeatNotFound if the seat does not exist, or a
//     domain validation error for an unknown slot.
func (s *Service) Enqueue(ctx context.Context, seatID, userID int64, slot domain.Slot) (uuid.UUID, error) {
	const op = "service.waitlist.Enqueue"

	if !slot.Valid() {
		return uuid.Nil, fmt.Errorf("%s: %w", op, domain.ErrUnknownSlot)
	}

	if _, err := s.store.Seats().GetSeat(ctx, seatID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrSeatNotFound)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	entry := domain.WaitlistEntry{
		ID:     uuid.New(),
		SeatID: seatID,
		UserID: userID,
		Slot:   slot,
	}

	if err := s.store.Waitlist().Enqueue(ctx, entry); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return entry.ID, nil
}

// Dequeue removes one claim, an administrator-only operation.
//
// Returns:
//   - error: waitlist.ErrEntryNotFound if the entry does not exist.
func (s *Service) Dequeue(ctx context.Context, id uuid.UUID) error {
	const op = "service.waitlist.Dequeue"

	if err := s.store.Waitlist().Dequeue(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrEntryNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CountForSeat returns how many claims are queued for a seat.
func (s *Service) CountForSeat(ctx context.Context, seatID int64) (int, error) {
	const op = "service.waitlist.CountForSeat"

	if _, err := s.store.Seats().GetSeat(ctx, seatID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%s: %w", op, ErrSeatNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := s.store.Waitlist().CountBySeat(ctx, seatID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}
