package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/seatspot-go/internal/domain"
	"github.com/kirinyoku/seatspot-go/internal/repository"
	postgresrepo "github.com/kirinyoku/seatspot-go/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/seatspot-go/internal/repository/redis"
	"github.com/kirinyoku/seatspot-go/internal/uow"
)

type Config struct {
	// PendingTimeout is the grace period a pending reservation keeps
	// its soft hold without a payment before the sweep times it out.
	PendingTimeout time.Duration
}

type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	pubsub  *redisrepo.SeatsPubSub
	limiter *redisrepo.SlidingWindowLimiter
	uow     *uow.UoW
	cfg     Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.SeatsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	if cfg.PendingTimeout <= 0 {
		cfg.PendingTimeout = 30 * time.Minute
	}

	return &Service{
		store:   store,
		cache:   cache,
		pubsub:  pubsub,
		limiter: limiter,
		uow:     uow.NewUoW(store),
		cfg:     cfg,
	}
}

// Create validates and inserts a reservation. The availability check
// and the insert share one Serializable transaction, so two concurrent
// requests for the same seat and window cannot both succeed: the loser
// either sees the winner's row in the re-check or trips the exclusion
// constraint and gets a conflict.
//
// Parameters:
//   - ctx: request-scoped context.
//   - res: the candidate reservation; ID, status and payment status are
//     assigned here.
//   - rlKey: rate-limit key, empty to skip limiting.
//
// Returns:
//   - uuid.UUID: the created reservation ID.
//   - *domain.Reservation: the conflicting reservation when the verdict
//     is ErrSeatUnavailable, nil otherwise.
//   - error: a domain validation error, reservation.ErrSeatNotFound,
//     reservation.ErrSeatUnavailable or reservation.ErrReservationConflict.
func (s *Service) Create(
	ctx context.Context,
	res domain.Reservation,
	rlKey string,
) (uuid.UUID, *domain.Reservation, error) {
	const op = "service.reservation.Create"

	res.ID = uuid.New()
	res.Status = domain.StatusPending
	res.PaymentStatus = domain.PaymentPending

	if err := res.Validate(); err != nil {
		return uuid.Nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return uuid.Nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return uuid.Nil, nil, fmt.Errorf("%s: rate limited, retry in %s", op, retry)
		}
	}

	var conflicting *domain.Reservation

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		if res.SeatID != nil {
			if _, err := s.store.Seats().With(tx).GetSeat(ctx, *res.SeatID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("%s: %w", op, ErrSeatNotFound)
				}
				return fmt.Errorf("%s: %w", op, err)
			}

			found, err := s.store.Reservations().
				With(tx).
				FindConflict(ctx, *res.SeatID, res.Interval(), res.Slot)
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			if found != nil {
				conflicting = found
				return fmt.Errorf("%s: %w", op, ErrSeatUnavailable)
			}
		}

		if err := s.store.Reservations().With(tx).Create(ctx, res); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s: %w", op, ErrReservationConflict)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		seatID := res.SeatID
		after(func(ctx context.Context) {
			_ = s.cache.InvalidateGrid(ctx, todayKey())
			if seatID != nil {
				_ = s.pubsub.PublishSeatChanged(ctx, *seatID)
			}
		})

		return nil
	})
	if err != nil {
		return uuid.Nil, conflicting, err
	}

	return res.ID, nil, nil
}

// ConfirmPayment marks a pending reservation paid: the administrator
// approved the payment and the hold becomes a confirmed booking.
//
// Returns:
//   - error: reservation.ErrReservationNotFound if no such reservation.
//   - error: reservation.ErrInvalidTransition if it is not pending.
func (s *Service) ConfirmPayment(ctx context.Context, id uuid.UUID) error {
	const op = "service.reservation.ConfirmPayment"

	return s.transition(ctx, op, id, func(repo *postgresrepo.ReservationRepo) error {
		return repo.ConfirmPayment(ctx, id)
	})
}

// Reject cancels a pending reservation and marks its payment failed.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) error {
	const op = "service.reservation.Reject"

	return s.transition(ctx, op, id, func(repo *postgresrepo.ReservationRepo) error {
		return repo.Reject(ctx, id)
	})
}

// Cancel releases a pending or confirmed reservation.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	const op = "service.reservation.Cancel"

	return s.transition(ctx, op, id, func(repo *postgresrepo.ReservationRepo) error {
		return repo.Cancel(ctx, id)
	})
}

func (s *Service) transition(
	ctx context.Context,
	op string,
	id uuid.UUID,
	apply func(repo *postgresrepo.ReservationRepo) error,
) error {
	return s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		res, err := s.store.Reservations().With(tx).Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrReservationNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := apply(s.store.Reservations().With(tx)); err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return fmt.Errorf("%s: %w", op, ErrReservationNotFound)
			case errors.Is(err, repository.ErrInvalidTransition):
				return fmt.Errorf("%s: %w", op, ErrInvalidTransition)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		seatID := res.SeatID
		after(func(ctx context.Context) {
			_ = s.cache.InvalidateGrid(ctx, todayKey())
			if seatID != nil {
				_ = s.pubsub.PublishSeatChanged(ctx, *seatID)
			}
		})

		return nil
	})
}

// Expire demotes stale soft holds: pending reservations with no payment
// past the configured grace period become timed out. The sweep is
// idempotent; a second run right after the first transitions nothing.
//
// Returns:
//   - int64: the number of reservations timed out by this run.
func (s *Service) Expire(ctx context.Context) (int64, error) {
	const op = "service.reservation.Expire"

	cutoff := time.Now().Add(-s.cfg.PendingTimeout)

	released, err := s.store.Reservations().ExpirePending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if released > 0 {
		_ = s.cache.InvalidateGrid(ctx, todayKey())
	}

	return released, nil
}

func todayKey() string {
	return domain.DayOf(time.Now()).Format("2006-01-02")
}
