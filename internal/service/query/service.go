package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/seatspot-go/internal/domain"
	"github.com/kirinyoku/seatspot-go/internal/repository"
	postgresrepo "github.com/kirinyoku/seatspot-go/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/seatspot-go/internal/repository/redis"
)

type Config struct {
	GridTTL          time.Duration
	NextAvailableTTL time.Duration
}

type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.GridTTL <= 0 {
		cfg.GridTTL = 15 * time.Second
	}

	if cfg.NextAvailableTTL <= 0 {
		cfg.NextAvailableTTL = 15 * time.Second
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// Grid paints the whole-catalog seat grid as of the given instant.
// Seats, active reservations and waitlist entries are fetched in three
// round trips and resolved in memory; the result is cached briefly and
// invalidated whenever a reservation changes.
//
// Returns:
//   - []domain.SeatGridStatus: one entry per seat, ordered by seat number.
func (s *Service) Grid(ctx context.Context, asOf time.Time) ([]domain.SeatGridStatus, error) {
	const op = "service.query.Grid"

	day := domain.DayOf(asOf)
	key := redisrepo.KeySeatGrid(day.Format("2006-01-02"))

	grid, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.GridTTL,
		func(ctx context.Context) ([]domain.SeatGridStatus, error) {
			return s.loadGrid(ctx, asOf)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return grid, nil
}

func (s *Service) loadGrid(ctx context.Context, asOf time.Time) ([]domain.SeatGridStatus, error) {
	seats, err := s.store.Seats().ListSeats(ctx)
	if err != nil {
		return nil, err
	}

	day := domain.DayOf(asOf)
	window := domain.Interval{Start: day, End: day.AddDate(0, 0, 1)}

	reservations, err := s.store.Reservations().ListActiveOverlapping(ctx, window)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.Waitlist().ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byID := domain.ComputeGridStatus(seats, reservations, entries, asOf)

	out := make([]domain.SeatGridStatus, 0, len(byID))
	for _, st := range byID {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatNumber < out[j].SeatNumber })

	return out, nil
}

// CheckSeat runs the conflict resolver for one seat: can the candidate
// window and slot be granted given the seat's active reservations. The
// verdict is a pre-check for the booking flow; the authoritative check
// happens again inside the create transaction.
//
// Returns:
//   - domain.Availability: the verdict, with the conflicting reservation
//     when unavailable.
//   - error: a domain validation error, or query.ErrSeatNotFound.
func (s *Service) CheckSeat(
	ctx context.Context,
	seatID int64,
	candidate domain.Interval,
	slot domain.Slot,
) (domain.Availability, error) {
	const op = "service.query.CheckSeat"

	if !slot.Valid() {
		return domain.Availability{}, fmt.Errorf("%s: %w", op, domain.ErrUnknownSlot)
	}
	if err := domain.ValidateInterval(candidate); err != nil {
		return domain.Availability{}, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.store.Seats().GetSeat(ctx, seatID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Availability{}, fmt.Errorf("%s: %w", op, ErrSeatNotFound)
		}
		return domain.Availability{}, fmt.Errorf("%s: %w", op, err)
	}

	active, err := s.store.Reservations().ListActiveBySeat(ctx, seatID)
	if err != nil {
		return domain.Availability{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.CheckAvailability(candidate, slot, active), nil
}

// NextAvailable computes when a seat first becomes free for a
// membership of the requested length and slot.
//
// Returns:
//   - domain.NextAvailability: immediate availability, or the first free
//     date after the latest conflicting membership.
//   - error: a domain validation error, or query.ErrSeatNotFound.
func (s *Service) NextAvailable(
	ctx context.Context,
	seatID int64,
	months int,
	slot domain.Slot,
) (domain.NextAvailability, error) {
	const op = "service.query.NextAvailable"

	if !slot.Valid() {
		return domain.NextAvailability{}, fmt.Errorf("%s: %w", op, domain.ErrUnknownSlot)
	}
	if err := domain.ValidateMonths(months); err != nil {
		return domain.NextAvailability{}, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.store.Seats().GetSeat(ctx, seatID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NextAvailability{}, fmt.Errorf("%s: %w", op, ErrSeatNotFound)
		}
		return domain.NextAvailability{}, fmt.Errorf("%s: %w", op, err)
	}

	key := redisrepo.KeyNextAvailable(seatID, months, string(slot))

	next, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.NextAvailableTTL,
		func(ctx context.Context) (domain.NextAvailability, error) {
			memberships, err := s.store.Reservations().ListActiveMembershipsBySeat(ctx, seatID)
			if err != nil {
				return domain.NextAvailability{}, err
			}

			return domain.NextAvailableDate(time.Now(), months, slot, memberships), nil
		},
	)
	if err != nil {
		return domain.NextAvailability{}, fmt.Errorf("%s: %w", op, err)
	}

	return next, nil
}

// GetReservation retrieves a reservation by its ID.
func (s *Service) GetReservation(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	const op = "service.query.GetReservation"

	res, err := s.store.Reservations().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrReservationNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

// ListUserReservations returns a user's reservation history, newest first.
func (s *Service) ListUserReservations(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	const op = "service.query.ListUserReservations"

	out, err := s.store.Reservations().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
