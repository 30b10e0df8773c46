package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/kirinyoku/seatspot-go/internal/domain"
	postgresrepo "github.com/kirinyoku/seatspot-go/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/seatspot-go/internal/repository/redis"
	"github.com/kirinyoku/seatspot-go/internal/uow"
)

type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	uow   *uow.UoW
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache) *Service {
	return &Service{
		store: store,
		cache: cache,
		uow:   uow.NewUoW(store),
	}
}

// ProvisionSeats creates seats by number within a transactional Unit of
// Work. Numbers that already exist are skipped, so provisioning can be
// re-run with an extended list.
func (s *Service) ProvisionSeats(ctx context.Context, numbers []int) error {
	const op = "service.admin.ProvisionSeats"

	if len(numbers) == 0 {
		return fmt.Errorf("%s: %w", op, ErrNoSeats)
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Seats().With(tx).BatchCreateSeats(ctx, numbers); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			day := domain.DayOf(time.Now()).Format("2006-01-02")
			_ = s.cache.InvalidateGrid(ctx, day)
		})

		return nil
	})

	return err
}

// ResyncSeatStatuses rebuilds the denormalized seats-status read model
// from the reservation store. The resync is idempotent and produces the
// same result as the grid computation at that instant.
//
// Returns:
//   - int64: the number of seat rows written.
func (s *Service) ResyncSeatStatuses(ctx context.Context) (int64, error) {
	const op = "service.admin.ResyncSeatStatuses"

	n, err := s.store.SeatStatuses().Resync(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}
