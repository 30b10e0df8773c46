package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/seatspot-go/internal/domain"
)

type SeatRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *SeatRepo) With(db DB) *SeatRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *SeatRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// BatchCreateSeats provisions seats by number. Numbers that already
// exist are skipped, so re-running provisioning is harmless.
func (r *SeatRepo) BatchCreateSeats(ctx context.Context, numbers []int) error {
	const op = "postgres.SeatRepo.BatchCreateSeats"

	db := r.handle()

	batch := &pgx.Batch{}
	for _, n := range numbers {
		batch.Queue(
			`INSERT INTO seats(number)
			 VALUES ($1)
			 ON CONFLICT (number) DO NOTHING`,
			n,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// GetSeat retrieves a seat by its ID.
//
// Returns:
//   - *domain.Seat: the seat when found.
//   - error: repository.ErrNotFound if the seat does not exist.
func (r *SeatRepo) GetSeat(ctx context.Context, id int64) (*domain.Seat, error) {
	const op = "postgres.SeatRepo.GetSeat"

	db := r.handle()

	var s domain.Seat
	err := db.QueryRow(ctx,
		`SELECT id, number FROM seats WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Number)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &s, nil
}

// ListSeats returns the whole catalog ordered by seat number.
func (r *SeatRepo) ListSeats(ctx context.Context) ([]domain.Seat, error) {
	const op = "postgres.SeatRepo.ListSeats"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, number FROM seats ORDER BY number`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Seat
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.Number); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
