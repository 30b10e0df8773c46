package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeatStatusRepo maintains the denormalized seats-status read model used
// for fast grid rendering. The table mirrors what ComputeGridStatus
// derives and can always be rebuilt from the reservation store.
type SeatStatusRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *SeatStatusRepo) With(db DB) *SeatStatusRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *SeatStatusRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Resync recomputes every seat's state from the reservation store in a
// single statement. A seat is occupied when an active reservation covers
// the current instant, otherwise available. The upsert is idempotent:
// resyncing twice in a row leaves the table unchanged.
func (r *SeatStatusRepo) Resync(ctx context.Context) (int64, error) {
	const op = "postgres.SeatStatusRepo.Resync"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`INSERT INTO seat_statuses(seat_id, state, updated_at)
		 SELECT s.id,
		        CASE WHEN EXISTS (
		            SELECT 1 FROM reservations res
		            WHERE res.seat_id = s.id
		              AND res.status IN ('pending', 'confirmed')
		              AND res.starts_at <= now() AND now() < res.ends_at
		        ) THEN 'occupied' ELSE 'available' END,
		        now()
		 FROM seats s
		 ON CONFLICT (seat_id) DO UPDATE
		 SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`,
	)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}
