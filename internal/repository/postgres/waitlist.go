package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/seatspot-go/internal/domain"
	"github.com/kirinyoku/seatspot-go/internal/repository"
)

type WaitlistRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *WaitlistRepo) With(db DB) *WaitlistRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *WaitlistRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Enqueue records an unfulfilled claim. Inserts are unconditional:
// the same user may queue for the same seat more than once.
func (r *WaitlistRepo) Enqueue(ctx context.Context, e domain.WaitlistEntry) error {
	const op = "postgres.WaitlistRepo.Enqueue"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO waitlist(id, seat_id, user_id, slot)
		 VALUES ($1, $2, $3, $4)`,
		e.ID, e.SeatID, e.UserID, string(e.Slot),
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// Dequeue removes one claim. Removal is manual only, invoked by an
// administrator.
//
// Returns:
//   - error: repository.ErrNotFound if the entry does not exist.
func (r *WaitlistRepo) Dequeue(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.WaitlistRepo.Dequeue"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM waitlist WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

// CountBySeat returns the number of claims queued for one seat.
func (r *WaitlistRepo) CountBySeat(ctx context.Context, seatID int64) (int, error) {
	const op = "postgres.WaitlistRepo.CountBySeat"

	db := r.handle()

	var n int
	err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM waitlist WHERE seat_id = $1`,
		seatID,
	).Scan(&n)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}

// ListAll returns every waitlist entry, one round trip for the whole
// grid computation.
func (r *WaitlistRepo) ListAll(ctx context.Context) ([]domain.WaitlistEntry, error) {
	const op = "postgres.WaitlistRepo.ListAll"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, seat_id, user_id, slot, created_at
		 FROM waitlist
		 ORDER BY created_at`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.WaitlistEntry
	for rows.Next() {
		var e domain.WaitlistEntry
		var slot string

		if err := rows.Scan(&e.ID, &e.SeatID, &e.UserID, &slot, &e.CreatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}

		e.Slot = domain.Slot(slot)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
