package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/seatspot-go/internal/domain"
	"github.com/kirinyoku/seatspot-go/internal/repository"
)

const reservationColumns = `id, seat_id, user_id, user_name, category, kind, slot,
	starts_at, ends_at, status, payment_status, created_at, updated_at, cancelled_at`

type ReservationRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ReservationRepo) With(db DB) *ReservationRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ReservationRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create inserts a reservation row. The row is expected to be validated
// by the caller; the exclusion constraint on active conflicting rows is
// the final guard and surfaces as repository.ErrConflict.
func (r *ReservationRepo) Create(ctx context.Context, res domain.Reservation) error {
	const op = "postgres.ReservationRepo.Create"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO reservations(
			id, seat_id, user_id, user_name, category, kind, slot,
			starts_at, ends_at, status, payment_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		res.ID, res.SeatID, res.UserID, res.UserName,
		string(res.Category), string(res.Kind), string(res.Slot),
		res.StartsAt, res.EndsAt,
		string(res.Status), string(res.PaymentStatus),
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// FindConflict looks for one active reservation on the seat whose
// window overlaps the candidate and whose slot conflicts with it. The
// slot matrix is expressed directly in SQL so the check and the insert
// can share a single transaction.
//
// Returns:
//   - *domain.Reservation: the conflicting row, or nil when the seat is free.
func (r *ReservationRepo) FindConflict(
	ctx context.Context,
	seatID int64,
	candidate domain.Interval,
	slot domain.Slot,
) (*domain.Reservation, error) {
	const op = "postgres.ReservationRepo.FindConflict"

	db := r.handle()

	row := db.QueryRow(ctx,
		`SELECT `+reservationColumns+`
		 FROM reservations
		 WHERE seat_id = $1
		   AND status IN ('pending', 'confirmed')
		   AND starts_at < $3 AND $2 < ends_at
		   AND (slot = 'full' OR $4 = 'full' OR slot = $4)
		 ORDER BY ends_at DESC
		 LIMIT 1`,
		seatID, candidate.Start, candidate.End, string(slot),
	)

	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapDBErr(op, err)
	}

	return res, nil
}

// ListActiveBySeat returns the pending and confirmed reservations bound
// to one seat.
func (r *ReservationRepo) ListActiveBySeat(ctx context.Context, seatID int64) ([]domain.Reservation, error) {
	const op = "postgres.ReservationRepo.ListActiveBySeat"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+reservationColumns+`
		 FROM reservations
		 WHERE seat_id = $1 AND status IN ('pending', 'confirmed')
		 ORDER BY starts_at`,
		seatID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return collectReservations(op, rows)
}

// ListActiveMembershipsBySeat returns the pending and confirmed
// membership reservations bound to one seat, the input of the
// next-available-date calculator.
func (r *ReservationRepo) ListActiveMembershipsBySeat(ctx context.Context, seatID int64) ([]domain.Reservation, error) {
	const op = "postgres.ReservationRepo.ListActiveMembershipsBySeat"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+reservationColumns+`
		 FROM reservations
		 WHERE seat_id = $1
		   AND kind = 'membership'
		   AND status IN ('pending', 'confirmed')
		 ORDER BY ends_at`,
		seatID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return collectReservations(op, rows)
}

// ListActiveOverlapping returns every active reservation whose window
// overlaps the given one, across all seats. One round trip feeds the
// whole grid computation.
func (r *ReservationRepo) ListActiveOverlapping(ctx context.Context, window domain.Interval) ([]domain.Reservation, error) {
	const op = "postgres.ReservationRepo.ListActiveOverlapping"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+reservationColumns+`
		 FROM reservations
		 WHERE status IN ('pending', 'confirmed')
		   AND starts_at < $2 AND $1 < ends_at`,
		window.Start, window.End,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return collectReservations(op, rows)
}

// Get retrieves a reservation by its ID.
//
// Returns:
//   - *domain.Reservation: the reservation when found.
//   - error: repository.ErrNotFound if no such row exists.
func (r *ReservationRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	const op = "postgres.ReservationRepo.Get"

	db := r.handle()

	row := db.QueryRow(ctx,
		`SELECT `+reservationColumns+`
		 FROM reservations
		 WHERE id = $1`,
		id,
	)

	res, err := scanReservation(row)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return res, nil
}

// ListByUser returns a user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	const op = "postgres.ReservationRepo.ListByUser"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+reservationColumns+`
		 FROM reservations
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return collectReservations(op, rows)
}

// ConfirmPayment transitions pending -> confirmed/paid.
//
// Returns:
//   - error: repository.ErrNotFound if the reservation does not exist.
//   - error: repository.ErrInvalidTransition if it is not pending.
func (r *ReservationRepo) ConfirmPayment(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.ReservationRepo.ConfirmPayment"

	return r.transition(ctx, op, id,
		`UPDATE reservations
		 SET status = 'confirmed', payment_status = 'paid', updated_at = now()
		 WHERE id = $1 AND status = 'pending'`,
	)
}

// Reject transitions pending -> cancelled/failed.
func (r *ReservationRepo) Reject(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.ReservationRepo.Reject"

	return r.transition(ctx, op, id,
		`UPDATE reservations
		 SET status = 'cancelled', payment_status = 'failed',
		     cancelled_at = now(), updated_at = now()
		 WHERE id = $1 AND status = 'pending'`,
	)
}

// Cancel transitions a pending or confirmed reservation to cancelled,
// releasing its seat.
func (r *ReservationRepo) Cancel(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.ReservationRepo.Cancel"

	return r.transition(ctx, op, id,
		`UPDATE reservations
		 SET status = 'cancelled', cancelled_at = now(), updated_at = now()
		 WHERE id = $1 AND status IN ('pending', 'confirmed')`,
	)
}

func (r *ReservationRepo) transition(ctx context.Context, op string, id uuid.UUID, query string) error {
	db := r.handle()

	tag, err := db.Exec(ctx, query, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		// Distinguish a missing row from a row in the wrong state.
		var exists bool
		if err := db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM reservations WHERE id = $1)`,
			id,
		).Scan(&exists); err != nil {
			return wrapDBErr(op, err)
		}
		if !exists {
			return wrapDBErr(op, repository.ErrNotFound)
		}
		return wrapDBErr(op, repository.ErrInvalidTransition)
	}

	return nil
}

// ExpirePending demotes stale soft holds: pending reservations whose
// payment is still pending past the cutoff become timed out. Running
// the sweep twice is a no-op the second time.
func (r *ReservationRepo) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	const op = "postgres.ReservationRepo.ExpirePending"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE reservations
		 SET status = 'timed_out', payment_status = 'timed_out', updated_at = now()
		 WHERE status = 'pending'
		   AND payment_status = 'pending'
		   AND created_at <= $1`,
		cutoff,
	)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var (
		res                   domain.Reservation
		category, kind, slot  string
		status, paymentStatus string
	)

	if err := row.Scan(
		&res.ID,
		&res.SeatID,
		&res.UserID,
		&res.UserName,
		&category,
		&kind,
		&slot,
		&res.StartsAt,
		&res.EndsAt,
		&status,
		&paymentStatus,
		&res.CreatedAt,
		&res.UpdatedAt,
		&res.CancelledAt,
	); err != nil {
		return nil, err
	}

	res.Category = domain.Category(category)
	res.Kind = domain.Kind(kind)
	res.Slot = domain.Slot(slot)
	res.Status = domain.ReservationStatus(status)
	res.PaymentStatus = domain.PaymentStatus(paymentStatus)

	return &res, nil
}

func collectReservations(op string, rows pgx.Rows) ([]domain.Reservation, error) {
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
