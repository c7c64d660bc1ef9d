package booking

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNoActiveBooking                   = errors.New("no active booking")
	ErrBookingNotFoundOrAlreadyCancelled = errors.New("booking not found or already cancelled")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBooking(ctx context.Context, userID, scheduleID int) (*Booking, error) {
	query := `
		INSERT INTO bookings (user_id, schedule_id, status)
		VALUES ($1, $2, 'booked')
		RETURNING id, user_id, schedule_id, status, created_at
	`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, userID, scheduleID)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	query := `
		SELECT id, user_id, schedule_id, status, created_at
		FROM bookings
		WHERE id = $1
	`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) CancelBooking(ctx context.Context, id int) error {
	query := `
		UPDATE bookings
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'booked'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrBookingNotFoundOrAlreadyCancelled
	}

	return nil
}

func (r *repository) CountActiveBookings(ctx context.Context, scheduleID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE schedule_id = $1 AND status = 'booked'
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, scheduleID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *repository) GetActiveBookingForSchedule(ctx context.Context, userID, scheduleID int) (*Booking, error) {
	query := `
		SELECT id, user_id, schedule_id, status, created_at
		FROM bookings
		WHERE user_id = $1 AND schedule_id = $2 AND status = 'booked'
	`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, userID, scheduleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoActiveBooking
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) ListActiveBookingRefs(ctx context.Context, userID int) ([]BookingRef, error) {
	query := `
		SELECT schedule_id, id AS booking_id
		FROM bookings
		WHERE user_id = $1 AND status = 'booked'
		ORDER BY id ASC
	`

	var refs []BookingRef
	err := r.db.SelectContext(ctx, &refs, query, userID)
	if err != nil {
		return nil, err
	}

	return refs, nil
}

func (r *repository) ListBookingsBySchedule(ctx context.Context, scheduleID int) ([]BookingWithDetails, error) {
	query := `
		SELECT
			b.id,
			b.user_id,
			b.schedule_id,
			b.status,
			b.created_at,
			ct.name AS class_name,
			s.scheduled_date,
			s.time_from,
			s.trainer,
			u.name AS user_name,
			u.email AS user_email
		FROM bookings b
		JOIN class_schedules s ON b.schedule_id = s.id
		JOIN class_types ct ON s.class_type_id = ct.id
		JOIN users u ON b.user_id = u.id
		WHERE b.schedule_id = $1
		ORDER BY b.created_at DESC
	`

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, scheduleID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}
