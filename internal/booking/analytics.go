package booking

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type BookingStatsByBucket struct {
	Bucket            string `db:"bucket" json:"bucket"`
	BookingsCreated   int    `db:"bookings_created" json:"bookings_created"`
	BookingsCancelled int    `db:"bookings_cancelled" json:"bookings_cancelled"`
}

type BookingStatsByClass struct {
	ClassTypeID       int    `db:"class_type_id" json:"class_type_id"`
	ClassName         string `db:"class_name" json:"class_name"`
	BookingsCreated   int    `db:"bookings_created" json:"bookings_created"`
	BookingsCancelled int    `db:"bookings_cancelled" json:"bookings_cancelled"`
}

type MembershipStatsByMonth struct {
	Month       string `db:"month" json:"month"`
	Tier        string `db:"tier" json:"tier"`
	Memberships int    `db:"memberships" json:"memberships"`
}

type AnalyticsRepository interface {
	BookingStatsByDay(ctx context.Context, from, to time.Time) ([]BookingStatsByBucket, error)
	BookingStatsByClass(ctx context.Context, from, to time.Time) ([]BookingStatsByClass, error)
	MembershipStatsByMonth(ctx context.Context) ([]MembershipStatsByMonth, error)
}

type analyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) BookingStatsByDay(ctx context.Context, from, to time.Time) ([]BookingStatsByBucket, error) {
	query := `
SELECT
  TO_CHAR(DATE(created_at), 'YYYY-MM-DD')      AS bucket,
  COUNT(*) FILTER (WHERE status = 'booked')    AS bookings_created,
  COUNT(*) FILTER (WHERE status = 'cancelled') AS bookings_cancelled
FROM bookings
WHERE created_at BETWEEN $1 AND $2
GROUP BY DATE(created_at)
ORDER BY bucket
`
	var stats []BookingStatsByBucket
	if err := r.db.SelectContext(ctx, &stats, query, from, to); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *analyticsRepository) BookingStatsByClass(ctx context.Context, from, to time.Time) ([]BookingStatsByClass, error) {
	query := `
SELECT
  ct.id   AS class_type_id,
  ct.name AS class_name,
  COUNT(b.*) FILTER (WHERE b.status = 'booked')    AS bookings_created,
  COUNT(b.*) FILTER (WHERE b.status = 'cancelled') AS bookings_cancelled
FROM class_types ct
JOIN class_schedules s ON s.class_type_id = ct.id
JOIN bookings b ON b.schedule_id = s.id
WHERE b.created_at BETWEEN $1 AND $2
GROUP BY ct.id, ct.name
ORDER BY bookings_created DESC, ct.id
`
	var stats []BookingStatsByClass
	if err := r.db.SelectContext(ctx, &stats, query, from, to); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *analyticsRepository) MembershipStatsByMonth(ctx context.Context) ([]MembershipStatsByMonth, error) {
	query := `
SELECT
  TO_CHAR(DATE_TRUNC('month', created_at), 'YYYY-MM') AS month,
  tier,
  COUNT(*) AS memberships
FROM memberships
GROUP BY DATE_TRUNC('month', created_at), tier
ORDER BY month, tier
`
	var stats []MembershipStatsByMonth
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, err
	}
	return stats, nil
}
