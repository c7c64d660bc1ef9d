package classes

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const scheduleColumns = `
		s.id,
		s.class_type_id,
		ct.name AS class_name,
		ct.description,
		ct.difficulty,
		ct.premium_only,
		ct.category,
		s.scheduled_date,
		s.time_from,
		s.time_to,
		s.duration_minutes,
		s.trainer,
		s.total_spots,
		(SELECT COUNT(*) FROM bookings b
		 WHERE b.schedule_id = s.id AND b.status = 'booked') AS taken_spots`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListClassTypes(ctx context.Context) ([]ClassInfo, error) {
	query := `
		SELECT id, name, description, difficulty, premium_only, category, created_at
		FROM class_types
		ORDER BY name ASC
	`

	var types []ClassInfo
	if err := r.db.SelectContext(ctx, &types, query); err != nil {
		return nil, err
	}

	return types, nil
}

func (r *repository) ListSchedules(ctx context.Context, f Filter) ([]Schedule, error) {
	query := `
		SELECT` + scheduleColumns + `
		FROM class_schedules s
		JOIN class_types ct ON s.class_type_id = ct.id
	`

	var (
		conds []string
		args  []interface{}
	)
	if f.Date != "" {
		args = append(args, f.Date)
		conds = append(conds, fmt.Sprintf("s.scheduled_date = $%d", len(args)))
	}
	if f.TimeFrom != "" {
		args = append(args, f.TimeFrom)
		conds = append(conds, fmt.Sprintf("s.time_from >= $%d", len(args)))
	}
	if f.TimeTo != "" {
		args = append(args, f.TimeTo)
		conds = append(conds, fmt.Sprintf("s.time_from <= $%d", len(args)))
	}

	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY s.scheduled_date ASC, s.time_from ASC"

	var schedules []Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, err
	}

	for i := range schedules {
		schedules[i].ComputeAvailability()
	}

	return schedules, nil
}

func (r *repository) GetScheduleByID(ctx context.Context, id int) (*Schedule, error) {
	query := `
		SELECT` + scheduleColumns + `
		FROM class_schedules s
		JOIN class_types ct ON s.class_type_id = ct.id
		WHERE s.id = $1
	`

	var s Schedule
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		return nil, err
	}
	s.ComputeAvailability()

	return &s, nil
}
