package classes

import (
	"errors"
	"time"
)

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

var ErrInvalidFilter = errors.New("invalid schedule filter")

// ClassInfo is a recurring class type. Read-only reference data,
// seeded by migration.
type ClassInfo struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Difficulty  string    `db:"difficulty" json:"difficulty"`
	PremiumOnly bool      `db:"premium_only" json:"premium_only"`
	Category    string    `db:"category" json:"category"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Schedule is one dated session of a class type. Taken spots are
// derived from the active booking count, so seats left can never go
// negative.
type Schedule struct {
	ID              int       `db:"id" json:"id"`
	ClassTypeID     int       `db:"class_type_id" json:"class_type_id"`
	ClassName       string    `db:"class_name" json:"class_name"`
	Description     string    `db:"description" json:"description"`
	Difficulty      string    `db:"difficulty" json:"difficulty"`
	PremiumOnly     bool      `db:"premium_only" json:"premium_only"`
	Category        string    `db:"category" json:"category"`
	ScheduledDate   time.Time `db:"scheduled_date" json:"scheduled_date"`
	TimeFrom        string    `db:"time_from" json:"time_from"`
	TimeTo          string    `db:"time_to" json:"time_to"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Trainer         string    `db:"trainer" json:"trainer"`
	TotalSpots      int       `db:"total_spots" json:"total_spots"`
	TakenSpots      int       `db:"taken_spots" json:"taken_spots"`
	SeatsLeft       int       `db:"-" json:"seats_left"`
	IsFull          bool      `db:"-" json:"is_full"`
}

// ComputeAvailability fills the derived seat fields.
func (s *Schedule) ComputeAvailability() {
	left := s.TotalSpots - s.TakenSpots
	if left < 0 {
		left = 0
	}
	s.SeatsLeft = left
	s.IsFull = s.TakenSpots >= s.TotalSpots
}

// ScheduleQuery is the raw filter input. A time range name maps to
// concrete bounds; explicit time_from/time_to win over time_range.
type ScheduleQuery struct {
	Date      string `form:"date"`
	TimeFrom  string `form:"time_from"`
	TimeTo    string `form:"time_to"`
	TimeRange string `form:"time_range"`
}

// Filter is the normalized query actually sent to the store. Empty
// fields mean "no constraint".
type Filter struct {
	Date     string
	TimeFrom string
	TimeTo   string
}

// timeRangeBounds maps the UI's named ranges onto clock bounds.
func timeRangeBounds(name string) (from, to string, ok bool) {
	switch name {
	case "morning":
		return "06:00", "12:00", true
	case "afternoon":
		return "12:00", "18:00", true
	case "night", "evening":
		return "18:00", "22:00", true
	}
	return "", "", false
}

// Normalize validates the query and resolves the time range.
func (q ScheduleQuery) Normalize() (Filter, error) {
	f := Filter{Date: q.Date, TimeFrom: q.TimeFrom, TimeTo: q.TimeTo}

	if q.Date != "" {
		if _, err := time.Parse("2006-01-02", q.Date); err != nil {
			return Filter{}, ErrInvalidFilter
		}
	}

	if q.TimeRange != "" && f.TimeFrom == "" && f.TimeTo == "" {
		from, to, ok := timeRangeBounds(q.TimeRange)
		if !ok {
			return Filter{}, ErrInvalidFilter
		}
		f.TimeFrom = from
		f.TimeTo = to
	}

	return f, nil
}
