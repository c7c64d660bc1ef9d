package booking

import (
	"time"

	"classfit/internal/api"
	"classfit/internal/classes"
)

const (
	StatusBooked    = "booked"
	StatusCancelled = "cancelled"
)

type Booking struct {
	ID         int       `db:"id" json:"id"`
	UserID     int       `db:"user_id" json:"user_id"`
	ScheduleID int       `db:"schedule_id" json:"schedule_id"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// BookingRef is the minimal record the booking list exposes: enough to
// tell whether a schedule is booked and to cancel it.
type BookingRef struct {
	ScheduleID int `db:"schedule_id" json:"schedule_id"`
	BookingID  int `db:"booking_id" json:"booking_id"`
}

type BookingWithDetails struct {
	Booking
	ClassName     string    `db:"class_name" json:"class_name"`
	ScheduledDate time.Time `db:"scheduled_date" json:"scheduled_date"`
	TimeFrom      string    `db:"time_from" json:"time_from"`
	Trainer       string    `db:"trainer" json:"trainer"`
	UserName      string    `db:"user_name" json:"user_name"`
	UserEmail     string    `db:"user_email" json:"user_email"`
}

type BookRequest struct {
	ScheduleID int `json:"schedule_id" binding:"required"`
}

type CancelRequest struct {
	BookingID int `json:"booking_id" binding:"required"`
}

type ToggleRequest struct {
	ScheduleID int `json:"schedule_id" binding:"required"`
}

type MyBookingsResponse struct {
	api.Envelope
	Bookings []BookingRef `json:"bookings"`
}

type BookResponse struct {
	api.Envelope
	Booking *Booking `json:"booking,omitempty"`
}

type CancelResponse struct {
	api.Envelope
	BookingID int `json:"booking_id,omitempty"`
}

// ToggleResult carries the refetched state after a successful toggle:
// both lists come straight from the store so callers never patch local
// state.
type ToggleResult struct {
	Action    string             `json:"action" example:"booked"`
	Booking   *Booking           `json:"booking,omitempty"`
	Bookings  []BookingRef       `json:"bookings"`
	Schedules []classes.Schedule `json:"schedules"`
}

type ToggleResponse struct {
	api.Envelope
	ToggleResult
}
