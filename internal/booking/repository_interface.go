package booking

import "context"

type Repository interface {
	CreateBooking(ctx context.Context, userID, scheduleID int) (*Booking, error)
	GetBookingByID(ctx context.Context, id int) (*Booking, error)
	CancelBooking(ctx context.Context, id int) error
	CountActiveBookings(ctx context.Context, scheduleID int) (int, error)
	GetActiveBookingForSchedule(ctx context.Context, userID, scheduleID int) (*Booking, error)
	ListActiveBookingRefs(ctx context.Context, userID int) ([]BookingRef, error)
	ListBookingsBySchedule(ctx context.Context, scheduleID int) ([]BookingWithDetails, error)
}
