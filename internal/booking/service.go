package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"classfit/internal/classes"
	"classfit/internal/logger"
	"classfit/internal/member"
	"classfit/internal/metrics"
)

var (
	ErrScheduleNotFound = errors.New("Class schedule not found")
	ErrClassInPast      = errors.New("Cannot book a class in the past")
	ErrClassFull        = errors.New("Class is full")
	ErrAlreadyBooked    = errors.New("You already have a booking for this class")
	ErrBookingNotFound  = errors.New("Booking not found")
	ErrNotOwner         = errors.New("You can only cancel your own bookings")
)

// Notifier queues booking emails. Delivery failures never fail the
// booking itself.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, email, name, className, details string, when time.Time) error
	SendCancellation(ctx context.Context, email, name, className, details string) error
}

type Service interface {
	MyBookings(ctx context.Context, userID int) ([]BookingRef, error)
	Book(ctx context.Context, userID, scheduleID int) (*Booking, error)
	Cancel(ctx context.Context, userID, bookingID int) error
	Toggle(ctx context.Context, userID, scheduleID int) (*ToggleResult, error)
	BookingsBySchedule(ctx context.Context, scheduleID int) ([]BookingWithDetails, error)
}

type service struct {
	repo      Repository
	schedules classes.Service
	members   member.Repository
	notifier  Notifier
}

func NewService(repo Repository, schedules classes.Service, members member.Repository, notifier Notifier) Service {
	return &service{
		repo:      repo,
		schedules: schedules,
		members:   members,
		notifier:  notifier,
	}
}

// sessionStart combines the schedule's date with its start time.
func sessionStart(s *classes.Schedule) time.Time {
	start, err := time.Parse("15:04", s.TimeFrom)
	if err != nil {
		return s.ScheduledDate
	}
	d := s.ScheduledDate
	return time.Date(d.Year(), d.Month(), d.Day(), start.Hour(), start.Minute(), 0, 0, d.Location())
}

func (s *service) MyBookings(ctx context.Context, userID int) ([]BookingRef, error) {
	refs, err := s.repo.ListActiveBookingRefs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if refs == nil {
		refs = []BookingRef{}
	}
	return refs, nil
}

func (s *service) Book(ctx context.Context, userID, scheduleID int) (*Booking, error) {
	schedule, err := s.schedules.GetScheduleByID(ctx, scheduleID)
	if err != nil {
		return nil, ErrScheduleNotFound
	}

	if sessionStart(schedule).Before(time.Now()) {
		return nil, ErrClassInPast
	}

	// Duplicate check comes first: holding a booking on a full class
	// is a duplicate, not a capacity problem.
	_, err = s.repo.GetActiveBookingForSchedule(ctx, userID, scheduleID)
	if err == nil {
		metrics.RecordBooking("duplicate")
		return nil, ErrAlreadyBooked
	}
	if !errors.Is(err, ErrNoActiveBooking) {
		return nil, err
	}

	booked, err := s.repo.CountActiveBookings(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if booked >= schedule.TotalSpots {
		metrics.RecordBooking("rejected_full")
		return nil, ErrClassFull
	}

	booking, err := s.repo.CreateBooking(ctx, userID, scheduleID)
	if err != nil {
		return nil, err
	}

	metrics.RecordBooking("created")
	s.schedules.InvalidateSchedules(ctx)
	s.notifyBooked(ctx, userID, schedule)

	return booking, nil
}

func (s *service) Cancel(ctx context.Context, userID, bookingID int) error {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return ErrBookingNotFound
	}

	if booking.UserID != userID {
		return ErrNotOwner
	}

	if err := s.repo.CancelBooking(ctx, bookingID); err != nil {
		if errors.Is(err, ErrBookingNotFoundOrAlreadyCancelled) {
			return ErrBookingNotFound
		}
		return err
	}

	metrics.RecordBookingCancellation()
	s.schedules.InvalidateSchedules(ctx)
	s.notifyCancelled(ctx, userID, booking.ScheduleID)

	return nil
}

// Toggle reconciles the member's booking state for a schedule: cancel
// when a booking exists, book otherwise. A full class stays
// cancellable. On success both lists are refetched from the store.
func (s *service) Toggle(ctx context.Context, userID, scheduleID int) (*ToggleResult, error) {
	result := &ToggleResult{}

	existing, err := s.repo.GetActiveBookingForSchedule(ctx, userID, scheduleID)
	switch {
	case err == nil:
		if err := s.Cancel(ctx, userID, existing.ID); err != nil {
			return nil, err
		}
		result.Action = "cancelled"
	case errors.Is(err, ErrNoActiveBooking):
		booking, err := s.Book(ctx, userID, scheduleID)
		if err != nil {
			return nil, err
		}
		result.Action = "booked"
		result.Booking = booking
	default:
		return nil, err
	}

	if err := s.reload(ctx, userID, result); err != nil {
		return nil, fmt.Errorf("booking %s but reload failed: %w", result.Action, err)
	}

	return result, nil
}

// reload refetches schedules and the member's bookings so callers see
// the server's view, including bookings made in other sessions.
func (s *service) reload(ctx context.Context, userID int, result *ToggleResult) error {
	schedules, err := s.schedules.ListSchedules(ctx, classes.ScheduleQuery{})
	if err != nil {
		return err
	}

	refs, err := s.MyBookings(ctx, userID)
	if err != nil {
		return err
	}

	result.Schedules = schedules
	result.Bookings = refs
	return nil
}

func (s *service) BookingsBySchedule(ctx context.Context, scheduleID int) ([]BookingWithDetails, error) {
	return s.repo.ListBookingsBySchedule(ctx, scheduleID)
}

func (s *service) notifyBooked(ctx context.Context, userID int, schedule *classes.Schedule) {
	if s.notifier == nil {
		return
	}

	user, err := s.members.FindByID(ctx, userID)
	if err != nil {
		return
	}

	details := fmt.Sprintf("%s with %s", schedule.ClassName, schedule.Trainer)
	if err := s.notifier.SendBookingConfirmation(ctx, user.Email, user.Name, schedule.ClassName, details, sessionStart(schedule)); err != nil {
		logger.Errorf("Failed to queue booking confirmation for %s: %v", user.Email, err)
	}
}

func (s *service) notifyCancelled(ctx context.Context, userID, scheduleID int) {
	if s.notifier == nil {
		return
	}

	user, err := s.members.FindByID(ctx, userID)
	if err != nil {
		return
	}

	schedule, err := s.schedules.GetScheduleByID(ctx, scheduleID)
	if err != nil {
		return
	}

	details := fmt.Sprintf("%s on %s at %s", schedule.ClassName, schedule.ScheduledDate.Format("Jan 2, 2006"), schedule.TimeFrom)
	if err := s.notifier.SendCancellation(ctx, user.Email, user.Name, schedule.ClassName, details); err != nil {
		logger.Errorf("Failed to queue cancellation email for %s: %v", user.Email, err)
	}
}
