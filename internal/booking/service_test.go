package booking

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"classfit/internal/classes"
	"classfit/internal/logger"
	"classfit/internal/member"
	"classfit/internal/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) CreateBooking(ctx context.Context, userID, scheduleID int) (*Booking, error) {
	args := m.Called(ctx, userID, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepo) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepo) CancelBooking(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepo) CountActiveBookings(ctx context.Context, scheduleID int) (int, error) {
	args := m.Called(ctx, scheduleID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepo) GetActiveBookingForSchedule(ctx context.Context, userID, scheduleID int) (*Booking, error) {
	args := m.Called(ctx, userID, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepo) ListActiveBookingRefs(ctx context.Context, userID int) ([]BookingRef, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingRef), args.Error(1)
}

func (m *MockRepo) ListBookingsBySchedule(ctx context.Context, scheduleID int) ([]BookingWithDetails, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithDetails), args.Error(1)
}

type MockScheduleService struct {
	mock.Mock
}

func (m *MockScheduleService) ListClassTypes(ctx context.Context) ([]classes.ClassInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]classes.ClassInfo), args.Error(1)
}

func (m *MockScheduleService) ListSchedules(ctx context.Context, q classes.ScheduleQuery) ([]classes.Schedule, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]classes.Schedule), args.Error(1)
}

func (m *MockScheduleService) GetScheduleByID(ctx context.Context, id int) (*classes.Schedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*classes.Schedule), args.Error(1)
}

func (m *MockScheduleService) InvalidateSchedules(ctx context.Context) {
	m.Called(ctx)
}

type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) Create(ctx context.Context, name, email, passwordHash, role string, metadata *profile.OnboardingForm) (*member.User, error) {
	args := m.Called(ctx, name, email, passwordHash, role, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.User), args.Error(1)
}

func (m *MockMemberRepo) FindByEmail(ctx context.Context, email string) (*member.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.User), args.Error(1)
}

func (m *MockMemberRepo) FindByID(ctx context.Context, id int) (*member.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.User), args.Error(1)
}

func (m *MockMemberRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendBookingConfirmation(ctx context.Context, email, name, className, details string, when time.Time) error {
	args := m.Called(ctx, email, name, className, details, when)
	return args.Error(0)
}

func (m *MockNotifier) SendCancellation(ctx context.Context, email, name, className, details string) error {
	args := m.Called(ctx, email, name, className, details)
	return args.Error(0)
}

func futureSchedule(id, totalSpots int) *classes.Schedule {
	tomorrow := time.Now().AddDate(0, 0, 1)
	return &classes.Schedule{
		ID:            id,
		ClassTypeID:   1,
		ClassName:     "Morning Yoga",
		Trainer:       "Sarah Johnson",
		ScheduledDate: time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, time.UTC),
		TimeFrom:      "07:00",
		TimeTo:        "08:00",
		TotalSpots:    totalSpots,
	}
}

func pastSchedule(id int) *classes.Schedule {
	yesterday := time.Now().AddDate(0, 0, -1)
	s := futureSchedule(id, 20)
	s.ScheduledDate = time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC)
	return s
}

func newTestService(repo *MockRepo, schedules *MockScheduleService, members *MockMemberRepo) Service {
	return NewService(repo, schedules, members, nil)
}

func TestBook_Success(t *testing.T) {
	repo := new(MockRepo)
	schedules := new(MockScheduleService)
	members := new(MockMemberRepo)
	svc := newTestService(repo, schedules, members)

	schedules.On("GetScheduleByID", mock.Anything, 10).Return(futureSchedule(10, 20), nil)
	repo.On("GetActiveBookingForSchedule", mock.Anything, 1, 10).Return(nil, ErrNoActiveBooking)
	repo.On("CountActiveBookings", mock.Anything, 10).Return(5, nil)
	repo.On("CreateBooking", mock.Anything, 1, 10).Return(&Booking{ID: 42, UserID: 1, ScheduleID: 10, Status: StatusBooked}, nil)
	schedules.On("InvalidateSchedules", mock.Anything).Return()

	booking, err := svc.Book(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, 42, booking.ID)
	assert.Equal(t, StatusBooked, booking.Status)
	repo.AssertExpectations(t)
	schedules.AssertExpectations(t)
}

func TestBook_ScheduleNotFound(t *testing.T) {
	repo := new(MockRepo)
	schedules := new(MockScheduleService)
	svc := newTestService(repo, schedules, new(MockMemberRepo))

	schedules.On("GetScheduleByID", mock.Anything, 99).Return(nil, errors.New("sql: no rows in result set"))

	_, err := svc.Book(context.Background(), 1, 99)

	assert.ErrorIs(t, err, ErrScheduleNotFound)
	repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestBook_PastClass(t *testing.T) {
	repo := new(MockRepo)
	schedules := new(MockScheduleService)
	svc := newTestService(repo, schedules, new(MockMemberRepo))

	schedules.On("GetScheduleByID", mock.Anything, 7).Return(pastSchedule(7), nil)

	_, err := svc.Book(context.Background(), 1, 7)

	assert.ErrorIs(t, err, ErrClassInPast)
	repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestBook_FullClassLeavesStateUnchanged(t *testing.T) {
	repo := new(MockRepo)
	schedules := new(MockScheduleService)
	svc := newTestService(repo, schedules, new(MockMemberRepo))

	schedules.On("GetScheduleByID", mock.Anything, 10).Return(futureSchedule(10, 15), nil)
	repo.On("GetActiveBookingForSchedule", mock.Anything, 1, 10).Return(nil, ErrNoActiveBooking)
	repo.On("CountActiveBookings", mock.Anything, 10).Return(15, nil)

	_, err := svc.Book(context.Background(), 1, 10)

	assert.ErrorIs(t, err, ErrClassFull)
	assert.Equal(t, "Class is full", err.Error())
	repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
	schedules.AssertNotCalled(t, "InvalidateSchedules", mock.Anything)
}

func TestBook_AlreadyBookedOnFullClass(t *testing.T) {
	// Holding the last spot yourself is a duplicate, not "Class is full".
	repo := new(MockRepo)
	schedules := new(MockScheduleService)
	svc := newTestService(repo, schedules, new(MockMemberRepo))

	schedules.On("GetScheduleByID", mock.Anything, 10).Return(futureSchedule(10, 15), nil)
	repo.On("GetActiveBookingForSchedule", mock.Anything, 1, 10).Return(&Booking{ID: 3, UserID: 1, ScheduleID: 10, Status: StatusBooked}, nil)

	_, err := svc.Book(context.Background(), 1, 10)

	assert.ErrorIs(t, err, ErrAlreadyBooked)
	repo.AssertNotCalled(t, "CountActiveBookings", mock.Anything, mock.Anything)
}

func TestCancel_Success(t *testing.T) {
	repo := new(MockRepo)
	schedules := new(MockScheduleService)
	svc := newTestService(repo, schedules, new(MockMemberRepo))

	repo.On("GetBookingByID", mock.Anything, 42).Return(&Booking{ID: 42, UserID: 1, ScheduleID: 10, Status: StatusBooked}, nil)
	repo.On("CancelBooking", mock.Anything, 42).Return(nil)
	schedules.On("InvalidateSchedules", mock.Anything).Return()

	err := svc.Cancel(context.Background(), 1, 42)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCancel_NotOwner(t *testing.T) {
	repo := new(MockRepo)
	svc := newTestService(repo, new(MockScheduleService), new(MockMemberRepo))

	repo.On("GetBookingByID", mock.Anything, 42).Return(&Booking{ID: 42, UserID: 2, ScheduleID: 10, Status: StatusBooked}, nil)

	err := svc.Cancel(context.Background(), 1, 42)

	assert.ErrorIs(t, err, ErrNotOwner)
	repo.AssertNotCalled(t, "CancelBooking", mock.Anything, mock.Anything)
}

func TestCancel_NotFound(t *testing.T) {
	repo := new(MockRepo)
	svc := newTestService(repo, new(MockScheduleService), new(MockMemberRepo))

	repo.On("GetBookingByID", mock.Anything, 99).Return(nil, errors.New("sql: no rows in result set"))

	err := svc.Cancel(context.Background(), 1, 99)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	repo := new(MockRepo)
	svc := newTestService(repo, new(MockScheduleService), new(MockMemberRepo))

	repo.On("GetBookingByID", mock.Anything, 42).Return(&Booking{ID: 42, UserID: 1, ScheduleID: 10, Status: StatusCancelled}, nil)
	repo.On("CancelBooking", mock.Anything, 42).Return(ErrBookingNotFoundOrAlreadyCancelled)

	err := svc.Cancel(context.Background(), 1, 42)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestToggle_BooksWhenNotBooked(t *testing.T) {
	repo := new(MockRepo)
	schedules := new(MockScheduleService)
	svc := newTestService(repo, schedules, new(MockMemberRepo))

	sched := futureSchedule(10, 20)
	repo.On("GetActiveBookingForSchedule", mock.Anything, 1, 10).Return(nil, ErrNoActiveBooking)
	schedules.On("GetScheduleByID", mock.Anything, 10).Return(sched, nil)
	repo.On("CountActiveBookings", mock.Anything, 10).Return(0, nil)
	repo.On("CreateBooking", mock.Anything, 1, 10).Return(&Booking{ID: 42, UserID: 1, ScheduleID: 10, Status: StatusBooked}, nil)
	schedules.On("InvalidateSchedules", mock.Anything).Return()
	schedules.On("ListSchedules", mock.Anything, classes.ScheduleQuery{}).Return([]classes.Schedule{*sched}, nil)
	repo.On("ListActiveBookingRefs", mock.Anything, 1).Return([]BookingRef{{ScheduleID: 10, BookingID: 42}}, nil)

	result, err := svc.Toggle(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, "booked", result.Action)
	require.NotNil(t, result.Booking)
	assert.Equal(t, 42, result.Booking.ID)
	assert.Len(t, result.Schedules, 1)
	assert.Equal(t, []BookingRef{{ScheduleID: 10, BookingID: 42}}, result.Bookings)
}

func TestToggle_CancelsWhenBooked(t *testing.T) {
	repo := new(MockRepo)
	schedules := new(MockScheduleService)
	svc := newTestService(repo, schedules, new(MockMemberRepo))

	repo.On("GetActiveBookingForSchedule", mock.Anything, 1, 10).Return(&Booking{ID: 42, UserID: 1, ScheduleID: 10, Status: StatusBooked}, nil)
	repo.On("GetBookingByID", mock.Anything, 42).Return(&Booking{ID: 42, UserID: 1, ScheduleID: 10, Status: StatusBooked}, nil)
	repo.On("CancelBooking", mock.Anything, 42).Return(nil)
	schedules.On("InvalidateSchedules", mock.Anything).Return()
	schedules.On("ListSchedules", mock.Anything, classes.ScheduleQuery{}).Return([]classes.Schedule{}, nil)
	repo.On("ListActiveBookingRefs", mock.Anything, 1).Return([]BookingRef{}, nil)

	result, err := svc.Toggle(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, "cancelled", result.Action)
	assert.Nil(t, result.Booking)
	assert.Empty(t, result.Bookings)
}

func TestToggle_FullClassStaysCancellable(t *testing.T) {
	// An existing booking on a full class cancels without ever
	// consulting capacity.
	repo := new(MockRepo)
	schedules := new(MockScheduleService)
	svc := newTestService(repo, schedules, new(MockMemberRepo))

	repo.On("GetActiveBookingForSchedule", mock.Anything, 1, 10).Return(&Booking{ID: 42, UserID: 1, ScheduleID: 10, Status: StatusBooked}, nil)
	repo.On("GetBookingByID", mock.Anything, 42).Return(&Booking{ID: 42, UserID: 1, ScheduleID: 10, Status: StatusBooked}, nil)
	repo.On("CancelBooking", mock.Anything, 42).Return(nil)
	schedules.On("InvalidateSchedules", mock.Anything).Return()
	schedules.On("ListSchedules", mock.Anything, classes.ScheduleQuery{}).Return([]classes.Schedule{}, nil)
	repo.On("ListActiveBookingRefs", mock.Anything, 1).Return([]BookingRef{}, nil)

	result, err := svc.Toggle(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, "cancelled", result.Action)
	repo.AssertNotCalled(t, "CountActiveBookings", mock.Anything, mock.Anything)
}

func TestToggle_FullClassRejectsNewBooking(t *testing.T) {
	repo := new(MockRepo)
	schedules := new(MockScheduleService)
	svc := newTestService(repo, schedules, new(MockMemberRepo))

	repo.On("GetActiveBookingForSchedule", mock.Anything, 1, 10).Return(nil, ErrNoActiveBooking)
	schedules.On("GetScheduleByID", mock.Anything, 10).Return(futureSchedule(10, 15), nil)
	repo.On("CountActiveBookings", mock.Anything, 10).Return(15, nil)

	_, err := svc.Toggle(context.Background(), 1, 10)

	assert.ErrorIs(t, err, ErrClassFull)
	repo.AssertNotCalled(t, "ListActiveBookingRefs", mock.Anything, mock.Anything)
}

// Booking then cancelling the same pair ends with the booking list back
// where it started.
func TestBookThenCancelRoundTrip(t *testing.T) {
	repo := new(MockRepo)
	schedules := new(MockScheduleService)
	svc := newTestService(repo, schedules, new(MockMemberRepo))

	schedules.On("GetScheduleByID", mock.Anything, 10).Return(futureSchedule(10, 20), nil)
	schedules.On("InvalidateSchedules", mock.Anything).Return()
	repo.On("GetActiveBookingForSchedule", mock.Anything, 1, 10).Return(nil, ErrNoActiveBooking).Once()
	repo.On("CountActiveBookings", mock.Anything, 10).Return(0, nil)
	repo.On("CreateBooking", mock.Anything, 1, 10).Return(&Booking{ID: 42, UserID: 1, ScheduleID: 10, Status: StatusBooked}, nil)
	repo.On("ListActiveBookingRefs", mock.Anything, 1).Return([]BookingRef{}, nil).Once()
	repo.On("ListActiveBookingRefs", mock.Anything, 1).Return([]BookingRef{{ScheduleID: 10, BookingID: 42}}, nil).Once()

	before, err := svc.MyBookings(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, before)

	booking, err := svc.Book(context.Background(), 1, 10)
	require.NoError(t, err)

	mid, err := svc.MyBookings(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []BookingRef{{ScheduleID: 10, BookingID: 42}}, mid)

	repo.On("GetBookingByID", mock.Anything, 42).Return(&Booking{ID: 42, UserID: 1, ScheduleID: 10, Status: StatusBooked}, nil)
	repo.On("CancelBooking", mock.Anything, 42).Return(nil)
	repo.On("ListActiveBookingRefs", mock.Anything, 1).Return([]BookingRef{}, nil).Once()

	require.NoError(t, svc.Cancel(context.Background(), 1, booking.ID))

	after, err := svc.MyBookings(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, after)
}

func TestMyBookings_NilBecomesEmptySlice(t *testing.T) {
	repo := new(MockRepo)
	svc := newTestService(repo, new(MockScheduleService), new(MockMemberRepo))

	repo.On("ListActiveBookingRefs", mock.Anything, 1).Return(nil, nil)

	refs, err := svc.MyBookings(context.Background(), 1)

	require.NoError(t, err)
	assert.NotNil(t, refs)
	assert.Empty(t, refs)
}

func TestBook_NotifierFailureDoesNotFailBooking(t *testing.T) {
	repo := new(MockRepo)
	schedules := new(MockScheduleService)
	members := new(MockMemberRepo)
	notifier := new(MockNotifier)
	svc := NewService(repo, schedules, members, notifier)

	schedules.On("GetScheduleByID", mock.Anything, 10).Return(futureSchedule(10, 20), nil)
	repo.On("GetActiveBookingForSchedule", mock.Anything, 1, 10).Return(nil, ErrNoActiveBooking)
	repo.On("CountActiveBookings", mock.Anything, 10).Return(0, nil)
	repo.On("CreateBooking", mock.Anything, 1, 10).Return(&Booking{ID: 42, UserID: 1, ScheduleID: 10, Status: StatusBooked}, nil)
	schedules.On("InvalidateSchedules", mock.Anything).Return()
	members.On("FindByID", mock.Anything, 1).Return(&member.User{ID: 1, Name: "Alice Smith", Email: "alice@example.com"}, nil)
	notifier.On("SendBookingConfirmation", mock.Anything, "alice@example.com", "Alice Smith", "Morning Yoga", mock.Anything, mock.Anything).Return(errors.New("smtp unreachable"))

	booking, err := svc.Book(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, 42, booking.ID)
	notifier.AssertExpectations(t)
}
