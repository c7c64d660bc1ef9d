package booking

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

var bookingCols = []string{"id", "user_id", "schedule_id", "status", "created_at"}

func TestRepositoryCreateBooking(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings (user_id, schedule_id, status)")).
		WithArgs(1, 10).
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(42, 1, 10, StatusBooked, created))

	b, err := repo.CreateBooking(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, 42, b.ID)
	assert.Equal(t, StatusBooked, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCancelBooking(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CancelBooking(context.Background(), 42)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCancelBookingAlreadyCancelled(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.CancelBooking(context.Background(), 42)

	assert.ErrorIs(t, err, ErrBookingNotFoundOrAlreadyCancelled)
}

func TestRepositoryGetActiveBookingForSchedule(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, user_id, schedule_id, status, created_at").
		WithArgs(1, 10).
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(42, 1, 10, StatusBooked, created))

	b, err := repo.GetActiveBookingForSchedule(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, 10, b.ScheduleID)
}

func TestRepositoryGetActiveBookingForScheduleNone(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT id, user_id, schedule_id, status, created_at").
		WithArgs(1, 10).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	_, err := repo.GetActiveBookingForSchedule(context.Background(), 1, 10)

	assert.ErrorIs(t, err, ErrNoActiveBooking)
}

func TestRepositoryCountActiveBookings(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(15))

	count, err := repo.CountActiveBookings(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, 15, count)
}

func TestRepositoryListActiveBookingRefs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT schedule_id, id AS booking_id").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "booking_id"}).
			AddRow(10, 42).
			AddRow(11, 43))

	refs, err := repo.ListActiveBookingRefs(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, []BookingRef{{ScheduleID: 10, BookingID: 42}, {ScheduleID: 11, BookingID: 43}}, refs)
}

func TestRepositoryListBookingsBySchedule(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	scheduled := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "user_id", "schedule_id", "status", "created_at", "class_name", "scheduled_date", "time_from", "trainer", "user_name", "user_email"}
	mock.ExpectQuery("FROM bookings b").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(42, 1, 10, StatusBooked, created, "Morning Yoga", scheduled, "07:00", "Sarah Johnson", "Alice Smith", "alice@example.com"))

	bookings, err := repo.ListBookingsBySchedule(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "Morning Yoga", bookings[0].ClassName)
	assert.Equal(t, "alice@example.com", bookings[0].UserEmail)
}
