package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"classfit/internal/api"
	"classfit/internal/auth"

	"github.com/gin-gonic/gin"
)

// businessErrs are surfaced verbatim in the success envelope; anything
// else becomes a generic message.
var businessErrs = []error{
	ErrScheduleNotFound,
	ErrClassInPast,
	ErrClassFull,
	ErrAlreadyBooked,
	ErrBookingNotFound,
	ErrNotOwner,
}

func businessMessage(err error) (string, bool) {
	for _, be := range businessErrs {
		if errors.Is(err, be) {
			return be.Error(), true
		}
	}
	return "", false
}

type Handler struct {
	service   Service
	analytics AnalyticsRepository
}

func NewHandler(service Service, analytics AnalyticsRepository) *Handler {
	return &Handler{service: service, analytics: analytics}
}

// MyBookings godoc
// @Summary      List my bookings
// @Description  Returns the authenticated member's active bookings as {schedule_id, booking_id} pairs.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  MyBookingsResponse
// @Failure      401  {object}  api.ErrorResponse
// @Failure      500  {object}  MyBookingsResponse
// @Router       /classes/my-bookings [get]
func (h *Handler) MyBookings(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	refs, err := h.service.MyBookings(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, MyBookingsResponse{Envelope: api.Failure("Failed to fetch bookings")})
		return
	}

	c.JSON(http.StatusOK, MyBookingsResponse{Envelope: api.Envelope{Success: true}, Bookings: refs})
}

// Book godoc
// @Summary      Book a class
// @Description  Creates a booking for the given schedule. Fails when the class is full or already booked.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      BookRequest  true  "Schedule to book"
// @Success      201      {object}  BookResponse
// @Failure      400      {object}  BookResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      409      {object}  BookResponse
// @Failure      500      {object}  BookResponse
// @Router       /classes/book [post]
func (h *Handler) Book(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, BookResponse{Envelope: api.Failure("schedule_id is required")})
		return
	}

	booking, err := h.service.Book(c.Request.Context(), userID, req.ScheduleID)
	if err != nil {
		if msg, ok := businessMessage(err); ok {
			c.JSON(http.StatusConflict, BookResponse{Envelope: api.Failure(msg)})
			return
		}
		c.JSON(http.StatusInternalServerError, BookResponse{Envelope: api.Failure("Failed to create booking")})
		return
	}

	c.JSON(http.StatusCreated, BookResponse{Envelope: api.Envelope{Success: true}, Booking: booking})
}

// Cancel godoc
// @Summary      Cancel a booking
// @Description  Cancels one of the authenticated member's bookings.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CancelRequest  true  "Booking to cancel"
// @Success      200      {object}  CancelResponse
// @Failure      400      {object}  CancelResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      409      {object}  CancelResponse
// @Failure      500      {object}  CancelResponse
// @Router       /classes/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, CancelResponse{Envelope: api.Failure("booking_id is required")})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), userID, req.BookingID); err != nil {
		if msg, ok := businessMessage(err); ok {
			c.JSON(http.StatusConflict, CancelResponse{Envelope: api.Failure(msg)})
			return
		}
		c.JSON(http.StatusInternalServerError, CancelResponse{Envelope: api.Failure("Failed to cancel booking")})
		return
	}

	c.JSON(http.StatusOK, CancelResponse{Envelope: api.Envelope{Success: true}, BookingID: req.BookingID})
}

// Toggle godoc
// @Summary      Toggle a booking
// @Description  Books the schedule when not booked, cancels otherwise. On success returns refetched schedules and bookings.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      ToggleRequest  true  "Schedule to toggle"
// @Success      200      {object}  ToggleResponse
// @Failure      400      {object}  ToggleResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      409      {object}  ToggleResponse
// @Failure      500      {object}  ToggleResponse
// @Router       /classes/toggle [post]
func (h *Handler) Toggle(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ToggleResponse{Envelope: api.Failure("schedule_id is required")})
		return
	}

	result, err := h.service.Toggle(c.Request.Context(), userID, req.ScheduleID)
	if err != nil {
		if msg, ok := businessMessage(err); ok {
			c.JSON(http.StatusConflict, ToggleResponse{Envelope: api.Failure(msg)})
			return
		}
		c.JSON(http.StatusInternalServerError, ToggleResponse{Envelope: api.Failure("Failed to toggle booking")})
		return
	}

	c.JSON(http.StatusOK, ToggleResponse{Envelope: api.Envelope{Success: true}, ToggleResult: *result})
}

// BookingsBySchedule godoc
// @Summary      List bookings for a schedule
// @Description  Returns all bookings for a specific schedule. Admin only.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        scheduleID  path      int  true  "Schedule ID"
// @Success      200  {array}   BookingWithDetails
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /admin/schedules/{scheduleID}/bookings [get]
func (h *Handler) BookingsBySchedule(c *gin.Context) {
	scheduleID, err := strconv.Atoi(c.Param("scheduleID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid schedule ID"})
		return
	}

	bookings, err := h.service.BookingsBySchedule(c.Request.Context(), scheduleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// BookingAnalytics godoc
// @Summary      Booking analytics
// @Description  Aggregated bookings created/cancelled per day or per class type. Admin only.
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Param        group_by  query     string  false  "Group by dimension (day or class)"
// @Param        from      query     string  true   "Start datetime (RFC3339)"
// @Param        to        query     string  true   "End datetime (RFC3339)"
// @Success      200       {object}  map[string]interface{}
// @Failure      400       {object}  api.ErrorResponse
// @Failure      500       {object}  api.ErrorResponse
// @Router       /admin/analytics/bookings [get]
func (h *Handler) BookingAnalytics(c *gin.Context) {
	groupBy := c.DefaultQuery("group_by", "day")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	if fromStr == "" || toStr == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "from and to query params are required"})
		return
	}

	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid from format, use RFC3339"})
		return
	}

	to, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid to format, use RFC3339"})
		return
	}

	switch groupBy {
	case "day":
		stats, err := h.analytics.BookingStatsByDay(c.Request.Context(), from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to fetch stats"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"group_by": "day", "from": from, "to": to, "data": stats})
	case "class":
		stats, err := h.analytics.BookingStatsByClass(c.Request.Context(), from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to fetch stats"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"group_by": "class", "from": from, "to": to, "data": stats})
	default:
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "group_by must be 'day' or 'class'"})
	}
}

// MembershipAnalytics godoc
// @Summary      Membership analytics
// @Description  Memberships created per month and tier. Admin only.
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  api.ErrorResponse
// @Router       /admin/analytics/memberships [get]
func (h *Handler) MembershipAnalytics(c *gin.Context) {
	stats, err := h.analytics.MembershipStatsByMonth(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"group_by": "month", "data": stats})
}
