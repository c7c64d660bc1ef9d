package classes

import (
	"errors"
	"net/http"

	"classfit/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListSchedules godoc
// @Summary      List class schedules
// @Description  Lists scheduled sessions with seat availability. All filters optional; time_range is one of morning, afternoon, night.
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        date        query     string  false  "Date filter (YYYY-MM-DD)"
// @Param        time_from   query     string  false  "Earliest start time (HH:MM)"
// @Param        time_to     query     string  false  "Latest start time (HH:MM)"
// @Param        time_range  query     string  false  "Named time range"
// @Success      200  {array}   Schedule
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /classes/schedules [get]
func (h *Handler) ListSchedules(c *gin.Context) {
	var q ScheduleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	schedules, err := h.service.ListSchedules(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, ErrInvalidFilter) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid date or time range filter"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch schedules"})
		return
	}

	if schedules == nil {
		schedules = []Schedule{}
	}
	c.JSON(http.StatusOK, schedules)
}

// ListClassTypes godoc
// @Summary      List class types
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   ClassInfo
// @Failure      500  {object}  api.ErrorResponse
// @Router       /classes [get]
func (h *Handler) ListClassTypes(c *gin.Context) {
	types, err := h.service.ListClassTypes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch classes"})
		return
	}

	c.JSON(http.StatusOK, types)
}
