package profile

import (
	"errors"
	"net/http"

	"classfit/internal/api"
	"classfit/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// GetDashboard godoc
// @Summary      Member dashboard
// @Description  Returns the authenticated member's profile and membership. Either may be null when not configured yet.
// @Tags         profile
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  DashboardResponse
// @Failure      401  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /me [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	email, _ := auth.GetUserEmail(c)

	p, err := h.repo.GetProfile(c.Request.Context(), userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load profile"})
		return
	}

	m, err := h.repo.GetMembership(c.Request.Context(), userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load membership"})
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{
		Email:      email,
		Profile:    p,
		Membership: m,
	})
}
