package handlers

import (
	"net/http"

	"deployment-tracker/internal/auth"
	"deployment-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the role-specific dashboard
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard handles GET /dashboard
// @Summary Dashboard summary
// @Description Admins get totals by status and per-project progress; technicians get their own assignments
// @Tags dashboard
// @Produce json
// @Success 200 {object} service.DashboardSummary
// @Failure 401 {object} ErrorResponse "Authentication required"
// @Failure 403 {object} ErrorResponse "Unknown role"
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	session, ok := auth.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	summary, err := h.dashboardService.ForSession(session)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
