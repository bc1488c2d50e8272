package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vlietberg/teambudget-backend/internal/middleware"
	"github.com/vlietberg/teambudget-backend/internal/service"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetSummary handles GET /dashboard/summary
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	summary, err := h.dashboardService.GetSummary(identityID)
	if err != nil {
		return NewDomainError(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}
