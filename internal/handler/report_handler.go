package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vlietberg/teambudget-backend/internal/middleware"
	"github.com/vlietberg/teambudget-backend/internal/service"
)

// ReportHandler handles report HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GenerateReport handles GET /reports
func (h *ReportHandler) GenerateReport(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	var filter service.ReportFilter

	if raw := c.QueryParam("startDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return NewValidationError(c, "Invalid startDate", nil)
		}
		filter.StartDate = &t
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return NewValidationError(c, "Invalid endDate", nil)
		}
		filter.EndDate = &t
	}
	if raw := c.QueryParam("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return NewValidationError(c, "Invalid categoryId", nil)
		}
		v := int32(id)
		filter.CategoryID = &v
	}

	report, err := h.reportService.GenerateReport(identityID, filter)
	if err != nil {
		return NewDomainError(c, err)
	}

	return c.JSON(http.StatusOK, report)
}
