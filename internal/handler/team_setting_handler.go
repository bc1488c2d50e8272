package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vlietberg/teambudget-backend/internal/domain"
	"github.com/vlietberg/teambudget-backend/internal/middleware"
	"github.com/vlietberg/teambudget-backend/internal/service"
)

// TeamSettingHandler handles team setting HTTP requests
type TeamSettingHandler struct {
	settingService *service.TeamSettingService
}

// NewTeamSettingHandler creates a new TeamSettingHandler
func NewTeamSettingHandler(settingService *service.TeamSettingService) *TeamSettingHandler {
	return &TeamSettingHandler{settingService: settingService}
}

// TeamSettingResponse represents a team setting in API responses
type TeamSettingResponse struct {
	ID                      int32     `json:"id"`
	TeamName                string    `json:"teamName"`
	Currency                string    `json:"currency"`
	CommunicationPreference string    `json:"communicationPreference"`
	Role                    string    `json:"role"`
	WorkPhone               string    `json:"workPhone"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// UpdateTeamSettingRequest represents the update request. Role and work
// phone are not client-editable.
type UpdateTeamSettingRequest struct {
	TeamName                string `json:"teamName"`
	Currency                string `json:"currency"`
	CommunicationPreference string `json:"communicationPreference"`
}

func toTeamSettingResponse(setting *domain.TeamSetting) TeamSettingResponse {
	return TeamSettingResponse{
		ID:                      setting.ID,
		TeamName:                setting.TeamName,
		Currency:                string(setting.Currency),
		CommunicationPreference: setting.CommunicationPreference,
		Role:                    string(setting.Role),
		WorkPhone:               setting.WorkPhone,
		UpdatedAt:               setting.UpdatedAt,
	}
}

// GetSetting handles GET /settings
func (h *TeamSettingHandler) GetSetting(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	setting, err := h.settingService.GetByIdentity(identityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Team setting not found")
		}
		return NewDomainError(c, err)
	}

	return c.JSON(http.StatusOK, toTeamSettingResponse(setting))
}

// UpdateSetting handles PUT /settings
func (h *TeamSettingHandler) UpdateSetting(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	var req UpdateTeamSettingRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	setting, err := h.settingService.Update(identityID, service.UpdateSettingInput{
		TeamName:                req.TeamName,
		Currency:                req.Currency,
		CommunicationPreference: req.CommunicationPreference,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTeamName):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "teamName", Message: "Team name is not recognized"},
			})
		case errors.Is(err, domain.ErrInvalidCurrency):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "currency", Message: "Currency must be USD or GBP"},
			})
		case errors.Is(err, domain.ErrNotFound):
			return NewNotFoundError(c, "Team setting not found")
		default:
			return NewDomainError(c, err)
		}
	}

	return c.JSON(http.StatusOK, toTeamSettingResponse(setting))
}
