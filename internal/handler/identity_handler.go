package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/vlietberg/teambudget-backend/internal/domain"
	"github.com/vlietberg/teambudget-backend/internal/middleware"
	"github.com/vlietberg/teambudget-backend/internal/service"
)

// IdentityHandler handles administrative identity operations
type IdentityHandler struct {
	reconciler *service.ReconcilerService
}

// NewIdentityHandler creates a new IdentityHandler
func NewIdentityHandler(reconciler *service.ReconcilerService) *IdentityHandler {
	return &IdentityHandler{reconciler: reconciler}
}

// ChangeRoleRequest represents the role change request
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// ChangeRole handles PUT /identities/:id/role. Only admin identities may
// change roles; regular identities have no path to self-elevation.
func (h *IdentityHandler) ChangeRole(c echo.Context) error {
	actorID := middleware.GetIdentityID(c)

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid identity ID", nil)
	}

	var req ChangeRoleRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	identity, err := h.reconciler.ElevateRole(actorID, targetID, domain.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRole):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "role", Message: "Role must be admin or regular"},
			})
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Only admin identities may change roles")
		case errors.Is(err, domain.ErrNotFound):
			return NewNotFoundError(c, "Identity not found")
		default:
			return NewDomainError(c, err)
		}
	}

	log.Info().
		Str("actor_id", actorID.String()).
		Str("identity_id", targetID.String()).
		Str("role", string(identity.Role)).
		Msg("Role changed")

	return c.JSON(http.StatusOK, toIdentityResponse(identity))
}
