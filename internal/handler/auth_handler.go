package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/vlietberg/teambudget-backend/internal/domain"
	"github.com/vlietberg/teambudget-backend/internal/middleware"
	"github.com/vlietberg/teambudget-backend/internal/service"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Team            string `json:"team"`
}

// LoginRequest represents the login request. Login accepts either an
// email address or a username.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// ChangePasswordRequest represents the change password request
type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// IdentityResponse represents an identity in API responses
type IdentityResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	Team         string `json:"team"`
	WorkPhone    string `json:"workPhone"`
	AccountLevel string `json:"accountLevel"`
	IsManager    bool   `json:"isManager"`
}

// SessionResponse represents the login response
type SessionResponse struct {
	Token    string           `json:"token"`
	Identity IdentityResponse `json:"identity"`
}

func toIdentityResponse(identity *domain.Identity) IdentityResponse {
	return IdentityResponse{
		ID:           identity.ID.String(),
		Email:        identity.Email,
		Username:     identity.Username,
		Role:         string(identity.Role),
		Team:         identity.Team,
		WorkPhone:    identity.WorkPhone,
		AccountLevel: string(identity.AccountLevel()),
		IsManager:    identity.IsManager(),
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	identity, err := h.authService.Register(service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Team:            req.Team,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			return NewConflictError(c, "Email is already registered")
		case errors.Is(err, domain.ErrUsernameTaken):
			return NewConflictError(c, "Username is already taken")
		case errors.Is(err, domain.ErrPasswordTooShort):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "password", Message: "Password is too short"},
			})
		case errors.Is(err, domain.ErrPasswordMismatch):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "confirmPassword", Message: "Passwords do not match"},
			})
		case errors.Is(err, domain.ErrInvalidTeamName):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "team", Message: "Unrecognized team name"},
			})
		default:
			return NewDomainError(c, err)
		}
	}

	log.Info().Str("identity_id", identity.ID.String()).Msg("Identity registered")

	return c.JSON(http.StatusCreated, toIdentityResponse(identity))
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Login == "" || req.Password == "" {
		return NewValidationError(c, "Login and password are required", nil)
	}

	token, identity, err := h.authService.Login(req.Login, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return NewUnauthorizedError(c, "Invalid credentials")
		}
		return NewDomainError(c, err)
	}

	return c.JSON(http.StatusOK, SessionResponse{
		Token:    token,
		Identity: toIdentityResponse(identity),
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	identity, err := h.authService.GetIdentityByID(identityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Identity not found")
		}
		return NewDomainError(c, err)
	}

	return c.JSON(http.StatusOK, toIdentityResponse(identity))
}

// Logout handles POST /auth/logout. Session tokens are stateless, so
// this only confirms the client should discard the token.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// ChangePassword handles POST /auth/change-password
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	err := h.authService.ChangePassword(identityID, req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return NewUnauthorizedError(c, "Current password is incorrect")
		case errors.Is(err, domain.ErrPasswordTooShort):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "newPassword", Message: "Password is too short"},
			})
		case errors.Is(err, domain.ErrPasswordMismatch):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "confirmPassword", Message: "Passwords do not match"},
			})
		default:
			return NewDomainError(c, err)
		}
	}

	log.Info().Str("identity_id", identityID.String()).Msg("Password changed")

	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed"})
}
