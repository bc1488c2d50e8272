package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/vlietberg/teambudget-backend/internal/domain"
	"github.com/vlietberg/teambudget-backend/internal/middleware"
	"github.com/vlietberg/teambudget-backend/internal/service"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
	avatarService  *service.AvatarService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService, avatarService *service.AvatarService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, avatarService: avatarService}
}

// ProfileResponse represents the profile response
type ProfileResponse struct {
	Identity     IdentityResponse  `json:"identity"`
	AccountLevel string            `json:"accountLevel"`
	IsManager    bool              `json:"isManager"`
	Permissions  []PermissionEntry `json:"permissions"`
}

// PermissionEntry represents a single granted permission
type PermissionEntry struct {
	Capability string `json:"capability"`
	Resource   string `json:"resource"`
}

// UpdateProfileRequest represents the update profile request
type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Team     string `json:"team"`
}

func toProfileResponse(profile *service.Profile) ProfileResponse {
	permissions := make([]PermissionEntry, 0, len(profile.Permissions))
	for _, p := range profile.Permissions {
		permissions = append(permissions, PermissionEntry{
			Capability: string(p.Capability),
			Resource:   string(p.Resource),
		})
	}
	return ProfileResponse{
		Identity:     toIdentityResponse(profile.Identity),
		AccountLevel: string(profile.AccountLevel),
		IsManager:    profile.IsManager,
		Permissions:  permissions,
	}
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	profile, err := h.profileService.GetProfile(identityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Identity not found")
		}
		return NewDomainError(c, err)
	}

	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile handles PUT /profile
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	profile, err := h.profileService.UpdateProfile(identityID, service.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
		Team:     req.Team,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Only managers may edit their profile")
		case errors.Is(err, domain.ErrEmailTaken):
			return NewConflictError(c, "Email is already registered")
		case errors.Is(err, domain.ErrUsernameTaken):
			return NewConflictError(c, "Username is already taken")
		default:
			return NewDomainError(c, err)
		}
	}

	log.Info().Str("identity_id", identityID.String()).Msg("Profile updated")

	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// DeleteAccount handles DELETE /profile
func (h *ProfileHandler) DeleteAccount(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	if err := h.profileService.DeleteAccount(identityID); err != nil {
		return NewDomainError(c, err)
	}

	log.Info().Str("identity_id", identityID.String()).Msg("Account deleted")

	return c.NoContent(http.StatusNoContent)
}

// UploadAvatar handles POST /profile/avatar
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	if h.avatarService == nil || !h.avatarService.IsEnabled() {
		return NewNotFoundError(c, "Avatar storage is not configured")
	}

	identityID := middleware.GetIdentityID(c)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return NewValidationError(c, "Avatar file is required", nil)
	}
	if fileHeader.Size > service.MaxAvatarSize {
		return NewValidationError(c, "Avatar file is too large", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return NewValidationError(c, "Unable to read avatar file", nil)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxAvatarSize+1))
	if err != nil {
		return NewValidationError(c, "Unable to read avatar file", nil)
	}
	if int64(len(data)) > service.MaxAvatarSize {
		return NewValidationError(c, "Avatar file is too large", nil)
	}

	urls, err := h.avatarService.Upload(c.Request().Context(), identityID, data, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAvatarTooLarge),
			errors.Is(err, service.ErrAvatarTooSmall),
			errors.Is(err, service.ErrInvalidFormat),
			errors.Is(err, service.ErrInvalidImageData):
			return NewValidationError(c, err.Error(), nil)
		default:
			log.Error().Err(err).Str("identity_id", identityID.String()).Msg("Avatar upload failed")
			return NewInternalError(c, "Failed to upload avatar")
		}
	}

	return c.JSON(http.StatusOK, urls)
}

// GetAvatar handles GET /profile/avatar
func (h *ProfileHandler) GetAvatar(c echo.Context) error {
	if h.avatarService == nil || !h.avatarService.IsEnabled() {
		return NewNotFoundError(c, "Avatar storage is not configured")
	}

	identityID := middleware.GetIdentityID(c)

	urls, err := h.avatarService.GetURLs(c.Request().Context(), identityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Identity not found")
		}
		return NewDomainError(c, err)
	}
	if urls == nil {
		return NewNotFoundError(c, "No avatar uploaded")
	}

	return c.JSON(http.StatusOK, urls)
}

// DeleteAvatar handles DELETE /profile/avatar
func (h *ProfileHandler) DeleteAvatar(c echo.Context) error {
	if h.avatarService == nil || !h.avatarService.IsEnabled() {
		return NewNotFoundError(c, "Avatar storage is not configured")
	}

	identityID := middleware.GetIdentityID(c)

	if err := h.avatarService.Delete(c.Request().Context(), identityID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "No avatar uploaded")
		}
		return NewDomainError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
