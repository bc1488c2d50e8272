package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/vlietberg/teambudget-backend/internal/domain"
	"github.com/vlietberg/teambudget-backend/internal/service"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// IdentityIDKey is the context key for the authenticated identity ID
	IdentityIDKey contextKey = "identity_id"
	// RoleKey is the context key for the role carried by the session token
	RoleKey contextKey = "role"
)

// TokenValidator validates a session token and returns its claims
type TokenValidator interface {
	ValidateToken(token string) (*service.SessionClaims, error)
}

// AuthMiddleware provides session token validation middleware
type AuthMiddleware struct {
	validator TokenValidator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// Authenticate returns an Echo middleware that validates session tokens
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorizedError(c, "missing authorization header")
			}

			// Check Bearer prefix
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return unauthorizedError(c, "invalid authorization header format")
			}

			claims, err := m.validator.ValidateToken(parts[1])
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				return unauthorizedError(c, "invalid token")
			}

			ctx := context.WithValue(c.Request().Context(), IdentityIDKey, claims.IdentityID)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireManager returns a middleware that rejects non-manager sessions.
// The token's role is a snapshot taken at login; services re-check the
// stored role on elevation, so this is only a fast path.
func RequireManager() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := GetRole(c)
			if role != domain.RoleAdmin {
				return forbiddenError(c, "manager access required")
			}
			return next(c)
		}
	}
}

// GetIdentityID extracts the authenticated identity ID from the context
func GetIdentityID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(IdentityIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetRole extracts the session role from the context
func GetRole(c echo.Context) domain.Role {
	if role, ok := c.Request().Context().Value(RoleKey).(domain.Role); ok {
		return role
	}
	return ""
}

// RequireIdentity is a guard for handlers that must never run without an
// authenticated identity, even if route wiring regresses
func RequireIdentity(c echo.Context) (uuid.UUID, error) {
	id := GetIdentityID(c)
	if id == uuid.Nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return id, nil
}
