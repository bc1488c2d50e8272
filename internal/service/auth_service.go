package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vlietberg/teambudget-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and session tokens
type AuthService struct {
	identityRepo domain.IdentityRepository
	reconciler   *ReconcilerService
	jwtSecret    []byte
	tokenTTL     time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(identityRepo domain.IdentityRepository, reconciler *ReconcilerService, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		identityRepo: identityRepo,
		reconciler:   reconciler,
		jwtSecret:    []byte(jwtSecret),
		tokenTTL:     tokenTTL,
	}
}

// SessionClaims are the JWT claims carried by a session token
type SessionClaims struct {
	IdentityID uuid.UUID   `json:"uid"`
	Role       domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// RegisterInput is the self-registration payload
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Team            string
}

// Register creates a new identity with the default role and reconciles
// it. The posted form never chooses a role; elevation is a separate
// admin-only operation.
func (s *AuthService) Register(input RegisterInput) (*domain.Identity, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if username == "" || email == "" {
		return nil, domain.ErrNameRequired
	}
	if len(input.Password) < domain.MinPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}
	if input.Password != input.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	identity := &domain.Identity{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.DefaultRole,
		Team:         strings.TrimSpace(input.Team),
	}

	created, err := s.reconciler.CreateIdentity(identity)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to register identity")
		return nil, err
	}
	return created, nil
}

// Login authenticates by email or username and returns a signed session token
func (s *AuthService) Login(login, password string) (string, *domain.Identity, error) {
	login = strings.TrimSpace(login)

	identity, err := s.identityRepo.GetByEmail(strings.ToLower(login))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return "", nil, err
		}
		identity, err = s.identityRepo.GetByUsername(login)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return "", nil, domain.ErrInvalidCredentials
			}
			return "", nil, err
		}
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		log.Warn().Str("identity_id", identity.ID.String()).Msg("Password mismatch")
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(identity)
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("identity_id", identity.ID.String()).Msg("Identity authenticated")
	return token, identity, nil
}

// ChangePassword verifies the old password and stores a new hash
func (s *AuthService) ChangePassword(identityID uuid.UUID, oldPassword, newPassword, confirmPassword string) error {
	if len(newPassword) < domain.MinPasswordLength {
		return domain.ErrPasswordTooShort
	}
	if newPassword != confirmPassword {
		return domain.ErrPasswordMismatch
	}

	identity, err := s.identityRepo.GetByID(identityID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(oldPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	identity.PasswordHash = string(hash)
	_, err = s.identityRepo.Update(identity)
	return err
}

// GetIdentityByID retrieves an identity by its ID
func (s *AuthService) GetIdentityByID(id uuid.UUID) (*domain.Identity, error) {
	return s.identityRepo.GetByID(id)
}

// ValidateToken parses and validates a session token
func (s *AuthService) ValidateToken(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
		return nil, domain.ErrInvalidCredentials
	}
	return claims, nil
}

func (s *AuthService) issueToken(identity *domain.Identity) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		IdentityID: identity.ID,
		Role:       identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
