package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/vlietberg/teambudget-backend/internal/domain"
)

// ProfileService handles profile reads and manager-gated profile edits
type ProfileService struct {
	identityRepo   domain.IdentityRepository
	permissionRepo domain.PermissionRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(identityRepo domain.IdentityRepository, permissionRepo domain.PermissionRepository) *ProfileService {
	return &ProfileService{identityRepo: identityRepo, permissionRepo: permissionRepo}
}

// Profile is an identity together with its derived attributes and
// permission set, for consumption by presentation layers.
type Profile struct {
	Identity     *domain.Identity     `json:"identity"`
	AccountLevel domain.AccountLevel  `json:"accountLevel"`
	IsManager    bool                 `json:"isManager"`
	Permissions  domain.PermissionSet `json:"permissions"`
}

// GetProfile retrieves an identity's profile
func (s *ProfileService) GetProfile(identityID uuid.UUID) (*Profile, error) {
	identity, err := s.identityRepo.GetByID(identityID)
	if err != nil {
		return nil, err
	}
	permissions, err := s.permissionRepo.GetByIdentity(identityID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		Identity:     identity,
		AccountLevel: identity.AccountLevel(),
		IsManager:    identity.IsManager(),
		Permissions:  permissions,
	}, nil
}

// UpdateProfileInput is the editable profile surface
type UpdateProfileInput struct {
	Username string
	Email    string
	Team     string
}

// UpdateProfile updates username, email and team. Only managers may edit
// their profile; for everyone else the profile is read-only.
func (s *ProfileService) UpdateProfile(identityID uuid.UUID, input UpdateProfileInput) (*Profile, error) {
	identity, err := s.identityRepo.GetByID(identityID)
	if err != nil {
		return nil, err
	}
	if !identity.IsManager() {
		return nil, domain.ErrForbidden
	}

	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" {
		return nil, domain.ErrNameRequired
	}
	team := strings.TrimSpace(input.Team)
	if team != "" && !domain.ValidTeamName(team) {
		return nil, domain.ErrInvalidTeamName
	}

	identity.Username = username
	identity.Email = email
	if team != "" {
		identity.Team = team
	}

	if _, err := s.identityRepo.Update(identity); err != nil {
		return nil, err
	}
	return s.GetProfile(identityID)
}

// DeleteAccount removes the identity. Team setting, budgets and
// transactions cascade with it.
func (s *ProfileService) DeleteAccount(identityID uuid.UUID) error {
	return s.identityRepo.Delete(identityID)
}
