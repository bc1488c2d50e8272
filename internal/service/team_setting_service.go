package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/vlietberg/teambudget-backend/internal/domain"
)

// TeamSettingService handles reads and edits of the per-identity team setting
type TeamSettingService struct {
	settingRepo domain.TeamSettingRepository
}

// NewTeamSettingService creates a new TeamSettingService
func NewTeamSettingService(settingRepo domain.TeamSettingRepository) *TeamSettingService {
	return &TeamSettingService{settingRepo: settingRepo}
}

// GetByIdentity retrieves the identity's team setting
func (s *TeamSettingService) GetByIdentity(identityID uuid.UUID) (*domain.TeamSetting, error) {
	return s.settingRepo.GetByIdentityID(identityID)
}

// UpdateSettingInput is the client-editable portion of a team setting.
// Role snapshot and work phone are reconciler-owned.
type UpdateSettingInput struct {
	TeamName                string
	Currency                string
	CommunicationPreference string
}

// Update updates the client-editable fields of the identity's team setting
func (s *TeamSettingService) Update(identityID uuid.UUID, input UpdateSettingInput) (*domain.TeamSetting, error) {
	setting, err := s.settingRepo.GetByIdentityID(identityID)
	if err != nil {
		return nil, err
	}

	if teamName := strings.TrimSpace(input.TeamName); teamName != "" {
		if !domain.ValidTeamName(teamName) {
			return nil, domain.ErrInvalidTeamName
		}
		setting.TeamName = teamName
	}
	if input.Currency != "" {
		currency := domain.Currency(strings.ToUpper(input.Currency))
		if !currency.Valid() {
			return nil, domain.ErrInvalidCurrency
		}
		setting.Currency = currency
	}
	if pref := strings.TrimSpace(input.CommunicationPreference); pref != "" {
		setting.CommunicationPreference = pref
	}

	return s.settingRepo.Update(setting)
}
