package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTeamName is assigned when an identity registers without a team.
const DefaultTeamName = "Video Game Consoles SDE Team"

// AllowedTeamNames is the fixed set of team names a setting may carry.
var AllowedTeamNames = []string{
	DefaultTeamName,
}

// Currency is the display currency stored per team setting.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
)

// DefaultCurrency is used when a team setting is created by reconciliation.
const DefaultCurrency = CurrencyUSD

// DefaultCommunicationPreference is used when a team setting is created.
const DefaultCommunicationPreference = "email"

// Valid reports whether the currency is one of the recognized values.
func (c Currency) Valid() bool {
	return c == CurrencyUSD || c == CurrencyGBP
}

// ValidTeamName reports whether name is in the allowed set.
func ValidTeamName(name string) bool {
	for _, allowed := range AllowedTeamNames {
		if name == allowed {
			return true
		}
	}
	return false
}

// TeamSetting is the per-identity team configuration record. Exactly one
// exists per identity once reconciliation has run.
type TeamSetting struct {
	ID                      int32     `json:"id"`
	IdentityID              uuid.UUID `json:"identityId"`
	TeamName                string    `json:"teamName"`
	Currency                Currency  `json:"currency"`
	CommunicationPreference string    `json:"communicationPreference"`
	// Role is a snapshot copied from the identity at creation and kept
	// current by reconciliation on role changes.
	Role      Role      `json:"role"`
	WorkPhone string    `json:"workPhone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TeamSettingRepository defines the interface for team setting persistence operations
type TeamSettingRepository interface {
	GetByIdentityID(identityID uuid.UUID) (*TeamSetting, error)
	Create(setting *TeamSetting) (*TeamSetting, error)
	Update(setting *TeamSetting) (*TeamSetting, error)
	UpdateRoleSnapshot(identityID uuid.UUID, role Role) (*TeamSetting, error)
}
