package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the coarse authorization flag carried by every identity.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleRegular Role = "regular"
)

// DefaultRole is the role assigned on self-registration. Elevation to
// admin is a separate operation performed by an existing admin.
const DefaultRole = RoleRegular

// Valid reports whether the role is one of the recognized values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleRegular
}

// AccountLevel is a classification derived from Role, never stored.
type AccountLevel string

const (
	AccountLevelManager   AccountLevel = "manager"
	AccountLevelDeveloper AccountLevel = "developer"
)

// Identity represents an authenticated principal.
type Identity struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Team         string    `json:"team"`
	WorkPhone    string    `json:"workPhone"`
	AvatarPath   *string   `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AccountLevel derives the account level from the role. admin maps to
// manager, regular maps to developer.
func (i *Identity) AccountLevel() AccountLevel {
	if i.Role == RoleAdmin {
		return AccountLevelManager
	}
	return AccountLevelDeveloper
}

// IsManager derives the manager flag from the role.
func (i *Identity) IsManager() bool {
	return i.Role == RoleAdmin
}

// IdentityRepository defines the interface for identity persistence operations
type IdentityRepository interface {
	GetByID(id uuid.UUID) (*Identity, error)
	GetByEmail(email string) (*Identity, error)
	GetByUsername(username string) (*Identity, error)
	Create(identity *Identity) (*Identity, error)
	Update(identity *Identity) (*Identity, error)
	UpdateRole(id uuid.UUID, role Role) (*Identity, error)
	UpdateAvatarPath(id uuid.UUID, path *string) error
	Delete(id uuid.UUID) error
	WorkPhoneExists(phone string) (bool, error)
}
