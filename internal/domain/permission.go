package domain

import "github.com/google/uuid"

// Capability is a named action an identity may perform on a resource.
type Capability string

const (
	CapabilityCreate Capability = "create"
	CapabilityView   Capability = "view"
	CapabilityUpdate Capability = "update"
	CapabilityDelete Capability = "delete"
	CapabilityManage Capability = "manage"
)

// Resource is a permission scope.
type Resource string

const (
	ResourceBudget      Resource = "budget"
	ResourceTransaction Resource = "transaction"
	ResourceCategory    Resource = "category"
	ResourceIdentity    Resource = "identity"
)

// Permission pairs a capability with the resource it applies to.
type Permission struct {
	Capability Capability `json:"capability"`
	Resource   Resource   `json:"resource"`
}

// PermissionSet is the full set of permissions held by an identity.
type PermissionSet []Permission

// Allows reports whether the set contains the capability on the resource.
func (s PermissionSet) Allows(capability Capability, resource Resource) bool {
	for _, p := range s {
		if p.Capability == capability && p.Resource == resource {
			return true
		}
	}
	return false
}

// Contains reports whether the set contains the exact permission.
func (s PermissionSet) Contains(p Permission) bool {
	return s.Allows(p.Capability, p.Resource)
}

var allCapabilities = []Capability{
	CapabilityCreate, CapabilityView, CapabilityUpdate, CapabilityDelete, CapabilityManage,
}

var allResources = []Resource{
	ResourceBudget, ResourceTransaction, ResourceCategory, ResourceIdentity,
}

// FullPermissionSet returns every capability on every resource. Granted to
// admin identities.
func FullPermissionSet() PermissionSet {
	set := make(PermissionSet, 0, len(allCapabilities)*len(allResources))
	for _, r := range allResources {
		for _, c := range allCapabilities {
			set = append(set, Permission{Capability: c, Resource: r})
		}
	}
	return set
}

// RegularPermissionSet returns exactly create, view and update on budget
// and transaction resources. No delete, no administrative capabilities.
func RegularPermissionSet() PermissionSet {
	return PermissionSet{
		{Capability: CapabilityCreate, Resource: ResourceBudget},
		{Capability: CapabilityView, Resource: ResourceBudget},
		{Capability: CapabilityUpdate, Resource: ResourceBudget},
		{Capability: CapabilityCreate, Resource: ResourceTransaction},
		{Capability: CapabilityView, Resource: ResourceTransaction},
		{Capability: CapabilityUpdate, Resource: ResourceTransaction},
	}
}

// PermissionSetForRole returns the fixed grant for a role.
func PermissionSetForRole(role Role) (PermissionSet, error) {
	switch role {
	case RoleAdmin:
		return FullPermissionSet(), nil
	case RoleRegular:
		return RegularPermissionSet(), nil
	default:
		return nil, ErrInvalidRole
	}
}

// PermissionRepository is the persistence facility permissions are
// attached through. Replace overwrites the identity's set atomically.
type PermissionRepository interface {
	Replace(identityID uuid.UUID, set PermissionSet) error
	GetByIdentity(identityID uuid.UUID) (PermissionSet, error)
}
