package domain

// IdentityEvent identifies what triggered a reconciliation.
type IdentityEvent string

const (
	// EventIdentityCreated fires after an identity's first save.
	EventIdentityCreated IdentityEvent = "identity_created"
	// EventRoleChanged fires after an admin changes an identity's role.
	EventRoleChanged IdentityEvent = "role_changed"
)

// ReconcileTx bundles the repositories a reconciliation writes through.
// All writes made via a ReconcileTx commit or roll back together.
type ReconcileTx interface {
	Identities() IdentityRepository
	TeamSettings() TeamSettingRepository
	Permissions() PermissionRepository
}

// ReconcileStore runs a function inside a single database transaction.
// The function receives transaction-scoped repositories; returning an
// error rolls everything back.
type ReconcileStore interface {
	WithinTx(fn func(tx ReconcileTx) error) error
}
