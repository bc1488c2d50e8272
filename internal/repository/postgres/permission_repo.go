package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/vlietberg/teambudget-backend/internal/domain"
)

// PermissionRepository implements domain.PermissionRepository using PostgreSQL
type PermissionRepository struct {
	db DBTX
}

// NewPermissionRepository creates a new PermissionRepository
func NewPermissionRepository(db DBTX) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// Replace overwrites the identity's permission set. Callers run this
// inside the reconciliation transaction so delete and insert are atomic.
func (r *PermissionRepository) Replace(identityID uuid.UUID, set domain.PermissionSet) error {
	ctx := context.Background()
	_, err := r.db.Exec(ctx,
		`DELETE FROM identity_permissions WHERE identity_id = $1`, identityID)
	if err != nil {
		return err
	}

	for _, p := range set {
		_, err := r.db.Exec(ctx,
			`INSERT INTO identity_permissions (identity_id, capability, resource) VALUES ($1, $2, $3)`,
			identityID, string(p.Capability), string(p.Resource))
		if err != nil {
			return err
		}
	}
	return nil
}

// GetByIdentity retrieves the identity's permission set
func (r *PermissionRepository) GetByIdentity(identityID uuid.UUID) (domain.PermissionSet, error) {
	rows, err := r.db.Query(context.Background(),
		`SELECT capability, resource FROM identity_permissions WHERE identity_id = $1
		 ORDER BY resource, capability`, identityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var set domain.PermissionSet
	for rows.Next() {
		var capability, resource string
		if err := rows.Scan(&capability, &resource); err != nil {
			return nil, err
		}
		set = append(set, domain.Permission{
			Capability: domain.Capability(capability),
			Resource:   domain.Resource(resource),
		})
	}
	return set, rows.Err()
}
