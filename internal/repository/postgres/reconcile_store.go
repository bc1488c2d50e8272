package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vlietberg/teambudget-backend/internal/domain"
)

// ReconcileStore implements domain.ReconcileStore over a pgx pool. Every
// reconciliation runs inside one transaction: identity update, team
// setting upsert and permission assignment commit or roll back together.
type ReconcileStore struct {
	pool *pgxpool.Pool
}

// NewReconcileStore creates a new ReconcileStore
func NewReconcileStore(pool *pgxpool.Pool) *ReconcileStore {
	return &ReconcileStore{pool: pool}
}

// WithinTx runs fn with transaction-scoped repositories
func (s *ReconcileStore) WithinTx(fn func(tx domain.ReconcileTx) error) error {
	return pgx.BeginFunc(context.Background(), s.pool, func(tx pgx.Tx) error {
		return fn(&reconcileTx{tx: tx})
	})
}

type reconcileTx struct {
	tx pgx.Tx
}

func (r *reconcileTx) Identities() domain.IdentityRepository {
	return NewIdentityRepository(r.tx)
}

func (r *reconcileTx) TeamSettings() domain.TeamSettingRepository {
	return NewTeamSettingRepository(r.tx)
}

func (r *reconcileTx) Permissions() domain.PermissionRepository {
	return NewPermissionRepository(r.tx)
}
