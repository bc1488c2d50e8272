package service

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vlietberg/teambudget-backend/internal/domain"
)

const (
	// maxWorkPhoneAttempts bounds the uniqueness-seeking retry loop for
	// generated work phones. At tens of users the collision probability
	// over a 9x10^9 value space is negligible; the bound exists so a
	// pathological store never spins forever.
	maxWorkPhoneAttempts = 5

	workPhoneMin = 1_000_000_000
	workPhoneMax = 9_999_999_999
)

// ReconcilerService keeps an identity's derived attributes, permission
// set and team setting consistent with its role. It is the sole writer
// for that invariant: registration and role changes both funnel through
// Reconcile, explicitly, rather than through implicit save hooks.
type ReconcilerService struct {
	store domain.ReconcileStore

	// phoneGen produces work phone candidates; swappable in tests.
	phoneGen func() string
}

// NewReconcilerService creates a new ReconcilerService
func NewReconcilerService(store domain.ReconcileStore) *ReconcilerService {
	return &ReconcilerService{
		store:    store,
		phoneGen: randomWorkPhone,
	}
}

// randomWorkPhone draws a 10-digit numeric string uniformly from its
// valid range.
func randomWorkPhone() string {
	return fmt.Sprintf("%d", workPhoneMin+rand.Int64N(workPhoneMax-workPhoneMin+1))
}

// CreateIdentity persists a new identity and reconciles it in a single
// transaction: identity insert, team setting creation and permission
// grant commit or roll back together.
func (s *ReconcilerService) CreateIdentity(identity *domain.Identity) (*domain.Identity, error) {
	if !identity.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	var created *domain.Identity
	err := s.store.WithinTx(func(tx domain.ReconcileTx) error {
		c, err := tx.Identities().Create(identity)
		if err != nil {
			return err
		}
		created, err = s.reconcileInTx(tx, c, domain.EventIdentityCreated)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("identity_id", created.ID.String()).
		Str("role", string(created.Role)).
		Str("account_level", string(created.AccountLevel())).
		Msg("Identity created and reconciled")
	return created, nil
}

// Reconcile is the entry point for re-running reconciliation on an
// existing identity, e.g. to recover from a partial failure. It is
// idempotent: a second run leaves the identity, its single team setting
// and its permission set unchanged.
func (s *ReconcilerService) Reconcile(identityID uuid.UUID, event domain.IdentityEvent) error {
	return s.store.WithinTx(func(tx domain.ReconcileTx) error {
		identity, err := tx.Identities().GetByID(identityID)
		if err != nil {
			return err
		}
		_, err = s.reconcileInTx(tx, identity, event)
		return err
	})
}

// ElevateRole transitions target's role. Only an actor currently in the
// admin state may perform the transition; transitions are reversible.
func (s *ReconcilerService) ElevateRole(actorID, targetID uuid.UUID, newRole domain.Role) (*domain.Identity, error) {
	if !newRole.Valid() {
		return nil, domain.ErrInvalidRole
	}

	var updated *domain.Identity
	err := s.store.WithinTx(func(tx domain.ReconcileTx) error {
		actor, err := tx.Identities().GetByID(actorID)
		if err != nil {
			return err
		}
		if !actor.IsManager() {
			return domain.ErrForbidden
		}

		target, err := tx.Identities().GetByID(targetID)
		if err != nil {
			return err
		}
		if target.Role == newRole {
			updated = target
			return nil
		}

		target, err = tx.Identities().UpdateRole(targetID, newRole)
		if err != nil {
			return err
		}
		updated, err = s.reconcileInTx(tx, target, domain.EventRoleChanged)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("actor_id", actorID.String()).
		Str("identity_id", targetID.String()).
		Str("role", string(updated.Role)).
		Msg("Role changed and reconciled")
	return updated, nil
}

// reconcileInTx enforces the consistency invariant inside an open
// transaction. After it returns without error: account level and manager
// flag follow the role, exactly one team setting exists with a current
// role snapshot, and the permission set matches the role's fixed grant.
func (s *ReconcilerService) reconcileInTx(tx domain.ReconcileTx, identity *domain.Identity, event domain.IdentityEvent) (*domain.Identity, error) {
	if !identity.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	dirty := false
	if identity.Team == "" {
		identity.Team = domain.DefaultTeamName
		dirty = true
	}
	if !domain.ValidTeamName(identity.Team) {
		return nil, domain.ErrInvalidTeamName
	}
	if identity.WorkPhone == "" {
		phone, err := s.generateWorkPhone(tx.Identities())
		if err != nil {
			return nil, err
		}
		identity.WorkPhone = phone
		dirty = true
	}
	if dirty {
		var err error
		identity, err = tx.Identities().Update(identity)
		if err != nil {
			return nil, err
		}
	}

	if err := s.ensureTeamSetting(tx.TeamSettings(), identity, event); err != nil {
		return nil, err
	}

	set, err := domain.PermissionSetForRole(identity.Role)
	if err != nil {
		return nil, err
	}
	if err := tx.Permissions().Replace(identity.ID, set); err != nil {
		return nil, err
	}

	return identity, nil
}

// ensureTeamSetting upserts the identity's single team setting. On a role
// change the existing record is kept and only its role snapshot updated.
func (s *ReconcilerService) ensureTeamSetting(settings domain.TeamSettingRepository, identity *domain.Identity, event domain.IdentityEvent) error {
	existing, err := settings.GetByIdentityID(identity.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		// Missing setting: create regardless of event so a re-run after
		// partial failure converges.
		_, err = settings.Create(&domain.TeamSetting{
			IdentityID:              identity.ID,
			TeamName:                identity.Team,
			Currency:                domain.DefaultCurrency,
			CommunicationPreference: domain.DefaultCommunicationPreference,
			Role:                    identity.Role,
			WorkPhone:               identity.WorkPhone,
		})
		if errors.Is(err, domain.ErrTeamSettingExists) {
			// Lost a create race; the uniqueness guard kept the count at one.
			return nil
		}
		return err
	}

	if existing.Role != identity.Role {
		_, err = settings.UpdateRoleSnapshot(identity.ID, identity.Role)
		return err
	}
	return nil
}

// generateWorkPhone produces a globally unique candidate, retrying a
// bounded number of times before surfacing a conflict.
func (s *ReconcilerService) generateWorkPhone(identities domain.IdentityRepository) (string, error) {
	for attempt := 0; attempt < maxWorkPhoneAttempts; attempt++ {
		candidate := s.phoneGen()
		exists, err := identities.WorkPhoneExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		log.Debug().Int("attempt", attempt+1).Msg("Work phone collision, retrying")
	}
	return "", domain.ErrWorkPhoneConflict
}
