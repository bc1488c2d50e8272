package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/vlietberg/teambudget-backend/internal/domain"
)

// IdentityRepository implements domain.IdentityRepository using PostgreSQL
type IdentityRepository struct {
	db DBTX
}

// NewIdentityRepository creates a new IdentityRepository
func NewIdentityRepository(db DBTX) *IdentityRepository {
	return &IdentityRepository{db: db}
}

const identityColumns = `id, email, username, password_hash, role, team, work_phone, avatar_path, created_at, updated_at`

// GetByID retrieves an identity by its UUID
func (r *IdentityRepository) GetByID(id uuid.UUID) (*domain.Identity, error) {
	row := r.db.QueryRow(context.Background(),
		`SELECT `+identityColumns+` FROM identities WHERE id = $1`, id)
	return scanIdentity(row)
}

// GetByEmail retrieves an identity by its unique email
func (r *IdentityRepository) GetByEmail(email string) (*domain.Identity, error) {
	row := r.db.QueryRow(context.Background(),
		`SELECT `+identityColumns+` FROM identities WHERE email = $1`, email)
	return scanIdentity(row)
}

// GetByUsername retrieves an identity by its unique username
func (r *IdentityRepository) GetByUsername(username string) (*domain.Identity, error) {
	row := r.db.QueryRow(context.Background(),
		`SELECT `+identityColumns+` FROM identities WHERE username = $1`, username)
	return scanIdentity(row)
}

// Create inserts a new identity. Uniqueness violations on email, username
// and work phone map to their domain conflict errors.
func (r *IdentityRepository) Create(identity *domain.Identity) (*domain.Identity, error) {
	row := r.db.QueryRow(context.Background(),
		`INSERT INTO identities (email, username, password_hash, role, team, work_phone)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+identityColumns,
		identity.Email, identity.Username, identity.PasswordHash,
		string(identity.Role), identity.Team, identity.WorkPhone)
	created, err := scanIdentity(row)
	if err != nil {
		return nil, mapIdentityConflict(err)
	}
	return created, nil
}

// Update updates email, username, team and work phone
func (r *IdentityRepository) Update(identity *domain.Identity) (*domain.Identity, error) {
	row := r.db.QueryRow(context.Background(),
		`UPDATE identities
		 SET email = $2, username = $3, team = $4, work_phone = $5, password_hash = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING `+identityColumns,
		identity.ID, identity.Email, identity.Username, identity.Team,
		identity.WorkPhone, identity.PasswordHash)
	updated, err := scanIdentity(row)
	if err != nil {
		return nil, mapIdentityConflict(err)
	}
	return updated, nil
}

// UpdateRole updates only the role
func (r *IdentityRepository) UpdateRole(id uuid.UUID, role domain.Role) (*domain.Identity, error) {
	row := r.db.QueryRow(context.Background(),
		`UPDATE identities SET role = $2, updated_at = now() WHERE id = $1
		 RETURNING `+identityColumns,
		id, string(role))
	return scanIdentity(row)
}

// UpdateAvatarPath sets or clears the stored avatar object path
func (r *IdentityRepository) UpdateAvatarPath(id uuid.UUID, path *string) error {
	tag, err := r.db.Exec(context.Background(),
		`UPDATE identities SET avatar_path = $2, updated_at = now() WHERE id = $1`,
		id, stringPtrToPgText(path))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

// Delete removes an identity. Team setting, budgets and transactions
// cascade at the schema level.
func (r *IdentityRepository) Delete(id uuid.UUID) error {
	tag, err := r.db.Exec(context.Background(), `DELETE FROM identities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

// WorkPhoneExists reports whether any identity already carries the phone
func (r *IdentityRepository) WorkPhoneExists(phone string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM identities WHERE work_phone = $1)`, phone).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Helper functions

func scanIdentity(row pgx.Row) (*domain.Identity, error) {
	var (
		identity   domain.Identity
		role       string
		avatarPath pgtype.Text
	)
	err := row.Scan(&identity.ID, &identity.Email, &identity.Username,
		&identity.PasswordHash, &role, &identity.Team, &identity.WorkPhone,
		&avatarPath, &identity.CreatedAt, &identity.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, err
	}
	identity.Role = domain.Role(role)
	identity.AvatarPath = pgTextToStringPtr(avatarPath)
	return &identity, nil
}

func mapIdentityConflict(err error) error {
	switch {
	case isUniqueViolation(err, constraintIdentityEmail):
		return domain.ErrEmailTaken
	case isUniqueViolation(err, constraintIdentityUsername):
		return domain.ErrUsernameTaken
	case isUniqueViolation(err, constraintIdentityPhone):
		return domain.ErrWorkPhoneConflict
	default:
		return err
	}
}
