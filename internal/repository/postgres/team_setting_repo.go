package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vlietberg/teambudget-backend/internal/domain"
)

// TeamSettingRepository implements domain.TeamSettingRepository using PostgreSQL
type TeamSettingRepository struct {
	db DBTX
}

// NewTeamSettingRepository creates a new TeamSettingRepository
func NewTeamSettingRepository(db DBTX) *TeamSettingRepository {
	return &TeamSettingRepository{db: db}
}

const teamSettingColumns = `id, identity_id, team_name, currency, communication_preference, role, work_phone, created_at, updated_at`

// GetByIdentityID retrieves the setting owned by an identity
func (r *TeamSettingRepository) GetByIdentityID(identityID uuid.UUID) (*domain.TeamSetting, error) {
	row := r.db.QueryRow(context.Background(),
		`SELECT `+teamSettingColumns+` FROM team_settings WHERE identity_id = $1`, identityID)
	return scanTeamSetting(row)
}

// Create inserts a new team setting. The identity_id unique constraint
// guarantees at most one setting per identity.
func (r *TeamSettingRepository) Create(setting *domain.TeamSetting) (*domain.TeamSetting, error) {
	row := r.db.QueryRow(context.Background(),
		`INSERT INTO team_settings (identity_id, team_name, currency, communication_preference, role, work_phone)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+teamSettingColumns,
		setting.IdentityID, setting.TeamName, string(setting.Currency),
		setting.CommunicationPreference, string(setting.Role), setting.WorkPhone)
	created, err := scanTeamSetting(row)
	if err != nil {
		if isUniqueViolation(err, constraintTeamSettingOwner) {
			return nil, domain.ErrTeamSettingExists
		}
		return nil, err
	}
	return created, nil
}

// Update updates the client-editable fields (team name, currency,
// communication preference)
func (r *TeamSettingRepository) Update(setting *domain.TeamSetting) (*domain.TeamSetting, error) {
	row := r.db.QueryRow(context.Background(),
		`UPDATE team_settings
		 SET team_name = $2, currency = $3, communication_preference = $4, updated_at = now()
		 WHERE identity_id = $1
		 RETURNING `+teamSettingColumns,
		setting.IdentityID, setting.TeamName, string(setting.Currency),
		setting.CommunicationPreference)
	return scanTeamSetting(row)
}

// UpdateRoleSnapshot refreshes the stored role copy after a role change
func (r *TeamSettingRepository) UpdateRoleSnapshot(identityID uuid.UUID, role domain.Role) (*domain.TeamSetting, error) {
	row := r.db.QueryRow(context.Background(),
		`UPDATE team_settings SET role = $2, updated_at = now() WHERE identity_id = $1
		 RETURNING `+teamSettingColumns,
		identityID, string(role))
	return scanTeamSetting(row)
}

func scanTeamSetting(row pgx.Row) (*domain.TeamSetting, error) {
	var (
		setting  domain.TeamSetting
		currency string
		role     string
	)
	err := row.Scan(&setting.ID, &setting.IdentityID, &setting.TeamName,
		&currency, &setting.CommunicationPreference, &role, &setting.WorkPhone,
		&setting.CreatedAt, &setting.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTeamSettingNotFound
		}
		return nil, err
	}
	setting.Currency = domain.Currency(currency)
	setting.Role = domain.Role(role)
	return &setting, nil
}
