package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/vlietberg/teambudget-backend/internal/domain"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	db DBTX
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(db DBTX) *BudgetRepository {
	return &BudgetRepository{db: db}
}

const budgetColumns = `id, identity_id, name, income_amount, expense_amount, category_id, payment_method, created_at, updated_at`

// Create inserts a new budget
func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	row := r.db.QueryRow(context.Background(),
		`INSERT INTO budgets (identity_id, name, income_amount, expense_amount, category_id, payment_method)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+budgetColumns,
		budget.IdentityID, budget.Name,
		decimalToNumeric(budget.IncomeAmount), decimalToNumeric(budget.ExpenseAmount),
		budget.CategoryID, budget.PaymentMethod)
	created, err := scanBudget(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a budget owned by the identity
func (r *BudgetRepository) GetByID(identityID uuid.UUID, id int32) (*domain.Budget, error) {
	row := r.db.QueryRow(context.Background(),
		`SELECT `+budgetColumns+` FROM budgets WHERE identity_id = $1 AND id = $2`,
		identityID, id)
	return scanBudget(row)
}

// GetAllByIdentity retrieves all budgets owned by the identity
func (r *BudgetRepository) GetAllByIdentity(identityID uuid.UUID) ([]*domain.Budget, error) {
	rows, err := r.db.Query(context.Background(),
		`SELECT `+budgetColumns+` FROM budgets WHERE identity_id = $1 ORDER BY created_at DESC`,
		identityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBudgets(rows)
}

// GetRecent retrieves the most recently created budgets across identities
func (r *BudgetRepository) GetRecent(limit int32) ([]*domain.Budget, error) {
	rows, err := r.db.Query(context.Background(),
		`SELECT `+budgetColumns+` FROM budgets ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBudgets(rows)
}

// Update updates a budget's editable fields
func (r *BudgetRepository) Update(budget *domain.Budget) (*domain.Budget, error) {
	row := r.db.QueryRow(context.Background(),
		`UPDATE budgets
		 SET name = $3, income_amount = $4, expense_amount = $5, category_id = $6, payment_method = $7, updated_at = now()
		 WHERE identity_id = $1 AND id = $2
		 RETURNING `+budgetColumns,
		budget.IdentityID, budget.ID, budget.Name,
		decimalToNumeric(budget.IncomeAmount), decimalToNumeric(budget.ExpenseAmount),
		budget.CategoryID, budget.PaymentMethod)
	updated, err := scanBudget(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a budget owned by the identity, cascading to its transactions
func (r *BudgetRepository) Delete(identityID uuid.UUID, id int32) error {
	tag, err := r.db.Exec(context.Background(),
		`DELETE FROM budgets WHERE identity_id = $1 AND id = $2`, identityID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

// Helper functions

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		b       domain.Budget
		income  pgtype.Numeric
		expense pgtype.Numeric
	)
	err := row.Scan(&b.ID, &b.IdentityID, &b.Name, &income, &expense,
		&b.CategoryID, &b.PaymentMethod, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	b.IncomeAmount = numericToDecimal(income)
	b.ExpenseAmount = numericToDecimal(expense)
	return &b, nil
}

func collectBudgets(rows pgx.Rows) ([]*domain.Budget, error) {
	var budgets []*domain.Budget
	for rows.Next() {
		var (
			b       domain.Budget
			income  pgtype.Numeric
			expense pgtype.Numeric
		)
		if err := rows.Scan(&b.ID, &b.IdentityID, &b.Name, &income, &expense,
			&b.CategoryID, &b.PaymentMethod, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		b.IncomeAmount = numericToDecimal(income)
		b.ExpenseAmount = numericToDecimal(expense)
		budgets = append(budgets, &b)
	}
	return budgets, rows.Err()
}
