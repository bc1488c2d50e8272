package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/vlietberg/teambudget-backend/internal/domain"
)

// ExpenseCategoryRepository implements domain.ExpenseCategoryRepository using PostgreSQL
type ExpenseCategoryRepository struct {
	db DBTX
}

// NewExpenseCategoryRepository creates a new ExpenseCategoryRepository
func NewExpenseCategoryRepository(db DBTX) *ExpenseCategoryRepository {
	return &ExpenseCategoryRepository{db: db}
}

// Create inserts a new category
func (r *ExpenseCategoryRepository) Create(category *domain.ExpenseCategory) (*domain.ExpenseCategory, error) {
	row := r.db.QueryRow(context.Background(),
		`INSERT INTO expense_categories (name) VALUES ($1)
		 RETURNING id, name, created_at, updated_at`, category.Name)
	created, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err, constraintCategoryName) {
			return nil, domain.ErrCategoryExists
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a category by ID
func (r *ExpenseCategoryRepository) GetByID(id int32) (*domain.ExpenseCategory, error) {
	row := r.db.QueryRow(context.Background(),
		`SELECT id, name, created_at, updated_at FROM expense_categories WHERE id = $1`, id)
	return scanCategory(row)
}

// GetByName retrieves a category by its unique name
func (r *ExpenseCategoryRepository) GetByName(name string) (*domain.ExpenseCategory, error) {
	row := r.db.QueryRow(context.Background(),
		`SELECT id, name, created_at, updated_at FROM expense_categories WHERE name = $1`, name)
	return scanCategory(row)
}

// GetAll retrieves all categories ordered by name
func (r *ExpenseCategoryRepository) GetAll() ([]*domain.ExpenseCategory, error) {
	rows, err := r.db.Query(context.Background(),
		`SELECT id, name, created_at, updated_at FROM expense_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.ExpenseCategory
	for rows.Next() {
		var c domain.ExpenseCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// Update renames a category
func (r *ExpenseCategoryRepository) Update(id int32, name string) (*domain.ExpenseCategory, error) {
	row := r.db.QueryRow(context.Background(),
		`UPDATE expense_categories SET name = $2, updated_at = now() WHERE id = $1
		 RETURNING id, name, created_at, updated_at`, id, name)
	updated, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err, constraintCategoryName) {
			return nil, domain.ErrCategoryExists
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a category. Budgets and transactions reference categories
// with ON DELETE RESTRICT, so deleting a referenced category surfaces as
// ErrCategoryInUse instead of cascading.
func (r *ExpenseCategoryRepository) Delete(id int32) error {
	tag, err := r.db.Exec(context.Background(),
		`DELETE FROM expense_categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// IsReferenced reports whether any budget or transaction references the category
func (r *ExpenseCategoryRepository) IsReferenced(id int32) (bool, error) {
	var referenced bool
	err := r.db.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM budgets WHERE category_id = $1)
		     OR EXISTS (SELECT 1 FROM transactions WHERE category_id = $1)`, id).Scan(&referenced)
	if err != nil {
		return false, err
	}
	return referenced, nil
}

func scanCategory(row pgx.Row) (*domain.ExpenseCategory, error) {
	var c domain.ExpenseCategory
	err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}
