package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/vlietberg/teambudget-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	db DBTX
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, identity_id, budget_id, amount, category_id, transaction_date, payment_method, description, type, created_at, updated_at`

// Create inserts a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	row := r.db.QueryRow(context.Background(),
		`INSERT INTO transactions (identity_id, budget_id, amount, category_id, transaction_date, payment_method, description, type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+transactionColumns,
		transaction.IdentityID, transaction.BudgetID,
		decimalToNumeric(transaction.Amount), transaction.CategoryID,
		transaction.TransactionDate, transaction.PaymentMethod,
		stringPtrToPgText(transaction.Description), string(transaction.Type))
	created, err := scanTransaction(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a transaction owned by the identity
func (r *TransactionRepository) GetByID(identityID uuid.UUID, id int32) (*domain.Transaction, error) {
	row := r.db.QueryRow(context.Background(),
		`SELECT `+transactionColumns+` FROM transactions WHERE identity_id = $1 AND id = $2`,
		identityID, id)
	return scanTransaction(row)
}

// GetByIdentity retrieves a filtered, paginated transaction listing
func (r *TransactionRepository) GetByIdentity(identityID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	where, args := buildTransactionFilter(identityID, filters)

	var totalItems int64
	err := r.db.QueryRow(context.Background(),
		`SELECT count(*) FROM transactions `+where, args...).Scan(&totalItems)
	if err != nil {
		return nil, err
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}

	query := fmt.Sprintf(
		`SELECT %s FROM transactions %s ORDER BY transaction_date DESC, id DESC LIMIT %d OFFSET %d`,
		transactionColumns, where, pageSize, (page-1)*pageSize)
	rows, err := r.db.Query(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}

	totalPages := int32(0)
	if totalItems > 0 {
		totalPages = int32((totalItems + int64(pageSize) - 1) / int64(pageSize))
	}

	return &domain.PaginatedTransactions{
		Data:       transactions,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// GetRecent retrieves the identity's most recent transactions by date
func (r *TransactionRepository) GetRecent(identityID uuid.UUID, limit int32) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(context.Background(),
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE identity_id = $1 ORDER BY transaction_date DESC, id DESC LIMIT $2`,
		identityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// Update updates a transaction's editable fields
func (r *TransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	row := r.db.QueryRow(context.Background(),
		`UPDATE transactions
		 SET budget_id = $3, amount = $4, category_id = $5, transaction_date = $6,
		     payment_method = $7, description = $8, type = $9, updated_at = now()
		 WHERE identity_id = $1 AND id = $2
		 RETURNING `+transactionColumns,
		transaction.IdentityID, transaction.ID, transaction.BudgetID,
		decimalToNumeric(transaction.Amount), transaction.CategoryID,
		transaction.TransactionDate, transaction.PaymentMethod,
		stringPtrToPgText(transaction.Description), string(transaction.Type))
	updated, err := scanTransaction(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a transaction owned by the identity
func (r *TransactionRepository) Delete(identityID uuid.UUID, id int32) error {
	tag, err := r.db.Exec(context.Background(),
		`DELETE FROM transactions WHERE identity_id = $1 AND id = $2`, identityID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// SumByCategory sums amounts of the given type grouped by category
func (r *TransactionRepository) SumByCategory(identityID uuid.UUID, txType domain.TransactionType) ([]*domain.CategoryTotal, error) {
	rows, err := r.db.Query(context.Background(),
		`SELECT t.category_id, c.name, sum(t.amount)
		 FROM transactions t
		 JOIN expense_categories c ON c.id = t.category_id
		 WHERE t.identity_id = $1 AND t.type = $2
		 GROUP BY t.category_id, c.name
		 ORDER BY sum(t.amount) DESC`,
		identityID, string(txType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*domain.CategoryTotal
	for rows.Next() {
		var (
			ct  domain.CategoryTotal
			sum pgtype.Numeric
		)
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &sum); err != nil {
			return nil, err
		}
		ct.Total = numericToDecimal(sum)
		totals = append(totals, &ct)
	}
	return totals, rows.Err()
}

// SumFiltered totals amounts over the same filter set as GetByIdentity
func (r *TransactionRepository) SumFiltered(identityID uuid.UUID, filters *domain.TransactionFilters) (decimal.Decimal, error) {
	where, args := buildTransactionFilter(identityID, filters)

	var sum pgtype.Numeric
	err := r.db.QueryRow(context.Background(),
		`SELECT COALESCE(sum(amount), 0) FROM transactions `+where, args...).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return numericToDecimal(sum), nil
}

// Helper functions

func buildTransactionFilter(identityID uuid.UUID, filters *domain.TransactionFilters) (string, []any) {
	clauses := []string{"identity_id = $1"}
	args := []any{identityID}

	if filters == nil {
		return "WHERE identity_id = $1", args
	}
	if filters.BudgetID != nil {
		args = append(args, *filters.BudgetID)
		clauses = append(clauses, fmt.Sprintf("budget_id = $%d", len(args)))
	}
	if filters.CategoryID != nil {
		args = append(args, *filters.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filters.StartDate != nil {
		args = append(args, *filters.StartDate)
		clauses = append(clauses, fmt.Sprintf("transaction_date >= $%d", len(args)))
	}
	if filters.EndDate != nil {
		args = append(args, *filters.EndDate)
		clauses = append(clauses, fmt.Sprintf("transaction_date <= $%d", len(args)))
	}
	if filters.Type != nil {
		args = append(args, string(*filters.Type))
		clauses = append(clauses, fmt.Sprintf("type = $%d", len(args)))
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t           domain.Transaction
		amount      pgtype.Numeric
		description pgtype.Text
		txType      string
	)
	err := row.Scan(&t.ID, &t.IdentityID, &t.BudgetID, &amount, &t.CategoryID,
		&t.TransactionDate, &t.PaymentMethod, &description, &txType,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	t.Amount = numericToDecimal(amount)
	t.Description = pgTextToStringPtr(description)
	t.Type = domain.TransactionType(txType)
	return &t, nil
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for rows.Next() {
		var (
			t           domain.Transaction
			amount      pgtype.Numeric
			description pgtype.Text
			txType      string
		)
		if err := rows.Scan(&t.ID, &t.IdentityID, &t.BudgetID, &amount, &t.CategoryID,
			&t.TransactionDate, &t.PaymentMethod, &description, &txType,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Amount = numericToDecimal(amount)
		t.Description = pgTextToStringPtr(description)
		t.Type = domain.TransactionType(txType)
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}
