package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether the transaction type is recognized.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is owned by exactly one identity and one budget.
type Transaction struct {
	ID              int32           `json:"id"`
	IdentityID      uuid.UUID       `json:"identityId"`
	BudgetID        int32           `json:"budgetId"`
	Amount          decimal.Decimal `json:"amount"`
	CategoryID      int32           `json:"categoryId"`
	TransactionDate time.Time       `json:"transactionDate"`
	PaymentMethod   string          `json:"paymentMethod"`
	Description     *string         `json:"description,omitempty"`
	Type            TransactionType `json:"type"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type TransactionFilters struct {
	BudgetID   *int32
	CategoryID *int32
	StartDate  *time.Time
	EndDate    *time.Time
	Type       *TransactionType
	Page       int32
	PageSize   int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

/// CategoryTotal is an aggregation row: total amount grouped by category.
type CategoryTotal struct {
	CategoryID   int32           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Total        decimal.Decimal `json:"total"`
}

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(identityID uuid.UUID, id int32) (*Transaction, error)
	GetByIdentity(identityID uuid.UUID, filters *TransactionFilters) (*PaginatedTransactions, error)
	GetRecent(identityID uuid.UUID, limit int32) ([]*Transaction, error)
	Update(transaction *Transaction) (*Transaction, error)
	Delete(identityID uuid.UUID, id int32) error
	SumByCategory(identityID uuid.UUID, txType TransactionType) ([]*CategoryTotal, error)
	SumFiltered(identityID uuid.UUID, filters *TransactionFilters) (decimal.Decimal, error)
}
