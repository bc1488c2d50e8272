package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget is owned by exactly one identity and references one expense
// category. Amounts are non-negative with two fractional digits.
type Budget struct {
	ID            int32           `json:"id"`
	IdentityID    uuid.UUID       `json:"identityId"`
	Name          string          `json:"name"`
	IncomeAmount  decimal.Decimal `json:"incomeAmount"`
	ExpenseAmount decimal.Decimal `json:"expenseAmount"`
	CategoryID    int32           `json:"categoryId"`
	PaymentMethod string          `json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// RemainingAmount is income minus expense. A negative result is allowed
// and signals overspend.
func (b *Budget) RemainingAmount() decimal.Decimal {
	return b.IncomeAmount.Sub(b.ExpenseAmount)
}

// BudgetRepository defines the interface for budget persistence operations
type BudgetRepository interface {
	Create(budget *Budget) (*Budget, error)
	GetByID(identityID uuid.UUID, id int32) (*Budget, error)
	GetAllByIdentity(identityID uuid.UUID) ([]*Budget, error)
	GetRecent(limit int32) ([]*Budget, error)
	Update(budget *Budget) (*Budget, error)
	Delete(identityID uuid.UUID, id int32) error
}
