package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vlietberg/teambudget-backend/internal/domain"
)

// BudgetService handles budget business logic
type BudgetService struct {
	budgetRepo   domain.BudgetRepository
	categoryRepo domain.ExpenseCategoryRepository
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, categoryRepo domain.ExpenseCategoryRepository) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo, categoryRepo: categoryRepo}
}

// BudgetInput is the create/update payload for a budget
type BudgetInput struct {
	Name          string
	IncomeAmount  decimal.Decimal
	ExpenseAmount decimal.Decimal
	CategoryID    int32
	PaymentMethod string
}

func (s *BudgetService) validate(input *BudgetInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return domain.ErrNameRequired
	}
	if len(input.Name) > domain.MaxNameLength {
		return domain.ErrNameTooLong
	}
	if input.IncomeAmount.IsNegative() || input.ExpenseAmount.IsNegative() {
		return domain.ErrInvalidAmount
	}
	// Amounts carry two fractional digits.
	input.IncomeAmount = input.IncomeAmount.Round(2)
	input.ExpenseAmount = input.ExpenseAmount.Round(2)

	if _, err := s.categoryRepo.GetByID(input.CategoryID); err != nil {
		return err
	}
	return nil
}

// CreateBudget creates a budget owned by the identity
func (s *BudgetService) CreateBudget(identityID uuid.UUID, input BudgetInput) (*domain.Budget, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	return s.budgetRepo.Create(&domain.Budget{
		IdentityID:    identityID,
		Name:          input.Name,
		IncomeAmount:  input.IncomeAmount,
		ExpenseAmount: input.ExpenseAmount,
		CategoryID:    input.CategoryID,
		PaymentMethod: strings.TrimSpace(input.PaymentMethod),
	})
}

// GetBudgets retrieves all budgets owned by the identity
func (s *BudgetService) GetBudgets(identityID uuid.UUID) ([]*domain.Budget, error) {
	return s.budgetRepo.GetAllByIdentity(identityID)
}

// GetBudgetByID retrieves a budget owned by the identity
func (s *BudgetService) GetBudgetByID(identityID uuid.UUID, id int32) (*domain.Budget, error) {
	return s.budgetRepo.GetByID(identityID, id)
}

// GetRecentBudgets retrieves the most recently created budgets
func (s *BudgetService) GetRecentBudgets(limit int32) ([]*domain.Budget, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.budgetRepo.GetRecent(limit)
}

// UpdateBudget updates a budget owned by the identity
func (s *BudgetService) UpdateBudget(identityID uuid.UUID, id int32, input BudgetInput) (*domain.Budget, error) {
	budget, err := s.budgetRepo.GetByID(identityID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	budget.Name = input.Name
	budget.IncomeAmount = input.IncomeAmount
	budget.ExpenseAmount = input.ExpenseAmount
	budget.CategoryID = input.CategoryID
	budget.PaymentMethod = strings.TrimSpace(input.PaymentMethod)

	return s.budgetRepo.Update(budget)
}

// DeleteBudget removes a budget owned by the identity, cascading to its
// transactions
func (s *BudgetService) DeleteBudget(identityID uuid.UUID, id int32) error {
	return s.budgetRepo.Delete(identityID, id)
}
