package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vlietberg/teambudget-backend/internal/domain"
)

// TransactionService handles transaction business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	budgetRepo      domain.BudgetRepository
	categoryRepo    domain.ExpenseCategoryRepository

	// strictCategoryMatch requires a transaction's category to equal its
	// budget's category. The legacy schema never enforced this, so the
	// invariant is configuration-gated.
	strictCategoryMatch bool
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, budgetRepo domain.BudgetRepository, categoryRepo domain.ExpenseCategoryRepository, strictCategoryMatch bool) *TransactionService {
	return &TransactionService{
		transactionRepo:     transactionRepo,
		budgetRepo:          budgetRepo,
		categoryRepo:        categoryRepo,
		strictCategoryMatch: strictCategoryMatch,
	}
}

// TransactionInput is the create/update payload for a transaction
type TransactionInput struct {
	BudgetID        int32
	Amount          decimal.Decimal
	CategoryID      int32
	TransactionDate time.Time
	PaymentMethod   string
	Description     *string
	Type            domain.TransactionType
}

func (s *TransactionService) validate(identityID uuid.UUID, input *TransactionInput) error {
	if !input.Type.Valid() {
		return domain.ErrInvalidTransactionType
	}
	if input.Amount.IsNegative() {
		return domain.ErrInvalidAmount
	}
	input.Amount = input.Amount.Round(2)

	if _, err := s.categoryRepo.GetByID(input.CategoryID); err != nil {
		return err
	}

	budget, err := s.budgetRepo.GetByID(identityID, input.BudgetID)
	if err != nil {
		return err
	}
	if s.strictCategoryMatch && budget.CategoryID != input.CategoryID {
		return domain.ErrCategoryMismatch
	}
	return nil
}

// CreateTransaction creates a transaction owned by the identity
func (s *TransactionService) CreateTransaction(identityID uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	if err := s.validate(identityID, &input); err != nil {
		return nil, err
	}

	return s.transactionRepo.Create(&domain.Transaction{
		IdentityID:      identityID,
		BudgetID:        input.BudgetID,
		Amount:          input.Amount,
		CategoryID:      input.CategoryID,
		TransactionDate: input.TransactionDate,
		PaymentMethod:   strings.TrimSpace(input.PaymentMethod),
		Description:     input.Description,
		Type:            input.Type,
	})
}

// GetTransactions retrieves a filtered, paginated listing for the identity
func (s *TransactionService) GetTransactions(identityID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}
	return s.transactionRepo.GetByIdentity(identityID, filters)
}

// GetTransactionByID retrieves a transaction owned by the identity
func (s *TransactionService) GetTransactionByID(identityID uuid.UUID, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(identityID, id)
}

// UpdateTransaction updates a transaction owned by the identity
func (s *TransactionService) UpdateTransaction(identityID uuid.UUID, id int32, input TransactionInput) (*domain.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(identityID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(identityID, &input); err != nil {
		return nil, err
	}

	transaction.BudgetID = input.BudgetID
	transaction.Amount = input.Amount
	transaction.CategoryID = input.CategoryID
	transaction.TransactionDate = input.TransactionDate
	transaction.PaymentMethod = strings.TrimSpace(input.PaymentMethod)
	transaction.Description = input.Description
	transaction.Type = input.Type

	return s.transactionRepo.Update(transaction)
}

// DeleteTransaction removes a transaction owned by the identity
func (s *TransactionService) DeleteTransaction(identityID uuid.UUID, id int32) error {
	return s.transactionRepo.Delete(identityID, id)
}
