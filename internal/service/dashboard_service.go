package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vlietberg/teambudget-backend/internal/domain"
)

// recentTransactionCount is how many transactions the dashboard shows.
const recentTransactionCount = 3

// DashboardService aggregates budgets and transactions for the landing page
type DashboardService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(budgetRepo domain.BudgetRepository, transactionRepo domain.TransactionRepository) *DashboardService {
	return &DashboardService{budgetRepo: budgetRepo, transactionRepo: transactionRepo}
}

// GetSummary builds the dashboard aggregate for an identity: expense
// totals grouped by category, the most recent transactions, and income/
// expense/remaining across all budgets.
func (s *DashboardService) GetSummary(identityID uuid.UUID) (*domain.DashboardSummary, error) {
	breakdown, err := s.transactionRepo.SumByCategory(identityID, domain.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}

	recent, err := s.transactionRepo.GetRecent(identityID, recentTransactionCount)
	if err != nil {
		return nil, err
	}

	budgets, err := s.budgetRepo.GetAllByIdentity(identityID)
	if err != nil {
		return nil, err
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	for _, b := range budgets {
		totalIncome = totalIncome.Add(b.IncomeAmount)
		totalExpense = totalExpense.Add(b.ExpenseAmount)
	}

	return &domain.DashboardSummary{
		ExpenseBreakdown:   breakdown,
		RecentTransactions: recent,
		BudgetSummary: domain.BudgetSummary{
			TotalIncome:     totalIncome,
			TotalExpense:    totalExpense,
			RemainingBudget: totalIncome.Sub(totalExpense),
		},
	}, nil
}
