package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlietberg/teambudget-backend/internal/domain"
	"github.com/vlietberg/teambudget-backend/internal/testutil"
)

func TestGetSummary(t *testing.T) {
	budgetRepo := testutil.NewMockBudgetRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewDashboardService(budgetRepo, transactionRepo)

	identityID := uuid.New()

	_, err := budgetRepo.Create(&domain.Budget{
		IdentityID:    identityID,
		Name:          "Infrastructure",
		IncomeAmount:  decimal.NewFromInt(1000),
		ExpenseAmount: decimal.NewFromInt(300),
		CategoryID:    1,
	})
	require.NoError(t, err)
	_, err = budgetRepo.Create(&domain.Budget{
		IdentityID:    identityID,
		Name:          "Training",
		IncomeAmount:  decimal.NewFromInt(500),
		ExpenseAmount: decimal.NewFromInt(450),
		CategoryID:    2,
	})
	require.NoError(t, err)

	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for _, amount := range []int64{100, 150} {
		_, err = transactionRepo.Create(&domain.Transaction{
			IdentityID:      identityID,
			BudgetID:        1,
			Amount:          decimal.NewFromInt(amount),
			CategoryID:      1,
			TransactionDate: date,
			Type:            domain.TransactionTypeExpense,
		})
		require.NoError(t, err)
	}
	// Income transactions stay out of the expense breakdown.
	_, err = transactionRepo.Create(&domain.Transaction{
		IdentityID:      identityID,
		BudgetID:        1,
		Amount:          decimal.NewFromInt(999),
		CategoryID:      1,
		TransactionDate: date,
		Type:            domain.TransactionTypeIncome,
	})
	require.NoError(t, err)

	summary, err := svc.GetSummary(identityID)
	require.NoError(t, err)

	assert.Equal(t, "1500.00", summary.BudgetSummary.TotalIncome.StringFixed(2))
	assert.Equal(t, "750.00", summary.BudgetSummary.TotalExpense.StringFixed(2))
	assert.Equal(t, "750.00", summary.BudgetSummary.RemainingBudget.StringFixed(2))

	require.Len(t, summary.ExpenseBreakdown, 1)
	assert.Equal(t, "250.00", summary.ExpenseBreakdown[0].Total.StringFixed(2))

	assert.Len(t, summary.RecentTransactions, 3)
}

func TestGetSummary_Empty(t *testing.T) {
	svc := NewDashboardService(testutil.NewMockBudgetRepository(), testutil.NewMockTransactionRepository())

	summary, err := svc.GetSummary(uuid.New())
	require.NoError(t, err)
	assert.True(t, summary.BudgetSummary.RemainingBudget.IsZero())
	assert.Empty(t, summary.ExpenseBreakdown)
}
