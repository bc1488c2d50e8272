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

func TestGenerateReport(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewReportService(transactionRepo)

	identityID := uuid.New()

	seed := []struct {
		amount     int64
		categoryID int32
		date       time.Time
	}{
		{100, 1, time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)},
		{200, 1, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)},
		{400, 2, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)},
	}
	for _, s := range seed {
		_, err := transactionRepo.Create(&domain.Transaction{
			IdentityID:      identityID,
			BudgetID:        1,
			Amount:          decimal.NewFromInt(s.amount),
			CategoryID:      s.categoryID,
			TransactionDate: s.date,
			Type:            domain.TransactionTypeExpense,
		})
		require.NoError(t, err)
	}

	// Unfiltered report covers everything.
	report, err := svc.GenerateReport(identityID, ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, report.Transactions, 3)
	assert.Equal(t, "700.00", report.TotalAmount.StringFixed(2))

	// Date range narrows the listing and the total together.
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	report, err = svc.GenerateReport(identityID, ReportFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, report.Transactions, 2)
	assert.Equal(t, "600.00", report.TotalAmount.StringFixed(2))

	// Category filter composes with the range.
	categoryID := int32(1)
	report, err = svc.GenerateReport(identityID, ReportFilter{StartDate: &start, EndDate: &end, CategoryID: &categoryID})
	require.NoError(t, err)
	assert.Len(t, report.Transactions, 1)
	assert.Equal(t, "200.00", report.TotalAmount.StringFixed(2))
}

func TestGenerateReport_ListsBeyondOnePage(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewReportService(transactionRepo)

	identityID := uuid.New()
	count := domain.MaxPageSize + 30
	for i := 0; i < count; i++ {
		_, err := transactionRepo.Create(&domain.Transaction{
			IdentityID:      identityID,
			BudgetID:        1,
			Amount:          decimal.NewFromInt(10),
			CategoryID:      1,
			TransactionDate: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
			Type:            domain.TransactionTypeExpense,
		})
		require.NoError(t, err)
	}

	report, err := svc.GenerateReport(identityID, ReportFilter{})
	require.NoError(t, err)

	// The listing is exhaustive and consistent with the total.
	require.Len(t, report.Transactions, count)
	assert.Equal(t, decimal.NewFromInt(int64(count)*10).StringFixed(2), report.TotalAmount.StringFixed(2))
}
