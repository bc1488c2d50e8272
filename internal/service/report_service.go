package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/vlietberg/teambudget-backend/internal/domain"
)

// ReportService produces filtered transaction reports
type ReportService struct {
	transactionRepo domain.TransactionRepository
}

// NewReportService creates a new ReportService
func NewReportService(transactionRepo domain.TransactionRepository) *ReportService {
	return &ReportService{transactionRepo: transactionRepo}
}

// ReportFilter narrows a report by date range and category
type ReportFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *int32
}

// GenerateReport lists every transaction of the identity matching the
// filter together with their total amount. The listing is exhaustive so
// it always adds up to the reported total.
func (s *ReportService) GenerateReport(identityID uuid.UUID, filter ReportFilter) (*domain.Report, error) {
	filters := &domain.TransactionFilters{
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
		CategoryID: filter.CategoryID,
		Page:       1,
		PageSize:   domain.MaxPageSize,
	}

	var transactions []*domain.Transaction
	for {
		listing, err := s.transactionRepo.GetByIdentity(identityID, filters)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, listing.Data...)
		if filters.Page >= listing.TotalPages {
			break
		}
		filters.Page++
	}

	total, err := s.transactionRepo.SumFiltered(identityID, filters)
	if err != nil {
		return nil, err
	}

	return &domain.Report{
		Transactions: transactions,
		TotalAmount:  total,
	}, nil
}
