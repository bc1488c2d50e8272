package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vlietberg/teambudget-backend/internal/domain"
	"github.com/vlietberg/teambudget-backend/internal/middleware"
	"github.com/vlietberg/teambudget-backend/internal/service"
)

// TransactionHandler handles transaction HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest represents the create/update transaction request
type TransactionRequest struct {
	BudgetID        int32           `json:"budgetId"`
	Amount          decimal.Decimal `json:"amount"`
	CategoryID      int32           `json:"categoryId"`
	TransactionDate string          `json:"transactionDate"`
	PaymentMethod   string          `json:"paymentMethod"`
	Description     *string         `json:"description"`
	Type            string          `json:"type"`
}

func parseTransactionID(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id < 1 {
		return 0, errors.New("invalid transaction ID")
	}
	return int32(id), nil
}

func (r *TransactionRequest) toInput() (service.TransactionInput, error) {
	date, err := time.Parse("2006-01-02", r.TransactionDate)
	if err != nil {
		return service.TransactionInput{}, err
	}
	return service.TransactionInput{
		BudgetID:        r.BudgetID,
		Amount:          r.Amount,
		CategoryID:      r.CategoryID,
		TransactionDate: date,
		PaymentMethod:   r.PaymentMethod,
		Description:     r.Description,
		Type:            domain.TransactionType(r.Type),
	}, nil
}

func transactionErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidTransactionType):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be income or expense"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be non-negative"},
		})
	case errors.Is(err, domain.ErrCategoryMismatch):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category must match the budget's category"},
		})
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category does not exist"},
		})
	case errors.Is(err, domain.ErrBudgetNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "budgetId", Message: "Budget does not exist"},
		})
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
	default:
		return NewDomainError(c, err)
	}
}

// parseFilters reads listing filters from query parameters
func parseFilters(c echo.Context) (*domain.TransactionFilters, error) {
	filters := &domain.TransactionFilters{}

	if raw := c.QueryParam("budgetId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, errors.New("invalid budgetId")
		}
		v := int32(id)
		filters.BudgetID = &v
	}
	if raw := c.QueryParam("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, errors.New("invalid categoryId")
		}
		v := int32(id)
		filters.CategoryID = &v
	}
	if raw := c.QueryParam("startDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, errors.New("invalid startDate")
		}
		filters.StartDate = &t
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, errors.New("invalid endDate")
		}
		filters.EndDate = &t
	}
	if raw := c.QueryParam("type"); raw != "" {
		t := domain.TransactionType(raw)
		if !t.Valid() {
			return nil, errors.New("invalid type")
		}
		filters.Type = &t
	}
	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || page < 1 {
			return nil, errors.New("invalid page")
		}
		filters.Page = int32(page)
	}
	if raw := c.QueryParam("pageSize"); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || size < 1 {
			return nil, errors.New("invalid pageSize")
		}
		filters.PageSize = int32(size)
	}

	return filters, nil
}

// CreateTransaction handles POST /transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "transactionDate", Message: "Date must be in YYYY-MM-DD format"},
		})
	}

	transaction, err := h.transactionService.CreateTransaction(identityID, input)
	if err != nil {
		return transactionErrorResponse(c, err)
	}

	log.Info().Int32("transaction_id", transaction.ID).Str("identity_id", identityID.String()).Msg("Transaction created")

	return c.JSON(http.StatusCreated, transaction)
}

// GetTransactions handles GET /transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	filters, err := parseFilters(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	listing, err := h.transactionService.GetTransactions(identityID, filters)
	if err != nil {
		return NewDomainError(c, err)
	}

	return c.JSON(http.StatusOK, listing)
}

// GetTransaction handles GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	id, err := parseTransactionID(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(identityID, id)
	if err != nil {
		return transactionErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, transaction)
}

// UpdateTransaction handles PUT /transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	id, err := parseTransactionID(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "transactionDate", Message: "Date must be in YYYY-MM-DD format"},
		})
	}

	transaction, err := h.transactionService.UpdateTransaction(identityID, id, input)
	if err != nil {
		return transactionErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction handles DELETE /transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	id, err := parseTransactionID(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(identityID, id); err != nil {
		return transactionErrorResponse(c, err)
	}

	log.Info().Int32("transaction_id", id).Str("identity_id", identityID.String()).Msg("Transaction deleted")

	return c.NoContent(http.StatusNoContent)
}
