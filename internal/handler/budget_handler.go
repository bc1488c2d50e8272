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

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// BudgetRequest represents the create/update budget request
type BudgetRequest struct {
	Name          string          `json:"name"`
	IncomeAmount  decimal.Decimal `json:"incomeAmount"`
	ExpenseAmount decimal.Decimal `json:"expenseAmount"`
	CategoryID    int32           `json:"categoryId"`
	PaymentMethod string          `json:"paymentMethod"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID              int32           `json:"id"`
	Name            string          `json:"name"`
	IncomeAmount    decimal.Decimal `json:"incomeAmount"`
	ExpenseAmount   decimal.Decimal `json:"expenseAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	CategoryID      int32           `json:"categoryId"`
	PaymentMethod   string          `json:"paymentMethod"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func toBudgetResponse(budget *domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:              budget.ID,
		Name:            budget.Name,
		IncomeAmount:    budget.IncomeAmount,
		ExpenseAmount:   budget.ExpenseAmount,
		RemainingAmount: budget.RemainingAmount(),
		CategoryID:      budget.CategoryID,
		PaymentMethod:   budget.PaymentMethod,
		CreatedAt:       budget.CreatedAt,
		UpdatedAt:       budget.UpdatedAt,
	}
}

func toBudgetResponses(budgets []*domain.Budget) []BudgetResponse {
	out := make([]BudgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	return out
}

func parseBudgetID(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id < 1 {
		return 0, errors.New("invalid budget ID")
	}
	return int32(id), nil
}

func budgetErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 100 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "incomeAmount", Message: "Amounts must be non-negative"},
		})
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category does not exist"},
		})
	case errors.Is(err, domain.ErrBudgetNotFound):
		return NewNotFoundError(c, "Budget not found")
	default:
		return NewDomainError(c, err)
	}
}

// CreateBudget handles POST /budgets
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	budget, err := h.budgetService.CreateBudget(identityID, service.BudgetInput{
		Name:          req.Name,
		IncomeAmount:  req.IncomeAmount,
		ExpenseAmount: req.ExpenseAmount,
		CategoryID:    req.CategoryID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return budgetErrorResponse(c, err)
	}

	log.Info().Int32("budget_id", budget.ID).Str("identity_id", identityID.String()).Msg("Budget created")

	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// GetBudgets handles GET /budgets
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	budgets, err := h.budgetService.GetBudgets(identityID)
	if err != nil {
		return NewDomainError(c, err)
	}

	return c.JSON(http.StatusOK, toBudgetResponses(budgets))
}

// GetBudget handles GET /budgets/:id
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	id, err := parseBudgetID(c)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	budget, err := h.budgetService.GetBudgetByID(identityID, id)
	if err != nil {
		return budgetErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// GetRecentBudgets handles GET /budgets/recent
func (h *BudgetHandler) GetRecentBudgets(c echo.Context) error {
	limit := int64(0)
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return NewValidationError(c, "Invalid limit", nil)
		}
		limit = parsed
	}

	budgets, err := h.budgetService.GetRecentBudgets(int32(limit))
	if err != nil {
		return NewDomainError(c, err)
	}

	return c.JSON(http.StatusOK, toBudgetResponses(budgets))
}

// UpdateBudget handles PUT /budgets/:id
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	id, err := parseBudgetID(c)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	budget, err := h.budgetService.UpdateBudget(identityID, id, service.BudgetInput{
		Name:          req.Name,
		IncomeAmount:  req.IncomeAmount,
		ExpenseAmount: req.ExpenseAmount,
		CategoryID:    req.CategoryID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return budgetErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// DeleteBudget handles DELETE /budgets/:id
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	identityID := middleware.GetIdentityID(c)

	id, err := parseBudgetID(c)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	if err := h.budgetService.DeleteBudget(identityID, id); err != nil {
		return budgetErrorResponse(c, err)
	}

	log.Info().Int32("budget_id", id).Str("identity_id", identityID.String()).Msg("Budget deleted")

	return c.NoContent(http.StatusNoContent)
}
