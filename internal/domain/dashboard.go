package domain

import "github.com/shopspring/decimal"

// BudgetSummary aggregates all budgets owned by an identity.
type BudgetSummary struct {
	TotalIncome     decimal.Decimal `json:"totalIncome"`
	TotalExpense    decimal.Decimal `json:"totalExpense"`
	RemainingBudget decimal.Decimal `json:"remainingBudget"`
}

// DashboardSummary is the landing-page aggregate: expense totals grouped
// by category, the most recent transactions, and the budget summary.
type DashboardSummary struct {
	ExpenseBreakdown   []*CategoryTotal `json:"expenseBreakdown"`
	RecentTransactions []*Transaction   `json:"recentTransactions"`
	BudgetSummary      BudgetSummary    `json:"budgetSummary"`
}

// Report is a filtered transaction listing with its total.
type Report struct {
	Transactions []*Transaction  `json:"transactions"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}
