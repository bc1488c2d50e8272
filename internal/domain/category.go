package domain

import "time"

// ExpenseCategory is a named, unique classification tag shared by budgets
// and transactions.
type ExpenseCategory struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SeedExpenseCategories is the initial category set.
var SeedExpenseCategories = []string{
	"Cloud Services",
	"Software Licenses",
	"Development Tools",
	"Training Programs",
}

// ExpenseCategoryRepository defines the interface for category persistence
// operations. Delete must fail with ErrCategoryInUse while the category is
// referenced by any budget or transaction; financial records are never
// orphaned by a cascade.
type ExpenseCategoryRepository interface {
	Create(category *ExpenseCategory) (*ExpenseCategory, error)
	GetByID(id int32) (*ExpenseCategory, error)
	GetByName(name string) (*ExpenseCategory, error)
	GetAll() ([]*ExpenseCategory, error)
	Update(id int32, name string) (*ExpenseCategory, error)
	Delete(id int32) error
	IsReferenced(id int32) (bool, error)
}
