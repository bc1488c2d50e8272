package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Specific errors wrap one of these so callers can classify
// with errors.Is without matching exact sentinels.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
)

// Domain errors
var (
	ErrInvalidRole            = fmt.Errorf("%w: unrecognized role", ErrValidation)
	ErrInvalidAmount          = fmt.Errorf("%w: amount must be non-negative", ErrValidation)
	ErrInvalidTransactionType = fmt.Errorf("%w: unrecognized transaction type", ErrValidation)
	ErrInvalidCurrency        = fmt.Errorf("%w: unrecognized currency", ErrValidation)
	ErrInvalidTeamName        = fmt.Errorf("%w: unrecognized team name", ErrValidation)
	ErrNameRequired           = fmt.Errorf("%w: name is required", ErrValidation)
	ErrNameTooLong            = fmt.Errorf("%w: name exceeds maximum length", ErrValidation)
	ErrCategoryMismatch       = fmt.Errorf("%w: transaction category must match budget category", ErrValidation)
	ErrPasswordTooShort       = fmt.Errorf("%w: password is too short", ErrValidation)
	ErrPasswordMismatch       = fmt.Errorf("%w: passwords do not match", ErrValidation)

	ErrIdentityNotFound    = fmt.Errorf("%w: identity", ErrNotFound)
	ErrTeamSettingNotFound = fmt.Errorf("%w: team setting", ErrNotFound)
	ErrCategoryNotFound    = fmt.Errorf("%w: expense category", ErrNotFound)
	ErrBudgetNotFound      = fmt.Errorf("%w: budget", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("%w: transaction", ErrNotFound)

	ErrEmailTaken        = fmt.Errorf("%w: email already in use", ErrConflict)
	ErrUsernameTaken     = fmt.Errorf("%w: username already in use", ErrConflict)
	ErrWorkPhoneConflict = fmt.Errorf("%w: work phone already in use", ErrConflict)
	ErrCategoryExists    = fmt.Errorf("%w: category name already in use", ErrConflict)
	ErrCategoryInUse     = fmt.Errorf("%w: category is referenced by budgets or transactions", ErrConflict)
	ErrTeamSettingExists = fmt.Errorf("%w: team setting already exists for identity", ErrConflict)

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
)

// Validation constants
const (
	MaxNameLength          = 100
	MinPasswordLength      = 8
	MaxPaymentMethodLength = 100
)
