package service

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/vlietberg/teambudget-backend/internal/domain"
)

// CategoryService handles expense category business logic
type CategoryService struct {
	categoryRepo domain.ExpenseCategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.ExpenseCategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a new expense category
func (s *CategoryService) CreateCategory(name string) (*domain.ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	return s.categoryRepo.Create(&domain.ExpenseCategory{Name: name})
}

// GetCategories retrieves all expense categories
func (s *CategoryService) GetCategories() ([]*domain.ExpenseCategory, error) {
	return s.categoryRepo.GetAll()
}

// GetCategoryByID retrieves a category by ID
func (s *CategoryService) GetCategoryByID(id int32) (*domain.ExpenseCategory, error) {
	return s.categoryRepo.GetByID(id)
}

// UpdateCategory renames a category
func (s *CategoryService) UpdateCategory(id int32, name string) (*domain.ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	return s.categoryRepo.Update(id, name)
}

// DeleteCategory removes a category. Deletion is blocked with a conflict
// while any budget or transaction references it, so financial records are
// never orphaned.
func (s *CategoryService) DeleteCategory(id int32) error {
	if _, err := s.categoryRepo.GetByID(id); err != nil {
		return err
	}

	referenced, err := s.categoryRepo.IsReferenced(id)
	if err != nil {
		return err
	}
	if referenced {
		return domain.ErrCategoryInUse
	}

	return s.categoryRepo.Delete(id)
}

// EnsureSeedCategories creates the initial category set if missing
func (s *CategoryService) EnsureSeedCategories() error {
	for _, name := range domain.SeedExpenseCategories {
		_, err := s.categoryRepo.GetByName(name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if _, err := s.categoryRepo.Create(&domain.ExpenseCategory{Name: name}); err != nil {
			// Another instance may have seeded concurrently.
			if errors.Is(err, domain.ErrConflict) {
				continue
			}
			return err
		}
		log.Info().Str("name", name).Msg("Seeded expense category")
	}
	return nil
}
