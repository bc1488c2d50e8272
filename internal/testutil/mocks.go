package testutil

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vlietberg/teambudget-backend/internal/domain"
)

// MockIdentityRepository is a mock implementation of domain.IdentityRepository
type MockIdentityRepository struct {
	ByID       map[uuid.UUID]*domain.Identity
	ByEmail    map[string]*domain.Identity
	ByUsername map[string]*domain.Identity
	Phones     map[string]bool
	UpdateFn   func(identity *domain.Identity) (*domain.Identity, error)
}

// NewMockIdentityRepository creates a new MockIdentityRepository
func NewMockIdentityRepository() *MockIdentityRepository {
	return &MockIdentityRepository{
		ByID:       make(map[uuid.UUID]*domain.Identity),
		ByEmail:    make(map[string]*domain.Identity),
		ByUsername: make(map[string]*domain.Identity),
		Phones:     make(map[string]bool),
	}
}

// AddIdentity adds an identity to the mock repository (helper for tests)
func (m *MockIdentityRepository) AddIdentity(identity *domain.Identity) {
	m.ByID[identity.ID] = identity
	m.ByEmail[identity.Email] = identity
	m.ByUsername[identity.Username] = identity
	if identity.WorkPhone != "" {
		m.Phones[identity.WorkPhone] = true
	}
}

// GetByID retrieves an identity by ID
func (m *MockIdentityRepository) GetByID(id uuid.UUID) (*domain.Identity, error) {
	if identity, ok := m.ByID[id]; ok {
		return identity, nil
	}
	return nil, domain.ErrIdentityNotFound
}

// GetByEmail retrieves an identity by email
func (m *MockIdentityRepository) GetByEmail(email string) (*domain.Identity, error) {
	if identity, ok := m.ByEmail[email]; ok {
		return identity, nil
	}
	return nil, domain.ErrIdentityNotFound
}

// GetByUsername retrieves an identity by username
func (m *MockIdentityRepository) GetByUsername(username string) (*domain.Identity, error) {
	if identity, ok := m.ByUsername[username]; ok {
		return identity, nil
	}
	return nil, domain.ErrIdentityNotFound
}

// Create creates a new identity, enforcing the uniqueness constraints
func (m *MockIdentityRepository) Create(identity *domain.Identity) (*domain.Identity, error) {
	if _, ok := m.ByEmail[identity.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	if _, ok := m.ByUsername[identity.Username]; ok {
		return nil, domain.ErrUsernameTaken
	}
	if identity.WorkPhone != "" && m.Phones[identity.WorkPhone] {
		return nil, domain.ErrWorkPhoneConflict
	}
	identity.ID = uuid.New()
	identity.CreatedAt = time.Now()
	identity.UpdatedAt = identity.CreatedAt
	m.AddIdentity(identity)
	return identity, nil
}

// Update updates an existing identity
func (m *MockIdentityRepository) Update(identity *domain.Identity) (*domain.Identity, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(identity)
	}
	existing, ok := m.ByID[identity.ID]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	if identity.WorkPhone != "" && identity.WorkPhone != existing.WorkPhone && m.Phones[identity.WorkPhone] {
		return nil, domain.ErrWorkPhoneConflict
	}
	delete(m.ByEmail, existing.Email)
	delete(m.ByUsername, existing.Username)
	delete(m.Phones, existing.WorkPhone)
	identity.UpdatedAt = time.Now()
	m.AddIdentity(identity)
	return identity, nil
}

// UpdateRole updates only the role
func (m *MockIdentityRepository) UpdateRole(id uuid.UUID, role domain.Role) (*domain.Identity, error) {
	identity, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	identity.Role = role
	identity.UpdatedAt = time.Now()
	return identity, nil
}

// UpdateAvatarPath sets or clears the avatar object path
func (m *MockIdentityRepository) UpdateAvatarPath(id uuid.UUID, path *string) error {
	identity, ok := m.ByID[id]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	identity.AvatarPath = path
	return nil
}

// Delete removes an identity
func (m *MockIdentityRepository) Delete(id uuid.UUID) error {
	identity, ok := m.ByID[id]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	delete(m.ByID, id)
	delete(m.ByEmail, identity.Email)
	delete(m.ByUsername, identity.Username)
	delete(m.Phones, identity.WorkPhone)
	return nil
}

// WorkPhoneExists reports whether any identity carries the phone
func (m *MockIdentityRepository) WorkPhoneExists(phone string) (bool, error) {
	return m.Phones[phone], nil
}

// MockTeamSettingRepository is a mock implementation of domain.TeamSettingRepository
type MockTeamSettingRepository struct {
	ByIdentity map[uuid.UUID]*domain.TeamSetting
	NextID     int32
	CreateFn   func(setting *domain.TeamSetting) (*domain.TeamSetting, error)
}

// NewMockTeamSettingRepository creates a new MockTeamSettingRepository
func NewMockTeamSettingRepository() *MockTeamSettingRepository {
	return &MockTeamSettingRepository{
		ByIdentity: make(map[uuid.UUID]*domain.TeamSetting),
		NextID:     1,
	}
}

// GetByIdentityID retrieves the setting owned by an identity
func (m *MockTeamSettingRepository) GetByIdentityID(identityID uuid.UUID) (*domain.TeamSetting, error) {
	if setting, ok := m.ByIdentity[identityID]; ok {
		return setting, nil
	}
	return nil, domain.ErrTeamSettingNotFound
}

// Create creates a new team setting, enforcing one per identity
func (m *MockTeamSettingRepository) Create(setting *domain.TeamSetting) (*domain.TeamSetting, error) {
	if m.CreateFn != nil {
		return m.CreateFn(setting)
	}
	if _, ok := m.ByIdentity[setting.IdentityID]; ok {
		return nil, domain.ErrTeamSettingExists
	}
	setting.ID = m.NextID
	m.NextID++
	setting.CreatedAt = time.Now()
	setting.UpdatedAt = setting.CreatedAt
	m.ByIdentity[setting.IdentityID] = setting
	return setting, nil
}

// Update updates the client-editable fields
func (m *MockTeamSettingRepository) Update(setting *domain.TeamSetting) (*domain.TeamSetting, error) {
	existing, ok := m.ByIdentity[setting.IdentityID]
	if !ok {
		return nil, domain.ErrTeamSettingNotFound
	}
	existing.TeamName = setting.TeamName
	existing.Currency = setting.Currency
	existing.CommunicationPreference = setting.CommunicationPreference
	existing.UpdatedAt = time.Now()
	return existing, nil
}

// UpdateRoleSnapshot refreshes the stored role copy
func (m *MockTeamSettingRepository) UpdateRoleSnapshot(identityID uuid.UUID, role domain.Role) (*domain.TeamSetting, error) {
	setting, ok := m.ByIdentity[identityID]
	if !ok {
		return nil, domain.ErrTeamSettingNotFound
	}
	setting.Role = role
	setting.UpdatedAt = time.Now()
	return setting, nil
}

// Count returns how many settings reference the identity (helper for tests)
func (m *MockTeamSettingRepository) Count(identityID uuid.UUID) int {
	if _, ok := m.ByIdentity[identityID]; ok {
		return 1
	}
	return 0
}

// MockPermissionRepository is a mock implementation of domain.PermissionRepository
type MockPermissionRepository struct {
	Sets map[uuid.UUID]domain.PermissionSet
}

// NewMockPermissionRepository creates a new MockPermissionRepository
func NewMockPermissionRepository() *MockPermissionRepository {
	return &MockPermissionRepository{Sets: make(map[uuid.UUID]domain.PermissionSet)}
}

// Replace overwrites the identity's permission set
func (m *MockPermissionRepository) Replace(identityID uuid.UUID, set domain.PermissionSet) error {
	m.Sets[identityID] = set
	return nil
}

// GetByIdentity retrieves the identity's permission set
func (m *MockPermissionRepository) GetByIdentity(identityID uuid.UUID) (domain.PermissionSet, error) {
	return m.Sets[identityID], nil
}

// MockReconcileStore bundles the three mocks behind domain.ReconcileStore.
// WithinTx simply runs the function against the shared mocks.
type MockReconcileStore struct {
	IdentityRepo    *MockIdentityRepository
	TeamSettingRepo *MockTeamSettingRepository
	PermissionRepo  *MockPermissionRepository
}

// NewMockReconcileStore creates a new MockReconcileStore
func NewMockReconcileStore() *MockReconcileStore {
	return &MockReconcileStore{
		IdentityRepo:    NewMockIdentityRepository(),
		TeamSettingRepo: NewMockTeamSettingRepository(),
		PermissionRepo:  NewMockPermissionRepository(),
	}
}

// WithinTx runs fn against the shared mocks
func (m *MockReconcileStore) WithinTx(fn func(tx domain.ReconcileTx) error) error {
	return fn(m)
}

// Identities implements domain.ReconcileTx
func (m *MockReconcileStore) Identities() domain.IdentityRepository { return m.IdentityRepo }

// TeamSettings implements domain.ReconcileTx
func (m *MockReconcileStore) TeamSettings() domain.TeamSettingRepository { return m.TeamSettingRepo }

// Permissions implements domain.ReconcileTx
func (m *MockReconcileStore) Permissions() domain.PermissionRepository { return m.PermissionRepo }

// MockExpenseCategoryRepository is a mock implementation of domain.ExpenseCategoryRepository
type MockExpenseCategoryRepository struct {
	Categories map[int32]*domain.ExpenseCategory
	Referenced map[int32]bool
	NextID     int32
}

// NewMockExpenseCategoryRepository creates a new MockExpenseCategoryRepository
func NewMockExpenseCategoryRepository() *MockExpenseCategoryRepository {
	return &MockExpenseCategoryRepository{
		Categories: make(map[int32]*domain.ExpenseCategory),
		Referenced: make(map[int32]bool),
		NextID:     1,
	}
}

// Create creates a new category
func (m *MockExpenseCategoryRepository) Create(category *domain.ExpenseCategory) (*domain.ExpenseCategory, error) {
	for _, c := range m.Categories {
		if c.Name == category.Name {
			return nil, domain.ErrCategoryExists
		}
	}
	category.ID = m.NextID
	m.NextID++
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category by ID
func (m *MockExpenseCategoryRepository) GetByID(id int32) (*domain.ExpenseCategory, error) {
	if c, ok := m.Categories[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetByName retrieves a category by name
func (m *MockExpenseCategoryRepository) GetByName(name string) (*domain.ExpenseCategory, error) {
	for _, c := range m.Categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// GetAll retrieves all categories
func (m *MockExpenseCategoryRepository) GetAll() ([]*domain.ExpenseCategory, error) {
	var categories []*domain.ExpenseCategory
	for _, c := range m.Categories {
		categories = append(categories, c)
	}
	return categories, nil
}

// Update renames a category
func (m *MockExpenseCategoryRepository) Update(id int32, name string) (*domain.ExpenseCategory, error) {
	c, ok := m.Categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	for _, other := range m.Categories {
		if other.ID != id && other.Name == name {
			return nil, domain.ErrCategoryExists
		}
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	return c, nil
}

// Delete removes a category unless it is referenced
func (m *MockExpenseCategoryRepository) Delete(id int32) error {
	if _, ok := m.Categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	if m.Referenced[id] {
		return domain.ErrCategoryInUse
	}
	delete(m.Categories, id)
	return nil
}

// IsReferenced reports whether the category is referenced
func (m *MockExpenseCategoryRepository) IsReferenced(id int32) (bool, error) {
	return m.Referenced[id], nil
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[int32]*domain.Budget
	NextID  int32
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[int32]*domain.Budget),
		NextID:  1,
	}
}

// Create creates a new budget
func (m *MockBudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	budget.ID = m.NextID
	m.NextID++
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// GetByID retrieves a budget owned by the identity
func (m *MockBudgetRepository) GetByID(identityID uuid.UUID, id int32) (*domain.Budget, error) {
	if b, ok := m.Budgets[id]; ok && b.IdentityID == identityID {
		return b, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// GetAllByIdentity retrieves all budgets owned by the identity
func (m *MockBudgetRepository) GetAllByIdentity(identityID uuid.UUID) ([]*domain.Budget, error) {
	var budgets []*domain.Budget
	for _, b := range m.Budgets {
		if b.IdentityID == identityID {
			budgets = append(budgets, b)
		}
	}
	return budgets, nil
}

// GetRecent retrieves the most recently created budgets
func (m *MockBudgetRepository) GetRecent(limit int32) ([]*domain.Budget, error) {
	var budgets []*domain.Budget
	for _, b := range m.Budgets {
		budgets = append(budgets, b)
		if int32(len(budgets)) >= limit {
			break
		}
	}
	return budgets, nil
}

// Update updates a budget
func (m *MockBudgetRepository) Update(budget *domain.Budget) (*domain.Budget, error) {
	existing, ok := m.Budgets[budget.ID]
	if !ok || existing.IdentityID != budget.IdentityID {
		return nil, domain.ErrBudgetNotFound
	}
	budget.UpdatedAt = time.Now()
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// Delete removes a budget owned by the identity
func (m *MockBudgetRepository) Delete(identityID uuid.UUID, id int32) error {
	if b, ok := m.Budgets[id]; ok && b.IdentityID == identityID {
		delete(m.Budgets, id)
		return nil
	}
	return domain.ErrBudgetNotFound
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	NextID       int32
	Categories   *MockExpenseCategoryRepository
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	transaction.ID = m.NextID
	m.NextID++
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a transaction owned by the identity
func (m *MockTransactionRepository) GetByID(identityID uuid.UUID, id int32) (*domain.Transaction, error) {
	if t, ok := m.Transactions[id]; ok && t.IdentityID == identityID {
		return t, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) matches(t *domain.Transaction, identityID uuid.UUID, filters *domain.TransactionFilters) bool {
	if t.IdentityID != identityID {
		return false
	}
	if filters == nil {
		return true
	}
	if filters.BudgetID != nil && t.BudgetID != *filters.BudgetID {
		return false
	}
	if filters.CategoryID != nil && t.CategoryID != *filters.CategoryID {
		return false
	}
	if filters.Type != nil && t.Type != *filters.Type {
		return false
	}
	if filters.StartDate != nil && t.TransactionDate.Before(*filters.StartDate) {
		return false
	}
	if filters.EndDate != nil && t.TransactionDate.After(*filters.EndDate) {
		return false
	}
	return true
}

// GetByIdentity retrieves transactions matching the filters, paginated
// in insertion order.
func (m *MockTransactionRepository) GetByIdentity(identityID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	var matched []*domain.Transaction
	for _, t := range m.Transactions {
		if m.matches(t, identityID, filters) {
			matched = append(matched, t)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
		}
	}

	totalItems := int64(len(matched))
	totalPages := int32((totalItems + int64(pageSize) - 1) / int64(pageSize))
	start := int((page - 1) * pageSize)
	if start > len(matched) {
		start = len(matched)
	}
	end := start + int(pageSize)
	if end > len(matched) {
		end = len(matched)
	}

	return &domain.PaginatedTransactions{
		Data:       matched[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// GetRecent retrieves the most recent transactions for the identity
func (m *MockTransactionRepository) GetRecent(identityID uuid.UUID, limit int32) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for _, t := range m.Transactions {
		if t.IdentityID != identityID {
			continue
		}
		out = append(out, t)
		if int32(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

// Update updates a transaction
func (m *MockTransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	existing, ok := m.Transactions[transaction.ID]
	if !ok || existing.IdentityID != transaction.IdentityID {
		return nil, domain.ErrTransactionNotFound
	}
	transaction.UpdatedAt = time.Now()
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// Delete removes a transaction owned by the identity
func (m *MockTransactionRepository) Delete(identityID uuid.UUID, id int32) error {
	if t, ok := m.Transactions[id]; ok && t.IdentityID == identityID {
		delete(m.Transactions, id)
		return nil
	}
	return domain.ErrTransactionNotFound
}

// SumByCategory aggregates totals per category for the given type
func (m *MockTransactionRepository) SumByCategory(identityID uuid.UUID, txType domain.TransactionType) ([]*domain.CategoryTotal, error) {
	totals := make(map[int32]*domain.CategoryTotal)
	var order []int32
	for _, t := range m.Transactions {
		if t.IdentityID != identityID || t.Type != txType {
			continue
		}
		ct, ok := totals[t.CategoryID]
		if !ok {
			name := ""
			if m.Categories != nil {
				if c, err := m.Categories.GetByID(t.CategoryID); err == nil {
					name = c.Name
				}
			}
			ct = &domain.CategoryTotal{CategoryID: t.CategoryID, CategoryName: name}
			totals[t.CategoryID] = ct
			order = append(order, t.CategoryID)
		}
		ct.Total = ct.Total.Add(t.Amount)
	}
	out := make([]*domain.CategoryTotal, 0, len(order))
	for _, id := range order {
		out = append(out, totals[id])
	}
	return out, nil
}

// SumFiltered sums the amounts of all transactions matching the filters
func (m *MockTransactionRepository) SumFiltered(identityID uuid.UUID, filters *domain.TransactionFilters) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range m.Transactions {
		if m.matches(t, identityID, filters) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

// MockAvatarRepository is an in-memory mock of the avatar object store
type MockAvatarRepository struct {
	Objects   map[string][]byte
	UploadErr error
}

// NewMockAvatarRepository creates a new MockAvatarRepository
func NewMockAvatarRepository() *MockAvatarRepository {
	return &MockAvatarRepository{Objects: make(map[string][]byte)}
}

// Upload stores the object bytes in memory
func (m *MockAvatarRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.Objects[objectPath] = buf
	return objectPath, nil
}

// Delete removes the object
func (m *MockAvatarRepository) Delete(ctx context.Context, objectPath string) error {
	delete(m.Objects, objectPath)
	return nil
}

// GeneratePresignedURL returns a deterministic fake URL
func (m *MockAvatarRepository) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	return "https://storage.test/" + objectPath, nil
}
