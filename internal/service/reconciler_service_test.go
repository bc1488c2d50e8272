package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/vlietberg/teambudget-backend/internal/domain"
	"github.com/vlietberg/teambudget-backend/internal/testutil"
)

func newTestReconciler() (*ReconcilerService, *testutil.MockReconcileStore) {
	store := testutil.NewMockReconcileStore()
	return NewReconcilerService(store), store
}

func TestCreateIdentity_AdminDerivesManager(t *testing.T) {
	svc, store := newTestReconciler()

	created, err := svc.CreateIdentity(&domain.Identity{
		Email:    "lead@example.com",
		Username: "lead",
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if created.AccountLevel() != domain.AccountLevelManager {
		t.Errorf("Expected account level manager, got %s", created.AccountLevel())
	}
	if !created.IsManager() {
		t.Error("Expected admin identity to be a manager")
	}

	set := store.PermissionRepo.Sets[created.ID]
	if len(set) != len(domain.FullPermissionSet()) {
		t.Errorf("Expected full permission set (%d), got %d", len(domain.FullPermissionSet()), len(set))
	}
	if !set.Allows(domain.CapabilityDelete, domain.ResourceBudget) {
		t.Error("Expected admin to hold delete on budgets")
	}
}

func TestCreateIdentity_RegularDerivesDeveloper(t *testing.T) {
	svc, store := newTestReconciler()

	created, err := svc.CreateIdentity(&domain.Identity{
		Email:    "dev@example.com",
		Username: "dev",
		Role:     domain.RoleRegular,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if created.AccountLevel() != domain.AccountLevelDeveloper {
		t.Errorf("Expected account level developer, got %s", created.AccountLevel())
	}
	if created.IsManager() {
		t.Error("Expected regular identity not to be a manager")
	}

	set := store.PermissionRepo.Sets[created.ID]
	if len(set) != 6 {
		t.Fatalf("Expected exactly 6 permissions, got %d", len(set))
	}
	for _, resource := range []domain.Resource{domain.ResourceBudget, domain.ResourceTransaction} {
		for _, capability := range []domain.Capability{domain.CapabilityCreate, domain.CapabilityView, domain.CapabilityUpdate} {
			if !set.Allows(capability, resource) {
				t.Errorf("Expected %s on %s to be granted", capability, resource)
			}
		}
		if set.Allows(domain.CapabilityDelete, resource) {
			t.Errorf("Expected delete on %s to be withheld", resource)
		}
	}
}

func TestCreateIdentity_InvalidRole(t *testing.T) {
	svc, _ := newTestReconciler()

	_, err := svc.CreateIdentity(&domain.Identity{
		Email:    "who@example.com",
		Username: "who",
		Role:     "superuser",
	})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("Expected ErrInvalidRole, got %v", err)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Error("Expected error to classify as validation")
	}
}

func TestCreateIdentity_UnknownTeamName(t *testing.T) {
	svc, store := newTestReconciler()

	_, err := svc.CreateIdentity(&domain.Identity{
		Email:    "dev@example.com",
		Username: "dev",
		Role:     domain.RoleRegular,
		Team:     "Totally Made Up Team",
	})
	if !errors.Is(err, domain.ErrInvalidTeamName) {
		t.Fatalf("Expected ErrInvalidTeamName, got %v", err)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Error("Expected error to classify as validation")
	}
	if len(store.TeamSettingRepo.ByIdentity) != 0 {
		t.Errorf("Expected no team setting, got %d", len(store.TeamSettingRepo.ByIdentity))
	}
}

func TestCreateIdentity_DefaultsTeamAndPhone(t *testing.T) {
	svc, _ := newTestReconciler()

	created, err := svc.CreateIdentity(&domain.Identity{
		Email:    "dev@example.com",
		Username: "dev",
		Role:     domain.RoleRegular,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if created.Team != domain.DefaultTeamName {
		t.Errorf("Expected default team %q, got %q", domain.DefaultTeamName, created.Team)
	}
	if len(created.WorkPhone) != 10 {
		t.Errorf("Expected a 10-digit work phone, got %q", created.WorkPhone)
	}
	for _, r := range created.WorkPhone {
		if r < '0' || r > '9' {
			t.Fatalf("Expected numeric work phone, got %q", created.WorkPhone)
		}
	}
}

func TestCreateIdentity_CreatesSingleTeamSetting(t *testing.T) {
	svc, store := newTestReconciler()

	created, err := svc.CreateIdentity(&domain.Identity{
		Email:    "dev@example.com",
		Username: "dev",
		Role:     domain.RoleRegular,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	setting, err := store.TeamSettingRepo.GetByIdentityID(created.ID)
	if err != nil {
		t.Fatalf("Expected a team setting, got %v", err)
	}
	if setting.TeamName != domain.DefaultTeamName {
		t.Errorf("Expected team name %q, got %q", domain.DefaultTeamName, setting.TeamName)
	}
	if setting.Currency != domain.DefaultCurrency {
		t.Errorf("Expected currency %s, got %s", domain.DefaultCurrency, setting.Currency)
	}
	if setting.CommunicationPreference != domain.DefaultCommunicationPreference {
		t.Errorf("Expected communication preference %q, got %q", domain.DefaultCommunicationPreference, setting.CommunicationPreference)
	}
	if setting.Role != domain.RoleRegular {
		t.Errorf("Expected role snapshot regular, got %s", setting.Role)
	}
	if setting.WorkPhone != created.WorkPhone {
		t.Errorf("Expected work phone %q on setting, got %q", created.WorkPhone, setting.WorkPhone)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	svc, store := newTestReconciler()

	created, err := svc.CreateIdentity(&domain.Identity{
		Email:    "dev@example.com",
		Username: "dev",
		Role:     domain.RoleRegular,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	settingBefore, _ := store.TeamSettingRepo.GetByIdentityID(created.ID)
	phoneBefore := created.WorkPhone

	// A second run must not create a second setting, regenerate the
	// phone, or alter the permission set.
	if err := svc.Reconcile(created.ID, domain.EventIdentityCreated); err != nil {
		t.Fatalf("Expected no error on re-run, got %v", err)
	}

	if store.TeamSettingRepo.Count(created.ID) != 1 {
		t.Errorf("Expected exactly one team setting, got %d", store.TeamSettingRepo.Count(created.ID))
	}
	settingAfter, _ := store.TeamSettingRepo.GetByIdentityID(created.ID)
	if settingAfter.ID != settingBefore.ID {
		t.Error("Expected the original team setting to survive the re-run")
	}

	after, _ := store.IdentityRepo.GetByID(created.ID)
	if after.WorkPhone != phoneBefore {
		t.Errorf("Expected work phone to be stable, got %q then %q", phoneBefore, after.WorkPhone)
	}

	if len(store.PermissionRepo.Sets[created.ID]) != 6 {
		t.Errorf("Expected permission set of 6 after re-run, got %d", len(store.PermissionRepo.Sets[created.ID]))
	}
}

func TestReconcile_UnknownIdentity(t *testing.T) {
	svc, _ := newTestReconciler()

	err := svc.Reconcile(uuid.New(), domain.EventIdentityCreated)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestElevateRole_AdminPromotes(t *testing.T) {
	svc, store := newTestReconciler()

	admin, err := svc.CreateIdentity(&domain.Identity{
		Email:    "lead@example.com",
		Username: "lead",
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	dev, err := svc.CreateIdentity(&domain.Identity{
		Email:    "dev@example.com",
		Username: "dev",
		Role:     domain.RoleRegular,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := svc.ElevateRole(admin.ID, dev.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.Role != domain.RoleAdmin {
		t.Errorf("Expected role admin, got %s", updated.Role)
	}
	if !updated.IsManager() {
		t.Error("Expected promoted identity to be a manager")
	}

	// The existing setting keeps its identity; only the snapshot moves.
	if store.TeamSettingRepo.Count(dev.ID) != 1 {
		t.Errorf("Expected exactly one team setting after promotion, got %d", store.TeamSettingRepo.Count(dev.ID))
	}
	setting, _ := store.TeamSettingRepo.GetByIdentityID(dev.ID)
	if setting.Role != domain.RoleAdmin {
		t.Errorf("Expected role snapshot admin, got %s", setting.Role)
	}

	set := store.PermissionRepo.Sets[dev.ID]
	if len(set) != len(domain.FullPermissionSet()) {
		t.Errorf("Expected full permission set after promotion, got %d entries", len(set))
	}
}

func TestElevateRole_Demotion(t *testing.T) {
	svc, store := newTestReconciler()

	admin, _ := svc.CreateIdentity(&domain.Identity{
		Email:    "lead@example.com",
		Username: "lead",
		Role:     domain.RoleAdmin,
	})
	second, _ := svc.CreateIdentity(&domain.Identity{
		Email:    "second@example.com",
		Username: "second",
		Role:     domain.RoleAdmin,
	})

	updated, err := svc.ElevateRole(admin.ID, second.ID, domain.RoleRegular)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.Role != domain.RoleRegular {
		t.Errorf("Expected role regular, got %s", updated.Role)
	}
	if updated.IsManager() {
		t.Error("Expected demoted identity not to be a manager")
	}
	if len(store.PermissionRepo.Sets[second.ID]) != 6 {
		t.Errorf("Expected regular permission set after demotion, got %d entries", len(store.PermissionRepo.Sets[second.ID]))
	}
}

func TestElevateRole_RegularForbidden(t *testing.T) {
	svc, _ := newTestReconciler()

	dev, _ := svc.CreateIdentity(&domain.Identity{
		Email:    "dev@example.com",
		Username: "dev",
		Role:     domain.RoleRegular,
	})
	other, _ := svc.CreateIdentity(&domain.Identity{
		Email:    "other@example.com",
		Username: "other",
		Role:     domain.RoleRegular,
	})

	_, err := svc.ElevateRole(dev.ID, other.ID, domain.RoleAdmin)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}

	// Self-elevation is equally blocked.
	_, err = svc.ElevateRole(dev.ID, dev.ID, domain.RoleAdmin)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden on self-elevation, got %v", err)
	}
}

func TestElevateRole_SameRoleIsNoop(t *testing.T) {
	svc, store := newTestReconciler()

	admin, _ := svc.CreateIdentity(&domain.Identity{
		Email:    "lead@example.com",
		Username: "lead",
		Role:     domain.RoleAdmin,
	})
	dev, _ := svc.CreateIdentity(&domain.Identity{
		Email:    "dev@example.com",
		Username: "dev",
		Role:     domain.RoleRegular,
	})
	settingBefore, _ := store.TeamSettingRepo.GetByIdentityID(dev.ID)
	updatedAtBefore := settingBefore.UpdatedAt

	updated, err := svc.ElevateRole(admin.ID, dev.ID, domain.RoleRegular)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Role != domain.RoleRegular {
		t.Errorf("Expected role regular, got %s", updated.Role)
	}

	settingAfter, _ := store.TeamSettingRepo.GetByIdentityID(dev.ID)
	if !settingAfter.UpdatedAt.Equal(updatedAtBefore) {
		t.Error("Expected no-op elevation to leave the setting untouched")
	}
}

func TestGenerateWorkPhone_RetriesOnCollision(t *testing.T) {
	svc, store := newTestReconciler()

	store.IdentityRepo.AddIdentity(&domain.Identity{
		ID:        uuid.New(),
		Email:     "taken@example.com",
		Username:  "taken",
		Role:      domain.RoleRegular,
		WorkPhone: "1111111111",
	})

	candidates := []string{"1111111111", "2222222222"}
	svc.phoneGen = func() string {
		next := candidates[0]
		if len(candidates) > 1 {
			candidates = candidates[1:]
		}
		return next
	}

	created, err := svc.CreateIdentity(&domain.Identity{
		Email:    "dev@example.com",
		Username: "dev",
		Role:     domain.RoleRegular,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if created.WorkPhone != "2222222222" {
		t.Errorf("Expected retry to land on the free phone, got %q", created.WorkPhone)
	}
}

func TestGenerateWorkPhone_BoundedRetries(t *testing.T) {
	svc, store := newTestReconciler()

	store.IdentityRepo.AddIdentity(&domain.Identity{
		ID:        uuid.New(),
		Email:     "taken@example.com",
		Username:  "taken",
		Role:      domain.RoleRegular,
		WorkPhone: "1111111111",
	})

	calls := 0
	svc.phoneGen = func() string {
		calls++
		return "1111111111"
	}

	_, err := svc.CreateIdentity(&domain.Identity{
		Email:    "dev@example.com",
		Username: "dev",
		Role:     domain.RoleRegular,
	})
	if !errors.Is(err, domain.ErrWorkPhoneConflict) {
		t.Fatalf("Expected ErrWorkPhoneConflict, got %v", err)
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Error("Expected error to classify as conflict")
	}
	if calls != maxWorkPhoneAttempts {
		t.Errorf("Expected exactly %d attempts, got %d", maxWorkPhoneAttempts, calls)
	}
}

func TestRandomWorkPhone_Range(t *testing.T) {
	for i := 0; i < 100; i++ {
		phone := randomWorkPhone()
		if len(phone) != 10 {
			t.Fatalf("Expected 10 digits, got %q", phone)
		}
		if phone[0] == '0' {
			t.Fatalf("Expected no leading zero, got %q", phone)
		}
	}
}

func TestCreateIdentity_DuplicateEmail(t *testing.T) {
	svc, _ := newTestReconciler()

	if _, err := svc.CreateIdentity(&domain.Identity{
		Email:    "dev@example.com",
		Username: "dev",
		Role:     domain.RoleRegular,
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err := svc.CreateIdentity(&domain.Identity{
		Email:    "dev@example.com",
		Username: "other",
		Role:     domain.RoleRegular,
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("Expected ErrEmailTaken, got %v", err)
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Error("Expected error to classify as conflict")
	}
}
