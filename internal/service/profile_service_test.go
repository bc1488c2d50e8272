package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/vlietberg/teambudget-backend/internal/domain"
	"github.com/vlietberg/teambudget-backend/internal/testutil"
)

func newTestProfile(t *testing.T, role domain.Role) (*ProfileService, *domain.Identity, *testutil.MockReconcileStore) {
	t.Helper()
	store := testutil.NewMockReconcileStore()
	reconciler := NewReconcilerService(store)

	identity, err := reconciler.CreateIdentity(&domain.Identity{
		Email:    "dev@example.com",
		Username: "dev",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	return NewProfileService(store.IdentityRepo, store.PermissionRepo), identity, store
}

func TestGetProfile(t *testing.T) {
	svc, identity, _ := newTestProfile(t, domain.RoleAdmin)

	profile, err := svc.GetProfile(identity.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if profile.AccountLevel != domain.AccountLevelManager {
		t.Errorf("Expected account level manager, got %s", profile.AccountLevel)
	}
	if !profile.IsManager {
		t.Error("Expected manager flag")
	}
	if len(profile.Permissions) != len(domain.FullPermissionSet()) {
		t.Errorf("Expected full permission set, got %d entries", len(profile.Permissions))
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	svc, _, _ := newTestProfile(t, domain.RoleRegular)

	if _, err := svc.GetProfile(uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProfile_ManagerOnly(t *testing.T) {
	svc, identity, _ := newTestProfile(t, domain.RoleRegular)

	_, err := svc.UpdateProfile(identity.ID, UpdateProfileInput{
		Username: "newname",
		Email:    "new@example.com",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}
}

func TestUpdateProfile_Manager(t *testing.T) {
	svc, identity, _ := newTestProfile(t, domain.RoleAdmin)

	profile, err := svc.UpdateProfile(identity.ID, UpdateProfileInput{
		Username: "lead",
		Email:    "Lead@Example.com",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if profile.Identity.Username != "lead" {
		t.Errorf("Expected username lead, got %q", profile.Identity.Username)
	}
	if profile.Identity.Email != "lead@example.com" {
		t.Errorf("Expected lowercased email, got %q", profile.Identity.Email)
	}
}

func TestUpdateProfile_RejectsUnknownTeam(t *testing.T) {
	svc, identity, _ := newTestProfile(t, domain.RoleAdmin)

	_, err := svc.UpdateProfile(identity.ID, UpdateProfileInput{
		Username: "lead",
		Email:    "lead@example.com",
		Team:     "Made Up Team",
	})
	if !errors.Is(err, domain.ErrInvalidTeamName) {
		t.Fatalf("Expected ErrInvalidTeamName, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	svc, identity, store := newTestProfile(t, domain.RoleRegular)

	if err := svc.DeleteAccount(identity.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := store.IdentityRepo.GetByID(identity.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected identity to be gone, got %v", err)
	}
}
