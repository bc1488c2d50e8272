package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/vlietberg/teambudget-backend/internal/domain"
	"github.com/vlietberg/teambudget-backend/internal/testutil"
)

func newTestSetting(t *testing.T) (*TeamSettingService, uuid.UUID) {
	t.Helper()
	store := testutil.NewMockReconcileStore()
	reconciler := NewReconcilerService(store)

	identity, err := reconciler.CreateIdentity(&domain.Identity{
		Email:    "dev@example.com",
		Username: "dev",
		Role:     domain.RoleRegular,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	return NewTeamSettingService(store.TeamSettingRepo), identity.ID
}

func TestUpdateSetting(t *testing.T) {
	svc, identityID := newTestSetting(t)

	setting, err := svc.Update(identityID, UpdateSettingInput{
		Currency:                "gbp",
		CommunicationPreference: "slack",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if setting.Currency != domain.CurrencyGBP {
		t.Errorf("Expected GBP, got %s", setting.Currency)
	}
	if setting.CommunicationPreference != "slack" {
		t.Errorf("Expected slack, got %q", setting.CommunicationPreference)
	}
	// Untouched fields keep their values.
	if setting.TeamName != domain.DefaultTeamName {
		t.Errorf("Expected team name to be unchanged, got %q", setting.TeamName)
	}
}

func TestUpdateSetting_InvalidCurrency(t *testing.T) {
	svc, identityID := newTestSetting(t)

	_, err := svc.Update(identityID, UpdateSettingInput{Currency: "EUR"})
	if !errors.Is(err, domain.ErrInvalidCurrency) {
		t.Fatalf("Expected ErrInvalidCurrency, got %v", err)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Error("Expected error to classify as validation")
	}
}

func TestUpdateSetting_InvalidTeamName(t *testing.T) {
	svc, identityID := newTestSetting(t)

	_, err := svc.Update(identityID, UpdateSettingInput{TeamName: "Made Up Team"})
	if !errors.Is(err, domain.ErrInvalidTeamName) {
		t.Fatalf("Expected ErrInvalidTeamName, got %v", err)
	}
}

func TestUpdateSetting_NotFound(t *testing.T) {
	svc := NewTeamSettingService(testutil.NewMockTeamSettingRepository())

	_, err := svc.Update(uuid.New(), UpdateSettingInput{Currency: "USD"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}
