package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/vlietberg/teambudget-backend/internal/domain"
	"github.com/vlietberg/teambudget-backend/internal/testutil"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func newTestAvatar(t *testing.T) (*AvatarService, *testutil.MockAvatarRepository, *domain.Identity) {
	t.Helper()
	identityRepo := testutil.NewMockIdentityRepository()
	identity, err := identityRepo.Create(&domain.Identity{
		Email:    "dev@example.com",
		Username: "dev",
		Role:     domain.RoleRegular,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	avatarRepo := testutil.NewMockAvatarRepository()
	return NewAvatarService(avatarRepo, identityRepo), avatarRepo, identity
}

func TestAvatarUpload(t *testing.T) {
	svc, avatarRepo, identity := newTestAvatar(t)

	urls, err := svc.Upload(context.Background(), identity.ID, pngBytes(t, 400, 400), "me.png")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if urls.DisplayURL == "" || urls.ThumbnailURL == "" {
		t.Error("Expected presigned URLs for both variants")
	}
	if len(avatarRepo.Objects) != 2 {
		t.Errorf("Expected 2 stored variants, got %d", len(avatarRepo.Objects))
	}
	if identity.AvatarPath == nil {
		t.Fatal("Expected avatar path to be recorded")
	}
	if !strings.HasPrefix(*identity.AvatarPath, "avatars/"+identity.ID.String()+"/") {
		t.Errorf("Expected object path under the identity's prefix, got %q", *identity.AvatarPath)
	}
}

func TestAvatarUpload_ReplacesPrevious(t *testing.T) {
	svc, avatarRepo, identity := newTestAvatar(t)

	if _, err := svc.Upload(context.Background(), identity.ID, pngBytes(t, 400, 400), "first.png"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	firstPath := *identity.AvatarPath

	if _, err := svc.Upload(context.Background(), identity.ID, pngBytes(t, 600, 600), "second.png"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if *identity.AvatarPath == firstPath {
		t.Error("Expected avatar path to change on replacement")
	}
	// Old variants are gone; only the new pair remains.
	if len(avatarRepo.Objects) != 2 {
		t.Errorf("Expected 2 stored variants after replacement, got %d", len(avatarRepo.Objects))
	}
	if _, ok := avatarRepo.Objects[firstPath]; ok {
		t.Error("Expected previous display variant to be deleted")
	}
}

func TestAvatarUpload_Validation(t *testing.T) {
	svc, _, identity := newTestAvatar(t)

	_, err := svc.Upload(context.Background(), identity.ID, pngBytes(t, 400, 400), "me.gif")
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("Expected ErrInvalidFormat, got %v", err)
	}

	_, err = svc.Upload(context.Background(), identity.ID, pngBytes(t, 20, 20), "me.png")
	if !errors.Is(err, ErrAvatarTooSmall) {
		t.Fatalf("Expected ErrAvatarTooSmall, got %v", err)
	}

	_, err = svc.Upload(context.Background(), identity.ID, []byte("not an image"), "me.png")
	if !errors.Is(err, ErrInvalidImageData) {
		t.Fatalf("Expected ErrInvalidImageData, got %v", err)
	}
}

func TestAvatarDelete(t *testing.T) {
	svc, avatarRepo, identity := newTestAvatar(t)

	if _, err := svc.Upload(context.Background(), identity.ID, pngBytes(t, 400, 400), "me.png"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := svc.Delete(context.Background(), identity.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if identity.AvatarPath != nil {
		t.Error("Expected avatar path to be cleared")
	}
	if len(avatarRepo.Objects) != 0 {
		t.Errorf("Expected all variants deleted, got %d remaining", len(avatarRepo.Objects))
	}

	// Deleting again is a no-op.
	if err := svc.Delete(context.Background(), identity.ID); err != nil {
		t.Fatalf("Expected no error on repeat delete, got %v", err)
	}
}

func TestAvatarGetURLs_NoneUploaded(t *testing.T) {
	svc, _, identity := newTestAvatar(t)

	urls, err := svc.GetURLs(context.Background(), identity.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if urls != nil {
		t.Error("Expected nil URLs when no avatar is stored")
	}
}

func TestAvatarUpload_StorageDisabled(t *testing.T) {
	identityRepo := testutil.NewMockIdentityRepository()
	svc := NewAvatarService(nil, identityRepo)

	if svc.IsEnabled() {
		t.Error("Expected storage to be disabled")
	}
	// Nil service is tolerated too since handlers may carry one.
	var nilSvc *AvatarService
	if nilSvc.IsEnabled() {
		t.Error("Expected nil service to be disabled")
	}
}
