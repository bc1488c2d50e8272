package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vlietberg/teambudget-backend/internal/domain"
	"github.com/vlietberg/teambudget-backend/internal/repository/storage"
)

const (
	MaxAvatarSize   = 5 * 1024 * 1024 // 5MB
	MinAvatarWidth  = 50
	MinAvatarHeight = 50
	ThumbnailWidth  = 200
	DisplayWidth    = 800
	JPEGQuality     = 85

	presignExpiry = 15 * time.Minute
)

var (
	ErrAvatarTooLarge    = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidFormat     = errors.New("invalid format. Supported: JPEG, PNG")
	ErrAvatarTooSmall    = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidImageData  = errors.New("invalid image data")
	ErrStorageNotEnabled = errors.New("avatar storage not configured")
)

// allowedExtensions maps extensions to content types
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// AvatarURLs contains presigned URLs for the stored avatar variants
type AvatarURLs struct {
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
}

// AvatarService processes profile images and stores their variants
type AvatarService struct {
	storage      storage.AvatarRepository
	identityRepo domain.IdentityRepository
}

// NewAvatarService creates a new AvatarService
func NewAvatarService(storage storage.AvatarRepository, identityRepo domain.IdentityRepository) *AvatarService {
	return &AvatarService{storage: storage, identityRepo: identityRepo}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *AvatarService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the image and returns the decoded image
func (s *AvatarService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxAvatarSize {
		return nil, ErrAvatarTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImageData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinAvatarWidth || bounds.Dy() < MinAvatarHeight {
		return nil, ErrAvatarTooSmall
	}

	return img, nil
}

// Upload processes an avatar (resize to display width, derive thumbnail)
// and stores both variants, replacing any previous avatar.
func (s *AvatarService) Upload(ctx context.Context, identityID uuid.UUID, data []byte, filename string) (*AvatarURLs, error) {
	if !s.IsEnabled() {
		return nil, ErrStorageNotEnabled
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	identity, err := s.identityRepo.GetByID(identityID)
	if err != nil {
		return nil, err
	}

	display := imaging.Resize(img, DisplayWidth, 0, imaging.Lanczos)
	thumbnail := imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)

	displayPath := storage.GenerateObjectPath(identityID, "display", ".jpg")
	if err := s.uploadJPEG(ctx, displayPath, display); err != nil {
		return nil, err
	}
	thumbPath := thumbnailPath(displayPath)
	if err := s.uploadJPEG(ctx, thumbPath, thumbnail); err != nil {
		// Keep storage consistent: remove the display variant too.
		if delErr := s.storage.Delete(ctx, displayPath); delErr != nil {
			log.Warn().Err(delErr).Str("path", displayPath).Msg("Failed to clean up display variant")
		}
		return nil, err
	}

	// Remove the previous avatar after the new one is in place.
	if identity.AvatarPath != nil {
		s.deleteVariants(ctx, *identity.AvatarPath)
	}

	if err := s.identityRepo.UpdateAvatarPath(identityID, &displayPath); err != nil {
		return nil, err
	}

	return s.presign(ctx, displayPath)
}

// GetURLs returns presigned URLs for the identity's stored avatar
func (s *AvatarService) GetURLs(ctx context.Context, identityID uuid.UUID) (*AvatarURLs, error) {
	if !s.IsEnabled() {
		return nil, ErrStorageNotEnabled
	}

	identity, err := s.identityRepo.GetByID(identityID)
	if err != nil {
		return nil, err
	}
	if identity.AvatarPath == nil {
		return nil, nil
	}
	return s.presign(ctx, *identity.AvatarPath)
}

// Delete removes the identity's avatar variants and clears the stored path
func (s *AvatarService) Delete(ctx context.Context, identityID uuid.UUID) error {
	if !s.IsEnabled() {
		return ErrStorageNotEnabled
	}

	identity, err := s.identityRepo.GetByID(identityID)
	if err != nil {
		return err
	}
	if identity.AvatarPath == nil {
		return nil
	}

	s.deleteVariants(ctx, *identity.AvatarPath)
	return s.identityRepo.UpdateAvatarPath(identityID, nil)
}

func (s *AvatarService) uploadJPEG(ctx context.Context, objectPath string, img image.Image) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	_, err := s.storage.Upload(ctx, objectPath, &buf, "image/jpeg", int64(buf.Len()))
	return err
}

func (s *AvatarService) presign(ctx context.Context, displayPath string) (*AvatarURLs, error) {
	displayURL, err := s.storage.GeneratePresignedURL(ctx, displayPath, presignExpiry)
	if err != nil {
		return nil, err
	}
	thumbURL, err := s.storage.GeneratePresignedURL(ctx, thumbnailPath(displayPath), presignExpiry)
	if err != nil {
		return nil, err
	}
	return &AvatarURLs{ThumbnailURL: thumbURL, DisplayURL: displayURL}, nil
}

func (s *AvatarService) deleteVariants(ctx context.Context, displayPath string) {
	for _, p := range []string{displayPath, thumbnailPath(displayPath)} {
		if err := s.storage.Delete(ctx, p); err != nil {
			log.Warn().Err(err).Str("path", p).Msg("Failed to delete avatar variant")
		}
	}
}

// thumbnailPath derives the thumbnail object path from the display path.
func thumbnailPath(displayPath string) string {
	return strings.Replace(displayPath, "_display.jpg", "_thumbnail.jpg", 1)
}
