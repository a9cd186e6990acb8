package services

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/google/uuid"
	"github.com/safatanc/checkin-core/internal/app/models"
	"github.com/safatanc/checkin-core/internal/infrastructures"
	"gorm.io/gorm"
)

// ContentService is the append-only store for generated media.
type ContentService struct {
	db    *gorm.DB
	store infrastructures.ObjectStore
}

func NewContentService(db *gorm.DB, store infrastructures.ObjectStore) *ContentService {
	return &ContentService{
		db:    db,
		store: store,
	}
}

// UploadImage stores the bytes under the tenant's prefix and returns the URL and key.
func (s *ContentService) UploadImage(ctx context.Context, tenantID uuid.UUID, image models.ImageRef) (string, string, error) {
	key := fmt.Sprintf("tenants/%s/content/%s%s", tenantID, uuid.NewString(), extensionFor(image.MimeType))

	url, err := s.store.PutObject(ctx, key, image.MimeType, image.Data)
	if err != nil {
		return "", "", err
	}
	return url, key, nil
}

// Create appends a content row through tx so callers can link it atomically.
func (s *ContentService) Create(tx *gorm.DB, content *models.Content) (*models.Content, error) {
	if tx == nil {
		tx = s.db
	}
	if err := tx.Create(content).Error; err != nil {
		return nil, err
	}
	return content, nil
}

func extensionFor(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
