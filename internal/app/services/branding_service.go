package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/google/uuid"
	"github.com/safatanc/checkin-core/internal/app/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DefaultBusinessName = "Our Auto Shop"
	DefaultTagline      = "Quality Service You Can Trust"
)

// BrandingService is a read-only view of the tenant's name and brand kit.
type BrandingService struct {
	db *gorm.DB
}

func NewBrandingService(db *gorm.DB) *BrandingService {
	return &BrandingService{db: db}
}

// GetBranding never fails; missing or unreadable data yields the defaults.
func (s *BrandingService) GetBranding(ctx context.Context, tenantID uuid.UUID) models.Branding {
	branding := models.Branding{
		BusinessName: DefaultBusinessName,
		Tagline:      DefaultTagline,
	}
	log := logrus.WithField("tenant_id", tenantID)

	var tenant models.Tenant
	if err := s.db.WithContext(ctx).Where("id = ?", tenantID).First(&tenant).Error; err != nil {
		if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			log.WithError(err).Warn("tenant lookup failed, using default branding")
		}
	} else if name := strings.TrimSpace(tenant.Name); name != "" {
		branding.BusinessName = name
	}

	var kit models.BrandKit
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&kit).Error; err != nil {
		if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			log.WithError(err).Warn("brand kit lookup failed, using default tagline")
		}
	} else if kit.Tagline != nil && strings.TrimSpace(*kit.Tagline) != "" {
		branding.Tagline = strings.TrimSpace(*kit.Tagline)
	}

	return branding
}
