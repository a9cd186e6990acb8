package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is owned by the account/onboarding side and only read here.
type Tenant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}

type BrandKit struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"tenant_id"`
	Tagline   *string   `gorm:"type:varchar(255)" json:"tagline,omitempty"`
	LogoURL   *string   `gorm:"type:text" json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BrandKit) TableName() string {
	return "brand_kits"
}

type Branding struct {
	BusinessName string `json:"business_name"`
	Tagline      string `json:"tagline"`
}
