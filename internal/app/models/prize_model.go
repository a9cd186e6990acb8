package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultPrizeExpirationDays = 30

// Prize is one row of a tenant's weighted table. ExpirationDays is reported to
// staff only; redemption does not enforce it.
type Prize struct {
	ID             string  `json:"id" validate:"required,max=64"`
	Label          string  `json:"label" validate:"required,max=255"`
	Probability    float64 `json:"probability" validate:"gte=0,lte=1"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	ExpirationDays *int    `json:"expiration_days,omitempty" validate:"omitempty,min=1"`
}

func (p Prize) Expiration() int {
	if p.ExpirationDays == nil {
		return DefaultPrizeExpirationDays
	}
	return *p.ExpirationDays
}

// PrizeList is stored as a JSON document in a single column.
type PrizeList []Prize

func (l PrizeList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *PrizeList) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported prize list type %T", value)
	}
	return json.Unmarshal(raw, l)
}

type PrizeConfiguration struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"tenant_id"`
	Prizes    PrizeList  `gorm:"type:jsonb;not null" json:"prizes"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid" json:"updated_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (PrizeConfiguration) TableName() string {
	return "prize_configurations"
}

func (c *PrizeConfiguration) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type PrizeConfigurationReplaceRequest struct {
	Prizes []Prize `json:"prizes" validate:"required,min=1,max=50,dive"`
}

type PrizeTableResponse struct {
	Prizes        []Prize `json:"prizes"`
	DefaultPrizes []Prize `json:"default_prizes"`
	IsCustom      bool    `json:"is_custom"`
}
