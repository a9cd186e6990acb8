package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContentType string

const (
	ContentTypeActionFigure ContentType = "action_figure"
)

// Content is append-only generated media owned by a tenant user.
type Content struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID       uuid.UUID   `gorm:"type:uuid;not null" json:"user_id"`
	SubmissionID *uuid.UUID  `gorm:"type:uuid;index" json:"submission_id,omitempty"`
	Type         ContentType `gorm:"type:varchar(32);not null" json:"type"`
	Title        string      `gorm:"type:varchar(255)" json:"title"`
	Caption      string      `gorm:"type:text" json:"caption"`
	ImageURL     string      `gorm:"type:text;not null" json:"image_url"`
	ObjectKey    *string     `gorm:"type:varchar(512)" json:"object_key,omitempty"`
	MimeType     string      `gorm:"type:varchar(64)" json:"mime_type"`
	Prompt       string      `gorm:"type:text" json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
}

func (Content) TableName() string {
	return "contents"
}

func (c *Content) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ImageRef is raw image bytes with their mime type.
type ImageRef struct {
	MimeType string
	Data     []byte
}

type ImageGenerationOptions struct {
	AspectRatio     string
	ExtraReferences []ImageRef
}

type ImageGenerationResult struct {
	Success   bool
	ImageData []byte
	MimeType  string
	Error     string
}

// ActionFigureRequest carries the customer photo and optional logos as data URLs
// or bare base64; bare photo data takes its type from PhotoMimeType.
type ActionFigureRequest struct {
	SubmissionID  string   `json:"submission_id" validate:"required,uuid"`
	Photo         string   `json:"photo" validate:"required"`
	PhotoMimeType string   `json:"photo_mime_type,omitempty" validate:"omitempty,max=64"`
	Logos         []string `json:"logos,omitempty" validate:"omitempty,max=3"`
}

type ActionFigureResponse struct {
	ContentID      uuid.UUID `json:"content_id"`
	ImageURL       string    `json:"image_url"`
	Caption        string    `json:"caption"`
	ValidationCode string    `json:"validation_code"`
	PrizeLabel     string    `json:"prize_label"`
}
