package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmissionState string

const (
	SubmissionStateCreated          SubmissionState = "CREATED"
	SubmissionStatePrizeWon         SubmissionState = "PRIZE_WON"
	SubmissionStateContentGenerated SubmissionState = "CONTENT_GENERATED"
	SubmissionStateRedeemed         SubmissionState = "REDEEMED"
)

type CheckInSubmission struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_submissions_tenant_code,priority:1;index:idx_submissions_tenant_created,priority:1" json:"tenant_id"`
	CustomerName     string     `gorm:"type:varchar(255);not null" json:"customer_name"`
	Phone            *string    `gorm:"type:varchar(32)" json:"phone,omitempty"`
	VehicleYear      *string    `gorm:"type:varchar(8)" json:"vehicle_year,omitempty"`
	VehicleMake      *string    `gorm:"type:varchar(64)" json:"vehicle_make,omitempty"`
	VehicleModel     *string    `gorm:"type:varchar(64)" json:"vehicle_model,omitempty"`
	VehicleColor     *string    `gorm:"type:varchar(32)" json:"vehicle_color,omitempty"`
	Mileage          *int       `json:"mileage,omitempty"`
	IssueDescription *string    `gorm:"type:text" json:"issue_description,omitempty"`
	ValidationCode   string     `gorm:"type:varchar(16);not null;uniqueIndex:idx_submissions_tenant_code,priority:2" json:"validation_code"`
	PrizeWon         *string    `gorm:"type:varchar(255)" json:"prize_won,omitempty"`
	PrizeID          *string    `gorm:"type:varchar(64)" json:"prize_id,omitempty"`
	PrizeWonAt       *time.Time `json:"prize_won_at,omitempty"`
	ContentID        *uuid.UUID `gorm:"type:uuid" json:"content_id,omitempty"`
	Redeemed         bool       `gorm:"not null;default:false" json:"redeemed"`
	RedeemedAt       *time.Time `json:"redeemed_at,omitempty"`
	RedeemedBy       *uuid.UUID `gorm:"type:uuid" json:"redeemed_by,omitempty"`
	CreatedAt        time.Time  `gorm:"index:idx_submissions_tenant_created,priority:2" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (CheckInSubmission) TableName() string {
	return "check_in_submissions"
}

func (s *CheckInSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// State derives the lifecycle position from the engine-owned fields.
func (s *CheckInSubmission) State() SubmissionState {
	switch {
	case s.Redeemed:
		return SubmissionStateRedeemed
	case s.ContentID != nil:
		return SubmissionStateContentGenerated
	case s.PrizeWon != nil:
		return SubmissionStatePrizeWon
	default:
		return SubmissionStateCreated
	}
}

// Redacted keeps only what front-desk staff need to explain a used code.
func (s *CheckInSubmission) Redacted() *CheckInSubmission {
	return &CheckInSubmission{
		ID:             s.ID,
		TenantID:       s.TenantID,
		CustomerName:   s.CustomerName,
		ValidationCode: s.ValidationCode,
		PrizeWon:       s.PrizeWon,
		PrizeID:        s.PrizeID,
		Redeemed:       s.Redeemed,
		RedeemedAt:     s.RedeemedAt,
		CreatedAt:      s.CreatedAt,
	}
}

type CheckInSubmitRequest struct {
	CustomerName     string  `json:"name" validate:"required,max=255"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	VehicleYear      *string `json:"vehicle_year,omitempty" validate:"omitempty,max=8"`
	VehicleMake      *string `json:"vehicle_make,omitempty" validate:"omitempty,max=64"`
	VehicleModel     *string `json:"vehicle_model,omitempty" validate:"omitempty,max=64"`
	VehicleColor     *string `json:"vehicle_color,omitempty" validate:"omitempty,max=32"`
	Mileage          *int    `json:"mileage,omitempty" validate:"omitempty,min=0"`
	IssueDescription *string `json:"issue_description,omitempty" validate:"omitempty,max=2000"`
}

type SpinRequest struct {
	SubmissionID string `json:"submission_id" validate:"required,uuid"`
}

type SpinResponse struct {
	SubmissionID   uuid.UUID `json:"submission_id"`
	Prize          Prize     `json:"prize"`
	ValidationCode string    `json:"validation_code"`
}

type RedeemRequest struct {
	ValidationCode string `json:"validation_code" validate:"required,max=16"`
}

type ValidationStatus string

const (
	ValidationStatusValid           ValidationStatus = "VALID"
	ValidationStatusInvalidCode     ValidationStatus = "INVALID_CODE"
	ValidationStatusAlreadyRedeemed ValidationStatus = "ALREADY_REDEEMED"
	ValidationStatusNoPrize         ValidationStatus = "NO_PRIZE"
)

type ValidationResult struct {
	Valid      bool               `json:"valid"`
	Status     ValidationStatus   `json:"status"`
	Error      string             `json:"error,omitempty"`
	Submission *CheckInSubmission `json:"submission,omitempty"`
}

type SubmissionListRequest struct {
	PaginationRequest
	Redeemed *bool  `query:"redeemed"`
	HasPrize *bool  `query:"has_prize"`
	Search   string `query:"search" validate:"omitempty,max=100"`
}

type PrizeStat struct {
	PrizeID  string `json:"prize_id"`
	Label    string `json:"label"`
	Won      int64  `json:"won"`
	Redeemed int64  `json:"redeemed"`
}

type SubmissionStats struct {
	TotalSubmissions int64       `json:"total_submissions"`
	PrizesWon        int64       `json:"prizes_won"`
	Redeemed         int64       `json:"redeemed"`
	ContentGenerated int64       `json:"content_generated"`
	ByPrize          []PrizeStat `json:"by_prize"`
}
