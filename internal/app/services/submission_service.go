package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/safatanc/checkin-core/internal/app/errors"
	"github.com/safatanc/checkin-core/internal/app/models"
	"github.com/safatanc/checkin-core/internal/app/pkg"
	"github.com/safatanc/checkin-core/internal/infrastructures"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const maxValidationCodeAttempts = 10

var submissionOrderFields = map[string]string{
	"created_at":    "created_at",
	"customer_name": "customer_name",
	"prize_won_at":  "prize_won_at",
	"redeemed_at":   "redeemed_at",
}

// SubmissionService owns the check-in lifecycle: create, spin, redeem and the
// read-only validate. Spin and redeem commit through conditional updates so
// concurrent duplicates resolve to exactly one winner.
type SubmissionService struct {
	db           *gorm.DB
	validator    *infrastructures.Validator
	prizeService *PrizeService
	selector     *PrizeSelector
	auditService *AuditService
	random       pkg.RandomSource
	codePrefix   string
	now          func() time.Time
}

func NewSubmissionService(db *gorm.DB, validator *infrastructures.Validator, prizeService *PrizeService, selector *PrizeSelector, auditService *AuditService, random pkg.RandomSource, cfg *infrastructures.AppConfig) *SubmissionService {
	codePrefix, err := pkg.NormalizeValidationCodePrefix(cfg.CheckInToWin.ValidationCodePrefix)
	if err != nil {
		logrus.WithError(err).Warn("invalid validation code prefix, using default")
		codePrefix = pkg.DefaultValidationCodePrefix
	}

	return &SubmissionService{
		db:           db,
		validator:    validator,
		prizeService: prizeService,
		selector:     selector,
		auditService: auditService,
		random:       random,
		codePrefix:   codePrefix,
		now:          time.Now,
	}
}

func (s *SubmissionService) Submit(ctx context.Context, tenantID uuid.UUID, req *models.CheckInSubmitRequest) (*models.CheckInSubmission, error) {
	if req == nil {
		return nil, errors.NewBadRequestError("Invalid request body")
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if req.CustomerName == "" {
		return nil, errors.NewValidationError("Customer name is required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxValidationCodeAttempts; attempt++ {
		code := pkg.GenerateValidationCode(s.random, s.codePrefix)

		var taken int64
		if err := s.db.WithContext(ctx).Model(&models.CheckInSubmission{}).
			Where("tenant_id = ? AND validation_code = ?", tenantID, code).
			Count(&taken).Error; err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to check validation code")
		}
		if taken > 0 {
			continue
		}

		submission := &models.CheckInSubmission{
			TenantID:         tenantID,
			CustomerName:     req.CustomerName,
			Phone:            trimmedOrNil(req.Phone),
			VehicleYear:      trimmedOrNil(req.VehicleYear),
			VehicleMake:      trimmedOrNil(req.VehicleMake),
			VehicleModel:     trimmedOrNil(req.VehicleModel),
			VehicleColor:     trimmedOrNil(req.VehicleColor),
			Mileage:          req.Mileage,
			IssueDescription: trimmedOrNil(req.IssueDescription),
			ValidationCode:   code,
			Redeemed:         false,
		}

		if err := s.db.WithContext(ctx).Create(submission).Error; err != nil {
			if stderrors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return nil, errors.NewInternalServerError(err, "Failed to create submission")
		}

		logrus.WithFields(logrus.Fields{
			"tenant_id":     tenantID,
			"submission_id": submission.ID,
		}).Info("check-in submitted")

		return submission, nil
	}

	return nil, errors.NewInternalServerError(
		fmt.Errorf("no free validation code after %d attempts", maxValidationCodeAttempts),
		"Failed to generate a unique validation code",
	)
}

// Spin awards a prize at most once per submission.
func (s *SubmissionService) Spin(ctx context.Context, tenantID uuid.UUID, submissionID string) (*models.SpinResponse, error) {
	submission, err := s.GetSubmission(ctx, tenantID, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.PrizeWon != nil {
		return nil, errors.NewConflictError("Prize already won for this submission")
	}

	prizes := s.prizeService.GetConfiguration(ctx, tenantID)
	prize, fellBack := s.selector.SelectPrize(prizes)
	if fellBack {
		logrus.WithFields(logrus.Fields{
			"tenant_id": tenantID,
			"prize_id":  prize.ID,
		}).Warn("weighted selection exhausted the prize table, awarding last prize")
	}

	if err := s.recordPrize(ctx, tenantID, submission, prize); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"tenant_id":     tenantID,
		"submission_id": submission.ID,
		"prize_id":      prize.ID,
	}).Info("prize awarded")

	return &models.SpinResponse{
		SubmissionID:   submission.ID,
		Prize:          prize,
		ValidationCode: submission.ValidationCode,
	}, nil
}

// recordPrize writes the prize only if the row is still unspun. submission may
// be stale; the guarded update decides the winner.
func (s *SubmissionService) recordPrize(ctx context.Context, tenantID uuid.UUID, submission *models.CheckInSubmission, prize models.Prize) error {
	now := s.now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.CheckInSubmission{}).
			Where("tenant_id = ? AND id = ? AND prize_won IS NULL", tenantID, submission.ID).
			Updates(map[string]interface{}{
				"prize_won":    prize.Label,
				"prize_id":     prize.ID,
				"prize_won_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.NewConflictError("Prize already won for this submission")
		}

		return s.auditService.LogAudit(tx, tenantID, submission.TableName(), submission.ID, models.AuditActionStatusChange,
			map[string]any{"state": models.SubmissionStateCreated},
			map[string]any{"state": models.SubmissionStatePrizeWon, "prize_id": prize.ID, "prize_won": prize.Label},
			nil,
		)
	})
	if err != nil {
		return asAppError(err, "Failed to record prize")
	}
	return nil
}

// Redeem consumes a validation code at most once.
func (s *SubmissionService) Redeem(ctx context.Context, principal *models.Principal, validationCode string) (*models.CheckInSubmission, error) {
	code := pkg.NormalizeValidationCode(validationCode)
	if code == "" {
		return nil, errors.NewValidationError("Validation code is required")
	}

	var redeemed models.CheckInSubmission
	now := s.now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.CheckInSubmission{}).
			Where("tenant_id = ? AND validation_code = ? AND redeemed = ? AND prize_won IS NOT NULL", principal.TenantID, code, false).
			Updates(map[string]interface{}{
				"redeemed":    true,
				"redeemed_at": now,
				"redeemed_by": principal.UserID,
			})
		if result.Error != nil {
			return result.Error
		}

		if err := tx.Where("tenant_id = ? AND validation_code = ?", principal.TenantID, code).First(&redeemed).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NewNotFoundError("Invalid validation code")
			}
			return err
		}

		if result.RowsAffected == 0 {
			if redeemed.Redeemed {
				return errors.NewConflictError("Prize already redeemed").
					With("redeemed_at", redeemed.RedeemedAt)
			}
			return errors.NewConflictError("No prize won for this code - spin first")
		}

		return s.auditService.LogAudit(tx, principal.TenantID, redeemed.TableName(), redeemed.ID, models.AuditActionStatusChange,
			map[string]any{"state": models.SubmissionStatePrizeWon, "redeemed": false},
			map[string]any{"state": models.SubmissionStateRedeemed, "redeemed": true, "redeemed_at": now},
			&principal.UserID,
		)
	})
	if err != nil {
		return nil, asAppError(err, "Failed to redeem prize")
	}

	logrus.WithFields(logrus.Fields{
		"tenant_id":     principal.TenantID,
		"submission_id": redeemed.ID,
		"prize_id":      redeemed.PrizeID,
	}).Info("prize redeemed")

	return &redeemed, nil
}

// Validate checks a code without consuming it.
func (s *SubmissionService) Validate(ctx context.Context, tenantID uuid.UUID, validationCode string) (*models.ValidationResult, error) {
	code := pkg.NormalizeValidationCode(validationCode)
	if code == "" {
		return &models.ValidationResult{Valid: false, Status: models.ValidationStatusInvalidCode, Error: "Invalid code"}, nil
	}

	var submission models.CheckInSubmission
	err := s.db.WithContext(ctx).Where("tenant_id = ? AND validation_code = ?", tenantID, code).First(&submission).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return &models.ValidationResult{Valid: false, Status: models.ValidationStatusInvalidCode, Error: "Invalid code"}, nil
		}
		return nil, errors.NewInternalServerError(err, "Failed to validate code")
	}

	switch {
	case submission.Redeemed:
		return &models.ValidationResult{
			Valid:      false,
			Status:     models.ValidationStatusAlreadyRedeemed,
			Error:      "Prize already redeemed on " + pkg.FormatRedemptionDate(submission.RedeemedAt),
			Submission: submission.Redacted(),
		}, nil
	case submission.PrizeWon == nil:
		return &models.ValidationResult{
			Valid:      false,
			Status:     models.ValidationStatusNoPrize,
			Error:      "No prize has been won with this code",
			Submission: submission.Redacted(),
		}, nil
	}

	return &models.ValidationResult{
		Valid:      true,
		Status:     models.ValidationStatusValid,
		Submission: &submission,
	}, nil
}

// GetSubmission never distinguishes another tenant's record from a missing one.
func (s *SubmissionService) GetSubmission(ctx context.Context, tenantID uuid.UUID, submissionID string) (*models.CheckInSubmission, error) {
	submissionUUID, err := uuid.Parse(submissionID)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid submission ID format")
	}

	var submission models.CheckInSubmission
	err = s.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, submissionUUID).First(&submission).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("Submission not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get submission")
	}

	return &submission, nil
}

// LinkContent points a submission at generated content; the latest link wins.
func (s *SubmissionService) LinkContent(tx *gorm.DB, tenantID, submissionID, contentID uuid.UUID) error {
	if tx == nil {
		tx = s.db
	}

	result := tx.Model(&models.CheckInSubmission{}).
		Where("tenant_id = ? AND id = ?", tenantID, submissionID).
		Update("content_id", contentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("Submission not found")
	}
	return nil
}

func (s *SubmissionService) ListSubmissions(ctx context.Context, tenantID uuid.UUID, req *models.SubmissionListRequest) (*models.Pagination[[]models.CheckInSubmission], error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// Set defaults
	if req.Limit <= 0 {
		req.Limit = 10
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	orderField, ok := submissionOrderFields[req.OrderField]
	if !ok {
		orderField = "created_at"
	}
	order := "DESC"
	if req.Order == "asc" {
		order = "ASC"
	}

	offset := (req.Page - 1) * req.Limit

	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Where("tenant_id = ?", tenantID)
		if req.Redeemed != nil {
			db = db.Where("redeemed = ?", *req.Redeemed)
		}
		if req.HasPrize != nil {
			if *req.HasPrize {
				db = db.Where("prize_won IS NOT NULL")
			} else {
				db = db.Where("prize_won IS NULL")
			}
		}
		if search := strings.TrimSpace(req.Search); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			db = db.Where("(LOWER(customer_name) LIKE ? OR phone LIKE ? OR LOWER(validation_code) LIKE ?)", like, like, like)
		}
		return db
	}

	var totalItems int64
	if err := s.db.WithContext(ctx).Model(&models.CheckInSubmission{}).Scopes(filter).Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count submissions")
	}

	var submissions []models.CheckInSubmission
	err := s.db.WithContext(ctx).Scopes(filter).
		Order(orderField + " " + order).
		Limit(req.Limit).
		Offset(offset).
		Find(&submissions).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get submissions")
	}

	// Calculate pagination metadata
	totalPages := int((totalItems + int64(req.Limit) - 1) / int64(req.Limit))

	return &models.Pagination[[]models.CheckInSubmission]{
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
		Items:      submissions,
	}, nil
}

func (s *SubmissionService) GetStats(ctx context.Context, tenantID uuid.UUID) (*models.SubmissionStats, error) {
	stats := &models.SubmissionStats{ByPrize: []models.PrizeStat{}}
	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.CheckInSubmission{}).Where("tenant_id = ?", tenantID)
	}

	counts := []struct {
		target *int64
		where  string
		args   []interface{}
	}{
		{target: &stats.TotalSubmissions},
		{target: &stats.PrizesWon, where: "prize_won IS NOT NULL"},
		{target: &stats.Redeemed, where: "redeemed = ?", args: []interface{}{true}},
		{target: &stats.ContentGenerated, where: "content_id IS NOT NULL"},
	}
	for _, c := range counts {
		query := base()
		if c.where != "" {
			query = query.Where(c.where, c.args...)
		}
		if err := query.Count(c.target).Error; err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to count submissions")
		}
	}

	err := base().
		Select("prize_id, prize_won AS label, COUNT(*) AS won, SUM(CASE WHEN redeemed THEN 1 ELSE 0 END) AS redeemed").
		Where("prize_won IS NOT NULL").
		Group("prize_id, prize_won").
		Order("won DESC").
		Scan(&stats.ByPrize).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to aggregate prizes")
	}

	return stats, nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// asAppError passes AppErrors through and wraps anything else as a 500.
func asAppError(err error, message string) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return errors.NewInternalServerError(err, message)
}
