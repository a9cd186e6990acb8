package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/safatanc/checkin-core/internal/app/errors"
	"github.com/safatanc/checkin-core/internal/app/models"
	"github.com/safatanc/checkin-core/internal/infrastructures"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var probabilityTolerance = decimal.RequireFromString("0.01")

var defaultPrizes = []models.Prize{
	{ID: "free-oil-change", Label: "Free Oil Change", Probability: 0.05},
	{ID: "10-off-service", Label: "$10 Off Your Next Service", Probability: 0.20},
	{ID: "free-tire-rotation", Label: "Free Tire Rotation", Probability: 0.10},
	{ID: "free-car-wash", Label: "Free Car Wash", Probability: 0.15},
	{ID: "5-off-service", Label: "$5 Off Any Service", Probability: 0.20},
	{ID: "free-wiper-blades", Label: "Free Wiper Blade Install", Probability: 0.08},
	{ID: "free-air-freshener", Label: "Free Air Freshener", Probability: 0.12},
	{ID: "free-inspection", Label: "Free Multi-Point Inspection", Probability: 0.07},
	{ID: "25-off-brakes", Label: "$25 Off Brake Service", Probability: 0.03},
}

// DefaultPrizes returns a copy of the built-in table used by tenants without one.
func DefaultPrizes() []models.Prize {
	prizes := make([]models.Prize, len(defaultPrizes))
	copy(prizes, defaultPrizes)
	return prizes
}

type PrizeService struct {
	db           *gorm.DB
	validator    *infrastructures.Validator
	cache        *PrizeCache
	auditService *AuditService
}

func NewPrizeService(db *gorm.DB, validator *infrastructures.Validator, cache *PrizeCache, auditService *AuditService) *PrizeService {
	return &PrizeService{
		db:           db,
		validator:    validator,
		cache:        cache,
		auditService: auditService,
	}
}

// GetConfiguration returns the tenant's table, or the default one. Any read
// failure falls back to the defaults so a check-in is never blocked on it.
func (s *PrizeService) GetConfiguration(ctx context.Context, tenantID uuid.UUID) []models.Prize {
	prizes, _ := s.loadConfiguration(ctx, tenantID)
	return prizes
}

func (s *PrizeService) GetPrizeTable(ctx context.Context, tenantID uuid.UUID) *models.PrizeTableResponse {
	prizes, custom := s.loadConfiguration(ctx, tenantID)
	return &models.PrizeTableResponse{
		Prizes:        prizes,
		DefaultPrizes: DefaultPrizes(),
		IsCustom:      custom,
	}
}

func (s *PrizeService) loadConfiguration(ctx context.Context, tenantID uuid.UUID) ([]models.Prize, bool) {
	log := logrus.WithField("tenant_id", tenantID)

	if prizes, ok := s.cache.Get(ctx, tenantID); ok {
		if err := ValidatePrizeTable(prizes); err == nil {
			return prizes, true
		}
		s.cache.Invalidate(ctx, tenantID)
	}

	var config models.PrizeConfiguration
	err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&config).Error
	if err != nil {
		if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			log.WithError(err).Warn("prize configuration read failed, using default prizes")
		}
		return DefaultPrizes(), false
	}

	if err := ValidatePrizeTable(config.Prizes); err != nil {
		log.WithError(err).Warn("stored prize configuration is malformed, using default prizes")
		return DefaultPrizes(), false
	}

	s.cache.Set(ctx, tenantID, config.Prizes)
	return config.Prizes, true
}

// ReplaceConfiguration swaps the whole table in one upsert keyed by tenant.
func (s *PrizeService) ReplaceConfiguration(ctx context.Context, principal *models.Principal, req *models.PrizeConfigurationReplaceRequest) (*models.PrizeConfiguration, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := ValidatePrizeTable(req.Prizes); err != nil {
		return nil, err
	}

	prizes := make(models.PrizeList, len(req.Prizes))
	for i, p := range req.Prizes {
		p.ID = strings.TrimSpace(p.ID)
		p.Label = strings.TrimSpace(p.Label)
		prizes[i] = p
	}

	var saved models.PrizeConfiguration
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var previous models.PrizeConfiguration
		hadPrevious := tx.Where("tenant_id = ?", principal.TenantID).First(&previous).Error == nil

		config := &models.PrizeConfiguration{
			TenantID:  principal.TenantID,
			Prizes:    prizes,
			UpdatedBy: &principal.UserID,
			UpdatedAt: time.Now(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"prizes", "updated_by", "updated_at"}),
		}).Create(config).Error; err != nil {
			return err
		}

		if err := tx.Where("tenant_id = ?", principal.TenantID).First(&saved).Error; err != nil {
			return err
		}

		action := models.AuditActionCreate
		var oldData any
		if hadPrevious {
			action = models.AuditActionUpdate
			oldData = previous.Prizes
		}
		return s.auditService.LogAudit(tx, principal.TenantID, saved.TableName(), saved.ID, action, oldData, saved.Prizes, &principal.UserID)
	})
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to save prize configuration")
	}

	s.cache.Invalidate(ctx, principal.TenantID)

	logrus.WithFields(logrus.Fields{
		"tenant_id": principal.TenantID,
		"prizes":    len(saved.Prizes),
	}).Info("prize configuration replaced")

	return &saved, nil
}

// ValidatePrizeTable applies the same rules to every writer: non-empty ids and
// labels, unique ids, each probability in [0,1], and a total within 0.01 of 1.
func ValidatePrizeTable(prizes []models.Prize) error {
	if len(prizes) == 0 {
		return errors.NewValidationError("Prize table must contain at least one prize")
	}

	seen := make(map[string]struct{}, len(prizes))
	sum := decimal.Zero
	for i, p := range prizes {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return errors.NewValidationError(fmt.Sprintf("Prize %d is missing an id", i+1)).With("index", i)
		}
		if strings.TrimSpace(p.Label) == "" {
			return errors.NewValidationError(fmt.Sprintf("Prize %q is missing a label", id)).With("index", i)
		}
		if math.IsNaN(p.Probability) || p.Probability < 0 || p.Probability > 1 {
			return errors.NewValidationError(fmt.Sprintf("Prize %q probability must be between 0 and 1", id)).With("index", i)
		}
		if _, dup := seen[id]; dup {
			return errors.NewValidationError(fmt.Sprintf("Prize id %q is used more than once", id)).With("index", i)
		}
		seen[id] = struct{}{}
		sum = sum.Add(decimal.NewFromFloat(p.Probability))
	}

	if sum.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(probabilityTolerance) {
		return errors.NewValidationError(fmt.Sprintf("Prize probabilities must sum to 1, got %s", sum.String())).
			With("sum", sum.InexactFloat64())
	}

	return nil
}
