package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/safatanc/checkin-core/internal/app/errors"
	"github.com/safatanc/checkin-core/internal/app/models"
	"gorm.io/gorm"
)

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{
		db: db,
	}
}

// LogAudit writes through tx so the entry commits or rolls back with the change it describes.
func (s *AuditService) LogAudit(tx *gorm.DB, tenantID uuid.UUID, tableName string, recordID uuid.UUID, action models.AuditAction, oldData, newData interface{}, changedBy *uuid.UUID) error {
	var oldDataJSON, newDataJSON *string

	if oldData != nil {
		jsonBytes, err := json.Marshal(oldData)
		if err != nil {
			return fmt.Errorf("failed to marshal old data: %w", err)
		}
		strJSON := string(jsonBytes)
		oldDataJSON = &strJSON
	}

	if newData != nil {
		jsonBytes, err := json.Marshal(newData)
		if err != nil {
			return fmt.Errorf("failed to marshal new data: %w", err)
		}
		strJSON := string(jsonBytes)
		newDataJSON = &strJSON
	}

	auditLog := &models.AuditLog{
		TenantID:  tenantID,
		TableName: tableName,
		RecordID:  recordID,
		Action:    action,
		OldData:   oldDataJSON,
		NewData:   newDataJSON,
		ChangedBy: changedBy,
		ChangedAt: time.Now(),
	}

	if tx == nil {
		tx = s.db
	}
	if err := tx.Create(auditLog).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// GetRecordHistory lists the audit entries of one tenant record, newest first.
func (s *AuditService) GetRecordHistory(ctx context.Context, tenantID uuid.UUID, recordID string) ([]models.AuditLog, error) {
	parsedID, err := uuid.Parse(recordID)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid record ID format")
	}

	var history []models.AuditLog
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND record_id = ?", tenantID, parsedID).
		Order("changed_at DESC").
		Find(&history).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get audit history")
	}

	return history, nil
}
