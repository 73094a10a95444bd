package services

import (
	"context"
	"encoding/json"

	"secretshare-backend/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditService persists activity events as jsonb rows. Strictly best-effort:
// a failed write is logged and forgotten, the audited operation has already
// succeeded or failed on its own terms.
type AuditService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAuditService(db *gorm.DB, log *zap.Logger) *AuditService {
	return &AuditService{db: db, log: log}
}

func (a *AuditService) Record(ctx context.Context, actorId *string, action, targetType, targetId string, details map[string]any) {
	var payload datatypes.JSON
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			a.log.Warn("audit details not serializable", zap.String("action", action), zap.Error(err))
		} else {
			payload = datatypes.JSON(raw)
		}
	}

	event := models.AuditEvent{
		ActorId:    actorId,
		Action:     action,
		TargetType: targetType,
		TargetId:   targetId,
		Details:    payload,
	}
	if err := a.db.WithContext(ctx).Create(&event).Error; err != nil {
		a.log.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}
