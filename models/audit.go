package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditEvent is a best-effort trail of secret activity. Writes never block or
// fail the operation they describe; payloads hold identifiers only, never
// envelope contents.
type AuditEvent struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	ActorId    *string        `json:"actor_id,omitempty" gorm:"type:uuid"`
	Action     string         `json:"action" gorm:"size:40;not null;index"`
	TargetType string         `json:"target_type" gorm:"size:20;not null"`
	TargetId   string         `json:"target_id" gorm:"size:64;not null"`
	Details    datatypes.JSON `json:"details" gorm:"type:jsonb"`
	CreatedAt  time.Time      `json:"created_at"`
}
