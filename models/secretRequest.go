package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RequestStatusPending   = "pending"
	RequestStatusCompleted = "completed"
)

// SecretRequest is the two-party handshake: the requester publishes an
// encrypted prompt under a token, a respondent submits an encrypted answer
// exactly once. Status moves pending -> completed and never back; the
// conditional update in the repository is what enforces the single winner.
type SecretRequest struct {
	Id             string  `json:"id" gorm:"primaryKey;type:uuid"`
	RequesterId    string  `json:"requester_id" gorm:"type:uuid;not null;index"`
	OrganizationId *string `json:"organization_id,omitempty" gorm:"type:uuid"`

	Token string `json:"token" gorm:"size:64;uniqueIndex;not null"`

	EncryptedPrompt string  `json:"encrypted_prompt" gorm:"type:text;not null"`
	EncryptedData   *string `json:"encrypted_data,omitempty" gorm:"type:text"`

	Status    string    `json:"status" gorm:"size:20;not null;default:pending"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (r *SecretRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.Id == "" {
		r.Id = uuid.NewString()
	}
	return
}

func (r *SecretRequest) Pending() bool {
	return r.Status == RequestStatusPending
}

// CreateSecretRequestInput is the requester-facing creation payload.
// Expiry is mandatory for requests.
type CreateSecretRequestInput struct {
	EncryptedPrompt string  `json:"encrypted_prompt" validate:"required"`
	ExpiresInDays   int     `json:"expires_in_days" validate:"required,gt=0,lte=365"`
	OrganizationId  *string `json:"organization_id" validate:"omitempty,uuid4"`
}

// SubmitSecretInput carries the respondent's encrypted answer.
type SubmitSecretInput struct {
	EncryptedData string `json:"encrypted_data" validate:"required"`
}
