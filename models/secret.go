package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Secret is one client-encrypted payload plus its consumption policy.
// The server stores the envelope verbatim and never holds a decryption key.
type Secret struct {
	Id             string  `json:"id" gorm:"primaryKey;type:uuid"`
	CreatorId      *string `json:"creator_id,omitempty" gorm:"type:uuid;index"`
	OrganizationId *string `json:"organization_id,omitempty" gorm:"type:uuid;index"`

	// Token is the public retrieval handle; 64 hex chars, unique.
	Token string `json:"token" gorm:"size:64;uniqueIndex;not null"`

	// Opaque AEAD envelopes, immutable after creation.
	EncryptedData     string  `json:"encrypted_data" gorm:"type:text;not null"`
	EncryptedMetadata *string `json:"encrypted_metadata,omitempty" gorm:"type:text"`

	// Consumption policy. MaxViews nil means unlimited; ExpiresAt nil means no
	// time-based expiry. BurnAfterReading forces a single view regardless of
	// MaxViews and deletes the row on the first successful read.
	MaxViews         *int       `json:"max_views,omitempty"`
	CurrentViews     int        `json:"current_views" gorm:"not null;default:0"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	BurnAfterReading bool       `json:"burn_after_reading" gorm:"not null;default:false"`

	// File-backed secrets keep the blob in object storage under FilePath.
	IsFile       bool    `json:"is_file" gorm:"not null;default:false"`
	FilePath     *string `json:"-" gorm:"size:128"`
	FileSize     *int64  `json:"file_size,omitempty"`
	FileMimeType *string `json:"file_mime_type,omitempty" gorm:"size:128"`

	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt *time.Time `json:"-"`
}

func (s *Secret) BeforeCreate(tx *gorm.DB) (err error) {
	if s.Id == "" {
		s.Id = uuid.NewString()
	}
	return
}

// Exhausted reports whether the view quota has already been used up.
// Burn-after-reading counts as a quota of one no matter what MaxViews says.
func (s *Secret) Exhausted() bool {
	if s.BurnAfterReading && s.CurrentViews >= 1 {
		return true
	}
	return s.MaxViews != nil && s.CurrentViews >= *s.MaxViews
}

// CreateSecretInput is the caller-facing payload for creating an inline secret.
type CreateSecretInput struct {
	EncryptedData     string  `json:"encrypted_data" validate:"required"`
	EncryptedMetadata *string `json:"encrypted_metadata"`
	MaxViews          *int    `json:"max_views" validate:"omitempty,gt=0"`
	ExpiresInDays     *int    `json:"expires_in_days" validate:"omitempty,gt=0,lte=365"`
	BurnAfterReading  bool    `json:"burn_after_reading"`
	OrganizationId    *string `json:"organization_id" validate:"omitempty,uuid4"`
}

// UploadFileInput creates a file-backed secret: the envelope goes to object
// storage, the record (with file metadata) to the database.
type UploadFileInput struct {
	EncryptedData     string  `json:"encrypted_data" validate:"required"`
	EncryptedMetadata *string `json:"encrypted_metadata"`
	FileSize          int64   `json:"file_size" validate:"required,gt=0"`
	FileMimeType      string  `json:"file_mime_type" validate:"required"`
	MaxViews          *int    `json:"max_views" validate:"omitempty,gt=0"`
	ExpiresInDays     *int    `json:"expires_in_days" validate:"omitempty,gt=0,lte=365"`
	BurnAfterReading  bool    `json:"burn_after_reading"`
	OrganizationId    *string `json:"organization_id" validate:"omitempty,uuid4"`
}
