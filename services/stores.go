package services

import (
	"context"

	"secretshare-backend/models"
)

// SecretStore is the durable home of secrets. Find* return (nil, nil) for a
// missing token. ConsumeView and DeleteByToken must each be a single atomic
// statement against the store; the lifecycle engine relies on that, it never
// compensates in-process.
type SecretStore interface {
	Create(ctx context.Context, secret *models.Secret) error
	FindByToken(ctx context.Context, token string) (*models.Secret, error)
	FindByCreator(ctx context.Context, creatorId string) ([]models.Secret, error)
	// ConsumeView atomically increments current_views and stamps
	// last_accessed_at, but only while the view ceiling has not been reached.
	// Returns the post-increment record, or nil if no eligible row matched.
	ConsumeView(ctx context.Context, token string) (*models.Secret, error)
	DeleteByToken(ctx context.Context, token string) (bool, error)
}

// RequestStore is the durable home of secret requests. Complete must be a
// single conditional statement guarded by status = 'pending'.
type RequestStore interface {
	Create(ctx context.Context, request *models.SecretRequest) error
	FindByToken(ctx context.Context, token string) (*models.SecretRequest, error)
	FindById(ctx context.Context, id string) (*models.SecretRequest, error)
	FindByRequester(ctx context.Context, requesterId string) ([]models.SecretRequest, error)
	Complete(ctx context.Context, token, encryptedData string) (*models.SecretRequest, error)
	DeleteById(ctx context.Context, id string) (bool, error)
}

// BlobStore keeps the payloads of file-backed secrets, addressed by the same
// token-derived key as the database record.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
}

// Auditor records best-effort activity events; implementations must never
// fail the calling operation.
type Auditor interface {
	Record(ctx context.Context, actorId *string, action, targetType, targetId string, details map[string]any)
}

// NopAuditor drops every event. Used in tests and as a fallback wiring.
type NopAuditor struct{}

func (NopAuditor) Record(context.Context, *string, string, string, string, map[string]any) {}
