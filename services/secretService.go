package services

import (
	"context"
	"errors"
	"fmt"

	"secretshare-backend/crypto"
	"secretshare-backend/models"
	"secretshare-backend/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// createRetries bounds how often a token collision is retried. With 256-bit
// tokens a single retry is already astronomically unlikely.
const createRetries = 3

// SecretService drives the retrieval state machine:
// unknown -> available -> exhausted/expired -> unknown.
// The pre-checks in Retrieve exist for fast, precise errors; the only
// authoritative gate is the store's conditional increment.
type SecretService struct {
	store SecretStore
	blobs BlobStore // may be nil when object storage is not configured
	audit Auditor
	log   *zap.Logger
}

func NewSecretService(store SecretStore, blobs BlobStore, audit Auditor, log *zap.Logger) *SecretService {
	if audit == nil {
		audit = NopAuditor{}
	}
	return &SecretService{store: store, blobs: blobs, audit: audit, log: log}
}

// Create validates the envelope, generates a token and persists the record.
// Token collisions (unique index on token) are retried with a fresh token.
func (s *SecretService) Create(ctx context.Context, creatorId *string, in models.CreateSecretInput) (*models.Secret, error) {
	if err := crypto.ValidateEnvelope(in.EncryptedData); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	secret := &models.Secret{
		CreatorId:         creatorId,
		OrganizationId:    in.OrganizationId,
		EncryptedData:     in.EncryptedData,
		EncryptedMetadata: in.EncryptedMetadata,
		MaxViews:          in.MaxViews,
		BurnAfterReading:  in.BurnAfterReading,
	}
	if in.ExpiresInDays != nil {
		expiresAt := utils.AddDays(*in.ExpiresInDays)
		secret.ExpiresAt = &expiresAt
	}

	if err := s.insertWithFreshToken(ctx, secret); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, creatorId, "secret_create", "secret", secret.Token, map[string]any{
		"burn_after_reading": secret.BurnAfterReading,
		"is_file":            false,
	})
	return secret, nil
}

// Retrieve runs the state machine for one read:
//  1. missing record -> ErrNotFound
//  2. past expiry -> best-effort delete, ErrSecretExpired
//  3. quota already exhausted -> ErrSecretAlreadyViewed (no mutation)
//  4. conditional increment; losing the race against a deleting or
//     exhausting reader re-resolves to ErrNotFound / ErrSecretAlreadyViewed
//  5. burn or newly-exhausted -> delete before returning; failures are
//     logged, never surfaced - the read has already succeeded
func (s *SecretService) Retrieve(ctx context.Context, token string) (*models.Secret, error) {
	secret, err := s.store.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if secret == nil {
		return nil, ErrNotFound
	}

	if utils.IsExpired(secret.ExpiresAt) {
		if _, err := s.store.DeleteByToken(ctx, token); err != nil {
			s.log.Warn("failed to delete expired secret", zap.String("token", token), zap.Error(err))
		}
		s.cleanupBlob(ctx, secret)
		return nil, ErrSecretExpired
	}

	if secret.Exhausted() {
		return nil, ErrSecretAlreadyViewed
	}

	consumed, err := s.store.ConsumeView(ctx, token)
	if err != nil {
		return nil, err
	}
	if consumed == nil {
		// The record changed between the pre-checks and the increment:
		// either a racing reader hit the ceiling first or a delete landed.
		again, err := s.store.FindByToken(ctx, token)
		if err != nil {
			return nil, err
		}
		if again == nil {
			return nil, ErrNotFound
		}
		return nil, ErrSecretAlreadyViewed
	}

	if consumed.BurnAfterReading || consumed.Exhausted() {
		if _, err := s.store.DeleteByToken(ctx, token); err != nil {
			s.log.Warn("failed to delete exhausted secret", zap.String("token", token), zap.Error(err))
		}
		s.cleanupBlob(ctx, consumed)
	}

	s.audit.Record(ctx, nil, "secret_view", "secret", token, map[string]any{
		"current_views": consumed.CurrentViews,
	})
	return consumed, nil
}

// Delete removes a secret on behalf of callerId. Anonymous secrets have no
// owner to protect and are deletable by any token holder.
func (s *SecretService) Delete(ctx context.Context, token string, callerId *string) error {
	secret, err := s.store.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	if secret == nil {
		return ErrNotFound
	}
	if !canModifySecret(callerId, secret) {
		return ErrForbidden
	}

	s.cleanupBlob(ctx, secret)

	deleted, err := s.store.DeleteByToken(ctx, token)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.audit.Record(ctx, callerId, "secret_delete", "secret", token, nil)
	return nil
}

func (s *SecretService) ListByCreator(ctx context.Context, creatorId string) ([]models.Secret, error) {
	return s.store.FindByCreator(ctx, creatorId)
}

// insertWithFreshToken persists the record, regenerating the token on a
// unique-index collision.
func (s *SecretService) insertWithFreshToken(ctx context.Context, secret *models.Secret) error {
	for attempt := 0; attempt < createRetries; attempt++ {
		secret.Token = utils.GenerateSecretToken()
		err := s.store.Create(ctx, secret)
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.log.Warn("secret token collision, regenerating", zap.Int("attempt", attempt+1))
			continue
		}
		return err
	}
	return ErrConflict
}

// cleanupBlob removes the object-storage payload of a file-backed secret.
// Best effort only: an orphan blob is a garbage-collectable artifact, a
// dangling record would be a bug.
func (s *SecretService) cleanupBlob(ctx context.Context, secret *models.Secret) {
	if !secret.IsFile || secret.FilePath == nil || s.blobs == nil {
		return
	}
	if err := s.blobs.Delete(ctx, *secret.FilePath); err != nil {
		s.log.Warn("failed to delete secret blob",
			zap.String("path", *secret.FilePath), zap.Error(err))
	}
}

// canModifySecret is the ownership predicate: a pure function of caller
// identity and record, nothing contextual.
func canModifySecret(callerId *string, secret *models.Secret) bool {
	if secret.CreatorId == nil {
		return true
	}
	return callerId != nil && *callerId == *secret.CreatorId
}
