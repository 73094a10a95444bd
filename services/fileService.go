package services

import (
	"context"
	"fmt"

	"secretshare-backend/crypto"
	"secretshare-backend/models"
	"secretshare-backend/utils"

	"go.uber.org/zap"
)

const defaultBlobContentType = "application/octet-stream"

// FileService handles file-backed secrets: the envelope lives in object
// storage under files/<token>, the policy record in the database. Consumption
// counting is entirely the SecretService's business; this layer only adds the
// blob hop.
type FileService struct {
	secrets *SecretService
	store   SecretStore
	blobs   BlobStore
	log     *zap.Logger
}

func NewFileService(secrets *SecretService, store SecretStore, blobs BlobStore, log *zap.Logger) *FileService {
	return &FileService{secrets: secrets, store: store, blobs: blobs, log: log}
}

// Upload puts the blob first, then inserts the record. The caller only learns
// of success once the insert committed; an insert failure after the upload
// leaves an orphan blob, which is acceptable garbage, and we try to sweep it
// anyway.
func (s *FileService) Upload(ctx context.Context, creatorId *string, in models.UploadFileInput) (*models.Secret, error) {
	if err := crypto.ValidateEnvelope(in.EncryptedData); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	token := utils.GenerateSecretToken()
	filePath := "files/" + token

	if err := s.blobs.Put(ctx, filePath, []byte(in.EncryptedData), defaultBlobContentType); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	secret := &models.Secret{
		Token:             token,
		CreatorId:         creatorId,
		OrganizationId:    in.OrganizationId,
		EncryptedData:     in.EncryptedData,
		EncryptedMetadata: in.EncryptedMetadata,
		MaxViews:          in.MaxViews,
		BurnAfterReading:  in.BurnAfterReading,
		IsFile:            true,
		FilePath:          &filePath,
		FileSize:          &in.FileSize,
		FileMimeType:      &in.FileMimeType,
	}
	if in.ExpiresInDays != nil {
		expiresAt := utils.AddDays(*in.ExpiresInDays)
		secret.ExpiresAt = &expiresAt
	}

	if err := s.store.Create(ctx, secret); err != nil {
		// The blob key embeds the token, so a collision retry would need a
		// re-upload; sweep and report instead.
		if delErr := s.blobs.Delete(ctx, filePath); delErr != nil {
			s.log.Warn("failed to sweep orphan blob after insert failure",
				zap.String("path", filePath), zap.Error(delErr))
		}
		return nil, err
	}

	return secret, nil
}

// Download fetches the blob and then runs the full retrieval state machine.
// The blob read comes first: for burn-after-reading secrets the winning
// consume deletes the blob, and the data must already be in hand by then.
// The payload is only released to callers whose consume won.
func (s *FileService) Download(ctx context.Context, token string) ([]byte, string, error) {
	head, err := s.store.FindByToken(ctx, token)
	if err != nil {
		return nil, "", err
	}
	if head == nil {
		return nil, "", ErrNotFound
	}
	if !head.IsFile || head.FilePath == nil {
		return nil, "", fmt.Errorf("%w: not a file secret", ErrValidation)
	}

	data, contentType, err := s.blobs.Get(ctx, *head.FilePath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	consumed, err := s.secrets.Retrieve(ctx, token)
	if err != nil {
		return nil, "", err
	}

	if consumed.FileMimeType != nil {
		contentType = *consumed.FileMimeType
	}
	if contentType == "" {
		contentType = defaultBlobContentType
	}
	return data, contentType, nil
}

// Delete is the owner-authorized hard delete; blob cleanup inside the
// SecretService is best-effort and never blocks the row delete.
func (s *FileService) Delete(ctx context.Context, token string, callerId *string) error {
	return s.secrets.Delete(ctx, token, callerId)
}
