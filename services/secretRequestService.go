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

// SecretRequestService runs the two-party handshake. The respondent-facing
// accessors work by token; the requester-facing ones by internal id plus an
// ownership check.
type SecretRequestService struct {
	store RequestStore
	audit Auditor
	log   *zap.Logger
}

func NewSecretRequestService(store RequestStore, audit Auditor, log *zap.Logger) *SecretRequestService {
	if audit == nil {
		audit = NopAuditor{}
	}
	return &SecretRequestService{store: store, audit: audit, log: log}
}

// Create publishes an encrypted prompt under a fresh token. Requests always
// carry an expiry.
func (s *SecretRequestService) Create(ctx context.Context, requesterId string, in models.CreateSecretRequestInput) (*models.SecretRequest, error) {
	if err := crypto.ValidateEnvelope(in.EncryptedPrompt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	request := &models.SecretRequest{
		RequesterId:     requesterId,
		OrganizationId:  in.OrganizationId,
		EncryptedPrompt: in.EncryptedPrompt,
		Status:          models.RequestStatusPending,
		ExpiresAt:       utils.AddDays(in.ExpiresInDays),
	}

	for attempt := 0; attempt < createRetries; attempt++ {
		request.Token = utils.GenerateSecretToken()
		err := s.store.Create(ctx, request)
		if err == nil {
			s.audit.Record(ctx, &requesterId, "request_create", "secret_request", request.Token, nil)
			return request, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.log.Warn("request token collision, regenerating", zap.Int("attempt", attempt+1))
			continue
		}
		return nil, err
	}
	return nil, ErrConflict
}

// GetForClient serves the prompt to a respondent. Only pending, unexpired
// requests are visible here, and the answer is never exposed through this
// accessor even after completion.
func (s *SecretRequestService) GetForClient(ctx context.Context, token string) (*models.SecretRequest, error) {
	request, err := s.store.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrNotFound
	}
	if utils.IsExpired(&request.ExpiresAt) {
		return nil, ErrSecretExpired
	}
	if !request.Pending() {
		return nil, ErrRequestAlreadyFulfilled
	}

	view := *request
	view.EncryptedData = nil
	return &view, nil
}

// Submit stores the respondent's answer. The pending -> completed transition
// is one conditional update in the store; with concurrent submissions exactly
// one wins and the rest resolve to a terminal error here.
func (s *SecretRequestService) Submit(ctx context.Context, token string, in models.SubmitSecretInput) (*models.SecretRequest, error) {
	if err := crypto.ValidateEnvelope(in.EncryptedData); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	request, err := s.store.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrNotFound
	}
	if utils.IsExpired(&request.ExpiresAt) {
		return nil, ErrSecretExpired
	}

	completed, err := s.store.Complete(ctx, token, in.EncryptedData)
	if err != nil {
		return nil, err
	}
	if completed == nil {
		// Lost the race or the row is gone; distinguish for the caller.
		again, err := s.store.FindByToken(ctx, token)
		if err != nil {
			return nil, err
		}
		if again == nil {
			return nil, ErrNotFound
		}
		return nil, ErrRequestAlreadyFulfilled
	}

	s.audit.Record(ctx, nil, "request_submit", "secret_request", token, nil)
	return completed, nil
}

// GetForRequester returns the full record, answer included, to its owner.
func (s *SecretRequestService) GetForRequester(ctx context.Context, requesterId, id string) (*models.SecretRequest, error) {
	request, err := s.store.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrNotFound
	}
	if !isRequester(requesterId, request) {
		return nil, ErrForbidden
	}
	return request, nil
}

func (s *SecretRequestService) ListForRequester(ctx context.Context, requesterId string) ([]models.SecretRequest, error) {
	return s.store.FindByRequester(ctx, requesterId)
}

// Delete removes a request regardless of status, owner only.
func (s *SecretRequestService) Delete(ctx context.Context, requesterId, id string) error {
	request, err := s.store.FindById(ctx, id)
	if err != nil {
		return err
	}
	if request == nil {
		return ErrNotFound
	}
	if !isRequester(requesterId, request) {
		return ErrForbidden
	}

	deleted, err := s.store.DeleteById(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.audit.Record(ctx, &requesterId, "request_delete", "secret_request", request.Token, nil)
	return nil
}

// isRequester is the ownership predicate for requests.
func isRequester(callerId string, request *models.SecretRequest) bool {
	return request.RequesterId == callerId
}
