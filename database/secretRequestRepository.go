package database

import (
	"context"
	"errors"
	"time"

	"secretshare-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SecretRequestRepository stores the two-party handshake records.
type SecretRequestRepository struct {
	db *gorm.DB
}

func NewSecretRequestRepository(db *gorm.DB) *SecretRequestRepository {
	return &SecretRequestRepository{db: db}
}

func (r *SecretRequestRepository) Create(ctx context.Context, request *models.SecretRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *SecretRequestRepository) FindByToken(ctx context.Context, token string) (*models.SecretRequest, error) {
	var request models.SecretRequest
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *SecretRequestRepository) FindById(ctx context.Context, id string) (*models.SecretRequest, error) {
	var request models.SecretRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *SecretRequestRepository) FindByRequester(ctx context.Context, requesterId string) ([]models.SecretRequest, error) {
	var requests []models.SecretRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterId).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// Complete performs the pending -> completed transition as one conditional
// UPDATE guarded by status = 'pending'. With N concurrent submissions exactly
// one matches the row; the rest see nil. The guard lives in the WHERE clause,
// not in application code, so the exactly-once property holds regardless of
// interleaving.
func (r *SecretRequestRepository) Complete(ctx context.Context, token, encryptedData string) (*models.SecretRequest, error) {
	var request models.SecretRequest
	res := r.db.WithContext(ctx).
		Model(&request).
		Clauses(clause.Returning{}).
		Where("token = ? AND status = ?", token, models.RequestStatusPending).
		Updates(map[string]any{
			"encrypted_data": encryptedData,
			"status":         models.RequestStatusCompleted,
			"completed_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &request, nil
}

func (r *SecretRequestRepository) DeleteById(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SecretRequest{})
	return res.RowsAffected > 0, res.Error
}
