package database

import (
	"context"
	"errors"
	"time"

	"secretshare-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SecretRepository is the durable store for secrets. Every mutating method is
// a single SQL statement: serialization of racing readers happens in Postgres,
// never in application code.
type SecretRepository struct {
	db *gorm.DB
}

func NewSecretRepository(db *gorm.DB) *SecretRepository {
	return &SecretRepository{db: db}
}

// Create inserts a new record. A token collision surfaces as
// gorm.ErrDuplicatedKey (TranslateError); the service retries with a fresh
// token.
func (r *SecretRepository) Create(ctx context.Context, secret *models.Secret) error {
	return r.db.WithContext(ctx).Create(secret).Error
}

func (r *SecretRepository) FindByToken(ctx context.Context, token string) (*models.Secret, error) {
	var secret models.Secret
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&secret).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &secret, nil
}

func (r *SecretRepository) FindByCreator(ctx context.Context, creatorId string) ([]models.Secret, error) {
	var secrets []models.Secret
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorId).
		Order("created_at DESC").
		Find(&secrets).Error
	return secrets, err
}

// ConsumeView is the authoritative consumption gate: one conditional
// UPDATE ... RETURNING with the view ceiling in the WHERE clause. Two racing
// readers are serialized by the row lock the statement takes; a reader whose
// increment would pass the ceiling matches no row and gets nil back. This is
// what makes "exactly N reads" hold under concurrency - never split it into a
// read-then-write pair.
func (r *SecretRepository) ConsumeView(ctx context.Context, token string) (*models.Secret, error) {
	var secret models.Secret
	res := r.db.WithContext(ctx).
		Model(&secret).
		Clauses(clause.Returning{}).
		Where("token = ?", token).
		Where("max_views IS NULL OR current_views < max_views").
		Where("NOT burn_after_reading OR current_views < 1").
		Updates(map[string]any{
			"current_views":    gorm.Expr("current_views + 1"),
			"last_accessed_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &secret, nil
}

// DeleteByToken removes the record if present; idempotent.
func (r *SecretRepository) DeleteByToken(ctx context.Context, token string) (bool, error) {
	res := r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Secret{})
	return res.RowsAffected > 0, res.Error
}
