package database

import (
	"fmt"
	"log"

	"secretshare-backend/models"

	"gorm.io/gorm"
)

// AutoMigrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns/index tags)
// - CHECK constraints the tag syntax cannot express
// - composite index for per-creator listings
func AutoMigrate() {
	if err := migrate(DB); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.User{},
			&models.Organization{},
			&models.OrganizationMember{},
			&models.Secret{},
			&models.SecretRequest{},
			&models.AuditEvent{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_secrets_creator_created_at ON secrets (creator_id, created_at DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_secret_requests_requester_created_at ON secret_requests (requester_id, created_at DESC)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			// View counter can never go negative, quota must be positive when set.
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'secrets'::regclass
					  AND conname  = 'chk_secrets_current_views_nonneg'
				) THEN
					ALTER TABLE secrets
					ADD CONSTRAINT chk_secrets_current_views_nonneg
					CHECK (current_views >= 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'secrets'::regclass
					  AND conname  = 'chk_secrets_max_views_positive'
				) THEN
					ALTER TABLE secrets
					ADD CONSTRAINT chk_secrets_max_views_positive
					CHECK (max_views IS NULL OR max_views > 0);
				END IF;
			END $$;`,
			// Status is a closed two-state machine.
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'secret_requests'::regclass
					  AND conname  = 'chk_secret_requests_status'
				) THEN
					ALTER TABLE secret_requests
					ADD CONSTRAINT chk_secret_requests_status
					CHECK (status IN ('pending', 'completed'));
				END IF;
			END $$;`,
			// A completed request always carries its answer, a pending one never does.
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'secret_requests'::regclass
					  AND conname  = 'chk_secret_requests_data_status'
				) THEN
					ALTER TABLE secret_requests
					ADD CONSTRAINT chk_secret_requests_data_status
					CHECK ((status = 'completed') = (encrypted_data IS NOT NULL));
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
