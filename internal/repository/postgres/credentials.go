package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/domain"
	"github.com/shopledger/ledgerapi/pkg/errors"
)

type credentialsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCredentialsRepository creates a new Shopify credentials repository
func NewCredentialsRepository(db *sql.DB, logger *zap.Logger) *credentialsRepository {
	return &credentialsRepository{
		db:     db,
		logger: logger,
	}
}

func (r *credentialsRepository) Upsert(ctx context.Context, creds *domain.ShopifyCredentials) error {
	query := `
		INSERT INTO user_credentials (id, user_id, shopify_store_url, shopify_admin_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET shopify_store_url = EXCLUDED.shopify_store_url,
			shopify_admin_token = EXCLUDED.shopify_admin_token,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now()
	if creds.ID == uuid.Nil {
		creds.ID = uuid.New()
	}
	if creds.CreatedAt.IsZero() {
		creds.CreatedAt = now
	}
	creds.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		creds.ID,
		creds.UserID,
		creds.StoreURL,
		creds.AccessToken,
		creds.CreatedAt,
		creds.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to upsert credentials", zap.Error(err))
		return err
	}

	return nil
}

func (r *credentialsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.ShopifyCredentials, error) {
	query := `
		SELECT id, user_id, shopify_store_url, shopify_admin_token, created_at, updated_at
		FROM user_credentials
		WHERE user_id = $1
		LIMIT 1
	`

	var creds domain.ShopifyCredentials
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&creds.ID,
		&creds.UserID,
		&creds.StoreURL,
		&creds.AccessToken,
		&creds.CreatedAt,
		&creds.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "credentials", ID: userID.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get credentials by user ID", zap.Error(err))
		return nil, err
	}

	return &creds, nil
}
