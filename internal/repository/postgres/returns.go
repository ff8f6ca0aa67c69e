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

type returnRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReturnRepository creates a new return repository
func NewReturnRepository(db *sql.DB, logger *zap.Logger) *returnRepository {
	return &returnRepository{
		db:     db,
		logger: logger,
	}
}

func (r *returnRepository) Create(ctx context.Context, ret *domain.Return) error {
	query := `
		INSERT INTO returns (id, return_date, shop_name, sku, quantity, notes, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if ret.ID == uuid.Nil {
		ret.ID = uuid.New()
	}
	if ret.CreatedAt.IsZero() {
		ret.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		ret.ID,
		ret.ReturnDate,
		ret.ShopName,
		ret.SKU,
		ret.Quantity,
		ret.Notes,
		ret.UserID,
		ret.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create return", zap.Error(err))
		return err
	}

	return nil
}

func (r *returnRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Return, error) {
	query := `
		SELECT id, return_date, shop_name, sku, quantity, notes, user_id, created_at
		FROM returns
		WHERE user_id = $1
		ORDER BY return_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list returns", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var returns []*domain.Return
	for rows.Next() {
		var ret domain.Return
		var notes sql.NullString

		err := rows.Scan(
			&ret.ID,
			&ret.ReturnDate,
			&ret.ShopName,
			&ret.SKU,
			&ret.Quantity,
			&notes,
			&ret.UserID,
			&ret.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if notes.Valid {
			ret.Notes = &notes.String
		}

		returns = append(returns, &ret)
	}

	return returns, rows.Err()
}

func (r *returnRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM returns WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete return", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "return", ID: id.String()}
	}

	return nil
}
