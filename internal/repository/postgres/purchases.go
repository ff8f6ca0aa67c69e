package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/domain"
	"github.com/shopledger/ledgerapi/pkg/errors"
)

type purchaseBatchRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPurchaseBatchRepository creates a new purchase batch repository
func NewPurchaseBatchRepository(db *sql.DB, logger *zap.Logger) *purchaseBatchRepository {
	return &purchaseBatchRepository{
		db:     db,
		logger: logger,
	}
}

func (r *purchaseBatchRepository) Create(ctx context.Context, batch *domain.PurchaseBatch) error {
	query := `
		INSERT INTO purchase_batches (id, upload_date, file_names, total_items, notes, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = time.Now()
	}
	if batch.UploadDate.IsZero() {
		batch.UploadDate = batch.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, query,
		batch.ID,
		batch.UploadDate,
		pq.Array(batch.FileNames),
		batch.TotalItems,
		batch.Notes,
		batch.UserID,
		batch.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create purchase batch", zap.Error(err))
		return err
	}

	return nil
}

func (r *purchaseBatchRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PurchaseBatch, error) {
	query := `
		SELECT id, upload_date, file_names, total_items, notes, user_id, created_at
		FROM purchase_batches
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list purchase batches", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var batches []*domain.PurchaseBatch
	for rows.Next() {
		var b domain.PurchaseBatch
		var notes sql.NullString

		err := rows.Scan(
			&b.ID,
			&b.UploadDate,
			pq.Array(&b.FileNames),
			&b.TotalItems,
			&notes,
			&b.UserID,
			&b.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if notes.Valid {
			b.Notes = &notes.String
		}

		batches = append(batches, &b)
	}

	return batches, rows.Err()
}

func (r *purchaseBatchRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	// Purchases referencing the batch are removed by ON DELETE CASCADE.
	query := `DELETE FROM purchase_batches WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete purchase batch", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "purchase_batch", ID: id.String()}
	}

	return nil
}

type purchaseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *sql.DB, logger *zap.Logger) *purchaseRepository {
	return &purchaseRepository{
		db:     db,
		logger: logger,
	}
}

func (r *purchaseRepository) CreateBatch(ctx context.Context, purchases []*domain.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO purchases (id, batch_id, date, shop_name, sku, quantity, type, notes, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, p := range purchases {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now
		}

		if _, err := stmt.ExecContext(ctx,
			p.ID,
			p.BatchID,
			p.Date,
			p.ShopName,
			p.SKU,
			p.Quantity,
			p.Type,
			p.Notes,
			p.UserID,
			p.CreatedAt,
			p.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to insert purchase", zap.Error(err), zap.String("sku", p.SKU))
			return err
		}
	}

	return tx.Commit()
}

func (r *purchaseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Purchase, error) {
	query := `
		SELECT id, batch_id, date, shop_name, sku, quantity, type, notes, user_id, created_at, updated_at
		FROM purchases
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list purchases", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var purchases []*domain.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}

	return purchases, rows.Err()
}

func (r *purchaseRepository) Update(ctx context.Context, userID, id uuid.UUID, quantity *int, purchaseType *domain.PurchaseType, notes *string) error {
	query := `
		UPDATE purchases
		SET quantity = COALESCE($3, quantity),
			type = COALESCE($4, type),
			notes = COALESCE($5, notes),
			updated_at = $6
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, userID, quantity, purchaseType, notes, time.Now())
	if err != nil {
		r.logger.Error("Failed to update purchase", zap.Error(err), zap.String("purchase_id", id.String()))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "purchase", ID: id.String()}
	}

	return nil
}

func (r *purchaseRepository) LatestShopNamesBySKU(ctx context.Context, userID uuid.UUID) (map[string]string, error) {
	query := `
		SELECT DISTINCT ON (sku) sku, shop_name
		FROM purchases
		WHERE user_id = $1 AND shop_name <> ''
		ORDER BY sku, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to load shop names from purchase history", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var sku, shopName string
		if err := rows.Scan(&sku, &shopName); err != nil {
			return nil, err
		}
		names[sku] = shopName
	}

	return names, rows.Err()
}

func scanPurchase(rows *sql.Rows) (*domain.Purchase, error) {
	var p domain.Purchase
	var batchID sql.NullString
	var notes sql.NullString

	err := rows.Scan(
		&p.ID,
		&batchID,
		&p.Date,
		&p.ShopName,
		&p.SKU,
		&p.Quantity,
		&p.Type,
		&notes,
		&p.UserID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if batchID.Valid {
		id, err := uuid.Parse(batchID.String)
		if err == nil {
			p.BatchID = &id
		}
	}
	if notes.Valid {
		p.Notes = &notes.String
	}

	return &p, nil
}
