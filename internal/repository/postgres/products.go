package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/domain"
)

const (
	productInsertBatchSize = 100
	productInsertPause     = 50 * time.Millisecond
)

type productRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB, logger *zap.Logger) *productRepository {
	return &productRepository{
		db:     db,
		logger: logger,
	}
}

func (r *productRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Product, error) {
	query := `
		SELECT id, shopify_product_id, sku, shop_name, title, variant_id,
			image_url, product_url, user_id, created_at, updated_at
		FROM products
		WHERE user_id = $1
		ORDER BY shop_name, sku
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list products by user", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var p domain.Product
		var imageURL sql.NullString
		var productURL sql.NullString

		err := rows.Scan(
			&p.ID,
			&p.ShopifyProductID,
			&p.SKU,
			&p.ShopName,
			&p.Title,
			&p.VariantID,
			&imageURL,
			&productURL,
			&p.UserID,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if imageURL.Valid {
			p.ImageURL = &imageURL.String
		}
		if productURL.Valid {
			p.ProductURL = &productURL.String
		}

		products = append(products, &p)
	}

	return products, rows.Err()
}

// ReplaceForUser swaps the user's product set in a single transaction. A
// per-user advisory lock serializes concurrent syncs for the same owner, and
// the delete only becomes visible once every insert batch has committed.
func (r *productRepository) ReplaceForUser(ctx context.Context, userID uuid.UUID, products []*domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin product replace transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	// Held until commit; a second sync for the same user blocks here
	// instead of interleaving its delete with our inserts.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID.String()); err != nil {
		r.logger.Error("Failed to take product sync lock", zap.Error(err))
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE user_id = $1`, userID); err != nil {
		r.logger.Error("Failed to delete old products", zap.Error(err))
		return err
	}

	now := time.Now()
	for start := 0; start < len(products); start += productInsertBatchSize {
		end := start + productInsertBatchSize
		if end > len(products) {
			end = len(products)
		}

		if err := r.insertBatch(ctx, tx, userID, products[start:end], now); err != nil {
			r.logger.Error("Failed to insert product batch", zap.Error(err))
			return err
		}

		if end < len(products) {
			// Throughput throttling, not correctness-critical.
			time.Sleep(productInsertPause)
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit product replace", zap.Error(err))
		return err
	}

	return nil
}

func (r *productRepository) insertBatch(ctx context.Context, tx *sql.Tx, userID uuid.UUID, products []*domain.Product, now time.Time) error {
	const cols = 11

	placeholders := make([]string, 0, len(products))
	args := make([]interface{}, 0, len(products)*cols)

	for i, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.UserID = userID

		base := i * cols
		marks := make([]string, cols)
		for j := range marks {
			marks[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")

		args = append(args,
			p.ID,
			p.ShopifyProductID,
			p.SKU,
			p.ShopName,
			p.Title,
			p.VariantID,
			p.ImageURL,
			p.ProductURL,
			p.UserID,
			now,
			now,
		)
	}

	query := `
		INSERT INTO products (
			id, shopify_product_id, sku, shop_name, title, variant_id,
			image_url, product_url, user_id, created_at, updated_at
		)
		VALUES ` + strings.Join(placeholders, ", ")

	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
