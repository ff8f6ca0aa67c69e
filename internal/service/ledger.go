package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/domain"
	"github.com/shopledger/ledgerapi/internal/importer"
	"github.com/shopledger/ledgerapi/internal/repository"
	"github.com/shopledger/ledgerapi/pkg/errors"
)

// LedgerService manages purchase batches, purchases and returns. No
// reconciliation logic lives here; it never talks to Shopify.
type LedgerService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(repos *repository.Repositories, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		repos:  repos,
		logger: logger,
	}
}

// ledgerEntry is one aggregated upload line before it becomes a purchase
type ledgerEntry struct {
	sku      string
	shopName string
	quantity int
}

// CreateBatchFromRows turns uploaded spreadsheet rows into a purchase batch
// plus its ledger lines. Rows are aggregated per SKU; SKUs present in the
// synced catalog adopt that product's shop name, the rest are recorded under
// "Unknown" so the operator can fix them in the history editor.
func (s *LedgerService) CreateBatchFromRows(ctx context.Context, userID uuid.UUID, fileNames []string, rows []importer.PurchaseRow, notes *string) (*domain.PurchaseBatch, error) {
	if len(rows) == 0 {
		return nil, &errors.ErrValidation{Message: "no rows with a SKU found in the uploaded files"}
	}

	products, err := s.repos.Product.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	shopBySKU := make(map[string]string, len(products))
	for _, p := range products {
		if _, ok := shopBySKU[p.SKU]; !ok {
			shopBySKU[p.SKU] = p.ShopName
		}
	}

	var entries []*ledgerEntry
	bySKU := make(map[string]*ledgerEntry)
	for _, row := range rows {
		if entry, ok := bySKU[row.SKU]; ok {
			entry.quantity += row.Quantity
			continue
		}
		shopName := unknownShopName
		if name, ok := shopBySKU[row.SKU]; ok {
			shopName = name
		}
		entry := &ledgerEntry{sku: row.SKU, shopName: shopName, quantity: row.Quantity}
		bySKU[row.SKU] = entry
		entries = append(entries, entry)
	}

	now := time.Now()
	batch := &domain.PurchaseBatch{
		UploadDate: now,
		FileNames:  fileNames,
		TotalItems: len(entries),
		Notes:      notes,
		UserID:     userID,
	}
	if err := s.repos.PurchaseBatch.Create(ctx, batch); err != nil {
		return nil, err
	}

	purchases := make([]*domain.Purchase, 0, len(entries))
	for _, entry := range entries {
		batchID := batch.ID
		purchases = append(purchases, &domain.Purchase{
			BatchID:  &batchID,
			Date:     now,
			ShopName: entry.shopName,
			SKU:      entry.sku,
			Quantity: entry.quantity,
			Type:     domain.PurchaseTypePurchase,
			UserID:   userID,
		})
	}
	if err := s.repos.Purchase.CreateBatch(ctx, purchases); err != nil {
		return nil, err
	}

	s.logger.Info("Purchase batch created",
		zap.String("batch_id", batch.ID.String()),
		zap.Strings("files", fileNames),
		zap.Int("items", len(entries)),
	)
	return batch, nil
}

// UpdatePurchase edits quantity, type and/or notes of one ledger line
func (s *LedgerService) UpdatePurchase(ctx context.Context, userID, id uuid.UUID, quantity *int, purchaseType *domain.PurchaseType, notes *string) error {
	if quantity == nil && purchaseType == nil && notes == nil {
		return &errors.ErrValidation{Message: "nothing to update"}
	}
	if quantity != nil && *quantity <= 0 {
		return &errors.ErrValidation{Message: "quantity must be positive", Fields: map[string]string{"quantity": "must be positive"}}
	}
	if purchaseType != nil && !purchaseType.IsValid() {
		return &errors.ErrValidation{Message: "type must be purchase or return", Fields: map[string]string{"type": "invalid"}}
	}

	return s.repos.Purchase.Update(ctx, userID, id, quantity, purchaseType, notes)
}

// DeleteBatch removes a batch and, via the FK cascade, its purchases
func (s *LedgerService) DeleteBatch(ctx context.Context, userID, id uuid.UUID) error {
	return s.repos.PurchaseBatch.Delete(ctx, userID, id)
}

// CreateReturn records one product return
func (s *LedgerService) CreateReturn(ctx context.Context, userID uuid.UUID, returnDate time.Time, shopName, sku string, quantity int, notes *string) (*domain.Return, error) {
	fields := make(map[string]string)
	if sku == "" {
		fields["sku"] = "required"
	}
	if shopName == "" {
		fields["shop_name"] = "required"
	}
	if quantity <= 0 {
		fields["quantity"] = "must be positive"
	}
	if len(fields) > 0 {
		return nil, &errors.ErrValidation{Message: "invalid return", Fields: fields}
	}

	ret := &domain.Return{
		ReturnDate: returnDate,
		ShopName:   shopName,
		SKU:        sku,
		Quantity:   quantity,
		Notes:      notes,
		UserID:     userID,
	}
	if err := s.repos.Return.Create(ctx, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// DeleteReturn removes one recorded return
func (s *LedgerService) DeleteReturn(ctx context.Context, userID, id uuid.UUID) error {
	return s.repos.Return.Delete(ctx, userID, id)
}
