package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopledger/ledgerapi/internal/domain"
)

// Repositories holds all repository implementations
type Repositories struct {
	User          UserRepository
	Credentials   CredentialsRepository
	Product       ProductRepository
	PurchaseBatch PurchaseBatchRepository
	Purchase      PurchaseRepository
	Return        ReturnRepository
	Order         OrderRepository
}

// UserRepository manages dashboard user accounts
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByAPIKeyLookup(ctx context.Context, lookup string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// CredentialsRepository manages stored Shopify credentials, one row per user
type CredentialsRepository interface {
	Upsert(ctx context.Context, creds *domain.ShopifyCredentials) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.ShopifyCredentials, error)
}

// ProductRepository manages the synced product set
type ProductRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Product, error)
	// ReplaceForUser atomically swaps the user's product set: the delete and
	// the batched inserts run in one transaction under a per-user advisory
	// lock, so a failed sync never leaves the set empty and two concurrent
	// syncs cannot interleave.
	ReplaceForUser(ctx context.Context, userID uuid.UUID, products []*domain.Product) error
}

// PurchaseBatchRepository manages upload batches
type PurchaseBatchRepository interface {
	Create(ctx context.Context, batch *domain.PurchaseBatch) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PurchaseBatch, error)
	// Delete removes the batch; its purchases go with it (FK cascade).
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// PurchaseRepository manages ledger lines
type PurchaseRepository interface {
	CreateBatch(ctx context.Context, purchases []*domain.Purchase) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Purchase, error)
	Update(ctx context.Context, userID, id uuid.UUID, quantity *int, purchaseType *domain.PurchaseType, notes *string) error
	// LatestShopNamesBySKU returns the most recently recorded shop name per
	// SKU for the user, used as the sync reconciler's historical fallback.
	LatestShopNamesBySKU(ctx context.Context, userID uuid.UUID) (map[string]string, error)
}

// ReturnRepository manages recorded returns
type ReturnRepository interface {
	Create(ctx context.Context, ret *domain.Return) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Return, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// OrderRepository manages imported order analytics rows
type OrderRepository interface {
	CreateBatch(ctx context.Context, orders []*domain.Order) error
	ListByUser(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]*domain.Order, error)
	SummaryByUser(ctx context.Context, userID uuid.UUID) (*domain.OrderSummary, error)
}
