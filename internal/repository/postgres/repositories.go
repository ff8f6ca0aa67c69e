package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		User:          NewUserRepository(db, logger),
		Credentials:   NewCredentialsRepository(db, logger),
		Product:       NewProductRepository(db, logger),
		PurchaseBatch: NewPurchaseBatchRepository(db, logger),
		Purchase:      NewPurchaseRepository(db, logger),
		Return:        NewReturnRepository(db, logger),
		Order:         NewOrderRepository(db, logger),
	}
}
