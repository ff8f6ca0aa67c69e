package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/importer"
	"github.com/shopledger/ledgerapi/internal/repository"
	"github.com/shopledger/ledgerapi/pkg/errors"
)

// OrderService imports logistics order exports for analytics
type OrderService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(repos *repository.Repositories, logger *zap.Logger) *OrderService {
	return &OrderService{
		repos:  repos,
		logger: logger,
	}
}

// ImportRows inserts order export rows for the user. Rows without an Order
// Number were already skipped by the importer. Returns the inserted count.
func (s *OrderService) ImportRows(ctx context.Context, userID uuid.UUID, rows []importer.Row) (int, error) {
	orders := importer.OrderRows(rows)
	if len(orders) == 0 {
		return 0, &errors.ErrValidation{Message: "no rows with an Order Number found in the uploaded files"}
	}

	for _, o := range orders {
		o.UserID = userID
	}

	if err := s.repos.Order.CreateBatch(ctx, orders); err != nil {
		return 0, err
	}

	s.logger.Info("Imported order rows",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(orders)),
	)
	return len(orders), nil
}
