package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/domain"
	"github.com/shopledger/ledgerapi/internal/importer"
	"github.com/shopledger/ledgerapi/internal/repository"
	"github.com/shopledger/ledgerapi/pkg/errors"
)

type fakeReturnRepo struct {
	returns []*domain.Return
}

func (f *fakeReturnRepo) Create(ctx context.Context, ret *domain.Return) error {
	if ret.ID == uuid.Nil {
		ret.ID = uuid.New()
	}
	f.returns = append(f.returns, ret)
	return nil
}

func (f *fakeReturnRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Return, error) {
	return f.returns, nil
}

func (f *fakeReturnRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return nil
}

type fakeBatchRepo struct {
	batches []*domain.PurchaseBatch
	deleted []uuid.UUID
}

func (f *fakeBatchRepo) Create(ctx context.Context, batch *domain.PurchaseBatch) error {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	f.batches = append(f.batches, batch)
	return nil
}

func (f *fakeBatchRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PurchaseBatch, error) {
	return f.batches, nil
}

func (f *fakeBatchRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newLedgerFixture(catalog []*domain.Product) (*LedgerService, *fakeBatchRepo, *fakePurchaseRepo) {
	batchRepo := &fakeBatchRepo{}
	purchaseRepo := &fakePurchaseRepo{}
	repos := &repository.Repositories{
		Product:       &fakeProductRepo{products: catalog},
		PurchaseBatch: batchRepo,
		Purchase:      purchaseRepo,
		Return:        &fakeReturnRepo{},
	}
	return NewLedgerService(repos, zap.NewNop()), batchRepo, purchaseRepo
}

func TestCreateBatchFromRowsAggregatesAndMapsShops(t *testing.T) {
	catalog := []*domain.Product{
		{SKU: "SKU-1", ShopName: "North Store"},
		{SKU: "SKU-1", ShopName: "Duplicate Later Row"},
	}
	svc, batchRepo, purchaseRepo := newLedgerFixture(catalog)
	userID := uuid.New()

	rows := []importer.PurchaseRow{
		{SKU: "SKU-1", Quantity: 2},
		{SKU: "SKU-2", Quantity: 1},
		{SKU: "SKU-1", Quantity: 3},
	}

	batch, err := svc.CreateBatchFromRows(context.Background(), userID, []string{"upload.csv"}, rows, nil)

	require.NoError(t, err)
	require.Len(t, batchRepo.batches, 1)
	assert.Equal(t, 2, batch.TotalItems)
	assert.Equal(t, []string{"upload.csv"}, batch.FileNames)

	require.Len(t, purchaseRepo.created, 2)
	first := purchaseRepo.created[0]
	assert.Equal(t, "SKU-1", first.SKU)
	assert.Equal(t, 5, first.Quantity)
	// First catalog row wins for a duplicated SKU
	assert.Equal(t, "North Store", first.ShopName)
	assert.Equal(t, domain.PurchaseTypePurchase, first.Type)
	require.NotNil(t, first.BatchID)
	assert.Equal(t, batch.ID, *first.BatchID)

	second := purchaseRepo.created[1]
	assert.Equal(t, "SKU-2", second.SKU)
	// SKUs outside the synced catalog are recorded for later correction
	assert.Equal(t, "Unknown", second.ShopName)
}

func TestCreateBatchFromRowsRejectsEmptyUpload(t *testing.T) {
	svc, _, _ := newLedgerFixture(nil)

	_, err := svc.CreateBatchFromRows(context.Background(), uuid.New(), []string{"empty.csv"}, nil, nil)

	require.Error(t, err)
	_, ok := err.(*errors.ErrValidation)
	assert.True(t, ok, "expected ErrValidation, got %T", err)
}

func TestUpdatePurchaseValidation(t *testing.T) {
	svc, _, _ := newLedgerFixture(nil)
	userID, id := uuid.New(), uuid.New()

	err := svc.UpdatePurchase(context.Background(), userID, id, nil, nil, nil)
	assert.Error(t, err, "nothing to update")

	zero := 0
	err = svc.UpdatePurchase(context.Background(), userID, id, &zero, nil, nil)
	assert.Error(t, err, "non-positive quantity")

	bad := domain.PurchaseType("exchange")
	err = svc.UpdatePurchase(context.Background(), userID, id, nil, &bad, nil)
	assert.Error(t, err, "invalid type")

	three := 3
	ret := domain.PurchaseTypeReturn
	err = svc.UpdatePurchase(context.Background(), userID, id, &three, &ret, nil)
	assert.NoError(t, err)
}

func TestCreateReturnValidation(t *testing.T) {
	svc, _, _ := newLedgerFixture(nil)
	userID := uuid.New()

	_, err := svc.CreateReturn(context.Background(), userID, time.Now(), "", "", 0, nil)
	require.Error(t, err)
	verr, ok := err.(*errors.ErrValidation)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "sku")
	assert.Contains(t, verr.Fields, "shop_name")
	assert.Contains(t, verr.Fields, "quantity")

	ret, err := svc.CreateReturn(context.Background(), userID, time.Now(), "North Store", "SKU-1", 2, nil)
	require.NoError(t, err)
	assert.Equal(t, userID, ret.UserID)
	assert.Equal(t, 2, ret.Quantity)
}
