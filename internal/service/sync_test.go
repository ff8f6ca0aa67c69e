package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/domain"
	"github.com/shopledger/ledgerapi/internal/repository"
	"github.com/shopledger/ledgerapi/internal/shopify"
	"github.com/shopledger/ledgerapi/pkg/errors"
)

// executorCall records one Shopify request the fake saw
type executorCall struct {
	query     string
	variables map[string]interface{}
}

// fakeExecutor routes queries to canned response queues
type fakeExecutor struct {
	productPages []string
	nodeResults  []string
	shopPages    []string
	calls        []executorCall
}

func (f *fakeExecutor) Execute(ctx context.Context, storeURL, token, query string, variables map[string]interface{}) (*shopify.GraphQLResponse, error) {
	f.calls = append(f.calls, executorCall{query: query, variables: variables})

	pop := func(queue *[]string) (*shopify.GraphQLResponse, error) {
		if len(*queue) == 0 {
			return nil, fmt.Errorf("unexpected request: %s", query)
		}
		data := (*queue)[0]
		*queue = (*queue)[1:]
		return &shopify.GraphQLResponse{Data: json.RawMessage(data)}, nil
	}

	switch query {
	case shopify.ProductsWithShopNameQuery:
		return pop(&f.productPages)
	case shopify.ResolveMetaobjectsQuery:
		return pop(&f.nodeResults)
	case shopify.ShopNameMetaobjectsQuery:
		return pop(&f.shopPages)
	}
	return nil, fmt.Errorf("unknown query")
}

type fakeProductRepo struct {
	products []*domain.Product
	replaced [][]*domain.Product
}

func (f *fakeProductRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Product, error) {
	return f.products, nil
}

func (f *fakeProductRepo) ReplaceForUser(ctx context.Context, userID uuid.UUID, products []*domain.Product) error {
	f.replaced = append(f.replaced, products)
	return nil
}

type fakePurchaseRepo struct {
	shopNamesBySKU map[string]string
	historyErr     error
	created        []*domain.Purchase
}

func (f *fakePurchaseRepo) CreateBatch(ctx context.Context, purchases []*domain.Purchase) error {
	f.created = append(f.created, purchases...)
	return nil
}

func (f *fakePurchaseRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Purchase, error) {
	return nil, nil
}

func (f *fakePurchaseRepo) Update(ctx context.Context, userID, id uuid.UUID, quantity *int, purchaseType *domain.PurchaseType, notes *string) error {
	return nil
}

func (f *fakePurchaseRepo) LatestShopNamesBySKU(ctx context.Context, userID uuid.UUID) (map[string]string, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.shopNamesBySKU, nil
}

func newSyncFixture(exec *fakeExecutor) (*SyncService, *fakeProductRepo, *fakePurchaseRepo, *[]time.Duration) {
	productRepo := &fakeProductRepo{}
	purchaseRepo := &fakePurchaseRepo{}
	repos := &repository.Repositories{
		Product:  productRepo,
		Purchase: purchaseRepo,
	}

	var sleeps []time.Duration
	svc := NewSyncService(exec, repos, zap.NewNop())
	svc.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return svc, productRepo, purchaseRepo, &sleeps
}

// productsPageJSON builds one products page with count variants, each with a
// resolved shop name reference.
func productsPageJSON(t *testing.T, count int, skuPrefix, shopName string, hasNext bool, endCursor string) string {
	t.Helper()

	page := shopify.ProductsPage{Products: &shopify.ProductsConnection{}}
	page.Products.PageInfo.HasNextPage = hasNext
	if endCursor != "" {
		page.Products.PageInfo.EndCursor = &endCursor
	}
	for i := 0; i < count; i++ {
		page.Products.Edges = append(page.Products.Edges, shopify.ProductEdge{
			Node: shopify.ProductNode{
				ID:    fmt.Sprintf("gid://shopify/Product/%s-%d", skuPrefix, i),
				Title: fmt.Sprintf("Product %d", i),
				Metafield: &shopify.Metafield{
					Value:     "gid://shopify/Metaobject/900",
					Reference: &shopify.MetafieldReference{DisplayName: shopName},
				},
				Variants: shopify.VariantsConnection{
					Edges: []shopify.VariantEdge{
						{Node: shopify.VariantNode{
							ID:  fmt.Sprintf("gid://shopify/ProductVariant/%s-%d", skuPrefix, i),
							SKU: fmt.Sprintf("%s-%d", skuPrefix, i),
						}},
					},
				},
			},
		})
	}

	data, err := json.Marshal(page)
	require.NoError(t, err)
	return string(data)
}

func TestSyncProductsPagesThroughCatalog(t *testing.T) {
	exec := &fakeExecutor{
		productPages: []string{
			productsPageJSON(t, 60, "A", "North Store", true, "cursor-1"),
			productsPageJSON(t, 40, "B", "North Store", false, ""),
		},
	}
	svc, productRepo, _, sleeps := newSyncFixture(exec)

	count, err := svc.SyncProducts(context.Background(), "store.myshopify.com", "token", uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 100, count)
	require.Len(t, exec.calls, 2)

	// First page has no cursor, second passes the previous end cursor
	assert.Nil(t, exec.calls[0].variables["cursor"])
	cursor, _ := exec.calls[1].variables["cursor"].(*string)
	require.NotNil(t, cursor)
	assert.Equal(t, "cursor-1", *cursor)

	// Exactly one inter-page pause
	assert.Equal(t, []time.Duration{400 * time.Millisecond}, *sleeps)

	require.Len(t, productRepo.replaced, 1)
	assert.Len(t, productRepo.replaced[0], 100)
	assert.Equal(t, "North Store", productRepo.replaced[0][0].ShopName)
}

func TestSyncProductsSkipsVariantsWithoutSKU(t *testing.T) {
	page := shopify.ProductsPage{Products: &shopify.ProductsConnection{}}
	page.Products.Edges = []shopify.ProductEdge{{
		Node: shopify.ProductNode{
			ID:    "gid://shopify/Product/1",
			Title: "Mixed",
			Variants: shopify.VariantsConnection{Edges: []shopify.VariantEdge{
				{Node: shopify.VariantNode{ID: "gid://shopify/ProductVariant/1", SKU: "SKU-1"}},
				{Node: shopify.VariantNode{ID: "gid://shopify/ProductVariant/2", SKU: ""}},
			}},
		},
	}}
	data, err := json.Marshal(page)
	require.NoError(t, err)

	exec := &fakeExecutor{productPages: []string{string(data)}}
	svc, productRepo, _, _ := newSyncFixture(exec)

	count, err := svc.SyncProducts(context.Background(), "store", "token", uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, productRepo.replaced, 1)
	assert.Equal(t, "SKU-1", productRepo.replaced[0][0].SKU)
	// Missing metafield means no shop name at all
	assert.Equal(t, "Unknown", productRepo.replaced[0][0].ShopName)
}

func TestSyncProductsResolvesRawGIDsViaNodes(t *testing.T) {
	page := shopify.ProductsPage{Products: &shopify.ProductsConnection{}}
	page.Products.Edges = []shopify.ProductEdge{{
		Node: shopify.ProductNode{
			ID:        "gid://shopify/Product/1",
			Title:     "Unrefd",
			Metafield: &shopify.Metafield{Value: "gid://shopify/Metaobject/77"},
			Variants: shopify.VariantsConnection{Edges: []shopify.VariantEdge{
				{Node: shopify.VariantNode{ID: "gid://shopify/ProductVariant/1", SKU: "SKU-1"}},
			}},
		},
	}}
	pageData, err := json.Marshal(page)
	require.NoError(t, err)

	nodes := shopify.NodesResult{Nodes: []shopify.Metaobject{
		{ID: "gid://shopify/Metaobject/77", DisplayName: "Resolved Store"},
	}}
	nodesData, err := json.Marshal(nodes)
	require.NoError(t, err)

	exec := &fakeExecutor{
		productPages: []string{string(pageData)},
		nodeResults:  []string{string(nodesData)},
	}
	svc, productRepo, _, sleeps := newSyncFixture(exec)

	count, err := svc.SyncProducts(context.Background(), "store", "token", uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, exec.calls, 2)
	assert.Equal(t, shopify.ResolveMetaobjectsQuery, exec.calls[1].query)
	assert.Equal(t, "Resolved Store", productRepo.replaced[0][0].ShopName)
	// A single nodes batch needs no pause
	assert.Empty(t, *sleeps)
}

func TestSyncProductsFallsBackToPurchaseHistory(t *testing.T) {
	page := shopify.ProductsPage{Products: &shopify.ProductsConnection{}}
	page.Products.Edges = []shopify.ProductEdge{{
		Node: shopify.ProductNode{
			ID:        "gid://shopify/Product/1",
			Title:     "Orphan",
			Metafield: &shopify.Metafield{Value: "gid://shopify/Metaobject/99"},
			Variants: shopify.VariantsConnection{Edges: []shopify.VariantEdge{
				{Node: shopify.VariantNode{ID: "gid://shopify/ProductVariant/1", SKU: "LEGACY-1"}},
			}},
		},
	}}
	pageData, err := json.Marshal(page)
	require.NoError(t, err)

	// The nodes lookup finds nothing for the GID
	exec := &fakeExecutor{
		productPages: []string{string(pageData)},
		nodeResults:  []string{`{"nodes":[]}`},
	}
	svc, productRepo, purchaseRepo, _ := newSyncFixture(exec)
	purchaseRepo.shopNamesBySKU = map[string]string{"LEGACY-1": "Legacy Shop"}

	_, err = svc.SyncProducts(context.Background(), "store", "token", uuid.New())

	require.NoError(t, err)
	assert.Equal(t, "Legacy Shop", productRepo.replaced[0][0].ShopName)
}

func TestSyncProductsHistoryFailureDoesNotFailSync(t *testing.T) {
	page := shopify.ProductsPage{Products: &shopify.ProductsConnection{}}
	page.Products.Edges = []shopify.ProductEdge{{
		Node: shopify.ProductNode{
			ID:        "gid://shopify/Product/1",
			Metafield: &shopify.Metafield{Value: "gid://shopify/Metaobject/99"},
			Variants: shopify.VariantsConnection{Edges: []shopify.VariantEdge{
				{Node: shopify.VariantNode{ID: "v1", SKU: "SKU-1"}},
			}},
		},
	}}
	pageData, err := json.Marshal(page)
	require.NoError(t, err)

	exec := &fakeExecutor{
		productPages: []string{string(pageData)},
		nodeResults:  []string{`{"nodes":[]}`},
	}
	svc, productRepo, purchaseRepo, _ := newSyncFixture(exec)
	purchaseRepo.historyErr = fmt.Errorf("db down")

	count, err := svc.SyncProducts(context.Background(), "store", "token", uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	// The unresolved GID survives as-is rather than aborting the sync
	assert.Equal(t, "gid://shopify/Metaobject/99", productRepo.replaced[0][0].ShopName)
}

func TestSyncProductsAbortsOnMissingProductsConnection(t *testing.T) {
	exec := &fakeExecutor{productPages: []string{`{}`}}
	svc, productRepo, _, _ := newSyncFixture(exec)

	_, err := svc.SyncProducts(context.Background(), "store", "token", uuid.New())

	require.Error(t, err)
	_, ok := err.(*errors.ErrDataShape)
	assert.True(t, ok, "expected ErrDataShape, got %T", err)
	// The destructive replace must not have run
	assert.Empty(t, productRepo.replaced)
}

func TestListShopsReturnsEmptyWhenConnectionMissing(t *testing.T) {
	exec := &fakeExecutor{shopPages: []string{`{}`}}
	svc, _, _, _ := newSyncFixture(exec)

	shops, err := svc.ListShops(context.Background(), "store", "token")

	require.NoError(t, err)
	assert.NotNil(t, shops)
	assert.Empty(t, shops)
}

func TestListShopsPagesThroughMetaobjects(t *testing.T) {
	cursor := "shops-cursor"
	page1 := shopify.MetaobjectsPage{Metaobjects: &shopify.MetaobjectsConnection{
		PageInfo: shopify.PageInfo{HasNextPage: true, EndCursor: &cursor},
		Edges: []shopify.MetaobjectEdge{
			{Node: shopify.Metaobject{ID: "gid://shopify/Metaobject/1", DisplayName: "North Store", Handle: "north", Type: "shop_name"}},
		},
	}}
	page2 := shopify.MetaobjectsPage{Metaobjects: &shopify.MetaobjectsConnection{
		Edges: []shopify.MetaobjectEdge{
			{Node: shopify.Metaobject{
				ID:     "gid://shopify/Metaobject/2",
				Handle: "south",
				Type:   "shop_name",
				Fields: []shopify.MetaobjectField{{Key: "shop_name", Value: "South Store"}},
			}},
		},
	}}
	data1, err := json.Marshal(page1)
	require.NoError(t, err)
	data2, err := json.Marshal(page2)
	require.NoError(t, err)

	exec := &fakeExecutor{shopPages: []string{string(data1), string(data2)}}
	svc, _, _, sleeps := newSyncFixture(exec)

	shops, err := svc.ListShops(context.Background(), "store", "token")

	require.NoError(t, err)
	require.Len(t, shops, 2)
	assert.Equal(t, "North Store", shops[0].DisplayName)
	assert.Equal(t, "south", shops[1].Handle)
	require.Len(t, shops[1].Fields, 1)
	assert.Equal(t, "South Store", shops[1].Fields[0].Value)
	assert.Equal(t, []time.Duration{400 * time.Millisecond}, *sleeps)
}

func TestSyncProductsIsIdempotentPerRun(t *testing.T) {
	userID := uuid.New()
	exec := &fakeExecutor{
		productPages: []string{
			productsPageJSON(t, 3, "A", "North Store", false, ""),
			productsPageJSON(t, 3, "A", "North Store", false, ""),
		},
	}
	svc, productRepo, _, _ := newSyncFixture(exec)

	first, err := svc.SyncProducts(context.Background(), "store", "token", userID)
	require.NoError(t, err)
	second, err := svc.SyncProducts(context.Background(), "store", "token", userID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Each run replaces the whole set rather than appending
	require.Len(t, productRepo.replaced, 2)
	assert.Len(t, productRepo.replaced[0], 3)
	assert.Len(t, productRepo.replaced[1], 3)
}
