package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/domain"
	"github.com/shopledger/ledgerapi/internal/repository"
	"github.com/shopledger/ledgerapi/internal/shopify"
	"github.com/shopledger/ledgerapi/pkg/errors"
)

const (
	// Cooperative rate-limiting pauses between sequential Shopify requests.
	productsPageDelay = 400 * time.Millisecond
	resolveBatchDelay = 150 * time.Millisecond

	resolveBatchSize = 50

	unknownShopName = "Unknown"
)

// GraphQLExecutor issues one Shopify Admin GraphQL request with retry.
// Implemented by shopify.Client.
type GraphQLExecutor interface {
	Execute(ctx context.Context, storeURL, token, query string, variables map[string]interface{}) (*shopify.GraphQLResponse, error)
}

// SyncService pulls the product catalog and shop metaobjects from Shopify.
// All work within one call is strictly sequential; no two Shopify requests
// ever run concurrently.
type SyncService struct {
	client GraphQLExecutor
	repos  *repository.Repositories
	logger *zap.Logger
	sleep  func(time.Duration)
}

// NewSyncService creates a new sync service
func NewSyncService(client GraphQLExecutor, repos *repository.Repositories, logger *zap.Logger) *SyncService {
	return &SyncService{
		client: client,
		repos:  repos,
		logger: logger,
		sleep:  time.Sleep,
	}
}

// SyncProducts pages through the user's Shopify catalog, resolves shop
// names, and replaces the user's product set. Returns the number of variant
// records synced.
//
// Shop name resolution runs in three passes: the metafield reference's
// displayName inline with the page, then a batched nodes() lookup for raw
// GIDs the reference left unresolved, then the user's purchase history for
// anything still unresolved (the metaobject reference can be transiently
// absent from the API even when a name was previously entered by hand).
func (s *SyncService) SyncProducts(ctx context.Context, storeURL, token string, userID uuid.UUID) (int, error) {
	products, pendingGIDs, err := s.fetchProducts(ctx, storeURL, token, userID)
	if err != nil {
		return 0, err
	}

	if len(pendingGIDs) > 0 {
		s.logger.Info("Resolving metaobject references to names", zap.Int("count", len(pendingGIDs)))
		names, err := s.resolveMetaobjectNames(ctx, storeURL, token, pendingGIDs)
		if err != nil {
			return 0, err
		}
		for _, p := range products {
			if shopify.IsGID(p.ShopName) {
				if name, ok := names[p.ShopName]; ok {
					p.ShopName = name
				}
			}
		}
	}

	s.applyPurchaseHistoryFallback(ctx, userID, products)

	if err := s.repos.Product.ReplaceForUser(ctx, userID, products); err != nil {
		return 0, fmt.Errorf("failed to replace products: %w", err)
	}

	s.logger.Info("Product sync complete",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(products)),
	)
	return len(products), nil
}

// fetchProducts pages through products 100 at a time and flattens them to
// one record per variant with a non-empty SKU. It also collects raw GID
// metafield values that came back without a resolved reference.
func (s *SyncService) fetchProducts(ctx context.Context, storeURL, token string, userID uuid.UUID) ([]*domain.Product, []string, error) {
	var products []*domain.Product
	var pendingGIDs []string
	seenGIDs := make(map[string]struct{})

	var cursor *string
	for {
		resp, err := s.client.Execute(ctx, storeURL, token, shopify.ProductsWithShopNameQuery, map[string]interface{}{
			"cursor": cursor,
		})
		if err != nil {
			return nil, nil, err
		}

		var page shopify.ProductsPage
		if err := json.Unmarshal(resp.Data, &page); err != nil {
			return nil, nil, fmt.Errorf("failed to decode products page: %w", err)
		}
		if page.Products == nil {
			// The replace is destructive; a malformed page aborts the sync
			// instead of wiping the catalog.
			return nil, nil, &errors.ErrDataShape{Field: "products"}
		}

		s.logger.Debug("Fetched products page", zap.Int("count", len(page.Products.Edges)))

		for _, edge := range page.Products.Edges {
			node := edge.Node

			var rawValue, refName string
			if node.Metafield != nil {
				rawValue = node.Metafield.Value
				if node.Metafield.Reference != nil {
					refName = node.Metafield.Reference.DisplayName
				}
			}

			shopName := unknownShopName
			if refName != "" {
				shopName = refName
			} else if rawValue != "" {
				shopName = rawValue
			}

			if refName == "" && shopify.IsGID(rawValue) {
				if _, seen := seenGIDs[rawValue]; !seen {
					seenGIDs[rawValue] = struct{}{}
					pendingGIDs = append(pendingGIDs, rawValue)
				}
			}

			var imageURL *string
			if node.FeaturedImage != nil && node.FeaturedImage.URL != "" {
				imageURL = &node.FeaturedImage.URL
			}

			for _, ve := range node.Variants.Edges {
				if ve.Node.SKU == "" {
					continue
				}
				products = append(products, &domain.Product{
					ShopifyProductID: node.ID,
					SKU:              ve.Node.SKU,
					ShopName:         shopName,
					Title:            node.Title,
					VariantID:        ve.Node.ID,
					ImageURL:         imageURL,
					ProductURL:       node.OnlineStoreURL,
					UserID:           userID,
				})
			}
		}

		if !page.Products.PageInfo.HasNextPage {
			break
		}
		cursor = page.Products.PageInfo.EndCursor
		s.sleep(productsPageDelay)
	}

	return products, pendingGIDs, nil
}

// resolveMetaobjectNames maps metaobject GIDs to display names via batched
// nodes() lookups, 50 ids per request.
func (s *SyncService) resolveMetaobjectNames(ctx context.Context, storeURL, token string, gids []string) (map[string]string, error) {
	names := make(map[string]string, len(gids))

	for start := 0; start < len(gids); start += resolveBatchSize {
		end := start + resolveBatchSize
		if end > len(gids) {
			end = len(gids)
		}

		resp, err := s.client.Execute(ctx, storeURL, token, shopify.ResolveMetaobjectsQuery, map[string]interface{}{
			"ids": gids[start:end],
		})
		if err != nil {
			return nil, err
		}

		var result shopify.NodesResult
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			return nil, fmt.Errorf("failed to decode nodes response: %w", err)
		}

		for _, node := range result.Nodes {
			if node.ID == "" {
				continue
			}
			names[node.ID] = shopify.ResolveName(node)
		}

		if end < len(gids) {
			s.sleep(resolveBatchDelay)
		}
	}

	return names, nil
}

// applyPurchaseHistoryFallback replaces shop names that are still raw GIDs
// with the most recent purchase's shop name for the same SKU. History being
// unreadable degrades the names but never fails the sync.
func (s *SyncService) applyPurchaseHistoryFallback(ctx context.Context, userID uuid.UUID, products []*domain.Product) {
	unresolved := false
	for _, p := range products {
		if shopify.IsGID(p.ShopName) {
			unresolved = true
			break
		}
	}
	if !unresolved {
		return
	}

	names, err := s.repos.Purchase.LatestShopNamesBySKU(ctx, userID)
	if err != nil {
		s.logger.Warn("Could not read purchases for fallback mapping", zap.Error(err))
		return
	}

	replaced := 0
	for _, p := range products {
		if !shopify.IsGID(p.ShopName) {
			continue
		}
		if name, ok := names[p.SKU]; ok && name != "" {
			p.ShopName = name
			replaced++
		}
	}
	if replaced > 0 {
		s.logger.Info("Replaced gid shop names from purchase history", zap.Int("count", replaced))
	}
}

// ListShops pages through all shop_name metaobjects and returns them
// verbatim. Nothing is persisted. A response without the metaobjects
// connection means the store simply has none.
func (s *SyncService) ListShops(ctx context.Context, storeURL, token string) ([]domain.Shop, error) {
	shops := make([]domain.Shop, 0)

	var cursor *string
	for {
		resp, err := s.client.Execute(ctx, storeURL, token, shopify.ShopNameMetaobjectsQuery, map[string]interface{}{
			"cursor": cursor,
		})
		if err != nil {
			return nil, err
		}

		var page shopify.MetaobjectsPage
		if err := json.Unmarshal(resp.Data, &page); err != nil {
			return nil, fmt.Errorf("failed to decode metaobjects page: %w", err)
		}
		if page.Metaobjects == nil {
			s.logger.Debug("No metaobjects connection in response; treating as no shops")
			break
		}

		for _, edge := range page.Metaobjects.Edges {
			node := edge.Node
			fields := make([]domain.ShopField, 0, len(node.Fields))
			for _, f := range node.Fields {
				fields = append(fields, domain.ShopField{Key: f.Key, Value: f.Value})
			}
			shops = append(shops, domain.Shop{
				ID:          node.ID,
				DisplayName: node.DisplayName,
				Handle:      node.Handle,
				Type:        node.Type,
				Fields:      fields,
			})
		}

		if !page.Metaobjects.PageInfo.HasNextPage {
			break
		}
		cursor = page.Metaobjects.PageInfo.EndCursor
		s.sleep(productsPageDelay)
	}

	s.logger.Info("Fetched shop metaobjects", zap.Int("count", len(shops)))
	return shops, nil
}
