package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/domain"
	"github.com/shopledger/ledgerapi/internal/repository"
	"github.com/shopledger/ledgerapi/internal/service"
	"github.com/shopledger/ledgerapi/internal/shopify"
	"github.com/shopledger/ledgerapi/pkg/errors"
)

// ShopifyCredentialsRequest optionally overrides the stored credentials
type ShopifyCredentialsRequest struct {
	ShopifyStoreURL string `json:"shopifyStoreUrl"`
	ShopifyToken    string `json:"shopifyToken"`
}

// resolveShopifyCredentials takes credentials from the request body when
// both are present, otherwise falls back to the user's stored credentials.
// Nothing is sent upstream unless this succeeds.
func resolveShopifyCredentials(c *gin.Context, repos *repository.Repositories, user *domain.User) (string, string, error) {
	var req ShopifyCredentialsRequest
	// Body is optional; ignore bind errors from an empty body.
	_ = c.ShouldBindJSON(&req)

	if req.ShopifyStoreURL != "" && req.ShopifyToken != "" {
		return req.ShopifyStoreURL, req.ShopifyToken, nil
	}

	creds, err := repos.Credentials.GetByUserID(c.Request.Context(), user.ID)
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); ok {
			return "", "", &errors.ErrValidation{Message: "Shopify credentials are required"}
		}
		return "", "", err
	}
	return creds.StoreURL, creds.AccessToken, nil
}

// HandleSyncProducts handles POST /v1/shopify/products/sync
func HandleSyncProducts(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		storeURL, token, err := resolveShopifyCredentials(c, repos, user)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		syncService := service.NewSyncService(shopify.NewClient(logger), repos, logger)
		count, err := syncService.SyncProducts(c.Request.Context(), storeURL, token, user.ID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   count,
		})
	}
}

// HandleListShops handles POST /v1/shopify/shops
func HandleListShops(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		storeURL, token, err := resolveShopifyCredentials(c, repos, user)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		syncService := service.NewSyncService(shopify.NewClient(logger), repos, logger)
		shops, err := syncService.ListShops(c.Request.Context(), storeURL, token)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"shops":   shops,
		})
	}
}
