package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/domain"
	"github.com/shopledger/ledgerapi/internal/repository"
	"github.com/shopledger/ledgerapi/internal/shopify"
	"github.com/shopledger/ledgerapi/pkg/errors"
)

// SaveCredentialsRequest stores Shopify credentials for the user
type SaveCredentialsRequest struct {
	ShopifyStoreURL string `json:"shopifyStoreUrl" binding:"required"`
	ShopifyToken    string `json:"shopifyToken" binding:"required"`
}

// HandleSaveCredentials handles PUT /v1/credentials
func HandleSaveCredentials(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req SaveCredentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shopifyStoreUrl and shopifyToken are required"})
			return
		}

		creds := &domain.ShopifyCredentials{
			UserID:      user.ID,
			StoreURL:    shopify.NormalizeStoreDomain(req.ShopifyStoreURL),
			AccessToken: strings.TrimSpace(req.ShopifyToken),
		}
		if err := repos.Credentials.Upsert(c.Request.Context(), creds); err != nil {
			respondError(c, logger, err)
			return
		}

		logger.Info("Shopify credentials saved", zap.String("user_id", user.ID.String()))
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// HandleGetCredentials handles GET /v1/credentials. The access token is
// masked; only the last four characters survive.
func HandleGetCredentials(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		creds, err := repos.Credentials.GetByUserID(c.Request.Context(), user.ID)
		if err != nil {
			if _, notFound := err.(*errors.ErrNotFound); notFound {
				c.JSON(http.StatusOK, gin.H{"success": true, "configured": false})
				return
			}
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"configured": true,
			"store_url":  creds.StoreURL,
			"token":      maskToken(creds.AccessToken),
		})
	}
}

func maskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
