package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/repository"
	"github.com/shopledger/ledgerapi/internal/service"
)

// HandleListProducts handles GET /v1/products
func HandleListProducts(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		products, err := repos.Product.ListByUser(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		resp := make([]service.ProductResponse, 0, len(products))
		for _, p := range products {
			resp = append(resp, service.ToProductResponse(p))
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"count":    len(resp),
			"products": resp,
		})
	}
}
