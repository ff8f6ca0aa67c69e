package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/repository"
	"github.com/shopledger/ledgerapi/internal/service"
)

// CreateReturnRequest records one product return
type CreateReturnRequest struct {
	ReturnDate string  `json:"return_date"`
	ShopName   string  `json:"shop_name"`
	SKU        string  `json:"sku"`
	Quantity   int     `json:"quantity"`
	Notes      *string `json:"notes"`
}

// HandleCreateReturn handles POST /v1/returns
func HandleCreateReturn(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req CreateReturnRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		returnDate := time.Now()
		if req.ReturnDate != "" {
			parsed, err := time.Parse("2006-01-02", req.ReturnDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "return_date must be YYYY-MM-DD"})
				return
			}
			returnDate = parsed
		}

		ledgerService := service.NewLedgerService(repos, logger)
		ret, err := ledgerService.CreateReturn(c.Request.Context(), user.ID, returnDate, req.ShopName, req.SKU, req.Quantity, req.Notes)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"return":  service.ToReturnResponse(ret),
		})
	}
}

// HandleListReturns handles GET /v1/returns
func HandleListReturns(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		returns, err := repos.Return.ListByUser(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		resp := make([]service.ReturnResponse, 0, len(returns))
		for _, r := range returns {
			resp = append(resp, service.ToReturnResponse(r))
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(resp),
			"returns": resp,
		})
	}
}

// HandleDeleteReturn handles DELETE /v1/returns/:id
func HandleDeleteReturn(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid return id"})
			return
		}

		ledgerService := service.NewLedgerService(repos, logger)
		if err := ledgerService.DeleteReturn(c.Request.Context(), user.ID, id); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
