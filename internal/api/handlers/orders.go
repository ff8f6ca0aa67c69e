package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/importer"
	"github.com/shopledger/ledgerapi/internal/repository"
	"github.com/shopledger/ledgerapi/internal/service"
)

const (
	defaultOrderPageSize = 100
	maxOrderPageSize     = 500
)

// HandleUploadOrders handles POST /v1/orders/upload
func HandleUploadOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expected multipart form upload"})
			return
		}
		files := form.File["files"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
			return
		}

		var allRows []importer.Row
		for _, fh := range files {
			f, err := fh.Open()
			if err != nil {
				respondError(c, logger, err)
				return
			}
			rows, err := importer.ParseFile(fh.Filename, f)
			f.Close()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "file": fh.Filename})
				return
			}
			allRows = append(allRows, rows...)
		}

		orderService := service.NewOrderService(repos, logger)
		count, err := orderService.ImportRows(c.Request.Context(), user.ID, allRows)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"count":   count,
		})
	}
}

// HandleListOrders handles GET /v1/orders with optional status, limit and
// offset query parameters
func HandleListOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		status := c.Query("status")
		limit := parsePositiveInt(c.Query("limit"), defaultOrderPageSize)
		if limit > maxOrderPageSize {
			limit = maxOrderPageSize
		}
		offset := parsePositiveInt(c.Query("offset"), 0)

		orders, err := repos.Order.ListByUser(c.Request.Context(), user.ID, status, limit, offset)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		resp := make([]service.OrderResponse, 0, len(orders))
		for _, o := range orders {
			resp = append(resp, service.ToOrderResponse(o))
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(resp),
			"orders":  resp,
		})
	}
}

// HandleOrderSummary handles GET /v1/orders/summary
func HandleOrderSummary(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		summary, err := repos.Order.SummaryByUser(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"summary": summary,
		})
	}
}

func parsePositiveInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
