package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/domain"
	"github.com/shopledger/ledgerapi/internal/importer"
	"github.com/shopledger/ledgerapi/internal/repository"
	"github.com/shopledger/ledgerapi/internal/service"
)

// HandleUploadPurchases handles POST /v1/purchases/upload. Accepts one or
// more spreadsheet files under the "files" form field; every parsed SKU row
// across all files lands in a single batch.
func HandleUploadPurchases(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
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

		var notes *string
		if v := c.PostForm("notes"); v != "" {
			notes = &v
		}

		var allRows []importer.PurchaseRow
		fileNames := make([]string, 0, len(files))
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
			allRows = append(allRows, importer.PurchaseRows(rows)...)
			fileNames = append(fileNames, fh.Filename)
		}

		ledgerService := service.NewLedgerService(repos, logger)
		batch, err := ledgerService.CreateBatchFromRows(c.Request.Context(), user.ID, fileNames, allRows, notes)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"batch":   service.ToPurchaseBatchResponse(batch),
		})
	}
}

// HandleListPurchases handles GET /v1/purchases
func HandleListPurchases(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		purchases, err := repos.Purchase.ListByUser(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		resp := make([]service.PurchaseResponse, 0, len(purchases))
		for _, p := range purchases {
			resp = append(resp, service.ToPurchaseResponse(p))
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"count":     len(resp),
			"purchases": resp,
		})
	}
}

// UpdatePurchaseRequest carries the editable fields of a ledger line.
// Absent fields are left unchanged.
type UpdatePurchaseRequest struct {
	Quantity *int    `json:"quantity"`
	Type     *string `json:"type"`
	Notes    *string `json:"notes"`
}

// HandleUpdatePurchase handles PATCH /v1/purchases/:id
func HandleUpdatePurchase(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchase id"})
			return
		}

		var req UpdatePurchaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		var purchaseType *domain.PurchaseType
		if req.Type != nil {
			t := domain.PurchaseType(*req.Type)
			purchaseType = &t
		}

		ledgerService := service.NewLedgerService(repos, logger)
		if err := ledgerService.UpdatePurchase(c.Request.Context(), user.ID, id, req.Quantity, purchaseType, req.Notes); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// HandleListPurchaseBatches handles GET /v1/purchases/batches
func HandleListPurchaseBatches(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		batches, err := repos.PurchaseBatch.ListByUser(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		resp := make([]service.PurchaseBatchResponse, 0, len(batches))
		for _, b := range batches {
			resp = append(resp, service.ToPurchaseBatchResponse(b))
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(resp),
			"batches": resp,
		})
	}
}

// HandleDeletePurchaseBatch handles DELETE /v1/purchases/batches/:id
func HandleDeletePurchaseBatch(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch id"})
			return
		}

		ledgerService := service.NewLedgerService(repos, logger)
		if err := ledgerService.DeleteBatch(c.Request.Context(), user.ID, id); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
