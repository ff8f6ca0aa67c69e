package service

import (
	"time"

	"github.com/shopledger/ledgerapi/internal/domain"
)

// ProductResponse is the API shape of a synced product row
type ProductResponse struct {
	ID               string  `json:"id"`
	ShopifyProductID string  `json:"shopify_product_id"`
	SKU              string  `json:"sku"`
	ShopName         string  `json:"shop_name"`
	Title            string  `json:"title"`
	VariantID        string  `json:"variant_id"`
	ImageURL         *string `json:"image_url,omitempty"`
	ProductURL       *string `json:"product_url,omitempty"`
}

// ToProductResponse maps a domain product to its API shape
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:               p.ID.String(),
		ShopifyProductID: p.ShopifyProductID,
		SKU:              p.SKU,
		ShopName:         p.ShopName,
		Title:            p.Title,
		VariantID:        p.VariantID,
		ImageURL:         p.ImageURL,
		ProductURL:       p.ProductURL,
	}
}

// PurchaseBatchResponse is the API shape of an upload batch
type PurchaseBatchResponse struct {
	ID         string   `json:"id"`
	UploadDate string   `json:"upload_date"`
	FileNames  []string `json:"file_names"`
	TotalItems int      `json:"total_items"`
	Notes      *string  `json:"notes,omitempty"`
	CreatedAt  string   `json:"created_at"`
}

// ToPurchaseBatchResponse maps a domain batch to its API shape
func ToPurchaseBatchResponse(b *domain.PurchaseBatch) PurchaseBatchResponse {
	return PurchaseBatchResponse{
		ID:         b.ID.String(),
		UploadDate: b.UploadDate.Format("2006-01-02"),
		FileNames:  b.FileNames,
		TotalItems: b.TotalItems,
		Notes:      b.Notes,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}

// PurchaseResponse is the API shape of one ledger line
type PurchaseResponse struct {
	ID        string  `json:"id"`
	BatchID   *string `json:"batch_id,omitempty"`
	Date      string  `json:"date"`
	ShopName  string  `json:"shop_name"`
	SKU       string  `json:"sku"`
	Quantity  int     `json:"quantity"`
	Type      string  `json:"type"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// ToPurchaseResponse maps a domain purchase to its API shape
func ToPurchaseResponse(p *domain.Purchase) PurchaseResponse {
	resp := PurchaseResponse{
		ID:        p.ID.String(),
		Date:      p.Date.Format("2006-01-02"),
		ShopName:  p.ShopName,
		SKU:       p.SKU,
		Quantity:  p.Quantity,
		Type:      string(p.Type),
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	if p.BatchID != nil {
		id := p.BatchID.String()
		resp.BatchID = &id
	}
	return resp
}

// ReturnResponse is the API shape of a recorded return
type ReturnResponse struct {
	ID         string  `json:"id"`
	ReturnDate string  `json:"return_date"`
	ShopName   string  `json:"shop_name"`
	SKU        string  `json:"sku"`
	Quantity   int     `json:"quantity"`
	Notes      *string `json:"notes,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// ToReturnResponse maps a domain return to its API shape
func ToReturnResponse(r *domain.Return) ReturnResponse {
	return ReturnResponse{
		ID:         r.ID.String(),
		ReturnDate: r.ReturnDate.Format("2006-01-02"),
		ShopName:   r.ShopName,
		SKU:        r.SKU,
		Quantity:   r.Quantity,
		Notes:      r.Notes,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}

// OrderResponse is the API shape of one imported order line. Only the
// fields the analytics page actually renders are exposed.
type OrderResponse struct {
	ID              string  `json:"id"`
	OrderNumber     string  `json:"order_number"`
	OrderDate       string  `json:"order_date"`
	Channel         string  `json:"channel"`
	ProductName     string  `json:"product_name"`
	ProductSKU      string  `json:"product_sku"`
	ProductQuantity int     `json:"product_quantity"`
	ProductPrice    float64 `json:"product_price"`
	PaymentMethod   string  `json:"payment_method"`
	OrderTotal      float64 `json:"order_total"`
	OrderStatus     string  `json:"order_status"`
	CourierCompany  *string `json:"courier_company,omitempty"`
	AWBNo           *string `json:"awb_no,omitempty"`
	Zone            *string `json:"zone,omitempty"`
	StoreName       *string `json:"store_name,omitempty"`
}

// ToOrderResponse maps a domain order to its API shape
func ToOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID.String(),
		OrderNumber:     o.OrderNumber,
		OrderDate:       o.OrderDate.Format(time.RFC3339),
		Channel:         o.Channel,
		ProductName:     o.ProductName,
		ProductSKU:      o.ProductSKU,
		ProductQuantity: o.ProductQuantity,
		ProductPrice:    o.ProductPrice,
		PaymentMethod:   o.PaymentMethod,
		OrderTotal:      o.OrderTotal,
		OrderStatus:     o.OrderStatus,
		CourierCompany:  o.CourierCompany,
		AWBNo:           o.AWBNo,
		Zone:            o.Zone,
		StoreName:       o.StoreName,
	}
}
