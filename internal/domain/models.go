package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a dashboard operator account
type User struct {
	ID           uuid.UUID
	Email        string
	APIKeyHash   string
	APIKeyLookup string // SHA256(apiKey) hex for fast lookup; set on create
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ShopifyCredentials holds a user's Shopify Admin API access
type ShopifyCredentials struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	StoreURL    string
	AccessToken string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Product is one synced variant row. The whole set for a user is wiped and
// recreated on every sync; the UI only ever reads it.
type Product struct {
	ID               uuid.UUID
	ShopifyProductID string // Shopify GID, stored as text
	SKU              string
	ShopName         string
	Title            string
	VariantID        string
	ImageURL         *string
	ProductURL       *string
	UserID           uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Shop is a shop_name metaobject fetched from Shopify. Never persisted.
type Shop struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"displayName"`
	Handle      string      `json:"handle"`
	Type        string      `json:"type"`
	Fields      []ShopField `json:"fields"`
}

// ShopField is one key/value field of a shop metaobject
type ShopField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PurchaseBatch groups the purchases created by one spreadsheet upload
type PurchaseBatch struct {
	ID         uuid.UUID
	UploadDate time.Time
	FileNames  []string
	TotalItems int
	Notes      *string
	UserID     uuid.UUID
	CreatedAt  time.Time
}

// Purchase is one ledger line. Created in bulk at upload time; quantity,
// type and notes stay editable afterwards.
type Purchase struct {
	ID        uuid.UUID
	BatchID   *uuid.UUID
	Date      time.Time
	ShopName  string
	SKU       string
	Quantity  int
	Type      PurchaseType
	Notes     *string
	UserID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Return is a product return recorded by the operator
type Return struct {
	ID         uuid.UUID
	ReturnDate time.Time
	ShopName   string
	SKU        string
	Quantity   int
	Notes      *string
	UserID     uuid.UUID
	CreatedAt  time.Time
}

// Order is one denormalized order line from a logistics export, used only
// for analytics aggregation and never mutated after insert.
type Order struct {
	ID                 uuid.UUID
	OrderNumber        string
	SubOrderNumber     *string
	OrderDate          time.Time
	Channel            string
	ProductName        string
	ProductSKU         string
	ProductQuantity    int
	ProductPrice       float64
	ProductDiscount    float64
	PaymentMethod      string
	CustomerName       *string
	CustomerEmail      *string
	CustomerMobile     *string
	CustomerCity       *string
	CustomerState      *string
	CustomerPincode    *string
	OrderTotal         float64
	OrderStatus        string
	CourierCompany     *string
	AWBNo              *string
	AWBAssignedDate    *time.Time
	WarehouseID        *string
	WarehouseName      *string
	OrderPickupDate    *time.Time
	OrderDeliveredDate *time.Time
	Zone               *string
	BilledWeight       float64
	FwdCharges         float64
	RtoCharges         float64
	CodCharges         float64
	GstCharges         float64
	TotalFreightCharge float64
	StoreName          *string
	StoreOrderDate     *time.Time
	UserID             uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// OrderSummary is the aggregate the analytics page renders
type OrderSummary struct {
	TotalOrders  int            `json:"total_orders"`
	TotalRevenue float64        `json:"total_revenue"`
	TotalItems   int            `json:"total_items"`
	StatusCounts map[string]int `json:"status_counts"`
}
