package importer

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopledger/ledgerapi/internal/domain"
)

// isoLayouts are tried before the day-first logistics format so ISO export
// dates are never misread as DD-MM-YYYY.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var dayFirstLayouts = []string{
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02-01-2006",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// ParseFlexibleDate accepts the logistics export's DD-MM-YYYY[ HH:mm:ss]
// format as well as ISO forms. "N/A" and empty cells report no date.
func ParseFlexibleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// OrderRows maps order export rows to analytics records using the export's
// column names. Rows without an Order Number are skipped.
func OrderRows(rows []Row) []*domain.Order {
	orders := make([]*domain.Order, 0, len(rows))
	for _, row := range rows {
		orderNumber := row.pick("Order Number")
		if orderNumber == "" {
			continue
		}

		orderDate, ok := ParseFlexibleDate(row.pick("Order Date"))
		if !ok {
			orderDate = time.Now()
		}

		o := &domain.Order{
			OrderNumber:        orderNumber,
			SubOrderNumber:     optString(row.pick("Sub Order Number")),
			OrderDate:          orderDate,
			Channel:            defaultString(row.pick("Channel"), "Shopify"),
			ProductName:        row.pick("Product Name"),
			ProductSKU:         row.pick("Product SKU"),
			ProductQuantity:    parseInt(row.pick("Product Quantity"), 1),
			ProductPrice:       parseFloat(row.pick("Product Price")),
			ProductDiscount:    parseFloat(row.pick("Product Discount")),
			PaymentMethod:      defaultString(row.pick("Payment Method"), "COD"),
			CustomerName:       optString(row.pick("Customer Name")),
			CustomerEmail:      optString(row.pick("Customer Email")),
			CustomerMobile:     optString(row.pick("Customer Mobile No")),
			CustomerCity:       optString(row.pick("Customer City")),
			CustomerState:      optString(row.pick("Customer State")),
			CustomerPincode:    optString(row.pick("Customer Pincode")),
			OrderTotal:         parseFloat(row.pick("Order Total")),
			OrderStatus:        defaultString(row.pick("Order Status"), "Pending"),
			CourierCompany:     optString(row.pick("Courier Company")),
			AWBNo:              optString(row.pick("AWB No")),
			AWBAssignedDate:    optDate(row.pick("AWB Assigned Date")),
			WarehouseID:        optString(row.pick("Warehouse ID")),
			WarehouseName:      optString(row.pick("Warehouse Nick Name")),
			OrderPickupDate:    optDate(row.pick("Order Pickup Date")),
			OrderDeliveredDate: optDate(row.pick("Order Delivered Date")),
			Zone:               optString(row.pick("Zone")),
			BilledWeight:       parseFloat(row.pick("Billed Weight")),
			FwdCharges:         parseFloat(row.pick("FWD Charges")),
			RtoCharges:         parseFloat(row.pick("RTO Charges")),
			CodCharges:         parseFloat(row.pick("COD Charges")),
			GstCharges:         parseFloat(row.pick("GST Charges")),
			TotalFreightCharge: parseFloat(row.pick("Total Freight Charge")),
			StoreName:          optString(row.pick("Store Name")),
			StoreOrderDate:     optDate(row.pick("Store Order Date")),
		}

		orders = append(orders, o)
	}
	return orders
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func optDate(s string) *time.Time {
	if t, ok := ParseFlexibleDate(s); ok {
		return &t
	}
	return nil
}

func parseInt(s string, fallback int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n
	}
	return fallback
}

func parseFloat(s string) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return f
	}
	return 0
}
