package importer

import (
	"strconv"
)

// PurchaseRow is one parsed line of a purchase upload
type PurchaseRow struct {
	SKU      string
	Quantity int
}

// PurchaseRows extracts SKU/quantity pairs from spreadsheet rows. The SKU
// column may be named "Product SKU", "SKU" or "sku"; quantity likewise, with
// a default of 1. Rows without a SKU are dropped; unrecognized columns are
// ignored.
func PurchaseRows(rows []Row) []PurchaseRow {
	purchases := make([]PurchaseRow, 0, len(rows))
	for _, row := range rows {
		sku := row.pick("Product SKU", "SKU", "sku")
		if sku == "" {
			continue
		}

		quantity := 1
		if q := row.pick("Product Quantity", "Quantity", "quantity"); q != "" {
			if n, err := strconv.Atoi(q); err == nil && n > 0 {
				quantity = n
			}
		}

		purchases = append(purchases, PurchaseRow{SKU: sku, Quantity: quantity})
	}
	return purchases
}
