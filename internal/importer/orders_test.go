package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"2025-03-15", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"2025-03-15T10:30:00Z", time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"15-03-2025", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"15-03-2025 10:30:45", time.Date(2025, 3, 15, 10, 30, 45, 0, time.UTC), true},
		{"15/03/2025", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"N/A", time.Time{}, false},
		{"", time.Time{}, false},
		{"  ", time.Time{}, false},
		{"not a date", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseFlexibleDate(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		if tt.ok {
			assert.True(t, tt.want.Equal(got), "input %q: got %v", tt.input, got)
		}
	}
}

func TestOrderRows(t *testing.T) {
	rows := []Row{
		{
			"Order Number":     "ORD-1001",
			"Order Date":       "15-03-2025 10:30:45",
			"Product Name":     "Widget",
			"Product SKU":      "W-1",
			"Product Quantity": "2",
			"Product Price":    "19.99",
			"Order Total":      "39.98",
			"Order Status":     "Delivered",
			"Courier Company":  "FastShip",
			"AWB No":           "AWB123",
		},
		{
			// no Order Number: skipped
			"Product SKU": "W-2",
		},
		{
			"Order Number": "ORD-1002",
			"Order Date":   "N/A",
		},
	}

	got := OrderRows(rows)

	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "ORD-1001", first.OrderNumber)
	assert.Equal(t, time.Date(2025, 3, 15, 10, 30, 45, 0, time.UTC), first.OrderDate)
	assert.Equal(t, "Widget", first.ProductName)
	assert.Equal(t, 2, first.ProductQuantity)
	assert.Equal(t, 19.99, first.ProductPrice)
	assert.Equal(t, 39.98, first.OrderTotal)
	assert.Equal(t, "Delivered", first.OrderStatus)
	require.NotNil(t, first.CourierCompany)
	assert.Equal(t, "FastShip", *first.CourierCompany)
	// Defaults for columns the export omits
	assert.Equal(t, "Shopify", first.Channel)
	assert.Equal(t, "COD", first.PaymentMethod)
	assert.Nil(t, first.CustomerName)

	second := got[1]
	assert.Equal(t, "ORD-1002", second.OrderNumber)
	assert.Equal(t, "Pending", second.OrderStatus)
	assert.Equal(t, 1, second.ProductQuantity)
	// Unparseable date falls back to now
	assert.WithinDuration(t, time.Now(), second.OrderDate, time.Minute)
}
