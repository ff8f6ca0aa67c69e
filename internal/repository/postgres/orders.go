package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/domain"
)

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

const orderColumns = `
	id, order_number, sub_order_number, order_date, channel, product_name,
	product_sku, product_quantity, product_price, product_discount,
	payment_method, customer_name, customer_email, customer_mobile,
	customer_city, customer_state, customer_pincode, order_total,
	order_status, courier_company, awb_no, awb_assigned_date, warehouse_id,
	warehouse_name, order_pickup_date, order_delivered_date, zone,
	billed_weight, fwd_charges, rto_charges, cod_charges, gst_charges,
	total_freight_charge, store_name, store_order_date, user_id,
	created_at, updated_at`

func (r *orderRepository) CreateBatch(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27,
			$28, $29, $30, $31, $32, $33, $34, $35, $36, $37, $38)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, o := range orders {
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}
		if o.CreatedAt.IsZero() {
			o.CreatedAt = now
		}
		if o.UpdatedAt.IsZero() {
			o.UpdatedAt = now
		}

		if _, err := stmt.ExecContext(ctx,
			o.ID,
			o.OrderNumber,
			o.SubOrderNumber,
			o.OrderDate,
			o.Channel,
			o.ProductName,
			o.ProductSKU,
			o.ProductQuantity,
			o.ProductPrice,
			o.ProductDiscount,
			o.PaymentMethod,
			o.CustomerName,
			o.CustomerEmail,
			o.CustomerMobile,
			o.CustomerCity,
			o.CustomerState,
			o.CustomerPincode,
			o.OrderTotal,
			o.OrderStatus,
			o.CourierCompany,
			o.AWBNo,
			o.AWBAssignedDate,
			o.WarehouseID,
			o.WarehouseName,
			o.OrderPickupDate,
			o.OrderDeliveredDate,
			o.Zone,
			o.BilledWeight,
			o.FwdCharges,
			o.RtoCharges,
			o.CodCharges,
			o.GstCharges,
			o.TotalFreightCharge,
			o.StoreName,
			o.StoreOrderDate,
			o.UserID,
			o.CreatedAt,
			o.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to insert order", zap.Error(err), zap.String("order_number", o.OrderNumber))
			return err
		}
	}

	return tx.Commit()
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1 AND ($2 = '' OR order_status = $2)
		ORDER BY order_date DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.QueryContext(ctx, query, userID, status, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func (r *orderRepository) SummaryByUser(ctx context.Context, userID uuid.UUID) (*domain.OrderSummary, error) {
	summary := &domain.OrderSummary{StatusCounts: make(map[string]int)}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(order_total), 0), COALESCE(SUM(product_quantity), 0)
		FROM orders
		WHERE user_id = $1
	`, userID).Scan(&summary.TotalOrders, &summary.TotalRevenue, &summary.TotalItems)
	if err != nil {
		r.logger.Error("Failed to aggregate order totals", zap.Error(err))
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_status, COUNT(*)
		FROM orders
		WHERE user_id = $1
		GROUP BY order_status
	`, userID)
	if err != nil {
		r.logger.Error("Failed to aggregate order statuses", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		summary.StatusCounts[status] = count
	}

	return summary, rows.Err()
}

func scanOrder(rows *sql.Rows) (*domain.Order, error) {
	var o domain.Order
	var subOrderNumber, customerName, customerEmail, customerMobile sql.NullString
	var customerCity, customerState, customerPincode sql.NullString
	var courierCompany, awbNo, warehouseID, warehouseName, zone, storeName sql.NullString
	var awbAssignedDate, orderPickupDate, orderDeliveredDate, storeOrderDate sql.NullTime

	err := rows.Scan(
		&o.ID,
		&o.OrderNumber,
		&subOrderNumber,
		&o.OrderDate,
		&o.Channel,
		&o.ProductName,
		&o.ProductSKU,
		&o.ProductQuantity,
		&o.ProductPrice,
		&o.ProductDiscount,
		&o.PaymentMethod,
		&customerName,
		&customerEmail,
		&customerMobile,
		&customerCity,
		&customerState,
		&customerPincode,
		&o.OrderTotal,
		&o.OrderStatus,
		&courierCompany,
		&awbNo,
		&awbAssignedDate,
		&warehouseID,
		&warehouseName,
		&orderPickupDate,
		&orderDeliveredDate,
		&zone,
		&o.BilledWeight,
		&o.FwdCharges,
		&o.RtoCharges,
		&o.CodCharges,
		&o.GstCharges,
		&o.TotalFreightCharge,
		&storeName,
		&storeOrderDate,
		&o.UserID,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if subOrderNumber.Valid {
		o.SubOrderNumber = &subOrderNumber.String
	}
	if customerName.Valid {
		o.CustomerName = &customerName.String
	}
	if customerEmail.Valid {
		o.CustomerEmail = &customerEmail.String
	}
	if customerMobile.Valid {
		o.CustomerMobile = &customerMobile.String
	}
	if customerCity.Valid {
		o.CustomerCity = &customerCity.String
	}
	if customerState.Valid {
		o.CustomerState = &customerState.String
	}
	if customerPincode.Valid {
		o.CustomerPincode = &customerPincode.String
	}
	if courierCompany.Valid {
		o.CourierCompany = &courierCompany.String
	}
	if awbNo.Valid {
		o.AWBNo = &awbNo.String
	}
	if awbAssignedDate.Valid {
		o.AWBAssignedDate = &awbAssignedDate.Time
	}
	if warehouseID.Valid {
		o.WarehouseID = &warehouseID.String
	}
	if warehouseName.Valid {
		o.WarehouseName = &warehouseName.String
	}
	if orderPickupDate.Valid {
		o.OrderPickupDate = &orderPickupDate.Time
	}
	if orderDeliveredDate.Valid {
		o.OrderDeliveredDate = &orderDeliveredDate.Time
	}
	if zone.Valid {
		o.Zone = &zone.String
	}
	if storeName.Valid {
		o.StoreName = &storeName.String
	}
	if storeOrderDate.Valid {
		o.StoreOrderDate = &storeOrderDate.Time
	}

	return &o, nil
}
