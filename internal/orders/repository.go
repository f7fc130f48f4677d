package orders

import (
	"context"
	"database/sql"

	"github.com/joao-fontenele/orderdesk/internal/domain"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, customer_id, product_id, status, order_date, delivery_date, cancel_reason`

// Insert writes a new order inside the caller's transaction and fills in
// the database-assigned id.
func (r *OrderRepository) Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	return tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, product_id, status, order_date, delivery_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, order.CustomerID, order.ProductID, order.Status, order.OrderDate, order.DeliveryDate).Scan(&order.ID)
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return scanOrder(r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id))
}

// GetByIDForUpdate locks the order row for the rest of the caller's
// transaction so a status check cannot race another writer.
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Order, error) {
	return scanOrder(tx.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`, id))
}

func scanOrder(row *sql.Row) (*domain.Order, error) {
	order := &domain.Order{}
	var reason sql.NullString

	err := row.Scan(&order.ID, &order.CustomerID, &order.ProductID, &order.Status,
		&order.OrderDate, &order.DeliveryDate, &reason)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if reason.Valid {
		order.CancelReason = &reason.String
	}

	return order, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status domain.OrderStatus) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $1
		WHERE id = $2
	`, status, id)
	return err
}

// Cancel marks the order cancelled and records why.
func (r *OrderRepository) Cancel(ctx context.Context, tx *sql.Tx, id int64, reason string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, cancel_reason = $2
		WHERE id = $3
	`, domain.OrderStatusCancelled, reason, id)
	return err
}

func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		var reason sql.NullString
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.ProductID, &order.Status,
			&order.OrderDate, &order.DeliveryDate, &reason); err != nil {
			return nil, err
		}
		if reason.Valid {
			order.CancelReason = &reason.String
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
