package orders

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/joao-fontenele/orderdesk/internal/catalog"
	"github.com/joao-fontenele/orderdesk/internal/domain"
	"github.com/joao-fontenele/orderdesk/internal/storage"
)

// Engine is the order transaction engine. Each operation runs as one
// transaction: stock and order rows either change together or not at all.
type Engine struct {
	db                 *sql.DB
	products           *catalog.ProductRepository
	orders             *OrderRepository
	deliveryOffsetDays int
	metrics            *Metrics
	now                func() time.Time
}

func NewEngine(db *sql.DB, products *catalog.ProductRepository, orders *OrderRepository, deliveryOffsetDays int, metrics *Metrics) *Engine {
	return &Engine{
		db:                 db,
		products:           products,
		orders:             orders,
		deliveryOffsetDays: deliveryOffsetDays,
		metrics:            metrics,
		now:                time.Now,
	}
}

// PlaceOrder atomically checks stock, decrements it, and inserts a pending
// order. On any failure the transaction rolls back in full: stock is never
// decremented without a matching order row, and vice versa.
func (e *Engine) PlaceOrder(ctx context.Context, customerID, productID int64, quantity int) (*domain.Order, error) {
	// The boundary layer bounds quantity already, but this is a reusable
	// internal contract.
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var order *domain.Order

	err := storage.WithinTx(ctx, e.db, func(tx *sql.Tx) error {
		product, err := e.products.GetProductTx(ctx, tx, productID)
		if err != nil {
			return fmt.Errorf("look up product %d: %w", productID, err)
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		if product.Stock < quantity {
			return domain.ErrInsufficientStock
		}

		if err := e.products.DecrementStock(ctx, tx, productID, quantity); err != nil {
			return err
		}

		orderDate := e.now().UTC()
		order = &domain.Order{
			CustomerID:   customerID,
			ProductID:    productID,
			Status:       domain.OrderStatusPending,
			OrderDate:    orderDate,
			DeliveryDate: orderDate.AddDate(0, 0, e.deliveryOffsetDays),
		}

		if err := e.orders.Insert(ctx, tx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		return nil
	})
	if err != nil {
		e.metrics.recordPlacementFailure(ctx, err)
		return nil, err
	}

	e.metrics.recordPlaced(ctx)
	return order, nil
}

// CancelOrder cancels an order unless the lifecycle policy forbids it.
// Stock is not restored; cancellation is a status change only.
func (e *Engine) CancelOrder(ctx context.Context, orderID int64, reason string) (*domain.Order, error) {
	var order *domain.Order

	err := storage.WithinTx(ctx, e.db, func(tx *sql.Tx) error {
		var err error
		order, err = e.orders.GetByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return fmt.Errorf("look up order %d: %w", orderID, err)
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if !domain.CanCancel(order.Status) {
			return fmt.Errorf("order is %s: %w", order.Status, domain.ErrIllegalTransition)
		}

		if err := e.orders.Cancel(ctx, tx, orderID, reason); err != nil {
			return fmt.Errorf("cancel order: %w", err)
		}

		order.Status = domain.OrderStatusCancelled
		order.CancelReason = &reason
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.recordCancelled(ctx)
	return order, nil
}

// AdvanceStatus applies the forward transitions driven from outside the
// engine: pending to shipped, shipped to delivered. Cancellation goes
// through CancelOrder.
func (e *Engine) AdvanceStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error) {
	if status != domain.OrderStatusShipped && status != domain.OrderStatusDelivered {
		return nil, fmt.Errorf("cannot advance to %s: %w", status, domain.ErrIllegalTransition)
	}

	var order *domain.Order

	err := storage.WithinTx(ctx, e.db, func(tx *sql.Tx) error {
		var err error
		order, err = e.orders.GetByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return fmt.Errorf("look up order %d: %w", orderID, err)
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if !domain.CanTransition(order.Status, status) {
			return fmt.Errorf("order is %s: %w", order.Status, domain.ErrIllegalTransition)
		}

		if err := e.orders.UpdateStatus(ctx, tx, orderID, status); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		order.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrder is a plain read, used by the HTTP surface.
func (e *Engine) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return e.orders.GetByID(ctx, orderID)
}

func (e *Engine) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return e.orders.List(ctx)
}
