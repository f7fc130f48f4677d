package orders

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/joao-fontenele/orderdesk/internal/domain"
)

// Metrics counts engine outcomes. A nil *Metrics is valid and records
// nothing, which keeps tests free of meter setup.
type Metrics struct {
	placed        metric.Int64Counter
	cancelled     metric.Int64Counter
	stockRejected metric.Int64Counter
}

func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("orderdesk/orders")

	placed, err := meter.Int64Counter("orders.placed",
		metric.WithDescription("Orders successfully placed"))
	if err != nil {
		return nil, err
	}

	cancelled, err := meter.Int64Counter("orders.cancelled",
		metric.WithDescription("Orders cancelled"))
	if err != nil {
		return nil, err
	}

	stockRejected, err := meter.Int64Counter("orders.stock_rejected",
		metric.WithDescription("Order placements rejected for insufficient stock"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		placed:        placed,
		cancelled:     cancelled,
		stockRejected: stockRejected,
	}, nil
}

func (m *Metrics) recordPlaced(ctx context.Context) {
	if m == nil {
		return
	}
	m.placed.Add(ctx, 1)
}

func (m *Metrics) recordCancelled(ctx context.Context) {
	if m == nil {
		return
	}
	m.cancelled.Add(ctx, 1)
}

func (m *Metrics) recordPlacementFailure(ctx context.Context, err error) {
	if m == nil {
		return
	}
	if errors.Is(err, domain.ErrInsufficientStock) {
		m.stockRejected.Add(ctx, 1)
	}
}
