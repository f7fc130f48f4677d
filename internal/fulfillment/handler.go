package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/orderdesk/internal/domain"
)

// Handler drives orders through the transitions the engine leaves to the
// outside world: once placed, an order is confirmed by email and marked
// shipped.
type Handler struct {
	orderServiceURL string
	emailServiceURL string
	httpClient      *http.Client
	logger          *slog.Logger
}

func NewHandler(orderServiceURL, emailServiceURL string, client *http.Client, logger *slog.Logger) *Handler {
	return &Handler{
		orderServiceURL: orderServiceURL,
		emailServiceURL: emailServiceURL,
		httpClient:      client,
		logger:          logger,
	}
}

// HandleOrderPlaced processes one order.placed event.
func (h *Handler) HandleOrderPlaced(ctx context.Context, payload []byte) error {
	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order placed event: %w", err)
	}

	h.logger.Info("processing order placed event", "order_id", event.OrderID, "customer_id", event.CustomerID)

	if err := h.sendConfirmationEmail(ctx, event); err != nil {
		h.logger.Error("failed to send confirmation email", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send confirmation email: %w", err)
	}

	if err := h.advanceStatus(ctx, event.OrderID, domain.OrderStatusShipped); err != nil {
		h.logger.Error("failed to mark order shipped", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("mark order shipped: %w", err)
	}

	h.logger.Info("order shipped", "order_id", event.OrderID)
	return nil
}

// HandleOrderCancelled sends the cancellation notice for one
// order.cancelled event.
func (h *Handler) HandleOrderCancelled(ctx context.Context, payload []byte) error {
	var event domain.OrderCancelledEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order cancelled event: %w", err)
	}

	h.logger.Info("processing order cancelled event", "order_id", event.OrderID)

	body := map[string]string{
		"to":      fmt.Sprintf("order-%d@example.com", event.OrderID),
		"subject": fmt.Sprintf("Order #%d cancelled", event.OrderID),
		"body":    fmt.Sprintf("Your order #%d has been cancelled. Reason: %s", event.OrderID, event.Reason),
	}

	if err := h.sendEmail(ctx, body); err != nil {
		h.logger.Error("failed to send cancellation email", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send cancellation email: %w", err)
	}

	return nil
}

func (h *Handler) sendConfirmationEmail(ctx context.Context, event domain.OrderPlacedEvent) error {
	body := map[string]string{
		"to":      fmt.Sprintf("customer-%d@example.com", event.CustomerID),
		"subject": fmt.Sprintf("Order #%d confirmed", event.OrderID),
		"body": fmt.Sprintf("Your order #%d for %d unit(s) is on its way. Estimated delivery: %s.",
			event.OrderID, event.Quantity, event.DeliveryDate.Format("2006-01-02")),
	}

	return h.sendEmail(ctx, body)
}

func (h *Handler) sendEmail(ctx context.Context, body map[string]string) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.emailServiceURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}

	return nil
}

func (h *Handler) advanceStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	data, err := json.Marshal(map[string]string{"status": string(status)})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/orders/%d/status", h.orderServiceURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("order service returned status %d", resp.StatusCode)
	}

	return nil
}
