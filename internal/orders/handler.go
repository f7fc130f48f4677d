package orders

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/orderdesk/internal/domain"
	"github.com/joao-fontenele/orderdesk/internal/messaging"
)

type Handler struct {
	engine          *Engine
	placedEvents    *messaging.Producer
	cancelledEvents *messaging.Producer
	logger          *slog.Logger
}

// NewHandler wires the engine to HTTP. Either producer may be nil, in which
// case the corresponding events are simply not published.
func NewHandler(engine *Engine, placedEvents, cancelledEvents *messaging.Producer, logger *slog.Logger) *Handler {
	return &Handler{
		engine:          engine,
		placedEvents:    placedEvents,
		cancelledEvents: cancelledEvents,
		logger:          logger,
	}
}

type placeOrderRequest struct {
	CustomerID int64 `json:"customer_id"`
	ProductID  int64 `json:"product_id"`
	Quantity   int   `json:"quantity"`
}

func (h *Handler) HandlePlace(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.engine.PlaceOrder(r.Context(), req.CustomerID, req.ProductID, req.Quantity)
	if err != nil {
		h.writeEngineError(w, err, "failed to place order", "product_id", req.ProductID)
		return
	}

	if h.placedEvents != nil {
		event := domain.OrderPlacedEvent{
			EventID:      uuid.New().String(),
			OrderID:      order.ID,
			CustomerID:   order.CustomerID,
			ProductID:    order.ProductID,
			Quantity:     req.Quantity,
			DeliveryDate: order.DeliveryDate,
			Timestamp:    time.Now().UTC(),
		}
		if err := h.placedEvents.Publish(r.Context(), strconv.FormatInt(order.ID, 10), event); err != nil {
			h.logger.Error("failed to publish order placed event", "error", err, "order_id", order.ID)
		}
	}

	h.logger.Info("order placed", "order_id", order.ID, "customer_id", order.CustomerID,
		"product_id", order.ProductID, "quantity", req.Quantity)
	h.writeJSON(w, http.StatusCreated, order)
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

type cancelOrderResponse struct {
	OrderID int64              `json:"order_id"`
	Status  domain.OrderStatus `json:"status"`
	Reason  string             `json:"reason"`
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req cancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.engine.CancelOrder(r.Context(), id, req.Reason)
	if err != nil {
		h.writeEngineError(w, err, "failed to cancel order", "order_id", id)
		return
	}

	if h.cancelledEvents != nil {
		event := domain.OrderCancelledEvent{
			EventID:   uuid.New().String(),
			OrderID:   order.ID,
			Reason:    req.Reason,
			Timestamp: time.Now().UTC(),
		}
		if err := h.cancelledEvents.Publish(r.Context(), strconv.FormatInt(order.ID, 10), event); err != nil {
			h.logger.Error("failed to publish order cancelled event", "error", err, "order_id", order.ID)
		}
	}

	h.logger.Info("order cancelled", "order_id", order.ID, "reason", req.Reason)
	h.writeJSON(w, http.StatusOK, cancelOrderResponse{
		OrderID: order.ID,
		Status:  order.Status,
		Reason:  req.Reason,
	})
}

type advanceStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *Handler) HandleAdvanceStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req advanceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.engine.AdvanceStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeEngineError(w, err, "failed to advance order status", "order_id", id)
		return
	}

	h.logger.Info("order status advanced", "order_id", order.ID, "status", order.Status)
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.engine.GetOrder(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if order == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.engine.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if orders == nil {
		orders = []domain.Order{}
	}

	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}

// writeEngineError maps the engine's typed errors onto the HTTP surface so
// callers can tell a shortfall from a policy restriction from a missing row.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error, msg string, args ...any) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		h.writeError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, domain.ErrOrderNotFound):
		h.writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, domain.ErrInsufficientStock):
		h.writeError(w, http.StatusConflict, "insufficient stock")
	case errors.Is(err, domain.ErrIllegalTransition):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		h.writeError(w, http.StatusBadRequest, "quantity must be positive")
	default:
		h.logger.Error(msg, append([]any{"error", err}, args...)...)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
