package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Quantity and reason limits enforced at the boundary. The core re-checks
// quantity > 0 but trusts the upper bound and the reason length to this
// layer.
const (
	maxOrderQuantity   = 50
	minCancelReasonLen = 10
)

type Handler struct {
	orders *ServiceProxy
	logger *slog.Logger
}

func NewHandler(orders *ServiceProxy, logger *slog.Logger) *Handler {
	return &Handler{
		orders: orders,
		logger: logger,
	}
}

type placeOrderPayload struct {
	CustomerID int64 `json:"customer_id"`
	ProductID  int64 `json:"product_id"`
	Quantity   int   `json:"quantity"`
}

// HandlePlaceOrder validates the primitive field constraints before the
// request reaches the core.
func (h *Handler) HandlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var payload placeOrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.CustomerID <= 0 {
		h.writeError(w, http.StatusBadRequest, "customer_id must be positive")
		return
	}
	if payload.ProductID <= 0 {
		h.writeError(w, http.StatusBadRequest, "product_id must be positive")
		return
	}
	if payload.Quantity <= 0 || payload.Quantity >= maxOrderQuantity {
		h.writeError(w, http.StatusBadRequest, "quantity must be between 1 and 49")
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.proxyRequest(w, r, r.URL.Path, body)
}

type cancelOrderPayload struct {
	Reason string `json:"reason"`
}

// HandleCancelOrder enforces the minimum reason length before forwarding.
func (h *Handler) HandleCancelOrder(w http.ResponseWriter, r *http.Request) {
	var payload cancelOrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(strings.TrimSpace(payload.Reason)) < minCancelReasonLen {
		h.writeError(w, http.StatusBadRequest, "reason must be at least 10 characters")
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.proxyRequest(w, r, r.URL.Path, body)
}

// HandlePassthrough forwards reads and status updates unchanged.
func (h *Handler) HandlePassthrough(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if r.URL.RawQuery != "" {
		path += "?" + r.URL.RawQuery
	}
	h.proxyRequest(w, r, path, nil)
}

func (h *Handler) proxyRequest(w http.ResponseWriter, r *http.Request, path string, body []byte) {
	resp, err := h.orders.Forward(r.Context(), r, path, body)
	if err != nil {
		h.logger.Error("failed to forward request", "error", err, "path", path)
		h.writeError(w, http.StatusBadGateway, "service unavailable")
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	w.WriteHeader(resp.StatusCode)

	h.logger.Info("request proxied", "method", r.Method, "path", path, "status", resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Error("failed to copy response body", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}
