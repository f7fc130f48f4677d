package fulfillment

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joao-fontenele/orderdesk/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleOrderPlaced(t *testing.T) {
	var emailed, shipped bool

	email := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/send" {
			t.Errorf("expected /send, got %s", r.URL.Path)
		}
		emailed = true
		w.WriteHeader(http.StatusOK)
	}))
	defer email.Close()

	orderSvc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/42/status" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode status body: %v", err)
		}
		if body["status"] != string(domain.OrderStatusShipped) {
			t.Errorf("expected status shipped, got %s", body["status"])
		}
		shipped = true
		w.WriteHeader(http.StatusOK)
	}))
	defer orderSvc.Close()

	handler := NewHandler(orderSvc.URL, email.URL, http.DefaultClient, discardLogger())

	event := domain.OrderPlacedEvent{
		EventID:      "evt-1",
		OrderID:      42,
		CustomerID:   500,
		ProductID:    1,
		Quantity:     2,
		DeliveryDate: time.Now().AddDate(0, 0, 3),
		Timestamp:    time.Now(),
	}
	payload, _ := json.Marshal(event)

	if err := handler.HandleOrderPlaced(context.Background(), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !emailed {
		t.Error("expected confirmation email to be sent")
	}
	if !shipped {
		t.Error("expected order to be marked shipped")
	}
}

func TestHandleOrderPlacedEmailFailure(t *testing.T) {
	email := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer email.Close()

	orderSvc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("order status must not be advanced when the email fails")
	}))
	defer orderSvc.Close()

	handler := NewHandler(orderSvc.URL, email.URL, http.DefaultClient, discardLogger())

	payload, _ := json.Marshal(domain.OrderPlacedEvent{OrderID: 42})
	if err := handler.HandleOrderPlaced(context.Background(), payload); err == nil {
		t.Fatal("expected error when email service fails")
	}
}

func TestHandleOrderCancelled(t *testing.T) {
	var emailed bool

	email := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode email body: %v", err)
		}
		if body["subject"] != "Order #7 cancelled" {
			t.Errorf("unexpected subject: %s", body["subject"])
		}
		emailed = true
		w.WriteHeader(http.StatusOK)
	}))
	defer email.Close()

	handler := NewHandler("http://unused", email.URL, http.DefaultClient, discardLogger())

	payload, _ := json.Marshal(domain.OrderCancelledEvent{
		EventID: "evt-2",
		OrderID: 7,
		Reason:  "ordered the wrong part",
	})

	if err := handler.HandleOrderCancelled(context.Background(), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !emailed {
		t.Error("expected cancellation email to be sent")
	}
}

func TestHandleMalformedPayload(t *testing.T) {
	handler := NewHandler("http://unused", "http://unused", http.DefaultClient, discardLogger())

	if err := handler.HandleOrderPlaced(context.Background(), []byte(`{`)); err == nil {
		t.Error("expected error for malformed placed payload")
	}
	if err := handler.HandleOrderCancelled(context.Background(), []byte(`{`)); err == nil {
		t.Error("expected error for malformed cancelled payload")
	}
}
