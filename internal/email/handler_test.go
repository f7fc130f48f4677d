package email

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandler_HandleSend(t *testing.T) {
	handler := NewHandler(discardLogger())

	t.Run("sends a valid email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/send",
			strings.NewReader(`{"to":"customer-500@example.com","subject":"Order #1 confirmed","body":"on its way"}`))
		rec := httptest.NewRecorder()

		handler.HandleSend(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp sendResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Status != "sent" {
			t.Errorf("expected status sent, got %q", resp.Status)
		}
		if resp.MessageID == "" {
			t.Error("expected a message id")
		}
	})

	t.Run("rejects a missing recipient", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/send",
			strings.NewReader(`{"subject":"Order #1 confirmed","body":"on its way"}`))
		rec := httptest.NewRecorder()

		handler.HandleSend(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("rejects a missing subject", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/send",
			strings.NewReader(`{"to":"customer-500@example.com"}`))
		rec := httptest.NewRecorder()

		handler.HandleSend(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(`{not json`))
		rec := httptest.NewRecorder()

		handler.HandleSend(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}
