package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/parkview/rental-system/internal/core/ports"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *StripeProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewStripeProvider(StripeConfig{SecretKey: "sk_test_123", APIURL: srv.URL}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStripeProvider: %v", err)
	}
	return p
}

func TestStripeProvider_CreateIntent(t *testing.T) {
	var form url.Values
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payment_intents" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_123" {
			t.Errorf("unexpected auth header %q", got)
		}
		_ = r.ParseForm()
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "pi_123",
			"object":        "payment_intent",
			"client_secret": "pi_123_secret_abc",
			"status":        "requires_payment_method",
			"amount":        125055,
			"currency":      "usd",
			"metadata":      map[string]string{"lease_id": "10", "tenant_id": "1"},
		})
	})

	intent, err := p.CreateIntent(context.Background(), ports.PaymentIntentRequest{
		AmountMinor: 125055,
		Currency:    "usd",
		Metadata:    map[string]string{"lease_id": "10", "tenant_id": "1"},
	})
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if intent.ID != "pi_123" || intent.ClientSecret != "pi_123_secret_abc" || intent.AmountMinor != 125055 {
		t.Fatalf("unexpected intent: %+v", intent)
	}
	if form.Get("amount") != "125055" || form.Get("currency") != "usd" {
		t.Fatalf("unexpected form: %v", form)
	}
	if form.Get("metadata[lease_id]") != "10" {
		t.Fatalf("expected lease metadata, got %v", form)
	}
}

func TestStripeProvider_RetrieveIntent(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/payment_intents/pi_123" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       "pi_123",
			"object":   "payment_intent",
			"status":   "succeeded",
			"amount":   90000,
			"currency": "usd",
			"metadata": map[string]string{"lease_id": "11"},
		})
	})

	intent, err := p.RetrieveIntent(context.Background(), "pi_123")
	if err != nil {
		t.Fatalf("RetrieveIntent: %v", err)
	}
	if intent.Status != "succeeded" || intent.AmountMinor != 90000 || intent.Metadata["lease_id"] != "11" {
		t.Fatalf("unexpected intent: %+v", intent)
	}
}

func TestStripeProvider_ErrorResponse(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such payment_intent: 'pi_missing'"}}`))
	})

	_, err := p.RetrieveIntent(context.Background(), "pi_missing")
	if err == nil || !strings.Contains(err.Error(), "pi_missing") {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestStripeProvider_ContextDeadline(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := p.RetrieveIntent(ctx, "pi_slow"); err == nil {
		t.Fatalf("expected deadline error")
	}
	if time.Since(start) > time.Second {
		t.Fatalf("call was not bounded by the context deadline")
	}
}

func TestNewStripeProvider_RequiresKey(t *testing.T) {
	if _, err := NewStripeProvider(StripeConfig{}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
