package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testServer(t *testing.T, orderStatus string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "id" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body["intent"] != "CAPTURE" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "ORDER-1"})
	})
	mux.HandleFunc("/v2/checkout/orders/ORDER-1/capture", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": orderStatus})
	})
	return httptest.NewServer(mux)
}

func newTestClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		clientID:   "id",
		secret:     "secret",
		currency:   "USD",
	}
}

func TestCreateAndCaptureOrder(t *testing.T) {
	srv := testServer(t, "COMPLETED")
	defer srv.Close()

	client := newTestClient(srv.URL)
	ctx := context.Background()

	id, err := client.CreateOrder(ctx, "120.00", []OrderItem{{Name: "Print", Quantity: 2, UnitAmount: "60.00"}})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if id != "ORDER-1" {
		t.Fatalf("unexpected order id %q", id)
	}

	status, err := client.CaptureOrder(ctx, id)
	if err != nil {
		t.Fatalf("CaptureOrder: %v", err)
	}
	if status != "COMPLETED" {
		t.Fatalf("unexpected status %q", status)
	}
}

func TestCreateOrderRequiresAmount(t *testing.T) {
	client := newTestClient("http://unused")
	if _, err := client.CreateOrder(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected missing amount to fail")
	}
}

func TestTokenIsReused(t *testing.T) {
	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "ORDER-2"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(srv.URL)
	for i := 0; i < 3; i++ {
		if _, err := client.CreateOrder(context.Background(), "10.00", nil); err != nil {
			t.Fatalf("CreateOrder %d: %v", i, err)
		}
	}
	if tokenCalls != 1 {
		t.Fatalf("expected 1 token fetch, got %d", tokenCalls)
	}
}
