package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCreateInvoiceSuccess(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody createInvoiceRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth, _, _ = r.BasicAuth()
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"inv_123","invoice_url":"https://pay.example/inv_123","status":"PENDING"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "https://pay.example/web", "sk_test", 5*time.Second)
	inv, err := client.CreateInvoice(context.Background(), CreateInvoiceInput{
		ExternalID:    "order-abc",
		Amount:        500,
		Currency:      "PHP",
		PayerEmail:    "jane@example.com",
		Description:   "Order abc",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
	})
	if err != nil {
		t.Fatalf("CreateInvoice returned error: %v", err)
	}
	if inv.ID != "inv_123" || inv.InvoiceURL != "https://pay.example/inv_123" {
		t.Fatalf("unexpected invoice: %+v", inv)
	}
	if gotPath != "/v2/invoices" {
		t.Fatalf("expected POST /v2/invoices, got %s", gotPath)
	}
	if gotAuth != "sk_test" {
		t.Fatalf("expected api key as basic auth user, got %q", gotAuth)
	}
	if gotBody.ExternalID != "order-abc" || gotBody.Customer.GivenNames != "Jane Doe" {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
}

func TestCreateInvoiceProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_code":"INVALID_AMOUNT","message":"amount too small"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "https://pay.example/web", "sk_test", 5*time.Second)
	_, err := client.CreateInvoice(context.Background(), CreateInvoiceInput{ExternalID: "order-x", Amount: 1})
	if err == nil {
		t.Fatal("expected error on provider rejection")
	}

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ProviderError, got %T", err)
	}
	if perr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", perr.StatusCode)
	}
}

func TestCreateInvoiceMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"PENDING"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "https://pay.example/web", "sk_test", 5*time.Second)
	_, err := client.CreateInvoice(context.Background(), CreateInvoiceInput{ExternalID: "order-x", Amount: 10})

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ProviderError for missing id/url, got %v", err)
	}
}

func TestCreateInvoiceTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, "https://pay.example/web", "sk_test", 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.CreateInvoice(ctx, CreateInvoiceInput{ExternalID: "order-x", Amount: 10})
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ProviderError on timeout, got %v", err)
	}
}

func TestCheckoutURL(t *testing.T) {
	client := NewClient("https://api.pay.example", "https://pay.example/web/", "sk_test", time.Second)
	if got := client.CheckoutURL("inv_123"); got != "https://pay.example/web/inv_123" {
		t.Fatalf("unexpected checkout url: %s", got)
	}
}
