package invoice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ProviderError wraps any failure talking to the payment provider. Handlers
// log the detail and return a generic message; provider errors are never
// leaked verbatim to clients.
type ProviderError struct {
	Op         string
	StatusCode int
	Detail     string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s failed: %v", e.Op, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s failed: status %d: %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("provider %s failed: %s", e.Op, e.Detail)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// CreateInvoiceInput carries everything the provider needs to host a checkout
// page for one order.
type CreateInvoiceInput struct {
	ExternalID         string
	Amount             float64
	Currency           string
	PayerEmail         string
	Description        string
	CustomerName       string
	CustomerEmail      string
	SuccessRedirectURL string
}

// Invoice is the provider's answer: its own id plus the hosted checkout URL.
type Invoice struct {
	ID         string
	InvoiceURL string
}

// Client is a thin adapter over the provider's invoice REST API. Calling
// CreateInvoice twice creates two distinct provider-side invoices; the
// payments service is responsible for not calling it redundantly.
type Client struct {
	baseURL         string
	checkoutBaseURL string
	apiKey          string
	httpClient      *http.Client
}

func NewClient(baseURL, checkoutBaseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		checkoutBaseURL: strings.TrimRight(checkoutBaseURL, "/"),
		apiKey:          apiKey,
		httpClient:      &http.Client{Timeout: timeout},
	}
}

type createInvoiceRequest struct {
	ExternalID         string                `json:"external_id"`
	Amount             float64               `json:"amount"`
	Currency           string                `json:"currency,omitempty"`
	PayerEmail         string                `json:"payer_email"`
	Description        string                `json:"description"`
	Customer           createInvoiceCustomer `json:"customer"`
	SuccessRedirectURL string                `json:"success_redirect_url,omitempty"`
}

type createInvoiceCustomer struct {
	GivenNames string `json:"given_names"`
	Email      string `json:"email"`
}

type createInvoiceResponse struct {
	ID         string `json:"id"`
	InvoiceURL string `json:"invoice_url"`
	Status     string `json:"status"`
}

type providerErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// CreateInvoice asks the provider to host a new invoice. It fails with a
// *ProviderError on network failure, a non-2xx status, or a response missing
// the invoice id or URL.
func (c *Client) CreateInvoice(ctx context.Context, in CreateInvoiceInput) (Invoice, error) {
	payload, err := json.Marshal(createInvoiceRequest{
		ExternalID:  in.ExternalID,
		Amount:      in.Amount,
		Currency:    in.Currency,
		PayerEmail:  in.PayerEmail,
		Description: in.Description,
		Customer: createInvoiceCustomer{
			GivenNames: in.CustomerName,
			Email:      in.CustomerEmail,
		},
		SuccessRedirectURL: in.SuccessRedirectURL,
	})
	if err != nil {
		return Invoice{}, &ProviderError{Op: "create invoice", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/invoices", bytes.NewReader(payload))
	if err != nil {
		return Invoice{}, &ProviderError{Op: "create invoice", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.apiKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Invoice{}, &ProviderError{Op: "create invoice", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Invoice{}, &ProviderError{Op: "create invoice", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := strings.TrimSpace(string(body))
		var perr providerErrorResponse
		if json.Unmarshal(body, &perr) == nil && perr.Message != "" {
			detail = perr.ErrorCode + ": " + perr.Message
		}
		return Invoice{}, &ProviderError{Op: "create invoice", StatusCode: resp.StatusCode, Detail: detail}
	}

	var decoded createInvoiceResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Invoice{}, &ProviderError{Op: "create invoice", Err: err}
	}
	if decoded.ID == "" || decoded.InvoiceURL == "" {
		return Invoice{}, &ProviderError{Op: "create invoice", Detail: "response missing invoice id or url"}
	}

	return Invoice{ID: decoded.ID, InvoiceURL: decoded.InvoiceURL}, nil
}

// CheckoutURL rebuilds the hosted checkout URL for an invoice the provider
// already issued. The provider serves every invoice under a fixed base, so
// the URL is derivable from the id alone and does not need to be stored.
func (c *Client) CheckoutURL(providerPaymentID string) string {
	return c.checkoutBaseURL + "/" + providerPaymentID
}
