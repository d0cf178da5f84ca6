package payments

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/invoice"
	"storefront/internal/models"
)

// InvoiceClient is the slice of the invoice adapter the service uses.
type InvoiceClient interface {
	CreateInvoice(ctx context.Context, in invoice.CreateInvoiceInput) (invoice.Invoice, error)
	CheckoutURL(providerPaymentID string) string
}

// Config carries the service's store-level settings.
type Config struct {
	Currency            string
	SuccessRedirectURL  string
	AllowStatusOverride bool
}

// Service owns the payment lifecycle: idempotent invoice creation, order
// status transitions, and webhook reconciliation.
type Service struct {
	repo     Repository
	invoices InvoiceClient
	cfg      Config
}

func NewService(repo Repository, invoices InvoiceClient, cfg Config) *Service {
	return &Service{repo: repo, invoices: invoices, cfg: cfg}
}

type EnsureInvoiceInput struct {
	OrderID       primitive.ObjectID
	UserID        primitive.ObjectID
	Amount        float64
	CustomerName  string
	CustomerEmail string
	Method        models.PaymentMethod
}

type EnsureInvoiceResult struct {
	CheckoutURL string
	PaymentID   primitive.ObjectID
	Reused      bool
}

func (in EnsureInvoiceInput) validate() error {
	if in.OrderID.IsZero() {
		return requiredField("orderId")
	}
	if in.UserID.IsZero() {
		return requiredField("userId")
	}
	if in.Amount <= 0 {
		return ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return requiredField("customerName")
	}
	if strings.TrimSpace(in.CustomerEmail) == "" {
		return requiredField("customerEmail")
	}
	if in.Method != "" && !models.ValidPaymentMethod(in.Method) {
		return ValidationError{Field: "method", Reason: "is not a supported payment channel"}
	}
	return nil
}

// EnsureInvoice returns the checkout URL for the order's pending invoice,
// creating one if none exists. Repeated calls for the same unpaid order are
// answered from the ledger without touching the provider; the ledger entry is
// only written after the provider call succeeds, so a provider failure leaves
// nothing behind.
func (s *Service) EnsureInvoice(ctx context.Context, in EnsureInvoiceInput) (EnsureInvoiceResult, error) {
	if err := in.validate(); err != nil {
		return EnsureInvoiceResult{}, err
	}

	order, err := s.repo.FindOrder(ctx, in.OrderID)
	if err != nil {
		return EnsureInvoiceResult{}, err
	}
	if order.Status != models.OrderPending {
		return EnsureInvoiceResult{}, ErrOrderNotPayable
	}

	existing, err := s.repo.FindPendingPayment(ctx, in.OrderID)
	if err == nil {
		return EnsureInvoiceResult{
			CheckoutURL: s.invoices.CheckoutURL(existing.ProviderPaymentID),
			PaymentID:   existing.ID,
			Reused:      true,
		}, nil
	}
	if !errors.Is(err, ErrPaymentNotFound) {
		return EnsureInvoiceResult{}, err
	}

	method := in.Method
	if method == "" {
		method = models.MethodGCash
	}

	externalID := "order-" + in.OrderID.Hex()
	inv, err := s.invoices.CreateInvoice(ctx, invoice.CreateInvoiceInput{
		ExternalID:         externalID,
		Amount:             in.Amount,
		Currency:           s.cfg.Currency,
		PayerEmail:         in.CustomerEmail,
		Description:        fmt.Sprintf("Payment for order %s", in.OrderID.Hex()),
		CustomerName:       in.CustomerName,
		CustomerEmail:      in.CustomerEmail,
		SuccessRedirectURL: s.cfg.SuccessRedirectURL,
	})
	if err != nil {
		return EnsureInvoiceResult{}, err
	}

	entry := &models.PaymentLedgerEntry{
		OrderID:           in.OrderID,
		UserID:            in.UserID,
		Method:            method,
		Status:            models.PaymentPending,
		Amount:            in.Amount,
		Currency:          s.cfg.Currency,
		ProviderPaymentID: inv.ID,
		ProviderResponse:  providerResponseFor(method, in.CustomerEmail, inv.InvoiceURL),
		CreatedAt:         time.Now(),
	}

	id, err := s.repo.InsertPayment(ctx, entry)
	if errors.Is(err, errDuplicatePending) {
		// A concurrent request won the race; hand back its invoice. The extra
		// provider invoice created above is never referenced and expires on
		// the provider side.
		log.Printf("[PAYMENT] duplicate pending insert for order %s, reusing winner (orphan provider invoice %s)", in.OrderID.Hex(), inv.ID)
		winner, werr := s.repo.FindPendingPayment(ctx, in.OrderID)
		if werr != nil {
			return EnsureInvoiceResult{}, werr
		}
		return EnsureInvoiceResult{
			CheckoutURL: s.invoices.CheckoutURL(winner.ProviderPaymentID),
			PaymentID:   winner.ID,
			Reused:      true,
		}, nil
	}
	if err != nil {
		return EnsureInvoiceResult{}, err
	}

	log.Printf("[PAYMENT] invoice %s created for order %s", inv.ID, in.OrderID.Hex())
	return EnsureInvoiceResult{
		CheckoutURL: inv.InvoiceURL,
		PaymentID:   id,
		Reused:      false,
	}, nil
}

func providerResponseFor(method models.PaymentMethod, payerEmail, checkoutURL string) *models.ProviderResponse {
	switch method {
	case models.MethodBank:
		return models.NewBankResponse("", "", payerEmail)
	case models.MethodCard:
		return models.NewCardResponse(checkoutURL)
	case models.MethodCOD:
		return models.NewCODResponse("collect on delivery")
	default:
		return models.NewEWalletResponse(payerEmail, checkoutURL)
	}
}

// ApplyStatus moves an order along the status state machine, stamping
// paidAt/cancelledAt the first time the order reaches that state. Out-of-table
// transitions fail with ErrInvalidTransition unless the override flag is
// configured.
func (s *Service) ApplyStatus(ctx context.Context, orderID primitive.ObjectID, newStatus models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(newStatus) {
		return nil, ValidationError{Field: "status", Reason: "is not a known order status"}
	}

	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(order.Status, newStatus, s.cfg.AllowStatusOverride) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
	}

	now := time.Now()
	var paidAt, cancelledAt *time.Time
	if newStatus == models.OrderPaid && order.PaidAt == nil {
		paidAt = &now
	}
	if newStatus == models.OrderCancelled && order.CancelledAt == nil {
		cancelledAt = &now
	}

	if err := s.repo.UpdateOrderStatus(ctx, orderID, newStatus, paidAt, cancelledAt); err != nil {
		return nil, err
	}

	order.Status = newStatus
	if paidAt != nil {
		order.PaidAt = paidAt
	}
	if cancelledAt != nil {
		order.CancelledAt = cancelledAt
	}

	log.Printf("[ORDER] status of %s set to %s", orderID.Hex(), newStatus)
	return order, nil
}

// Reconcile reflects the provider's outcome for an invoice back onto the
// ledger entry and, on success, the order. Duplicate deliveries are no-ops
// because the entry is already terminal.
func (s *Service) Reconcile(ctx context.Context, providerPaymentID string, succeeded bool, failureMessage string) (*models.PaymentLedgerEntry, error) {
	if strings.TrimSpace(providerPaymentID) == "" {
		return nil, requiredField("providerPaymentId")
	}

	entry, err := s.repo.FindPaymentByProviderRef(ctx, providerPaymentID)
	if err != nil {
		return nil, err
	}
	if entry.Status != models.PaymentPending {
		log.Printf("[PAYMENT] reconcile for %s ignored, entry already %s", providerPaymentID, entry.Status)
		return entry, nil
	}

	if !succeeded {
		if err := s.repo.MarkPaymentFailed(ctx, entry.ID, failureMessage); err != nil {
			return nil, err
		}
		entry.Status = models.PaymentFailed
		entry.ErrorMessage = failureMessage
		// The order stays pending so a fresh invoice can be issued.
		return entry, nil
	}

	now := time.Now()
	if err := s.repo.MarkPaymentPaid(ctx, entry.ID, now); err != nil {
		return nil, err
	}
	entry.Status = models.PaymentPaid
	entry.PaidAt = &now

	if _, err := s.ApplyStatus(ctx, entry.OrderID, models.OrderPaid); err != nil {
		// The ledger entry is already terminal; an order that moved on its own
		// (admin cancelled meanwhile) is reported, not rolled back.
		if errors.Is(err, ErrInvalidTransition) {
			log.Printf("[PAYMENT] reconcile for %s: order %s not transitionable: %v", providerPaymentID, entry.OrderID.Hex(), err)
			return entry, nil
		}
		return nil, err
	}
	return entry, nil
}

// GetPayment loads one ledger entry for the owner or an admin.
func (s *Service) GetPayment(ctx context.Context, actor Actor, id primitive.ObjectID) (*models.PaymentLedgerEntry, error) {
	entry, err := s.repo.FindPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeOrderView(actor, entry.UserID); err != nil {
		return nil, err
	}
	return entry, nil
}
