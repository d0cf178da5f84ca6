package payments

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/invoice"
	"storefront/internal/models"
)

// memoryRepository mimics the mongo repository, including the unique
// pending-per-order index behaviour on insert.
type memoryRepository struct {
	mu       sync.Mutex
	orders   map[primitive.ObjectID]*models.Order
	payments map[primitive.ObjectID]*models.PaymentLedgerEntry
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		orders:   make(map[primitive.ObjectID]*models.Order),
		payments: make(map[primitive.ObjectID]*models.PaymentLedgerEntry),
	}
}

func (r *memoryRepository) addOrder(order *models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	r.orders[order.ID] = order
}

func (r *memoryRepository) pendingCount(orderID primitive.ObjectID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, entry := range r.payments {
		if entry.OrderID == orderID && entry.Status == models.PaymentPending {
			count++
		}
	}
	return count
}

func (r *memoryRepository) FindOrder(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *memoryRepository) UpdateOrderStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus, paidAt, cancelledAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	order.Status = status
	if paidAt != nil {
		order.PaidAt = paidAt
	}
	if cancelledAt != nil {
		order.CancelledAt = cancelledAt
	}
	return nil
}

func (r *memoryRepository) FindPendingPayment(_ context.Context, orderID primitive.ObjectID) (*models.PaymentLedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.payments {
		if entry.OrderID == orderID && entry.Status == models.PaymentPending {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, ErrPaymentNotFound
}

func (r *memoryRepository) FindPayment(_ context.Context, id primitive.ObjectID) (*models.PaymentLedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	copied := *entry
	return &copied, nil
}

func (r *memoryRepository) FindPaymentByProviderRef(_ context.Context, providerPaymentID string) (*models.PaymentLedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.payments {
		if entry.ProviderPaymentID == providerPaymentID {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, ErrPaymentNotFound
}

func (r *memoryRepository) InsertPayment(_ context.Context, entry *models.PaymentLedgerEntry) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.Status == models.PaymentPending {
		for _, existing := range r.payments {
			if existing.OrderID == entry.OrderID && existing.Status == models.PaymentPending {
				return primitive.NilObjectID, errDuplicatePending
			}
		}
	}
	copied := *entry
	copied.ID = primitive.NewObjectID()
	r.payments[copied.ID] = &copied
	return copied.ID, nil
}

func (r *memoryRepository) MarkPaymentPaid(_ context.Context, id primitive.ObjectID, paidAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.payments[id]
	if !ok || entry.Status != models.PaymentPending {
		return ErrPaymentNotFound
	}
	entry.Status = models.PaymentPaid
	entry.PaidAt = &paidAt
	return nil
}

func (r *memoryRepository) MarkPaymentFailed(_ context.Context, id primitive.ObjectID, errorMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.payments[id]
	if !ok || entry.Status != models.PaymentPending {
		return ErrPaymentNotFound
	}
	entry.Status = models.PaymentFailed
	entry.ErrorMessage = errorMessage
	return nil
}

// mockInvoiceClient counts provider calls and can be told to fail.
type mockInvoiceClient struct {
	mu      sync.Mutex
	calls   int
	nextID  string
	nextURL string
	err     error
}

func (c *mockInvoiceClient) CreateInvoice(_ context.Context, _ invoice.CreateInvoiceInput) (invoice.Invoice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return invoice.Invoice{}, c.err
	}
	return invoice.Invoice{ID: c.nextID, InvoiceURL: c.nextURL}, nil
}

func (c *mockInvoiceClient) CheckoutURL(providerPaymentID string) string {
	return "https://pay.example/" + providerPaymentID
}

func (c *mockInvoiceClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
