package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentMethod is the channel a buyer pays through.
type PaymentMethod string

const (
	MethodGCash PaymentMethod = "gcash"
	MethodBank  PaymentMethod = "bank"
	MethodCOD   PaymentMethod = "cod"
	MethodCard  PaymentMethod = "card"
)

// ValidPaymentMethod reports whether m is a supported channel.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodGCash, MethodBank, MethodCOD, MethodCard:
		return true
	}
	return false
}

// PaymentStatus is the ledger entry lifecycle state.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// PaymentLedgerEntry records one attempt to collect money for an order via an
// external provider. An order may accumulate entries over time, but the
// orderId_pending_unique index guarantees at most one is pending at once.
type PaymentLedgerEntry struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID           primitive.ObjectID `bson:"orderId" json:"orderId"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	Method            PaymentMethod      `bson:"method" json:"method"`
	Status            PaymentStatus      `bson:"status" json:"status"`
	Amount            float64            `bson:"amount" json:"amount"`
	Currency          string             `bson:"currency" json:"currency"`
	ProviderPaymentID string             `bson:"providerPaymentId,omitempty" json:"providerPaymentId,omitempty"`
	ProviderResponse  *ProviderResponse  `bson:"providerResponse,omitempty" json:"providerResponse,omitempty"`
	PaidAt            *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	ErrorMessage      string             `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}
