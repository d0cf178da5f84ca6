package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the order lifecycle state. Transitions are validated by the
// payments package; handlers never write a status string directly.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known lifecycle states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderPaid, OrderCancelled:
		return true
	}
	return false
}

// OrderItem represents a single product entry within an order. Name and Price
// are snapshots taken at checkout time so later catalog edits do not rewrite
// order history.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// OrderAddress is the shipping address snapshot, required at creation and
// immutable afterwards.
type OrderAddress struct {
	Title  string `bson:"title" json:"title"`
	Detail string `bson:"detail" json:"detail"`
	Note   string `bson:"note,omitempty" json:"note,omitempty"`
}

// Order defines the persisted order document.
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Items       []OrderItem        `bson:"items" json:"items"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
	Address     OrderAddress       `bson:"address" json:"address"`
	Status      OrderStatus        `bson:"status" json:"status"`
	PaidAt      *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	CancelledAt *time.Time         `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
