package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

func validCreateOrderRequest() createOrderRequest {
	return createOrderRequest{
		Items: []createOrderItemRequest{
			{ProductID: primitive.NewObjectID().Hex(), Quantity: 2},
		},
		Address: createOrderAddressRequest{
			Title:  "Home",
			Detail: "123 Main St",
		},
	}
}

func TestBuildOrderFromRequest(t *testing.T) {
	userID := primitive.NewObjectID()

	order, err := buildOrderFromRequest(validCreateOrderRequest(), userID)
	if err != nil {
		t.Fatalf("buildOrderFromRequest returned error: %v", err)
	}
	if order.UserID != userID {
		t.Fatalf("expected owner %s, got %s", userID.Hex(), order.UserID.Hex())
	}
	if order.Status != models.OrderPending {
		t.Fatalf("expected new order to be pending, got %s", order.Status)
	}
	if order.PaidAt != nil || order.CancelledAt != nil {
		t.Fatal("expected no status timestamps on a new order")
	}
	if order.CreatedAt.IsZero() {
		t.Fatal("expected createdAt to be set")
	}
}

func TestBuildOrderFromRequestRejectsEmptyItems(t *testing.T) {
	req := validCreateOrderRequest()
	req.Items = nil

	if _, err := buildOrderFromRequest(req, primitive.NewObjectID()); err == nil {
		t.Fatal("expected error for empty items")
	}
}

func TestBuildOrderFromRequestRejectsBadQuantity(t *testing.T) {
	for _, quantity := range []int{0, -1} {
		req := validCreateOrderRequest()
		req.Items[0].Quantity = quantity

		if _, err := buildOrderFromRequest(req, primitive.NewObjectID()); err == nil {
			t.Fatalf("expected error for quantity=%d", quantity)
		}
	}
}

func TestBuildOrderFromRequestRejectsBadProductID(t *testing.T) {
	req := validCreateOrderRequest()
	req.Items[0].ProductID = "not-an-object-id"

	if _, err := buildOrderFromRequest(req, primitive.NewObjectID()); err == nil {
		t.Fatal("expected error for invalid productId")
	}
}

func TestBuildOrderFromRequestRequiresAddress(t *testing.T) {
	req := validCreateOrderRequest()
	req.Address.Detail = "   "

	if _, err := buildOrderFromRequest(req, primitive.NewObjectID()); err == nil {
		t.Fatal("expected error for missing address detail")
	}
}
