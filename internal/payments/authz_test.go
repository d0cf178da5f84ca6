package payments

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAuthorizePaymentInitiation(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	if err := AuthorizePaymentInitiation(Actor{ID: owner}, owner); err != nil {
		t.Fatalf("owner must be allowed, got %v", err)
	}
	if err := AuthorizePaymentInitiation(Actor{ID: stranger, Admin: true}, owner); err != nil {
		t.Fatalf("admin must be allowed regardless of ownership, got %v", err)
	}
	if err := AuthorizePaymentInitiation(Actor{ID: stranger}, owner); err != ErrForbidden {
		t.Fatalf("stranger must be forbidden, got %v", err)
	}
	if err := AuthorizePaymentInitiation(Actor{}, primitive.NilObjectID); err != ErrForbidden {
		t.Fatalf("anonymous actor must be forbidden even for a zero user id, got %v", err)
	}
}

func TestAuthorizeOrderView(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	if err := AuthorizeOrderView(Actor{ID: owner}, owner); err != nil {
		t.Fatalf("owner must view own order, got %v", err)
	}
	if err := AuthorizeOrderView(Actor{ID: stranger, Admin: true}, owner); err != nil {
		t.Fatalf("admin must view any order, got %v", err)
	}
	if err := AuthorizeOrderView(Actor{ID: stranger}, owner); err != ErrForbidden {
		t.Fatalf("stranger must be forbidden, got %v", err)
	}
}
