package payments

import "go.mongodb.org/mongo-driver/bson/primitive"

// Actor is the authenticated caller, derived from JWT claims by the auth
// middleware.
type Actor struct {
	ID    primitive.ObjectID
	Admin bool
}

// AuthorizePaymentInitiation allows an admin, or the user named in the
// request acting for themselves. It must run before any provider call or
// ledger write; a deny short-circuits with no side effects.
func AuthorizePaymentInitiation(actor Actor, requestedUserID primitive.ObjectID) error {
	if actor.Admin {
		return nil
	}
	if !actor.ID.IsZero() && actor.ID == requestedUserID {
		return nil
	}
	return ErrForbidden
}

// AuthorizeOrderView allows an admin or the order's owner.
func AuthorizeOrderView(actor Actor, ownerID primitive.ObjectID) error {
	if actor.Admin {
		return nil
	}
	if !actor.ID.IsZero() && actor.ID == ownerID {
		return nil
	}
	return ErrForbidden
}
