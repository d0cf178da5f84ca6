package payments

import "storefront/internal/models"

// transitionTable lists the legal order status edges. Orders only ever leave
// pending; paid and cancelled are terminal.
var transitionTable = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending: {models.OrderPaid, models.OrderCancelled},
}

// CanTransition reports whether from -> to is a legal edge. With
// allowOverride set (admin reconciliation fixes), any move between two valid
// distinct states is accepted.
func CanTransition(from, to models.OrderStatus, allowOverride bool) bool {
	if !models.ValidOrderStatus(to) {
		return false
	}
	if allowOverride {
		return from != to
	}
	for _, next := range transitionTable[from] {
		if next == to {
			return true
		}
	}
	return false
}
