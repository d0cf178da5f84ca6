package payments

import (
	"testing"

	"storefront/internal/models"
)

func TestCanTransitionClosedTable(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.OrderPending, models.OrderPaid, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderPending, models.OrderPending, false},
		{models.OrderPaid, models.OrderCancelled, false},
		{models.OrderPaid, models.OrderPending, false},
		{models.OrderCancelled, models.OrderPaid, false},
		{models.OrderPaid, models.OrderPaid, false},
		{models.OrderPending, "shipped", false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to, false); got != tc.want {
			t.Errorf("CanTransition(%s, %s, false) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanTransitionWithOverride(t *testing.T) {
	if !CanTransition(models.OrderPaid, models.OrderCancelled, true) {
		t.Error("override must allow paid -> cancelled")
	}
	if !CanTransition(models.OrderCancelled, models.OrderPaid, true) {
		t.Error("override must allow cancelled -> paid")
	}
	if CanTransition(models.OrderPaid, models.OrderPaid, true) {
		t.Error("override must still reject no-op transitions")
	}
	if CanTransition(models.OrderPending, "shipped", true) {
		t.Error("override must still reject unknown states")
	}
}
