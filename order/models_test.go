package order

import (
	"testing"

	"github.com/xraph/galley/id"
	"github.com/xraph/galley/types"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusDraft, StatusPending, true},
		{StatusPending, StatusInPreparation, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusReady, false},
		{StatusPending, StatusBilled, false},
		{StatusInPreparation, StatusReady, true},
		{StatusInPreparation, StatusCancelled, true},
		{StatusInPreparation, StatusBilled, false},
		{StatusInPreparation, StatusPending, false},
		{StatusReady, StatusBilled, true},
		{StatusReady, StatusCancelled, false},
		{StatusReady, StatusInPreparation, false},
		{StatusBilled, StatusCancelled, false},
		{StatusBilled, StatusReady, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusBilled, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: CanTransitionTo = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := []Status{StatusBilled, StatusCancelled}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s.Terminal() = false, want true", s)
		}
	}

	live := []Status{StatusPending, StatusInPreparation, StatusReady}
	for _, s := range live {
		if s.Terminal() {
			t.Errorf("%s.Terminal() = true, want false", s)
		}
	}
}

func TestOrderSubtotal(t *testing.T) {
	o := &Order{
		LineItems: []LineItem{
			{ID: id.NewLineItemID(), Name: "Pizza", Quantity: 2, UnitPrice: types.HNL(18500)},
			{ID: id.NewLineItemID(), Name: "Limonada", Quantity: 3, UnitPrice: types.HNL(3000)},
		},
	}

	want := types.HNL(2*18500 + 3*3000)
	if got := o.Subtotal(); !got.Equal(want) {
		t.Errorf("Subtotal = %v, want %v", got, want)
	}
}

func TestOrderSubtotalEmpty(t *testing.T) {
	o := &Order{}
	if got := o.Subtotal(); !got.IsZero() {
		t.Errorf("empty order Subtotal = %v, want zero", got)
	}
}

func TestLineItemSubtotalSnapshotsPrice(t *testing.T) {
	li := LineItem{Quantity: 4, UnitPrice: types.USD(995)}
	if got := li.Subtotal(); got.Amount != 3980 {
		t.Errorf("Subtotal = %d, want 3980", got.Amount)
	}
}

func TestOrderActive(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusInPreparation, StatusReady} {
		o := &Order{Status: s}
		if !o.Active() {
			t.Errorf("order in %s should be active", s)
		}
	}
	for _, s := range []Status{StatusBilled, StatusCancelled} {
		o := &Order{Status: s}
		if o.Active() {
			t.Errorf("order in %s should not be active", s)
		}
	}
}
