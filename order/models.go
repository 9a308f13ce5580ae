package order

import (
	"time"

	"github.com/xraph/galley/id"
	"github.com/xraph/galley/ingredient"
	"github.com/xraph/galley/types"
)

// Status is an order's lifecycle state. The sequence is strictly monotonic:
// pending → in_preparation → ready → billed, with cancellation possible only
// while the kitchen can still stop (pending or in_preparation).
type Status string

const (
	// StatusDraft exists only before the order is persisted; it is never
	// stored and never observable through the store.
	StatusDraft         Status = "draft"
	StatusPending       Status = "pending"
	StatusInPreparation Status = "in_preparation"
	StatusReady         Status = "ready"
	StatusBilled        Status = "billed"
	StatusCancelled     Status = "cancelled"
)

// transitions is the single source of truth for the state machine.
var transitions = map[Status][]Status{
	StatusDraft:         {StatusPending},
	StatusPending:       {StatusInPreparation, StatusCancelled},
	StatusInPreparation: {StatusReady, StatusCancelled},
	StatusReady:         {StatusBilled},
}

// CanTransitionTo reports whether moving from s to next is a legal
// transition.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Type distinguishes dine-in orders from deliveries.
type Type string

const (
	TypeDineIn   Type = "dine_in"
	TypeDelivery Type = "delivery"
)

// LineItem is one ordered menu item with its price snapshot. UnitPrice is
// the menu price at order-creation time and is immune to later menu edits.
type LineItem struct {
	ID         id.LineItemID `json:"id"`
	MenuItemID id.MenuItemID `json:"menu_item_id"`
	Name       string        `json:"name"`
	Quantity   int64         `json:"quantity"`
	UnitPrice  types.Money   `json:"unit_price"`
}

// Subtotal returns quantity times the creation-time unit price.
func (li LineItem) Subtotal() types.Money {
	return li.UnitPrice.Multiply(li.Quantity)
}

// Order is a customer order. Deductions records the exact ingredient
// quantities removed from stock when the order was confirmed, so that
// cancellation restores precisely that amount regardless of later recipe
// changes. Entity.CreatedAt is the creation timestamp; Entity.UpdatedAt is
// the last-transition timestamp.
type Order struct {
	types.Entity
	ID              id.OrderID               `json:"id"`
	Type            Type                     `json:"type"`
	TableNumber     int                      `json:"table_number,omitempty"`
	DeliveryAddress string                   `json:"delivery_address,omitempty"`
	DeliveryPhone   string                   `json:"delivery_phone,omitempty"`
	Status          Status                   `json:"status"`
	LineItems       []LineItem               `json:"line_items"`
	Deductions      []ingredient.Requirement `json:"deductions"`
	CancelledAt     *time.Time               `json:"cancelled_at,omitempty"`
	BilledAt        *time.Time               `json:"billed_at,omitempty"`
}

// Subtotal sums the line-item subtotals at creation-time prices.
func (o *Order) Subtotal() types.Money {
	if len(o.LineItems) == 0 {
		return types.ZeroMoney("usd")
	}
	total := o.LineItems[0].Subtotal()
	for _, li := range o.LineItems[1:] {
		total = total.Add(li.Subtotal())
	}
	return total
}

// Active reports whether the order still occupies kitchen or table
// resources (not yet billed or cancelled).
func (o *Order) Active() bool {
	return !o.Status.Terminal()
}

// Request describes an order to be placed. Items reference menu items by
// ID; prices and recipes are resolved and snapshotted at placement time.
type Request struct {
	Type            Type
	TableNumber     int
	DeliveryAddress string
	DeliveryPhone   string
	Items           []RequestItem
}

// RequestItem is one requested menu item and quantity.
type RequestItem struct {
	MenuItemID id.MenuItemID
	Quantity   int64
}

// ListOpts filters order listings.
type ListOpts struct {
	Status Status
	Type   Type
	Limit  int
	Offset int
}
