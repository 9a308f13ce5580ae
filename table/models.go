package table

import (
	"github.com/xraph/galley/id"
	"github.com/xraph/galley/types"
)

// Table is a physical dining table. A table may carry several active
// orders at once (large parties ordering in rounds); it counts as
// occupied while any of them is still active.
type Table struct {
	types.Entity

	ID       id.TableID `json:"id"`
	Number   int        `json:"number"`
	Capacity int        `json:"capacity"`

	// ActiveOrders holds the orders currently attached to this table.
	// Orders are removed when billed or cancelled.
	ActiveOrders []id.OrderID `json:"active_orders,omitempty"`
}

// Occupied reports whether the table has at least one active order.
func (t *Table) Occupied() bool {
	return len(t.ActiveOrders) > 0
}

// Attach records an order against the table. Attaching an order that is
// already present is a no-op.
func (t *Table) Attach(orderID id.OrderID) {
	for _, oid := range t.ActiveOrders {
		if oid.String() == orderID.String() {
			return
		}
	}
	t.ActiveOrders = append(t.ActiveOrders, orderID)
}

// Detach removes an order from the table, if present.
func (t *Table) Detach(orderID id.OrderID) {
	for i, oid := range t.ActiveOrders {
		if oid.String() == orderID.String() {
			t.ActiveOrders = append(t.ActiveOrders[:i], t.ActiveOrders[i+1:]...)
			return
		}
	}
}

// ListOpts filters table listings.
type ListOpts struct {
	// OccupiedOnly restricts the listing to tables with active orders.
	OccupiedOnly bool

	Limit  int
	Offset int
}
