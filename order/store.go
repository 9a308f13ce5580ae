package order

import (
	"context"
	"time"

	"github.com/xraph/galley/id"
)

// Store is the order-facing subset of the storage contract.
type Store interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, orderID id.OrderID) (*Order, error)
	List(ctx context.Context, opts ListOpts) ([]*Order, error)

	// Transition changes the order's status from exactly `from` to `to`
	// (compare-and-swap). A status mismatch means another transition won
	// the race and must surface as a conflict, never a silent overwrite.
	Transition(ctx context.Context, orderID id.OrderID, from, to Status, at time.Time) error
}
