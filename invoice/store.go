package invoice

import (
	"context"

	"github.com/xraph/galley/id"
)

// Store is the invoice-facing subset of the storage contract.
type Store interface {
	// Create persists the invoice. It fails if an invoice already exists
	// for the same order — the storage-level guard against double billing.
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, invID id.InvoiceID) (*Invoice, error)
	GetByOrder(ctx context.Context, orderID id.OrderID) (*Invoice, error)
	List(ctx context.Context, opts ListOpts) ([]*Invoice, error)
}
