package invoice

import (
	"time"

	"github.com/xraph/galley/id"
	"github.com/xraph/galley/types"
)

// PaymentMethod is how the customer settled the bill.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// Invoice is the immutable record produced when an order is billed.
// Exactly one invoice may ever exist per order; the store rejects a second.
// Total equals Subtotal: tax and discounts are collaborator concerns.
type Invoice struct {
	types.Entity
	ID            id.InvoiceID  `json:"id"`
	OrderID       id.OrderID    `json:"order_id"`
	Subtotal      types.Money   `json:"subtotal"`
	Total         types.Money   `json:"total"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	IssuedAt      time.Time     `json:"issued_at"`
}

// ListOpts filters invoice listings.
type ListOpts struct {
	Start  time.Time
	End    time.Time
	Limit  int
	Offset int
}
