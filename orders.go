package galley

import (
	"context"
	"errors"
	"time"

	"github.com/xraph/galley/id"
	"github.com/xraph/galley/ingredient"
	"github.com/xraph/galley/invoice"
	"github.com/xraph/galley/menu"
	"github.com/xraph/galley/order"
	"github.com/xraph/galley/stock"
	"github.com/xraph/galley/types"
)

// ──────────────────────────────────────────────────
// Order Placement
// ──────────────────────────────────────────────────

// MaxLineItemQuantity bounds a single line item. The bound keeps the
// fixed-point quantity and money multiplications far from int64 overflow.
const MaxLineItemQuantity = 10000

// PlaceOrder resolves the requested menu items, deducts the merged
// ingredient requirements in one atomic step, and persists the order as
// pending. Nothing is deducted when any ingredient falls short; the
// returned error then lists every shortfall. The order carries snapshots
// of both prices and deducted quantities, so later menu edits never
// change what it costs or what a cancellation restores.
func (g *Galley) PlaceOrder(ctx context.Context, req order.Request) (*order.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if req.Type == "" {
		req.Type = order.TypeDineIn
	}
	if req.Type == order.TypeDelivery && req.DeliveryAddress == "" {
		return nil, ValidationError{Field: "delivery_address", Message: "required for delivery orders"}
	}

	lineItems := make([]order.LineItem, 0, len(req.Items))
	requirementLists := make([][]ingredient.Requirement, 0, len(req.Items))

	for _, ri := range req.Items {
		if ri.Quantity <= 0 {
			return nil, ValidationError{Field: "quantity", Message: "must be positive"}
		}
		if ri.Quantity > MaxLineItemQuantity {
			return nil, ValidationError{Field: "quantity", Message: "must not exceed 10000 per line item"}
		}
		item, err := g.store.GetMenuItem(ctx, ri.MenuItemID)
		if err != nil {
			return nil, err
		}
		lineItems = append(lineItems, order.LineItem{
			ID:         id.NewLineItemID(),
			MenuItemID: item.ID,
			Name:       item.Name,
			Quantity:   ri.Quantity,
			UnitPrice:  item.Price,
		})
		requirementLists = append(requirementLists, item.RequirementsFor(ri.Quantity))
	}

	merged := menu.MergeRequirements(requirementLists...)

	if err := g.store.DeductStock(ctx, merged); err != nil {
		var ise *InsufficientStockError
		if errors.As(err, &ise) {
			g.plugins.EmitOrderRejected(ctx, ise.Shortfalls)
			g.logger.Info("order rejected for insufficient stock",
				"shortfalls", len(ise.Shortfalls),
			)
		}
		return nil, err
	}

	o := &order.Order{
		Entity:          types.NewEntity(),
		ID:              id.NewOrderID(),
		Type:            req.Type,
		TableNumber:     req.TableNumber,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryPhone:   req.DeliveryPhone,
		Status:          order.StatusPending,
		LineItems:       lineItems,
		Deductions:      merged,
	}

	if err := g.store.CreateOrder(ctx, o); err != nil {
		// Roll the deduction back so the failure leaves no trace.
		if rerr := g.store.RestoreStock(ctx, merged); rerr != nil {
			g.logger.Error("failed to restore stock after create failure",
				"order_id", o.ID,
				"error", rerr,
			)
		}
		return nil, err
	}

	for _, req := range merged {
		g.recordMovements(stock.NewMovement(stock.MovementDeduct, req.IngredientID, o.ID, req.Quantity))
	}

	if o.Type == order.TypeDineIn && o.TableNumber > 0 {
		g.attachToTable(ctx, o)
	}

	g.plugins.EmitStockDeducted(ctx, o.ID.String(), merged)
	g.plugins.EmitOrderPlaced(ctx, o)

	g.logger.Info("order placed",
		"order_id", o.ID,
		"type", o.Type,
		"items", len(o.LineItems),
		"subtotal", o.Subtotal().String(),
	)

	return o, nil
}

func (g *Galley) attachToTable(ctx context.Context, o *order.Order) {
	tbl, err := g.store.GetTableByNumber(ctx, o.TableNumber)
	if err != nil {
		g.logger.Warn("order references unknown table",
			"order_id", o.ID,
			"table", o.TableNumber,
		)
		return
	}
	tbl.Attach(o.ID)
	tbl.Touch()
	if err := g.store.UpdateTable(ctx, tbl); err != nil {
		g.logger.Warn("failed to attach order to table",
			"order_id", o.ID,
			"table", o.TableNumber,
			"error", err,
		)
	}
}

func (g *Galley) detachFromTable(ctx context.Context, o *order.Order) {
	if o.Type != order.TypeDineIn || o.TableNumber <= 0 {
		return
	}
	tbl, err := g.store.GetTableByNumber(ctx, o.TableNumber)
	if err != nil {
		return
	}
	tbl.Detach(o.ID)
	tbl.Touch()
	if err := g.store.UpdateTable(ctx, tbl); err != nil {
		g.logger.Warn("failed to detach order from table",
			"order_id", o.ID,
			"table", o.TableNumber,
			"error", err,
		)
	}
}

// ──────────────────────────────────────────────────
// Order Lifecycle
// ──────────────────────────────────────────────────

// StartPreparation moves a pending order into the kitchen.
func (g *Galley) StartPreparation(ctx context.Context, orderID id.OrderID) error {
	_, err := g.transition(ctx, orderID, order.StatusInPreparation)
	return err
}

// MarkReady marks an in-preparation order as ready to serve.
func (g *Galley) MarkReady(ctx context.Context, orderID id.OrderID) error {
	_, err := g.transition(ctx, orderID, order.StatusReady)
	return err
}

// CancelOrder cancels a pending or in-preparation order and restores
// exactly the quantities deducted when it was placed.
func (g *Galley) CancelOrder(ctx context.Context, orderID id.OrderID) error {
	o, err := g.transition(ctx, orderID, order.StatusCancelled)
	if err != nil {
		return err
	}

	if err := g.store.RestoreStock(ctx, o.Deductions); err != nil {
		// The order is already cancelled; a failed restore is an
		// operational incident, not a reason to resurrect it.
		g.logger.Error("failed to restore stock for cancelled order",
			"order_id", o.ID,
			"error", err,
		)
		return err
	}

	for _, req := range o.Deductions {
		g.recordMovements(stock.NewMovement(stock.MovementRestore, req.IngredientID, o.ID, req.Quantity))
	}

	g.detachFromTable(ctx, o)

	g.plugins.EmitStockRestored(ctx, o.ID.String(), o.Deductions)
	g.plugins.EmitOrderCancelled(ctx, o)

	g.logger.Info("order cancelled", "order_id", o.ID)
	return nil
}

// transition serializes the status change per order: a caller that finds
// another lifecycle operation in flight for the same order loses with
// ErrConflict instead of queueing. The store applies the change with a
// compare-and-swap on the current status, so even a racing writer that
// slipped past the lock cannot double-apply.
func (g *Galley) transition(ctx context.Context, orderID id.OrderID, to order.Status) (*order.Order, error) {
	if !g.inflight.TryAcquire(orderID.String()) {
		return nil, ErrConflict
	}
	defer g.inflight.Release(orderID.String())

	o, err := g.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := o.Status
	if !from.CanTransitionTo(to) {
		return nil, &InvalidTransitionError{From: string(from), Attempted: string(to)}
	}

	now := time.Now().UTC()
	if err := g.store.TransitionOrder(ctx, orderID, from, to, now); err != nil {
		return nil, err
	}

	o.Status = to
	o.UpdatedAt = now
	switch to {
	case order.StatusCancelled:
		o.CancelledAt = &now
	case order.StatusBilled:
		o.BilledAt = &now
	}

	g.plugins.EmitOrderTransitioned(ctx, o, string(from), string(to))

	g.logger.Info("order transitioned",
		"order_id", orderID,
		"from", from,
		"to", to,
	)
	return o, nil
}

// ──────────────────────────────────────────────────
// Billing
// ──────────────────────────────────────────────────

// BillOrder issues the invoice for a ready order and closes it out. The
// subtotal comes from the order's price snapshots; menu edits since
// placement are invisible. Exactly one invoice can ever exist per order:
// a second attempt fails with ErrAlreadyBilled and the original stays
// retrievable through GetInvoiceByOrder.
func (g *Galley) BillOrder(ctx context.Context, orderID id.OrderID, method invoice.PaymentMethod) (*invoice.Invoice, error) {
	if method == "" {
		method = invoice.PaymentCash
	}

	if !g.inflight.TryAcquire(orderID.String()) {
		return nil, ErrConflict
	}
	defer g.inflight.Release(orderID.String())

	o, err := g.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.Status == order.StatusBilled {
		return nil, ErrAlreadyBilled
	}
	if !o.Status.CanTransitionTo(order.StatusBilled) {
		return nil, &InvalidTransitionError{From: string(o.Status), Attempted: string(order.StatusBilled)}
	}

	subtotal := o.Subtotal()
	now := time.Now().UTC()
	inv := &invoice.Invoice{
		Entity:        types.NewEntity(),
		ID:            id.NewInvoiceID(),
		OrderID:       o.ID,
		Subtotal:      subtotal,
		Total:         subtotal,
		PaymentMethod: method,
		IssuedAt:      now,
	}

	// The store's one-invoice-per-order guard runs before the status
	// flips, so a lost race here leaves the order still billable.
	if err := g.store.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	if err := g.store.TransitionOrder(ctx, orderID, o.Status, order.StatusBilled, now); err != nil {
		return nil, err
	}
	from := o.Status
	o.Status = order.StatusBilled
	o.BilledAt = &now
	o.UpdatedAt = now

	g.detachFromTable(ctx, o)

	g.plugins.EmitOrderTransitioned(ctx, o, string(from), string(order.StatusBilled))
	g.plugins.EmitInvoiceIssued(ctx, inv)

	g.logger.Info("invoice issued",
		"order_id", o.ID,
		"invoice_id", inv.ID,
		"total", inv.Total.String(),
		"method", method,
	)

	return inv, nil
}

// ──────────────────────────────────────────────────
// Queries
// ──────────────────────────────────────────────────

// GetOrder retrieves an order by ID.
func (g *Galley) GetOrder(ctx context.Context, orderID id.OrderID) (*order.Order, error) {
	return g.store.GetOrder(ctx, orderID)
}

// ListOrders lists orders.
func (g *Galley) ListOrders(ctx context.Context, opts order.ListOpts) ([]*order.Order, error) {
	return g.store.ListOrders(ctx, opts)
}

// ActiveOrders returns every order that is neither billed nor cancelled.
func (g *Galley) ActiveOrders(ctx context.Context) ([]*order.Order, error) {
	all, err := g.store.ListOrders(ctx, order.ListOpts{})
	if err != nil {
		return nil, err
	}
	active := all[:0:0]
	for _, o := range all {
		if o.Active() {
			active = append(active, o)
		}
	}
	return active, nil
}

// GetInvoice retrieves an invoice by ID.
func (g *Galley) GetInvoice(ctx context.Context, invID id.InvoiceID) (*invoice.Invoice, error) {
	return g.store.GetInvoice(ctx, invID)
}

// GetInvoiceByOrder retrieves the invoice issued for an order.
func (g *Galley) GetInvoiceByOrder(ctx context.Context, orderID id.OrderID) (*invoice.Invoice, error) {
	return g.store.GetInvoiceByOrder(ctx, orderID)
}

// ListInvoices lists invoices, optionally within a time window.
func (g *Galley) ListInvoices(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	return g.store.ListInvoices(ctx, opts)
}
