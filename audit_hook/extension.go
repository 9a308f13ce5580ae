// Package audithook bridges Galley lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/galley/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                 = (*Extension)(nil)
	_ plugin.OnIngredientRegistered = (*Extension)(nil)
	_ plugin.OnStockDeducted        = (*Extension)(nil)
	_ plugin.OnStockRestored        = (*Extension)(nil)
	_ plugin.OnStockReplenished     = (*Extension)(nil)
	_ plugin.OnLowStock             = (*Extension)(nil)
	_ plugin.OnMenuItemCreated      = (*Extension)(nil)
	_ plugin.OnMenuItemUpdated      = (*Extension)(nil)
	_ plugin.OnMenuItemRemoved      = (*Extension)(nil)
	_ plugin.OnOrderPlaced          = (*Extension)(nil)
	_ plugin.OnOrderTransitioned    = (*Extension)(nil)
	_ plugin.OnOrderCancelled       = (*Extension)(nil)
	_ plugin.OnOrderRejected        = (*Extension)(nil)
	_ plugin.OnInvoiceIssued        = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Galley lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Stock lifecycle hooks
// ──────────────────────────────────────────────────

// OnIngredientRegistered implements plugin.OnIngredientRegistered.
func (e *Extension) OnIngredientRegistered(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionIngredientRegistered, SeverityInfo, OutcomeSuccess,
		ResourceIngredient, "", CategoryInventory, nil,
		"event", "ingredient_registered",
	)
}

// OnStockDeducted implements plugin.OnStockDeducted.
func (e *Extension) OnStockDeducted(ctx context.Context, orderID string, _ interface{}) error {
	return e.record(ctx, ActionStockDeducted, SeverityInfo, OutcomeSuccess,
		ResourceStock, orderID, CategoryInventory, nil,
		"order_id", orderID,
	)
}

// OnStockRestored implements plugin.OnStockRestored.
func (e *Extension) OnStockRestored(ctx context.Context, orderID string, _ interface{}) error {
	return e.record(ctx, ActionStockRestored, SeverityInfo, OutcomeSuccess,
		ResourceStock, orderID, CategoryInventory, nil,
		"order_id", orderID,
	)
}

// OnStockReplenished implements plugin.OnStockReplenished.
func (e *Extension) OnStockReplenished(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionStockReplenished, SeverityInfo, OutcomeSuccess,
		ResourceStock, "", CategoryInventory, nil,
		"event", "stock_replenished",
	)
}

// OnLowStock implements plugin.OnLowStock.
func (e *Extension) OnLowStock(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionLowStock, SeverityWarning, OutcomePartial,
		ResourceStock, "", CategoryInventory, nil,
		"event", "low_stock",
	)
}

// ──────────────────────────────────────────────────
// Menu lifecycle hooks
// ──────────────────────────────────────────────────

// OnMenuItemCreated implements plugin.OnMenuItemCreated.
func (e *Extension) OnMenuItemCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionMenuItemCreated, SeverityInfo, OutcomeSuccess,
		ResourceMenuItem, "", CategoryMenu, nil,
		"event", "menu_item_created",
	)
}

// OnMenuItemUpdated implements plugin.OnMenuItemUpdated.
func (e *Extension) OnMenuItemUpdated(ctx context.Context, _, _ interface{}) error {
	return e.record(ctx, ActionMenuItemUpdated, SeverityInfo, OutcomeSuccess,
		ResourceMenuItem, "", CategoryMenu, nil,
		"event", "menu_item_updated",
	)
}

// OnMenuItemRemoved implements plugin.OnMenuItemRemoved.
func (e *Extension) OnMenuItemRemoved(ctx context.Context, itemID string) error {
	return e.record(ctx, ActionMenuItemRemoved, SeverityInfo, OutcomeSuccess,
		ResourceMenuItem, itemID, CategoryMenu, nil,
		"item_id", itemID,
	)
}

// ──────────────────────────────────────────────────
// Order lifecycle hooks
// ──────────────────────────────────────────────────

// OnOrderPlaced implements plugin.OnOrderPlaced.
func (e *Extension) OnOrderPlaced(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionOrderPlaced, SeverityInfo, OutcomeSuccess,
		ResourceOrder, "", CategoryOrders, nil,
		"event", "order_placed",
	)
}

// OnOrderTransitioned implements plugin.OnOrderTransitioned.
func (e *Extension) OnOrderTransitioned(ctx context.Context, _ interface{}, from, to string) error {
	return e.record(ctx, ActionOrderTransitioned, SeverityInfo, OutcomeSuccess,
		ResourceOrder, "", CategoryOrders, nil,
		"from", from,
		"to", to,
	)
}

// OnOrderCancelled implements plugin.OnOrderCancelled.
func (e *Extension) OnOrderCancelled(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionOrderCancelled, SeverityWarning, OutcomeSuccess,
		ResourceOrder, "", CategoryOrders, nil,
		"event", "order_cancelled",
	)
}

// OnOrderRejected implements plugin.OnOrderRejected.
func (e *Extension) OnOrderRejected(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionOrderRejected, SeverityWarning, OutcomeFailure,
		ResourceOrder, "", CategoryOrders, nil,
		"event", "order_rejected",
	)
}

// ──────────────────────────────────────────────────
// Billing hooks
// ──────────────────────────────────────────────────

// OnInvoiceIssued implements plugin.OnInvoiceIssued.
func (e *Extension) OnInvoiceIssued(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionInvoiceIssued, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, "", CategoryPayment, nil,
		"event", "invoice_issued",
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
