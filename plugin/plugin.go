// Package plugin provides an extensible plugin system for Galley.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"
	"time"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, g interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Stock hooks
// ──────────────────────────────────────────────────

// OnIngredientRegistered is called when a new ingredient is registered.
type OnIngredientRegistered interface {
	Plugin
	OnIngredientRegistered(ctx context.Context, ing interface{}) error
}

// OnStockDeducted is called after an order's requirements are deducted.
type OnStockDeducted interface {
	Plugin
	OnStockDeducted(ctx context.Context, orderID string, reqs interface{}) error
}

// OnStockRestored is called after a cancellation returns stock.
type OnStockRestored interface {
	Plugin
	OnStockRestored(ctx context.Context, orderID string, reqs interface{}) error
}

// OnStockReplenished is called when a delivery adds stock.
type OnStockReplenished interface {
	Plugin
	OnStockReplenished(ctx context.Context, ing interface{}) error
}

// OnLowStock is called when an ingredient falls below its threshold.
type OnLowStock interface {
	Plugin
	OnLowStock(ctx context.Context, ing interface{}) error
}

// ──────────────────────────────────────────────────
// Menu hooks
// ──────────────────────────────────────────────────

// OnMenuItemCreated is called when a menu item is added.
type OnMenuItemCreated interface {
	Plugin
	OnMenuItemCreated(ctx context.Context, item interface{}) error
}

// OnMenuItemUpdated is called when a menu item changes.
type OnMenuItemUpdated interface {
	Plugin
	OnMenuItemUpdated(ctx context.Context, oldItem, newItem interface{}) error
}

// OnMenuItemRemoved is called when a menu item is removed.
type OnMenuItemRemoved interface {
	Plugin
	OnMenuItemRemoved(ctx context.Context, itemID string) error
}

// ──────────────────────────────────────────────────
// Order lifecycle hooks
// ──────────────────────────────────────────────────

// OnOrderPlaced is called when an order is accepted and stock deducted.
type OnOrderPlaced interface {
	Plugin
	OnOrderPlaced(ctx context.Context, o interface{}) error
}

// OnOrderTransitioned is called when an order changes status.
type OnOrderTransitioned interface {
	Plugin
	OnOrderTransitioned(ctx context.Context, o interface{}, from, to string) error
}

// OnOrderCancelled is called when an order is cancelled.
type OnOrderCancelled interface {
	Plugin
	OnOrderCancelled(ctx context.Context, o interface{}) error
}

// OnOrderRejected is called when an order is refused for lack of stock.
type OnOrderRejected interface {
	Plugin
	OnOrderRejected(ctx context.Context, shortfalls interface{}) error
}

// ──────────────────────────────────────────────────
// Billing hooks
// ──────────────────────────────────────────────────

// OnInvoiceIssued is called when an order is billed.
type OnInvoiceIssued interface {
	Plugin
	OnInvoiceIssued(ctx context.Context, inv interface{}) error
}

// ──────────────────────────────────────────────────
// Journal hooks
// ──────────────────────────────────────────────────

// OnMovementsFlushed is called when journal entries are flushed to the store.
type OnMovementsFlushed interface {
	Plugin
	OnMovementsFlushed(ctx context.Context, count int, elapsed time.Duration) error
}
