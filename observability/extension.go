// Package observability provides a metrics extension for Galley that records
// lifecycle event counts via go-utils MetricFactory.
package observability

import (
	"context"
	"time"

	"github.com/xraph/galley/invoice"
	"github.com/xraph/galley/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                 = (*MetricsExtension)(nil)
	_ plugin.OnInit                 = (*MetricsExtension)(nil)
	_ plugin.OnIngredientRegistered = (*MetricsExtension)(nil)
	_ plugin.OnStockDeducted        = (*MetricsExtension)(nil)
	_ plugin.OnStockRestored        = (*MetricsExtension)(nil)
	_ plugin.OnStockReplenished     = (*MetricsExtension)(nil)
	_ plugin.OnLowStock             = (*MetricsExtension)(nil)
	_ plugin.OnMenuItemCreated      = (*MetricsExtension)(nil)
	_ plugin.OnMenuItemUpdated      = (*MetricsExtension)(nil)
	_ plugin.OnMenuItemRemoved      = (*MetricsExtension)(nil)
	_ plugin.OnOrderPlaced          = (*MetricsExtension)(nil)
	_ plugin.OnOrderTransitioned    = (*MetricsExtension)(nil)
	_ plugin.OnOrderCancelled       = (*MetricsExtension)(nil)
	_ plugin.OnOrderRejected        = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceIssued        = (*MetricsExtension)(nil)
	_ plugin.OnMovementsFlushed     = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Galley plugin to automatically track kitchen metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Stock metrics
	IngredientRegistered Counter
	StockDeductions      Counter
	StockRestorations    Counter
	StockReplenishments  Counter
	LowStockAlerts       Counter

	// Menu metrics
	MenuItemCreated Counter
	MenuItemUpdated Counter
	MenuItemRemoved Counter

	// Order metrics
	OrderPlaced      Counter
	OrderTransitions Counter
	OrderCancelled   Counter
	OrderRejected    Counter

	// Billing metrics
	InvoiceIssued Counter
	// InvoiceTotals observes issued totals in minor currency units.
	InvoiceTotals Histogram

	// Journal metrics
	MovementBatchSize    Histogram
	MovementFlushLatency Histogram

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Stock metrics
		IngredientRegistered: factory.Counter("galley.ingredient.registered"),
		StockDeductions:      factory.Counter("galley.stock.deductions"),
		StockRestorations:    factory.Counter("galley.stock.restorations"),
		StockReplenishments:  factory.Counter("galley.stock.replenishments"),
		LowStockAlerts:       factory.Counter("galley.stock.low_stock_alerts"),

		// Menu metrics
		MenuItemCreated: factory.Counter("galley.menu.item.created"),
		MenuItemUpdated: factory.Counter("galley.menu.item.updated"),
		MenuItemRemoved: factory.Counter("galley.menu.item.removed"),

		// Order metrics
		OrderPlaced:      factory.Counter("galley.order.placed"),
		OrderTransitions: factory.Counter("galley.order.transitions"),
		OrderCancelled:   factory.Counter("galley.order.cancelled"),
		OrderRejected:    factory.Counter("galley.order.rejected"),

		// Billing metrics
		InvoiceIssued: factory.Counter("galley.invoice.issued"),
		InvoiceTotals: factory.Histogram("galley.invoice.totals"),

		// Journal metrics
		MovementBatchSize:    factory.Histogram("galley.movement.batch.size"),
		MovementFlushLatency: factory.Histogram("galley.movement.flush.latency_ms"),

		// Error metrics
		StoreErrors:  factory.Counter("galley.store.errors"),
		PluginErrors: factory.Counter("galley.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Stock lifecycle hooks
// ──────────────────────────────────────────────────

// OnIngredientRegistered implements plugin.OnIngredientRegistered.
func (m *MetricsExtension) OnIngredientRegistered(_ context.Context, _ interface{}) error {
	m.IngredientRegistered.Inc()
	return nil
}

// OnStockDeducted implements plugin.OnStockDeducted.
func (m *MetricsExtension) OnStockDeducted(_ context.Context, _ string, _ interface{}) error {
	m.StockDeductions.Inc()
	return nil
}

// OnStockRestored implements plugin.OnStockRestored.
func (m *MetricsExtension) OnStockRestored(_ context.Context, _ string, _ interface{}) error {
	m.StockRestorations.Inc()
	return nil
}

// OnStockReplenished implements plugin.OnStockReplenished.
func (m *MetricsExtension) OnStockReplenished(_ context.Context, _ interface{}) error {
	m.StockReplenishments.Inc()
	return nil
}

// OnLowStock implements plugin.OnLowStock.
func (m *MetricsExtension) OnLowStock(_ context.Context, _ interface{}) error {
	m.LowStockAlerts.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Menu lifecycle hooks
// ──────────────────────────────────────────────────

// OnMenuItemCreated implements plugin.OnMenuItemCreated.
func (m *MetricsExtension) OnMenuItemCreated(_ context.Context, _ interface{}) error {
	m.MenuItemCreated.Inc()
	return nil
}

// OnMenuItemUpdated implements plugin.OnMenuItemUpdated.
func (m *MetricsExtension) OnMenuItemUpdated(_ context.Context, _, _ interface{}) error {
	m.MenuItemUpdated.Inc()
	return nil
}

// OnMenuItemRemoved implements plugin.OnMenuItemRemoved.
func (m *MetricsExtension) OnMenuItemRemoved(_ context.Context, _ string) error {
	m.MenuItemRemoved.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Order lifecycle hooks
// ──────────────────────────────────────────────────

// OnOrderPlaced implements plugin.OnOrderPlaced.
func (m *MetricsExtension) OnOrderPlaced(_ context.Context, _ interface{}) error {
	m.OrderPlaced.Inc()
	return nil
}

// OnOrderTransitioned implements plugin.OnOrderTransitioned.
func (m *MetricsExtension) OnOrderTransitioned(_ context.Context, _ interface{}, _, _ string) error {
	m.OrderTransitions.Inc()
	return nil
}

// OnOrderCancelled implements plugin.OnOrderCancelled.
func (m *MetricsExtension) OnOrderCancelled(_ context.Context, _ interface{}) error {
	m.OrderCancelled.Inc()
	return nil
}

// OnOrderRejected implements plugin.OnOrderRejected.
func (m *MetricsExtension) OnOrderRejected(_ context.Context, _ interface{}) error {
	m.OrderRejected.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Billing hooks
// ──────────────────────────────────────────────────

// OnInvoiceIssued implements plugin.OnInvoiceIssued.
func (m *MetricsExtension) OnInvoiceIssued(_ context.Context, inv interface{}) error {
	m.InvoiceIssued.Inc()
	if i, ok := inv.(*invoice.Invoice); ok {
		m.InvoiceTotals.Observe(float64(i.Total.Amount))
	}
	return nil
}

// ──────────────────────────────────────────────────
// Journal hooks
// ──────────────────────────────────────────────────

// OnMovementsFlushed implements plugin.OnMovementsFlushed.
func (m *MetricsExtension) OnMovementsFlushed(_ context.Context, count int, elapsed time.Duration) error {
	m.MovementBatchSize.Observe(float64(count))
	m.MovementFlushLatency.Observe(float64(elapsed.Milliseconds()))
	return nil
}
