package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                 []OnInit
	onShutdown             []OnShutdown
	onIngredientRegistered []OnIngredientRegistered
	onStockDeducted        []OnStockDeducted
	onStockRestored        []OnStockRestored
	onStockReplenished     []OnStockReplenished
	onLowStock             []OnLowStock
	onMenuItemCreated      []OnMenuItemCreated
	onMenuItemUpdated      []OnMenuItemUpdated
	onMenuItemRemoved      []OnMenuItemRemoved
	onOrderPlaced          []OnOrderPlaced
	onOrderTransitioned    []OnOrderTransitioned
	onOrderCancelled       []OnOrderCancelled
	onOrderRejected        []OnOrderRejected
	onInvoiceIssued        []OnInvoiceIssued
	onMovementsFlushed     []OnMovementsFlushed
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnIngredientRegistered); ok {
		r.onIngredientRegistered = append(r.onIngredientRegistered, v)
	}
	if v, ok := p.(OnStockDeducted); ok {
		r.onStockDeducted = append(r.onStockDeducted, v)
	}
	if v, ok := p.(OnStockRestored); ok {
		r.onStockRestored = append(r.onStockRestored, v)
	}
	if v, ok := p.(OnStockReplenished); ok {
		r.onStockReplenished = append(r.onStockReplenished, v)
	}
	if v, ok := p.(OnLowStock); ok {
		r.onLowStock = append(r.onLowStock, v)
	}
	if v, ok := p.(OnMenuItemCreated); ok {
		r.onMenuItemCreated = append(r.onMenuItemCreated, v)
	}
	if v, ok := p.(OnMenuItemUpdated); ok {
		r.onMenuItemUpdated = append(r.onMenuItemUpdated, v)
	}
	if v, ok := p.(OnMenuItemRemoved); ok {
		r.onMenuItemRemoved = append(r.onMenuItemRemoved, v)
	}
	if v, ok := p.(OnOrderPlaced); ok {
		r.onOrderPlaced = append(r.onOrderPlaced, v)
	}
	if v, ok := p.(OnOrderTransitioned); ok {
		r.onOrderTransitioned = append(r.onOrderTransitioned, v)
	}
	if v, ok := p.(OnOrderCancelled); ok {
		r.onOrderCancelled = append(r.onOrderCancelled, v)
	}
	if v, ok := p.(OnOrderRejected); ok {
		r.onOrderRejected = append(r.onOrderRejected, v)
	}
	if v, ok := p.(OnInvoiceIssued); ok {
		r.onInvoiceIssued = append(r.onInvoiceIssued, v)
	}
	if v, ok := p.(OnMovementsFlushed); ok {
		r.onMovementsFlushed = append(r.onMovementsFlushed, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	// List all interfaces to check
	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnStockDeducted)(nil)).Elem(), "OnStockDeducted")
	checkInterface(reflect.TypeOf((*OnLowStock)(nil)).Elem(), "OnLowStock")
	checkInterface(reflect.TypeOf((*OnOrderPlaced)(nil)).Elem(), "OnOrderPlaced")
	checkInterface(reflect.TypeOf((*OnOrderTransitioned)(nil)).Elem(), "OnOrderTransitioned")
	checkInterface(reflect.TypeOf((*OnOrderRejected)(nil)).Elem(), "OnOrderRejected")
	checkInterface(reflect.TypeOf((*OnInvoiceIssued)(nil)).Elem(), "OnInvoiceIssued")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, g interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, g)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitIngredientRegistered emits an ingredient registered event.
func (r *Registry) EmitIngredientRegistered(ctx context.Context, ing interface{}) {
	r.mu.RLock()
	plugins := r.onIngredientRegistered
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnIngredientRegistered(ctx, ing)
		}); err != nil {
			r.logger.Warn("plugin OnIngredientRegistered failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStockDeducted emits a stock deducted event.
func (r *Registry) EmitStockDeducted(ctx context.Context, orderID string, reqs interface{}) {
	r.mu.RLock()
	plugins := r.onStockDeducted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStockDeducted(ctx, orderID, reqs)
		}); err != nil {
			r.logger.Warn("plugin OnStockDeducted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStockRestored emits a stock restored event.
func (r *Registry) EmitStockRestored(ctx context.Context, orderID string, reqs interface{}) {
	r.mu.RLock()
	plugins := r.onStockRestored
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStockRestored(ctx, orderID, reqs)
		}); err != nil {
			r.logger.Warn("plugin OnStockRestored failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStockReplenished emits a stock replenished event.
func (r *Registry) EmitStockReplenished(ctx context.Context, ing interface{}) {
	r.mu.RLock()
	plugins := r.onStockReplenished
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStockReplenished(ctx, ing)
		}); err != nil {
			r.logger.Warn("plugin OnStockReplenished failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitLowStock emits a low stock event.
func (r *Registry) EmitLowStock(ctx context.Context, ing interface{}) {
	r.mu.RLock()
	plugins := r.onLowStock
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnLowStock(ctx, ing)
		}); err != nil {
			r.logger.Warn("plugin OnLowStock failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitMenuItemCreated emits a menu item created event.
func (r *Registry) EmitMenuItemCreated(ctx context.Context, item interface{}) {
	r.mu.RLock()
	plugins := r.onMenuItemCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnMenuItemCreated(ctx, item)
		}); err != nil {
			r.logger.Warn("plugin OnMenuItemCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitMenuItemUpdated emits a menu item updated event.
func (r *Registry) EmitMenuItemUpdated(ctx context.Context, oldItem, newItem interface{}) {
	r.mu.RLock()
	plugins := r.onMenuItemUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnMenuItemUpdated(ctx, oldItem, newItem)
		}); err != nil {
			r.logger.Warn("plugin OnMenuItemUpdated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitMenuItemRemoved emits a menu item removed event.
func (r *Registry) EmitMenuItemRemoved(ctx context.Context, itemID string) {
	r.mu.RLock()
	plugins := r.onMenuItemRemoved
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnMenuItemRemoved(ctx, itemID)
		}); err != nil {
			r.logger.Warn("plugin OnMenuItemRemoved failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitOrderPlaced emits an order placed event.
func (r *Registry) EmitOrderPlaced(ctx context.Context, o interface{}) {
	r.mu.RLock()
	plugins := r.onOrderPlaced
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOrderPlaced(ctx, o)
		}); err != nil {
			r.logger.Warn("plugin OnOrderPlaced failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitOrderTransitioned emits an order transitioned event.
func (r *Registry) EmitOrderTransitioned(ctx context.Context, o interface{}, from, to string) {
	r.mu.RLock()
	plugins := r.onOrderTransitioned
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOrderTransitioned(ctx, o, from, to)
		}); err != nil {
			r.logger.Warn("plugin OnOrderTransitioned failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitOrderCancelled emits an order cancelled event.
func (r *Registry) EmitOrderCancelled(ctx context.Context, o interface{}) {
	r.mu.RLock()
	plugins := r.onOrderCancelled
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOrderCancelled(ctx, o)
		}); err != nil {
			r.logger.Warn("plugin OnOrderCancelled failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitOrderRejected emits an order rejected event.
func (r *Registry) EmitOrderRejected(ctx context.Context, shortfalls interface{}) {
	r.mu.RLock()
	plugins := r.onOrderRejected
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOrderRejected(ctx, shortfalls)
		}); err != nil {
			r.logger.Warn("plugin OnOrderRejected failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInvoiceIssued emits an invoice issued event.
func (r *Registry) EmitInvoiceIssued(ctx context.Context, inv interface{}) {
	r.mu.RLock()
	plugins := r.onInvoiceIssued
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInvoiceIssued(ctx, inv)
		}); err != nil {
			r.logger.Warn("plugin OnInvoiceIssued failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitMovementsFlushed emits a movements flushed event.
func (r *Registry) EmitMovementsFlushed(ctx context.Context, count int, elapsed time.Duration) {
	r.mu.RLock()
	plugins := r.onMovementsFlushed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnMovementsFlushed(ctx, count, elapsed)
		}); err != nil {
			r.logger.Warn("plugin OnMovementsFlushed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the order pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
