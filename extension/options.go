package extension

import (
	"time"

	galley "github.com/xraph/galley"
	"github.com/xraph/galley/plugin"
	"github.com/xraph/galley/store"
)

// Option configures the Galley Forge extension.
type Option func(*Extension)

// WithStore sets the store for the galley engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithGalleyOption passes a galley.Option through to the underlying engine.
func WithGalleyOption(opt galley.Option) Option {
	return func(e *Extension) {
		e.galleyOpts = append(e.galleyOpts, opt)
	}
}

// WithPlugin registers a galley plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.galleyOpts = append(e.galleyOpts, galley.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableRoutes prevents HTTP route registration.
func WithDisableRoutes() Option {
	return func(e *Extension) { e.config.DisableRoutes = true }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithBasePath sets the URL prefix for galley routes.
func WithBasePath(path string) Option {
	return func(e *Extension) { e.config.BasePath = path }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithMovementBatchSize sets the number of stock movements to buffer before flushing.
func WithMovementBatchSize(size int) Option {
	return func(e *Extension) { e.config.MovementBatchSize = size }
}

// WithMovementFlushInterval sets how frequently the movement buffer is flushed.
func WithMovementFlushInterval(d time.Duration) Option {
	return func(e *Extension) { e.config.MovementFlushInterval = d }
}

// WithLowStockInterval sets how often ingredient levels are swept for
// low-stock notifications.
func WithLowStockInterval(d time.Duration) Option {
	return func(e *Extension) { e.config.LowStockInterval = d }
}
