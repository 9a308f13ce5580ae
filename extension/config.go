package extension

import "time"

// Config holds the Galley extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.galley" or "galley" keys).
type Config struct {
	// DisableRoutes prevents HTTP route registration.
	DisableRoutes bool `json:"disable_routes" mapstructure:"disable_routes" yaml:"disable_routes"`

	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// BasePath is the URL prefix for galley routes (default: "/galley").
	BasePath string `json:"base_path" mapstructure:"base_path" yaml:"base_path"`

	// MovementBatchSize is the number of stock movements to buffer before
	// flushing to the journal (default: 100).
	MovementBatchSize int `json:"movement_batch_size" mapstructure:"movement_batch_size" yaml:"movement_batch_size"`

	// MovementFlushInterval is how frequently the movement buffer is flushed
	// even if the batch size has not been reached (default: 5s).
	MovementFlushInterval time.Duration `json:"movement_flush_interval" mapstructure:"movement_flush_interval" yaml:"movement_flush_interval"`

	// LowStockInterval controls how often ingredient levels are swept for
	// low-stock notifications (default: 1m). Zero disables the sweep.
	LowStockInterval time.Duration `json:"low_stock_interval" mapstructure:"low_stock_interval" yaml:"low_stock_interval"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MovementBatchSize:     100,
		MovementFlushInterval: 5 * time.Second,
		LowStockInterval:      time.Minute,
	}
}
