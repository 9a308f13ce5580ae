// Package extension provides the Forge extension adapter for Galley.
//
// It implements the forge.Extension interface to integrate Galley
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.galley" or "galley" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	galley "github.com/xraph/galley"
	"github.com/xraph/galley/store"
	"github.com/xraph/galley/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "galley"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Restaurant order and inventory engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Galley as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *galley.Galley
	store      store.Store
	galleyOpts []galley.Option
}

// New creates a new Galley Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Galley instance.
// This is nil until Register is called.
func (e *Extension) Engine() *galley.Galley { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the galley engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	// Build galley options from resolved config.
	opts := e.buildGalleyOpts()

	eng := galley.New(e.store, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*galley.Galley, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("galley: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("galley: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildGalleyOpts constructs galley.Option values from the resolved config.
func (e *Extension) buildGalleyOpts() []galley.Option {
	opts := make([]galley.Option, 0, len(e.galleyOpts)+2)

	// Apply config-derived options.
	if e.config.MovementBatchSize > 0 || e.config.MovementFlushInterval > 0 {
		batchSize := e.config.MovementBatchSize
		flushInterval := e.config.MovementFlushInterval
		defaults := DefaultConfig()
		if batchSize == 0 {
			batchSize = defaults.MovementBatchSize
		}
		if flushInterval == 0 {
			flushInterval = defaults.MovementFlushInterval
		}
		opts = append(opts, galley.WithMovementConfig(batchSize, flushInterval))
	}

	opts = append(opts, galley.WithLowStockInterval(e.config.LowStockInterval))

	// Append any pass-through galley options.
	opts = append(opts, e.galleyOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("galley: configuration is required but not found in config files; " +
				"ensure 'extensions.galley' or 'galley' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("galley: configuration loaded",
		forge.F("disable_routes", e.config.DisableRoutes),
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("base_path", e.config.BasePath),
		forge.F("movement_batch_size", e.config.MovementBatchSize),
		forge.F("movement_flush_interval", e.config.MovementFlushInterval),
		forge.F("low_stock_interval", e.config.LowStockInterval),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.galley" first (namespaced pattern).
	if cm.IsSet("extensions.galley") {
		if err := cm.Bind("extensions.galley", &cfg); err == nil {
			e.Logger().Debug("galley: loaded config from file",
				forge.F("key", "extensions.galley"),
			)
			return cfg, true
		}
		e.Logger().Warn("galley: failed to bind extensions.galley config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "galley" key.
	if cm.IsSet("galley") {
		if err := cm.Bind("galley", &cfg); err == nil {
			e.Logger().Debug("galley: loaded config from file",
				forge.F("key", "galley"),
			)
			return cfg, true
		}
		e.Logger().Warn("galley: failed to bind galley config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.MovementBatchSize == 0 {
		cfg.MovementBatchSize = defaults.MovementBatchSize
	}
	if cfg.MovementFlushInterval == 0 {
		cfg.MovementFlushInterval = defaults.MovementFlushInterval
	}
	if cfg.LowStockInterval == 0 {
		cfg.LowStockInterval = defaults.LowStockInterval
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableRoutes {
		yamlConfig.DisableRoutes = true
	}
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.BasePath == "" && programmaticConfig.BasePath != "" {
		yamlConfig.BasePath = programmaticConfig.BasePath
	}

	// Duration/int fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.MovementBatchSize == 0 && programmaticConfig.MovementBatchSize != 0 {
		yamlConfig.MovementBatchSize = programmaticConfig.MovementBatchSize
	}
	if yamlConfig.MovementFlushInterval == 0 && programmaticConfig.MovementFlushInterval != 0 {
		yamlConfig.MovementFlushInterval = programmaticConfig.MovementFlushInterval
	}
	if yamlConfig.LowStockInterval == 0 && programmaticConfig.LowStockInterval != 0 {
		yamlConfig.LowStockInterval = programmaticConfig.LowStockInterval
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
