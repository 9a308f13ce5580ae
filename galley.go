package galley

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/galley/ingredient"
	"github.com/xraph/galley/plugin"
	"github.com/xraph/galley/stock"
	"github.com/xraph/galley/store"
)

// Galley is the main order processing engine.
type Galley struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	// Per-order serialization for lifecycle operations
	inflight *orderLocks

	// Background workers
	movementBuffer chan *stock.Movement
	stopChan       chan struct{}
	wg             sync.WaitGroup

	// Configuration
	movementBatchSize     int
	movementFlushInterval time.Duration
	lowStockInterval      time.Duration
}

// New creates a new Galley instance.
func New(s store.Store, opts ...Option) *Galley {
	g := &Galley{
		store:                 s,
		plugins:               plugin.NewRegistry(),
		logger:                slog.Default(),
		inflight:              newOrderLocks(),
		movementBuffer:        make(chan *stock.Movement, 10000),
		stopChan:              make(chan struct{}),
		movementBatchSize:     100,
		movementFlushInterval: 5 * time.Second,
		lowStockInterval:      time.Minute,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Option configures a Galley instance.
type Option func(*Galley)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Galley) {
		g.logger = logger
		g.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(g *Galley) {
		_ = g.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithMovementConfig configures stock journal batching.
func WithMovementConfig(batchSize int, flushInterval time.Duration) Option {
	return func(g *Galley) {
		g.movementBatchSize = batchSize
		g.movementFlushInterval = flushInterval
	}
}

// WithLowStockInterval sets how often stock levels are swept for
// low-stock alerts. Zero disables the sweep.
func WithLowStockInterval(interval time.Duration) Option {
	return func(g *Galley) {
		g.lowStockInterval = interval
	}
}

// Start begins background workers.
func (g *Galley) Start(ctx context.Context) error {
	// Migrate database
	if err := g.store.Migrate(ctx); err != nil {
		return err
	}

	// Initialize plugins
	g.plugins.EmitInit(ctx, g)

	// Start movement flush worker
	g.wg.Add(1)
	go g.movementFlushWorker(ctx)

	if g.lowStockInterval > 0 {
		g.wg.Add(1)
		go g.lowStockWorker(ctx)
	}

	g.logger.Info("galley started",
		"batch_size", g.movementBatchSize,
		"flush_interval", g.movementFlushInterval,
		"low_stock_interval", g.lowStockInterval,
	)

	return nil
}

// Stop shuts down the Galley.
func (g *Galley) Stop() error {
	close(g.stopChan)
	g.wg.Wait()

	ctx := context.Background()
	g.plugins.EmitShutdown(ctx)

	return g.store.Close()
}

// Plugins exposes the plugin registry.
func (g *Galley) Plugins() *plugin.Registry {
	return g.plugins
}

// ──────────────────────────────────────────────────
// Stock journal
// ──────────────────────────────────────────────────

// recordMovements queues journal entries for the flush worker. Journal
// writes are best-effort: a full buffer drops entries with a warning
// rather than blocking the order pipeline.
func (g *Galley) recordMovements(movements ...*stock.Movement) {
	for _, m := range movements {
		select {
		case g.movementBuffer <- m:
		default:
			g.logger.Warn("movement buffer full, dropping journal entry",
				"type", m.Type,
				"ingredient_id", m.IngredientID,
			)
		}
	}
}

// movementFlushWorker flushes journal entries to the store.
func (g *Galley) movementFlushWorker(ctx context.Context) {
	defer g.wg.Done()

	batch := make([]*stock.Movement, 0, g.movementBatchSize)
	ticker := time.NewTicker(g.movementFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			// Drain whatever is still buffered, then final flush
			for {
				select {
				case m := <-g.movementBuffer:
					batch = append(batch, m)
					continue
				default:
				}
				break
			}
			if len(batch) > 0 {
				g.flushMovementBatch(ctx, batch)
			}
			return

		case m := <-g.movementBuffer:
			batch = append(batch, m)
			if len(batch) >= g.movementBatchSize {
				g.flushMovementBatch(ctx, batch)
				batch = make([]*stock.Movement, 0, g.movementBatchSize)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				g.flushMovementBatch(ctx, batch)
				batch = make([]*stock.Movement, 0, g.movementBatchSize)
			}
		}
	}
}

func (g *Galley) flushMovementBatch(ctx context.Context, batch []*stock.Movement) {
	start := time.Now()

	if err := g.store.InsertMovements(ctx, batch); err != nil {
		g.logger.Error("failed to flush movement batch",
			"error", err,
			"batch_size", len(batch),
		)
		return
	}

	elapsed := time.Since(start)
	g.plugins.EmitMovementsFlushed(ctx, len(batch), elapsed)

	g.logger.Debug("flushed movement batch",
		"batch_size", len(batch),
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// lowStockWorker periodically sweeps ingredient levels and alerts
// plugins about anything below its threshold.
func (g *Galley) lowStockWorker(ctx context.Context) {
	defer g.wg.Done()

	ticker := time.NewTicker(g.lowStockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.sweepLowStock(ctx)
		}
	}
}

func (g *Galley) sweepLowStock(ctx context.Context) {
	low, err := g.store.ListIngredients(ctx, ingredient.ListOpts{BelowThreshold: true})
	if err != nil {
		g.logger.Error("low stock sweep failed", "error", err)
		return
	}
	for _, ing := range low {
		g.logger.Warn("ingredient below threshold",
			"ingredient", ing.Name,
			"on_hand", ing.OnHand.String(),
			"threshold", ing.LowStockThreshold.String(),
		)
		g.plugins.EmitLowStock(ctx, ing)
	}
}
