package store

import (
	"context"
	"time"

	"github.com/xraph/galley/id"
	"github.com/xraph/galley/ingredient"
	"github.com/xraph/galley/invoice"
	"github.com/xraph/galley/menu"
	"github.com/xraph/galley/order"
	"github.com/xraph/galley/stock"
	"github.com/xraph/galley/table"
	"github.com/xraph/galley/types"
)

// Store is the unified storage interface for all Galley entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Ingredient methods
	CreateIngredient(ctx context.Context, ing *ingredient.Ingredient) error
	GetIngredient(ctx context.Context, ingID id.IngredientID) (*ingredient.Ingredient, error)
	ListIngredients(ctx context.Context, opts ingredient.ListOpts) ([]*ingredient.Ingredient, error)
	UpdateIngredient(ctx context.Context, ing *ingredient.Ingredient) error

	// DeductStock atomically checks and deducts every requirement in one
	// step. It deducts nothing and reports the full set of shortfalls
	// when any single ingredient cannot cover its requirement.
	DeductStock(ctx context.Context, reqs []ingredient.Requirement) error
	// RestoreStock adds the given quantities back, for cancellations.
	RestoreStock(ctx context.Context, reqs []ingredient.Requirement) error
	// ReplenishStock adds delivered stock to a single ingredient.
	ReplenishStock(ctx context.Context, ingID id.IngredientID, qty types.Quantity) error

	// Menu methods
	CreateMenuItem(ctx context.Context, item *menu.MenuItem) error
	GetMenuItem(ctx context.Context, itemID id.MenuItemID) (*menu.MenuItem, error)
	ListMenuItems(ctx context.Context, opts menu.ListOpts) ([]*menu.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *menu.MenuItem) error
	DeleteMenuItem(ctx context.Context, itemID id.MenuItemID) error

	// Order methods
	CreateOrder(ctx context.Context, o *order.Order) error
	GetOrder(ctx context.Context, orderID id.OrderID) (*order.Order, error)
	ListOrders(ctx context.Context, opts order.ListOpts) ([]*order.Order, error)
	// TransitionOrder moves an order from one status to another with a
	// compare-and-swap on the current status. A mismatch means another
	// operation won the race.
	TransitionOrder(ctx context.Context, orderID id.OrderID, from, to order.Status, at time.Time) error

	// Invoice methods
	CreateInvoice(ctx context.Context, inv *invoice.Invoice) error
	GetInvoice(ctx context.Context, invID id.InvoiceID) (*invoice.Invoice, error)
	GetInvoiceByOrder(ctx context.Context, orderID id.OrderID) (*invoice.Invoice, error)
	ListInvoices(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error)

	// Table methods
	CreateTable(ctx context.Context, tbl *table.Table) error
	GetTable(ctx context.Context, tableID id.TableID) (*table.Table, error)
	GetTableByNumber(ctx context.Context, number int) (*table.Table, error)
	ListTables(ctx context.Context, opts table.ListOpts) ([]*table.Table, error)
	UpdateTable(ctx context.Context, tbl *table.Table) error

	// Journal methods
	InsertMovements(ctx context.Context, movements []*stock.Movement) error
	QueryMovements(ctx context.Context, opts stock.QueryOpts) ([]*stock.Movement, error)
	PurgeMovements(ctx context.Context, before time.Time) (int64, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
