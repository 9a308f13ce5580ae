package galley

import (
	"context"
	"time"

	"github.com/xraph/galley/id"
	"github.com/xraph/galley/ingredient"
	"github.com/xraph/galley/menu"
	"github.com/xraph/galley/stock"
	"github.com/xraph/galley/table"
	"github.com/xraph/galley/types"
)

// ──────────────────────────────────────────────────
// Ingredient Management
// ──────────────────────────────────────────────────

// RegisterIngredient adds a new ingredient to the stock ledger.
func (g *Galley) RegisterIngredient(ctx context.Context, ing *ingredient.Ingredient) error {
	if ing.Name == "" {
		return ValidationError{Field: "name", Message: "must not be empty"}
	}
	if ing.OnHand.IsNegative() {
		return ValidationError{Field: "on_hand", Message: "must not be negative"}
	}
	if ing.ID.IsNil() {
		ing.ID = id.NewIngredientID()
	}
	ing.Entity = types.NewEntity()

	if err := g.store.CreateIngredient(ctx, ing); err != nil {
		return err
	}

	g.plugins.EmitIngredientRegistered(ctx, ing)
	return nil
}

// GetIngredient retrieves an ingredient by ID.
func (g *Galley) GetIngredient(ctx context.Context, ingID id.IngredientID) (*ingredient.Ingredient, error) {
	return g.store.GetIngredient(ctx, ingID)
}

// GetAvailable returns the on-hand quantity for an ingredient. A negative
// level means the ledger's core guarantee has been violated and is
// reported as corruption rather than papered over.
func (g *Galley) GetAvailable(ctx context.Context, ingID id.IngredientID) (types.Quantity, error) {
	ing, err := g.store.GetIngredient(ctx, ingID)
	if err != nil {
		return types.Quantity{}, err
	}
	if ing.OnHand.IsNegative() {
		return types.Quantity{}, ErrStockCorrupted
	}
	return ing.OnHand, nil
}

// ListIngredients lists ingredients.
func (g *Galley) ListIngredients(ctx context.Context, opts ingredient.ListOpts) ([]*ingredient.Ingredient, error) {
	return g.store.ListIngredients(ctx, opts)
}

// LowStock returns every ingredient below its low-stock threshold.
func (g *Galley) LowStock(ctx context.Context) ([]*ingredient.Ingredient, error) {
	return g.store.ListIngredients(ctx, ingredient.ListOpts{BelowThreshold: true})
}

// Replenish adds delivered stock to an ingredient and journals the
// movement.
func (g *Galley) Replenish(ctx context.Context, ingID id.IngredientID, qty types.Quantity) error {
	if !qty.IsPositive() {
		return ValidationError{Field: "quantity", Message: "must be positive"}
	}

	if err := g.store.ReplenishStock(ctx, ingID, qty); err != nil {
		return err
	}

	g.recordMovements(stock.NewMovement(stock.MovementReplenish, ingID, id.ID{}, qty))

	ing, err := g.store.GetIngredient(ctx, ingID)
	if err == nil {
		g.plugins.EmitStockReplenished(ctx, ing)
	}
	return nil
}

// SetLowStockThreshold updates the alert threshold for an ingredient.
func (g *Galley) SetLowStockThreshold(ctx context.Context, ingID id.IngredientID, threshold types.Quantity) error {
	ing, err := g.store.GetIngredient(ctx, ingID)
	if err != nil {
		return err
	}
	ing.LowStockThreshold = threshold
	ing.Touch()
	return g.store.UpdateIngredient(ctx, ing)
}

// StockMovements queries the stock journal.
func (g *Galley) StockMovements(ctx context.Context, opts stock.QueryOpts) ([]*stock.Movement, error) {
	return g.store.QueryMovements(ctx, opts)
}

// PurgeMovements deletes journal entries older than the given time and
// returns how many were removed.
func (g *Galley) PurgeMovements(ctx context.Context, before time.Time) (int64, error) {
	return g.store.PurgeMovements(ctx, before)
}

// ──────────────────────────────────────────────────
// Menu Management
// ──────────────────────────────────────────────────

// AddMenuItem adds a sellable item. Every recipe line must reference a
// registered ingredient with a positive quantity.
func (g *Galley) AddMenuItem(ctx context.Context, item *menu.MenuItem) error {
	if item.Name == "" {
		return ValidationError{Field: "name", Message: "must not be empty"}
	}
	if !item.Price.IsPositive() {
		return ValidationError{Field: "price", Message: "must be positive"}
	}
	if len(item.Recipe) == 0 {
		return ErrEmptyRecipe
	}
	for _, line := range item.Recipe {
		if !line.Quantity.IsPositive() {
			return ValidationError{Field: "recipe", Message: "quantities must be positive"}
		}
		if _, err := g.store.GetIngredient(ctx, line.IngredientID); err != nil {
			return err
		}
	}

	if item.ID.IsNil() {
		item.ID = id.NewMenuItemID()
	}
	item.Entity = types.NewEntity()

	if err := g.store.CreateMenuItem(ctx, item); err != nil {
		return err
	}

	g.plugins.EmitMenuItemCreated(ctx, item)
	return nil
}

// GetMenuItem retrieves a menu item by ID.
func (g *Galley) GetMenuItem(ctx context.Context, itemID id.MenuItemID) (*menu.MenuItem, error) {
	return g.store.GetMenuItem(ctx, itemID)
}

// UpdateMenuItem replaces a menu item's price, recipe, and metadata.
// Orders already placed keep their snapshots and are unaffected.
func (g *Galley) UpdateMenuItem(ctx context.Context, item *menu.MenuItem) error {
	old, err := g.store.GetMenuItem(ctx, item.ID)
	if err != nil {
		return err
	}
	if len(item.Recipe) == 0 {
		return ErrEmptyRecipe
	}
	for _, line := range item.Recipe {
		if _, err := g.store.GetIngredient(ctx, line.IngredientID); err != nil {
			return err
		}
	}

	item.CreatedAt = old.CreatedAt
	item.Touch()
	if err := g.store.UpdateMenuItem(ctx, item); err != nil {
		return err
	}

	g.plugins.EmitMenuItemUpdated(ctx, old, item)
	return nil
}

// RemoveMenuItem takes an item off the menu. Existing orders for it are
// untouched.
func (g *Galley) RemoveMenuItem(ctx context.Context, itemID id.MenuItemID) error {
	if err := g.store.DeleteMenuItem(ctx, itemID); err != nil {
		return err
	}
	g.plugins.EmitMenuItemRemoved(ctx, itemID.String())
	return nil
}

// ListMenu lists menu items.
func (g *Galley) ListMenu(ctx context.Context, opts menu.ListOpts) ([]*menu.MenuItem, error) {
	return g.store.ListMenuItems(ctx, opts)
}

// ──────────────────────────────────────────────────
// Table Management
// ──────────────────────────────────────────────────

// RegisterTable adds a dining table. Table numbers are unique.
func (g *Galley) RegisterTable(ctx context.Context, number, capacity int) (*table.Table, error) {
	if number <= 0 {
		return nil, ValidationError{Field: "number", Message: "must be positive"}
	}
	tbl := &table.Table{
		Entity:   types.NewEntity(),
		ID:       id.NewTableID(),
		Number:   number,
		Capacity: capacity,
	}
	if err := g.store.CreateTable(ctx, tbl); err != nil {
		return nil, err
	}
	return tbl, nil
}

// GetTableByNumber retrieves a table by its number.
func (g *Galley) GetTableByNumber(ctx context.Context, number int) (*table.Table, error) {
	return g.store.GetTableByNumber(ctx, number)
}

// ListTables lists tables.
func (g *Galley) ListTables(ctx context.Context, opts table.ListOpts) ([]*table.Table, error) {
	return g.store.ListTables(ctx, opts)
}
