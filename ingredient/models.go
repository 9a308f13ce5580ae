package ingredient

import (
	"github.com/xraph/galley/id"
	"github.com/xraph/galley/types"
)

// Ingredient is a stocked raw material. OnHand is mutated only through the
// store's atomic stock operations and is never negative.
type Ingredient struct {
	types.Entity
	ID                id.IngredientID `json:"id"`
	Name              string          `json:"name"`
	Unit              string          `json:"unit"`
	OnHand            types.Quantity  `json:"on_hand"`
	LowStockThreshold types.Quantity  `json:"low_stock_threshold"`
}

// Below reports whether the on-hand quantity has fallen below the
// low-stock threshold.
func (i *Ingredient) Below() bool {
	if i.LowStockThreshold.IsZero() {
		return false
	}
	return i.OnHand.LessThan(i.LowStockThreshold)
}

// Requirement is a demand for a quantity of one ingredient. Slices of
// Requirement are the currency between the recipe catalog, the stock
// operations, and an order's deduction snapshot.
type Requirement struct {
	IngredientID id.IngredientID `json:"ingredient_id"`
	Quantity     types.Quantity  `json:"quantity"`
}

// ListOpts filters ingredient listings.
type ListOpts struct {
	BelowThreshold bool
	Limit          int
	Offset         int
}
