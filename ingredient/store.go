package ingredient

import (
	"context"

	"github.com/xraph/galley/id"
	"github.com/xraph/galley/types"
)

// Store is the ingredient-facing subset of the storage contract.
// The unified store interface in package store declares these methods
// explicitly; this interface exists for collaborators that only need
// stock access.
type Store interface {
	Create(ctx context.Context, ing *Ingredient) error
	Get(ctx context.Context, ingID id.IngredientID) (*Ingredient, error)
	List(ctx context.Context, opts ListOpts) ([]*Ingredient, error)
	Update(ctx context.Context, ing *Ingredient) error

	// DeductStock decrements every requirement as a single atomic unit.
	// Either all requirements are applied or none are.
	DeductStock(ctx context.Context, reqs []Requirement) error

	// RestoreStock reverses a prior deduction.
	RestoreStock(ctx context.Context, reqs []Requirement) error

	// ReplenishStock adds delivered stock to one ingredient.
	ReplenishStock(ctx context.Context, ingID id.IngredientID, qty types.Quantity) error
}
