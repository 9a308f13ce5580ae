package menu

import (
	"github.com/xraph/galley/id"
	"github.com/xraph/galley/ingredient"
	"github.com/xraph/galley/types"
)

// Kind distinguishes dishes from drinks.
type Kind string

const (
	KindDish  Kind = "dish"
	KindDrink Kind = "drink"
)

// Category groups dishes on the menu.
type Category string

const (
	CategoryStarter Category = "starter"
	CategoryMain    Category = "main"
	CategoryDessert Category = "dessert"
)

// MenuItem is a sellable product together with its recipe. The recipe is
// read-only during order processing: order creation snapshots both the
// price and the resolved ingredient quantities, so later edits never
// affect orders already placed.
type MenuItem struct {
	types.Entity
	ID          id.MenuItemID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Kind        Kind          `json:"kind"`
	Category    Category      `json:"category,omitempty"`
	Alcoholic   bool          `json:"alcoholic,omitempty"`
	Price       types.Money   `json:"price"`
	Recipe      []RecipeLine  `json:"recipe"`
}

// RecipeLine is one ingredient demand per unit of the menu item.
type RecipeLine struct {
	IngredientID id.IngredientID `json:"ingredient_id"`
	Quantity     types.Quantity  `json:"quantity"`
}

// RequirementsFor multiplies the per-unit recipe by the ordered quantity.
func (m *MenuItem) RequirementsFor(qty int64) []ingredient.Requirement {
	reqs := make([]ingredient.Requirement, len(m.Recipe))
	for i, line := range m.Recipe {
		reqs[i] = ingredient.Requirement{
			IngredientID: line.IngredientID,
			Quantity:     line.Quantity.Scale(qty),
		}
	}
	return reqs
}

// MergeRequirements consolidates demands for ingredients shared across line
// items into a single requirement per ingredient, preserving first-seen
// order. The stock ledger must see exactly one consolidated demand per
// ingredient per order: checking the same ingredient twice in isolation
// both under-counts cumulative demand and can reject satisfiable orders.
func MergeRequirements(lists ...[]ingredient.Requirement) []ingredient.Requirement {
	merged := make([]ingredient.Requirement, 0)
	index := make(map[string]int)

	for _, list := range lists {
		for _, req := range list {
			key := req.IngredientID.String()
			if at, ok := index[key]; ok {
				merged[at].Quantity = merged[at].Quantity.Add(req.Quantity)
				continue
			}
			index[key] = len(merged)
			merged = append(merged, req)
		}
	}
	return merged
}

// ListOpts filters menu listings.
type ListOpts struct {
	Kind     Kind
	Category Category
	Limit    int
	Offset   int
}
