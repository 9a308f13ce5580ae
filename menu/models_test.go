package menu

import (
	"testing"

	"github.com/xraph/galley/id"
	"github.com/xraph/galley/ingredient"
	"github.com/xraph/galley/types"
)

func TestRequirementsFor(t *testing.T) {
	flour := id.NewIngredientID()
	cheese := id.NewIngredientID()

	pizza := &MenuItem{
		Name: "Pizza Margherita",
		Recipe: []RecipeLine{
			{IngredientID: flour, Quantity: types.Kilograms(500)},
			{IngredientID: cheese, Quantity: types.Kilograms(200)},
		},
	}

	reqs := pizza.RequirementsFor(3)
	if len(reqs) != 2 {
		t.Fatalf("got %d requirements, want 2", len(reqs))
	}
	if reqs[0].Quantity.Amount != 1500 {
		t.Errorf("flour requirement = %v, want 1.5 kg", reqs[0].Quantity)
	}
	if reqs[1].Quantity.Amount != 600 {
		t.Errorf("cheese requirement = %v, want 0.6 kg", reqs[1].Quantity)
	}
}

func TestMergeRequirementsCombinesSharedIngredients(t *testing.T) {
	flour := id.NewIngredientID()
	cheese := id.NewIngredientID()
	tomato := id.NewIngredientID()

	pizza := []ingredient.Requirement{
		{IngredientID: flour, Quantity: types.Kilograms(500)},
		{IngredientID: cheese, Quantity: types.Kilograms(200)},
	}
	lasagna := []ingredient.Requirement{
		{IngredientID: flour, Quantity: types.Kilograms(300)},
		{IngredientID: tomato, Quantity: types.Kilograms(400)},
	}

	merged := MergeRequirements(pizza, lasagna)
	if len(merged) != 3 {
		t.Fatalf("got %d merged requirements, want 3", len(merged))
	}

	// First-seen order is preserved.
	if merged[0].IngredientID != flour {
		t.Errorf("merged[0] = %s, want flour first", merged[0].IngredientID)
	}
	if merged[0].Quantity.Amount != 800 {
		t.Errorf("flour total = %v, want 0.8 kg", merged[0].Quantity)
	}
	if merged[1].IngredientID != cheese || merged[1].Quantity.Amount != 200 {
		t.Errorf("merged[1] = %v, want cheese 0.2 kg", merged[1])
	}
	if merged[2].IngredientID != tomato || merged[2].Quantity.Amount != 400 {
		t.Errorf("merged[2] = %v, want tomato 0.4 kg", merged[2])
	}
}

func TestMergeRequirementsEmpty(t *testing.T) {
	if merged := MergeRequirements(); len(merged) != 0 {
		t.Errorf("MergeRequirements() = %v, want empty", merged)
	}
	if merged := MergeRequirements(nil, nil); len(merged) != 0 {
		t.Errorf("MergeRequirements(nil, nil) = %v, want empty", merged)
	}
}

func TestMergeRequirementsSingleList(t *testing.T) {
	flour := id.NewIngredientID()

	// The same ingredient appearing twice in one list is still combined.
	list := []ingredient.Requirement{
		{IngredientID: flour, Quantity: types.Kilograms(100)},
		{IngredientID: flour, Quantity: types.Kilograms(250)},
	}
	merged := MergeRequirements(list)
	if len(merged) != 1 {
		t.Fatalf("got %d merged requirements, want 1", len(merged))
	}
	if merged[0].Quantity.Amount != 350 {
		t.Errorf("total = %v, want 0.35 kg", merged[0].Quantity)
	}
}
