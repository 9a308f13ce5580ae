package galley_test

import (
	"context"
	"log"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/galley"
	"github.com/xraph/galley/ingredient"
	"github.com/xraph/galley/invoice"
	"github.com/xraph/galley/menu"
	"github.com/xraph/galley/order"
	"github.com/xraph/galley/store/memory"
	"github.com/xraph/galley/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from README
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use PostgreSQL in production)
		store := memory.New()

		// Initialize Galley
		g := galley.New(store,
			galley.WithLogger(slog.Default()),
			galley.WithMovementConfig(100, 5*time.Second),
			galley.WithLowStockInterval(time.Minute),
		)

		// Start the engine
		ctx := context.Background()
		if err := g.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer g.Stop()

		// Register ingredients
		flour := &ingredient.Ingredient{
			Name:              "Flour",
			Unit:              "kg",
			OnHand:            galley.Kilograms(10000), // 10 kg
			LowStockThreshold: galley.Kilograms(2000),
		}
		if err := g.RegisterIngredient(ctx, flour); err != nil {
			t.Fatal(err)
		}

		cheese := &ingredient.Ingredient{
			Name:   "Cheese",
			Unit:   "kg",
			OnHand: galley.Kilograms(4000),
		}
		if err := g.RegisterIngredient(ctx, cheese); err != nil {
			t.Fatal(err)
		}

		// Add a menu item with its recipe
		pizza := &menu.MenuItem{
			Name:     "Pizza Margherita",
			Kind:     menu.KindDish,
			Category: menu.CategoryMain,
			Price:    galley.HNL(18500), // L185.00
			Recipe: []menu.RecipeLine{
				{IngredientID: flour.ID, Quantity: galley.Kilograms(500)},
				{IngredientID: cheese.ID, Quantity: galley.Kilograms(200)},
			},
		}
		if err := g.AddMenuItem(ctx, pizza); err != nil {
			t.Fatal(err)
		}

		// Place an order
		o, err := g.PlaceOrder(ctx, order.Request{
			Type:  order.TypeDineIn,
			Items: []order.RequestItem{{MenuItemID: pizza.ID, Quantity: 2}},
		})
		if err != nil {
			t.Fatal(err)
		}

		// Walk it through the kitchen
		if err := g.StartPreparation(ctx, o.ID); err != nil {
			t.Fatal(err)
		}
		if err := g.MarkReady(ctx, o.ID); err != nil {
			t.Fatal(err)
		}

		// Bill it
		inv, err := g.BillOrder(ctx, o.ID, invoice.PaymentCash)
		if err != nil {
			t.Fatal(err)
		}

		log.Printf("Invoice issued: %s\n", inv.Total.String())
	})

	// Test Money type examples
	t.Run("MoneyExamples", func(t *testing.T) {
		// Constructors
		_ = types.USD(4900)        // $49.00
		_ = types.HNL(18500)       // L185.00
		_ = types.ZeroMoney("usd") // $0.00

		// Arithmetic
		m1 := types.USD(100)
		m2 := types.USD(200)
		_ = m1.Add(m2)     // $3.00
		_ = m1.Multiply(3) // $3.00

		// Comparison
		if m1.LessThan(m2) {
			// m1 is less than m2
		}

		// Formatting
		_ = m1.String()      // "$1.00"
		_ = m1.FormatMajor() // "1.00"
	})

	// Test Quantity type examples
	t.Run("QuantityExamples", func(t *testing.T) {
		// Constructors
		_ = types.Kilograms(2500) // 2.5 kg
		_ = types.Liters(750)     // 0.75 l
		_ = types.Count(3)        // 3 units

		// Arithmetic
		q1 := types.Kilograms(500)
		q2 := types.Kilograms(200)
		_ = q1.Add(q2)  // 0.7 kg
		_ = q1.Scale(4) // 2 kg
		_ = q1.Covers(q2)

		// Formatting
		_ = q1.String() // "0.5 kg"
	})
}
