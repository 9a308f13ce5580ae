// Package galley provides a composable restaurant order processing engine for Go applications.
//
// Galley is designed as a library, not a service. Import it directly into your Go
// application for maximum performance and flexibility. It provides:
//
//   - An atomic stock ledger: orders deduct every ingredient or none at all
//   - A recipe catalog that resolves menu items into consolidated ingredient demand
//   - A strict order lifecycle with per-order serialization of transitions
//   - Idempotent billing with exactly one invoice per order
//   - A batched stock movement journal for audit and reporting
//   - Low-stock monitoring with pluggable alerts
//
// # Quick Start
//
// Create a galley instance with your preferred store:
//
//	import (
//	    "github.com/xraph/galley"
//	    "github.com/xraph/galley/store/postgres"
//	)
//
//	// Initialize store (postgres.New takes a *grove.DB; the memory
//	// store needs no backing database)
//	store := postgres.New(db)
//
//	// Create galley
//	g := galley.New(store)
//
//	// Start the engine (begins background workers)
//	if err := g.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer g.Stop()
//
// # Core Concepts
//
// Ingredients are stocked raw materials tracked in fixed-point quantities:
//
//	flour := &ingredient.Ingredient{
//	    Name:   "Flour",
//	    Unit:   "kg",
//	    OnHand: galley.Kilograms(10000), // 10 kg
//	}
//	g.RegisterIngredient(ctx, flour)
//
// Menu items carry a price and a recipe; placing an order resolves the
// recipes, merges shared ingredients, and deducts stock atomically:
//
//	o, err := g.PlaceOrder(ctx, order.Request{
//	    Type:        order.TypeDineIn,
//	    TableNumber: 4,
//	    Items:       []order.RequestItem{{MenuItemID: pizza.ID, Quantity: 2}},
//	})
//
// Orders move through a strict lifecycle:
//
//	pending → in_preparation → ready → billed
//
// with cancellation allowed only from pending or in_preparation. Billing a
// ready order issues its one and only invoice:
//
//	inv, err := g.BillOrder(ctx, o.ID, invoice.PaymentCash)
//
// # Correctness
//
// All stock arithmetic uses integer fixed-point quantities and all monetary
// calculations use integer minor units, so there are no floating-point
// rounding surprises. Stock deduction is all-or-nothing: when two orders
// race for the last units, exactly one wins and the other is rejected with
// a full shortfall report. Cancellation restores exactly the quantities the
// order deducted, taken from its own snapshot, so recipe edits made after
// placement cannot skew the ledger.
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	ing_01h2xcejqtf2nbrexx3vqjhp41   // Ingredient ID
//	ord_01h2xcejqtf2nbrexx3vqjhp41   // Order ID
//	inv_01h455vb4pex5vsknk084sn02q   // Invoice ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package galley
