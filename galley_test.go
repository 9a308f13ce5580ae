package galley_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/galley"
	"github.com/xraph/galley/id"
	"github.com/xraph/galley/ingredient"
	"github.com/xraph/galley/invoice"
	"github.com/xraph/galley/menu"
	"github.com/xraph/galley/order"
	"github.com/xraph/galley/store"
	"github.com/xraph/galley/store/memory"
	"github.com/xraph/galley/types"
)

// kitchen is a small fixture: an engine over the memory store with a
// flour and cheese ledger and one pizza on the menu.
type kitchen struct {
	g      *galley.Galley
	flour  *ingredient.Ingredient
	cheese *ingredient.Ingredient
	pizza  *menu.MenuItem
}

func newKitchen(t *testing.T, flourGrams, cheeseGrams int64) *kitchen {
	t.Helper()
	return newKitchenOn(t, memory.New(), flourGrams, cheeseGrams)
}

func newKitchenOn(t *testing.T, s store.Store, flourGrams, cheeseGrams int64) *kitchen {
	t.Helper()
	ctx := context.Background()
	g := galley.New(s)

	flour := &ingredient.Ingredient{
		Name:   "Flour",
		Unit:   "kg",
		OnHand: types.Kilograms(flourGrams),
	}
	cheese := &ingredient.Ingredient{
		Name:   "Cheese",
		Unit:   "kg",
		OnHand: types.Kilograms(cheeseGrams),
	}
	for _, ing := range []*ingredient.Ingredient{flour, cheese} {
		if err := g.RegisterIngredient(ctx, ing); err != nil {
			t.Fatal(err)
		}
	}

	pizza := &menu.MenuItem{
		Name:     "Pizza Margherita",
		Kind:     menu.KindDish,
		Category: menu.CategoryMain,
		Price:    types.HNL(18500),
		Recipe: []menu.RecipeLine{
			{IngredientID: flour.ID, Quantity: types.Kilograms(500)},
			{IngredientID: cheese.ID, Quantity: types.Kilograms(200)},
		},
	}
	if err := g.AddMenuItem(ctx, pizza); err != nil {
		t.Fatal(err)
	}

	return &kitchen{g: g, flour: flour, cheese: cheese, pizza: pizza}
}

func (k *kitchen) onHand(t *testing.T, ing *ingredient.Ingredient) types.Quantity {
	t.Helper()
	qty, err := k.g.GetAvailable(context.Background(), ing.ID)
	if err != nil {
		t.Fatal(err)
	}
	return qty
}

func (k *kitchen) orderPizzas(t *testing.T, qty int64) *order.Order {
	t.Helper()
	o, err := k.g.PlaceOrder(context.Background(), order.Request{
		Type:  order.TypeDineIn,
		Items: []order.RequestItem{{MenuItemID: k.pizza.ID, Quantity: qty}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestPlaceOrderDeductsStock(t *testing.T) {
	k := newKitchen(t, 10000, 4000)

	o := k.orderPizzas(t, 2)

	if o.Status != order.StatusPending {
		t.Errorf("status = %s, want pending", o.Status)
	}
	if got := k.onHand(t, k.flour); got.Amount != 9000 {
		t.Errorf("flour = %v, want 9 kg", got)
	}
	if got := k.onHand(t, k.cheese); got.Amount != 3600 {
		t.Errorf("cheese = %v, want 3.6 kg", got)
	}
	if got := o.Subtotal(); got.Amount != 37000 {
		t.Errorf("subtotal = %v, want L370.00", got)
	}
}

func TestPlaceOrderMergesSharedIngredients(t *testing.T) {
	ctx := context.Background()
	k := newKitchen(t, 10000, 4000)

	bread := &menu.MenuItem{
		Name:  "Garlic Bread",
		Kind:  menu.KindDish,
		Price: types.HNL(4500),
		Recipe: []menu.RecipeLine{
			{IngredientID: k.flour.ID, Quantity: types.Kilograms(300)},
		},
	}
	if err := k.g.AddMenuItem(ctx, bread); err != nil {
		t.Fatal(err)
	}

	o, err := k.g.PlaceOrder(ctx, order.Request{
		Items: []order.RequestItem{
			{MenuItemID: k.pizza.ID, Quantity: 1},
			{MenuItemID: bread.ID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	// 500g from the pizza plus 2x300g from the bread, one merged line.
	var flourDeducted types.Quantity
	for _, d := range o.Deductions {
		if d.IngredientID == k.flour.ID {
			if !flourDeducted.IsZero() {
				t.Fatal("flour appears twice in the deduction snapshot")
			}
			flourDeducted = d.Quantity
		}
	}
	if flourDeducted.Amount != 1100 {
		t.Errorf("flour deduction = %v, want 1.1 kg", flourDeducted)
	}
	if got := k.onHand(t, k.flour); got.Amount != 8900 {
		t.Errorf("flour = %v, want 8.9 kg", got)
	}
}

func TestPlaceOrderInsufficientStockDeductsNothing(t *testing.T) {
	// Exactly enough for two pizzas.
	k := newKitchen(t, 1000, 400)

	k.orderPizzas(t, 2)

	if got := k.onHand(t, k.flour); !got.IsZero() {
		t.Fatalf("flour = %v, want zero", got)
	}
	if got := k.onHand(t, k.cheese); !got.IsZero() {
		t.Fatalf("cheese = %v, want zero", got)
	}

	_, err := k.g.PlaceOrder(context.Background(), order.Request{
		Items: []order.RequestItem{{MenuItemID: k.pizza.ID, Quantity: 1}},
	})
	var ise *galley.InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatalf("PlaceOrder = %v, want InsufficientStockError", err)
	}
	if len(ise.Shortfalls) != 2 {
		t.Fatalf("got %d shortfalls, want both flour and cheese", len(ise.Shortfalls))
	}
	for _, sf := range ise.Shortfalls {
		switch sf.Name {
		case "Flour":
			if sf.Shortfall.Amount != 500 {
				t.Errorf("flour shortfall = %v, want 0.5 kg", sf.Shortfall)
			}
		case "Cheese":
			if sf.Shortfall.Amount != 200 {
				t.Errorf("cheese shortfall = %v, want 0.2 kg", sf.Shortfall)
			}
		default:
			t.Errorf("unexpected shortfall for %s", sf.Name)
		}
		if !sf.Available.IsZero() {
			t.Errorf("%s available = %v, want zero", sf.Name, sf.Available)
		}
	}

	if !galley.IsInsufficientStock(err) {
		t.Error("IsInsufficientStock = false")
	}
	if got := k.onHand(t, k.flour); !got.IsZero() {
		t.Errorf("failed order deducted flour: %v", got)
	}
}

func TestCancelRestoresDeductionSnapshot(t *testing.T) {
	ctx := context.Background()
	k := newKitchen(t, 1000, 400)

	o := k.orderPizzas(t, 2)

	// Shrink the recipe after placement. The restore must follow the
	// snapshot taken at placement, not the edited recipe.
	edited := *k.pizza
	edited.Recipe = []menu.RecipeLine{
		{IngredientID: k.flour.ID, Quantity: types.Kilograms(100)},
	}
	if err := k.g.UpdateMenuItem(ctx, &edited); err != nil {
		t.Fatal(err)
	}

	if err := k.g.CancelOrder(ctx, o.ID); err != nil {
		t.Fatal(err)
	}

	if got := k.onHand(t, k.flour); got.Amount != 1000 {
		t.Errorf("flour after cancel = %v, want 1 kg", got)
	}
	if got := k.onHand(t, k.cheese); got.Amount != 400 {
		t.Errorf("cheese after cancel = %v, want 0.4 kg", got)
	}

	got, err := k.g.GetOrder(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != order.StatusCancelled {
		t.Errorf("status = %s, want cancelled", got.Status)
	}
	if got.CancelledAt == nil {
		t.Error("CancelledAt not set")
	}
}

func TestOrderLifecycleToBilled(t *testing.T) {
	ctx := context.Background()
	k := newKitchen(t, 10000, 4000)

	o := k.orderPizzas(t, 2)

	if err := k.g.StartPreparation(ctx, o.ID); err != nil {
		t.Fatal(err)
	}
	if err := k.g.MarkReady(ctx, o.ID); err != nil {
		t.Fatal(err)
	}

	inv, err := k.g.BillOrder(ctx, o.ID, invoice.PaymentCard)
	if err != nil {
		t.Fatal(err)
	}
	if inv.Total.Amount != 37000 {
		t.Errorf("total = %v, want L370.00", inv.Total)
	}
	if inv.PaymentMethod != invoice.PaymentCard {
		t.Errorf("payment method = %s, want card", inv.PaymentMethod)
	}

	got, err := k.g.GetOrder(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != order.StatusBilled {
		t.Errorf("status = %s, want billed", got.Status)
	}
	if got.BilledAt == nil {
		t.Error("BilledAt not set")
	}

	// Billing consumes the stock for good.
	if got := k.onHand(t, k.flour); got.Amount != 9000 {
		t.Errorf("flour after billing = %v, want 9 kg", got)
	}
}

func TestInvalidTransitions(t *testing.T) {
	ctx := context.Background()
	k := newKitchen(t, 10000, 4000)

	t.Run("BillPending", func(t *testing.T) {
		o := k.orderPizzas(t, 1)
		_, err := k.g.BillOrder(ctx, o.ID, invoice.PaymentCash)
		if !galley.IsInvalidTransition(err) {
			t.Errorf("billing a pending order = %v, want InvalidTransitionError", err)
		}
	})

	t.Run("CancelReady", func(t *testing.T) {
		o := k.orderPizzas(t, 1)
		if err := k.g.StartPreparation(ctx, o.ID); err != nil {
			t.Fatal(err)
		}
		if err := k.g.MarkReady(ctx, o.ID); err != nil {
			t.Fatal(err)
		}
		err := k.g.CancelOrder(ctx, o.ID)
		if !galley.IsInvalidTransition(err) {
			t.Errorf("cancelling a ready order = %v, want InvalidTransitionError", err)
		}
	})

	t.Run("PrepareBilled", func(t *testing.T) {
		o := k.orderPizzas(t, 1)
		if err := k.g.StartPreparation(ctx, o.ID); err != nil {
			t.Fatal(err)
		}
		if err := k.g.MarkReady(ctx, o.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := k.g.BillOrder(ctx, o.ID, invoice.PaymentCash); err != nil {
			t.Fatal(err)
		}
		err := k.g.StartPreparation(ctx, o.ID)
		if !galley.IsInvalidTransition(err) {
			t.Errorf("preparing a billed order = %v, want InvalidTransitionError", err)
		}
	})
}

func TestDoubleBillIsConflict(t *testing.T) {
	ctx := context.Background()
	k := newKitchen(t, 10000, 4000)

	o := k.orderPizzas(t, 2)
	if err := k.g.StartPreparation(ctx, o.ID); err != nil {
		t.Fatal(err)
	}
	if err := k.g.MarkReady(ctx, o.ID); err != nil {
		t.Fatal(err)
	}

	first, err := k.g.BillOrder(ctx, o.ID, invoice.PaymentCash)
	if err != nil {
		t.Fatal(err)
	}

	_, err = k.g.BillOrder(ctx, o.ID, invoice.PaymentCash)
	if !errors.Is(err, galley.ErrAlreadyBilled) {
		t.Fatalf("second bill = %v, want ErrAlreadyBilled", err)
	}
	if !galley.IsConflict(err) {
		t.Error("IsConflict(ErrAlreadyBilled) = false")
	}

	got, err := k.g.GetInvoiceByOrder(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != first.ID {
		t.Errorf("GetInvoiceByOrder returned %s, want the original %s", got.ID, first.ID)
	}
}

func TestPriceSnapshotSurvivesMenuEdit(t *testing.T) {
	ctx := context.Background()
	k := newKitchen(t, 10000, 4000)

	o := k.orderPizzas(t, 2)

	edited := *k.pizza
	edited.Price = types.HNL(25000)
	if err := k.g.UpdateMenuItem(ctx, &edited); err != nil {
		t.Fatal(err)
	}

	if err := k.g.StartPreparation(ctx, o.ID); err != nil {
		t.Fatal(err)
	}
	if err := k.g.MarkReady(ctx, o.ID); err != nil {
		t.Fatal(err)
	}
	inv, err := k.g.BillOrder(ctx, o.ID, invoice.PaymentCash)
	if err != nil {
		t.Fatal(err)
	}

	// 2 x L185.00 at placement-time prices, not 2 x L250.00.
	if inv.Total.Amount != 37000 {
		t.Errorf("total = %v, want L370.00", inv.Total)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	ctx := context.Background()
	k := newKitchen(t, 10000, 4000)

	_, err := k.g.PlaceOrder(ctx, order.Request{})
	if !errors.Is(err, galley.ErrEmptyOrder) {
		t.Errorf("empty order = %v, want ErrEmptyOrder", err)
	}

	_, err = k.g.PlaceOrder(ctx, order.Request{
		Type:  order.TypeDelivery,
		Items: []order.RequestItem{{MenuItemID: k.pizza.ID, Quantity: 1}},
	})
	var ve galley.ValidationError
	if !errors.As(err, &ve) || ve.Field != "delivery_address" {
		t.Errorf("delivery without address = %v, want delivery_address validation error", err)
	}

	_, err = k.g.PlaceOrder(ctx, order.Request{
		Items: []order.RequestItem{{MenuItemID: k.pizza.ID, Quantity: 0}},
	})
	if !errors.As(err, &ve) || ve.Field != "quantity" {
		t.Errorf("zero quantity = %v, want quantity validation error", err)
	}

	// Validation failures must not touch stock.
	if got := k.onHand(t, k.flour); got.Amount != 10000 {
		t.Errorf("flour = %v, want untouched 10 kg", got)
	}
}

func TestPlaceOrderRejectsExcessiveQuantity(t *testing.T) {
	ctx := context.Background()
	k := newKitchen(t, 10000, 4000)

	// A quantity this large would wrap the int64 stock and money
	// multiplications and slip through as a zero-cost order.
	_, err := k.g.PlaceOrder(ctx, order.Request{
		Items: []order.RequestItem{{MenuItemID: k.pizza.ID, Quantity: 1 << 62}},
	})
	var ve galley.ValidationError
	if !errors.As(err, &ve) || ve.Field != "quantity" {
		t.Fatalf("oversized order = %v, want quantity validation error", err)
	}

	_, err = k.g.PlaceOrder(ctx, order.Request{
		Items: []order.RequestItem{{MenuItemID: k.pizza.ID, Quantity: galley.MaxLineItemQuantity + 1}},
	})
	if !errors.As(err, &ve) || ve.Field != "quantity" {
		t.Fatalf("over-limit order = %v, want quantity validation error", err)
	}

	if got := k.onHand(t, k.flour); got.Amount != 10000 {
		t.Errorf("flour = %v, want untouched 10 kg", got)
	}
	active, err := k.g.ActiveOrders(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Errorf("rejected order was persisted: %v", active)
	}
}

// gateStore parks TransitionOrder for one order until released, holding
// the engine's in-flight lock open for that order.
type gateStore struct {
	*memory.Store
	target  id.OrderID
	entered chan struct{}
	release chan struct{}
}

func (s *gateStore) TransitionOrder(ctx context.Context, orderID id.OrderID, from, to order.Status, at time.Time) error {
	if orderID == s.target {
		close(s.entered)
		<-s.release
	}
	return s.Store.TransitionOrder(ctx, orderID, from, to, at)
}

func TestTransitionConflictWhileInFlight(t *testing.T) {
	ctx := context.Background()
	st := &gateStore{
		Store:   memory.New(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	k := newKitchenOn(t, st, 10000, 4000)

	parked := k.orderPizzas(t, 1)
	other := k.orderPizzas(t, 1)
	st.target = parked.ID

	done := make(chan error, 1)
	go func() { done <- k.g.StartPreparation(ctx, parked.ID) }()
	<-st.entered

	// The parked transition holds the order's lock: a second operation
	// on the same order loses immediately instead of queueing.
	if err := k.g.StartPreparation(ctx, parked.ID); !errors.Is(err, galley.ErrConflict) {
		t.Errorf("concurrent transition = %v, want ErrConflict", err)
	}
	if _, err := k.g.BillOrder(ctx, parked.ID, invoice.PaymentCash); !errors.Is(err, galley.ErrConflict) {
		t.Errorf("concurrent bill = %v, want ErrConflict", err)
	}

	// Other orders are serialized independently.
	if err := k.g.StartPreparation(ctx, other.ID); err != nil {
		t.Fatalf("transition on unrelated order: %v", err)
	}

	close(st.release)
	if err := <-done; err != nil {
		t.Fatalf("parked transition: %v", err)
	}

	got, err := k.g.GetOrder(ctx, parked.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != order.StatusInPreparation {
		t.Errorf("status = %s, want in_preparation", got.Status)
	}
}

func TestTableAttachDetach(t *testing.T) {
	ctx := context.Background()
	k := newKitchen(t, 10000, 4000)

	if _, err := k.g.RegisterTable(ctx, 5, 4); err != nil {
		t.Fatal(err)
	}

	o, err := k.g.PlaceOrder(ctx, order.Request{
		Type:        order.TypeDineIn,
		TableNumber: 5,
		Items:       []order.RequestItem{{MenuItemID: k.pizza.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	tbl, err := k.g.GetTableByNumber(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !tbl.Occupied() {
		t.Fatal("table not occupied after order placement")
	}
	if len(tbl.ActiveOrders) != 1 || tbl.ActiveOrders[0] != o.ID {
		t.Errorf("active orders = %v, want [%s]", tbl.ActiveOrders, o.ID)
	}

	if err := k.g.CancelOrder(ctx, o.ID); err != nil {
		t.Fatal(err)
	}

	tbl, err = k.g.GetTableByNumber(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Occupied() {
		t.Errorf("table still holds %v after cancellation", tbl.ActiveOrders)
	}
}

func TestReplenishAndLowStock(t *testing.T) {
	ctx := context.Background()
	k := newKitchen(t, 10000, 4000)

	if err := k.g.SetLowStockThreshold(ctx, k.cheese.ID, types.Kilograms(5000)); err != nil {
		t.Fatal(err)
	}

	low, err := k.g.LowStock(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(low) != 1 || low[0].Name != "Cheese" {
		t.Fatalf("low stock = %v, want only Cheese", low)
	}

	if err := k.g.Replenish(ctx, k.cheese.ID, types.Kilograms(2000)); err != nil {
		t.Fatal(err)
	}
	if got := k.onHand(t, k.cheese); got.Amount != 6000 {
		t.Errorf("cheese after replenish = %v, want 6 kg", got)
	}

	low, err = k.g.LowStock(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(low) != 0 {
		t.Errorf("low stock after replenish = %v, want none", low)
	}

	err = k.g.Replenish(ctx, k.cheese.ID, types.Kilograms(-100))
	var ve galley.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("negative replenish = %v, want validation error", err)
	}
}

func TestActiveOrders(t *testing.T) {
	ctx := context.Background()
	k := newKitchen(t, 10000, 4000)

	kept := k.orderPizzas(t, 1)
	gone := k.orderPizzas(t, 1)
	if err := k.g.CancelOrder(ctx, gone.ID); err != nil {
		t.Fatal(err)
	}

	active, err := k.g.ActiveOrders(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].ID != kept.ID {
		t.Errorf("active orders = %v, want only %s", active, kept.ID)
	}
}

func TestAddMenuItemValidation(t *testing.T) {
	ctx := context.Background()
	k := newKitchen(t, 10000, 4000)

	err := k.g.AddMenuItem(ctx, &menu.MenuItem{
		Name:  "Air Sandwich",
		Price: types.HNL(1000),
	})
	if !errors.Is(err, galley.ErrEmptyRecipe) {
		t.Errorf("recipe-less item = %v, want ErrEmptyRecipe", err)
	}

	err = k.g.AddMenuItem(ctx, &menu.MenuItem{
		Name:  "Mystery Dish",
		Price: types.HNL(1000),
		Recipe: []menu.RecipeLine{
			{IngredientID: k.flour.ID, Quantity: types.Kilograms(100)},
			{Quantity: types.Kilograms(50)},
		},
	})
	if !galley.IsNotFound(err) {
		t.Errorf("unknown recipe ingredient = %v, want a not-found error", err)
	}
}
