package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xraph/galley"
	"github.com/xraph/galley/id"
	"github.com/xraph/galley/ingredient"
	"github.com/xraph/galley/invoice"
	"github.com/xraph/galley/order"
	"github.com/xraph/galley/stock"
	"github.com/xraph/galley/table"
	"github.com/xraph/galley/types"
)

func newIngredient(name string, onHand types.Quantity) *ingredient.Ingredient {
	return &ingredient.Ingredient{
		Entity: types.NewEntity(),
		ID:     id.NewIngredientID(),
		Name:   name,
		Unit:   onHand.Unit,
		OnHand: onHand,
	}
}

func TestDeductStockAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := New()

	flour := newIngredient("Flour", types.Kilograms(10000))
	cheese := newIngredient("Cheese", types.Kilograms(4000))
	if err := s.CreateIngredient(ctx, flour); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateIngredient(ctx, cheese); err != nil {
		t.Fatal(err)
	}

	// Flour is covered, cheese is short. Nothing must change.
	err := s.DeductStock(ctx, []ingredient.Requirement{
		{IngredientID: flour.ID, Quantity: types.Kilograms(5000)},
		{IngredientID: cheese.ID, Quantity: types.Kilograms(5000)},
	})

	var ise *galley.InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatalf("DeductStock = %v, want InsufficientStockError", err)
	}
	if len(ise.Shortfalls) != 1 {
		t.Fatalf("got %d shortfalls, want 1", len(ise.Shortfalls))
	}
	sf := ise.Shortfalls[0]
	if sf.Name != "Cheese" {
		t.Errorf("shortfall names %s, want Cheese", sf.Name)
	}
	if sf.Shortfall.Amount != 1000 {
		t.Errorf("shortfall = %v, want 1 kg", sf.Shortfall)
	}

	got, _ := s.GetIngredient(ctx, flour.ID)
	if got.OnHand.Amount != 10000 {
		t.Errorf("flour was deducted on a failed order: %v", got.OnHand)
	}
}

func TestDeductStockToExactlyZero(t *testing.T) {
	ctx := context.Background()
	s := New()

	flour := newIngredient("Flour", types.Kilograms(10000))
	if err := s.CreateIngredient(ctx, flour); err != nil {
		t.Fatal(err)
	}

	err := s.DeductStock(ctx, []ingredient.Requirement{
		{IngredientID: flour.ID, Quantity: types.Kilograms(10000)},
	})
	if err != nil {
		t.Fatalf("deducting to zero failed: %v", err)
	}

	got, _ := s.GetIngredient(ctx, flour.ID)
	if !got.OnHand.IsZero() {
		t.Errorf("on hand = %v, want zero", got.OnHand)
	}
}

func TestDeductStockConcurrentLastUnit(t *testing.T) {
	ctx := context.Background()
	s := New()

	egg := newIngredient("Egg", types.Count(1))
	if err := s.CreateIngredient(ctx, egg); err != nil {
		t.Fatal(err)
	}

	const racers = 16
	var wg sync.WaitGroup
	var winners int64
	var mu sync.Mutex

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.DeductStock(ctx, []ingredient.Requirement{
				{IngredientID: egg.ID, Quantity: types.Count(1)},
			})
			if err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("%d racers won the last unit, want exactly 1", winners)
	}
	got, _ := s.GetIngredient(ctx, egg.ID)
	if got.OnHand.IsNegative() {
		t.Errorf("stock went negative: %v", got.OnHand)
	}
}

func TestRestoreStockAfterDeduction(t *testing.T) {
	ctx := context.Background()
	s := New()

	flour := newIngredient("Flour", types.Kilograms(10000))
	if err := s.CreateIngredient(ctx, flour); err != nil {
		t.Fatal(err)
	}

	reqs := []ingredient.Requirement{
		{IngredientID: flour.ID, Quantity: types.Kilograms(3500)},
	}
	if err := s.DeductStock(ctx, reqs); err != nil {
		t.Fatal(err)
	}
	if err := s.RestoreStock(ctx, reqs); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetIngredient(ctx, flour.ID)
	if got.OnHand.Amount != 10000 {
		t.Errorf("on hand after restore = %v, want 10 kg", got.OnHand)
	}
}

func TestTransitionOrderCAS(t *testing.T) {
	ctx := context.Background()
	s := New()

	o := &order.Order{
		Entity: types.NewEntity(),
		ID:     id.NewOrderID(),
		Type:   order.TypeDineIn,
		Status: order.StatusPending,
	}
	if err := s.CreateOrder(ctx, o); err != nil {
		t.Fatal(err)
	}

	now := time.Now().UTC()
	if err := s.TransitionOrder(ctx, o.ID, order.StatusPending, order.StatusInPreparation, now); err != nil {
		t.Fatalf("first transition: %v", err)
	}

	// A second writer still holding the old status loses.
	err := s.TransitionOrder(ctx, o.ID, order.StatusPending, order.StatusCancelled, now)
	if !errors.Is(err, galley.ErrConflict) {
		t.Errorf("stale transition = %v, want ErrConflict", err)
	}

	err = s.TransitionOrder(ctx, id.NewOrderID(), order.StatusPending, order.StatusCancelled, now)
	if !errors.Is(err, galley.ErrOrderNotFound) {
		t.Errorf("unknown order = %v, want ErrOrderNotFound", err)
	}
}

func TestCreateInvoiceOnePerOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	orderID := id.NewOrderID()
	first := &invoice.Invoice{
		Entity:   types.NewEntity(),
		ID:       id.NewInvoiceID(),
		OrderID:  orderID,
		Subtotal: types.HNL(37000),
		Total:    types.HNL(37000),
		IssuedAt: time.Now().UTC(),
	}
	if err := s.CreateInvoice(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := &invoice.Invoice{
		Entity:   types.NewEntity(),
		ID:       id.NewInvoiceID(),
		OrderID:  orderID,
		IssuedAt: time.Now().UTC(),
	}
	err := s.CreateInvoice(ctx, second)
	if !errors.Is(err, galley.ErrAlreadyBilled) {
		t.Fatalf("second invoice = %v, want ErrAlreadyBilled", err)
	}

	// The original remains retrievable.
	got, err := s.GetInvoiceByOrder(ctx, orderID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != first.ID {
		t.Errorf("GetInvoiceByOrder returned %s, want %s", got.ID, first.ID)
	}
}

func TestCreateTableRejectsDuplicateNumber(t *testing.T) {
	ctx := context.Background()
	s := New()

	t1 := &table.Table{Entity: types.NewEntity(), ID: id.NewTableID(), Number: 7, Capacity: 4}
	if err := s.CreateTable(ctx, t1); err != nil {
		t.Fatal(err)
	}

	t2 := &table.Table{Entity: types.NewEntity(), ID: id.NewTableID(), Number: 7, Capacity: 2}
	if err := s.CreateTable(ctx, t2); !errors.Is(err, galley.ErrDuplicateTable) {
		t.Errorf("duplicate table = %v, want ErrDuplicateTable", err)
	}

	got, err := s.GetTableByNumber(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if got.Capacity != 4 {
		t.Errorf("table capacity = %d, want the original 4", got.Capacity)
	}
}

func TestListIngredientsBelowThreshold(t *testing.T) {
	ctx := context.Background()
	s := New()

	low := newIngredient("Basil", types.Kilograms(100))
	low.LowStockThreshold = types.Kilograms(500)
	ok := newIngredient("Flour", types.Kilograms(10000))
	ok.LowStockThreshold = types.Kilograms(1000)
	unset := newIngredient("Salt", types.Kilograms(50))

	for _, ing := range []*ingredient.Ingredient{low, ok, unset} {
		if err := s.CreateIngredient(ctx, ing); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListIngredients(ctx, ingredient.ListOpts{BelowThreshold: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "Basil" {
		t.Errorf("below threshold = %v, want only Basil", got)
	}
}

func TestMovementJournalQuery(t *testing.T) {
	ctx := context.Background()
	s := New()

	flour := id.NewIngredientID()
	cheese := id.NewIngredientID()
	orderID := id.NewOrderID()

	movements := []*stock.Movement{
		stock.NewMovement(stock.MovementDeduct, flour, orderID, types.Kilograms(500)),
		stock.NewMovement(stock.MovementDeduct, cheese, orderID, types.Kilograms(200)),
		stock.NewMovement(stock.MovementReplenish, flour, id.Nil, types.Kilograms(5000)),
	}
	if err := s.InsertMovements(ctx, movements); err != nil {
		t.Fatal(err)
	}

	byOrder, err := s.QueryMovements(ctx, stock.QueryOpts{OrderID: orderID})
	if err != nil {
		t.Fatal(err)
	}
	if len(byOrder) != 2 {
		t.Errorf("movements for order = %d, want 2", len(byOrder))
	}

	byType, err := s.QueryMovements(ctx, stock.QueryOpts{Type: stock.MovementReplenish})
	if err != nil {
		t.Fatal(err)
	}
	if len(byType) != 1 {
		t.Errorf("replenish movements = %d, want 1", len(byType))
	}

	byIngredient, err := s.QueryMovements(ctx, stock.QueryOpts{IngredientID: flour})
	if err != nil {
		t.Fatal(err)
	}
	if len(byIngredient) != 2 {
		t.Errorf("movements for flour = %d, want 2", len(byIngredient))
	}

	purged, err := s.PurgeMovements(ctx, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if purged != 3 {
		t.Errorf("purged %d movements, want 3", purged)
	}
	left, err := s.QueryMovements(ctx, stock.QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Errorf("%d movements left after purge, want 0", len(left))
	}
}

func TestPagination(t *testing.T) {
	ctx := context.Background()
	s := New()

	names := []string{"Anise", "Basil", "Cumin", "Dill", "Endive"}
	for _, name := range names {
		if err := s.CreateIngredient(ctx, newIngredient(name, types.Kilograms(1000))); err != nil {
			t.Fatal(err)
		}
	}

	page, err := s.ListIngredients(ctx, ingredient.ListOpts{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].Name != "Basil" || page[1].Name != "Cumin" {
		t.Errorf("page = %v, want [Basil Cumin]", page)
	}

	past, err := s.ListIngredients(ctx, ingredient.ListOpts{Offset: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(past) != 0 {
		t.Errorf("offset past end = %d items, want 0", len(past))
	}
}
