package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xraph/galley"
	"github.com/xraph/galley/id"
	"github.com/xraph/galley/ingredient"
	"github.com/xraph/galley/invoice"
	"github.com/xraph/galley/menu"
	"github.com/xraph/galley/order"
	"github.com/xraph/galley/stock"
	"github.com/xraph/galley/table"
	"github.com/xraph/galley/types"
)

type Store struct {
	mu sync.RWMutex

	// Ingredient storage
	ingredients map[string]*ingredient.Ingredient

	// Menu storage
	menuItems map[string]*menu.MenuItem

	// Order storage
	orders map[string]*order.Order

	// Invoice storage, plus an order index enforcing one invoice per order
	invoices       map[string]*invoice.Invoice
	invoiceByOrder map[string]string

	// Table storage
	tables map[string]*table.Table

	// Stock journal
	movements []stock.Movement
}

func New() *Store {
	return &Store{
		ingredients:    make(map[string]*ingredient.Ingredient),
		menuItems:      make(map[string]*menu.MenuItem),
		orders:         make(map[string]*order.Order),
		invoices:       make(map[string]*invoice.Invoice),
		invoiceByOrder: make(map[string]string),
		tables:         make(map[string]*table.Table),
		movements:      make([]stock.Movement, 0),
	}
}

// Ingredient Store implementation
func (s *Store) CreateIngredient(_ context.Context, ing *ingredient.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ingredients[ing.ID.String()]; exists {
		return galley.ErrAlreadyExists
	}
	s.ingredients[ing.ID.String()] = ing
	return nil
}

func (s *Store) GetIngredient(_ context.Context, ingID id.IngredientID) (*ingredient.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if ing, ok := s.ingredients[ingID.String()]; ok {
		return ing, nil
	}
	return nil, galley.ErrIngredientNotFound
}

func (s *Store) ListIngredients(_ context.Context, opts ingredient.ListOpts) ([]*ingredient.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*ingredient.Ingredient, 0)
	for _, ing := range s.ingredients {
		if opts.BelowThreshold && !ing.Below() {
			continue
		}
		result = append(result, ing)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return paginate(result, opts.Offset, opts.Limit), nil
}

func (s *Store) UpdateIngredient(_ context.Context, ing *ingredient.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ingredients[ing.ID.String()]; !exists {
		return galley.ErrIngredientNotFound
	}
	s.ingredients[ing.ID.String()] = ing
	return nil
}

// DeductStock checks every requirement under one lock and deducts only
// when all of them are covered. Racing callers serialize here, so the
// last unit goes to exactly one of them.
func (s *Store) DeductStock(_ context.Context, reqs []ingredient.Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var shortfalls []galley.Shortfall
	for _, req := range reqs {
		ing, ok := s.ingredients[req.IngredientID.String()]
		if !ok {
			return galley.ErrIngredientNotFound
		}
		if !ing.OnHand.Covers(req.Quantity) {
			shortfalls = append(shortfalls, galley.Shortfall{
				IngredientID: req.IngredientID,
				Name:         ing.Name,
				Requested:    req.Quantity,
				Available:    ing.OnHand,
				Shortfall:    ing.OnHand.Deficit(req.Quantity),
			})
		}
	}
	if len(shortfalls) > 0 {
		return &galley.InsufficientStockError{Shortfalls: shortfalls}
	}

	for _, req := range reqs {
		ing := s.ingredients[req.IngredientID.String()]
		ing.OnHand = ing.OnHand.Subtract(req.Quantity)
		ing.Touch()
	}
	return nil
}

func (s *Store) RestoreStock(_ context.Context, reqs []ingredient.Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, req := range reqs {
		ing, ok := s.ingredients[req.IngredientID.String()]
		if !ok {
			return galley.ErrIngredientNotFound
		}
		ing.OnHand = ing.OnHand.Add(req.Quantity)
		ing.Touch()
	}
	return nil
}

func (s *Store) ReplenishStock(_ context.Context, ingID id.IngredientID, qty types.Quantity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ing, ok := s.ingredients[ingID.String()]
	if !ok {
		return galley.ErrIngredientNotFound
	}
	ing.OnHand = ing.OnHand.Add(qty)
	ing.Touch()
	return nil
}

// Menu Store implementation
func (s *Store) CreateMenuItem(_ context.Context, item *menu.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.menuItems[item.ID.String()]; exists {
		return galley.ErrAlreadyExists
	}
	s.menuItems[item.ID.String()] = item
	return nil
}

func (s *Store) GetMenuItem(_ context.Context, itemID id.MenuItemID) (*menu.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if item, ok := s.menuItems[itemID.String()]; ok {
		return item, nil
	}
	return nil, galley.ErrMenuItemNotFound
}

func (s *Store) ListMenuItems(_ context.Context, opts menu.ListOpts) ([]*menu.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*menu.MenuItem, 0)
	for _, item := range s.menuItems {
		if opts.Kind != "" && item.Kind != opts.Kind {
			continue
		}
		if opts.Category != "" && item.Category != opts.Category {
			continue
		}
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return paginate(result, opts.Offset, opts.Limit), nil
}

func (s *Store) UpdateMenuItem(_ context.Context, item *menu.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.menuItems[item.ID.String()]; !exists {
		return galley.ErrMenuItemNotFound
	}
	s.menuItems[item.ID.String()] = item
	return nil
}

func (s *Store) DeleteMenuItem(_ context.Context, itemID id.MenuItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.menuItems[itemID.String()]; !exists {
		return galley.ErrMenuItemNotFound
	}
	delete(s.menuItems, itemID.String())
	return nil
}

// Order Store implementation
func (s *Store) CreateOrder(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[o.ID.String()]; exists {
		return galley.ErrAlreadyExists
	}
	s.orders[o.ID.String()] = o
	return nil
}

func (s *Store) GetOrder(_ context.Context, orderID id.OrderID) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if o, ok := s.orders[orderID.String()]; ok {
		return o, nil
	}
	return nil, galley.ErrOrderNotFound
}

func (s *Store) ListOrders(_ context.Context, opts order.ListOpts) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*order.Order, 0)
	for _, o := range s.orders {
		if opts.Status != "" && o.Status != opts.Status {
			continue
		}
		if opts.Type != "" && o.Type != opts.Type {
			continue
		}
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return paginate(result, opts.Offset, opts.Limit), nil
}

func (s *Store) TransitionOrder(_ context.Context, orderID id.OrderID, from, to order.Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID.String()]
	if !ok {
		return galley.ErrOrderNotFound
	}
	if o.Status != from {
		return galley.ErrConflict
	}
	o.Status = to
	switch to {
	case order.StatusCancelled:
		o.CancelledAt = &at
	case order.StatusBilled:
		o.BilledAt = &at
	}
	o.Touch()
	return nil
}

// Invoice Store implementation
func (s *Store) CreateInvoice(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoiceByOrder[inv.OrderID.String()]; exists {
		return galley.ErrAlreadyBilled
	}
	s.invoices[inv.ID.String()] = inv
	s.invoiceByOrder[inv.OrderID.String()] = inv.ID.String()
	return nil
}

func (s *Store) GetInvoice(_ context.Context, invID id.InvoiceID) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if inv, ok := s.invoices[invID.String()]; ok {
		return inv, nil
	}
	return nil, galley.ErrInvoiceNotFound
}

func (s *Store) GetInvoiceByOrder(_ context.Context, orderID id.OrderID) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if invID, ok := s.invoiceByOrder[orderID.String()]; ok {
		return s.invoices[invID], nil
	}
	return nil, galley.ErrInvoiceNotFound
}

func (s *Store) ListInvoices(_ context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*invoice.Invoice, 0)
	for _, inv := range s.invoices {
		if !opts.Start.IsZero() && inv.IssuedAt.Before(opts.Start) {
			continue
		}
		if !opts.End.IsZero() && inv.IssuedAt.After(opts.End) {
			continue
		}
		result = append(result, inv)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].IssuedAt.Before(result[j].IssuedAt)
	})

	return paginate(result, opts.Offset, opts.Limit), nil
}

// Table Store implementation
func (s *Store) CreateTable(_ context.Context, tbl *table.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.tables {
		if existing.Number == tbl.Number {
			return galley.ErrDuplicateTable
		}
	}
	s.tables[tbl.ID.String()] = tbl
	return nil
}

func (s *Store) GetTable(_ context.Context, tableID id.TableID) (*table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if tbl, ok := s.tables[tableID.String()]; ok {
		return tbl, nil
	}
	return nil, galley.ErrTableNotFound
}

func (s *Store) GetTableByNumber(_ context.Context, number int) (*table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tbl := range s.tables {
		if tbl.Number == number {
			return tbl, nil
		}
	}
	return nil, galley.ErrTableNotFound
}

func (s *Store) ListTables(_ context.Context, opts table.ListOpts) ([]*table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*table.Table, 0)
	for _, tbl := range s.tables {
		if opts.OccupiedOnly && !tbl.Occupied() {
			continue
		}
		result = append(result, tbl)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })

	return paginate(result, opts.Offset, opts.Limit), nil
}

func (s *Store) UpdateTable(_ context.Context, tbl *table.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tables[tbl.ID.String()]; !exists {
		return galley.ErrTableNotFound
	}
	s.tables[tbl.ID.String()] = tbl
	return nil
}

// Journal Store implementation
func (s *Store) InsertMovements(_ context.Context, movements []*stock.Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range movements {
		s.movements = append(s.movements, *m)
	}
	return nil
}

func (s *Store) QueryMovements(_ context.Context, opts stock.QueryOpts) ([]*stock.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*stock.Movement, 0)
	for i := range s.movements {
		m := &s.movements[i]
		if !opts.IngredientID.IsNil() && m.IngredientID.String() != opts.IngredientID.String() {
			continue
		}
		if !opts.OrderID.IsNil() && m.OrderID.String() != opts.OrderID.String() {
			continue
		}
		if opts.Type != "" && m.Type != opts.Type {
			continue
		}
		if !opts.Start.IsZero() && m.Timestamp.Before(opts.Start) {
			continue
		}
		if !opts.End.IsZero() && m.Timestamp.After(opts.End) {
			continue
		}
		result = append(result, m)
	}

	return paginate(result, opts.Offset, opts.Limit), nil
}

func (s *Store) PurgeMovements(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	kept := make([]stock.Movement, 0, len(s.movements))
	for _, m := range s.movements {
		if m.Timestamp.Before(before) {
			count++
		} else {
			kept = append(kept, m)
		}
	}
	s.movements = kept
	return count, nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}

// Helper functions
func paginate[T any](items []T, offset, limit int) []T {
	start := offset
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if limit == 0 || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
