package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	galley "github.com/xraph/galley"
	"github.com/xraph/galley/id"
	"github.com/xraph/galley/ingredient"
	"github.com/xraph/galley/invoice"
	"github.com/xraph/galley/menu"
	"github.com/xraph/galley/order"
	"github.com/xraph/galley/stock"
	galleystore "github.com/xraph/galley/store"
	"github.com/xraph/galley/table"
	"github.com/xraph/galley/types"
)

// Collection name constants.
const (
	colIngredients = "galley_ingredients"
	colMenuItems   = "galley_menu_items"
	colOrders      = "galley_orders"
	colInvoices    = "galley_invoices"
	colTables      = "galley_tables"
	colMovements   = "galley_stock_movements"
)

// compile-time interface check
var _ galleystore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all galley collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("galley/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Ingredient Store ====================

func (s *Store) CreateIngredient(ctx context.Context, ing *ingredient.Ingredient) error {
	m := toIngredientModel(ing)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("galley/mongo: create ingredient: %w", err)
	}
	return nil
}

func (s *Store) GetIngredient(ctx context.Context, ingID id.IngredientID) (*ingredient.Ingredient, error) {
	var m ingredientModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": ingID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, galley.ErrIngredientNotFound
		}
		return nil, fmt.Errorf("galley/mongo: get ingredient: %w", err)
	}
	return fromIngredientModel(&m)
}

func (s *Store) ListIngredients(ctx context.Context, opts ingredient.ListOpts) ([]*ingredient.Ingredient, error) {
	var models []ingredientModel

	filter := bson.M{}
	if opts.BelowThreshold {
		filter["threshold_amount"] = bson.M{"$gt": 0}
		filter["$expr"] = bson.M{"$lt": bson.A{"$on_hand_amount", "$threshold_amount"}}
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "name", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("galley/mongo: list ingredients: %w", err)
	}

	result := make([]*ingredient.Ingredient, len(models))
	for i := range models {
		ing, err := fromIngredientModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = ing
	}
	return result, nil
}

func (s *Store) UpdateIngredient(ctx context.Context, ing *ingredient.Ingredient) error {
	m := toIngredientModel(ing)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("galley/mongo: update ingredient: %w", err)
	}
	if res.MatchedCount() == 0 {
		return galley.ErrIngredientNotFound
	}
	return nil
}

// DeductStock decrements each ingredient through a filtered $inc whose
// predicate refuses to match a document holding less than the requested
// amount. A miss means insufficient stock on that row, so the updates
// already applied are compensated and the shortfalls re-read.
func (s *Store) DeductStock(ctx context.Context, reqs []ingredient.Requirement) error {
	deducted := make([]ingredient.Requirement, 0, len(reqs))

	for _, req := range reqs {
		res, err := s.mdb.NewUpdate((*ingredientModel)(nil)).
			Filter(bson.M{
				"_id":            req.IngredientID.String(),
				"on_hand_amount": bson.M{"$gte": req.Quantity.Amount},
			}).
			SetUpdate(bson.M{
				"$inc": bson.M{"on_hand_amount": -req.Quantity.Amount},
				"$set": bson.M{"updated_at": now()},
			}).
			Exec(ctx)
		if err != nil {
			s.rollbackDeductions(ctx, deducted)
			return fmt.Errorf("galley/mongo: deduct stock: %w", err)
		}
		if res.MatchedCount() == 0 {
			s.rollbackDeductions(ctx, deducted)
			return s.buildShortfallError(ctx, reqs)
		}
		deducted = append(deducted, req)
	}
	return nil
}

func (s *Store) rollbackDeductions(ctx context.Context, deducted []ingredient.Requirement) {
	for _, req := range deducted {
		//nolint:errcheck // compensation is best-effort
		_, _ = s.mdb.NewUpdate((*ingredientModel)(nil)).
			Filter(bson.M{"_id": req.IngredientID.String()}).
			SetUpdate(bson.M{
				"$inc": bson.M{"on_hand_amount": req.Quantity.Amount},
				"$set": bson.M{"updated_at": now()},
			}).
			Exec(ctx)
	}
}

func (s *Store) buildShortfallError(ctx context.Context, reqs []ingredient.Requirement) error {
	var shortfalls []galley.Shortfall
	for _, req := range reqs {
		ing, err := s.GetIngredient(ctx, req.IngredientID)
		if err != nil {
			return err
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
	if len(shortfalls) == 0 {
		return galley.ErrConflict
	}
	return &galley.InsufficientStockError{Shortfalls: shortfalls}
}

func (s *Store) RestoreStock(ctx context.Context, reqs []ingredient.Requirement) error {
	for _, req := range reqs {
		res, err := s.mdb.NewUpdate((*ingredientModel)(nil)).
			Filter(bson.M{"_id": req.IngredientID.String()}).
			SetUpdate(bson.M{
				"$inc": bson.M{"on_hand_amount": req.Quantity.Amount},
				"$set": bson.M{"updated_at": now()},
			}).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("galley/mongo: restore stock: %w", err)
		}
		if res.MatchedCount() == 0 {
			return galley.ErrIngredientNotFound
		}
	}
	return nil
}

func (s *Store) ReplenishStock(ctx context.Context, ingID id.IngredientID, qty types.Quantity) error {
	res, err := s.mdb.NewUpdate((*ingredientModel)(nil)).
		Filter(bson.M{"_id": ingID.String()}).
		SetUpdate(bson.M{
			"$inc": bson.M{"on_hand_amount": qty.Amount},
			"$set": bson.M{"updated_at": now()},
		}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("galley/mongo: replenish stock: %w", err)
	}
	if res.MatchedCount() == 0 {
		return galley.ErrIngredientNotFound
	}
	return nil
}

// ==================== Menu Store ====================

func (s *Store) CreateMenuItem(ctx context.Context, item *menu.MenuItem) error {
	m := toMenuItemModel(item)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("galley/mongo: create menu item: %w", err)
	}
	return nil
}

func (s *Store) GetMenuItem(ctx context.Context, itemID id.MenuItemID) (*menu.MenuItem, error) {
	var m menuItemModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": itemID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, galley.ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("galley/mongo: get menu item: %w", err)
	}
	return fromMenuItemModel(&m)
}

func (s *Store) ListMenuItems(ctx context.Context, opts menu.ListOpts) ([]*menu.MenuItem, error) {
	var models []menuItemModel

	filter := bson.M{}
	if opts.Kind != "" {
		filter["kind"] = string(opts.Kind)
	}
	if opts.Category != "" {
		filter["category"] = string(opts.Category)
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "name", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("galley/mongo: list menu items: %w", err)
	}

	result := make([]*menu.MenuItem, len(models))
	for i := range models {
		item, err := fromMenuItemModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = item
	}
	return result, nil
}

func (s *Store) UpdateMenuItem(ctx context.Context, item *menu.MenuItem) error {
	m := toMenuItemModel(item)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("galley/mongo: update menu item: %w", err)
	}
	if res.MatchedCount() == 0 {
		return galley.ErrMenuItemNotFound
	}
	return nil
}

func (s *Store) DeleteMenuItem(ctx context.Context, itemID id.MenuItemID) error {
	res, err := s.mdb.NewDelete((*menuItemModel)(nil)).
		Filter(bson.M{"_id": itemID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("galley/mongo: delete menu item: %w", err)
	}
	if res.DeletedCount() == 0 {
		return galley.ErrMenuItemNotFound
	}
	return nil
}

// ==================== Order Store ====================

func (s *Store) CreateOrder(ctx context.Context, o *order.Order) error {
	m := toOrderModel(o)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("galley/mongo: create order: %w", err)
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, orderID id.OrderID) (*order.Order, error) {
	var m orderModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": orderID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, galley.ErrOrderNotFound
		}
		return nil, fmt.Errorf("galley/mongo: get order: %w", err)
	}
	return fromOrderModel(&m)
}

func (s *Store) ListOrders(ctx context.Context, opts order.ListOpts) ([]*order.Order, error) {
	var models []orderModel

	filter := bson.M{}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	if opts.Type != "" {
		filter["type"] = string(opts.Type)
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("galley/mongo: list orders: %w", err)
	}

	result := make([]*order.Order, len(models))
	for i := range models {
		o, err := fromOrderModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = o
	}
	return result, nil
}

// TransitionOrder compare-and-swaps the status field. A filter miss with
// the order present means another writer moved it first.
func (s *Store) TransitionOrder(ctx context.Context, orderID id.OrderID, from, to order.Status, at time.Time) error {
	set := bson.M{
		"status":     string(to),
		"updated_at": at,
	}
	switch to {
	case order.StatusCancelled:
		set["cancelled_at"] = at
	case order.StatusBilled:
		set["billed_at"] = at
	}

	res, err := s.mdb.NewUpdate((*orderModel)(nil)).
		Filter(bson.M{
			"_id":    orderID.String(),
			"status": string(from),
		}).
		SetUpdate(bson.M{"$set": set}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("galley/mongo: transition order: %w", err)
	}
	if res.MatchedCount() == 0 {
		if _, err := s.GetOrder(ctx, orderID); err != nil {
			return err
		}
		return galley.ErrConflict
	}
	return nil
}

// ==================== Invoice Store ====================

// CreateInvoice relies on the unique order_id index to guarantee a single
// invoice per order.
func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	m := toInvoiceModel(inv)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return galley.ErrAlreadyBilled
		}
		return fmt.Errorf("galley/mongo: create invoice: %w", err)
	}
	return nil
}

func (s *Store) GetInvoice(ctx context.Context, invID id.InvoiceID) (*invoice.Invoice, error) {
	var m invoiceModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": invID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, galley.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("galley/mongo: get invoice: %w", err)
	}
	return fromInvoiceModel(&m)
}

func (s *Store) GetInvoiceByOrder(ctx context.Context, orderID id.OrderID) (*invoice.Invoice, error) {
	var m invoiceModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"order_id": orderID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, galley.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("galley/mongo: get invoice by order: %w", err)
	}
	return fromInvoiceModel(&m)
}

func (s *Store) ListInvoices(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	var models []invoiceModel

	filter := bson.M{}
	if !opts.Start.IsZero() || !opts.End.IsZero() {
		issued := bson.M{}
		if !opts.Start.IsZero() {
			issued["$gte"] = opts.Start
		}
		if !opts.End.IsZero() {
			issued["$lte"] = opts.End
		}
		filter["issued_at"] = issued
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "issued_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("galley/mongo: list invoices: %w", err)
	}

	result := make([]*invoice.Invoice, len(models))
	for i := range models {
		inv, err := fromInvoiceModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = inv
	}
	return result, nil
}

// ==================== Table Store ====================

func (s *Store) CreateTable(ctx context.Context, tbl *table.Table) error {
	m := toTableModel(tbl)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return galley.ErrDuplicateTable
		}
		return fmt.Errorf("galley/mongo: create table: %w", err)
	}
	return nil
}

func (s *Store) GetTable(ctx context.Context, tableID id.TableID) (*table.Table, error) {
	var m tableModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": tableID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, galley.ErrTableNotFound
		}
		return nil, fmt.Errorf("galley/mongo: get table: %w", err)
	}
	return fromTableModel(&m)
}

func (s *Store) GetTableByNumber(ctx context.Context, number int) (*table.Table, error) {
	var m tableModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"number": number}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, galley.ErrTableNotFound
		}
		return nil, fmt.Errorf("galley/mongo: get table by number: %w", err)
	}
	return fromTableModel(&m)
}

func (s *Store) ListTables(ctx context.Context, opts table.ListOpts) ([]*table.Table, error) {
	var models []tableModel

	filter := bson.M{}
	if opts.OccupiedOnly {
		filter["active_orders.0"] = bson.M{"$exists": true}
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "number", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("galley/mongo: list tables: %w", err)
	}

	result := make([]*table.Table, len(models))
	for i := range models {
		tbl, err := fromTableModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = tbl
	}
	return result, nil
}

func (s *Store) UpdateTable(ctx context.Context, tbl *table.Table) error {
	m := toTableModel(tbl)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("galley/mongo: update table: %w", err)
	}
	if res.MatchedCount() == 0 {
		return galley.ErrTableNotFound
	}
	return nil
}

// ==================== Journal Store ====================

func (s *Store) InsertMovements(ctx context.Context, movements []*stock.Movement) error {
	if len(movements) == 0 {
		return nil
	}
	for _, mv := range movements {
		m := toMovementModel(mv)
		_, err := s.mdb.NewInsert(m).Exec(ctx)
		if err != nil {
			return fmt.Errorf("galley/mongo: insert movement: %w", err)
		}
	}
	return nil
}

func (s *Store) QueryMovements(ctx context.Context, opts stock.QueryOpts) ([]*stock.Movement, error) {
	var models []movementModel

	filter := bson.M{}
	if !opts.IngredientID.IsNil() {
		filter["ingredient_id"] = opts.IngredientID.String()
	}
	if !opts.OrderID.IsNil() {
		filter["order_id"] = opts.OrderID.String()
	}
	if opts.Type != "" {
		filter["type"] = string(opts.Type)
	}
	if !opts.Start.IsZero() || !opts.End.IsZero() {
		ts := bson.M{}
		if !opts.Start.IsZero() {
			ts["$gte"] = opts.Start
		}
		if !opts.End.IsZero() {
			ts["$lte"] = opts.End
		}
		filter["timestamp"] = ts
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "timestamp", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("galley/mongo: query movements: %w", err)
	}

	result := make([]*stock.Movement, len(models))
	for i := range models {
		mv, err := fromMovementModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = mv
	}
	return result, nil
}

func (s *Store) PurgeMovements(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.mdb.NewDelete((*movementModel)(nil)).
		Filter(bson.M{"timestamp": bson.M{"$lt": before}}).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("galley/mongo: purge movements: %w", err)
	}
	return res.DeletedCount(), nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all galley collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colIngredients: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "threshold_amount", Value: 1}}},
		},
		colMenuItems: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "category", Value: 1}}},
		},
		colOrders: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "type", Value: 1}}},
			{Keys: bson.D{{Key: "table_number", Value: 1}}},
		},
		colInvoices: {
			{
				Keys:    bson.D{{Key: "order_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "issued_at", Value: 1}}},
		},
		colTables: {
			{
				Keys:    bson.D{{Key: "number", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colMovements: {
			{Keys: bson.D{{Key: "ingredient_id", Value: 1}, {Key: "timestamp", Value: 1}}},
			{Keys: bson.D{{Key: "order_id", Value: 1}}},
			{Keys: bson.D{{Key: "timestamp", Value: 1}}},
		},
	}
}
