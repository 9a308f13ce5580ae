package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

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

// compile-time interface check
var _ galleystore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("galley/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("galley/sqlite: migration failed: %w", err)
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
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetIngredient(ctx context.Context, ingID id.IngredientID) (*ingredient.Ingredient, error) {
	m := new(ingredientModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", ingID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, galley.ErrIngredientNotFound
		}
		return nil, err
	}
	return fromIngredientModel(m)
}

func (s *Store) ListIngredients(ctx context.Context, opts ingredient.ListOpts) ([]*ingredient.Ingredient, error) {
	var models []ingredientModel
	q := s.sdb.NewSelect(&models)

	if opts.BelowThreshold {
		q = q.Where("threshold_amount > 0").
			Where("on_hand_amount < threshold_amount")
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("name ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
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
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return galley.ErrIngredientNotFound
	}
	return nil
}

// DeductStock applies each requirement through a guarded update whose
// predicate refuses to let the level go negative. SQLite serializes
// writers, so the last unit goes to exactly one order. When a row fails
// the guard, the deductions already applied are rolled back and the
// shortfalls re-read and reported.
func (s *Store) DeductStock(ctx context.Context, reqs []ingredient.Requirement) error {
	deducted := make([]ingredient.Requirement, 0, len(reqs))

	for _, req := range reqs {
		res, err := s.sdb.NewUpdate((*ingredientModel)(nil)).
			Set("on_hand_amount = on_hand_amount - ?", req.Quantity.Amount).
			Set("updated_at = ?", now()).
			Where("id = ?", req.IngredientID.String()).
			Where("on_hand_amount >= ?", req.Quantity.Amount).
			Exec(ctx)
		if err != nil {
			s.rollbackDeductions(ctx, deducted)
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			s.rollbackDeductions(ctx, deducted)
			return err
		}
		if rows == 0 {
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
		_, _ = s.sdb.NewUpdate((*ingredientModel)(nil)).
			Set("on_hand_amount = on_hand_amount + ?", req.Quantity.Amount).
			Set("updated_at = ?", now()).
			Where("id = ?", req.IngredientID.String()).
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
		res, err := s.sdb.NewUpdate((*ingredientModel)(nil)).
			Set("on_hand_amount = on_hand_amount + ?", req.Quantity.Amount).
			Set("updated_at = ?", now()).
			Where("id = ?", req.IngredientID.String()).
			Exec(ctx)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return galley.ErrIngredientNotFound
		}
	}
	return nil
}

func (s *Store) ReplenishStock(ctx context.Context, ingID id.IngredientID, qty types.Quantity) error {
	res, err := s.sdb.NewUpdate((*ingredientModel)(nil)).
		Set("on_hand_amount = on_hand_amount + ?", qty.Amount).
		Set("updated_at = ?", now()).
		Where("id = ?", ingID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return galley.ErrIngredientNotFound
	}
	return nil
}

// ==================== Menu Store ====================

func (s *Store) CreateMenuItem(ctx context.Context, item *menu.MenuItem) error {
	m := toMenuItemModel(item)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetMenuItem(ctx context.Context, itemID id.MenuItemID) (*menu.MenuItem, error) {
	m := new(menuItemModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", itemID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, galley.ErrMenuItemNotFound
		}
		return nil, err
	}
	return fromMenuItemModel(m)
}

func (s *Store) ListMenuItems(ctx context.Context, opts menu.ListOpts) ([]*menu.MenuItem, error) {
	var models []menuItemModel
	q := s.sdb.NewSelect(&models)

	if opts.Kind != "" {
		q = q.Where("kind = ?", string(opts.Kind))
	}
	if opts.Category != "" {
		q = q.Where("category = ?", string(opts.Category))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("name ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
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
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return galley.ErrMenuItemNotFound
	}
	return nil
}

func (s *Store) DeleteMenuItem(ctx context.Context, itemID id.MenuItemID) error {
	res, err := s.sdb.NewDelete((*menuItemModel)(nil)).
		Where("id = ?", itemID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return galley.ErrMenuItemNotFound
	}
	return nil
}

// ==================== Order Store ====================

func (s *Store) CreateOrder(ctx context.Context, o *order.Order) error {
	m := toOrderModel(o)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetOrder(ctx context.Context, orderID id.OrderID) (*order.Order, error) {
	m := new(orderModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", orderID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, galley.ErrOrderNotFound
		}
		return nil, err
	}
	return fromOrderModel(m)
}

func (s *Store) ListOrders(ctx context.Context, opts order.ListOpts) ([]*order.Order, error) {
	var models []orderModel
	q := s.sdb.NewSelect(&models)

	if opts.Status != "" {
		q = q.Where("status = ?", string(opts.Status))
	}
	if opts.Type != "" {
		q = q.Where("type = ?", string(opts.Type))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
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

// TransitionOrder compare-and-swaps the status column. Zero rows affected
// with the order present means another writer moved it first.
func (s *Store) TransitionOrder(ctx context.Context, orderID id.OrderID, from, to order.Status, at time.Time) error {
	q := s.sdb.NewUpdate((*orderModel)(nil)).
		Set("status = ?", string(to)).
		Set("updated_at = ?", at)

	switch to {
	case order.StatusCancelled:
		q = q.Set("cancelled_at = ?", at)
	case order.StatusBilled:
		q = q.Set("billed_at = ?", at)
	}

	q = q.Where("id = ?", orderID.String()).
		Where("status = ?", string(from))

	res, err := q.Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := s.GetOrder(ctx, orderID); err != nil {
			return err
		}
		return galley.ErrConflict
	}
	return nil
}

// ==================== Invoice Store ====================

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	m := toInvoiceModel(inv)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if existing, gerr := s.GetInvoiceByOrder(ctx, inv.OrderID); gerr == nil && existing != nil {
			return galley.ErrAlreadyBilled
		}
		return err
	}
	return nil
}

func (s *Store) GetInvoice(ctx context.Context, invID id.InvoiceID) (*invoice.Invoice, error) {
	m := new(invoiceModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", invID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, galley.ErrInvoiceNotFound
		}
		return nil, err
	}
	return fromInvoiceModel(m)
}

func (s *Store) GetInvoiceByOrder(ctx context.Context, orderID id.OrderID) (*invoice.Invoice, error) {
	m := new(invoiceModel)
	err := s.sdb.NewSelect(m).
		Where("order_id = ?", orderID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, galley.ErrInvoiceNotFound
		}
		return nil, err
	}
	return fromInvoiceModel(m)
}

func (s *Store) ListInvoices(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	var models []invoiceModel
	q := s.sdb.NewSelect(&models)

	if !opts.Start.IsZero() {
		q = q.Where("issued_at >= ?", opts.Start)
	}
	if !opts.End.IsZero() {
		q = q.Where("issued_at <= ?", opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("issued_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
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
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if existing, gerr := s.GetTableByNumber(ctx, tbl.Number); gerr == nil && existing != nil {
			return galley.ErrDuplicateTable
		}
		return err
	}
	return nil
}

func (s *Store) GetTable(ctx context.Context, tableID id.TableID) (*table.Table, error) {
	m := new(tableModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", tableID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, galley.ErrTableNotFound
		}
		return nil, err
	}
	return fromTableModel(m)
}

func (s *Store) GetTableByNumber(ctx context.Context, number int) (*table.Table, error) {
	m := new(tableModel)
	err := s.sdb.NewSelect(m).
		Where("number = ?", number).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, galley.ErrTableNotFound
		}
		return nil, err
	}
	return fromTableModel(m)
}

func (s *Store) ListTables(ctx context.Context, opts table.ListOpts) ([]*table.Table, error) {
	var models []tableModel
	q := s.sdb.NewSelect(&models)

	if opts.OccupiedOnly {
		q = q.Where("active_orders != '[]'")
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("number ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
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
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return galley.ErrTableNotFound
	}
	return nil
}

// ==================== Journal Store ====================

func (s *Store) InsertMovements(ctx context.Context, movements []*stock.Movement) error {
	if len(movements) == 0 {
		return nil
	}
	models := make([]movementModel, len(movements))
	for i, mv := range movements {
		models[i] = *toMovementModel(mv)
	}
	_, err := s.sdb.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) QueryMovements(ctx context.Context, opts stock.QueryOpts) ([]*stock.Movement, error) {
	var models []movementModel
	q := s.sdb.NewSelect(&models)

	if !opts.IngredientID.IsNil() {
		q = q.Where("ingredient_id = ?", opts.IngredientID.String())
	}
	if !opts.OrderID.IsNil() {
		q = q.Where("order_id = ?", opts.OrderID.String())
	}
	if opts.Type != "" {
		q = q.Where("type = ?", string(opts.Type))
	}
	if !opts.Start.IsZero() {
		q = q.Where("timestamp >= ?", opts.Start)
	}
	if !opts.End.IsZero() {
		q = q.Where("timestamp <= ?", opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("timestamp ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
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
	res, err := s.sdb.NewDelete((*movementModel)(nil)).
		Where("timestamp < ?", before).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return rows, nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
