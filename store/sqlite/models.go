package sqlite

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/galley/id"
	"github.com/xraph/galley/ingredient"
	"github.com/xraph/galley/invoice"
	"github.com/xraph/galley/menu"
	"github.com/xraph/galley/order"
	"github.com/xraph/galley/stock"
	"github.com/xraph/galley/table"
	"github.com/xraph/galley/types"
)

// ==================== Ingredient models ====================

type ingredientModel struct {
	grove.BaseModel `grove:"table:galley_ingredients"`

	ID              string    `grove:"id,pk"`
	Name            string    `grove:"name"`
	Unit            string    `grove:"unit"`
	OnHandAmount    int64     `grove:"on_hand_amount"`
	ThresholdAmount int64     `grove:"threshold_amount"`
	CreatedAt       time.Time `grove:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at"`
}

func toIngredientModel(ing *ingredient.Ingredient) *ingredientModel {
	return &ingredientModel{
		ID:              ing.ID.String(),
		Name:            ing.Name,
		Unit:            ing.Unit,
		OnHandAmount:    ing.OnHand.Amount,
		ThresholdAmount: ing.LowStockThreshold.Amount,
		CreatedAt:       ing.CreatedAt,
		UpdatedAt:       ing.UpdatedAt,
	}
}

func fromIngredientModel(m *ingredientModel) (*ingredient.Ingredient, error) {
	ingID, err := id.ParseIngredientID(m.ID)
	if err != nil {
		return nil, err
	}
	return &ingredient.Ingredient{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:                ingID,
		Name:              m.Name,
		Unit:              m.Unit,
		OnHand:            types.Quantity{Amount: m.OnHandAmount, Unit: m.Unit},
		LowStockThreshold: types.Quantity{Amount: m.ThresholdAmount, Unit: m.Unit},
	}, nil
}

// ==================== Menu models ====================

type menuItemModel struct {
	grove.BaseModel `grove:"table:galley_menu_items"`

	ID            string          `grove:"id,pk"`
	Name          string          `grove:"name"`
	Description   string          `grove:"description"`
	Kind          string          `grove:"kind"`
	Category      string          `grove:"category"`
	Alcoholic     bool            `grove:"alcoholic"`
	PriceAmount   int64           `grove:"price_amount"`
	PriceCurrency string          `grove:"price_currency"`
	Recipe        json.RawMessage `grove:"recipe"`
	CreatedAt     time.Time       `grove:"created_at"`
	UpdatedAt     time.Time       `grove:"updated_at"`
}

func toMenuItemModel(item *menu.MenuItem) *menuItemModel {
	recipe, _ := json.Marshal(item.Recipe) //nolint:errcheck // best-effort

	return &menuItemModel{
		ID:            item.ID.String(),
		Name:          item.Name,
		Description:   item.Description,
		Kind:          string(item.Kind),
		Category:      string(item.Category),
		Alcoholic:     item.Alcoholic,
		PriceAmount:   item.Price.Amount,
		PriceCurrency: item.Price.Currency,
		Recipe:        recipe,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func fromMenuItemModel(m *menuItemModel) (*menu.MenuItem, error) {
	itemID, err := id.ParseMenuItemID(m.ID)
	if err != nil {
		return nil, err
	}

	var recipe []menu.RecipeLine
	if len(m.Recipe) > 0 {
		_ = json.Unmarshal(m.Recipe, &recipe) //nolint:errcheck // best-effort
	}

	return &menu.MenuItem{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:          itemID,
		Name:        m.Name,
		Description: m.Description,
		Kind:        menu.Kind(m.Kind),
		Category:    menu.Category(m.Category),
		Alcoholic:   m.Alcoholic,
		Price:       types.Money{Amount: m.PriceAmount, Currency: m.PriceCurrency},
		Recipe:      recipe,
	}, nil
}

// ==================== Order models ====================

type orderModel struct {
	grove.BaseModel `grove:"table:galley_orders"`

	ID              string          `grove:"id,pk"`
	Type            string          `grove:"type"`
	TableNumber     int             `grove:"table_number"`
	DeliveryAddress string          `grove:"delivery_address"`
	DeliveryPhone   string          `grove:"delivery_phone"`
	Status          string          `grove:"status"`
	LineItems       json.RawMessage `grove:"line_items"`
	Deductions      json.RawMessage `grove:"deductions"`
	CancelledAt     *time.Time      `grove:"cancelled_at"`
	BilledAt        *time.Time      `grove:"billed_at"`
	CreatedAt       time.Time       `grove:"created_at"`
	UpdatedAt       time.Time       `grove:"updated_at"`
}

func toOrderModel(o *order.Order) *orderModel {
	lineItems, _ := json.Marshal(o.LineItems)   //nolint:errcheck // best-effort
	deductions, _ := json.Marshal(o.Deductions) //nolint:errcheck // best-effort

	return &orderModel{
		ID:              o.ID.String(),
		Type:            string(o.Type),
		TableNumber:     o.TableNumber,
		DeliveryAddress: o.DeliveryAddress,
		DeliveryPhone:   o.DeliveryPhone,
		Status:          string(o.Status),
		LineItems:       lineItems,
		Deductions:      deductions,
		CancelledAt:     o.CancelledAt,
		BilledAt:        o.BilledAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func fromOrderModel(m *orderModel) (*order.Order, error) {
	orderID, err := id.ParseOrderID(m.ID)
	if err != nil {
		return nil, err
	}

	var lineItems []order.LineItem
	if len(m.LineItems) > 0 {
		_ = json.Unmarshal(m.LineItems, &lineItems) //nolint:errcheck // best-effort
	}
	var deductions []ingredient.Requirement
	if len(m.Deductions) > 0 {
		_ = json.Unmarshal(m.Deductions, &deductions) //nolint:errcheck // best-effort
	}

	return &order.Order{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:              orderID,
		Type:            order.Type(m.Type),
		TableNumber:     m.TableNumber,
		DeliveryAddress: m.DeliveryAddress,
		DeliveryPhone:   m.DeliveryPhone,
		Status:          order.Status(m.Status),
		LineItems:       lineItems,
		Deductions:      deductions,
		CancelledAt:     m.CancelledAt,
		BilledAt:        m.BilledAt,
	}, nil
}

// ==================== Invoice models ====================

type invoiceModel struct {
	grove.BaseModel `grove:"table:galley_invoices"`

	ID                  string    `grove:"id,pk"`
	OrderID             string    `grove:"order_id"`
	SubtotalAmountCents int64     `grove:"subtotal_amount_cents"`
	SubtotalCurrency    string    `grove:"subtotal_currency"`
	TotalAmountCents    int64     `grove:"total_amount_cents"`
	TotalCurrency       string    `grove:"total_currency"`
	PaymentMethod       string    `grove:"payment_method"`
	IssuedAt            time.Time `grove:"issued_at"`
	CreatedAt           time.Time `grove:"created_at"`
	UpdatedAt           time.Time `grove:"updated_at"`
}

func toInvoiceModel(inv *invoice.Invoice) *invoiceModel {
	return &invoiceModel{
		ID:                  inv.ID.String(),
		OrderID:             inv.OrderID.String(),
		SubtotalAmountCents: inv.Subtotal.Amount,
		SubtotalCurrency:    inv.Subtotal.Currency,
		TotalAmountCents:    inv.Total.Amount,
		TotalCurrency:       inv.Total.Currency,
		PaymentMethod:       string(inv.PaymentMethod),
		IssuedAt:            inv.IssuedAt,
		CreatedAt:           inv.CreatedAt,
		UpdatedAt:           inv.UpdatedAt,
	}
}

func fromInvoiceModel(m *invoiceModel) (*invoice.Invoice, error) {
	invID, err := id.ParseInvoiceID(m.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := id.ParseOrderID(m.OrderID)
	if err != nil {
		return nil, err
	}

	return &invoice.Invoice{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:            invID,
		OrderID:       orderID,
		Subtotal:      types.Money{Amount: m.SubtotalAmountCents, Currency: m.SubtotalCurrency},
		Total:         types.Money{Amount: m.TotalAmountCents, Currency: m.TotalCurrency},
		PaymentMethod: invoice.PaymentMethod(m.PaymentMethod),
		IssuedAt:      m.IssuedAt,
	}, nil
}

// ==================== Table models ====================

type tableModel struct {
	grove.BaseModel `grove:"table:galley_tables"`

	ID           string          `grove:"id,pk"`
	Number       int             `grove:"number"`
	Capacity     int             `grove:"capacity"`
	ActiveOrders json.RawMessage `grove:"active_orders"`
	CreatedAt    time.Time       `grove:"created_at"`
	UpdatedAt    time.Time       `grove:"updated_at"`
}

func toTableModel(tbl *table.Table) *tableModel {
	activeOrders, _ := json.Marshal(tbl.ActiveOrders) //nolint:errcheck // best-effort

	return &tableModel{
		ID:           tbl.ID.String(),
		Number:       tbl.Number,
		Capacity:     tbl.Capacity,
		ActiveOrders: activeOrders,
		CreatedAt:    tbl.CreatedAt,
		UpdatedAt:    tbl.UpdatedAt,
	}
}

func fromTableModel(m *tableModel) (*table.Table, error) {
	tableID, err := id.ParseTableID(m.ID)
	if err != nil {
		return nil, err
	}

	var activeOrders []id.OrderID
	if len(m.ActiveOrders) > 0 {
		_ = json.Unmarshal(m.ActiveOrders, &activeOrders) //nolint:errcheck // best-effort
	}

	return &table.Table{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:           tableID,
		Number:       m.Number,
		Capacity:     m.Capacity,
		ActiveOrders: activeOrders,
	}, nil
}

// ==================== Movement models ====================

type movementModel struct {
	grove.BaseModel `grove:"table:galley_stock_movements"`

	ID             string    `grove:"id,pk"`
	Type           string    `grove:"type"`
	IngredientID   string    `grove:"ingredient_id"`
	OrderID        string    `grove:"order_id"`
	QuantityAmount int64     `grove:"quantity_amount"`
	QuantityUnit   string    `grove:"quantity_unit"`
	Timestamp      time.Time `grove:"timestamp"`
}

func toMovementModel(mv *stock.Movement) *movementModel {
	orderID := ""
	if !mv.OrderID.IsNil() {
		orderID = mv.OrderID.String()
	}
	return &movementModel{
		ID:             mv.ID.String(),
		Type:           string(mv.Type),
		IngredientID:   mv.IngredientID.String(),
		OrderID:        orderID,
		QuantityAmount: mv.Quantity.Amount,
		QuantityUnit:   mv.Quantity.Unit,
		Timestamp:      mv.Timestamp,
	}
}

func fromMovementModel(m *movementModel) (*stock.Movement, error) {
	mvID, err := id.ParseMovementID(m.ID)
	if err != nil {
		return nil, err
	}
	ingID, err := id.ParseIngredientID(m.IngredientID)
	if err != nil {
		return nil, err
	}
	var orderID id.OrderID
	if m.OrderID != "" {
		orderID, err = id.ParseOrderID(m.OrderID)
		if err != nil {
			return nil, err
		}
	}

	return &stock.Movement{
		ID:           mvID,
		Type:         stock.MovementType(m.Type),
		IngredientID: ingID,
		OrderID:      orderID,
		Quantity:     types.Quantity{Amount: m.QuantityAmount, Unit: m.QuantityUnit},
		Timestamp:    m.Timestamp,
	}, nil
}
