package mongo

import (
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

	ID              string    `grove:"id,pk"            bson:"_id"`
	Name            string    `grove:"name"             bson:"name"`
	Unit            string    `grove:"unit"             bson:"unit"`
	OnHandAmount    int64     `grove:"on_hand_amount"   bson:"on_hand_amount"`
	ThresholdAmount int64     `grove:"threshold_amount" bson:"threshold_amount"`
	CreatedAt       time.Time `grove:"created_at"       bson:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at"       bson:"updated_at"`
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

	ID            string            `grove:"id,pk"          bson:"_id"`
	Name          string            `grove:"name"           bson:"name"`
	Description   string            `grove:"description"    bson:"description"`
	Kind          string            `grove:"kind"           bson:"kind"`
	Category      string            `grove:"category"       bson:"category"`
	Alcoholic     bool              `grove:"alcoholic"      bson:"alcoholic"`
	PriceAmount   int64             `grove:"price_amount"   bson:"price_amount"`
	PriceCurrency string            `grove:"price_currency" bson:"price_currency"`
	Recipe        []recipeLineModel `grove:"recipe"         bson:"recipe"`
	CreatedAt     time.Time         `grove:"created_at"     bson:"created_at"`
	UpdatedAt     time.Time         `grove:"updated_at"     bson:"updated_at"`
}

type recipeLineModel struct {
	IngredientID   string `bson:"ingredient_id"`
	QuantityAmount int64  `bson:"quantity_amount"`
	QuantityUnit   string `bson:"quantity_unit"`
}

func toMenuItemModel(item *menu.MenuItem) *menuItemModel {
	recipe := make([]recipeLineModel, len(item.Recipe))
	for i, rl := range item.Recipe {
		recipe[i] = recipeLineModel{
			IngredientID:   rl.IngredientID.String(),
			QuantityAmount: rl.Quantity.Amount,
			QuantityUnit:   rl.Quantity.Unit,
		}
	}

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

	recipe := make([]menu.RecipeLine, len(m.Recipe))
	for i, rl := range m.Recipe {
		ingID, err := id.ParseIngredientID(rl.IngredientID)
		if err != nil {
			return nil, err
		}
		recipe[i] = menu.RecipeLine{
			IngredientID: ingID,
			Quantity:     types.Quantity{Amount: rl.QuantityAmount, Unit: rl.QuantityUnit},
		}
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

	ID              string           `grove:"id,pk"            bson:"_id"`
	Type            string           `grove:"type"             bson:"type"`
	TableNumber     int              `grove:"table_number"     bson:"table_number"`
	DeliveryAddress string           `grove:"delivery_address" bson:"delivery_address"`
	DeliveryPhone   string           `grove:"delivery_phone"   bson:"delivery_phone"`
	Status          string           `grove:"status"           bson:"status"`
	LineItems       []lineItemModel  `grove:"line_items"       bson:"line_items"`
	Deductions      []deductionModel `grove:"deductions"       bson:"deductions"`
	CancelledAt     *time.Time       `grove:"cancelled_at"     bson:"cancelled_at,omitempty"`
	BilledAt        *time.Time       `grove:"billed_at"        bson:"billed_at,omitempty"`
	CreatedAt       time.Time        `grove:"created_at"       bson:"created_at"`
	UpdatedAt       time.Time        `grove:"updated_at"       bson:"updated_at"`
}

type lineItemModel struct {
	ID                string `bson:"id"`
	MenuItemID        string `bson:"menu_item_id"`
	Name              string `bson:"name"`
	Quantity          int64  `bson:"quantity"`
	UnitPriceCents    int64  `bson:"unit_price_cents"`
	UnitPriceCurrency string `bson:"unit_price_currency"`
}

type deductionModel struct {
	IngredientID   string `bson:"ingredient_id"`
	QuantityAmount int64  `bson:"quantity_amount"`
	QuantityUnit   string `bson:"quantity_unit"`
}

func toOrderModel(o *order.Order) *orderModel {
	lineItems := make([]lineItemModel, len(o.LineItems))
	for i, li := range o.LineItems {
		lineItems[i] = lineItemModel{
			ID:                li.ID.String(),
			MenuItemID:        li.MenuItemID.String(),
			Name:              li.Name,
			Quantity:          li.Quantity,
			UnitPriceCents:    li.UnitPrice.Amount,
			UnitPriceCurrency: li.UnitPrice.Currency,
		}
	}
	deductions := make([]deductionModel, len(o.Deductions))
	for i, d := range o.Deductions {
		deductions[i] = deductionModel{
			IngredientID:   d.IngredientID.String(),
			QuantityAmount: d.Quantity.Amount,
			QuantityUnit:   d.Quantity.Unit,
		}
	}

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

	lineItems := make([]order.LineItem, len(m.LineItems))
	for i, li := range m.LineItems {
		liID, err := id.ParseLineItemID(li.ID)
		if err != nil {
			return nil, err
		}
		itemID, err := id.ParseMenuItemID(li.MenuItemID)
		if err != nil {
			return nil, err
		}
		lineItems[i] = order.LineItem{
			ID:         liID,
			MenuItemID: itemID,
			Name:       li.Name,
			Quantity:   li.Quantity,
			UnitPrice:  types.Money{Amount: li.UnitPriceCents, Currency: li.UnitPriceCurrency},
		}
	}
	deductions := make([]ingredient.Requirement, len(m.Deductions))
	for i, d := range m.Deductions {
		ingID, err := id.ParseIngredientID(d.IngredientID)
		if err != nil {
			return nil, err
		}
		deductions[i] = ingredient.Requirement{
			IngredientID: ingID,
			Quantity:     types.Quantity{Amount: d.QuantityAmount, Unit: d.QuantityUnit},
		}
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

	ID                  string    `grove:"id,pk"                 bson:"_id"`
	OrderID             string    `grove:"order_id"              bson:"order_id"`
	SubtotalAmountCents int64     `grove:"subtotal_amount_cents" bson:"subtotal_amount_cents"`
	SubtotalCurrency    string    `grove:"subtotal_currency"     bson:"subtotal_currency"`
	TotalAmountCents    int64     `grove:"total_amount_cents"    bson:"total_amount_cents"`
	TotalCurrency       string    `grove:"total_currency"        bson:"total_currency"`
	PaymentMethod       string    `grove:"payment_method"        bson:"payment_method"`
	IssuedAt            time.Time `grove:"issued_at"             bson:"issued_at"`
	CreatedAt           time.Time `grove:"created_at"            bson:"created_at"`
	UpdatedAt           time.Time `grove:"updated_at"            bson:"updated_at"`
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

	ID           string    `grove:"id,pk"         bson:"_id"`
	Number       int       `grove:"number"        bson:"number"`
	Capacity     int       `grove:"capacity"      bson:"capacity"`
	ActiveOrders []string  `grove:"active_orders" bson:"active_orders"`
	CreatedAt    time.Time `grove:"created_at"    bson:"created_at"`
	UpdatedAt    time.Time `grove:"updated_at"    bson:"updated_at"`
}

func toTableModel(tbl *table.Table) *tableModel {
	activeOrders := make([]string, len(tbl.ActiveOrders))
	for i, oid := range tbl.ActiveOrders {
		activeOrders[i] = oid.String()
	}

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

	activeOrders := make([]id.OrderID, len(m.ActiveOrders))
	for i, s := range m.ActiveOrders {
		oid, err := id.ParseOrderID(s)
		if err != nil {
			return nil, err
		}
		activeOrders[i] = oid
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

	ID             string    `grove:"id,pk"           bson:"_id"`
	Type           string    `grove:"type"            bson:"type"`
	IngredientID   string    `grove:"ingredient_id"   bson:"ingredient_id"`
	OrderID        string    `grove:"order_id"        bson:"order_id,omitempty"`
	QuantityAmount int64     `grove:"quantity_amount" bson:"quantity_amount"`
	QuantityUnit   string    `grove:"quantity_unit"   bson:"quantity_unit"`
	Timestamp      time.Time `grove:"timestamp"       bson:"timestamp"`
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
