package audithook

// Action constants for audit events.
const (
	// Stock actions
	ActionIngredientRegistered = "ingredient.registered"
	ActionStockDeducted        = "stock.deducted"
	ActionStockRestored        = "stock.restored"
	ActionStockReplenished     = "stock.replenished"
	ActionLowStock             = "stock.low"

	// Menu actions
	ActionMenuItemCreated = "menu_item.created"
	ActionMenuItemUpdated = "menu_item.updated"
	ActionMenuItemRemoved = "menu_item.removed"

	// Order actions
	ActionOrderPlaced       = "order.placed"
	ActionOrderTransitioned = "order.transitioned"
	ActionOrderCancelled    = "order.cancelled"
	ActionOrderRejected     = "order.rejected"

	// Billing actions
	ActionInvoiceIssued = "invoice.issued"
)

// Resource constants for audit events.
const (
	ResourceIngredient = "ingredient"
	ResourceMenuItem   = "menu_item"
	ResourceOrder      = "order"
	ResourceInvoice    = "invoice"
	ResourceStock      = "stock"
)

// Category constants for audit events.
const (
	CategoryInventory = "inventory"
	CategoryMenu      = "menu"
	CategoryOrders    = "orders"
	CategoryPayment   = "payment"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
