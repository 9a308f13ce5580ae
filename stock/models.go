package stock

import (
	"time"

	"github.com/xraph/galley/id"
	"github.com/xraph/galley/types"
)

// MovementType classifies a stock journal entry.
type MovementType string

const (
	// MovementDeduct records stock consumed when an order is accepted.
	MovementDeduct MovementType = "deduct"
	// MovementRestore records stock returned when an order is cancelled.
	MovementRestore MovementType = "restore"
	// MovementReplenish records stock added by a delivery.
	MovementReplenish MovementType = "replenish"
)

// Movement is one entry in the stock journal. Deduct and restore
// movements carry the order that caused them; replenishments do not.
type Movement struct {
	ID           id.MovementID   `json:"id"`
	Type         MovementType    `json:"type"`
	IngredientID id.IngredientID `json:"ingredient_id"`
	OrderID      id.OrderID      `json:"order_id,omitempty"`
	Quantity     types.Quantity  `json:"quantity"`
	Timestamp    time.Time       `json:"timestamp"`
}

// NewMovement builds a journal entry stamped with the current time.
func NewMovement(typ MovementType, ingredientID id.IngredientID, orderID id.OrderID, qty types.Quantity) *Movement {
	return &Movement{
		ID:           id.NewMovementID(),
		Type:         typ,
		IngredientID: ingredientID,
		OrderID:      orderID,
		Quantity:     qty,
		Timestamp:    time.Now(),
	}
}

// QueryOpts filters journal queries.
type QueryOpts struct {
	IngredientID id.IngredientID
	OrderID      id.OrderID
	Type         MovementType
	Start        time.Time
	End          time.Time

	Limit  int
	Offset int
}
