package galley

import (
	"errors"
	"fmt"

	"github.com/xraph/galley/id"
	"github.com/xraph/galley/types"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("galley: not found")
	ErrAlreadyExists = errors.New("galley: already exists")
	ErrInvalidInput  = errors.New("galley: invalid input")

	// Catalog errors
	ErrIngredientNotFound = errors.New("galley: ingredient not found")
	ErrMenuItemNotFound   = errors.New("galley: menu item not found")
	ErrEmptyRecipe        = errors.New("galley: menu item has no recipe")
	ErrDuplicateTable     = errors.New("galley: table number already registered")
	ErrTableNotFound      = errors.New("galley: table not found")

	// Stock errors
	ErrStockCorrupted = errors.New("galley: stock level is negative")

	// Order errors
	ErrOrderNotFound = errors.New("galley: order not found")
	ErrEmptyOrder    = errors.New("galley: order has no items")
	ErrConflict      = errors.New("galley: concurrent operation on order")

	// Billing errors
	ErrInvoiceNotFound = errors.New("galley: invoice not found")
	ErrAlreadyBilled   = errors.New("galley: order already billed")

	// Journal errors
	ErrMovementBufferFull = errors.New("galley: movement buffer full")

	// Store errors
	ErrStoreNotReady     = errors.New("galley: store not ready")
	ErrStoreClosed       = errors.New("galley: store is closed")
	ErrTransactionFailed = errors.New("galley: transaction failed")
	ErrMigrationFailed   = errors.New("galley: migration failed")
)

// Shortfall describes one ingredient that could not cover an order.
type Shortfall struct {
	IngredientID id.IngredientID
	Name         string
	Requested    types.Quantity
	Available    types.Quantity
	Shortfall    types.Quantity
}

// InsufficientStockError reports every ingredient an order fell short
// on, not just the first. No stock is deducted when it is returned.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	if len(e.Shortfalls) == 1 {
		s := e.Shortfalls[0]
		return fmt.Sprintf("galley: insufficient stock of %s: need %s, have %s", s.Name, s.Requested, s.Available)
	}
	return fmt.Sprintf("galley: insufficient stock for %d ingredients", len(e.Shortfalls))
}

// InvalidTransitionError reports an order status change that the
// lifecycle does not allow.
type InvalidTransitionError struct {
	From      string
	Attempted string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("galley: invalid transition from %s to %s", e.From, e.Attempted)
}

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("galley: validation failed for %s: %s", e.Field, e.Message)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrIngredientNotFound) ||
		errors.Is(err, ErrMenuItemNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrInvoiceNotFound) ||
		errors.Is(err, ErrTableNotFound)
}

// IsConflict returns true if the error reports a lost race on an order,
// including a second billing attempt.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrAlreadyBilled)
}

// IsInsufficientStock returns true if the error is a stock shortfall.
func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}

// IsInvalidTransition returns true if the error is a lifecycle violation.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrMovementBufferFull) ||
		errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrTransactionFailed) ||
		errors.Is(err, ErrConflict)
}
