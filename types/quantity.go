package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Quantity represents a stock amount in thousandths of its base unit.
// Like Money, all arithmetic is integer-only so that repeated deduction
// and restoration round-trips are exact.
//
// Examples:
//   - Kilograms(2500) = 2.5 kg (2500 grams)
//   - Liters(750)     = 0.75 l (750 milliliters)
//   - Count(3)        = 3 units
type Quantity struct {
	Amount int64  `json:"amount"` // Thousandths of the base unit
	Unit   string `json:"unit"`   // "kg", "l", "unit", ...
}

// Kilograms creates a Quantity in kilograms from grams.
func Kilograms(grams int64) Quantity { return Quantity{Amount: grams, Unit: "kg"} }

// Liters creates a Quantity in liters from milliliters.
func Liters(milliliters int64) Quantity { return Quantity{Amount: milliliters, Unit: "l"} }

// Count creates a Quantity of discrete units.
func Count(units int64) Quantity { return Quantity{Amount: units * 1000, Unit: "unit"} }

// ZeroQuantity returns a zero Quantity in the specified unit.
func ZeroQuantity(unit string) Quantity {
	return Quantity{Amount: 0, Unit: strings.ToLower(unit)}
}

// Add adds two Quantity values. Panics if units don't match.
func (q Quantity) Add(other Quantity) Quantity {
	q.assertSameUnit(other)
	return Quantity{Amount: q.Amount + other.Amount, Unit: q.Unit}
}

// Subtract subtracts another Quantity. Panics if units don't match.
func (q Quantity) Subtract(other Quantity) Quantity {
	q.assertSameUnit(other)
	return Quantity{Amount: q.Amount - other.Amount, Unit: q.Unit}
}

// Scale multiplies the Quantity by an integer factor.
func (q Quantity) Scale(factor int64) Quantity {
	return Quantity{Amount: q.Amount * factor, Unit: q.Unit}
}

// IsZero returns true if the amount is zero.
func (q Quantity) IsZero() bool { return q.Amount == 0 }

// IsPositive returns true if the amount is greater than zero.
func (q Quantity) IsPositive() bool { return q.Amount > 0 }

// IsNegative returns true if the amount is less than zero.
func (q Quantity) IsNegative() bool { return q.Amount < 0 }

// Equal returns true if both quantities are equal (same amount and unit).
func (q Quantity) Equal(other Quantity) bool {
	return q.Amount == other.Amount && q.Unit == other.Unit
}

// LessThan returns true if this Quantity is less than other. Panics if units don't match.
func (q Quantity) LessThan(other Quantity) bool {
	q.assertSameUnit(other)
	return q.Amount < other.Amount
}

// Covers returns true if this Quantity is at least as large as required.
// Panics if units don't match.
func (q Quantity) Covers(required Quantity) bool {
	q.assertSameUnit(required)
	return q.Amount >= required.Amount
}

// Deficit returns how much is missing to cover required, or zero if nothing
// is missing. Panics if units don't match.
func (q Quantity) Deficit(required Quantity) Quantity {
	q.assertSameUnit(required)
	if q.Amount >= required.Amount {
		return Quantity{Amount: 0, Unit: q.Unit}
	}
	return Quantity{Amount: required.Amount - q.Amount, Unit: q.Unit}
}

// FormatAmount returns the base-unit amount without the unit suffix:
// "2.5" for Kilograms(2500), "3" for Count(3).
func (q Quantity) FormatAmount() string {
	isNegative := q.Amount < 0
	abs := q.Amount
	if isNegative {
		abs = -abs
	}

	major := abs / 1000
	minor := abs % 1000

	var result string
	if minor == 0 {
		result = fmt.Sprintf("%d", major)
	} else {
		result = strings.TrimRight(fmt.Sprintf("%d.%03d", major, minor), "0")
	}

	if isNegative {
		return "-" + result
	}
	return result
}

// String returns a human-readable string: "2.5 kg", "3 unit".
func (q Quantity) String() string {
	return q.FormatAmount() + " " + q.Unit
}

// MarshalJSON implements json.Marshaler.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount  int64  `json:"amount"`
		Unit    string `json:"unit"`
		Display string `json:"display"`
	}{
		Amount:  q.Amount,
		Unit:    q.Unit,
		Display: q.String(),
	})
}

// assertSameUnit panics if units don't match.
func (q Quantity) assertSameUnit(other Quantity) {
	if q.Unit != other.Unit {
		panic(fmt.Sprintf("quantity: unit mismatch: %s != %s", q.Unit, other.Unit))
	}
}
