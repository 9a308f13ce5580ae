package galley

import "github.com/xraph/galley/types"

// Re-export common types for convenience so users don't have to import types package.

// Money is re-exported from types package.
type Money = types.Money

// Quantity is re-exported from types package.
type Quantity = types.Quantity

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Money constructors
var (
	USD       = types.USD
	EUR       = types.EUR
	HNL       = types.HNL
	MXN       = types.MXN
	ZeroMoney = types.ZeroMoney
	SumMoney  = types.SumMoney
)

// Re-export Quantity constructors
var (
	Kilograms = types.Kilograms
	Liters    = types.Liters
	Count     = types.Count
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
