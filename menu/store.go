package menu

import (
	"context"

	"github.com/xraph/galley/id"
)

// Store is the menu-facing subset of the storage contract.
type Store interface {
	Create(ctx context.Context, item *MenuItem) error
	Get(ctx context.Context, itemID id.MenuItemID) (*MenuItem, error)
	List(ctx context.Context, opts ListOpts) ([]*MenuItem, error)
	Update(ctx context.Context, item *MenuItem) error
	Delete(ctx context.Context, itemID id.MenuItemID) error
}
