package table

import (
	"context"

	"github.com/xraph/galley/id"
)

// Store is the table-facing subset of the storage contract.
type Store interface {
	Create(ctx context.Context, tbl *Table) error
	Get(ctx context.Context, tableID id.TableID) (*Table, error)
	GetByNumber(ctx context.Context, number int) (*Table, error)
	List(ctx context.Context, opts ListOpts) ([]*Table, error)
	Update(ctx context.Context, tbl *Table) error
}
