package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Galley store.
var Migrations = migrate.NewGroup("galley")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_galley_ingredients",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS galley_ingredients (
    id               TEXT PRIMARY KEY,
    name             TEXT NOT NULL DEFAULT '',
    unit             TEXT NOT NULL DEFAULT '',
    on_hand_amount   BIGINT NOT NULL DEFAULT 0 CHECK (on_hand_amount >= 0),
    threshold_amount BIGINT NOT NULL DEFAULT 0,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_galley_ingredients_name ON galley_ingredients (name);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS galley_ingredients`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_galley_menu_items",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS galley_menu_items (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL DEFAULT '',
    description    TEXT NOT NULL DEFAULT '',
    kind           TEXT NOT NULL DEFAULT 'dish',
    category       TEXT NOT NULL DEFAULT '',
    alcoholic      BOOLEAN NOT NULL DEFAULT FALSE,
    price_amount   BIGINT NOT NULL DEFAULT 0,
    price_currency TEXT NOT NULL DEFAULT '',
    recipe         JSONB NOT NULL DEFAULT '[]',
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_galley_menu_items_kind ON galley_menu_items (kind, category);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS galley_menu_items`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_galley_orders",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS galley_orders (
    id               TEXT PRIMARY KEY,
    type             TEXT NOT NULL DEFAULT 'dine_in',
    table_number     INT NOT NULL DEFAULT 0,
    delivery_address TEXT NOT NULL DEFAULT '',
    delivery_phone   TEXT NOT NULL DEFAULT '',
    status           TEXT NOT NULL DEFAULT 'pending',
    line_items       JSONB NOT NULL DEFAULT '[]',
    deductions       JSONB NOT NULL DEFAULT '[]',
    cancelled_at     TIMESTAMPTZ,
    billed_at        TIMESTAMPTZ,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_galley_orders_status ON galley_orders (status);
CREATE INDEX IF NOT EXISTS idx_galley_orders_table ON galley_orders (table_number);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS galley_orders`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_galley_invoices",
			Version: "20240101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS galley_invoices (
    id                    TEXT PRIMARY KEY,
    order_id              TEXT NOT NULL,
    subtotal_amount_cents BIGINT NOT NULL DEFAULT 0,
    subtotal_currency     TEXT NOT NULL DEFAULT '',
    total_amount_cents    BIGINT NOT NULL DEFAULT 0,
    total_currency        TEXT NOT NULL DEFAULT '',
    payment_method        TEXT NOT NULL DEFAULT 'cash',
    issued_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_galley_invoices_order ON galley_invoices (order_id);
CREATE INDEX IF NOT EXISTS idx_galley_invoices_issued ON galley_invoices (issued_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS galley_invoices`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_galley_tables",
			Version: "20240101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS galley_tables (
    id            TEXT PRIMARY KEY,
    number        INT NOT NULL,
    capacity      INT NOT NULL DEFAULT 0,
    active_orders JSONB NOT NULL DEFAULT '[]',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_galley_tables_number ON galley_tables (number);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS galley_tables`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_galley_stock_movements",
			Version: "20240101000006",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS galley_stock_movements (
    id              TEXT PRIMARY KEY,
    type            TEXT NOT NULL DEFAULT '',
    ingredient_id   TEXT NOT NULL DEFAULT '',
    order_id        TEXT NOT NULL DEFAULT '',
    quantity_amount BIGINT NOT NULL DEFAULT 0,
    quantity_unit   TEXT NOT NULL DEFAULT '',
    timestamp       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_galley_movements_ingredient ON galley_stock_movements (ingredient_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_galley_movements_order ON galley_stock_movements (order_id);
CREATE INDEX IF NOT EXISTS idx_galley_movements_timestamp ON galley_stock_movements (timestamp);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS galley_stock_movements`)
				return err
			},
		},
	)
}
