package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS menu_items (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(100) UNIQUE NOT NULL,
		import_name VARCHAR(100) UNIQUE NOT NULL,
		listed_price DOUBLE PRECISION NOT NULL,
		computed_cost DOUBLE PRECISION,
		category VARCHAR(100) NOT NULL DEFAULT '',
		category_group VARCHAR(100) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sales_records (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		menu_item_id UUID NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
		sold_at TIMESTAMPTZ NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity >= 1),
		total_amount DOUBLE PRECISION NOT NULL,
		unit_price DOUBLE PRECISION NOT NULL,
		unit_cost DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_records_item ON sales_records (menu_item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_records_sold_at ON sales_records (sold_at)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_category ON menu_items (category)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_category_group ON menu_items (category_group)`,
}

// EnsureSchema creates the tables the analyses read when they are missing.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
