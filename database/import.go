package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"menu-analytics/models"
)

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// ImportResult counts what Import wrote.
type ImportResult struct {
	Items int `json:"items"`
	Sales int `json:"sales"`
}

// Import upserts the items of src by import name and appends its sales, all in one
// transaction. Sales keep the unit cost frozen in src.
func (s *Store) Import(ctx context.Context, src *MemoryStore) (ImportResult, error) {
	var res ImportResult
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback(ctx)

	ids := make(map[string]string)
	upsert := `
		INSERT INTO menu_items (name, import_name, listed_price, computed_cost, category, category_group)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (import_name) DO UPDATE SET
			name = EXCLUDED.name,
			listed_price = EXCLUDED.listed_price,
			computed_cost = EXCLUDED.computed_cost,
			category = EXCLUDED.category,
			category_group = EXCLUDED.category_group,
			updated_at = NOW()
		RETURNING id::text
	`
	for _, item := range src.Items() {
		var id string
		if err := tx.QueryRow(ctx, upsert,
			item.Name, item.ImportName, item.ListedPrice, item.Cost, item.Category, item.CategoryGroup,
		).Scan(&id); err != nil {
			return res, fmt.Errorf("upsert menu item %q: %w", item.Name, err)
		}
		ids[item.ID] = id
		res.Items++
	}

	rows := make([][]any, 0)
	for _, r := range src.Sales() {
		id, ok := ids[r.ItemID]
		if !ok {
			return res, fmt.Errorf("sale %s references unknown item %s: %w", r.ID, r.ItemID, models.ErrNotFound)
		}
		rows = append(rows, []any{id, r.SoldAt, r.Quantity, r.Revenue(), r.UnitPrice, r.UnitCost})
	}
	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"sales_records"},
		[]string{"menu_item_id", "sold_at", "quantity", "total_amount", "unit_price", "unit_cost"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return res, fmt.Errorf("copy sales records: %w", err)
	}
	res.Sales = int(n)

	if err := tx.Commit(ctx); err != nil {
		return res, fmt.Errorf("commit import: %w", err)
	}
	return res, nil
}
