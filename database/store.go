package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"menu-analytics/models"
)

// Store reads menu items and sales from PostgreSQL.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// ItemByName returns the menu item called name.
func (s *Store) ItemByName(ctx context.Context, name string) (models.MenuItem, error) {
	query := `
		SELECT id::text, name, import_name, listed_price, computed_cost,
		       category, category_group, created_at, updated_at
		FROM menu_items
		WHERE name = $1
	`
	var item models.MenuItem
	err := s.db.QueryRow(ctx, query, name).Scan(
		&item.ID, &item.Name, &item.ImportName, &item.ListedPrice, &item.Cost,
		&item.Category, &item.CategoryGroup, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.MenuItem{}, fmt.Errorf("menu item %q: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("query menu item %q: %w", name, err)
	}
	return item, nil
}

// SalesForItem returns every sale of one item, oldest first.
func (s *Store) SalesForItem(ctx context.Context, itemID string) ([]models.SalesRecord, error) {
	query := `
		SELECT id::text, menu_item_id::text, sold_at, quantity, unit_price, unit_cost
		FROM sales_records
		WHERE menu_item_id = $1
		ORDER BY sold_at
	`
	rows, err := s.db.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("query sales for item %s: %w", itemID, err)
	}
	defer rows.Close()

	records := make([]models.SalesRecord, 0)
	for rows.Next() {
		var r models.SalesRecord
		if err := rows.Scan(&r.ID, &r.ItemID, &r.SoldAt, &r.Quantity, &r.UnitPrice, &r.UnitCost); err != nil {
			return nil, fmt.Errorf("scan sales record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func scopeColumn(scope models.GroupScope) (string, error) {
	switch scope {
	case models.ScopeCategory:
		return "m.category", nil
	case models.ScopeCategoryGroup:
		return "m.category_group", nil
	default:
		return "", fmt.Errorf("unknown scope %q", scope)
	}
}

// GroupSales returns the sales in [from, to) of every item whose category (or
// category group) is key.
func (s *Store) GroupSales(ctx context.Context, scope models.GroupScope, key string, from, to time.Time) ([]models.GroupSale, error) {
	column, err := scopeColumn(scope)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT s.id::text, s.menu_item_id::text, s.sold_at, s.quantity, s.unit_price, s.unit_cost,
		       m.name, m.category, m.category_group
		FROM sales_records s
		JOIN menu_items m ON m.id = s.menu_item_id
		WHERE ` + column + ` = $1 AND s.sold_at >= $2 AND s.sold_at < $3
		ORDER BY s.sold_at
	`
	rows, err := s.db.Query(ctx, query, key, from, to)
	if err != nil {
		return nil, fmt.Errorf("query group sales for %s %q: %w", scope, key, err)
	}
	defer rows.Close()

	sales := make([]models.GroupSale, 0)
	for rows.Next() {
		var g models.GroupSale
		if err := rows.Scan(
			&g.ID, &g.ItemID, &g.SoldAt, &g.Quantity, &g.UnitPrice, &g.UnitCost,
			&g.ItemName, &g.Category, &g.CategoryGroup,
		); err != nil {
			return nil, fmt.Errorf("scan group sale: %w", err)
		}
		sales = append(sales, g)
	}
	return sales, rows.Err()
}

// GroupHasSales reports whether key has any sale at all.
func (s *Store) GroupHasSales(ctx context.Context, scope models.GroupScope, key string) (bool, error) {
	column, err := scopeColumn(scope)
	if err != nil {
		return false, err
	}
	query := `
		SELECT EXISTS (
			SELECT 1 FROM sales_records s
			JOIN menu_items m ON m.id = s.menu_item_id
			WHERE ` + column + ` = $1
		)
	`
	var exists bool
	if err := s.db.QueryRow(ctx, query, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("check group sales for %s %q: %w", scope, key, err)
	}
	return exists, nil
}

// Catalog lists the names the analyses can be run on.
func (s *Store) Catalog(ctx context.Context) (models.CatalogSummary, error) {
	summary := models.CatalogSummary{}
	lists := []struct {
		query string
		dest  *[]string
	}{
		{`SELECT name FROM menu_items ORDER BY name`, &summary.Items},
		{`SELECT DISTINCT category FROM menu_items WHERE category <> '' ORDER BY category`, &summary.Categories},
		{`SELECT DISTINCT category_group FROM menu_items WHERE category_group <> '' ORDER BY category_group`, &summary.CategoryGroups},
	}
	for _, l := range lists {
		rows, err := s.db.Query(ctx, l.query)
		if err != nil {
			return summary, fmt.Errorf("query catalog: %w", err)
		}
		values, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return summary, fmt.Errorf("scan catalog: %w", err)
		}
		*l.dest = values
	}

	summary.ItemCount = len(summary.Items)
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM sales_records`).Scan(&summary.SalesCount); err != nil {
		return summary, fmt.Errorf("count sales records: %w", err)
	}
	return summary, nil
}
