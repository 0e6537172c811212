package database

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"menu-analytics/models"
)

// MemoryStore keeps items and sales in memory. It backs the workbook mode of the
// CLI and the tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items []models.MenuItem
	sales []models.SalesRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// AddItem stores item, assigning an ID when it has none, and returns the stored copy.
func (m *MemoryStore) AddItem(item models.MenuItem) models.MenuItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	m.items = append(m.items, item)
	return item
}

// SetCost replaces the cost of an item.
func (m *MemoryStore) SetCost(itemID string, cost *float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == itemID {
			m.items[i].Cost = cost
			m.items[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("menu item %s: %w", itemID, models.ErrNotFound)
}

// AddSale stores one sales record.
func (m *MemoryStore) AddSale(record models.SalesRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	m.sales = append(m.sales, record)
}

func (m *MemoryStore) ItemByName(_ context.Context, name string) (models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.Name == name {
			return item, nil
		}
	}
	return models.MenuItem{}, fmt.Errorf("menu item %q: %w", name, models.ErrNotFound)
}

func (m *MemoryStore) SalesForItem(_ context.Context, itemID string) ([]models.SalesRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := make([]models.SalesRecord, 0)
	for _, r := range m.sales {
		if r.ItemID == itemID {
			records = append(records, r)
		}
	}
	return records, nil
}

func (m *MemoryStore) groupItems(scope models.GroupScope, key string) map[string]models.MenuItem {
	members := make(map[string]models.MenuItem)
	for _, item := range m.items {
		switch {
		case scope == models.ScopeCategory && item.Category == key,
			scope == models.ScopeCategoryGroup && item.CategoryGroup == key:
			members[item.ID] = item
		}
	}
	return members
}

func (m *MemoryStore) GroupSales(_ context.Context, scope models.GroupScope, key string, from, to time.Time) ([]models.GroupSale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	members := m.groupItems(scope, key)
	sales := make([]models.GroupSale, 0)
	for _, r := range m.sales {
		item, ok := members[r.ItemID]
		if !ok || r.SoldAt.Before(from) || !r.SoldAt.Before(to) {
			continue
		}
		sales = append(sales, models.GroupSale{
			SalesRecord:   r,
			ItemName:      item.Name,
			Category:      item.Category,
			CategoryGroup: item.CategoryGroup,
		})
	}
	return sales, nil
}

func (m *MemoryStore) GroupHasSales(_ context.Context, scope models.GroupScope, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	members := m.groupItems(scope, key)
	for _, r := range m.sales {
		if _, ok := members[r.ItemID]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) Catalog(_ context.Context) (models.CatalogSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	summary := models.CatalogSummary{
		Items:          make([]string, 0, len(m.items)),
		Categories:     make([]string, 0),
		CategoryGroups: make([]string, 0),
		ItemCount:      len(m.items),
		SalesCount:     len(m.sales),
	}
	for _, item := range m.items {
		summary.Items = append(summary.Items, item.Name)
		if item.Category != "" && !slices.Contains(summary.Categories, item.Category) {
			summary.Categories = append(summary.Categories, item.Category)
		}
		if item.CategoryGroup != "" && !slices.Contains(summary.CategoryGroups, item.CategoryGroup) {
			summary.CategoryGroups = append(summary.CategoryGroups, item.CategoryGroup)
		}
	}
	slices.Sort(summary.Items)
	slices.Sort(summary.Categories)
	slices.Sort(summary.CategoryGroups)
	return summary, nil
}

func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Items returns a copy of the stored items in insertion order.
func (m *MemoryStore) Items() []models.MenuItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.items)
}

// Sales returns a copy of the stored sales in insertion order.
func (m *MemoryStore) Sales() []models.SalesRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.sales)
}
