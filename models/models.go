package models

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrNotFound is returned by repositories when a lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// --- JWT & Auth ---

// JwtClaims are issued by the external identity service; this service only verifies them.
type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// --- Core Models ---

// MenuItem represents a dish or drink on the menu.
type MenuItem struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ImportName    string    `json:"import_name"`
	ListedPrice   float64   `json:"listed_price"`
	Cost          *float64  `json:"cost,omitempty"` // recipe-derived COGS, nil until a recipe exists
	Category      string    `json:"category"`
	CategoryGroup string    `json:"category_group"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasCost reports whether the item carries a usable positive cost.
func (m MenuItem) HasCost() bool {
	return m.Cost != nil && *m.Cost > 0
}

// SalesRecord is a single imported sale line. UnitCost is frozen at import time
// and does not follow later recipe changes.
type SalesRecord struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	SoldAt    time.Time `json:"sold_at"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	UnitCost  float64   `json:"unit_cost"`
}

// Revenue is the amount charged for the whole line.
func (r SalesRecord) Revenue() float64 {
	return r.UnitPrice * float64(r.Quantity)
}

// Profit is the line revenue minus the frozen cost of the units sold.
func (r SalesRecord) Profit() float64 {
	return (r.UnitPrice - r.UnitCost) * float64(r.Quantity)
}

// GroupSale is a SalesRecord joined with the grouping attributes of its item.
type GroupSale struct {
	SalesRecord
	ItemName      string `json:"item_name"`
	Category      string `json:"category"`
	CategoryGroup string `json:"category_group"`
}

// GroupScope selects how sales are grouped for period comparisons.
type GroupScope string

const (
	// ScopeCategory compares the items inside one category.
	ScopeCategory GroupScope = "category"
	// ScopeCategoryGroup compares the categories inside one category group.
	ScopeCategoryGroup GroupScope = "category_group"
)

// Valid reports whether s is a known scope.
func (s GroupScope) Valid() bool {
	return s == ScopeCategory || s == ScopeCategoryGroup
}

// Label returns the sub-group label of a sale under this scope.
func (s GroupScope) Label(sale GroupSale) string {
	if s == ScopeCategoryGroup {
		return sale.Category
	}
	return sale.ItemName
}
