package pricing_test

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"menu-analytics/database"
	"menu-analytics/models"
	"menu-analytics/pricing"
)

var day0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func costOf(v float64) *float64 {
	return &v
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newEngine(t *testing.T, store *database.MemoryStore) *pricing.Engine {
	t.Helper()
	opts := pricing.DefaultOptions()
	opts.Location = time.UTC
	engine, err := pricing.NewEngine(store, store, opts, quietLogger())
	require.NoError(t, err)
	return engine
}

// sellDaily records one sale line per entry of perDay on consecutive days from start.
func sellDaily(store *database.MemoryStore, item models.MenuItem, price float64, start time.Time, perDay ...int) {
	cost := 0.0
	if item.Cost != nil {
		cost = *item.Cost
	}
	for i, q := range perDay {
		store.AddSale(models.SalesRecord{
			ItemID:    item.ID,
			SoldAt:    start.AddDate(0, 0, i),
			Quantity:  q,
			UnitPrice: price,
			UnitCost:  cost,
		})
	}
}

// burgerStore holds a Burger costing 10, listed at 25, sold 10/day at 20 and
// 7/day at 25.
func burgerStore() (*database.MemoryStore, models.MenuItem) {
	store := database.NewMemoryStore()
	burger := store.AddItem(models.MenuItem{
		Name:          "Burger",
		ImportName:    "BURGER",
		ListedPrice:   25,
		Cost:          costOf(10),
		Category:      "Burgers",
		CategoryGroup: "Food",
	})
	sellDaily(store, burger, 20, day0, 10, 10)
	sellDaily(store, burger, 25, day0.AddDate(0, 0, 2), 7, 7)
	return store, burger
}
