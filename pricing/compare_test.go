package pricing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-analytics/database"
	"menu-analytics/models"
	"menu-analytics/pricing"
)

// now is a Friday noon; with 7-day windows the current window is [Mar 8, Mar 15)
// and the previous one [Mar 1, Mar 8).
var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type menu struct {
	store                   *database.MemoryStore
	classic, cheese, veggie models.MenuItem
	margherita              models.MenuItem
	previousDay, currentDay time.Time
}

func newMenu() *menu {
	store := database.NewMemoryStore()
	m := &menu{
		store:       store,
		previousDay: time.Date(2024, 3, 3, 13, 0, 0, 0, time.UTC),
		currentDay:  time.Date(2024, 3, 10, 13, 0, 0, 0, time.UTC),
	}
	add := func(name, category string) models.MenuItem {
		return store.AddItem(models.MenuItem{
			Name: name, ImportName: name, ListedPrice: 20, Cost: costOf(10),
			Category: category, CategoryGroup: "Food",
		})
	}
	m.classic = add("Classic", "Burgers")
	m.cheese = add("Cheese", "Burgers")
	m.veggie = add("Veggie", "Burgers")
	m.margherita = add("Margherita", "Pizza")
	return m
}

// sell records qty units at 20 with cost 10, so each unit is 10 profit.
func (m *menu) sell(item models.MenuItem, at time.Time, qty int) {
	m.store.AddSale(models.SalesRecord{ItemID: item.ID, SoldAt: at, Quantity: qty, UnitPrice: 20, UnitCost: 10})
}

func compareEngine(t *testing.T, store *database.MemoryStore) *pricing.Engine {
	t.Helper()
	return newEngine(t, store).WithClock(func() time.Time { return now })
}

func TestComparePeriods_Growth(t *testing.T) {
	m := newMenu()
	m.sell(m.classic, m.previousDay, 10)
	m.sell(m.cheese, m.previousDay, 5)
	m.sell(m.classic, m.currentDay, 6)
	m.sell(m.cheese, m.currentDay, 10)
	m.sell(m.veggie, m.currentDay, 4)
	// today and older sales stay out of both windows
	m.sell(m.classic, now.Add(-time.Hour), 100)
	m.sell(m.classic, time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC), 100)

	res := compareEngine(t, m.store).ComparePeriods(context.Background(), models.ScopeCategory, "Burgers", 0)
	require.True(t, res.Success, res.Report)

	cmp := res.Comparison
	require.NotNil(t, cmp)
	assert.Equal(t, 7, cmp.WindowDays)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), cmp.Previous.From)
	assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), cmp.Current.From)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), cmp.Current.To)

	assert.InDelta(t, 150.0, cmp.Previous.TotalProfit, 1e-9)
	assert.InDelta(t, 200.0, cmp.Current.TotalProfit, 1e-9)
	assert.InDelta(t, 50.0, cmp.Delta, 1e-9)
	assert.Equal(t, pricing.OutcomeGrowth, cmp.Outcome)
	assert.True(t, cmp.Outcome.Success())

	assert.InDelta(t, 50.0, cmp.Current.Shares["Cheese"].Percent, 1e-9)
	assert.InDelta(t, 30.0, cmp.Current.Shares["Classic"].Percent, 1e-9)
	assert.InDelta(t, 20.0, cmp.Current.Shares["Veggie"].Percent, 1e-9)

	require.NotNil(t, res.Chart)
	assert.Equal(t, pricing.ChartBar, res.Chart.Kind)
	assert.Equal(t, []string{"Cheese", "Classic", "Veggie"}, res.Chart.Labels)
	assert.Equal(t, []float64{50, 100, 0}, res.Chart.SeriesPrevious)
	assert.Equal(t, []float64{100, 60, 40}, res.Chart.SeriesCurrent)

	assert.Contains(t, res.Report, "SUCCESS")
	assert.Contains(t, res.Report, "50.00 TL")
}

func TestComparePeriods_EqualProfitIsGrowth(t *testing.T) {
	m := newMenu()
	m.sell(m.classic, m.previousDay, 5)
	m.sell(m.cheese, m.currentDay, 5)

	res := compareEngine(t, m.store).ComparePeriods(context.Background(), models.ScopeCategory, "Burgers", 7)
	require.True(t, res.Success)
	assert.Zero(t, res.Comparison.Delta)
	assert.Equal(t, pricing.OutcomeGrowth, res.Comparison.Outcome)
}

func TestComparePeriods_Cannibalization(t *testing.T) {
	m := newMenu()
	m.sell(m.classic, m.previousDay, 10)
	m.sell(m.margherita, m.previousDay, 10)
	m.sell(m.classic, m.currentDay, 12)
	m.sell(m.margherita, m.currentDay, 2)
	engine := compareEngine(t, m.store)

	res := engine.ComparePeriods(context.Background(), models.ScopeCategoryGroup, "Food", 7)
	require.True(t, res.Success, res.Report)
	assert.Equal(t, pricing.OutcomeCrossCannibalization, res.Comparison.Outcome)
	assert.False(t, res.Comparison.Outcome.Success())
	assert.Equal(t, []string{"Burgers", "Pizza"}, res.Chart.Labels)
	assert.Contains(t, res.Report, "cross-category")

	m.sell(m.cheese, m.previousDay, 10)
	res = engine.ComparePeriods(context.Background(), models.ScopeCategory, "Burgers", 7)
	require.True(t, res.Success)
	assert.Equal(t, pricing.OutcomeIntraCannibalization, res.Comparison.Outcome)
	assert.Contains(t, res.Report, "intra-category")
}

func TestComparePeriods_NoComparisonData(t *testing.T) {
	m := newMenu()
	m.sell(m.classic, m.previousDay, 10)

	res := compareEngine(t, m.store).ComparePeriods(context.Background(), models.ScopeCategory, "Burgers", 7)
	assert.False(t, res.Success)
	assert.Equal(t, pricing.KindNoComparisonData, res.Kind)
	assert.Nil(t, res.Chart)
	require.NotNil(t, res.Comparison)
	assert.Equal(t, 1, res.Comparison.Previous.Records)
	assert.Zero(t, res.Comparison.Current.Records)
}

func TestComparePeriods_GroupWithOnlyOldSales(t *testing.T) {
	m := newMenu()
	m.sell(m.classic, time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC), 1)

	res := compareEngine(t, m.store).ComparePeriods(context.Background(), models.ScopeCategory, "Burgers", 7)
	assert.Equal(t, pricing.KindNoComparisonData, res.Kind)
}

func TestComparePeriods_InputErrors(t *testing.T) {
	m := newMenu()
	engine := compareEngine(t, m.store)
	ctx := context.Background()

	assert.Equal(t, pricing.KindGroupNotFound, engine.ComparePeriods(ctx, models.ScopeCategory, "Desserts", 7).Kind)
	assert.Equal(t, pricing.KindGroupNotFound, engine.ComparePeriods(ctx, models.ScopeCategory, " ", 7).Kind)
	assert.Equal(t, pricing.KindInvalidScope, engine.ComparePeriods(ctx, "menu", "Burgers", 7).Kind)
	assert.Equal(t, pricing.KindInvalidWindow, engine.ComparePeriods(ctx, models.ScopeCategory, "Burgers", -1).Kind)
}

func TestSummarizePeriod(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	sales := []models.GroupSale{
		{SalesRecord: models.SalesRecord{SoldAt: from, Quantity: 1, UnitPrice: 30, UnitCost: 10}, ItemName: "A"},
		{SalesRecord: models.SalesRecord{SoldAt: to.Add(-time.Second), Quantity: 2, UnitPrice: 15, UnitCost: 5}, ItemName: "B"},
		{SalesRecord: models.SalesRecord{SoldAt: to, Quantity: 9, UnitPrice: 15, UnitCost: 5}, ItemName: "B"},
	}

	summary := pricing.SummarizePeriod(sales, models.ScopeCategory, from, to)
	assert.Equal(t, 2, summary.Records)
	assert.InDelta(t, 40.0, summary.TotalProfit, 1e-9)
	assert.Equal(t, []string{"A", "B"}, summary.Labels())
	assert.InDelta(t, 50.0, summary.Shares["A"].Percent, 1e-9)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, pricing.OutcomeGrowth, pricing.Classify(models.ScopeCategory, 0))
	assert.Equal(t, pricing.OutcomeGrowth, pricing.Classify(models.ScopeCategoryGroup, 12.5))
	assert.Equal(t, pricing.OutcomeIntraCannibalization, pricing.Classify(models.ScopeCategory, -1))
	assert.Equal(t, pricing.OutcomeCrossCannibalization, pricing.Classify(models.ScopeCategoryGroup, -1))
}
