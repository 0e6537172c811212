package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var burgerPoints = []PricePoint{
	{Price: 20, Days: 2, TotalQuantity: 20, MeanDailyQuantity: 10},
	{Price: 25, Days: 2, TotalQuantity: 14, MeanDailyQuantity: 7},
}

func TestSearchRange(t *testing.T) {
	opts := DefaultOptions()

	lo, hi := opts.searchRange(10, burgerPoints)
	assert.InDelta(t, 16.0, lo, 1e-9)
	assert.InDelta(t, 37.5, hi, 1e-9)

	// a high cost lifts the floor above the price-based bound
	lo, _ = opts.searchRange(18, burgerPoints)
	assert.InDelta(t, 19.8, lo, 1e-9)
}

func TestProfitCurve_SamplesRange(t *testing.T) {
	opts := DefaultOptions()
	model := LinearDemand{Slope: -0.6, Intercept: 22}

	curve := opts.ProfitCurve(model, 10, burgerPoints, 0)
	require.Len(t, curve, 50)
	assert.InDelta(t, 16.0, curve[0].Price, 1e-9)
	assert.InDelta(t, 37.5, curve[49].Price, 1e-9)
	for i := 1; i < len(curve); i++ {
		assert.Greater(t, curve[i].Price, curve[i-1].Price)
	}

	p := curve[0]
	assert.InDelta(t, 22-0.6*16, p.Quantity, 1e-9)
	assert.InDelta(t, (16-10)*(22-0.6*16), p.Profit, 1e-9)
}

func TestProfitCurve_StretchesToCandidate(t *testing.T) {
	opts := DefaultOptions()
	model := LinearDemand{Slope: -0.6, Intercept: 22}

	above := opts.ProfitCurve(model, 10, burgerPoints, 50)
	assert.InDelta(t, 16.0, above[0].Price, 1e-9)
	assert.InDelta(t, 60.0, above[len(above)-1].Price, 1e-9)

	below := opts.ProfitCurve(model, 10, burgerPoints, 12)
	assert.InDelta(t, 9.6, below[0].Price, 1e-9)
	assert.InDelta(t, 37.5, below[len(below)-1].Price, 1e-9)

	inside := opts.ProfitCurve(model, 10, burgerPoints, 30)
	assert.InDelta(t, 16.0, inside[0].Price, 1e-9)
	assert.InDelta(t, 37.5, inside[len(inside)-1].Price, 1e-9)
}

func TestProfitCurve_CandidateCoversHistoricalPrices(t *testing.T) {
	opts := DefaultOptions()
	model := LinearDemand{Slope: -0.6, Intercept: 22}

	// cost 20 puts the markup floor at 22, above the lowest sold price
	curve := opts.ProfitCurve(model, 20, burgerPoints, 23)
	assert.InDelta(t, 20.0, curve[0].Price, 1e-9)
	assert.InDelta(t, 37.5, curve[len(curve)-1].Price, 1e-9)

	// without a candidate the search floor stays at the markup
	curve = opts.ProfitCurve(model, 20, burgerPoints, 0)
	assert.InDelta(t, 22.0, curve[0].Price, 1e-9)
}

func TestProfitCurve_ClampsQuantityAtZero(t *testing.T) {
	opts := DefaultOptions()
	curve := opts.ProfitCurve(LinearDemand{Slope: -1, Intercept: 20}, 10, burgerPoints, 0)
	for _, p := range curve {
		assert.GreaterOrEqual(t, p.Quantity, 0.0)
		if p.Price > 20 {
			assert.Zero(t, p.Profit)
		}
	}
}

func TestLineChart(t *testing.T) {
	chart := lineChart([]CurvePoint{{Price: 1, Profit: 2}, {Price: 3, Profit: 4}})
	assert.Equal(t, ChartLine, chart.Kind)
	assert.Equal(t, []float64{1, 3}, chart.PriceLabels)
	assert.Equal(t, []float64{2, 4}, chart.ProfitSeries)
}
