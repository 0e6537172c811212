package pricing

// ChartKind discriminates the Chart payload.
type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
)

// Chart is a plottable series handed to the presentation layer. Line charts fill
// PriceLabels and ProfitSeries; bar charts fill Labels, SeriesPrevious and SeriesCurrent.
type Chart struct {
	Kind           ChartKind `json:"kind"`
	PriceLabels    []float64 `json:"price_labels,omitempty"`
	ProfitSeries   []float64 `json:"profit_series,omitempty"`
	Labels         []string  `json:"labels,omitempty"`
	SeriesPrevious []float64 `json:"series_previous,omitempty"`
	SeriesCurrent  []float64 `json:"series_current,omitempty"`
}

// CurvePoint is one sampled price with its predicted daily quantity and profit.
type CurvePoint struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	Profit   float64 `json:"profit"`
}

// searchRange returns the price interval worth exploring for an item.
func (o Options) searchRange(cost float64, points []PricePoint) (lo, hi float64) {
	minPrice, maxPrice := priceBounds(points)
	lo = max(cost*o.CostMarkup, minPrice*o.MinPriceFactor)
	hi = maxPrice * o.MaxPriceFactor
	return lo, hi
}

// ProfitCurve samples o.CurveSamples evenly spaced prices over the search range.
// With a positive candidate the range also covers every historical price, and a
// candidate outside it stretches the range with o.CandidatePadding to spare.
func (o Options) ProfitCurve(model DemandModel, cost float64, points []PricePoint, candidate float64) []CurvePoint {
	lo, hi := o.searchRange(cost, points)
	if candidate > 0 {
		minPrice, _ := priceBounds(points)
		lo = min(lo, minPrice)
		if candidate > hi {
			hi = candidate * (1 + o.CandidatePadding)
		}
		if candidate < lo {
			lo = candidate * (1 - o.CandidatePadding)
		}
	}

	n := o.CurveSamples
	curve := make([]CurvePoint, n)
	for i := range n {
		price := lo
		if n > 1 {
			price = lo + (hi-lo)*float64(i)/float64(n-1)
		}
		q := predictQuantity(model, price)
		curve[i] = CurvePoint{Price: price, Quantity: q, Profit: (price - cost) * q}
	}
	return curve
}

func lineChart(curve []CurvePoint) *Chart {
	chart := &Chart{
		Kind:         ChartLine,
		PriceLabels:  make([]float64, len(curve)),
		ProfitSeries: make([]float64, len(curve)),
	}
	for i, p := range curve {
		chart.PriceLabels[i] = p.Price
		chart.ProfitSeries[i] = p.Profit
	}
	return chart
}
