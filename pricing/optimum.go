package pricing

import (
	"context"
	"errors"
	"math"

	"github.com/sirupsen/logrus"
)

// Optimum is the best price found on the search grid for one item.
type Optimum struct {
	Item              string        `json:"item"`
	Cost              float64       `json:"cost"`
	ListedPrice       float64       `json:"listed_price"`
	ListedDailyProfit float64       `json:"listed_daily_profit"`
	Step              float64       `json:"step"`
	RangeLow          float64       `json:"range_low"`
	RangeHigh         float64       `json:"range_high"`
	GridSize          int           `json:"grid_size"`
	Price             float64       `json:"price"`
	Quantity          float64       `json:"quantity"`
	Profit            float64       `json:"profit"`
	Model             *LinearDemand `json:"model,omitempty"`
	Fallback          *FlatDemand   `json:"fallback,omitempty"`
	Warnings          []string      `json:"warnings,omitempty"`
	Points            []PricePoint  `json:"points"`
}

// Reliable reports whether the optimum came from a fitted demand slope.
func (o *Optimum) Reliable() bool {
	return o.Model != nil
}

// SearchGrid evaluates lo, lo+step, ... below hi and returns the most profitable
// point; ties go to the lowest price. maxPoints bounds the grid size.
func SearchGrid(model DemandModel, cost, lo, hi, step float64, maxPoints int) (CurvePoint, int, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return CurvePoint{}, 0, newError(KindInvalidStep, "price step must be a positive number, got %v", step)
	}
	if !(hi > lo) {
		return CurvePoint{}, 0, newError(KindEmptyRange, "no valid price range (min %.2f, max %.2f)", lo, hi)
	}
	cells := math.Ceil((hi - lo) / step)
	if cells > float64(maxPoints) {
		return CurvePoint{}, 0, newError(KindInvalidStep, "price step %v yields %.0f grid points, limit is %d", step, cells, maxPoints)
	}
	n := int(cells)
	if n < 1 {
		return CurvePoint{}, 0, newError(KindEmptyRange, "no valid price range (min %.2f, max %.2f)", lo, hi)
	}

	var best CurvePoint
	for i := range n {
		price := lo + float64(i)*step
		q := predictQuantity(model, price)
		p := CurvePoint{Price: price, Quantity: q, Profit: (price - cost) * q}
		if i == 0 || p.Profit > best.Profit {
			best = p
		}
	}
	return best, n, nil
}

// Optimum searches for the profit-maximizing price of itemName. Without a usable
// demand slope it degrades to flat demand and says so in the report.
func (e *Engine) Optimum(ctx context.Context, itemName string, step float64) Result {
	return e.run("optimum", logrus.Fields{"item": itemName, "step": step}, func() (Result, error) {
		if step == 0 {
			step = e.opts.DefaultStep
		}
		if !(step > 0) || math.IsInf(step, 0) {
			return Result{}, newError(KindInvalidStep, "price step must be a positive number, got %v", step)
		}
		item, cost, err := e.loadItem(ctx, itemName)
		if err != nil {
			return Result{}, err
		}
		listed := item.ListedPrice

		points, aggErr := e.loadPoints(ctx, item)
		if aggErr != nil && !errors.Is(aggErr, ErrInsufficientVariation) {
			return Result{}, aggErr
		}

		opt := &Optimum{Item: item.Name, Cost: cost, ListedPrice: listed, Step: step, Points: points}
		var model DemandModel
		switch {
		case aggErr != nil:
			model = FlatDemand{MeanQuantity: meanDailyQuantity(points)}
			opt.Warnings = append(opt.Warnings,
				"WARNING: the item was always sold at the same price, so no demand model can be built. "+
					"The optimum is ESTIMATED from average daily sales. Sell at different prices and import the data again for a better analysis.")
		default:
			var fitErr error
			model, fitErr = FitDemand(points)
			if fitErr != nil {
				opt.Warnings = append(opt.Warnings,
					"WARNING: the model says sales RISE as the price rises. The data is insufficient or distorted.")
			}
		}

		switch m := model.(type) {
		case LinearDemand:
			opt.Model = &m
		case FlatDemand:
			opt.Fallback = &m
			opt.Warnings = append(opt.Warnings,
				"NOTE: with constant demand profit only grows with price, so the optimum is simply the highest price in the search range ("+m.Describe()+").")
		}

		opt.RangeLow, opt.RangeHigh = e.opts.searchRange(cost, points)
		best, n, err := SearchGrid(model, cost, opt.RangeLow, opt.RangeHigh, step, e.opts.MaxGridPoints)
		if err != nil {
			return Result{Optimum: opt}, err
		}
		opt.GridSize = n
		opt.Price, opt.Quantity, opt.Profit = best.Price, best.Quantity, best.Profit
		opt.ListedDailyProfit = (listed - cost) * meanDailyQuantity(points)

		var w reportWriter
		for _, warning := range opt.Warnings {
			w.line("%s", warning)
		}
		if len(opt.Warnings) > 0 {
			w.line("")
		}
		w.section("CURRENT STATE (menu price)")
		w.line("  Listed price: %s", e.opts.money(listed))
		w.line("  Average daily profit: %s", e.opts.money(opt.ListedDailyProfit))
		w.line("")
		w.section("OPTIMUM PRICE RECOMMENDATION")
		w.line("  Recommended price for maximum profit: %s", e.opts.money(opt.Price))
		w.line("")
		w.line("  Predicted daily sales at this price: %s units", units(opt.Quantity))
		w.line("  Predicted maximum daily profit: %s", e.opts.money(opt.Profit))

		curve := e.opts.ProfitCurve(model, cost, points, 0)
		return Result{Report: w.String(), Chart: lineChart(curve), Optimum: opt}, nil
	})
}
