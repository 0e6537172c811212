package pricing

import (
	"context"
	"errors"
	"math"

	"github.com/sirupsen/logrus"
)

// Simulation compares the historical daily profit with the profit predicted at a
// candidate price.
type Simulation struct {
	Item                 string        `json:"item"`
	Cost                 float64       `json:"cost"`
	CandidatePrice       float64       `json:"candidate_price"`
	CurrentAveragePrice  float64       `json:"current_average_price"`
	CurrentDailyQuantity float64       `json:"current_daily_quantity"`
	CurrentDailyProfit   float64       `json:"current_daily_profit"`
	PredictedQuantity    float64       `json:"predicted_quantity"`
	PredictedProfit      float64       `json:"predicted_profit"`
	ProfitDelta          float64       `json:"profit_delta"`
	Recommended          bool          `json:"recommended"`
	Model                *LinearDemand `json:"model,omitempty"`
	Points               []PricePoint  `json:"points"`
}

// Simulate predicts the daily profit of selling itemName at candidatePrice. Unlike
// Optimum it refuses to quote a number without a valid downward demand slope.
func (e *Engine) Simulate(ctx context.Context, itemName string, candidatePrice float64) Result {
	return e.run("simulate", logrus.Fields{"item": itemName, "price": candidatePrice}, func() (Result, error) {
		if !(candidatePrice > 0) || math.IsInf(candidatePrice, 0) {
			return Result{}, newError(KindInvalidPrice, "price to simulate must be a positive number, got %v", candidatePrice)
		}
		if math.IsInf(candidatePrice*(1+e.opts.CandidatePadding), 0) {
			return Result{}, newError(KindInvalidPrice, "price to simulate is too large, got %v", candidatePrice)
		}
		item, cost, err := e.loadItem(ctx, itemName)
		if err != nil {
			return Result{}, err
		}
		points, aggErr := e.loadPoints(ctx, item)
		if aggErr != nil && !errors.Is(aggErr, ErrInsufficientVariation) {
			return Result{}, aggErr
		}

		sim := &Simulation{
			Item:                 item.Name,
			Cost:                 cost,
			CandidatePrice:       candidatePrice,
			CurrentAveragePrice:  weightedMeanPrice(points),
			CurrentDailyQuantity: meanDailyQuantity(points),
			Points:               points,
		}
		sim.CurrentDailyProfit = (sim.CurrentAveragePrice - cost) * sim.CurrentDailyQuantity

		var w reportWriter
		w.section("CURRENT STATE (historical average)")
		w.line("  Average price: %s", e.opts.money(sim.CurrentAveragePrice))
		w.line("  Average daily sales: %s units", units(sim.CurrentDailyQuantity))
		w.line("  Unit cost: %s", e.opts.money(cost))
		w.line("  Estimated daily profit: %s", e.opts.money(sim.CurrentDailyProfit))
		w.line(rule)
		partial := Result{Simulation: sim}

		if aggErr != nil {
			partial.Report = w.String()
			return partial, newError(KindInsufficientVariation,
				"WARNING: the item was always sold at the same price, so no demand model can be built. Simulation cancelled.")
		}

		model, fitErr := FitDemand(points)
		linear, ok := model.(LinearDemand)
		if fitErr != nil || !ok {
			partial.Report = w.String()
			return partial, newError(KindInvalidModel,
				"WARNING: the model says sales RISE as the price rises. The data is insufficient or distorted (for example by inflation or promotions). Simulation cancelled.")
		}
		sim.Model = &linear

		sim.PredictedQuantity = predictQuantity(linear, candidatePrice)
		sim.PredictedProfit = (candidatePrice - cost) * sim.PredictedQuantity
		sim.ProfitDelta = sim.PredictedProfit - sim.CurrentDailyProfit
		sim.Recommended = sim.ProfitDelta > 0

		w.section("SIMULATION RESULT (" + e.opts.money(candidatePrice) + ")")
		w.line("  Predicted daily sales: %s units", units(sim.PredictedQuantity))
		w.line("  Predicted daily profit: %s", e.opts.money(sim.PredictedProfit))
		w.line(rule)
		if sim.Recommended {
			w.line("  VERDICT: RECOMMENDED")
			w.line("  Daily profit may INCREASE by about %s.", e.opts.money(sim.ProfitDelta))
		} else {
			w.line("  VERDICT: NOT RECOMMENDED")
			w.line("  Daily profit may DECREASE by about %s.", e.opts.money(math.Abs(sim.ProfitDelta)))
		}

		curve := e.opts.ProfitCurve(linear, cost, points, candidatePrice)
		return Result{Report: w.String(), Chart: lineChart(curve), Simulation: sim}, nil
	})
}
