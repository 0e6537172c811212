package pricing

import (
	"context"

	"github.com/sirupsen/logrus"
)

// MarginQuote is the price that yields the requested margin at the current cost.
type MarginQuote struct {
	Item          string  `json:"item"`
	Cost          float64 `json:"cost"`
	MarginPercent float64 `json:"margin_percent"`
	RequiredPrice float64 `json:"required_price"`
}

// RequiredPrice solves margin = (price - cost) / price for price.
func RequiredPrice(cost, marginPercent float64) (float64, error) {
	if err := validateMargin(marginPercent); err != nil {
		return 0, err
	}
	return cost / (1 - marginPercent/100), nil
}

func validateMargin(marginPercent float64) error {
	if !(marginPercent > 0 && marginPercent < 100) {
		return newError(KindInvalidMargin, "target margin must be between 0 and 100 exclusive, got %v", marginPercent)
	}
	return nil
}

// TargetMargin returns the selling price needed to reach marginPercent on itemName.
func (e *Engine) TargetMargin(ctx context.Context, itemName string, marginPercent float64) Result {
	return e.run("target_margin", logrus.Fields{"item": itemName, "margin": marginPercent}, func() (Result, error) {
		if err := validateMargin(marginPercent); err != nil {
			return Result{}, err
		}
		item, cost, err := e.loadItem(ctx, itemName)
		if err != nil {
			return Result{}, err
		}
		price, err := RequiredPrice(cost, marginPercent)
		if err != nil {
			return Result{}, err
		}

		quote := &MarginQuote{Item: item.Name, Cost: cost, MarginPercent: marginPercent, RequiredPrice: price}
		var w reportWriter
		w.section("TARGET MARGIN")
		w.line("  Item: %s", item.Name)
		w.line("  Current cost (COGS): %s", e.opts.money(cost))
		w.line("  Target margin: %s", percent(marginPercent))
		w.line("")
		w.line("  Required selling price: %s", e.opts.money(price))
		return Result{Report: w.String(), Margin: quote}, nil
	})
}
