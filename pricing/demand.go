package pricing

import "fmt"

// DemandModel predicts the expected daily quantity at a price. It is one of
// LinearDemand or FlatDemand; consumers switch on the concrete type.
type DemandModel interface {
	Predict(price float64) float64
	Describe() string
	demandModel()
}

// LinearDemand is a fitted quantity = Slope*price + Intercept with Slope < 0.
type LinearDemand struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

func (m LinearDemand) Predict(price float64) float64 {
	return m.Slope*price + m.Intercept
}

func (m LinearDemand) Describe() string {
	return fmt.Sprintf("linear demand: quantity = %.4f x price + %.4f", m.Slope, m.Intercept)
}

func (LinearDemand) demandModel() {}

// FlatDemand assumes the historical mean daily quantity regardless of price.
type FlatDemand struct {
	MeanQuantity float64 `json:"mean_quantity"`
}

func (m FlatDemand) Predict(float64) float64 {
	return m.MeanQuantity
}

func (m FlatDemand) Describe() string {
	return "less reliable: falls back to average, does not account for price sensitivity"
}

func (FlatDemand) demandModel() {}

// FitDemand fits ordinary least squares on (price, mean daily quantity). A slope
// that is not negative is economically implausible; the model is then rejected
// and FlatDemand is returned with ErrInvalidModel. The error is informational:
// the returned model is always usable.
func FitDemand(points []PricePoint) (DemandModel, error) {
	flat := FlatDemand{MeanQuantity: meanDailyQuantity(points)}
	if len(points) < 2 {
		return flat, newError(KindInsufficientVariation, "need at least 2 distinct prices to fit demand, got %d", len(points))
	}

	n := float64(len(points))
	var sumX, sumY float64
	for _, p := range points {
		sumX += p.Price
		sumY += p.MeanDailyQuantity
	}
	meanX, meanY := sumX/n, sumY/n

	var sxx, sxy float64
	for _, p := range points {
		dx := p.Price - meanX
		sxx += dx * dx
		sxy += dx * (p.MeanDailyQuantity - meanY)
	}
	if sxx == 0 {
		return flat, newError(KindInsufficientVariation, "prices do not vary")
	}

	slope := sxy / sxx
	if slope >= 0 {
		return flat, newError(KindInvalidModel, "fitted slope %.4f is not negative: demand does not fall as price rises", slope)
	}
	return LinearDemand{Slope: slope, Intercept: meanY - slope*meanX}, nil
}

// predictQuantity never returns a negative quantity.
func predictQuantity(model DemandModel, price float64) float64 {
	return max(0, model.Predict(price))
}
