package pricing

import (
	"fmt"
	"time"
)

// Options holds the tunable constants of the engines. The search bounds are
// heuristics, not derived values.
type Options struct {
	// CostMarkup multiplies the unit cost to get the lowest price worth searching.
	CostMarkup float64
	// MinPriceFactor and MaxPriceFactor scale the lowest and highest historical price.
	MinPriceFactor float64
	MaxPriceFactor float64
	// CurveSamples is the number of points on a rendered profit curve.
	CurveSamples int
	// CandidatePadding widens the curve around a simulated price outside the default range.
	CandidatePadding float64
	// DefaultStep is the optimum search step used when the caller passes none.
	DefaultStep float64
	// MaxGridPoints caps the optimum search grid.
	MaxGridPoints int
	// DefaultWindowDays is the comparison window used when the caller passes none.
	DefaultWindowDays int
	// Currency is appended to amounts in report text.
	Currency string
	// Location decides which calendar day a sale falls on.
	Location *time.Location
}

func DefaultOptions() Options {
	return Options{
		CostMarkup:        1.1,
		MinPriceFactor:    0.8,
		MaxPriceFactor:    1.5,
		CurveSamples:      50,
		CandidatePadding:  0.2,
		DefaultStep:       1.0,
		MaxGridPoints:     100000,
		DefaultWindowDays: 7,
		Currency:          "TL",
		Location:          time.Local,
	}
}

func (o Options) Validate() error {
	if o.CostMarkup <= 0 {
		return fmt.Errorf("cost markup must be positive, got %v", o.CostMarkup)
	}
	if o.MinPriceFactor <= 0 || o.MaxPriceFactor <= 0 {
		return fmt.Errorf("price factors must be positive, got %v and %v", o.MinPriceFactor, o.MaxPriceFactor)
	}
	if o.MaxPriceFactor < o.MinPriceFactor {
		return fmt.Errorf("max price factor %v is below min price factor %v", o.MaxPriceFactor, o.MinPriceFactor)
	}
	if o.CurveSamples < 2 {
		return fmt.Errorf("curve needs at least 2 samples, got %d", o.CurveSamples)
	}
	if o.CandidatePadding < 0 || o.CandidatePadding >= 1 {
		return fmt.Errorf("candidate padding must be in [0, 1), got %v", o.CandidatePadding)
	}
	if o.DefaultStep <= 0 {
		return fmt.Errorf("default price step must be positive, got %v", o.DefaultStep)
	}
	if o.MaxGridPoints < 1 {
		return fmt.Errorf("max grid points must be positive, got %d", o.MaxGridPoints)
	}
	if o.DefaultWindowDays < 1 {
		return fmt.Errorf("default window must be at least one day, got %d", o.DefaultWindowDays)
	}
	if o.Location == nil {
		return fmt.Errorf("location must be set")
	}
	return nil
}
