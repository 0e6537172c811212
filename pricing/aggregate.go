package pricing

import (
	"slices"
	"time"

	"menu-analytics/models"
)

// PricePoint is the demand observed at one distinct charged price.
type PricePoint struct {
	Price             float64 `json:"price"`
	Days              int     `json:"days"`
	TotalQuantity     int     `json:"total_quantity"`
	MeanDailyQuantity float64 `json:"mean_daily_quantity"`
}

// AggregateSales collapses sales lines into one point per distinct unit price,
// sorted by price. Mean daily quantity is the price's total quantity divided by the
// number of distinct calendar days (in loc) on which that price was charged.
//
// When only one price exists the single point is returned together with
// ErrInsufficientVariation so callers may still fall back to flat demand.
func AggregateSales(records []models.SalesRecord, loc *time.Location) ([]PricePoint, error) {
	if len(records) < 2 {
		return nil, newError(KindInsufficientData, "at least 2 sales records are required, got %d", len(records))
	}
	if loc == nil {
		loc = time.Local
	}

	type bucket struct {
		quantity int
		days     map[string]struct{}
	}
	buckets := make(map[float64]*bucket)
	for _, r := range records {
		b := buckets[r.UnitPrice]
		if b == nil {
			b = &bucket{days: make(map[string]struct{})}
			buckets[r.UnitPrice] = b
		}
		b.quantity += r.Quantity
		b.days[r.SoldAt.In(loc).Format(time.DateOnly)] = struct{}{}
	}

	points := make([]PricePoint, 0, len(buckets))
	for price, b := range buckets {
		points = append(points, PricePoint{
			Price:             price,
			Days:              len(b.days),
			TotalQuantity:     b.quantity,
			MeanDailyQuantity: float64(b.quantity) / float64(len(b.days)),
		})
	}
	slices.SortFunc(points, func(a, b PricePoint) int {
		if a.Price < b.Price {
			return -1
		}
		if a.Price > b.Price {
			return 1
		}
		return 0
	})

	if len(points) < 2 {
		return points, newError(KindInsufficientVariation, "all %d sales were charged the same price %.2f", len(records), points[0].Price)
	}
	return points, nil
}

// meanDailyQuantity is the unweighted mean of the per-price daily means; it is the
// flat-demand fallback.
func meanDailyQuantity(points []PricePoint) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range points {
		sum += p.MeanDailyQuantity
	}
	return sum / float64(len(points))
}

// weightedMeanPrice weights each distinct price by the units sold at it.
func weightedMeanPrice(points []PricePoint) float64 {
	revenue, units := 0.0, 0
	for _, p := range points {
		revenue += p.Price * float64(p.TotalQuantity)
		units += p.TotalQuantity
	}
	if units == 0 {
		return 0
	}
	return revenue / float64(units)
}

func priceBounds(points []PricePoint) (lo, hi float64) {
	lo, hi = points[0].Price, points[0].Price
	for _, p := range points[1:] {
		lo = min(lo, p.Price)
		hi = max(hi, p.Price)
	}
	return lo, hi
}
