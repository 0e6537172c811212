package pricing

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"menu-analytics/models"
)

// Share is one sub-group's profit within a window and its percentage of the total.
type Share struct {
	Profit  float64 `json:"profit"`
	Percent float64 `json:"percent"`
}

// PeriodSummary aggregates group profit over [From, To).
type PeriodSummary struct {
	From        time.Time        `json:"from"`
	To          time.Time        `json:"to"`
	Records     int              `json:"records"`
	TotalProfit float64          `json:"total_profit"`
	Shares      map[string]Share `json:"shares"`
}

// Labels returns the sub-group labels in alphabetical order.
func (s PeriodSummary) Labels() []string {
	labels := make([]string, 0, len(s.Shares))
	for label := range s.Shares {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

type Outcome string

const (
	OutcomeGrowth Outcome = "growth"
	// OutcomeIntraCannibalization is a profit drop among the items of one category.
	OutcomeIntraCannibalization Outcome = "intra_category_cannibalization"
	// OutcomeCrossCannibalization is a profit drop among the categories of one group.
	OutcomeCrossCannibalization Outcome = "cross_category_cannibalization"
)

// Comparison diffs the current window against the one just before it.
type Comparison struct {
	Scope      models.GroupScope `json:"scope"`
	Key        string            `json:"key"`
	WindowDays int               `json:"window_days"`
	Previous   PeriodSummary     `json:"previous"`
	Current    PeriodSummary     `json:"current"`
	Delta      float64           `json:"delta"`
	Outcome    Outcome           `json:"outcome"`
}

// SummarizePeriod totals the profit of the sales that fall in [from, to) per
// sub-group label of scope.
func SummarizePeriod(sales []models.GroupSale, scope models.GroupScope, from, to time.Time) PeriodSummary {
	summary := PeriodSummary{From: from, To: to, Shares: make(map[string]Share)}
	profits := make(map[string]float64)
	for _, s := range sales {
		if s.SoldAt.Before(from) || !s.SoldAt.Before(to) {
			continue
		}
		profit := s.Profit()
		profits[scope.Label(s)] += profit
		summary.TotalProfit += profit
		summary.Records++
	}
	for label, profit := range profits {
		share := Share{Profit: profit}
		if summary.TotalProfit != 0 {
			share.Percent = profit / summary.TotalProfit * 100
		}
		summary.Shares[label] = share
	}
	return summary
}

// Classify frames a profit delta: no loss is growth, a loss is cannibalization
// within the scope's grouping.
func Classify(scope models.GroupScope, delta float64) Outcome {
	switch {
	case delta >= 0:
		return OutcomeGrowth
	case scope == models.ScopeCategoryGroup:
		return OutcomeCrossCannibalization
	default:
		return OutcomeIntraCannibalization
	}
}

func barChart(previous, current PeriodSummary) *Chart {
	seen := make(map[string]struct{})
	for label := range previous.Shares {
		seen[label] = struct{}{}
	}
	for label := range current.Shares {
		seen[label] = struct{}{}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	chart := &Chart{
		Kind:           ChartBar,
		Labels:         labels,
		SeriesPrevious: make([]float64, len(labels)),
		SeriesCurrent:  make([]float64, len(labels)),
	}
	for i, label := range labels {
		chart.SeriesPrevious[i] = previous.Shares[label].Profit
		chart.SeriesCurrent[i] = current.Shares[label].Profit
	}
	return chart
}

// startOfDay truncates t to midnight in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ComparePeriods compares the profit of a category (or category group) over the
// last windowDays days with the windowDays before that.
func (e *Engine) ComparePeriods(ctx context.Context, scope models.GroupScope, key string, windowDays int) Result {
	return e.run("compare", logrus.Fields{"scope": scope, "key": key, "days": windowDays}, func() (Result, error) {
		if windowDays == 0 {
			windowDays = e.opts.DefaultWindowDays
		}
		if windowDays < 1 {
			return Result{}, newError(KindInvalidWindow, "window must be at least one day, got %d", windowDays)
		}
		if !scope.Valid() {
			return Result{}, newError(KindInvalidScope, "unknown analysis scope %q", scope)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return Result{}, newError(KindGroupNotFound, "no %s name given", scope)
		}

		today := startOfDay(e.now(), e.opts.Location)
		currentStart := today.AddDate(0, 0, -windowDays)
		previousStart := currentStart.AddDate(0, 0, -windowDays)

		sales, err := e.sales.GroupSales(ctx, scope, key, previousStart, today)
		if err != nil {
			return Result{}, wrapError(err, KindInternal, "load group sales")
		}
		if len(sales) == 0 {
			exists, err := e.sales.GroupHasSales(ctx, scope, key)
			if err != nil {
				return Result{}, wrapError(err, KindInternal, "check group sales")
			}
			if !exists {
				return Result{}, newError(KindGroupNotFound, "no sales found for %s %q", scope, key)
			}
		}

		cmp := &Comparison{
			Scope:      scope,
			Key:        key,
			WindowDays: windowDays,
			Previous:   SummarizePeriod(sales, scope, previousStart, currentStart),
			Current:    SummarizePeriod(sales, scope, currentStart, today),
		}
		if cmp.Previous.Records == 0 || cmp.Current.Records == 0 {
			return Result{Comparison: cmp}, newError(KindNoComparisonData,
				"WARNING: not enough data to compare. Sales are needed in both the last %d days and the %d days before.", windowDays, windowDays)
		}
		cmp.Delta = cmp.Current.TotalProfit - cmp.Previous.TotalProfit
		cmp.Outcome = Classify(scope, cmp.Delta)

		return Result{Report: e.comparisonReport(cmp), Chart: barChart(cmp.Previous, cmp.Current), Comparison: cmp}, nil
	})
}

func (e *Engine) comparisonReport(cmp *Comparison) string {
	var w reportWriter
	title := "CATEGORY ANALYSIS"
	if cmp.Scope == models.ScopeCategoryGroup {
		title = "CATEGORY GROUP ANALYSIS"
	}
	w.line("%s: '%s'", title, cmp.Key)
	w.line("(last %d days compared with the %d days before)", cmp.WindowDays, cmp.WindowDays)
	w.line(rule)
	w.line("")

	period := func(name string, s PeriodSummary) {
		w.section(fmt.Sprintf("%s (%s - %s)", name, s.From.Format(time.DateOnly), s.To.Format(time.DateOnly)))
		w.line("  TOTAL PROFIT: %s", e.opts.money(s.TotalProfit))
		w.line("  Profit shares within the group:")
		if len(s.Shares) == 0 {
			w.line("    - No data.")
		}
		for _, label := range s.Labels() {
			share := s.Shares[label]
			w.line("    - %-20s: %s  (%s)", label, percent(share.Percent), e.opts.money(share.Profit))
		}
		w.line("")
	}
	period("PREVIOUS PERIOD", cmp.Previous)
	period("THIS PERIOD", cmp.Current)

	w.line(rule)
	w.line("  RECOMMENDATION:")
	switch cmp.Outcome {
	case OutcomeGrowth:
		w.line("  SUCCESS! Total profit of '%s' went UP by %s.", cmp.Key, e.opts.money(cmp.Delta))
	case OutcomeIntraCannibalization, OutcomeCrossCannibalization:
		w.line("  ATTENTION! Total profit of '%s' went DOWN by %s.", cmp.Key, e.opts.money(math.Abs(cmp.Delta)))
		if cmp.Outcome == OutcomeCrossCannibalization {
			w.line("  This may be a cross-category cannibalization effect. Review the details.")
		} else {
			w.line("  This may be an intra-category cannibalization effect.")
		}
		w.line("  REVIEW this pricing policy.")
	}
	return w.String()
}

// Success reports whether the outcome is framed as good news.
func (o Outcome) Success() bool {
	return o == OutcomeGrowth
}
