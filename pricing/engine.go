package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"menu-analytics/models"
)

// ItemRepository resolves menu items. ItemByName returns an error wrapping
// models.ErrNotFound for unknown names.
type ItemRepository interface {
	ItemByName(ctx context.Context, name string) (models.MenuItem, error)
}

// SalesRepository provides the sales history the engines read.
type SalesRepository interface {
	SalesForItem(ctx context.Context, itemID string) ([]models.SalesRecord, error)
	// GroupSales returns the sales of every item under key, sold in [from, to).
	GroupSales(ctx context.Context, scope models.GroupScope, key string, from, to time.Time) ([]models.GroupSale, error)
	GroupHasSales(ctx context.Context, scope models.GroupScope, key string) (bool, error)
}

// Result is what every analysis returns: a success flag, report text, an optional
// chart and the raw numbers of the analysis that ran.
type Result struct {
	Success    bool         `json:"success"`
	Kind       ErrorKind    `json:"kind,omitempty"`
	Report     string       `json:"report"`
	Chart      *Chart       `json:"chart,omitempty"`
	Margin     *MarginQuote `json:"margin,omitempty"`
	Simulation *Simulation  `json:"simulation,omitempty"`
	Optimum    *Optimum     `json:"optimum,omitempty"`
	Comparison *Comparison  `json:"comparison,omitempty"`
}

// Engine runs the pricing analyses. It keeps no state between calls and is safe
// for concurrent use.
type Engine struct {
	items  ItemRepository
	sales  SalesRepository
	opts   Options
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewEngine(items ItemRepository, sales SalesRepository, opts Options, logger logrus.FieldLogger) (*Engine, error) {
	if items == nil || sales == nil {
		return nil, errors.New("pricing: item and sales repositories are required")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("pricing: %w", err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{
		items:  items,
		sales:  sales,
		opts:   opts,
		logger: logger.WithField("module", "pricing"),
		now:    time.Now,
	}, nil
}

// WithClock replaces the clock used to place comparison windows.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

func (e *Engine) Options() Options {
	return e.opts
}

// run executes one analysis and turns every failure, panics included, into a
// failed Result. The analysis may return a partial Result along with its error;
// its report text is kept in front of the error message.
func (e *Engine) run(analysis string, fields logrus.Fields, fn func() (Result, error)) (res Result) {
	log := e.logger.WithField("analysis", analysis).WithFields(fields)
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("analysis panicked")
			res = Result{Kind: KindInternal, Report: fmt.Sprintf("%s failed: %v", analysis, r)}
		}
	}()

	res, err := fn()
	if err == nil {
		res.Success = true
		log.Debug("analysis complete")
		return res
	}

	var aerr *Error
	if !errors.As(err, &aerr) {
		aerr = wrapError(err, KindInternal, analysis+" failed")
	}
	entry := log.WithField("kind", aerr.Kind).WithError(err)
	switch {
	case aerr.Kind == KindInternal:
		entry.Error("analysis failed")
	case aerr.Kind.Warning():
		entry.Warn("analysis aborted")
	default:
		entry.Info("analysis rejected")
	}

	msg := aerr.Message
	if aerr.Kind == KindInternal && aerr.Cause != nil {
		msg = fmt.Sprintf("%s: %v", aerr.Message, aerr.Cause)
	}
	res.Success = false
	res.Kind = aerr.Kind
	res.Chart = nil
	res.Report = joinReport(res.Report, msg)
	return res
}

// loadItem reads the item once; callers work on the returned copy so a cost change
// during the analysis cannot mix two cost values.
func (e *Engine) loadItem(ctx context.Context, name string) (models.MenuItem, float64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.MenuItem{}, 0, newError(KindItemNotFound, "no item name given")
	}
	item, err := e.items.ItemByName(ctx, name)
	if errors.Is(err, models.ErrNotFound) {
		return models.MenuItem{}, 0, newError(KindItemNotFound, "no menu item named %q", name)
	}
	if err != nil {
		return models.MenuItem{}, 0, wrapError(err, KindInternal, "load menu item")
	}
	if !item.HasCost() {
		return item, 0, newError(KindMissingCost, "menu item %q has no cost; add a recipe first", item.Name)
	}
	return item, *item.Cost, nil
}

func (e *Engine) loadPoints(ctx context.Context, item models.MenuItem) ([]PricePoint, error) {
	records, err := e.sales.SalesForItem(ctx, item.ID)
	if err != nil {
		return nil, wrapError(err, KindInternal, "load sales")
	}
	return AggregateSales(records, e.opts.Location)
}

func joinReport(report, msg string) string {
	switch {
	case report == "":
		return msg
	case msg == "":
		return report
	default:
		return strings.TrimRight(report, "\n") + "\n" + msg
	}
}
