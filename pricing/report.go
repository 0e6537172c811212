package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const rule = "=================================================="

// money rounds to cents for display only; the raw values stay in the Result.
func (o Options) money(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	if o.Currency == "" {
		return s
	}
	return s + " " + o.Currency
}

func percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

func units(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1)
}

type reportWriter struct {
	b strings.Builder
}

func (w *reportWriter) line(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *reportWriter) section(title string) {
	w.line("--- %s ---", title)
}

func (w *reportWriter) String() string {
	return strings.TrimRight(w.b.String(), "\n")
}
