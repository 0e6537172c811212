// Command pricing runs the menu pricing analyses from a terminal, against
// PostgreSQL or an exported workbook.
//
//	pricing [-db URL | -xlsx FILE] [-json] <command> [flags]
//
// Commands: margin, simulate, optimum, compare, optimize-all, import.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"

	"menu-analytics/config"
	"menu-analytics/database"
	"menu-analytics/handlers"
	"menu-analytics/models"
	"menu-analytics/pricing"
)

var errUsage = errors.New("usage")

// source is what the analyses read from, either backend.
type source interface {
	pricing.ItemRepository
	pricing.SalesRepository
	handlers.CatalogSource
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("pricing", flag.ContinueOnError)
	global.SetOutput(stderr)
	dbURL := global.String("db", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	xlsx := global.String("xlsx", "", "workbook with Items and Sales sheets (used instead of -db)")
	asJSON := global.Bool("json", false, "print the full result as JSON")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: pricing [-db URL | -xlsx FILE] [-json] margin|simulate|optimum|compare|optimize-all|import [flags]")
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 1
	}
	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	logger.SetOutput(stderr)

	cmd, cmdArgs := global.Arg(0), global.Args()[1:]
	if cmd == "import" {
		return runImport(ctx, *xlsx, *dbURL, cfg, stdout, stderr)
	}

	src, closeSrc, err := openSource(ctx, *xlsx, *dbURL, cfg, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer closeSrc()

	engine, err := pricing.NewEngine(src, src, cfg.Pricing, logger)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if cmd == "optimize-all" {
		return runOptimizeAll(ctx, engine, src, cmdArgs, *asJSON, stdout, stderr)
	}

	res, err := runAnalysis(ctx, engine, cmd, cmdArgs, stderr)
	if errors.Is(err, errUsage) {
		return 2
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	printResult(stdout, res, *asJSON)
	if !res.Success {
		return 1
	}
	return 0
}

func openSource(ctx context.Context, xlsx, dbURL string, cfg *config.Config, stderr io.Writer) (source, func(), error) {
	if xlsx != "" {
		store, report, err := database.LoadWorkbook(xlsx, cfg.Pricing.Location)
		if err != nil {
			return nil, nil, err
		}
		warnSkipped(stderr, report)
		return store, func() {}, nil
	}
	if dbURL == "" {
		return nil, nil, errors.New("either -db (or DATABASE_URL) or -xlsx is required")
	}
	if err := database.Connect(ctx, dbURL); err != nil {
		return nil, nil, err
	}
	return database.NewStore(database.GetDB()), database.Close, nil
}

func warnSkipped(w io.Writer, report database.LoadReport) {
	if len(report.UnknownItems) > 0 {
		fmt.Fprintf(w, "skipped sales of %d unknown items: %v\n", len(report.UnknownItems), report.UnknownItems)
	}
	if len(report.SkippedRows) > 0 {
		fmt.Fprintf(w, "skipped %d invalid sales rows: %v\n", len(report.SkippedRows), report.SkippedRows)
	}
}

func runAnalysis(ctx context.Context, engine *pricing.Engine, cmd string, args []string, stderr io.Writer) (pricing.Result, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	item := fs.String("item", "", "menu item name")

	switch cmd {
	case "margin":
		margin := fs.Float64("margin", 0, "target gross margin percent, in (0, 100)")
		if err := fs.Parse(args); err != nil {
			return pricing.Result{}, errUsage
		}
		return engine.TargetMargin(ctx, *item, *margin), nil
	case "simulate":
		price := fs.Float64("price", 0, "candidate price")
		if err := fs.Parse(args); err != nil {
			return pricing.Result{}, errUsage
		}
		return engine.Simulate(ctx, *item, *price), nil
	case "optimum":
		step := fs.Float64("step", 0, "search step (default from PRICE_STEP)")
		if err := fs.Parse(args); err != nil {
			return pricing.Result{}, errUsage
		}
		return engine.Optimum(ctx, *item, *step), nil
	case "compare":
		scope := fs.String("scope", string(models.ScopeCategory), "category or category_group")
		name := fs.String("name", "", "category or category group name")
		days := fs.Int("days", 0, "window length in days (default from WINDOW_DAYS)")
		if err := fs.Parse(args); err != nil {
			return pricing.Result{}, errUsage
		}
		return engine.ComparePeriods(ctx, models.GroupScope(*scope), *name, *days), nil
	}
	return pricing.Result{}, fmt.Errorf("unknown command %q", cmd)
}

func runOptimizeAll(ctx context.Context, engine *pricing.Engine, src source, args []string, asJSON bool, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("optimize-all", flag.ContinueOnError)
	fs.SetOutput(stderr)
	step := fs.Float64("step", 0, "search step (default from PRICE_STEP)")
	workers := fs.Int("workers", 4, "analyses run in parallel")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	catalog, err := src.Catalog(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	bar := progressbar.NewOptions(len(catalog.Items),
		progressbar.OptionSetWriter(stderr),
		progressbar.OptionSetDescription("optimizing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	entries, err := engine.OptimizeAll(ctx, catalog.Items, *step, *workers, func(pricing.BatchEntry) {
		_ = bar.Add(1)
	})
	_ = bar.Finish()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(entries)
		return 0
	}
	writeBatchTable(stdout, entries, engine.Options().Currency)
	return 0
}

func writeBatchTable(w io.Writer, entries []pricing.BatchEntry, currency string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tLISTED\tOPTIMUM\tDAILY PROFIT\tMODEL\tSTATUS")
	for _, e := range entries {
		opt := e.Result.Optimum
		if opt == nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t%s\n", e.Item, e.Result.Kind)
			continue
		}
		model := "linear"
		if !opt.Reliable() {
			model = "flat"
		}
		status := "ok"
		if !e.Result.Success {
			status = string(e.Result.Kind)
		}
		fmt.Fprintf(tw, "%s\t%.2f %s\t%.2f %s\t%.2f %s\t%s\t%s\n",
			e.Item, opt.ListedPrice, currency, opt.Price, currency, opt.Profit, currency, model, status)
	}
	_ = tw.Flush()
}

func runImport(ctx context.Context, xlsx, dbURL string, cfg *config.Config, stdout, stderr io.Writer) int {
	if xlsx == "" || dbURL == "" {
		fmt.Fprintln(stderr, "import needs both -xlsx and -db (or DATABASE_URL)")
		return 2
	}
	mem, report, err := database.LoadWorkbook(xlsx, cfg.Pricing.Location)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	warnSkipped(stderr, report)

	if err := database.Connect(ctx, dbURL); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer database.Close()
	if err := database.EnsureSchema(ctx, database.GetDB()); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	res, err := database.NewStore(database.GetDB()).Import(ctx, mem)
	if err != nil {
		fmt.Fprintln(stderr, "import failed:", err)
		return 1
	}
	fmt.Fprintf(stdout, "imported %d items and %d sales records\n", res.Items, res.Sales)
	return 0
}

func printResult(w io.Writer, res pricing.Result, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
		return
	}
	fmt.Fprintln(w, res.Report)
}
