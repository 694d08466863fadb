package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hengshuofushi123/greenledger/internal/config"
	"github.com/hengshuofushi123/greenledger/internal/model"
	"github.com/hengshuofushi123/greenledger/internal/stats"
	"github.com/hengshuofushi123/greenledger/internal/store"
	"github.com/hengshuofushi123/greenledger/internal/venue"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "dimensions":
		cmdDimensions(os.Args[2:])
	case "production-periods":
		cmdProductionPeriods(os.Args[2:])
	case "transaction-periods":
		cmdTransactionPeriods(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli dimensions --dimension province [--production-start 2024-01] [--production-end 2024-12]")
	fmt.Println("  cli production-periods [--transaction-start 2024-01-01] [--transaction-end 2024-06-30]")
	fmt.Println("  cli transaction-periods")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - reads config from GREENLEDGER_CONFIG or ./config.yaml")
	fmt.Println("  - results are printed as JSON to stdout")
}

type windowFlags struct {
	productionStart  string
	productionEnd    string
	transactionStart string
	transactionEnd   string
}

func (w *windowFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&w.productionStart, "production-start", "", "first production month, YYYY-MM")
	fs.StringVar(&w.productionEnd, "production-end", "", "last production month, YYYY-MM")
	fs.StringVar(&w.transactionStart, "transaction-start", "", "first settlement date, YYYY-MM-DD")
	fs.StringVar(&w.transactionEnd, "transaction-end", "", "last settlement date, YYYY-MM-DD")
}

func (w *windowFlags) production() model.PeriodWindow {
	return model.DefaultPeriodWindow(w.productionStart, w.productionEnd, time.Now())
}

func (w *windowFlags) transaction() model.TimeWindow {
	return model.DefaultTimeWindow(w.transactionStart, w.transactionEnd, time.Now())
}

func cmdDimensions(args []string) {
	fs := flag.NewFlagSet("dimensions", flag.ExitOnError)
	dimension := fs.String("dimension", "province", "project attribute to group by")
	var w windowFlags
	w.register(fs)
	fs.Parse(args)

	dim := model.Dimension(*dimension)
	if !dim.Valid() {
		fatal(fmt.Errorf("unknown dimension %q", *dimension))
	}

	env := mustConnect()
	defer env.db.Close()

	rows, err := env.engine.DimensionRollup(context.Background(), stats.DimensionQuery{
		Dimension:   dim,
		Projects:    mustProjects(env),
		Production:  w.production(),
		Transaction: w.transaction(),
	})
	if err != nil {
		fatal(err)
	}
	printJSON(rows)
}

func cmdProductionPeriods(args []string) {
	fs := flag.NewFlagSet("production-periods", flag.ExitOnError)
	var w windowFlags
	w.register(fs)
	fs.Parse(args)

	env := mustConnect()
	defer env.db.Close()

	rows, err := env.engine.ProductionPeriodRollup(context.Background(), stats.PeriodQuery{
		Projects:    mustProjects(env),
		Production:  w.production(),
		Transaction: w.transaction(),
	})
	if err != nil {
		fatal(err)
	}
	printJSON(rows)
}

func cmdTransactionPeriods(args []string) {
	fs := flag.NewFlagSet("transaction-periods", flag.ExitOnError)
	var w windowFlags
	w.register(fs)
	fs.Parse(args)

	env := mustConnect()
	defer env.db.Close()

	rows, err := env.engine.TransactionPeriodRollup(context.Background(), stats.PeriodQuery{
		Projects:    mustProjects(env),
		Production:  w.production(),
		Transaction: w.transaction(),
	})
	if err != nil {
		fatal(err)
	}
	printJSON(rows)
}

type env struct {
	db       *store.DB
	projects *store.ProjectStore
	engine   *stats.Engine
}

func mustConnect() *env {
	configPath := os.Getenv("GREENLEDGER_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fatal(err)
	}
	db, err := store.Open(cfg.Database.DSN())
	if err != nil {
		fatal(err)
	}

	descriptors := venue.Descriptors()
	sources := make([]venue.Source, len(descriptors))
	for i, desc := range descriptors {
		sources[i] = venue.New(desc, store.NewFactStore(db, desc))
	}
	engine := stats.NewEngine(
		store.NewLedgerStore(db),
		sources,
		venue.NewRegistrySource(store.NewRegistryStore(db)),
	)
	return &env{db: db, projects: store.NewProjectStore(db), engine: engine}
}

func mustProjects(e *env) []model.Project {
	projects, err := e.projects.List(context.Background(), model.ProjectFilter{})
	if err != nil {
		fatal(err)
	}
	return projects
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
