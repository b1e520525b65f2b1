package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"nse-deal-tracker/internal/analytics"
	"nse-deal-tracker/internal/deals"
	"nse-deal-tracker/internal/export"
	"nse-deal-tracker/internal/logger"
	"nse-deal-tracker/internal/store"
	"nse-deal-tracker/internal/types"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dealType := flag.String("type", "both", "feed to pull: bulk, block or both")
	window := flag.String("window", "1W", "date window: 1D, 1W, 1M or 3M")
	from := flag.String("from", "", "start date YYYY-MM-DD (overrides -window, needs -to)")
	to := flag.String("to", "", "end date YYYY-MM-DD")
	hideIntraday := flag.Bool("hide-intraday", true, "drop same-day round trips")
	format := flag.String("format", "text", "output format: text or json")
	output := flag.String("output", "", "write the deal list as CSV to this file")
	top := flag.Int("top", 15, "number of symbols in the text report")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	opts, err := buildOptions(*dealType, *window, *from, *to, *hideIntraday)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()
	svc, _ := deals.NewFromConfig(cfg)

	result, err := svc.Fetch(ctx, opts)
	if err != nil {
		fmt.Printf("Error fetching deals: %v\n", err)
		os.Exit(1)
	}

	side := svc.SideData(ctx, result.Deals)
	groups := analytics.AggregateBySymbol(result.Deals, side)
	groups = analytics.SortByField(groups, "TotalValueBought", analytics.Descending)

	if *output != "" {
		if err := writeCSV(*output, result.Deals); err != nil {
			fmt.Printf("Error writing CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("CSV written:", *output)
	}

	if *format == "json" {
		out := map[string]interface{}{
			"deals":         result.Deals,
			"dedupStats":    result.Dedup,
			"intradayStats": result.Intraday,
			"symbols":       groups,
		}
		b, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(b))
		return
	}

	printReport(opts, result, groups, *top)
}

func buildOptions(dealType, window, from, to string, hide bool) (deals.FetchOptions, error) {
	opts := deals.FetchOptions{HideIntraday: hide}

	switch dealType {
	case "bulk":
		opts.DealType = types.Bulk
	case "block":
		opts.DealType = types.Block
	case "both":
		opts.DealType = types.Both
	default:
		return opts, fmt.Errorf("unknown -type %q", dealType)
	}

	if from != "" || to != "" {
		if from == "" || to == "" {
			return opts, fmt.Errorf("-from and -to must be given together")
		}
		var err error
		if opts.From, err = time.Parse("2006-01-02", from); err != nil {
			return opts, fmt.Errorf("invalid -from date %q", from)
		}
		if opts.To, err = time.Parse("2006-01-02", to); err != nil {
			return opts, fmt.Errorf("invalid -to date %q", to)
		}
		return opts, nil
	}

	var err error
	opts.From, opts.To, err = deals.DateRange(window, time.Now())
	return opts, err
}

func writeCSV(path string, records []types.DealRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.WriteDealsCSV(f, records)
}

func printReport(opts deals.FetchOptions, result *deals.Result, groups []analytics.SymbolGroup, top int) {
	fmt.Printf("Bulk/Block Deals  %s .. %s  (%s)\n",
		opts.From.Format("2006-01-02"), opts.To.Format("2006-01-02"), opts.DealType)
	fmt.Println("─────────────────────────────────────────────────────────────────────────────")
	fmt.Printf("Rows fetched: %d   unique: %d   duplicates: %d\n",
		result.Dedup.Total, result.Dedup.Unique, result.Dedup.Duplicates)
	fmt.Printf("Intraday round trips: %d of %d", result.Intraday.Intraday, result.Intraday.Total)
	if opts.HideIntraday {
		fmt.Print("  (hidden)")
	}
	fmt.Println()
	fmt.Println()

	if len(groups) == 0 {
		fmt.Println("No deals in this window.")
		return
	}

	if top > len(groups) {
		top = len(groups)
	}
	fmt.Printf("%-12s %12s %12s %14s %8s %8s\n",
		"SYMBOL", "BOUGHT", "SOLD", "NET VALUE", "DEALS", "CLIENTS")
	for _, g := range groups[:top] {
		fmt.Printf("%-12s %12d %12d %14.0f %8d %8d\n",
			g.Symbol, g.TotalBought, g.TotalSold, g.NetValue, g.DealCount, g.UniqueClients)
	}
}
