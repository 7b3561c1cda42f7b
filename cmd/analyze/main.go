package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/salonops/repeat-insight/internal/analytics"
	"github.com/salonops/repeat-insight/internal/config"
	"github.com/salonops/repeat-insight/internal/identity"
	"github.com/salonops/repeat-insight/internal/ingest"
	"github.com/salonops/repeat-insight/internal/normalize"
	"github.com/salonops/repeat-insight/internal/pkg/logger"
	"github.com/salonops/repeat-insight/internal/report"
)

func main() {
	var (
		start       = flag.String("start", "", "new-customer window start (YYYY-MM-DD)")
		end         = flag.String("end", "", "new-customer window end (YYYY-MM-DD)")
		cutoff      = flag.String("cutoff", "", "repeat observation cutoff (YYYY-MM-DD)")
		format      = flag.String("format", "text", "output format: text or json")
		outDir      = flag.String("out", "", "write the text report into this directory instead of stdout")
		encoding    = flag.String("encoding", "", "preferred CSV encoding (tried before detection)")
		status      = flag.String("status", "", "completed-status sentinel (default from config)")
		minRepeat   = flag.Int("min-repeat", 0, "repeat-count threshold for x-plus metrics")
		minStylist  = flag.Int("min-stylist", 0, "minimum customers for a stylist to be ranked")
		minCoupon   = flag.Int("min-coupon", 0, "minimum customers for a coupon to be ranked")
		logLevel   = flag.String("log-level", "warn", "log level: debug, info, warn, error")
	)
	flag.Parse()

	if *start == "" || *end == "" || *cutoff == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -start YYYY-MM-DD -end YYYY-MM-DD -cutoff YYYY-MM-DD [flags] file.csv [file.csv ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input CSV files given")
		os.Exit(2)
	}

	logger.SetLevel(logger.ParseLevel(*logLevel))

	cfg := config.Default()
	if *encoding != "" {
		cfg.Ingest.DefaultEncoding = *encoding
	}
	if *status != "" {
		cfg.Analysis.CompletedStatus = *status
	}

	loader := ingest.NewLoader(cfg.Ingest.DefaultEncoding)
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Loading CSV files"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var tables []*ingest.RawTable
	for _, path := range files {
		table, err := loader.LoadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
		} else if len(table.Rows) > 0 {
			tables = append(tables, table)
		}
		bar.Add(1)
	}
	if len(tables) == 0 {
		fmt.Fprintln(os.Stderr, "error: no readable input files")
		os.Exit(1)
	}

	ds := normalize.BuildDataset(tables, cfg.Analysis.CompletedStatus)
	identity.Assign(ds)

	params := analytics.Params{
		NewCustomerStart:    *start,
		NewCustomerEnd:      *end,
		RepeatAnalysisEnd:   *cutoff,
		MinRepeatCount:      *minRepeat,
		MinStylistCustomers: *minStylist,
		MinCouponCustomers:  *minCoupon,
	}

	result, err := analytics.NewEngine().Analyze(ds, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
			os.Exit(1)
		}
	case "text":
		gen := report.New(*outDir)
		if *outDir != "" {
			path, err := gen.Generate(result)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(path)
		} else {
			text, err := gen.Render(result)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to render report: %v\n", err)
				os.Exit(1)
			}
			fmt.Print(text)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q (want text or json)\n", *format)
		os.Exit(2)
	}
}
