package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/vsinha/orderdash/pkg/interfaces/cli/commands"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "generate" {
		runGenerate(os.Args[2:])
		return
	}

	// Command line flags
	var (
		file       = flag.String("file", "", "Order book to load (.xlsx or .csv)")
		sheet      = flag.String("sheet", "", "Workbook sheet to read (default: first sheet)")
		view       = flag.String("view", "", "Report view to run")
		customer   = flag.String("customer", "", "Customer name")
		prefix     = flag.String("prefix", "", "Catalog prefix (first 3 characters of the item code)")
		start      = flag.String("start", "", "Range start, YYYY-MM-DD")
		end        = flag.String("end", "", "Range end, YYYY-MM-DD, inclusive")
		outputDir  = flag.String("output", "", "Output directory for results (optional)")
		format     = flag.String("format", "", "Output format: text, json, csv, xlsx, html")
		configFile = flag.String("config", "", "YAML config file (optional)")
		list       = flag.String("list", "", "List selectable prefixes, customers or dealers")
		verbose    = flag.Bool("verbose", false, "Enable verbose output")
		help       = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	// Create command configuration
	config := commands.Config{
		File:       *file,
		Sheet:      *sheet,
		View:       *view,
		Customer:   *customer,
		Prefix:     *prefix,
		Start:      *start,
		End:        *end,
		OutputDir:  *outputDir,
		Format:     *format,
		ConfigFile: *configFile,
		List:       *list,
		Verbose:    *verbose,
		Help:       *help,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := commands.NewReportCommand(config)
	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// runGenerate handles the generate subcommand
func runGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var (
		lines     = fs.Int("lines", 1000, "Number of order lines to generate")
		customers = fs.Int("customers", 15, "Number of distinct customers")
		families  = fs.Int("families", 6, "Number of catalog prefixes")
		items     = fs.Int("items", 8, "Items per catalog prefix")
		months    = fs.Int("months", 24, "Months of requested dates")
		start     = fs.String("start", "", "First requested month, YYYY-MM")
		format    = fs.String("format", "csv", "Output format: csv, xlsx")
		outputDir = fs.String("output", "", "Output directory for the generated file")
		seed      = fs.Int64("seed", 0, "Random seed for reproducible generation")
		verbose   = fs.Bool("verbose", false, "Enable verbose output")
		help      = fs.Bool("help", false, "Show help message")
	)
	fs.Parse(args)

	cmd := commands.NewGenerateCommand(commands.GenerateConfig{
		Lines:     *lines,
		Customers: *customers,
		Families:  *families,
		Items:     *items,
		Months:    *months,
		Start:     *start,
		Format:    *format,
		OutputDir: *outputDir,
		Seed:      *seed,
		Verbose:   *verbose,
		Help:      *help,
	})

	if err := cmd.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
