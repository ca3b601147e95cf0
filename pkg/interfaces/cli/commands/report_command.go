package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vsinha/orderdash/pkg/application/services"
	"github.com/vsinha/orderdash/pkg/application/services/report"
	"github.com/vsinha/orderdash/pkg/domain/entities"
	domainservices "github.com/vsinha/orderdash/pkg/domain/services"
	"github.com/vsinha/orderdash/pkg/infrastructure/config"
	"github.com/vsinha/orderdash/pkg/infrastructure/events"
	"github.com/vsinha/orderdash/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/orderdash/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/orderdash/pkg/infrastructure/repositories/xlsx"
	"github.com/vsinha/orderdash/pkg/interfaces/cli/output"
)

// maxLoggedWarnings caps per-cell warnings logged at warn level; the rest
// are logged at debug
const maxLoggedWarnings = 20

// ListOptions are the accepted values of the -list flag
var ListOptions = []string{"prefixes", "customers", "dealers"}

// Config holds configuration for the report command
type Config struct {
	File       string
	Sheet      string
	View       string
	Customer   string
	Prefix     string
	Start      string
	End        string
	OutputDir  string
	Format     string
	ConfigFile string
	List       string
	Verbose    bool
	Help       bool

	// Stdout and Stderr default to the process streams
	Stdout io.Writer
	Stderr io.Writer
}

// ReportCommand loads an order book and renders one report view
type ReportCommand struct {
	config Config
	stdout io.Writer
	logger zerolog.Logger
}

// NewReportCommand creates a new report command with the given configuration
func NewReportCommand(cfg Config) *ReportCommand {
	stdout, stderr := cfg.Stdout, cfg.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339, NoColor: cfg.Stderr != nil}).
		Level(level).
		With().Timestamp().Logger()

	return &ReportCommand{
		config: cfg,
		stdout: stdout,
		logger: logger,
	}
}

// Execute runs the report command
func (c *ReportCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	settings, err := c.loadSettings()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	dateRange, err := c.validateInputs(settings)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if c.config.Verbose {
		c.printHeader(settings)
		fmt.Fprintln(c.stdout, "📂 Loading order book...")
	}

	table, err := c.readTable(settings.Input.Sheet)
	if err != nil {
		return err
	}

	store := events.NewInMemoryEventStore()
	if err := store.Subscribe([]string{events.DatasetRejectedEvent, events.ReportGeneratedEvent}, c.auditLogger()); err != nil {
		return fmt.Errorf("failed to subscribe audit logger: %w", err)
	}

	session := services.NewSession(
		domainservices.NewDatasetLoaderWithAliases(settings.Input.Aliases),
		memory.NewDatasetRepository(),
		store,
	)

	ds, err := session.Load(ctx, c.config.File, table)
	if err != nil {
		return fmt.Errorf("error loading orders: %w", err)
	}
	c.logWarnings(ds.Warnings)

	if c.config.Verbose {
		fmt.Fprintf(c.stdout, "✅ Loaded %d order lines (%d warnings)\n\n", ds.Len(), len(ds.Warnings))
	}

	if c.config.List != "" {
		return c.printOptions(session, settings.Dealers.Shortlist)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.stdout, "🔄 Running %s report...\n", c.config.View)
	}

	startTime := time.Now()
	result, err := session.Run(ctx, report.ReportRequest{
		View:          c.config.View,
		Range:         dateRange,
		Customer:      c.config.Customer,
		CatalogPrefix: c.config.Prefix,
	})
	runTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("error running report: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.stdout, "✅ Report completed in %v\n\n", runTime)
	}

	err = output.Generate(result, output.Config{
		Format:    settings.Output.Format,
		OutputDir: settings.Output.Dir,
		Verbose:   c.config.Verbose,
		RunTime:   runTime,
		InputFile: c.config.File,
		Stdout:    c.stdout,
	})
	if err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintln(c.stdout, "🏁 Report complete!")
	}

	return nil
}

// loadSettings merges the optional config file with command line flags.
// Flags win over the file.
func (c *ReportCommand) loadSettings() (*config.Config, error) {
	settings := config.Default()
	if c.config.ConfigFile != "" {
		loaded, err := config.Load(c.config.ConfigFile)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}

	if c.config.Sheet != "" {
		settings.Input.Sheet = c.config.Sheet
	}
	if c.config.Format != "" {
		settings.Output.Format = c.config.Format
	}
	if c.config.OutputDir != "" {
		settings.Output.Dir = c.config.OutputDir
	}

	return settings, nil
}

// validateInputs validates the command configuration and parses the date range
func (c *ReportCommand) validateInputs(settings *config.Config) (report.DateRange, error) {
	var dateRange report.DateRange

	if c.config.File == "" {
		return dateRange, fmt.Errorf("must specify an order book with -file")
	}
	if _, err := os.Stat(c.config.File); err != nil {
		return dateRange, fmt.Errorf("order book not found: %s", c.config.File)
	}

	switch {
	case c.config.List != "" && c.config.View != "":
		return dateRange, fmt.Errorf("-list and -view cannot be combined")
	case c.config.List != "":
		if !lo.Contains(ListOptions, c.config.List) {
			return dateRange, fmt.Errorf("unknown list %q (%s)", c.config.List, strings.Join(ListOptions, "/"))
		}
	case c.config.View == "":
		return dateRange, fmt.Errorf("must specify -view (%s) or -list", strings.Join(report.ViewNames(), ", "))
	default:
		if _, err := report.LookupView(c.config.View); err != nil {
			return dateRange, fmt.Errorf("%w (%s)", err, strings.Join(report.ViewNames(), ", "))
		}
	}

	if c.config.Customer == report.OtherDealerOption {
		return dateRange, fmt.Errorf("%q is a menu entry, pick a customer from -list dealers", report.OtherDealerOption)
	}

	if !config.IsValidFormat(settings.Output.Format) {
		return dateRange, fmt.Errorf("unsupported output format: %s", settings.Output.Format)
	}

	var dates []time.Time
	for _, raw := range []string{c.config.Start, c.config.End} {
		if raw == "" {
			break
		}
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return dateRange, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
		}
		dates = append(dates, d)
	}
	dateRange = report.NewDateRange(dates...)

	if (c.config.Start != "" || c.config.End != "") && !dateRange.IsComplete() {
		c.logger.Warn().Str("start", c.config.Start).Str("end", c.config.End).
			Msg("date range needs both -start and -end, showing all dates")
		dateRange = report.DateRange{}
	}

	return dateRange, nil
}

// readTable picks a reader by file extension
func (c *ReportCommand) readTable(sheet string) (entities.RawTable, error) {
	var (
		table entities.RawTable
		err   error
	)

	switch strings.ToLower(filepath.Ext(c.config.File)) {
	case ".xlsx", ".xlsm":
		table, err = xlsx.NewLoader(sheet).LoadFile(c.config.File)
	case ".csv":
		table, err = csv.NewLoader().LoadFile(c.config.File)
	default:
		return table, fmt.Errorf("unsupported order book type %q, expected .xlsx or .csv", filepath.Ext(c.config.File))
	}
	if err != nil {
		return table, fmt.Errorf("error reading order book: %w", err)
	}

	c.logger.Debug().Str("file", c.config.File).Int("columns", len(table.Header)).Int("rows", len(table.Rows)).
		Msg("order book read")
	return table, nil
}

func (c *ReportCommand) logWarnings(warnings []entities.LoadWarning) {
	for i, w := range warnings {
		event := c.logger.Warn()
		if i >= maxLoggedWarnings {
			event = c.logger.Debug()
		}
		event.Int("row", w.Row).Str("column", w.Column).Str("value", w.Value).Str("kind", w.Kind.String()).
			Msg("cell ignored")
	}
	if len(warnings) > maxLoggedWarnings {
		c.logger.Warn().Int("more", len(warnings)-maxLoggedWarnings).Msg("further cell warnings hidden, use -verbose")
	}
}

// auditLogger mirrors the session's audit events into the log
func (c *ReportCommand) auditLogger() events.EventHandler {
	return &events.HandlerFunc{
		Types: []string{events.DatasetRejectedEvent, events.ReportGeneratedEvent},
		Fn: func(e events.Event) error {
			switch data := e.Data().(type) {
			case events.DatasetRejected:
				c.logger.Error().Str("source", data.Source).Strs("missing", data.Missing).Msg("upload rejected")
			case events.ReportGenerated:
				c.logger.Debug().Str("view", data.View).Str("status", data.Status.String()).
					Int("rows", data.Rows).Int("matched", data.RecordsMatched).Int("skipped", data.Skipped).
					Msg("report generated")
			}
			return nil
		},
	}
}

func (c *ReportCommand) printOptions(session *services.Session, shortlist []string) error {
	opts, err := session.Options(shortlist)
	if err != nil {
		return err
	}

	var values []string
	switch c.config.List {
	case "prefixes":
		values = opts.CatalogPrefixes
	case "customers":
		values = opts.Customers
	case "dealers":
		for _, d := range opts.Dealers {
			if d != report.OtherDealerOption {
				values = append(values, d)
			}
		}
		if len(opts.OtherDealers) > 0 {
			values = append(values, "", report.OtherDealerOption+":")
			for _, d := range opts.OtherDealers {
				values = append(values, "  "+d)
			}
		}
	}

	for _, v := range values {
		fmt.Fprintln(c.stdout, v)
	}
	return nil
}

// printHeader prints the command header information
func (c *ReportCommand) printHeader(settings *config.Config) {
	fmt.Fprintf(c.stdout, "🚀 Order Dashboard CLI\n")
	fmt.Fprintf(c.stdout, "Order book: %s\n", c.config.File)
	if settings.Input.Sheet != "" {
		fmt.Fprintf(c.stdout, "Sheet: %s\n", settings.Input.Sheet)
	}
	if c.config.View != "" {
		fmt.Fprintf(c.stdout, "View: %s\n", c.config.View)
	}
	fmt.Fprintf(c.stdout, "Output format: %s\n", settings.Output.Format)
	if settings.Output.Dir != "" {
		fmt.Fprintf(c.stdout, "Output directory: %s\n", settings.Output.Dir)
	}
	fmt.Fprintln(c.stdout)
}

// showHelp displays the help message
func (c *ReportCommand) showHelp() {
	fmt.Fprintf(c.stdout, `Order Dashboard CLI - order, delivery and inventory reports from an order book

USAGE:
    orderdash -file <orders.xlsx|orders.csv> -view <view> [selection] [options]
    orderdash -file <orders.xlsx|orders.csv> -list prefixes|customers|dealers

VIEWS:
    product-trend       Monthly ordered/delivered and delivery rate for a catalog prefix (-prefix)
    dealer-trend        Monthly ordered/delivered and delivery rate for a customer (-customer)
    current-inventory   Latest inventory per item for a customer, items under 1%% of total hidden
    top-inventory       Ten largest inventories across the whole order book
    seasonality         Orders per delivery month for a customer, every month shown
    top-seasonality     Ten busiest delivery months for a customer

OPTIONS:
    -file <path>        Order book to load (.xlsx or .csv)
    -sheet <name>       Workbook sheet to read (default: first sheet)
    -view <name>        Report view to run
    -prefix <code>      Catalog prefix (first 3 characters of the item code)
    -customer <name>    Customer name
    -start <date>       Range start, YYYY-MM-DD (needs -end)
    -end <date>         Range end, YYYY-MM-DD, inclusive
    -format <fmt>       Output format: text, json, csv, xlsx, html (default: text)
    -output <dir>       Output directory (required for xlsx and html)
    -config <file>      YAML config with column aliases and dealer shortlist
    -list <what>        List selectable prefixes, customers or dealers
    -verbose            Enable verbose output
    -help               Show this help message

REQUIRED COLUMNS (English or Chinese headers):
    requested_date (客戶需求日期), delivery_date (交貨日), item_code (項目名稱),
    item_description (項目說明), mold_code (公模), customer_name (客戶名稱),
    ordered_qty (原始訂單數), delivered_qty (已交數), inventory_qty (A1庫存)

EXAMPLES:
    # Delivery performance for one product family in the first half of 2024
    orderdash -file orders.xlsx -view product-trend -prefix ABC -start 2024-01-01 -end 2024-06-30

    # Which dealers can be selected
    orderdash -file orders.xlsx -list dealers

    # Seasonality chart as HTML
    orderdash -file orders.xlsx -view seasonality -customer 嘉航車業 -format html -output reports/
`)
}
