package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/orderdash/pkg/infrastructure/config"
)

// GeneratedHeader uses the Chinese ERP export headers so generated books
// exercise the alias table the same way real uploads do
var GeneratedHeader = []string{
	"客戶需求日期", "交貨日", "項目名稱", "項目說明", "公模", "客戶名稱", "原始訂單數", "已交數", "A1庫存",
}

// seasonalWeight scales order volume by calendar month, peaking before
// the winter tyre season
var seasonalWeight = [12]float64{0.7, 0.6, 0.8, 0.9, 1.0, 0.9, 0.8, 0.9, 1.2, 1.5, 1.6, 1.3}

// GenerateConfig holds configuration for order book generation
type GenerateConfig struct {
	Lines     int    // Number of order lines to generate
	Customers int    // Number of distinct customers
	Families  int    // Number of catalog prefixes
	Items     int    // Items per catalog prefix
	Months    int    // Span of requested dates, starting at Start
	Start     string // First requested month, YYYY-MM (default 2023-01)
	Format    string // csv or xlsx
	OutputDir string // Output directory for the generated file
	Seed      int64  // Random seed for reproducible generation
	Help      bool   // Show help
	Verbose   bool   // Verbose output

	Stdout io.Writer
}

// GenerateCommand writes a synthetic order book for demos and load testing
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
	stdout io.Writer
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(cfg GenerateConfig) *GenerateCommand {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	return &GenerateCommand{
		config: cfg,
		rand:   rand.New(rand.NewSource(seed)),
		stdout: stdout,
	}
}

// catalogItem is one generated product
type catalogItem struct {
	Code        string
	Description string
	Mold        string
	inventory   int
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}

	if err := cmd.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	start, err := cmd.startMonth()
	if err != nil {
		return err
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.stdout,
			"🔧 Generating %d order lines for %d customers, %d catalog prefixes x %d items over %d months\n",
			cmd.config.Lines, cmd.config.Customers, cmd.config.Families, cmd.config.Items, cmd.config.Months)
		fmt.Fprintf(cmd.stdout, "📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Fprintf(cmd.stdout, "🎲 Random seed: %d\n", cmd.config.Seed)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	customers := cmd.generateCustomers()
	items := cmd.generateCatalog()

	rows := make([][]string, 0, cmd.config.Lines)
	for i := 0; i < cmd.config.Lines; i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		rows = append(rows, cmd.generateLine(start, customers, items))
	}

	var path string
	switch cmd.config.Format {
	case "xlsx":
		path = filepath.Join(cmd.config.OutputDir, "orders.xlsx")
		err = writeGeneratedXLSX(path, rows)
	default:
		path = filepath.Join(cmd.config.OutputDir, "orders.csv")
		err = writeGeneratedCSV(path, rows)
	}
	if err != nil {
		return fmt.Errorf("failed to write order book: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.stdout, "✅ Order book written to: %s\n", path)
	}
	return nil
}

func (cmd *GenerateCommand) validate() error {
	if cmd.config.OutputDir == "" {
		return fmt.Errorf("-output is required")
	}
	if cmd.config.Lines <= 0 || cmd.config.Customers <= 0 || cmd.config.Families <= 0 ||
		cmd.config.Items <= 0 || cmd.config.Months <= 0 {
		return fmt.Errorf("lines, customers, families, items and months must be positive")
	}
	if cmd.config.Families > 26*26*26 {
		return fmt.Errorf("at most %d catalog prefixes can be generated", 26*26*26)
	}
	if cmd.config.Format != "" && cmd.config.Format != "csv" && cmd.config.Format != "xlsx" {
		return fmt.Errorf("unsupported format %q (csv/xlsx)", cmd.config.Format)
	}
	return nil
}

func (cmd *GenerateCommand) startMonth() (time.Time, error) {
	if cmd.config.Start == "" {
		return time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}
	start, err := time.Parse("2006-01", cmd.config.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start month %q, expected YYYY-MM", cmd.config.Start)
	}
	return start, nil
}

// generateCustomers starts from the default dealer shortlist so generated
// books exercise the shortlist and the Other menu
func (cmd *GenerateCommand) generateCustomers() []string {
	customers := make([]string, 0, cmd.config.Customers)
	for i := 0; i < cmd.config.Customers; i++ {
		if i < len(config.DefaultDealerShortlist) {
			customers = append(customers, config.DefaultDealerShortlist[i])
			continue
		}
		customers = append(customers, fmt.Sprintf("經銷商%03d", i+1))
	}
	return customers
}

func (cmd *GenerateCommand) generateCatalog() []*catalogItem {
	prefixes := cmd.rand.Perm(26 * 26 * 26)[:cmd.config.Families]

	items := make([]*catalogItem, 0, cmd.config.Families*cmd.config.Items)
	for _, p := range prefixes {
		prefix := string([]byte{byte('A' + p/676), byte('A' + p/26%26), byte('A' + p%26)})
		for j := 0; j < cmd.config.Items; j++ {
			code := fmt.Sprintf("%s%03d", prefix, 100+j*10)
			items = append(items, &catalogItem{
				Code:        code,
				Description: fmt.Sprintf("%s series part %d", prefix, j+1),
				Mold:        "M-" + code,
				inventory:   50 + cmd.rand.Intn(1000),
			})
		}
	}
	return items
}

// generateLine produces one order line. Roughly one line in twenty is still
// open (no delivery date, nothing delivered) and a few over-deliver.
func (cmd *GenerateCommand) generateLine(start time.Time, customers []string, items []*catalogItem) []string {
	requested := start.AddDate(0, cmd.rand.Intn(cmd.config.Months), cmd.rand.Intn(28))
	item := items[cmd.rand.Intn(len(items))]
	customer := customers[cmd.rand.Intn(len(customers))]

	weight := seasonalWeight[requested.Month()-1]
	ordered := int(float64(10+cmd.rand.Intn(300)) * weight)

	var delivery string
	delivered := 0
	if cmd.rand.Intn(20) != 0 {
		delivery = requested.AddDate(0, 0, 7+cmd.rand.Intn(40)).Format("2006-01-02")
		delivered = int(float64(ordered) * (0.6 + cmd.rand.Float64()*0.45))
	}

	// Inventory drifts per item so the latest snapshot differs from earlier ones
	item.inventory += cmd.rand.Intn(200) - 100
	if item.inventory < 0 {
		item.inventory = 0
	}

	return []string{
		requested.Format("2006-01-02"),
		delivery,
		item.Code,
		item.Description,
		item.Mold,
		customer,
		strconv.Itoa(ordered),
		strconv.Itoa(delivered),
		strconv.Itoa(item.inventory),
	}
}

func writeGeneratedCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(GeneratedHeader); err != nil {
		return err
	}
	return writer.WriteAll(rows)
}

// writeGeneratedXLSX stores dates as date cells and quantities as numbers,
// the way order books exported from the ERP arrive
func writeGeneratedXLSX(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Orders"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	header := make([]interface{}, len(GeneratedHeader))
	for i, h := range GeneratedHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for r, row := range rows {
		values := make([]interface{}, len(row))
		for c, raw := range row {
			values[c] = generatedCell(c, raw)
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func generatedCell(column int, raw string) interface{} {
	switch {
	case raw == "":
		return nil
	case column <= 1:
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			return d
		}
	case column >= 6:
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return raw
}

// printHelp shows usage information
func (cmd *GenerateCommand) printHelp() {
	fmt.Fprintln(cmd.stdout, `Order Book Generator

USAGE:
    orderdash generate [OPTIONS]

OPTIONS:
    -lines <N>          Number of order lines to generate (default: 1000)
    -customers <N>      Number of distinct customers (default: 15)
    -families <N>       Number of catalog prefixes (default: 6)
    -items <N>          Items per catalog prefix (default: 8)
    -months <N>         Months of requested dates (default: 24)
    -start <YYYY-MM>    First requested month (default: 2023-01)
    -format <fmt>       csv or xlsx (default: csv)
    -output <DIR>       Output directory for the generated file (required)
    -seed <N>           Random seed for reproducible generation (optional)
    -verbose            Enable verbose output
    -help               Show this help message

EXAMPLES:
    # Small demo workbook
    orderdash generate -lines 500 -format xlsx -output ./demo

    # Reproducible large book for timing runs
    orderdash generate -lines 200000 -customers 120 -families 40 -output ./large -seed 12345 -verbose`)
}
