package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vsinha/orderdash/pkg/application/dto"
)

// NotApplicable is printed wherever a delivery rate or share is undefined
const NotApplicable = "N/A"

// NoMatchingData is printed for a completed report with no rows
const NoMatchingData = "no matching data"

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	RunTime   time.Duration
	InputFile string
	// Stdout receives output when no directory is given; nil means os.Stdout
	Stdout io.Writer
}

func (c Config) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

// Generate creates output in the specified format. Text, JSON and CSV go to
// stdout unless an output directory is set; XLSX and HTML always need one.
func Generate(result *dto.ReportResult, config Config) error {
	switch config.Format {
	case "text":
		return emit(result, config, ".txt", func(w io.Writer) error {
			return WriteText(w, result, config)
		})
	case "json":
		return emit(result, config, ".json", func(w io.Writer) error {
			return WriteJSON(w, result)
		})
	case "csv":
		return emit(result, config, ".csv", func(w io.Writer) error {
			return WriteCSV(w, result)
		})
	case "xlsx":
		return generateXLSXOutput(result, config)
	case "html":
		return generateHTMLOutput(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// emit writes to stdout, or to <dir>/<view><ext> when an output directory is set
func emit(result *dto.ReportResult, config Config, ext string, write func(io.Writer) error) error {
	if config.OutputDir == "" {
		return write(config.stdout())
	}

	filename, err := reportPath(result, config, ext)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	if err := write(file); err != nil {
		return err
	}

	if config.Verbose {
		fmt.Fprintf(config.stdout(), "💾 Results saved to: %s\n", filename)
	}
	return nil
}

func reportPath(result *dto.ReportResult, config Config, ext string) (string, error) {
	if config.OutputDir == "" {
		return "", fmt.Errorf("output directory required for %s format", config.Format)
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return filepath.Join(config.OutputDir, result.View+ext), nil
}

// WriteText writes a human-readable report
func WriteText(w io.Writer, result *dto.ReportResult, config Config) error {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 %s\n", result.Title)
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", len(result.Title)+3))

	if config.InputFile != "" {
		fmt.Fprintf(&b, "Source: %s\n", config.InputFile)
	}
	if result.Selection.Start.Valid {
		fmt.Fprintf(&b, "Range: %s to %s\n", result.Selection.Start, result.Selection.End)
	}
	if result.AsOf.Valid {
		fmt.Fprintf(&b, "As of: %s\n", result.AsOf)
	}
	fmt.Fprintf(&b, "Records matched: %d\n", result.RecordsMatched)
	if result.Skipped > 0 {
		fmt.Fprintf(&b, "Records skipped (no date or key): %d\n", result.Skipped)
	}
	if config.RunTime > 0 {
		fmt.Fprintf(&b, "Run time: %v\n", config.RunTime)
	}
	b.WriteString("\n")

	if result.IsEmpty() {
		fmt.Fprintf(&b, "%s\n", NoMatchingData)
		_, err := io.WriteString(w, b.String())
		return err
	}

	t := tableFor(result)
	widths := t.widths()
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%-*s", widths[i], cell)
		}
		b.WriteString("\n")
	}

	writeRow(t.header)
	dashes := make([]string, len(t.header))
	for i, width := range widths {
		dashes[i] = strings.Repeat("-", width)
	}
	writeRow(dashes)
	for _, row := range t.rows {
		writeRow(row)
	}

	if t.flagged > 0 {
		fmt.Fprintf(&b, "\n⚠️  %d period(s) with a delivery rate outside 0-100%% (marked *)\n", t.flagged)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON writes the complete result as indented JSON
func WriteJSON(w io.Writer, result *dto.ReportResult) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')
	if _, err := w.Write(jsonData); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// WriteCSV writes the report rows with a header line. An empty report
// produces the header only.
func WriteCSV(w io.Writer, result *dto.ReportResult) error {
	t := tableFor(result)

	writer := csv.NewWriter(w)
	if err := writer.Write(t.header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writer.WriteAll(t.rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// table is the flattened form of a result shared by every tabular writer.
// The populated section picks the layout; stages return non-nil slices even
// when nothing matched.
type table struct {
	header  []string
	rows    [][]string
	numeric []bool
	flagged int
}

func (t table) widths() []int {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = len([]rune(h))
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}

func tableFor(result *dto.ReportResult) table {
	switch {
	case result.Inventory != nil:
		t := table{
			header:  []string{"Item Code", "Description", "Mold Code", "Customer", "Snapshot", "Inventory", "Share %"},
			numeric: []bool{false, false, false, false, false, true, true},
		}
		for _, row := range result.Inventory {
			t.rows = append(t.rows, []string{
				row.ItemCode,
				row.ItemDescription,
				row.MoldCode,
				row.CustomerName,
				row.SnapshotDate.String(),
				row.InventoryQty.String(),
				formatPercent(row.SharePercent),
			})
		}
		return t

	case result.Seasonality != nil:
		t := table{
			header:  []string{"Period", "Ordered"},
			numeric: []bool{false, true},
		}
		for _, row := range result.Seasonality {
			t.rows = append(t.rows, []string{row.Period.String(), row.OrderedQty.String()})
		}
		return t

	default:
		t := table{
			header:  []string{"Period", "Key", "Ordered", "Delivered", "Delivery Rate %"},
			numeric: []bool{false, false, true, true, true},
		}
		for _, row := range result.Trend {
			rate := formatPercent(row.DeliveryRate)
			if row.RateOutOfRange {
				rate += "*"
				t.flagged++
			}
			t.rows = append(t.rows, []string{
				row.Period.String(),
				row.Key,
				row.OrderedQty.String(),
				row.DeliveredQty.String(),
				rate,
			})
		}
		return t
	}
}

// formatPercent renders a percentage with two decimals, or N/A when undefined
func formatPercent(value dto.Rate) string {
	if !value.Valid {
		return NotApplicable
	}
	return value.Decimal.StringFixed(2)
}
