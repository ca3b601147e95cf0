package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/orderdash/pkg/application/dto"
	"github.com/vsinha/orderdash/pkg/domain/entities"
)

func trendResult() *dto.ReportResult {
	return &dto.ReportResult{
		View:   "product-trend",
		Title:  "[ABC] order and delivery trend",
		Status: dto.StatusReady,
		Trend: []dto.PeriodRow{
			{
				Period:       entities.Period{Year: 2023, Month: 11},
				OrderedQty:   entities.NewQuantity(150),
				DeliveredQty: entities.NewQuantity(80),
				DeliveryRate: dto.NewRate(decimal.RequireFromString("53.333333")),
			},
			{
				Period:       entities.Period{Year: 2024, Month: 3},
				OrderedQty:   entities.ZeroQuantity,
				DeliveredQty: entities.ZeroQuantity,
			},
			{
				Period:         entities.Period{Year: 2024, Month: 4},
				OrderedQty:     entities.NewQuantity(75),
				DeliveredQty:   entities.NewQuantity(90),
				DeliveryRate:   dto.NewRate(decimal.NewFromInt(120)),
				RateOutOfRange: true,
			},
		},
		RecordsMatched: 5,
		Skipped:        1,
		GeneratedAt:    time.Date(2024, time.June, 30, 12, 0, 0, 0, time.UTC),
	}
}

func inventoryResult() *dto.ReportResult {
	return &dto.ReportResult{
		View:   "current-inventory",
		Title:  "[Dealer A] inventory distribution",
		Status: dto.StatusReady,
		Inventory: []dto.InventoryRow{
			{
				ItemCode:     "ABC100",
				CustomerName: "Dealer A",
				SnapshotDate: entities.NewDate(2024, time.January, 9),
				InventoryQty: entities.NewQuantity(450),
				SharePercent: dto.NewRate(decimal.RequireFromString("69.659")),
			},
		},
		AsOf: entities.NewDate(2024, time.April, 2),
	}
}

func emptyResult() *dto.ReportResult {
	return &dto.ReportResult{
		View:   "dealer-trend",
		Title:  "[Nobody] order and delivery trend",
		Status: dto.StatusEmpty,
		Trend:  []dto.PeriodRow{},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, trendResult(), Config{InputFile: "orders.xlsx"}); err != nil {
		t.Fatalf("Failed to write text: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"[ABC] order and delivery trend",
		"Source: orders.xlsx",
		"Records skipped (no date or key): 1",
		"53.33",
		NotApplicable,
		"120.00*",
		"1 period(s) with a delivery rate outside 0-100%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected text output to contain %q:\n%s", want, out)
		}
	}
}

func TestWriteText_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, emptyResult(), Config{}); err != nil {
		t.Fatalf("Failed to write text: %v", err)
	}
	if !strings.Contains(buf.String(), NoMatchingData) {
		t.Errorf("Expected %q, got:\n%s", NoMatchingData, buf.String())
	}
	if strings.Contains(buf.String(), "Delivery Rate") {
		t.Error("Expected no table for an empty report")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, trendResult()); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV back: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d", len(records))
	}
	if records[0][4] != "Delivery Rate %" {
		t.Errorf("Unexpected header %v", records[0])
	}
	if records[1][4] != "53.33" || records[2][4] != NotApplicable {
		t.Errorf("Unexpected rates %q, %q", records[1][4], records[2][4])
	}
}

func TestWriteCSV_Inventory(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, inventoryResult()); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}
	records, _ := csv.NewReader(&buf).ReadAll()
	if len(records) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(records))
	}
	if records[1][0] != "ABC100" || records[1][5] != "450" || records[1][6] != "69.66" {
		t.Errorf("Unexpected inventory row %v", records[1])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, trendResult()); err != nil {
		t.Fatalf("Failed to write JSON: %v", err)
	}

	var decoded struct {
		Status string `json:"status"`
		Trend  []struct {
			OrderedQty   float64  `json:"ordered_qty"`
			DeliveryRate *float64 `json:"delivery_rate"`
		} `json:"trend"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Failed to decode JSON: %v", err)
	}
	if decoded.Status != "ready" {
		t.Errorf("Expected status ready, got %q", decoded.Status)
	}
	if decoded.Trend[0].OrderedQty != 150 {
		t.Errorf("Expected 150 ordered, got %v", decoded.Trend[0].OrderedQty)
	}
	if rate := decoded.Trend[0].DeliveryRate; rate == nil || *rate != 53.333333 {
		t.Errorf("Expected numeric rate 53.333333, got %v", rate)
	}
	if decoded.Trend[1].DeliveryRate != nil {
		t.Errorf("Expected null rate, got %v", *decoded.Trend[1].DeliveryRate)
	}
	if bytes.Contains(buf.Bytes(), []byte(`"delivery_rate":"`)) {
		t.Errorf("Expected delivery_rate as a JSON number, got %s", buf.String())
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, trendResult()); err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("product-trend")
	if err != nil {
		t.Fatalf("Failed to read sheet: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}
	if rows[0][0] != "Period" || rows[2][4] != NotApplicable {
		t.Errorf("Unexpected rows %v", rows)
	}

	cellType, err := f.GetCellType("product-trend", "C2")
	if err != nil {
		t.Fatalf("Failed to read cell type: %v", err)
	}
	if cellType != excelize.CellTypeNumber && cellType != excelize.CellTypeUnset {
		t.Errorf("Expected ordered quantity stored as a number, got type %v", cellType)
	}
}

func TestWriteCell_Errors(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	cell, err := writeCell(f, "Sheet1", 2, 3, 42.5)
	if err != nil || cell != "B3" {
		t.Fatalf("Expected B3 written, got %q, %v", cell, err)
	}

	testCases := []struct {
		name     string
		sheet    string
		col      int
		expected string
	}{
		{"missing sheet", "product-trend", 1, "failed to write cell A1"},
		{"invalid column", "Sheet1", 0, "invalid cell (0, 1)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := writeCell(f, tc.sheet, tc.col, 1, "value")
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tc.expected) {
				t.Errorf("Expected error containing %q, got %v", tc.expected, err)
			}
		})
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, trendResult()); err != nil {
		t.Fatalf("Failed to write HTML: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"<title>[ABC] order and delivery trend</title>", NotApplicable, "bar-row", "2023-11"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected HTML to contain %q", want)
		}
	}

	buf.Reset()
	if err := WriteHTML(&buf, emptyResult()); err != nil {
		t.Fatalf("Failed to write HTML: %v", err)
	}
	if !strings.Contains(buf.String(), NoMatchingData) {
		t.Error("Expected empty HTML report to say so")
	}
}

func TestChartBars(t *testing.T) {
	bars := chartBars(tableFor(trendResult()))
	if len(bars) != 3 {
		t.Fatalf("Expected 3 bars, got %d", len(bars))
	}
	if bars[0].Width != 100 {
		t.Errorf("Expected the largest bar at full width, got %v", bars[0].Width)
	}
	if bars[1].Width != 0 {
		t.Errorf("Expected zero bar, got %v", bars[1].Width)
	}
}

func TestGenerate_ToDirectory(t *testing.T) {
	dir := t.TempDir()

	for _, format := range []string{"text", "json", "csv", "xlsx", "html"} {
		var stdout bytes.Buffer
		err := Generate(trendResult(), Config{Format: format, OutputDir: dir, Verbose: true, Stdout: &stdout})
		if err != nil {
			t.Fatalf("Failed to generate %s: %v", format, err)
		}
		if !strings.Contains(stdout.String(), "saved to") {
			t.Errorf("Expected verbose save message for %s, got %q", format, stdout.String())
		}
	}

	for _, name := range []string{"product-trend.txt", "product-trend.json", "product-trend.csv", "product-trend.xlsx", "product-trend.html"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}
}

func TestGenerate_Stdout(t *testing.T) {
	var stdout bytes.Buffer
	if err := Generate(inventoryResult(), Config{Format: "text", Stdout: &stdout}); err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}
	if !strings.Contains(stdout.String(), "As of: 2024-04-02") {
		t.Errorf("Unexpected output:\n%s", stdout.String())
	}
}

func TestGenerate_Errors(t *testing.T) {
	if err := Generate(trendResult(), Config{Format: "pdf"}); err == nil {
		t.Error("Expected error for unsupported format")
	}
	if err := Generate(trendResult(), Config{Format: "xlsx"}); err == nil {
		t.Error("Expected error for xlsx without output directory")
	}
	if err := Generate(trendResult(), Config{Format: "html"}); err == nil {
		t.Error("Expected error for html without output directory")
	}
}
