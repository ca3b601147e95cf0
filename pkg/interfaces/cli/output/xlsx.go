package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/orderdash/pkg/application/dto"
)

// maxSheetName is Excel's limit on sheet name length
const maxSheetName = 31

// WriteXLSX writes the report as a single-sheet workbook. Numeric columns are
// stored as numbers so the sheet can be charted directly; undefined rates
// stay as N/A text.
func WriteXLSX(w io.Writer, result *dto.ReportResult) error {
	f, err := buildWorkbook(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(result *dto.ReportResult) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := result.View
	if sheetName == "" {
		sheetName = "report"
	}
	if len(sheetName) > maxSheetName {
		sheetName = sheetName[:maxSheetName]
	}
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	t := tableFor(result)

	for col, header := range t.header {
		cell, err := writeCell(f, sheetName, col+1, 1, header)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to style header %s: %w", cell, err)
		}
	}

	for r, row := range t.rows {
		for col, value := range row {
			if _, err := writeCell(f, sheetName, col+1, r+2, cellValue(value, t.numeric[col])); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	for col := range t.header {
		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to name column %d: %w", col+1, err)
		}
		if err := f.SetColWidth(sheetName, colName, colName, 15); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to size column %s: %w", colName, err)
		}
	}

	if result.IsEmpty() {
		if _, err := writeCell(f, sheetName, 1, 2, NoMatchingData); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// writeCell sets one cell by 1-based column and row and returns its name
func writeCell(f *excelize.File, sheet string, col, row int, value interface{}) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", fmt.Errorf("invalid cell (%d, %d): %w", col, row, err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return cell, fmt.Errorf("failed to write cell %s: %w", cell, err)
	}
	return cell, nil
}

// cellValue stores numeric columns as numbers; flagged or N/A values remain text
func cellValue(value string, numeric bool) interface{} {
	if !numeric {
		return value
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	return value
}

func generateXLSXOutput(result *dto.ReportResult, config Config) error {
	filename, err := reportPath(result, config, ".xlsx")
	if err != nil {
		return err
	}

	f, err := buildWorkbook(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.stdout(), "📗 Workbook saved to: %s\n", filename)
	}
	return nil
}
