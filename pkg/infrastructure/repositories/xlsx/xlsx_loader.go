package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/orderdash/pkg/domain/entities"
)

// Loader reads order books from Excel workbooks
type Loader struct {
	// Sheet to read; empty selects the first sheet
	Sheet string
}

// NewLoader creates a new XLSX loader for the given sheet
func NewLoader(sheet string) *Loader {
	return &Loader{Sheet: sheet}
}

// LoadFile reads a raw table from an XLSX file
func (l *Loader) LoadFile(filename string) (entities.RawTable, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return entities.RawTable{}, fmt.Errorf("failed to open orders workbook %s: %w", filename, err)
	}
	defer f.Close()

	return l.read(f)
}

// Load reads a raw table from XLSX data, e.g. an uploaded file body
func (l *Loader) Load(r io.Reader) (entities.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return entities.RawTable{}, fmt.Errorf("failed to open orders workbook: %w", err)
	}
	defer f.Close()

	return l.read(f)
}

// read returns cells unformatted so dates arrive as serial day numbers and
// quantities keep their full precision
func (l *Loader) read(f *excelize.File) (entities.RawTable, error) {
	sheet := l.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return entities.RawTable{}, fmt.Errorf("no sheets found in orders workbook")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return entities.RawTable{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	if len(rows) == 0 {
		return entities.RawTable{}, fmt.Errorf("sheet %q has no header row", sheet)
	}

	return entities.RawTable{
		Header: rows[0],
		Rows:   rows[1:],
	}, nil
}
