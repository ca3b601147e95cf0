package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vsinha/orderdash/pkg/domain/entities"
)

// Loader reads order books exported as CSV
type Loader struct {
	Comma rune
}

// NewLoader creates a new CSV loader for comma-separated files
func NewLoader() *Loader {
	return &Loader{Comma: ','}
}

// LoadFile reads a raw table from a CSV file
func (l *Loader) LoadFile(filename string) (entities.RawTable, error) {
	file, err := os.Open(filename)
	if err != nil {
		return entities.RawTable{}, fmt.Errorf("failed to open orders file %s: %w", filename, err)
	}
	defer file.Close()

	return l.Load(file)
}

// Load reads a raw table from CSV data. The first record is the header.
func (l *Loader) Load(r io.Reader) (entities.RawTable, error) {
	reader := csv.NewReader(r)
	reader.Comma = l.Comma
	// Exports from spreadsheets drop trailing empty cells
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return entities.RawTable{}, fmt.Errorf("failed to read orders CSV: %w", err)
	}

	if len(records) < 1 {
		return entities.RawTable{}, fmt.Errorf("orders CSV must have a header row")
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
	}

	return entities.RawTable{
		Header: header,
		Rows:   records[1:],
	}, nil
}
