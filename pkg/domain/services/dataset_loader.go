package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/orderdash/pkg/domain/entities"
)

// dateLayouts are tried in order for text date cells
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006.01.02",
	"20060102",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
}

// Excel serial day numbers between 1900-01-01 and 9999-12-31
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// DatasetLoader validates a raw table against the order schema and converts
// its rows to OrderRecords
type DatasetLoader struct {
	schema *Schema
}

// NewDatasetLoader creates a loader accepting the default header aliases
func NewDatasetLoader() *DatasetLoader {
	return NewDatasetLoaderWithAliases(nil)
}

// NewDatasetLoaderWithAliases creates a loader that also accepts the given
// header aliases, keyed by canonical column name
func NewDatasetLoaderWithAliases(aliases map[string][]string) *DatasetLoader {
	return &DatasetLoader{schema: NewSchema(aliases)}
}

// Load converts table into a Dataset. A table lacking any required column
// fails with *entities.SchemaError and no dataset. Cell-level problems never
// fail the load; they are returned as warnings on the dataset.
func (l *DatasetLoader) Load(source string, table entities.RawTable) (*entities.Dataset, error) {
	indices, missing := l.schema.Resolve(table.Header)
	if len(missing) > 0 {
		return nil, &entities.SchemaError{Missing: missing}
	}

	records := make([]entities.OrderRecord, 0, len(table.Rows))
	var warnings []entities.LoadWarning

	for i, row := range table.Rows {
		if isBlankRow(row) {
			continue
		}
		rowNum := i + 2 // header is row 1

		cell := func(column string) string {
			idx := indices[column]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		record := entities.OrderRecord{
			Row:             rowNum,
			ItemCode:        textCell(cell(ColumnItemCode)),
			ItemDescription: textCell(cell(ColumnItemDescription)),
			MoldCode:        textCell(cell(ColumnMoldCode)),
			CustomerName:    textCell(cell(ColumnCustomerName)),
		}

		for _, dc := range []struct {
			column string
			target *entities.NullDate
		}{
			{ColumnRequestedDate, &record.RequestedDate},
			{ColumnDeliveryDate, &record.DeliveryDate},
		} {
			raw := cell(dc.column)
			date, err := ParseDate(raw)
			if err != nil {
				warnings = append(warnings, entities.LoadWarning{
					Row: rowNum, Column: dc.column, Value: raw, Kind: entities.UnparseableDate,
				})
			}
			*dc.target = date
		}

		for _, qc := range []struct {
			column string
			target *entities.Quantity
		}{
			{ColumnOrderedQty, &record.OrderedQty},
			{ColumnDeliveredQty, &record.DeliveredQty},
			{ColumnInventoryQty, &record.InventoryQty},
		} {
			raw := cell(qc.column)
			qty, err := ParseQuantity(raw)
			if err != nil {
				warnings = append(warnings, entities.LoadWarning{
					Row: rowNum, Column: qc.column, Value: raw, Kind: entities.InvalidQuantity,
				})
			}
			*qc.target = qty
		}

		records = append(records, record)
	}

	return entities.NewDataset(source, records, warnings), nil
}

// ParseDate interprets a date cell. Blank and null-like cells yield an invalid
// date with no error; anything unrecognised yields an invalid date and an error.
func ParseDate(raw string) (entities.NullDate, error) {
	s := textCell(raw)
	if s == "" {
		return entities.NullDate{}, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return entities.DateOf(t), nil
		}
	}

	// Raw xlsx cells store dates as serial day numbers
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return entities.DateOf(t), nil
		}
	}

	return entities.NullDate{}, fmt.Errorf("unrecognised date %q", raw)
}

// ParseQuantity interprets a numeric cell. Blank cells are zero; thousands
// separators are ignored. Unparseable cells are zero with an error.
func ParseQuantity(raw string) (entities.Quantity, error) {
	s := textCell(raw)
	if s == "" {
		return entities.ZeroQuantity, nil
	}
	s = strings.NewReplacer(",", "", " ", "").Replace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return entities.ZeroQuantity, fmt.Errorf("invalid quantity %q", raw)
	}
	return entities.Quantity(d), nil
}

// textCell strips whitespace and the null markers spreadsheet exports write
// for empty cells
func textCell(raw string) string {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "nan", "null", "none", "nat", "#n/a":
		return ""
	}
	return s
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
