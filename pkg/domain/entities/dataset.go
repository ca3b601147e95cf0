package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RawTable is an untyped grid read from a spreadsheet: a header row followed
// by data rows. Rows may be ragged.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// WarningKind classifies non-fatal load problems
type WarningKind int

const (
	UnparseableDate WarningKind = iota
	InvalidQuantity
)

// String method for WarningKind enum
func (k WarningKind) String() string {
	switch k {
	case UnparseableDate:
		return "UnparseableDate"
	case InvalidQuantity:
		return "InvalidQuantity"
	default:
		return "Unknown"
	}
}

// LoadWarning records a cell that could not be interpreted. The record is
// kept; the offending field is left null or zero.
type LoadWarning struct {
	Row    int         `json:"row"`
	Column string      `json:"column"`
	Value  string      `json:"value"`
	Kind   WarningKind `json:"kind"`
}

func (w LoadWarning) String() string {
	return fmt.Sprintf("row %d: %s value %q in column %s", w.Row, w.Kind, w.Value, w.Column)
}

// SchemaError reports required columns missing from the uploaded table
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Dataset is the canonical, immutable set of order records for one upload
type Dataset struct {
	ID       uuid.UUID     `json:"id"`
	Source   string        `json:"source"`
	LoadedAt time.Time     `json:"loaded_at"`
	Records  []OrderRecord `json:"-"`
	Warnings []LoadWarning `json:"warnings,omitempty"`
}

// NewDataset creates a Dataset with a fresh identifier
func NewDataset(source string, records []OrderRecord, warnings []LoadWarning) *Dataset {
	return &Dataset{
		ID:       uuid.New(),
		Source:   source,
		LoadedAt: time.Now(),
		Records:  records,
		Warnings: warnings,
	}
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.Records)
}
