package entities

import (
	"fmt"
	"time"
)

// DateColumn selects which date of an order drives period bucketing and
// date-range filtering
type DateColumn int

const (
	RequestedDate DateColumn = iota
	DeliveryDate
)

// String method for DateColumn enum
func (c DateColumn) String() string {
	switch c {
	case RequestedDate:
		return "requested_date"
	case DeliveryDate:
		return "delivery_date"
	default:
		return "Unknown"
	}
}

// NullDate is a calendar date that may be absent or unparseable
type NullDate struct {
	Time  time.Time
	Valid bool
}

// NewDate creates a valid NullDate truncated to the calendar day in UTC
func NewDate(year int, month time.Month, day int) NullDate {
	return NullDate{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Valid: true}
}

// DateOf converts an instant to its calendar day, keeping the wall-clock date
func DateOf(t time.Time) NullDate {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// String renders the date as YYYY-MM-DD, or an empty string when invalid
func (d NullDate) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

// MarshalJSON encodes invalid dates as null
func (d NullDate) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// Period is a calendar month bucket
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// PeriodOf returns the period containing the date
func PeriodOf(d NullDate) (Period, bool) {
	if !d.Valid {
		return Period{}, false
	}
	return Period{Year: d.Time.Year(), Month: int(d.Time.Month())}, true
}

// Before orders periods chronologically
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// String renders the period as YYYY-MM
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// OrderRecord represents one order line of the uploaded spreadsheet
type OrderRecord struct {
	Row             int      `json:"row"`
	RequestedDate   NullDate `json:"requested_date"`
	DeliveryDate    NullDate `json:"delivery_date"`
	ItemCode        string   `json:"item_code"`
	ItemDescription string   `json:"item_description"`
	MoldCode        string   `json:"mold_code"`
	CustomerName    string   `json:"customer_name"`
	OrderedQty      Quantity `json:"ordered_qty"`
	DeliveredQty    Quantity `json:"delivered_qty"`
	InventoryQty    Quantity `json:"inventory_qty"`
}

// Date returns the record's date for the given column
func (r OrderRecord) Date(column DateColumn) NullDate {
	if column == DeliveryDate {
		return r.DeliveryDate
	}
	return r.RequestedDate
}

// CatalogPrefix returns the product family of the record's item code
func (r OrderRecord) CatalogPrefix() (string, bool) {
	return CatalogPrefix(r.ItemCode)
}
