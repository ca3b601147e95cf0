package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/orderdash/pkg/domain/entities"
)

// Status tells presentation whether a result is still being computed, has
// rows, or legitimately matched nothing
type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusEmpty
)

// String method for Status enum
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status by name
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Rate is a percentage that may be undefined, such as a delivery rate
// over a bucket with nothing ordered. The zero value is undefined.
type Rate struct {
	decimal.NullDecimal
}

// NewRate wraps a defined percentage
func NewRate(value decimal.Decimal) Rate {
	return Rate{decimal.NewNullDecimal(value)}
}

// MarshalJSON encodes the rate as a JSON number, or null when undefined
func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return []byte(r.Decimal.String()), nil
}

// PeriodRow is one (year, month[, key]) bucket of a trend report.
// DeliveryRate is invalid when nothing was ordered in the bucket.
type PeriodRow struct {
	Period         entities.Period   `json:"period"`
	Key            string            `json:"key,omitempty"`
	OrderedQty     entities.Quantity `json:"ordered_qty"`
	DeliveredQty   entities.Quantity `json:"delivered_qty"`
	DeliveryRate   Rate              `json:"delivery_rate"`
	RateOutOfRange bool              `json:"rate_out_of_range,omitempty"`
}

// SeasonalityRow is one month of a gap-filled order volume series
type SeasonalityRow struct {
	Period     entities.Period   `json:"period"`
	OrderedQty entities.Quantity `json:"ordered_qty"`
}

// InventoryRow is an item's inventory as of a snapshot date
type InventoryRow struct {
	ItemCode        string            `json:"item_code"`
	ItemDescription string            `json:"item_description"`
	MoldCode        string            `json:"mold_code"`
	CustomerName    string            `json:"customer_name"`
	SnapshotDate    entities.NullDate `json:"snapshot_date"`
	InventoryQty    entities.Quantity `json:"inventory_qty"`
	SharePercent    Rate              `json:"share_percent"`
}

// Selection echoes the filter values a report was produced with
type Selection struct {
	Customer      string            `json:"customer,omitempty"`
	CatalogPrefix string            `json:"catalog_prefix,omitempty"`
	Start         entities.NullDate `json:"start"`
	End           entities.NullDate `json:"end"`
}

// ReportResult contains the complete output of one report run. Exactly one
// of Trend, Seasonality or Inventory is populated, depending on the view.
type ReportResult struct {
	View        string           `json:"view"`
	Title       string           `json:"title"`
	Status      Status           `json:"status"`
	Selection   Selection        `json:"selection"`
	Trend       []PeriodRow      `json:"trend,omitempty"`
	Seasonality []SeasonalityRow `json:"seasonality,omitempty"`
	Inventory   []InventoryRow   `json:"inventory,omitempty"`
	// AsOf is the latest requested date behind an inventory snapshot
	AsOf           entities.NullDate `json:"as_of"`
	RecordsMatched int               `json:"records_matched"`
	Skipped        int               `json:"skipped"`
	DatasetID      uuid.UUID         `json:"dataset_id"`
	GeneratedAt    time.Time         `json:"generated_at"`
}

// Len returns the number of rows in the populated section
func (r *ReportResult) Len() int {
	return len(r.Trend) + len(r.Seasonality) + len(r.Inventory)
}

// IsEmpty reports a completed run with no matching data
func (r *ReportResult) IsEmpty() bool {
	return r.Status == StatusEmpty
}
