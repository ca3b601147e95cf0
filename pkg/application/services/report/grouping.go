package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/orderdash/pkg/application/dto"
	"github.com/vsinha/orderdash/pkg/domain/entities"
)

var hundred = decimal.NewFromInt(100)

// SecondaryKey is an optional dimension grouped alongside the period
type SecondaryKey int

const (
	KeyNone SecondaryKey = iota
	KeyItem
	KeyCustomer
	KeyCatalogPrefix
)

// String method for SecondaryKey enum
func (k SecondaryKey) String() string {
	switch k {
	case KeyNone:
		return "none"
	case KeyItem:
		return "item"
	case KeyCustomer:
		return "customer"
	case KeyCatalogPrefix:
		return "catalog_prefix"
	default:
		return "unknown"
	}
}

// keyOf extracts the secondary key of a record. ok is false when the record
// has no usable value for the key.
func (k SecondaryKey) keyOf(r entities.OrderRecord) (string, bool) {
	switch k {
	case KeyItem:
		return r.ItemCode, r.ItemCode != ""
	case KeyCustomer:
		return r.CustomerName, r.CustomerName != ""
	case KeyCatalogPrefix:
		return r.CatalogPrefix()
	default:
		return "", true
	}
}

// GroupSpec configures the grouping stage
type GroupSpec struct {
	PeriodColumn entities.DateColumn
	SecondaryKey SecondaryKey
}

// GroupResult holds grouped rows and the number of input records that could
// not be placed in a group
type GroupResult struct {
	Rows    []dto.PeriodRow
	Skipped int
}

type groupKey struct {
	period entities.Period
	key    string
}

// GroupByPeriod sums ordered and delivered quantities per (year, month[, key])
// and derives the delivery rate from the sums. Rows are ordered by period,
// then key.
func GroupByPeriod(records []entities.OrderRecord, spec GroupSpec) GroupResult {
	sums := make(map[groupKey]*dto.PeriodRow)
	skipped := 0

	for _, r := range records {
		period, ok := entities.PeriodOf(r.Date(spec.PeriodColumn))
		if !ok {
			skipped++
			continue
		}
		key, ok := spec.SecondaryKey.keyOf(r)
		if !ok {
			skipped++
			continue
		}

		gk := groupKey{period: period, key: key}
		row, exists := sums[gk]
		if !exists {
			row = &dto.PeriodRow{
				Period:       period,
				Key:          key,
				OrderedQty:   entities.ZeroQuantity,
				DeliveredQty: entities.ZeroQuantity,
			}
			sums[gk] = row
		}
		row.OrderedQty = row.OrderedQty.Add(r.OrderedQty)
		row.DeliveredQty = row.DeliveredQty.Add(r.DeliveredQty)
	}

	rows := make([]dto.PeriodRow, 0, len(sums))
	for _, row := range sums {
		row.DeliveryRate = DeliveryRate(row.DeliveredQty, row.OrderedQty)
		row.RateOutOfRange = rateOutOfRange(row.DeliveryRate)
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Period != rows[j].Period {
			return rows[i].Period.Before(rows[j].Period)
		}
		return rows[i].Key < rows[j].Key
	})

	return GroupResult{Rows: rows, Skipped: skipped}
}

// DeliveryRate returns delivered / ordered * 100. It is undefined, not zero,
// when nothing was ordered.
func DeliveryRate(delivered, ordered entities.Quantity) dto.Rate {
	if ordered.IsZero() {
		return dto.Rate{}
	}
	rate := delivered.Decimal().Div(ordered.Decimal()).Mul(hundred)
	return dto.NewRate(rate)
}

// rateOutOfRange flags rates produced by data-entry errors such as
// negative quantities or deliveries exceeding the order. Such rates are
// reported as computed.
func rateOutOfRange(rate dto.Rate) bool {
	if !rate.Valid {
		return false
	}
	return rate.Decimal.IsNegative() || rate.Decimal.GreaterThan(hundred)
}
