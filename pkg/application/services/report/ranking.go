package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/orderdash/pkg/application/dto"
	"github.com/vsinha/orderdash/pkg/domain/entities"
)

// MinSharePercent is the business rule for inventory distribution views:
// items holding less than this share of total inventory are left out
var MinSharePercent = decimal.NewFromInt(1)

// RankTop returns the n rows with the largest value, largest first. Rows
// with equal values keep their input order. n <= 0 keeps every row.
// The input slice is not modified.
func RankTop[T any](rows []T, n int, value func(T) decimal.Decimal) []T {
	ranked := make([]T, len(rows))
	copy(ranked, rows)

	sort.SliceStable(ranked, func(i, j int) bool {
		return value(ranked[i]).GreaterThan(value(ranked[j]))
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ByInventory ranks inventory rows by quantity on hand
func ByInventory(row dto.InventoryRow) decimal.Decimal {
	return row.InventoryQty.Decimal()
}

// ByOrdered ranks period rows by ordered quantity
func ByOrdered(row dto.PeriodRow) decimal.Decimal {
	return row.OrderedQty.Decimal()
}

// LatestSnapshot selects, for each item, the record with the most recent
// requested date and reports its inventory. When several records share the
// latest date the first one wins. Records without an item code or a valid
// requested date are not eligible. Items appear in order of first occurrence.
func LatestSnapshot(records []entities.OrderRecord) []dto.InventoryRow {
	latest := make(map[string]int)
	var items []string

	for i, r := range records {
		if r.ItemCode == "" || !r.RequestedDate.Valid {
			continue
		}
		idx, seen := latest[r.ItemCode]
		if !seen {
			items = append(items, r.ItemCode)
			latest[r.ItemCode] = i
			continue
		}
		if r.RequestedDate.Time.After(records[idx].RequestedDate.Time) {
			latest[r.ItemCode] = i
		}
	}

	rows := make([]dto.InventoryRow, 0, len(items))
	for _, item := range items {
		r := records[latest[item]]
		rows = append(rows, dto.InventoryRow{
			ItemCode:        r.ItemCode,
			ItemDescription: r.ItemDescription,
			MoldCode:        r.MoldCode,
			CustomerName:    r.CustomerName,
			SnapshotDate:    r.RequestedDate,
			InventoryQty:    r.InventoryQty,
		})
	}
	return rows
}

// ApplyShareThreshold keeps rows with positive inventory whose share of the
// total positive inventory is at least thresholdPercent, and records that
// share on each kept row. Shares are relative to the total before rows are
// dropped.
func ApplyShareThreshold(rows []dto.InventoryRow, thresholdPercent decimal.Decimal) []dto.InventoryRow {
	positive := make([]dto.InventoryRow, 0, len(rows))
	total := decimal.Zero
	for _, row := range rows {
		if row.InventoryQty.IsPositive() {
			positive = append(positive, row)
			total = total.Add(row.InventoryQty.Decimal())
		}
	}

	if total.IsZero() {
		return positive
	}

	kept := make([]dto.InventoryRow, 0, len(positive))
	for _, row := range positive {
		share := row.InventoryQty.Decimal().Div(total).Mul(hundred)
		if share.LessThan(thresholdPercent) {
			continue
		}
		row.SharePercent = dto.NewRate(share)
		kept = append(kept, row)
	}
	return kept
}

// LatestDate returns the most recent valid date in column across records
func LatestDate(records []entities.OrderRecord, column entities.DateColumn) entities.NullDate {
	var latest entities.NullDate
	for _, r := range records {
		d := r.Date(column)
		if d.Valid && (!latest.Valid || d.Time.After(latest.Time)) {
			latest = d
		}
	}
	return latest
}
