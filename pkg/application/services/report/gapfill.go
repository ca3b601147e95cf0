package report

import (
	"sort"

	"github.com/vsinha/orderdash/pkg/application/dto"
	"github.com/vsinha/orderdash/pkg/domain/entities"
)

// FillMonths turns grouped rows into a continuous order volume series: every
// month 1-12 of every year present in rows appears exactly once, with zero
// for months that had no orders. Years absent from rows are not added.
// Rows carrying a secondary key are summed per period first.
func FillMonths(rows []dto.PeriodRow) []dto.SeasonalityRow {
	ordered := make(map[entities.Period]entities.Quantity, len(rows))
	years := make(map[int]struct{})

	for _, row := range rows {
		ordered[row.Period] = ordered[row.Period].Add(row.OrderedQty)
		years[row.Period.Year] = struct{}{}
	}

	sortedYears := make([]int, 0, len(years))
	for year := range years {
		sortedYears = append(sortedYears, year)
	}
	sort.Ints(sortedYears)

	filled := make([]dto.SeasonalityRow, 0, len(sortedYears)*12)
	for _, year := range sortedYears {
		for month := 1; month <= 12; month++ {
			period := entities.Period{Year: year, Month: month}
			qty, ok := ordered[period]
			if !ok {
				qty = entities.ZeroQuantity
			}
			filled = append(filled, dto.SeasonalityRow{Period: period, OrderedQty: qty})
		}
	}

	return filled
}
