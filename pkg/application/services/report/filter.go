package report

import (
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/vsinha/orderdash/pkg/domain/entities"
)

// OtherDealerOption is appended to the dealer shortlist to reach every
// customer outside it
const OtherDealerOption = "Other"

// DateRange is an inclusive range of calendar days. A range with only one
// bound is treated as still being chosen and filters nothing.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a range from a date picker selection of zero, one or
// two dates
func NewDateRange(dates ...time.Time) DateRange {
	var r DateRange
	if len(dates) > 0 {
		r.Start = dates[0]
	}
	if len(dates) > 1 {
		r.End = dates[1]
	}
	return r
}

// IsComplete reports whether both bounds are set
func (r DateRange) IsComplete() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// Contains reports whether d falls on or between the bounds. Invalid dates
// are never contained.
func (r DateRange) Contains(d entities.NullDate) bool {
	if !d.Valid {
		return false
	}
	start := entities.DateOf(r.Start).Time
	end := entities.DateOf(r.End).Time
	return !d.Time.Before(start) && !d.Time.After(end)
}

// FilterCriteria selects the working subset of a dataset. Zero values
// disable the corresponding predicate.
type FilterCriteria struct {
	DateColumn    entities.DateColumn
	Range         DateRange
	Customer      string
	CatalogPrefix string
}

// Filter returns the records matching every active predicate, in their
// input order
func Filter(records []entities.OrderRecord, criteria FilterCriteria) []entities.OrderRecord {
	useRange := criteria.Range.IsComplete()

	return lo.Filter(records, func(r entities.OrderRecord, _ int) bool {
		if useRange && !criteria.Range.Contains(r.Date(criteria.DateColumn)) {
			return false
		}
		if criteria.Customer != "" && r.CustomerName != criteria.Customer {
			return false
		}
		if criteria.CatalogPrefix != "" && !strings.HasPrefix(strings.TrimSpace(r.ItemCode), criteria.CatalogPrefix) {
			return false
		}
		return true
	})
}

// CatalogPrefixes lists the distinct product families present, sorted.
// Records without an item code contribute nothing.
func CatalogPrefixes(records []entities.OrderRecord) []string {
	prefixes := lo.Uniq(lo.FilterMap(records, func(r entities.OrderRecord, _ int) (string, bool) {
		return r.CatalogPrefix()
	}))
	sort.Strings(prefixes)
	return prefixes
}

// Customers lists the distinct customer names present, sorted
func Customers(records []entities.OrderRecord) []string {
	customers := lo.Uniq(lo.FilterMap(records, func(r entities.OrderRecord, _ int) (string, bool) {
		return r.CustomerName, r.CustomerName != ""
	}))
	sort.Strings(customers)
	return customers
}

// DealerOptions returns the dealer picker entries: the shortlist in its
// configured order followed by OtherDealerOption
func DealerOptions(shortlist []string) []string {
	options := make([]string, 0, len(shortlist)+1)
	options = append(options, shortlist...)
	return append(options, OtherDealerOption)
}

// OtherDealers lists customers outside the shortlist, sorted
func OtherDealers(records []entities.OrderRecord, shortlist []string) []string {
	return lo.Without(Customers(records), shortlist...)
}
