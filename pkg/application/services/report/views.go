package report

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/orderdash/pkg/domain/entities"
)

var (
	ErrUnknownView     = errors.New("unknown report view")
	ErrMissingSelector = errors.New("report view requires a selection")
)

// DefaultTopN is the length of the "top 10" report sections
const DefaultTopN = 10

// Selector names the categorical choice a view is built around
type Selector int

const (
	SelectNone Selector = iota
	SelectCatalogPrefix
	SelectCustomer
)

// String method for Selector enum
func (s Selector) String() string {
	switch s {
	case SelectNone:
		return "none"
	case SelectCatalogPrefix:
		return "catalog prefix"
	case SelectCustomer:
		return "customer"
	default:
		return "unknown"
	}
}

// RankColumn names the numeric column a view ranks by
type RankColumn int

const (
	RankNone RankColumn = iota
	RankInventory
	RankOrdered
)

// ViewConfig parameterises the pipeline for one report section
type ViewConfig struct {
	Name         string
	Title        string
	Selector     Selector
	PeriodColumn entities.DateColumn
	SecondaryKey SecondaryKey
	RankBy       RankColumn
	TopN         int
	// ThresholdPercent drops inventory rows below this share; zero disables it
	ThresholdPercent decimal.Decimal
	// LatestOnly reports each item's latest inventory snapshot instead of
	// period sums
	LatestOnly bool
	GapFill    bool
	// IgnoreSelection runs the view over the whole dataset
	IgnoreSelection bool
}

// Report view names
const (
	ViewProductTrend     = "product-trend"
	ViewDealerTrend      = "dealer-trend"
	ViewCurrentInventory = "current-inventory"
	ViewTopInventory     = "top-inventory"
	ViewSeasonality      = "seasonality"
	ViewTopSeasonality   = "top-seasonality"
)

// Views holds the built-in report sections
var Views = map[string]ViewConfig{
	ViewProductTrend: {
		Name:         ViewProductTrend,
		Title:        "order and delivery trend",
		Selector:     SelectCatalogPrefix,
		PeriodColumn: entities.RequestedDate,
	},
	ViewDealerTrend: {
		Name:         ViewDealerTrend,
		Title:        "order and delivery trend",
		Selector:     SelectCustomer,
		PeriodColumn: entities.RequestedDate,
	},
	ViewCurrentInventory: {
		Name:             ViewCurrentInventory,
		Title:            "inventory distribution",
		Selector:         SelectCustomer,
		PeriodColumn:     entities.RequestedDate,
		RankBy:           RankInventory,
		ThresholdPercent: MinSharePercent,
		LatestOnly:       true,
	},
	ViewTopInventory: {
		Name:            ViewTopInventory,
		Title:           "top inventory",
		PeriodColumn:    entities.RequestedDate,
		RankBy:          RankInventory,
		TopN:            DefaultTopN,
		LatestOnly:      true,
		IgnoreSelection: true,
	},
	ViewSeasonality: {
		Name:         ViewSeasonality,
		Title:        "production seasonality",
		Selector:     SelectCustomer,
		PeriodColumn: entities.DeliveryDate,
		GapFill:      true,
	},
	ViewTopSeasonality: {
		Name:         ViewTopSeasonality,
		Title:        "peak order months",
		Selector:     SelectCustomer,
		PeriodColumn: entities.DeliveryDate,
		RankBy:       RankOrdered,
		TopN:         DefaultTopN,
	},
}

// ViewNames lists the built-in views, sorted
func ViewNames() []string {
	names := make([]string, 0, len(Views))
	for name := range Views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupView returns the configuration of a built-in view
func LookupView(name string) (ViewConfig, error) {
	cfg, ok := Views[name]
	if !ok {
		return ViewConfig{}, fmt.Errorf("%w: %s", ErrUnknownView, name)
	}
	return cfg, nil
}
