package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/vsinha/orderdash/pkg/application/dto"
	"github.com/vsinha/orderdash/pkg/domain/entities"
)

var ErrNilDataset = errors.New("dataset cannot be nil")

// ReportRequest carries the presentation layer's selections for one run
type ReportRequest struct {
	View          string
	Range         DateRange
	Customer      string
	CatalogPrefix string
}

// Service runs the filter, grouping, gap-fill and ranking stages against a
// dataset. It holds no dataset state; every run is a pure function of its
// arguments apart from the GeneratedAt stamp.
type Service struct {
	now func() time.Time
}

// NewService creates a new report service
func NewService() *Service {
	return &Service{now: time.Now}
}

// Run executes a built-in view
func (s *Service) Run(ds *entities.Dataset, req ReportRequest) (*dto.ReportResult, error) {
	cfg, err := LookupView(req.View)
	if err != nil {
		return nil, err
	}
	return s.RunView(ds, cfg, req)
}

// RunView executes the pipeline described by cfg. Errors are returned only
// for invalid arguments; data problems surface as skipped records, undefined
// rates or an empty status.
func (s *Service) RunView(ds *entities.Dataset, cfg ViewConfig, req ReportRequest) (*dto.ReportResult, error) {
	if ds == nil {
		return nil, ErrNilDataset
	}

	criteria, err := criteriaFor(cfg, req)
	if err != nil {
		return nil, err
	}

	filtered := Filter(ds.Records, criteria)

	result := &dto.ReportResult{
		View:           cfg.Name,
		Title:          titleFor(cfg, criteria),
		Selection:      selectionFor(criteria),
		RecordsMatched: len(filtered),
		DatasetID:      ds.ID,
		GeneratedAt:    s.now(),
	}

	switch {
	case cfg.LatestOnly:
		rows := LatestSnapshot(filtered)
		if !cfg.ThresholdPercent.IsZero() {
			rows = ApplyShareThreshold(rows, cfg.ThresholdPercent)
		}
		if cfg.RankBy == RankInventory {
			rows = RankTop(rows, cfg.TopN, ByInventory)
		}
		result.Inventory = rows
		result.AsOf = LatestDate(filtered, entities.RequestedDate)

	case cfg.GapFill:
		grouped := GroupByPeriod(filtered, GroupSpec{PeriodColumn: cfg.PeriodColumn})
		result.Seasonality = FillMonths(grouped.Rows)
		result.Skipped = grouped.Skipped

	default:
		grouped := GroupByPeriod(filtered, GroupSpec{
			PeriodColumn: cfg.PeriodColumn,
			SecondaryKey: cfg.SecondaryKey,
		})
		rows := grouped.Rows
		if cfg.RankBy == RankOrdered {
			rows = RankTop(rows, cfg.TopN, ByOrdered)
		}
		result.Trend = rows
		result.Skipped = grouped.Skipped
	}

	if result.Len() == 0 {
		result.Status = dto.StatusEmpty
	} else {
		result.Status = dto.StatusReady
	}

	return result, nil
}

func criteriaFor(cfg ViewConfig, req ReportRequest) (FilterCriteria, error) {
	if cfg.IgnoreSelection {
		return FilterCriteria{DateColumn: cfg.PeriodColumn}, nil
	}

	criteria := FilterCriteria{
		DateColumn: cfg.PeriodColumn,
		Range:      req.Range,
	}

	switch cfg.Selector {
	case SelectCatalogPrefix:
		if req.CatalogPrefix == "" {
			return criteria, fmt.Errorf("%w: %s needs a %s", ErrMissingSelector, cfg.Name, cfg.Selector)
		}
		criteria.CatalogPrefix = req.CatalogPrefix
	case SelectCustomer:
		if req.Customer == "" {
			return criteria, fmt.Errorf("%w: %s needs a %s", ErrMissingSelector, cfg.Name, cfg.Selector)
		}
		criteria.Customer = req.Customer
	}

	return criteria, nil
}

func titleFor(cfg ViewConfig, criteria FilterCriteria) string {
	switch {
	case criteria.CatalogPrefix != "":
		return fmt.Sprintf("[%s] %s", criteria.CatalogPrefix, cfg.Title)
	case criteria.Customer != "":
		return fmt.Sprintf("[%s] %s", criteria.Customer, cfg.Title)
	default:
		return cfg.Title
	}
}

func selectionFor(criteria FilterCriteria) dto.Selection {
	sel := dto.Selection{
		Customer:      criteria.Customer,
		CatalogPrefix: criteria.CatalogPrefix,
	}
	if criteria.Range.IsComplete() {
		sel.Start = entities.DateOf(criteria.Range.Start)
		sel.End = entities.DateOf(criteria.Range.End)
	}
	return sel
}
