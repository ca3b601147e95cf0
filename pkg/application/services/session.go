package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vsinha/orderdash/pkg/application/dto"
	"github.com/vsinha/orderdash/pkg/application/services/report"
	"github.com/vsinha/orderdash/pkg/domain/entities"
	"github.com/vsinha/orderdash/pkg/domain/repositories"
	domainservices "github.com/vsinha/orderdash/pkg/domain/services"
	"github.com/vsinha/orderdash/pkg/infrastructure/events"
)

var ErrNoDataset = errors.New("no dataset loaded")

// SelectionOptions are the choices offered to the user for the current
// dataset
type SelectionOptions struct {
	CatalogPrefixes []string `json:"catalog_prefixes"`
	Customers       []string `json:"customers"`
	Dealers         []string `json:"dealers"`
	OtherDealers    []string `json:"other_dealers"`
}

// Session binds one user's uploaded dataset to the report pipeline. The
// current dataset is replaced wholesale on every load and every report runs
// against whichever dataset is current when it starts.
type Session struct {
	id         uuid.UUID
	loader     *domainservices.DatasetLoader
	datasets   repositories.DatasetRepository
	reports    *report.Service
	eventStore events.EventStore
}

// NewSession creates a session with its own audit stream
func NewSession(
	loader *domainservices.DatasetLoader,
	datasets repositories.DatasetRepository,
	eventStore events.EventStore,
) *Session {
	return &Session{
		id:         uuid.New(),
		loader:     loader,
		datasets:   datasets,
		reports:    report.NewService(),
		eventStore: eventStore,
	}
}

// ID identifies the session's event stream
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Load validates and converts an uploaded table into the current dataset.
// A rejected upload clears the previous dataset so no report runs against
// stale data.
func (s *Session) Load(ctx context.Context, source string, table entities.RawTable) (*entities.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, err := s.loader.Load(source, table)
	if err != nil {
		s.datasets.Clear()
		if appendErr := s.record(events.NewDatasetRejectedEvent(s.id, source, err)); appendErr != nil {
			return nil, fmt.Errorf("failed to load %s: %w", source, errors.Join(err, appendErr))
		}
		return nil, fmt.Errorf("failed to load %s: %w", source, err)
	}

	if err := s.datasets.Replace(ds); err != nil {
		return nil, fmt.Errorf("failed to store dataset: %w", err)
	}

	if err := s.record(events.NewDatasetLoadedEvent(s.id, ds)); err != nil {
		return ds, fmt.Errorf("failed to load %s: %w", source, err)
	}
	return ds, nil
}

// Dataset returns the current dataset, if any
func (s *Session) Dataset() (*entities.Dataset, bool) {
	return s.datasets.Current()
}

// Run executes a report view against the current dataset
func (s *Session) Run(ctx context.Context, req report.ReportRequest) (*dto.ReportResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, ok := s.datasets.Current()
	if !ok {
		return nil, ErrNoDataset
	}

	result, err := s.reports.Run(ds, req)
	if err != nil {
		return nil, err
	}

	if err := s.record(events.NewReportGeneratedEvent(s.id, result)); err != nil {
		return result, err
	}
	return result, nil
}

// Options lists the selectable catalog prefixes, customers and dealers of
// the current dataset
func (s *Session) Options(dealerShortlist []string) (SelectionOptions, error) {
	ds, ok := s.datasets.Current()
	if !ok {
		return SelectionOptions{}, ErrNoDataset
	}

	return SelectionOptions{
		CatalogPrefixes: report.CatalogPrefixes(ds.Records),
		Customers:       report.Customers(ds.Records),
		Dealers:         report.DealerOptions(dealerShortlist),
		OtherDealers:    report.OtherDealers(ds.Records, dealerShortlist),
	}, nil
}

// History returns the session's audit trail
func (s *Session) History() ([]events.Event, error) {
	return s.eventStore.ReadEvents(s.id.String(), 1)
}

func (s *Session) record(event events.Event) error {
	if err := s.eventStore.AppendEvent(s.id.String(), event); err != nil {
		return fmt.Errorf("failed to record %s: %w", event.Type(), err)
	}
	return nil
}
