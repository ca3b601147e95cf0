package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/vsinha/orderdash/pkg/application/dto"
	"github.com/vsinha/orderdash/pkg/application/services/report"
	"github.com/vsinha/orderdash/pkg/domain/entities"
	domainservices "github.com/vsinha/orderdash/pkg/domain/services"
	"github.com/vsinha/orderdash/pkg/infrastructure/events"
	"github.com/vsinha/orderdash/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/orderdash/pkg/infrastructure/testing"
)

func newTestSession() (*Session, *events.InMemoryEventStore) {
	store := events.NewInMemoryEventStore()
	return NewSession(domainservices.NewDatasetLoader(), memory.NewDatasetRepository(), store), store
}

func fixtureTable() entities.RawTable {
	return testhelpers.BuildRawTable(testhelpers.BuildDealerTestData().Records)
}

func TestSession_LoadAndRun(t *testing.T) {
	ctx := context.Background()
	session, _ := newTestSession()

	ds, err := session.Load(ctx, "dealers.csv", fixtureTable())
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if ds.Len() != 9 {
		t.Errorf("Expected 9 records, got %d", ds.Len())
	}

	result, err := session.Run(ctx, report.ReportRequest{View: report.ViewDealerTrend, Customer: "Dealer B"})
	if err != nil {
		t.Fatalf("Failed to run report: %v", err)
	}
	if result.DatasetID != ds.ID {
		t.Errorf("Expected report against dataset %s, got %s", ds.ID, result.DatasetID)
	}
	if len(result.Trend) != 2 {
		t.Errorf("Expected 2 months for Dealer B, got %d", len(result.Trend))
	}

	history, err := session.History()
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	var types []string
	for _, e := range history {
		types = append(types, e.Type())
	}
	expected := []string{events.DatasetLoadedEvent, events.ReportGeneratedEvent}
	if !reflect.DeepEqual(types, expected) {
		t.Errorf("Expected history %v, got %v", expected, types)
	}
}

func TestSession_RunWithoutDataset(t *testing.T) {
	session, _ := newTestSession()

	_, err := session.Run(context.Background(), report.ReportRequest{View: report.ViewTopInventory})
	if !errors.Is(err, ErrNoDataset) {
		t.Errorf("Expected ErrNoDataset, got %v", err)
	}
	if _, err := session.Options(nil); !errors.Is(err, ErrNoDataset) {
		t.Errorf("Expected ErrNoDataset from Options, got %v", err)
	}
}

func TestSession_RejectedUploadClearsDataset(t *testing.T) {
	ctx := context.Background()
	session, _ := newTestSession()

	if _, err := session.Load(ctx, "good.csv", fixtureTable()); err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	bad := entities.RawTable{Header: []string{"item_code", "customer_name"}, Rows: [][]string{{"ABC", "X"}}}
	_, err := session.Load(ctx, "bad.csv", bad)

	var schemaErr *entities.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected SchemaError, got %v", err)
	}
	if _, ok := session.Dataset(); ok {
		t.Error("Expected previous dataset to be cleared")
	}
	if _, err := session.Run(ctx, report.ReportRequest{View: report.ViewTopInventory}); !errors.Is(err, ErrNoDataset) {
		t.Errorf("Expected ErrNoDataset after rejected upload, got %v", err)
	}

	history, _ := session.History()
	last := history[len(history)-1]
	if last.Type() != events.DatasetRejectedEvent {
		t.Fatalf("Expected last event %s, got %s", events.DatasetRejectedEvent, last.Type())
	}
	if rejected := last.Data().(events.DatasetRejected); len(rejected.Missing) == 0 {
		t.Error("Expected missing columns on rejection event")
	}
}

func TestSession_ReplaceDataset(t *testing.T) {
	ctx := context.Background()
	session, _ := newTestSession()

	first, _ := session.Load(ctx, "first.csv", fixtureTable())
	second, err := session.Load(ctx, "second.csv", fixtureTable())
	if err != nil {
		t.Fatalf("Failed to reload: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("Expected a new dataset per upload")
	}

	result, err := session.Run(ctx, report.ReportRequest{View: report.ViewTopInventory})
	if err != nil {
		t.Fatalf("Failed to run: %v", err)
	}
	if result.DatasetID != second.ID {
		t.Error("Expected reports to run against the latest upload")
	}
}

func TestSession_Options(t *testing.T) {
	session, _ := newTestSession()
	if _, err := session.Load(context.Background(), "dealers.csv", fixtureTable()); err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	opts, err := session.Options([]string{"Dealer A"})
	if err != nil {
		t.Fatalf("Failed to list options: %v", err)
	}
	if !reflect.DeepEqual(opts.CatalogPrefixes, []string{"ABC", "QRS", "XYZ"}) {
		t.Errorf("Unexpected prefixes %v", opts.CatalogPrefixes)
	}
	if !reflect.DeepEqual(opts.Dealers, []string{"Dealer A", report.OtherDealerOption}) {
		t.Errorf("Unexpected dealers %v", opts.Dealers)
	}
	if !reflect.DeepEqual(opts.OtherDealers, []string{"Dealer B", "Dealer C"}) {
		t.Errorf("Unexpected other dealers %v", opts.OtherDealers)
	}
}

func TestSession_CancelledContext(t *testing.T) {
	session, _ := newTestSession()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := session.Load(ctx, "x.csv", fixtureTable()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestSession_SubscriberSeesReports(t *testing.T) {
	session, store := newTestSession()

	var statuses []dto.Status
	_ = store.Subscribe([]string{events.ReportGeneratedEvent}, &events.HandlerFunc{
		Types: []string{events.ReportGeneratedEvent},
		Fn: func(e events.Event) error {
			statuses = append(statuses, e.Data().(events.ReportGenerated).Status)
			return nil
		},
	})

	ctx := context.Background()
	_, _ = session.Load(ctx, "dealers.csv", fixtureTable())
	_, _ = session.Run(ctx, report.ReportRequest{View: report.ViewDealerTrend, Customer: "Nobody"})

	if !reflect.DeepEqual(statuses, []dto.Status{dto.StatusEmpty}) {
		t.Errorf("Expected one empty report, got %v", statuses)
	}
}

func TestSession_LoadErrorsNameTheSource(t *testing.T) {
	ctx := context.Background()
	errAudit := errors.New("audit log unavailable")

	failing := func(eventType string) *Session {
		session, store := newTestSession()
		_ = store.Subscribe([]string{eventType}, &events.HandlerFunc{
			Types: []string{eventType},
			Fn:    func(events.Event) error { return errAudit },
		})
		return session
	}

	t.Run("rejected upload", func(t *testing.T) {
		session := failing(events.DatasetRejectedEvent)
		bad := entities.RawTable{Header: []string{"item_code"}, Rows: [][]string{{"ABC"}}}

		_, err := session.Load(ctx, "bad.csv", bad)

		if err == nil || !strings.HasPrefix(err.Error(), "failed to load bad.csv: ") {
			t.Fatalf("Expected error naming bad.csv, got %v", err)
		}
		var schemaErr *entities.SchemaError
		if !errors.As(err, &schemaErr) {
			t.Errorf("Expected SchemaError in chain, got %v", err)
		}
		if !errors.Is(err, errAudit) {
			t.Errorf("Expected audit failure in chain, got %v", err)
		}
	})

	t.Run("accepted upload", func(t *testing.T) {
		session := failing(events.DatasetLoadedEvent)

		ds, err := session.Load(ctx, "dealers.csv", fixtureTable())

		if err == nil || !strings.HasPrefix(err.Error(), "failed to load dealers.csv: ") {
			t.Fatalf("Expected error naming dealers.csv, got %v", err)
		}
		if !errors.Is(err, errAudit) {
			t.Errorf("Expected audit failure in chain, got %v", err)
		}
		if ds == nil {
			t.Error("Expected the stored dataset to be returned alongside the error")
		}
	})
}
