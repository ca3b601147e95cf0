package events

import (
	"errors"

	"github.com/google/uuid"

	"github.com/vsinha/orderdash/pkg/application/dto"
	"github.com/vsinha/orderdash/pkg/domain/entities"
)

const (
	DatasetLoadedEvent   = "dataset.loaded"
	DatasetRejectedEvent = "dataset.rejected"
	ReportGeneratedEvent = "report.generated"
)

type DatasetLoaded struct {
	DatasetID uuid.UUID `json:"dataset_id"`
	Source    string    `json:"source"`
	Records   int       `json:"records"`
	Warnings  int       `json:"warnings"`
}

type DatasetRejected struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
	// Missing lists absent required columns when the schema check failed
	Missing []string `json:"missing,omitempty"`
}

type ReportGenerated struct {
	DatasetID      uuid.UUID     `json:"dataset_id"`
	View           string        `json:"view"`
	Selection      dto.Selection `json:"selection"`
	Status         dto.Status    `json:"status"`
	Rows           int           `json:"rows"`
	RecordsMatched int           `json:"records_matched"`
	Skipped        int           `json:"skipped"`
}

func NewDatasetLoadedEvent(sessionID uuid.UUID, ds *entities.Dataset) Event {
	return NewEvent(DatasetLoadedEvent, sessionID.String(), DatasetLoaded{
		DatasetID: ds.ID,
		Source:    ds.Source,
		Records:   ds.Len(),
		Warnings:  len(ds.Warnings),
	})
}

func NewDatasetRejectedEvent(sessionID uuid.UUID, source string, err error) Event {
	data := DatasetRejected{Source: source, Reason: err.Error()}
	var schemaErr *entities.SchemaError
	if errors.As(err, &schemaErr) {
		data.Missing = schemaErr.Missing
	}
	return NewEvent(DatasetRejectedEvent, sessionID.String(), data)
}

func NewReportGeneratedEvent(sessionID uuid.UUID, result *dto.ReportResult) Event {
	return NewEvent(ReportGeneratedEvent, sessionID.String(), ReportGenerated{
		DatasetID:      result.DatasetID,
		View:           result.View,
		Selection:      result.Selection,
		Status:         result.Status,
		Rows:           result.Len(),
		RecordsMatched: result.RecordsMatched,
		Skipped:        result.Skipped,
	})
}
