package repositories

import "github.com/vsinha/orderdash/pkg/domain/entities"

// DatasetRepository holds the dataset of the current session. Replace swaps
// the whole reference; datasets are never mutated in place.
type DatasetRepository interface {
	Current() (*entities.Dataset, bool)
	Replace(dataset *entities.Dataset) error
	Clear()
}
