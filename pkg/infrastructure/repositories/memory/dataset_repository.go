package memory

import (
	"fmt"
	"sync/atomic"

	"github.com/vsinha/orderdash/pkg/domain/entities"
	"github.com/vsinha/orderdash/pkg/domain/repositories"
)

// DatasetRepository provides in-memory storage for the session's dataset
type DatasetRepository struct {
	current atomic.Pointer[entities.Dataset]
}

// NewDatasetRepository creates an empty in-memory dataset repository
func NewDatasetRepository() *DatasetRepository {
	return &DatasetRepository{}
}

// Verify interface compliance
var _ repositories.DatasetRepository = (*DatasetRepository)(nil)

// Current returns the dataset in use, if any
func (r *DatasetRepository) Current() (*entities.Dataset, bool) {
	ds := r.current.Load()
	return ds, ds != nil
}

// Replace swaps in a new dataset. Readers holding the previous dataset keep
// a consistent view of it.
func (r *DatasetRepository) Replace(dataset *entities.Dataset) error {
	if dataset == nil {
		return fmt.Errorf("dataset cannot be nil")
	}
	r.current.Store(dataset)
	return nil
}

// Clear drops the current dataset
func (r *DatasetRepository) Clear() {
	r.current.Store(nil)
}
