package dutil

import (
	"fmt"
	"reflect"
)

// DataLoader walks a Dataset in the batch order produced by a Sampler. Each
// Next call returns one batch as a typed slice of the dataset's sample type,
// so callers can assert e.g. `batch.([]ImageMask)`.
type DataLoader struct {
	dataset Dataset
	sampler Sampler
	batches [][]int
	currIdx int
}

// NewDataLoader creates a DataLoader.
func NewDataLoader(ds Dataset, s Sampler) (*DataLoader, error) {
	if ds == nil || s == nil {
		return nil, fmt.Errorf("dataset and sampler must not be nil")
	}

	return &DataLoader{
		dataset: ds,
		sampler: s,
		batches: s.Sample(),
		currIdx: 0,
	}, nil
}

// HasNext reports whether another batch remains in the current pass.
func (dl *DataLoader) HasNext() bool {
	return dl.currIdx < len(dl.batches)
}

// Next returns the next batch.
func (dl *DataLoader) Next() (interface{}, error) {
	if !dl.HasNext() {
		return nil, fmt.Errorf("no more batches")
	}

	idxs := dl.batches[dl.currIdx]
	dl.currIdx++

	batch := reflect.MakeSlice(reflect.SliceOf(dl.dataset.DType()), 0, len(idxs))
	for _, idx := range idxs {
		item, err := dl.dataset.Item(idx)
		if err != nil {
			return nil, err
		}
		batch = reflect.Append(batch, reflect.ValueOf(item))
	}

	return batch.Interface(), nil
}

// Reset starts a new pass, re-sampling the batch order.
func (dl *DataLoader) Reset() {
	dl.batches = dl.sampler.Sample()
	dl.currIdx = 0
}
