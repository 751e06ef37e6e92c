package dutil

import (
	"fmt"
	"math/rand"
)

// Sampler yields index batches over a dataset.
type Sampler interface {
	// Sample returns the index batches of one pass over the data.
	Sample() [][]int
	// BatchSize returns the number of indexes per full batch.
	BatchSize() int
}

// BatchSampler chunks dataset indexes into batches, optionally shuffling the
// order each pass and dropping the trailing partial batch.
type BatchSampler struct {
	n         int
	batchSize int
	dropLast  bool
	shuffle   bool
}

// NewBatchSampler creates a BatchSampler over n samples.
func NewBatchSampler(n, batchSize int, dropLast, shuffle bool) (*BatchSampler, error) {
	if n <= 0 {
		return nil, fmt.Errorf("dataset size must be positive. Got %v", n)
	}
	if batchSize <= 0 || batchSize > n {
		return nil, fmt.Errorf("batch size must be in range [1, %v]. Got %v", n, batchSize)
	}

	return &BatchSampler{
		n:         n,
		batchSize: batchSize,
		dropLast:  dropLast,
		shuffle:   shuffle,
	}, nil
}

// BatchSize implements Sampler interface.
func (s *BatchSampler) BatchSize() int {
	return s.batchSize
}

// Sample implements Sampler interface.
func (s *BatchSampler) Sample() [][]int {
	indexes := make([]int, s.n)
	for i := range indexes {
		indexes[i] = i
	}
	if s.shuffle {
		rand.Shuffle(s.n, func(i, j int) {
			indexes[i], indexes[j] = indexes[j], indexes[i]
		})
	}

	var batches [][]int
	for start := 0; start < s.n; start += s.batchSize {
		end := start + s.batchSize
		if end > s.n {
			if s.dropLast {
				break
			}
			end = s.n
		}
		batches = append(batches, indexes[start:end])
	}

	return batches
}
