package dutil_test

import (
	"reflect"
	"testing"

	"github.com/JimBoonie/MulticlassFCN/dutil"
)

type intDataset struct {
	vals []int
}

func (ds *intDataset) Len() int { return len(ds.vals) }

func (ds *intDataset) Item(idx int) (interface{}, error) {
	return ds.vals[idx], nil
}

func (ds *intDataset) DType() reflect.Type {
	return reflect.TypeOf(0)
}

func TestBatchSamplerDropLast(t *testing.T) {
	s, err := dutil.NewBatchSampler(10, 4, true, false)
	if err != nil {
		t.Fatal(err)
	}

	batches := s.Sample()
	if len(batches) != 2 {
		t.Fatalf("batches: want 2, got %v", len(batches))
	}
	for i, b := range batches {
		if len(b) != 4 {
			t.Errorf("batch %v: want size 4, got %v", i, len(b))
		}
	}
}

func TestBatchSamplerKeepLast(t *testing.T) {
	s, err := dutil.NewBatchSampler(10, 4, false, false)
	if err != nil {
		t.Fatal(err)
	}

	batches := s.Sample()
	if len(batches) != 3 {
		t.Fatalf("batches: want 3, got %v", len(batches))
	}
	if len(batches[2]) != 2 {
		t.Errorf("last batch: want size 2, got %v", len(batches[2]))
	}
}

func TestBatchSamplerInvalid(t *testing.T) {
	if _, err := dutil.NewBatchSampler(0, 4, true, false); err == nil {
		t.Error("expected error for empty dataset")
	}
	if _, err := dutil.NewBatchSampler(10, 0, true, false); err == nil {
		t.Error("expected error for zero batch size")
	}
	if _, err := dutil.NewBatchSampler(10, 11, true, false); err == nil {
		t.Error("expected error for batch larger than dataset")
	}
}

func TestDataLoaderTypedBatches(t *testing.T) {
	ds := &intDataset{vals: []int{0, 1, 2, 3, 4, 5}}
	s, err := dutil.NewBatchSampler(ds.Len(), 3, true, false)
	if err != nil {
		t.Fatal(err)
	}
	dl, err := dutil.NewDataLoader(ds, s)
	if err != nil {
		t.Fatal(err)
	}

	var seen []int
	for dl.HasNext() {
		batch, err := dl.Next()
		if err != nil {
			t.Fatal(err)
		}
		vals, ok := batch.([]int)
		if !ok {
			t.Fatalf("expected []int batch, got %T", batch)
		}
		seen = append(seen, vals...)
	}

	if !reflect.DeepEqual(seen, ds.vals) {
		t.Errorf("want %v, got %v", ds.vals, seen)
	}
}

func TestDataLoaderReset(t *testing.T) {
	ds := &intDataset{vals: []int{0, 1, 2, 3}}
	s, err := dutil.NewBatchSampler(ds.Len(), 2, true, false)
	if err != nil {
		t.Fatal(err)
	}
	dl, err := dutil.NewDataLoader(ds, s)
	if err != nil {
		t.Fatal(err)
	}

	count := 0
	for dl.HasNext() {
		if _, err := dl.Next(); err != nil {
			t.Fatal(err)
		}
		count++
	}
	if count != 2 {
		t.Fatalf("first pass: want 2 batches, got %v", count)
	}

	dl.Reset()
	if !dl.HasNext() {
		t.Error("expected batches after Reset")
	}
}

func TestBatchSamplerShuffleCoversAll(t *testing.T) {
	s, err := dutil.NewBatchSampler(8, 2, true, true)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[int]bool)
	for _, b := range s.Sample() {
		for _, idx := range b {
			seen[idx] = true
		}
	}
	if len(seen) != 8 {
		t.Errorf("shuffled pass must cover all indexes, got %v", len(seen))
	}
}
