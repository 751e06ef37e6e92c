package dutil

import "reflect"

// Dataset represents a map-style collection of samples addressable by index.
type Dataset interface {
	// Len returns the number of samples.
	Len() int
	// Item returns the sample at idx.
	Item(idx int) (interface{}, error)
	// DType returns the dynamic type of a single sample.
	DType() reflect.Type
}
