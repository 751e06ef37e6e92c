package transform

import "fmt"

// InvalidInputError reports input a transform cannot work with: an empty
// image list, an undecodable file or an image with the wrong channel count.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %v", e.Reason)
}

// UnrecognizedLabelError reports a mask pixel value outside the configured
// label set.
type UnrecognizedLabelError struct {
	Label int
}

func (e *UnrecognizedLabelError) Error() string {
	return fmt.Sprintf("unrecognized label: %v", e.Label)
}

// ShapeMismatchError reports an image and mask pair with differing spatial
// dimensions.
type ShapeMismatchError struct {
	ImageW, ImageH int
	MaskW, MaskH   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: image %vx%v vs mask %vx%v", e.ImageW, e.ImageH, e.MaskW, e.MaskH)
}
