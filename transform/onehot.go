package transform

import (
	"fmt"
	"image"
	"image/color"
)

// OneHot is a one-hot encoded label mask stored channel-first: one float32
// plane per class, exactly one plane set to 1 at every pixel.
type OneHot struct {
	Data    []float32 // len = Classes*H*W, [class][row][col]
	Classes int
	H, W    int
}

// At returns the value of channel c at pixel (y, x).
func (o *OneHot) At(c, y, x int) float32 {
	return o.Data[c*o.H*o.W+y*o.W+x]
}

// OneHotEncoder converts label masks to one-hot planes and back. The channel
// order is the order of the label set given at construction; the mapping is
// kept explicit so Encode and Decode stay symmetric.
type OneHotEncoder struct {
	labels []int
	index  map[int]int
}

// NewOneHotEncoder creates an encoder for a fixed ordered label set.
func NewOneHotEncoder(labels []int) (*OneHotEncoder, error) {
	if len(labels) == 0 {
		return nil, &InvalidInputError{Reason: "empty label set"}
	}

	index := make(map[int]int, len(labels))
	for i, l := range labels {
		if _, ok := index[l]; ok {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("duplicate label %v", l)}
		}
		index[l] = i
	}

	return &OneHotEncoder{
		labels: append([]int{}, labels...),
		index:  index,
	}, nil
}

// Labels returns the ordered label set.
func (e *OneHotEncoder) Labels() []int {
	return append([]int{}, e.labels...)
}

// NumClasses returns the size of the label set, which is the channel count of
// every encoded mask regardless of the labels actually present in it.
func (e *OneHotEncoder) NumClasses() int {
	return len(e.labels)
}

// Encode converts a label mask into its one-hot representation. A pixel value
// outside the label set fails with UnrecognizedLabelError.
func (e *OneHotEncoder) Encode(mask *image.Gray) (*OneHot, error) {
	b := mask.Bounds()
	h, w := b.Dy(), b.Dx()
	k := len(e.labels)

	out := &OneHot{
		Data:    make([]float32, k*h*w),
		Classes: k,
		H:       h,
		W:       w,
	}

	plane := h * w
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			label := int(mask.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			c, ok := e.index[label]
			if !ok {
				return nil, &UnrecognizedLabelError{Label: label}
			}
			out.Data[c*plane+y*w+x] = 1
		}
	}

	return out, nil
}

// Decode reconstructs the label mask from a one-hot representation: the index
// of the active channel mapped back through the label set.
func (e *OneHotEncoder) Decode(o *OneHot) (*image.Gray, error) {
	if o.Classes != len(e.labels) {
		return nil, &InvalidInputError{
			Reason: fmt.Sprintf("channel count %v does not match label set size %v", o.Classes, len(e.labels)),
		}
	}

	mask := image.NewGray(image.Rect(0, 0, o.W, o.H))
	plane := o.H * o.W
	for y := 0; y < o.H; y++ {
		for x := 0; x < o.W; x++ {
			best := 0
			bestVal := o.Data[y*o.W+x]
			for c := 1; c < o.Classes; c++ {
				if v := o.Data[c*plane+y*o.W+x]; v > bestVal {
					best = c
					bestVal = v
				}
			}
			mask.SetGray(x, y, color.Gray{Y: uint8(e.labels[best])})
		}
	}

	return mask, nil
}
