package transform

import (
	"image"

	ts "github.com/sugarme/gotch/tensor"
)

// ImageTensor converts a color image to a CHW float32 tensor on the 0-255
// scale.
func ImageTensor(img image.Image) (*ts.Tensor, error) {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()
	plane := h * w

	data := make([]float32, numChannels*plane)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			data[0*plane+y*w+x] = float32(r >> 8)
			data[1*plane+y*w+x] = float32(g >> 8)
			data[2*plane+y*w+x] = float32(bb >> 8)
		}
	}

	return ts.NewTensorFromData(data, []int64{numChannels, int64(h), int64(w)})
}

// Tensor converts the one-hot planes to a [classes H W] tensor.
func (o *OneHot) Tensor() (*ts.Tensor, error) {
	return ts.NewTensorFromData(o.Data, []int64{int64(o.Classes), int64(o.H), int64(o.W)})
}

// Normalize rescales a CHW image tensor to approximately zero mean and unit
// variance per channel: x = (x - mean)/std.
func (s *ChannelStats) Normalize(x *ts.Tensor) *ts.Tensor {
	meanVals := make([]float32, len(s.Mean))
	sdVals := make([]float32, len(s.Std))
	for i := range s.Mean {
		meanVals[i] = float32(s.Mean[i])
		sdVals[i] = float32(s.Std[i])
	}

	mean := ts.MustOfSlice(meanVals).MustView([]int64{int64(len(meanVals)), 1, 1}, true)
	sd := ts.MustOfSlice(sdVals).MustView([]int64{int64(len(sdVals)), 1, 1}, true)

	n := x.MustSub(mean, false).MustDiv(sd, true)
	mean.MustDrop()
	sd.MustDrop()

	return n
}
