package fcn

import (
	"log"
	"reflect"

	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"

	"github.com/JimBoonie/MulticlassFCN/base"
)

// interpolation using `nearest` algorithm
func upsample(x, ref *ts.Tensor) *ts.Tensor {
	xSize := x.MustSize()
	refSize := ref.MustSize()
	if reflect.DeepEqual(xSize[2:], refSize[2:]) {
		return x.MustDetach(false)
	}

	return x.MustUpsampleNearest2d(refSize[2:], nil, nil, false)
}

// FCNDecoder fuses the three deepest encoder stages in the FCN-8s manner:
// 1x1 score convolutions on pool3/pool4/pool5, each deeper map upsampled and
// summed into the shallower one.
type FCNDecoder struct {
	score3 *nn.SequentialT
	score4 *nn.SequentialT
	score5 *nn.SequentialT
}

// NewFCNDecoder creates FCNDecoder.
//
// chans holds the channel counts of the /8, /16 and /32 encoder stages;
// cOut is the fused feature width handed to the segmentation head.
func NewFCNDecoder(p *nn.Path, chans [3]int64, cOut int64) *FCNDecoder {
	score3 := base.Conv2dRelu(p.Sub("score3"), chans[0], cOut, 1, 0, 1)
	score4 := base.Conv2dRelu(p.Sub("score4"), chans[1], cOut, 1, 0, 1)
	score5 := base.Conv2dRelu(p.Sub("score5"), chans[2], cOut, 1, 0, 1)

	return &FCNDecoder{
		score3: score3,
		score4: score4,
		score5: score5,
	}
}

// ForwardFeatures forwards through encoder features.
func (d *FCNDecoder) ForwardFeatures(features []*ts.Tensor, train bool) *ts.Tensor {
	if len(features) != 6 {
		log.Fatalf("Expected features of 6 tensors. Got %v\n", len(features))
	}

	// feat3 [bz c3 H/8 W/8], feat4 [bz c4 H/16 W/16], feat5 [bz c5 H/32 W/32]
	s5 := d.score5.ForwardT(features[5], train)
	s4 := d.score4.ForwardT(features[4], train)
	s3 := d.score3.ForwardT(features[3], train)

	up5 := upsample(s5, s4)
	fuse4 := up5.MustAdd(s4, true)
	s4.MustDrop()
	s5.MustDrop()

	up4 := upsample(fuse4, s3)
	fuse4.MustDrop()
	fuse3 := up4.MustAdd(s3, true)
	s3.MustDrop()

	return fuse3
}
