package encoder

import (
	"fmt"

	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"

	"github.com/JimBoonie/MulticlassFCN/base"
)

// VGGEncoder is a VGG16 backbone cut into its five convolutional blocks.
// Variable paths follow the torchvision `features.<index>` layout so that
// pretrained vgg16 weights load with VarStore.LoadPartial.
type VGGEncoder struct {
	block1 ts.ModuleT
	block2 ts.ModuleT
	block3 ts.ModuleT
	block4 ts.ModuleT
	block5 ts.ModuleT
}

// ForwardAll implements Encoder interface for VGGEncoder.
//
// Returned features:
// 0- input   [bz 3 H W]
// 1- pool1   [bz 64 H/2 W/2]
// 2- pool2   [bz 128 H/4 W/4]
// 3- pool3   [bz 256 H/8 W/8]
// 4- pool4   [bz 512 H/16 W/16]
// 5- pool5   [bz 512 H/32 W/32]
func (e *VGGEncoder) ForwardAll(x *ts.Tensor, train bool) []*ts.Tensor {
	x0 := x.MustDetach(false)
	x1 := e.block1.ForwardT(x0, train)
	x2 := e.block2.ForwardT(x1, train)
	x3 := e.block3.ForwardT(x2, train)
	x4 := e.block4.ForwardT(x3, train)
	x5 := e.block5.ForwardT(x4, train)

	return []*ts.Tensor{x0, x1, x2, x3, x4, x5}
}

// NewVGG16Encoder creates the VGG16 convolutional encoder.
func NewVGG16Encoder(p *nn.Path) *VGGEncoder {
	f := p.Sub("features")

	return &VGGEncoder{
		block1: vggBlock(f, []int64{0, 2}, 3, 64),
		block2: vggBlock(f, []int64{5, 7}, 64, 128),
		block3: vggBlock(f, []int64{10, 12, 14}, 128, 256),
		block4: vggBlock(f, []int64{17, 19, 21}, 256, 512),
		block5: vggBlock(f, []int64{24, 26, 28}, 512, 512),
	}
}

// vggBlock builds a run of 3x3 conv+relu layers (named by their torchvision
// feature index) followed by a 2x2 max pool.
func vggBlock(f *nn.Path, idxs []int64, cIn, cOut int64) ts.ModuleT {
	seq := nn.SeqT()
	c := cIn
	for _, idx := range idxs {
		seq.Add(base.Conv2d(f.Sub(fmt.Sprint(idx)), c, cOut, 3, 1, 1))
		seq.AddFn(nn.NewFunc(func(xs *ts.Tensor) *ts.Tensor {
			return xs.MustRelu(false)
		}))
		c = cOut
	}
	seq.AddFn(nn.NewFunc(func(xs *ts.Tensor) *ts.Tensor {
		return xs.MustMaxPool2d([]int64{2, 2}, []int64{2, 2}, []int64{0, 0}, []int64{1, 1}, false, false)
	}))

	return seq
}
