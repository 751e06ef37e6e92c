package fcn

import (
	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"

	"github.com/JimBoonie/MulticlassFCN/base"
	"github.com/JimBoonie/MulticlassFCN/encoder"
)

// FCN is a fully convolutional network for semantic segmentation.
// Ref: https://arxiv.org/abs/1411.4038
type FCN struct {
	encoder encoder.Encoder
	decoder *FCNDecoder
	segHead *nn.SequentialT
}

// ForwardT implements ts.ModuleT for FCN struct.
// Output shape: [bz classes H W] with H, W taken from the input.
func (n *FCN) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	features := n.encoder.ForwardAll(x, train)
	out := n.decoder.ForwardFeatures(features, train)
	segHead := n.segHead.ForwardT(out, train)
	masks := upsample(segHead, x)

	for _, f := range features {
		f.MustDrop()
	}
	out.MustDrop()
	segHead.MustDrop()

	return masks
}

// NewFCN assembles an FCN from an encoder and the channel counts of its
// three deepest stages.
func NewFCN(p *nn.Path, enc encoder.Encoder, chans [3]int64, classes int64) *FCN {
	var fuseChannels int64 = 32
	dec := NewFCNDecoder(p.Sub("decoder"), chans, fuseChannels)
	head := base.NewSegmentationHead(p.Sub("logit"), fuseChannels, classes, 3)

	return &FCN{
		encoder: enc,
		decoder: dec,
		segHead: head,
	}
}

// DefaultFCN creates an FCN-8s with a VGG16 encoder.
func DefaultFCN(p *nn.Path, classes int64) *FCN {
	enc := encoder.NewVGG16Encoder(p)
	return NewFCN(p, enc, [3]int64{256, 512, 512}, classes)
}

// ResNetFCN creates an FCN-8s with a ResNet34 encoder.
func ResNetFCN(p *nn.Path, classes int64) *FCN {
	enc := encoder.NewResNet34Encoder(p)
	return NewFCN(p, enc, [3]int64{128, 256, 512}, classes)
}
