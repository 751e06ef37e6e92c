package metric

import (
	"github.com/sugarme/gotch"
	ts "github.com/sugarme/gotch/tensor"
)

// CrossEntropyLoss computes the mean pixel-wise cross entropy between a logit
// tensor [bz classes H W] and a one-hot target of the same shape.
//
// Both tensors are expected in Double precision.
func CrossEntropyLoss(logit, target *ts.Tensor) *ts.Tensor {
	logp := logit.MustLogSoftmax(1, gotch.Double, false)
	prod := logp.MustMul(target, true)
	// sum over the class dim leaves [bz H W]; each pixel keeps the log
	// probability of its true class only.
	sum := prod.MustSum1([]int64{1}, false, gotch.Double, true)
	loss := sum.MustMean(gotch.Double, true).MustMul1(ts.FloatScalar(-1), true)

	return loss
}

// SoftDiceLoss is 1 - soft dice coefficient averaged over classes.
// prob and target are [bz classes H W]; prob should hold softmax outputs.
func SoftDiceLoss(prob, target *ts.Tensor) *ts.Tensor {
	dims := []int64{-2, -1}
	smooth := 1.0

	ptMul := prob.MustMul(target, false)
	overlap := ptMul.MustSum1(dims, false, gotch.Double, true)

	pSum := prob.MustSum1(dims, false, gotch.Double, false)
	tSum := target.MustSum1(dims, false, gotch.Double, false)

	numerator := overlap.MustMul1(ts.FloatScalar(2.0), true).MustAdd1(ts.FloatScalar(smooth), true)
	denominator := pSum.MustAdd(tSum, true).MustAdd1(ts.FloatScalar(smooth), true)
	tSum.MustDrop()

	dc := numerator.MustDiv(denominator, true)
	denominator.MustDrop()

	mean := dc.MustMean(gotch.Double, true)
	retVal := mean.MustMul1(ts.FloatScalar(-1), true).MustAdd1(ts.FloatScalar(1), true)

	return retVal
}

// LossFunc is the training loss: 0.8 cross entropy on the logits plus 0.2
// soft dice on the softmax probabilities. logit and target are
// [bz classes H W] in Double precision.
func LossFunc(logit, target *ts.Tensor) *ts.Tensor {
	ce := CrossEntropyLoss(logit, target).MustMul1(ts.FloatScalar(0.8), true)
	prob := logit.MustSoftmax(1, gotch.Double, false)
	dice := SoftDiceLoss(prob, target).MustMul1(ts.FloatScalar(0.2), true)
	prob.MustDrop()

	retVal := ce.MustAdd(dice, true)
	dice.MustDrop()

	return retVal
}

// DiceCoeff measures overlap between a binary prediction and target plane.
// Values are thresholded at 0.5.
func DiceCoeff(pred, target *ts.Tensor) float64 {
	iflat := pred.MustView([]int64{-1}, false)
	tflat := target.MustView([]int64{-1}, false)
	p := iflat.MustGt(ts.FloatScalar(0.5), true)
	t := tflat.MustGt(ts.FloatScalar(0.5), true)
	ptMul := p.MustMul(t, false)
	overlap := ptMul.MustSum(gotch.Double, true).Float64Values()[0]
	union := p.MustSum(gotch.Double, true).Float64Values()[0] + t.MustSum(gotch.Double, true).Float64Values()[0]

	dice := (2 * overlap) / (union + 0.001)

	return dice
}

// DiceCoeffBatch averages the per-class dice coefficient of an argmax
// prediction against a one-hot target, both [bz classes H W].
func DiceCoeffBatch(prob, target *ts.Tensor) float64 {
	size := prob.MustSize()
	classes := size[1]

	var sum float64
	for c := int64(0); c < classes; c++ {
		p := prob.MustNarrow(1, c, 1, false)
		t := target.MustNarrow(1, c, 1, false)
		sum += DiceCoeff(p, t)
		p.MustDrop()
		t.MustDrop()
	}

	return sum / float64(classes)
}

// IoU is the Jaccard index of a binary prediction and target plane.
func IoU(pred, target *ts.Tensor) float64 {
	iflat := pred.MustView([]int64{-1}, false)
	tflat := target.MustView([]int64{-1}, false)
	p := iflat.MustGt(ts.FloatScalar(0.5), true)
	t := tflat.MustGt(ts.FloatScalar(0.5), true)
	ptMul := p.MustMul(t, false)
	overlap := ptMul.MustSum(gotch.Double, true).Float64Values()[0]
	union := p.MustSum(gotch.Double, true).Float64Values()[0] + t.MustSum(gotch.Double, true).Float64Values()[0] - overlap

	return overlap / (union + 0.001)
}

// PixelAccuracy is the fraction of pixels whose argmax class matches the
// one-hot target. logit and target are [bz classes H W].
func PixelAccuracy(logit, target *ts.Tensor) float64 {
	pred := logit.MustArgmax(1, false, false)
	truth := target.MustArgmax(1, false, false)
	eq := pred.MustEq1(truth, true)
	truth.MustDrop()

	acc := eq.MustTotype(gotch.Double, true).MustMean(gotch.Double, true)
	retVal := acc.Float64Values()[0]
	acc.MustDrop()

	return retVal
}
