package metric_test

import (
	"math"
	"testing"

	"github.com/sugarme/gotch"
	ts "github.com/sugarme/gotch/tensor"

	"github.com/JimBoonie/MulticlassFCN/metric"
)

func TestDiceCoeff(t *testing.T) {
	pslice := []int64{1, 0, 0, 1, 0, 0, 1, 0, 0}
	tslice := []int64{1, 0, 0, 1, 1, 0, 1, 0, 0}

	pred := ts.MustOfSlice(pslice).MustView([]int64{1, 3, 3}, true)
	target := ts.MustOfSlice(tslice).MustView([]int64{1, 3, 3}, true)

	dice := metric.DiceCoeff(pred, target)
	if math.Abs(dice-0.8571) > 0.01 {
		t.Errorf("dice: want ~0.8571, got %0.4f", dice)
	}
}

func TestIoU(t *testing.T) {
	pslice := []int64{1, 0, 0, 1, 0, 0, 1, 0, 0}
	tslice := []int64{1, 0, 0, 1, 1, 0, 1, 0, 0}

	pred := ts.MustOfSlice(pslice).MustView([]int64{1, 3, 3}, true)
	target := ts.MustOfSlice(tslice).MustView([]int64{1, 3, 3}, true)

	iou := metric.IoU(pred, target)
	if math.Abs(iou-0.7500) > 0.01 {
		t.Errorf("IoU: want ~0.7500, got %0.4f", iou)
	}
}

func TestPixelAccuracyPerfect(t *testing.T) {
	// 2 classes, 2x2 pixels, prediction matches target everywhere.
	oneHot := []float64{
		1, 0, 0, 1, // class 0 channel
		0, 1, 1, 0, // class 1 channel
	}

	logit := ts.MustOfSlice(oneHot).MustView([]int64{1, 2, 2, 2}, true)
	target := ts.MustOfSlice(oneHot).MustView([]int64{1, 2, 2, 2}, true)

	acc := metric.PixelAccuracy(logit, target)
	if math.Abs(acc-1.0) > 1e-6 {
		t.Errorf("accuracy: want 1.0, got %v", acc)
	}
}

func TestSoftDiceLossPerfect(t *testing.T) {
	// Probabilities equal to the one-hot target give dice 1 per class, so the
	// loss must vanish exactly, smoothing included.
	oneHot := []float64{
		1, 0, 0, 1, // class 0 channel
		0, 1, 1, 0, // class 1 channel
	}

	prob := ts.MustOfSlice(oneHot).MustView([]int64{1, 2, 2, 2}, true)
	target := ts.MustOfSlice(oneHot).MustView([]int64{1, 2, 2, 2}, true)

	loss := metric.SoftDiceLoss(prob, target)
	got := loss.Float64Values()[0]
	if math.Abs(got) > 1e-6 {
		t.Errorf("loss: want 0, got %v", got)
	}
	loss.MustDrop()
}

func TestLossFuncUniform(t *testing.T) {
	// Zero logits over 3 classes, all pixels class 0. Cross entropy is ln(3);
	// with uniform softmax (1/3) the per-class dice terms are 11/19, 3/7 and
	// 3/7, so the soft dice loss is 1 - (11/19 + 6/7)/3.
	logit := ts.MustZeros([]int64{1, 3, 2, 2}, gotch.Double, gotch.CPU)
	targetSlice := []float64{
		1, 1, 1, 1,
		0, 0, 0, 0,
		0, 0, 0, 0,
	}
	target := ts.MustOfSlice(targetSlice).MustView([]int64{1, 3, 2, 2}, true)

	dice := 1 - (11.0/19.0+6.0/7.0)/3
	want := 0.8*math.Log(3) + 0.2*dice

	loss := metric.LossFunc(logit, target)
	got := loss.Float64Values()[0]
	if math.Abs(got-want) > 1e-4 {
		t.Errorf("loss: want %v, got %v", want, got)
	}
	loss.MustDrop()
}

func TestCrossEntropyLossUniform(t *testing.T) {
	// Zero logits over 3 classes give uniform softmax; the loss must equal
	// ln(3) regardless of the target class.
	logit := ts.MustZeros([]int64{1, 3, 2, 2}, gotch.Double, gotch.CPU)
	targetSlice := []float64{
		1, 1, 0, 0,
		0, 0, 1, 1,
		0, 0, 0, 0,
	}
	target := ts.MustOfSlice(targetSlice).MustView([]int64{1, 3, 2, 2}, true)

	loss := metric.CrossEntropyLoss(logit, target)
	got := loss.Float64Values()[0]
	want := math.Log(3)
	if math.Abs(got-want) > 1e-4 {
		t.Errorf("loss: want %v, got %v", want, got)
	}
	loss.MustDrop()
}
