package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"
	"go.uber.org/zap"

	"github.com/JimBoonie/MulticlassFCN/dutil"
	"github.com/JimBoonie/MulticlassFCN/fcn"
	"github.com/JimBoonie/MulticlassFCN/metric"
	"github.com/JimBoonie/MulticlassFCN/transform"
)

// StepLR decays the learning rate by gamma every stepSize epochs.
type StepLR struct {
	opt      *nn.Optimizer
	lr       float64
	stepSize int
	gamma    float64
	epoch    int
}

func NewStepLR(opt *nn.Optimizer, lr float64, stepSize int, gamma float64) *StepLR {
	return &StepLR{
		opt:      opt,
		lr:       lr,
		stepSize: stepSize,
		gamma:    gamma,
	}
}

// Step advances one epoch, updating the optimizer learning rate on decay
// boundaries.
func (s *StepLR) Step() {
	s.epoch++
	if s.stepSize > 0 && s.epoch%s.stepSize == 0 {
		s.lr *= s.gamma
		s.opt.SetLR(s.lr)
	}
}

// LR returns the current learning rate.
func (s *StepLR) LR() float64 {
	return s.lr
}

func buildModel(vs *nn.VarStore, classes int64) *fcn.FCN {
	var net *fcn.FCN
	switch Backbone {
	case "vgg16":
		net = fcn.DefaultFCN(vs.Root(), classes)
	case "resnet34":
		net = fcn.ResNetFCN(vs.Root(), classes)
	default:
		logger.Fatal("unsupported backbone", zap.String("backbone", Backbone))
	}

	if ModelPath != "" {
		if _, err := vs.LoadPartial(ModelPath); err != nil {
			logger.Fatal("load pretrained weights", zap.Error(err))
		}
	}

	return net
}

func runTrain(cfg *Config) {
	pipeline, err := cfg.newPipeline()
	if err != nil {
		logger.Fatal("build pipeline", zap.Error(err))
	}

	pairs, err := listPairs(DataPath)
	if err != nil {
		logger.Fatal("list dataset", zap.Error(err))
	}

	valCount := int(float64(len(pairs)) * cfg.ValSplit)
	if valCount < 1 {
		valCount = 1
	}
	valPairs := pairs[:valCount]
	trainPairs := pairs[valCount:]
	if len(trainPairs) == 0 {
		logger.Fatal("not enough pairs to train", zap.Int("pairs", len(pairs)))
	}

	vs := nn.NewVarStore(Device)
	classes := int64(pipeline.NumClasses())
	net := buildModel(vs, classes)

	var opt *nn.Optimizer
	switch OptStr {
	case "SGD":
		opt, err = nn.DefaultSGDConfig().Build(vs, LR)
		if err != nil {
			logger.Fatal("build optimizer", zap.Error(err))
		}
	case "Adam":
		opt, err = nn.DefaultAdamConfig().Build(vs, LR)
		if err != nil {
			logger.Fatal("build optimizer", zap.Error(err))
		}
	default:
		logger.Fatal("unsupported optimizer", zap.String("opt", OptStr))
	}
	sched := NewStepLR(opt, LR, cfg.StepSize, cfg.Gamma)

	trainDS := NewHistologyDataset(trainPairs, pipeline, true)
	s, err := dutil.NewBatchSampler(trainDS.Len(), BatchSize, true, true)
	if err != nil {
		logger.Fatal("build sampler", zap.Error(err))
	}
	trainDL, err := dutil.NewDataLoader(trainDS, s)
	if err != nil {
		logger.Fatal("build dataloader", zap.Error(err))
	}

	var si *SI
	var startRAM uint64
	if Debug {
		si = CPUInfo()
		startRAM = si.TotalRam - si.FreeRam
	}

	var bestDice float64
	for e := 0; e < Epochs; e++ {
		start := time.Now()
		trainDL.Reset()
		var losses []float64

		count := 0
		for trainDL.HasNext() {
			batch, err := trainDL.Next()
			if err != nil {
				logger.Fatal("next batch", zap.Error(err))
			}
			count++

			imgTs, maskTs := stackBatch(batch.([]ImageMask))

			input := imgTs.MustTo(Device, true)
			logit := net.ForwardT(input, true)
			input.MustDrop()
			pred := logit.MustTotype(gotch.Double, true)
			target := maskTs.MustTo(Device, true).MustTotype(gotch.Double, true)

			loss := metric.LossFunc(pred, target)
			pred.MustDrop()
			target.MustDrop()

			opt.BackwardStep(loss)
			losses = append(losses, loss.Float64Values()[0])
			loss.MustDrop()

			if Debug {
				si = CPUInfo()
				fmt.Printf("Batch %v\t Used: [%8.2f MiB]\n", count, (float64(si.TotalRam-si.FreeRam)-float64(startRAM))/1024)
			}
		}

		sched.Step()

		vloss, dice, acc := doValidate(net, pipeline, valPairs, Device)
		fmt.Printf("Epoch %02d\t lr: %.5f\t train loss: %6.4f\t valid loss: %6.4f\t dice: %6.4f\t accuracy: %6.4f\t Taken time: %0.2fMin\n",
			e, sched.LR(), avg(losses), vloss, dice, acc, time.Since(start).Minutes())

		if dice > bestDice {
			bestDice = dice
			if err := os.MkdirAll(Checkpoint, 0755); err != nil {
				logger.Fatal("create checkpoint dir", zap.Error(err))
			}
			weightFile := filepath.Join(Checkpoint, fmt.Sprintf("histology-%v.gt", time.Now().Unix()))
			if err := vs.Save(weightFile); err != nil {
				logger.Fatal("save checkpoint", zap.Error(err))
			}
			logger.Info("checkpoint saved", zap.String("path", weightFile), zap.Float64("dice", dice))
		}
	}
}

func doValidate(net ts.ModuleT, pipeline *transform.Pipeline, pairs []Pair, device gotch.Device) (loss, dice, acc float64) {
	testDS := NewHistologyDataset(pairs, pipeline, false)
	batchSize := BatchSize
	if batchSize > testDS.Len() {
		batchSize = testDS.Len()
	}
	s, err := dutil.NewBatchSampler(testDS.Len(), batchSize, false, false) // no shuffle
	if err != nil {
		logger.Fatal("build sampler", zap.Error(err))
	}
	testDL, err := dutil.NewDataLoader(testDS, s)
	if err != nil {
		logger.Fatal("build dataloader", zap.Error(err))
	}

	var (
		losses []float64
		dices  []float64
		accs   []float64
	)
	for testDL.HasNext() {
		batch, err := testDL.Next()
		if err != nil {
			logger.Fatal("next batch", zap.Error(err))
		}

		imgTs, maskTs := stackBatch(batch.([]ImageMask))
		input := imgTs.MustTo(device, true)
		target := maskTs.MustTo(device, true).MustTotype(gotch.Double, true)

		var logit *ts.Tensor
		ts.NoGrad(func() {
			logit = net.ForwardT(input, false).MustTotype(gotch.Double, true)
		})
		input.MustDrop()

		lossTs := metric.LossFunc(logit, target)
		losses = append(losses, lossTs.Float64Values()[0])
		lossTs.MustDrop()

		prob := logit.MustSoftmax(1, gotch.Double, false)
		dices = append(dices, metric.DiceCoeffBatch(prob, target))
		prob.MustDrop()

		accs = append(accs, metric.PixelAccuracy(logit, target))

		logit.MustDrop()
		target.MustDrop()
	}

	return avg(losses), avg(dices), avg(accs)
}

func avg(input []float64) float64 {
	if len(input) == 0 {
		return 0
	}

	var sum float64
	for _, v := range input {
		sum += v
	}

	return sum / float64(len(input))
}
