package main

import (
	"image"
	"image/color"
	"path/filepath"

	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/JimBoonie/MulticlassFCN/transform"
)

// classPalette colors class indexes for overlays. Index 0 stays dark so the
// background class does not wash out the tissue.
var classPalette = []color.NRGBA{
	{R: 0, G: 0, B: 0, A: 255},
	{R: 228, G: 26, B: 28, A: 255},
	{R: 55, G: 126, B: 184, A: 255},
	{R: 77, G: 175, B: 74, A: 255},
	{R: 152, G: 78, B: 163, A: 255},
}

// runVisualize composites a class overlay onto one cropped sample: the ground
// truth mask, and the model prediction as well when a weight file is given.
func runVisualize(cfg *Config) {
	if ImageName == "" {
		logger.Fatal("visualize task needs -name")
	}

	pipeline, err := cfg.newPipeline()
	if err != nil {
		logger.Fatal("build pipeline", zap.Error(err))
	}

	img, err := transform.ReadImage(filepath.Join(DataPath, "images", ImageName))
	if err != nil {
		logger.Fatal("read image", zap.Error(err))
	}
	mask, err := transform.ReadMask(filepath.Join(DataPath, "masks", ImageName))
	if err != nil {
		logger.Fatal("read mask", zap.Error(err))
	}

	ci, cm, err := pipeline.Crop(img, mask)
	if err != nil {
		logger.Fatal("crop pair", zap.Error(err))
	}

	stem := ImageName[:len(ImageName)-len(filepath.Ext(ImageName))]
	outPath := filepath.Join(DataPath, stem+"-overlay.png")
	if err := saveOverlay(ci, cm, pipeline.Encoder(), outPath); err != nil {
		logger.Fatal("save overlay", zap.Error(err))
	}
	logger.Info("ground truth overlay written", zap.String("path", outPath))

	if ModelPath == "" {
		return
	}

	predMask, err := predictMask(pipeline, ci)
	if err != nil {
		logger.Fatal("predict", zap.Error(err))
	}

	predPath := filepath.Join(DataPath, stem+"-pred.png")
	if err := saveOverlay(ci, predMask, pipeline.Encoder(), predPath); err != nil {
		logger.Fatal("save prediction overlay", zap.Error(err))
	}
	logger.Info("prediction overlay written", zap.String("path", predPath))
}

// predictMask forwards one cropped image through the model and decodes the
// class probabilities back into a label mask.
func predictMask(pipeline *transform.Pipeline, img image.Image) (*image.Gray, error) {
	vs := nn.NewVarStore(Device)
	net := buildModel(vs, int64(pipeline.NumClasses()))

	imgTs, err := transform.ImageTensor(img)
	if err != nil {
		return nil, err
	}

	input := imgTs.MustUnsqueeze(0, true).MustTo(Device, true)
	var prob *ts.Tensor
	ts.NoGrad(func() {
		logit := net.ForwardT(input, false)
		prob = logit.MustSoftmax(1, gotch.Float, true)
	})
	input.MustDrop()

	size := prob.MustSize() // [1 classes H W]
	vals := prob.Float64Values()
	prob.MustDrop()

	oh := &transform.OneHot{
		Data:    make([]float32, len(vals)),
		Classes: int(size[1]),
		H:       int(size[2]),
		W:       int(size[3]),
	}
	for i, v := range vals {
		oh.Data[i] = float32(v)
	}

	return pipeline.Encoder().Decode(oh)
}

// saveOverlay composites the colorized mask over the image at 25% opacity.
func saveOverlay(img image.Image, mask *image.Gray, enc *transform.OneHotEncoder, path string) error {
	b := img.Bounds()
	rec := image.Rect(0, 0, b.Dx(), b.Dy())

	dst := image.NewNRGBA(rec)
	draw.Draw(dst, rec, img, b.Min, draw.Src)

	colored := image.NewNRGBA(rec)
	mb := mask.Bounds()
	index := make(map[int]int, len(enc.Labels()))
	for i, l := range enc.Labels() {
		index[l] = i
	}
	for y := 0; y < rec.Dy(); y++ {
		for x := 0; x < rec.Dx(); x++ {
			label := int(mask.GrayAt(mb.Min.X+x, mb.Min.Y+y).Y)
			if c, ok := index[label]; ok && c < len(classPalette) {
				colored.SetNRGBA(x, y, classPalette[c])
			}
		}
	}

	opacity := image.NewUniform(color.Alpha{A: 64}) // 25% opacity
	draw.DrawMask(dst, rec, colored, image.Point{}, opacity, image.Point{}, draw.Over)

	return savePNG(dst, path)
}
