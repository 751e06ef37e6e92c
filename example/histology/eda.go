package main

import (
	"fmt"
	"io/ioutil"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/JimBoonie/MulticlassFCN/transform"
)

// runEDA counts per-class pixel frequency over the mask directory and plots
// it as a bar chart for a quick look at class imbalance.
func runEDA(cfg *Config) {
	maskDir := filepath.Join(DataPath, "masks")
	files, err := ioutil.ReadDir(maskDir)
	if err != nil {
		logger.Fatal("read mask dir", zap.Error(err))
	}

	counts := make(map[int]float64, len(cfg.Labels))
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		mask, err := transform.ReadMask(filepath.Join(maskDir, f.Name()))
		if err != nil {
			logger.Fatal("read mask", zap.String("file", f.Name()), zap.Error(err))
		}

		b := mask.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				counts[int(mask.GrayAt(x, y).Y)]++
			}
		}
	}

	v := make(plotter.Values, len(cfg.Labels))
	names := make([]string, len(cfg.Labels))
	for i, label := range cfg.Labels {
		v[i] = counts[label]
		names[i] = fmt.Sprint(label)
		fmt.Printf("Label %v\t pixels: %12.0f\n", label, counts[label])
	}

	p, err := plot.New()
	if err != nil {
		logger.Fatal("new plot", zap.Error(err))
	}

	bars, err := plotter.NewBarChart(v, vg.Points(30))
	if err != nil {
		logger.Fatal("new bar chart", zap.Error(err))
	}
	p.Title.Text = "Label Pixel Frequency"
	p.Y.Label.Text = "pixels"
	p.Add(bars)
	p.NominalX(names...)

	outPath := filepath.Join(DataPath, "label-histo.png")
	if err := p.Save(4*vg.Inch, 4*vg.Inch, outPath); err != nil {
		logger.Fatal("save plot", zap.Error(err))
	}
	logger.Info("label histogram written", zap.String("path", outPath))
}
