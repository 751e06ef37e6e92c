package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/JimBoonie/MulticlassFCN/transform"
)

// runStats estimates per-channel normalization constants over the training
// images and persists them so later runs can treat them as precomputed.
func runStats() {
	imgDir := filepath.Join(DataPath, "images")
	files, err := ioutil.ReadDir(imgDir)
	if err != nil {
		logger.Fatal("read image dir", zap.Error(err))
	}

	var paths []string
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(imgDir, f.Name()))
	}

	stats, err := transform.EstimateChannelStats(paths)
	if err != nil {
		logger.Fatal("estimate channel stats", zap.Error(err))
	}

	fmt.Printf("Images: %v\n", len(paths))
	for c := range stats.Mean {
		fmt.Printf("Channel %v\t mean: %8.4f\t std: %8.4f\n", c, stats.Mean[c], stats.Std[c])
	}

	outPath := filepath.Join(DataPath, "channel-stats.csv")
	f, err := os.Create(outPath)
	if err != nil {
		logger.Fatal("create stats file", zap.Error(err))
	}
	defer f.Close()

	if err := stats.WriteCSV(f); err != nil {
		logger.Fatal("write stats file", zap.Error(err))
	}
	logger.Info("channel stats written", zap.String("path", outPath))
}
