package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/nfnt/resize"
	"go.uber.org/zap"

	"github.com/JimBoonie/MulticlassFCN/transform"
)

// runPrepare downscales full-resolution slides and their masks by the
// Reduction factor into <root>/prepared/{images,masks}. Masks go through
// nearest-neighbor resampling so label values stay intact.
// validateReduction rejects factors that would zero the output dimensions or
// divide by zero.
func validateReduction(r int) error {
	if r < 1 {
		return fmt.Errorf("reduction must be >= 1. Got %v", r)
	}
	return nil
}

func runPrepare() {
	start := time.Now()

	if err := validateReduction(Reduction); err != nil {
		logger.Fatal("reduction flag", zap.Error(err))
	}

	pairs, err := listPairs(DataPath)
	if err != nil {
		logger.Fatal("list dataset", zap.Error(err))
	}

	outImgDir := filepath.Join(DataPath, "prepared", "images")
	outMaskDir := filepath.Join(DataPath, "prepared", "masks")
	for _, dir := range []string{outImgDir, outMaskDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("create output dir", zap.Error(err))
		}
	}

	for _, pair := range pairs {
		img, err := transform.ReadImage(pair.Image)
		if err != nil {
			logger.Fatal("read image", zap.String("file", pair.Image), zap.Error(err))
		}
		mask, err := transform.ReadMask(pair.Mask)
		if err != nil {
			logger.Fatal("read mask", zap.String("file", pair.Mask), zap.Error(err))
		}

		if err := transform.CheckPair(img, mask); err != nil {
			logger.Fatal("pair geometry", zap.String("file", pair.Image), zap.Error(err))
		}

		w := uint(img.Bounds().Dx() / Reduction)
		h := uint(img.Bounds().Dy() / Reduction)
		smallImg := resize.Resize(w, h, img, resize.Lanczos3)
		smallMask := resize.Resize(w, h, mask, resize.NearestNeighbor)

		name := pngName(pair.Image)
		if err := savePNG(smallImg, filepath.Join(outImgDir, name)); err != nil {
			logger.Fatal("save image", zap.Error(err))
		}
		if err := savePNG(smallMask, filepath.Join(outMaskDir, name)); err != nil {
			logger.Fatal("save mask", zap.Error(err))
		}
	}

	fmt.Printf("Prepared %v pairs in %.2f (min)\n", len(pairs), time.Since(start).Minutes())
}

// pngName swaps the file extension for .png.
func pngName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)] + ".png"
}

func savePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %v: %w", path, err)
	}
	return nil
}
