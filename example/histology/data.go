package main

import (
	"fmt"
	"image"
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"

	"github.com/disintegration/imaging"
	ts "github.com/sugarme/gotch/tensor"

	"github.com/JimBoonie/MulticlassFCN/transform"
)

// Pair is an image file and its label mask, matched by filename convention:
// <root>/images/<name> pairs with <root>/masks/<name>.
type Pair struct {
	Image string
	Mask  string
}

// listPairs scans the dataset root for image/mask pairs. A missing mask is a
// data defect and fails the scan.
func listPairs(root string) ([]Pair, error) {
	imgDir := filepath.Join(root, "images")
	maskDir := filepath.Join(root, "masks")

	files, err := ioutil.ReadDir(imgDir)
	if err != nil {
		return nil, err
	}

	var pairs []Pair
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		maskPath := filepath.Join(maskDir, f.Name())
		if _, err := os.Stat(maskPath); err != nil {
			return nil, fmt.Errorf("no mask for image %v: %w", f.Name(), err)
		}
		pairs = append(pairs, Pair{
			Image: filepath.Join(imgDir, f.Name()),
			Mask:  maskPath,
		})
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("no image/mask pairs under %v", root)
	}

	return pairs, nil
}

type ImageMask struct {
	image ts.Tensor
	mask  ts.Tensor
}

// HistologyDataset implements dutil.Dataset over image/mask pairs, running
// each sample through the transform pipeline at access time.
type HistologyDataset struct {
	pairs    []Pair
	pipeline *transform.Pipeline
	augment  bool
}

func NewHistologyDataset(pairs []Pair, pipeline *transform.Pipeline, augment bool) *HistologyDataset {
	return &HistologyDataset{
		pairs:    pairs,
		pipeline: pipeline,
		augment:  augment,
	}
}

func (ds *HistologyDataset) Len() int {
	return len(ds.pairs)
}

func (ds *HistologyDataset) DType() reflect.Type {
	return reflect.TypeOf(ImageMask{})
}

// Item implements dutil.Dataset interface.
func (ds *HistologyDataset) Item(idx int) (interface{}, error) {
	pair := ds.pairs[idx]

	img, err := transform.ReadImage(pair.Image)
	if err != nil {
		return nil, err
	}
	mask, err := transform.ReadMask(pair.Mask)
	if err != nil {
		return nil, err
	}

	if ds.augment && rand.Float64() < 0.5 {
		img = imaging.FlipH(img)
		mask = flipGrayH(mask)
	}

	imgTs, maskTs, err := ds.pipeline.Apply(img, mask)
	if err != nil {
		return nil, fmt.Errorf("transform %v: %w", pair.Image, err)
	}

	return ImageMask{
		image: *imgTs,
		mask:  *maskTs,
	}, nil
}

// flipGrayH mirrors a label mask horizontally. Masks cannot go through the
// color flip path since label bytes must pass through untouched.
func flipGrayH(mask *image.Gray) *image.Gray {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.SetGray(w-1-x, y, mask.GrayAt(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

// stackBatch assembles a batch of ImageMask into stacked image and mask
// tensors, dropping the per-sample tensors.
func stackBatch(samples []ImageMask) (imgTs, maskTs *ts.Tensor) {
	var img, mask []ts.Tensor
	for _, s := range samples {
		img = append(img, s.image)
		mask = append(mask, s.mask)
	}

	imgTs = ts.MustStack(img, 0)
	for _, x := range img {
		x.MustDrop()
	}
	maskTs = ts.MustStack(mask, 0)
	for _, x := range mask {
		x.MustDrop()
	}

	return imgTs, maskTs
}
