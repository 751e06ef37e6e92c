package transform_test

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/JimBoonie/MulticlassFCN/transform"
)

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func uniformImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestEstimateChannelStatsUniform(t *testing.T) {
	dir, err := ioutil.TempDir("", "stats")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	// N identical single-color images: mean per channel must approximate the
	// pixel value and std must vanish.
	c := color.NRGBA{R: 120, G: 80, B: 200, A: 255}
	var paths []string
	for i := 0; i < 4; i++ {
		paths = append(paths, writePNG(t, dir, fmt.Sprintf("img-%02d.png", i), uniformImage(16, 16, c)))
	}

	stats, err := transform.EstimateChannelStats(paths)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{120, 80, 200}
	for i, m := range stats.Mean {
		if math.Abs(m-want[i]) > 1e-6 {
			t.Errorf("mean[%v]: want %v, got %v", i, want[i], m)
		}
	}
	for i, s := range stats.Std {
		if math.Abs(s) > 1e-6 {
			t.Errorf("std[%v]: want 0, got %v", i, s)
		}
	}
}

func TestEstimateChannelStatsAggregation(t *testing.T) {
	dir, err := ioutil.TempDir("", "stats")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	// Two uniform images with per-image means 100 and 200: the aggregate mean
	// is the mean of means (150) and, since each per-image std is 0, the
	// std-of-stds aggregate stays 0.
	p1 := writePNG(t, dir, "a.png", uniformImage(8, 8, color.NRGBA{R: 100, G: 100, B: 100, A: 255}))
	p2 := writePNG(t, dir, "b.png", uniformImage(8, 8, color.NRGBA{R: 200, G: 200, B: 200, A: 255}))

	stats, err := transform.EstimateChannelStats([]string{p1, p2})
	if err != nil {
		t.Fatal(err)
	}

	for i, m := range stats.Mean {
		if math.Abs(m-150) > 1e-6 {
			t.Errorf("mean[%v]: want 150, got %v", i, m)
		}
	}
	for i, s := range stats.Std {
		if math.Abs(s) > 1e-6 {
			t.Errorf("std[%v]: want 0, got %v", i, s)
		}
	}
}

func TestEstimateChannelStatsSingleImage(t *testing.T) {
	dir, err := ioutil.TempDir("", "stats")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	// One image, half 100 and half 200 per channel. The aggregate mean is the
	// image mean (150); the aggregate std is the population std over a single
	// per-image std, which is 0 rather than NaN.
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		v := uint8(100)
		if y >= 4 {
			v = 200
		}
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	path := writePNG(t, dir, "single.png", img)

	stats, err := transform.EstimateChannelStats([]string{path})
	if err != nil {
		t.Fatal(err)
	}

	for i, m := range stats.Mean {
		if math.Abs(m-150) > 1e-6 {
			t.Errorf("mean[%v]: want 150, got %v", i, m)
		}
	}
	for i, s := range stats.Std {
		if math.IsNaN(s) {
			t.Fatalf("std[%v]: got NaN", i)
		}
		if math.Abs(s) > 1e-6 {
			t.Errorf("std[%v]: want 0, got %v", i, s)
		}
	}
}

func TestEstimateChannelStatsEmptyList(t *testing.T) {
	_, err := transform.EstimateChannelStats(nil)
	if err == nil {
		t.Fatal("expected error for empty image list")
	}
	if _, ok := err.(*transform.InvalidInputError); !ok {
		t.Errorf("expected InvalidInputError, got %T", err)
	}
}

func TestEstimateChannelStatsGrayscale(t *testing.T) {
	dir, err := ioutil.TempDir("", "stats")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	gray := image.NewGray(image.Rect(0, 0, 8, 8))
	path := writePNG(t, dir, "gray.png", gray)

	_, err = transform.EstimateChannelStats([]string{path})
	if err == nil {
		t.Fatal("expected error for single-channel image")
	}
	if _, ok := err.(*transform.InvalidInputError); !ok {
		t.Errorf("expected InvalidInputError, got %T", err)
	}
}

func TestChannelStatsCSVRoundTrip(t *testing.T) {
	stats := transform.DefaultChannelStats()

	var buf bytes.Buffer
	if err := stats.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}

	got, err := transform.ReadStatsCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}

	for i := range stats.Mean {
		if math.Abs(got.Mean[i]-stats.Mean[i]) > 1e-6 {
			t.Errorf("mean[%v]: want %v, got %v", i, stats.Mean[i], got.Mean[i])
		}
		if math.Abs(got.Std[i]-stats.Std[i]) > 1e-6 {
			t.Errorf("std[%v]: want %v, got %v", i, stats.Std[i], got.Std[i])
		}
	}
}
