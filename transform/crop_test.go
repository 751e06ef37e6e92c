package transform_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/JimBoonie/MulticlassFCN/transform"
)

func TestCenterCropGeometry(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 256, 256))

	cropped, err := transform.CenterCrop(img, 224, 224)
	if err != nil {
		t.Fatal(err)
	}

	b := cropped.Bounds()
	if b.Dx() != 224 || b.Dy() != 224 {
		t.Errorf("crop size: want 224x224, got %vx%v", b.Dx(), b.Dy())
	}
}

func TestCenterCropTooSmall(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	if _, err := transform.CenterCrop(img, 224, 224); err == nil {
		t.Fatal("expected error for image smaller than crop")
	}

	mask := image.NewGray(image.Rect(0, 0, 100, 100))
	if _, err := transform.CenterCropGray(mask, 224, 224); err == nil {
		t.Fatal("expected error for mask smaller than crop")
	}
}

func TestCenterCropGrayPreservesLabels(t *testing.T) {
	// 6x6 mask with label 2 in the centered 2x2 region only.
	mask := image.NewGray(image.Rect(0, 0, 6, 6))
	for y := 2; y < 4; y++ {
		for x := 2; x < 4; x++ {
			mask.SetGray(x, y, color.Gray{Y: 2})
		}
	}

	cropped, err := transform.CenterCropGray(mask, 2, 2)
	if err != nil {
		t.Fatal(err)
	}

	b := cropped.Bounds()
	if b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("crop size: want 2x2, got %vx%v", b.Dx(), b.Dy())
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if cropped.GrayAt(x, y).Y != 2 {
				t.Errorf("pixel (%v,%v): want label 2, got %v", x, y, cropped.GrayAt(x, y).Y)
			}
		}
	}
}

func TestCheckPairMismatch(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 256, 256))
	mask := image.NewGray(image.Rect(0, 0, 200, 256))

	err := transform.CheckPair(img, mask)
	if err == nil {
		t.Fatal("expected error for mismatched pair")
	}
	if _, ok := err.(*transform.ShapeMismatchError); !ok {
		t.Errorf("expected ShapeMismatchError, got %T", err)
	}
}

func TestPipelineCrop(t *testing.T) {
	p, err := transform.NewPipeline(transform.DefaultPipelineConfig())
	if err != nil {
		t.Fatal(err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, 256, 256))
	mask := image.NewGray(image.Rect(0, 0, 256, 256))

	ci, cm, err := p.Crop(img, mask)
	if err != nil {
		t.Fatal(err)
	}
	if ci.Bounds().Dx() != 224 || ci.Bounds().Dy() != 224 {
		t.Errorf("image crop: want 224x224, got %vx%v", ci.Bounds().Dx(), ci.Bounds().Dy())
	}
	if cm.Bounds().Dx() != 224 || cm.Bounds().Dy() != 224 {
		t.Errorf("mask crop: want 224x224, got %vx%v", cm.Bounds().Dx(), cm.Bounds().Dy())
	}
}

func TestPipelineCropThenEncode(t *testing.T) {
	p, err := transform.NewPipeline(transform.DefaultPipelineConfig())
	if err != nil {
		t.Fatal(err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, 256, 256))
	mask := image.NewGray(image.Rect(0, 0, 256, 256))
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			mask.SetGray(x, y, color.Gray{Y: uint8((x + y) % 3)})
		}
	}

	_, cm, err := p.Crop(img, mask)
	if err != nil {
		t.Fatal(err)
	}

	oh, err := p.Encoder().Encode(cm)
	if err != nil {
		t.Fatal(err)
	}
	if oh.Classes != 3 || oh.H != 224 || oh.W != 224 {
		t.Errorf("one-hot shape: want 3x224x224, got %vx%vx%v", oh.Classes, oh.H, oh.W)
	}
}

func TestNewPipelineValidation(t *testing.T) {
	cfg := transform.DefaultPipelineConfig()
	cfg.CropW = 0
	if _, err := transform.NewPipeline(cfg); err == nil {
		t.Error("expected error for zero crop size")
	}

	cfg = transform.DefaultPipelineConfig()
	cfg.Stats = nil
	if _, err := transform.NewPipeline(cfg); err == nil {
		t.Error("expected error for missing stats")
	}

	cfg = transform.DefaultPipelineConfig()
	cfg.Labels = nil
	if _, err := transform.NewPipeline(cfg); err == nil {
		t.Error("expected error for empty label set")
	}
}
