package transform

import (
	"image"

	"github.com/disintegration/imaging"
)

// CheckPair verifies that an image and its mask share spatial dimensions.
func CheckPair(img image.Image, mask *image.Gray) error {
	ib := img.Bounds()
	mb := mask.Bounds()
	if ib.Dx() != mb.Dx() || ib.Dy() != mb.Dy() {
		return &ShapeMismatchError{
			ImageW: ib.Dx(), ImageH: ib.Dy(),
			MaskW: mb.Dx(), MaskH: mb.Dy(),
		}
	}

	return nil
}

// CenterCrop extracts the centered w x h region of a color image.
func CenterCrop(img image.Image, w, h int) (image.Image, error) {
	b := img.Bounds()
	if b.Dx() < w || b.Dy() < h {
		return nil, &InvalidInputError{Reason: "image smaller than crop size"}
	}

	return imaging.CropCenter(img, w, h), nil
}

// CenterCropGray extracts the centered w x h region of a label mask. The crop
// goes through SubImage so label values pass through untouched; the
// interpolating path in CenterCrop would corrupt them.
func CenterCropGray(mask *image.Gray, w, h int) (*image.Gray, error) {
	b := mask.Bounds()
	if b.Dx() < w || b.Dy() < h {
		return nil, &InvalidInputError{Reason: "mask smaller than crop size"}
	}

	x0 := b.Min.X + (b.Dx()-w)/2
	y0 := b.Min.Y + (b.Dy()-h)/2
	rec := image.Rect(x0, y0, x0+w, y0+h)

	return mask.SubImage(rec).(*image.Gray), nil
}
