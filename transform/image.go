package transform

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/chai2010/tiff"
)

// ReadImage reads an image from file, dispatching the decoder on the file
// extension.
func ReadImage(filename string) (image.Image, error) {
	ext := filepath.Ext(filename)
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch ext {
	case ".png", ".PNG":
		return png.Decode(f)
	case ".jpg", ".jpeg", ".JPG", ".JPEG":
		return jpeg.Decode(f)
	case ".tiff", ".tif", ".TIFF", ".TIF":
		return tiff.Decode(f)
	default:
		err = fmt.Errorf("Unsupported image format: %v\n", ext)
		return nil, err
	}
}

// ReadMask reads a label mask from file. The decoded image is reduced to a
// single-channel *image.Gray; label values are taken from the red channel,
// which for paletted or grayscale PNG masks equals the stored label.
func ReadMask(filename string) (*image.Gray, error) {
	img, err := ReadImage(filename)
	if err != nil {
		return nil, err
	}

	if gray, ok := img.(*image.Gray); ok {
		return gray, nil
	}

	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			gray.SetGray(x-b.Min.X, y-b.Min.Y, color.Gray{Y: uint8(r >> 8)})
		}
	}

	return gray, nil
}

// channelCount reports the number of color channels the decoded image
// carries: 1 for grayscale representations, 3 otherwise.
func channelCount(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	default:
		return 3
	}
}
