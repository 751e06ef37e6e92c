package transform

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// numChannels is the channel count the estimator assumes (RGB).
const numChannels = 3

// ChannelStats holds per-channel normalization constants on the 0-255 scale.
type ChannelStats struct {
	Mean []float64
	Std  []float64
}

// DefaultChannelStats returns the constants precomputed over the histology
// training corpus. Use EstimateChannelStats to recompute them from scratch.
func DefaultChannelStats() *ChannelStats {
	return &ChannelStats{
		Mean: []float64{164.6, 150.75, 178.37},
		Std:  []float64{9.47, 16.24, 9.48},
	}
}

// EstimateChannelStats scans a list of image files and aggregates per-channel
// normalization constants: the mean vector is the column-wise mean of the
// per-image channel means, the std vector the column-wise std of the
// per-image channel stds. The std-of-stds aggregation is an approximation of
// the pooled statistic, kept as is for compatibility with the precomputed
// constants.
func EstimateChannelStats(paths []string) (*ChannelStats, error) {
	if len(paths) == 0 {
		return nil, &InvalidInputError{Reason: "empty image list"}
	}

	means := make([][]float64, numChannels)
	stds := make([][]float64, numChannels)

	for _, path := range paths {
		img, err := ReadImage(path)
		if err != nil {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("decode %v: %v", path, err)}
		}
		if ch := channelCount(img); ch != numChannels {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("%v: expected %v channels, got %v", path, numChannels, ch)}
		}

		m, s := imageChannelStats(img)
		for c := 0; c < numChannels; c++ {
			means[c] = append(means[c], m[c])
			stds[c] = append(stds[c], s[c])
		}
	}

	out := &ChannelStats{
		Mean: make([]float64, numChannels),
		Std:  make([]float64, numChannels),
	}
	for c := 0; c < numChannels; c++ {
		out.Mean[c] = stat.Mean(means[c], nil)
		out.Std[c] = popStd(stds[c])
	}

	return out, nil
}

// popStd is the population standard deviation, the N-denominator form. A
// single-element slice yields 0.
func popStd(xs []float64) float64 {
	return math.Sqrt(stat.MomentAbout(2, xs, stat.Mean(xs, nil), nil))
}

// imageChannelStats reduces a single image to its per-channel pixel mean and
// population std on the 0-255 scale.
func imageChannelStats(img image.Image) (mean, std [numChannels]float64) {
	b := img.Bounds()
	n := float64(b.Dx() * b.Dy())

	var sum, sumSq [numChannels]float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			for c, v := range [numChannels]float64{
				float64(r >> 8),
				float64(g >> 8),
				float64(bb >> 8),
			} {
				sum[c] += v
				sumSq[c] += v * v
			}
		}
	}

	for c := 0; c < numChannels; c++ {
		mean[c] = sum[c] / n
		variance := sumSq[c]/n - mean[c]*mean[c]
		if variance < 0 {
			variance = 0
		}
		std[c] = math.Sqrt(variance)
	}

	return mean, std
}

// WriteCSV persists the stats as a channel/mean/std table so an offline
// estimate can be reused as constants in later runs.
func (s *ChannelStats) WriteCSV(w io.Writer) error {
	channels := make([]int, len(s.Mean))
	for i := range channels {
		channels[i] = i
	}

	df := dataframe.New(
		series.New(channels, series.Int, "channel"),
		series.New(s.Mean, series.Float, "mean"),
		series.New(s.Std, series.Float, "std"),
	)

	return df.WriteCSV(w)
}

// ReadStatsCSV loads stats written by WriteCSV.
func ReadStatsCSV(r io.Reader) (*ChannelStats, error) {
	df := dataframe.ReadCSV(r, dataframe.HasHeader(true))
	if df.Err != nil {
		return nil, df.Err
	}

	mean := df.Col("mean").Float()
	std := df.Col("std").Float()
	if len(mean) != numChannels || len(std) != numChannels {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("stats file must hold %v channels", numChannels)}
	}

	return &ChannelStats{Mean: mean, Std: std}, nil
}
