package transform

import (
	"image"

	ts "github.com/sugarme/gotch/tensor"
)

// PipelineConfig carries the constants of one transform pipeline. Keeping
// them on a struct rather than package state lets independent pipelines with
// different label sets coexist.
type PipelineConfig struct {
	Labels []int
	CropW  int
	CropH  int
	Stats  *ChannelStats
}

// DefaultPipelineConfig returns the histology defaults: labels (0,1,2) for
// stroma/epithelia/other, 224x224 crops and the precomputed channel stats.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Labels: []int{0, 1, 2},
		CropW:  224,
		CropH:  224,
		Stats:  DefaultChannelStats(),
	}
}

// Pipeline turns a decoded image/mask pair into model-ready tensors:
// geometry check, paired center crop, one-hot mask encoding and per-channel
// image normalization.
type Pipeline struct {
	cfg     PipelineConfig
	encoder *OneHotEncoder
}

// NewPipeline creates a Pipeline from an explicit config.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.CropW <= 0 || cfg.CropH <= 0 {
		return nil, &InvalidInputError{Reason: "crop size must be positive"}
	}
	if cfg.Stats == nil {
		return nil, &InvalidInputError{Reason: "missing channel stats"}
	}
	if len(cfg.Stats.Mean) != numChannels || len(cfg.Stats.Std) != numChannels {
		return nil, &InvalidInputError{Reason: "channel stats must cover 3 channels"}
	}

	enc, err := NewOneHotEncoder(cfg.Labels)
	if err != nil {
		return nil, err
	}

	return &Pipeline{cfg: cfg, encoder: enc}, nil
}

// Encoder exposes the one-hot mapping, e.g. to decode predictions.
func (p *Pipeline) Encoder() *OneHotEncoder {
	return p.encoder
}

// NumClasses returns the label set size.
func (p *Pipeline) NumClasses() int {
	return p.encoder.NumClasses()
}

// Crop verifies pair geometry and center-crops image and mask identically.
// The one-hot encoding happens after this step so the added channel dimension
// never interferes with the crop.
func (p *Pipeline) Crop(img image.Image, mask *image.Gray) (image.Image, *image.Gray, error) {
	if err := CheckPair(img, mask); err != nil {
		return nil, nil, err
	}

	ci, err := CenterCrop(img, p.cfg.CropW, p.cfg.CropH)
	if err != nil {
		return nil, nil, err
	}
	cm, err := CenterCropGray(mask, p.cfg.CropW, p.cfg.CropH)
	if err != nil {
		return nil, nil, err
	}

	return ci, cm, nil
}

// Apply runs the full per-sample chain and returns the normalized image
// tensor [3 cropH cropW] and the one-hot mask tensor [classes cropH cropW].
func (p *Pipeline) Apply(img image.Image, mask *image.Gray) (*ts.Tensor, *ts.Tensor, error) {
	ci, cm, err := p.Crop(img, mask)
	if err != nil {
		return nil, nil, err
	}

	oh, err := p.encoder.Encode(cm)
	if err != nil {
		return nil, nil, err
	}

	imgTs, err := ImageTensor(ci)
	if err != nil {
		return nil, nil, err
	}
	norm := p.cfg.Stats.Normalize(imgTs)
	imgTs.MustDrop()

	maskTs, err := oh.Tensor()
	if err != nil {
		norm.MustDrop()
		return nil, nil, err
	}

	return norm, maskTs, nil
}
