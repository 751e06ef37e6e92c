package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/JimBoonie/MulticlassFCN/transform"
)

// Config holds the experiment constants. Pipeline constants (labels, crop,
// normalization) come from the YAML config; runtime knobs stay on flags.
type Config struct {
	Labels    []int     `mapstructure:"labels"`
	Crop      int       `mapstructure:"crop"`
	Mean      []float64 `mapstructure:"mean"`
	Std       []float64 `mapstructure:"std"`
	StatsFile string    `mapstructure:"stats_file"`
	StepSize  int       `mapstructure:"step_size"`
	Gamma     float64   `mapstructure:"gamma"`
	ValSplit  float64   `mapstructure:"val_split"`
}

// LoadConfig reads the YAML experiment config, falling back to the histology
// defaults when no file is given.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("labels", []int{0, 1, 2})
	v.SetDefault("crop", 224)
	v.SetDefault("step_size", 10)
	v.SetDefault("gamma", 0.1)
	v.SetDefault("val_split", 0.2)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %v: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Crop <= 0 {
		return nil, fmt.Errorf("crop must be positive. Got %v", cfg.Crop)
	}
	if cfg.Gamma <= 0 || cfg.Gamma > 1 {
		return nil, fmt.Errorf("gamma must be in (0, 1]. Got %v", cfg.Gamma)
	}
	if cfg.ValSplit <= 0 || cfg.ValSplit >= 1 {
		return nil, fmt.Errorf("val_split must be in (0, 1). Got %v", cfg.ValSplit)
	}

	return &cfg, nil
}

// channelStats resolves the normalization constants: explicit mean/std from
// the config first, then a stats CSV produced by the `stats` task, then the
// precomputed defaults.
func (cfg *Config) channelStats() (*transform.ChannelStats, error) {
	if len(cfg.Mean) > 0 || len(cfg.Std) > 0 {
		if len(cfg.Mean) != 3 || len(cfg.Std) != 3 {
			return nil, fmt.Errorf("mean and std must each hold 3 values")
		}
		return &transform.ChannelStats{Mean: cfg.Mean, Std: cfg.Std}, nil
	}

	if cfg.StatsFile != "" {
		f, err := os.Open(cfg.StatsFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return transform.ReadStatsCSV(f)
	}

	return transform.DefaultChannelStats(), nil
}

// newPipeline builds the transform pipeline from the config.
func (cfg *Config) newPipeline() (*transform.Pipeline, error) {
	stats, err := cfg.channelStats()
	if err != nil {
		return nil, err
	}

	return transform.NewPipeline(transform.PipelineConfig{
		Labels: cfg.Labels,
		CropW:  cfg.Crop,
		CropH:  cfg.Crop,
		Stats:  stats,
	})
}
