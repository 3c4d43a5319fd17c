package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/tasercake/beatbrain/pipeline"
)

// fileConfig mirrors pipeline.Config for the optional TOML defaults file.
// Absent keys keep their built-in defaults.
type fileConfig struct {
	SampleRate           *int     `toml:"sample_rate"`
	Offset               *float64 `toml:"offset"`
	Duration             *float64 `toml:"duration"`
	FFTSize              *int     `toml:"fft_size"`
	HopLength            *int     `toml:"hop_length"`
	MelBins              *int     `toml:"mel_bins"`
	ChunkSize            *int     `toml:"chunk_size"`
	Truncate             *bool    `toml:"truncate"`
	Flip                 *bool    `toml:"flip"`
	HalfPrecision        *bool    `toml:"half_precision"`
	TopDB                *float64 `toml:"top_db"`
	ReferenceAmplitude   *float64 `toml:"reference_amplitude"`
	AudioFormat          *string  `toml:"audio_format"`
	GriffinLimIterations *int     `toml:"griffin_lim_iterations"`
	Compress             *bool    `toml:"compress"`
	Workers              *int     `toml:"workers"`
}

// loadConfig builds the effective configuration: built-in defaults, overlaid
// by the TOML file (when given), overlaid by explicitly set flags.
func loadConfig(cmd *cobra.Command, path string, flags *convertFlags) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		var fc fileConfig
		if err := toml.Unmarshal(raw, &fc); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		applyFileConfig(&cfg, fc)
	}

	flags.apply(cmd, &cfg)
	return cfg, nil
}

func applyFileConfig(cfg *pipeline.Config, fc fileConfig) {
	if fc.SampleRate != nil {
		cfg.SampleRate = *fc.SampleRate
	}
	if fc.Offset != nil {
		cfg.Offset = *fc.Offset
	}
	if fc.Duration != nil {
		cfg.Duration = *fc.Duration
	}
	if fc.FFTSize != nil {
		cfg.FFTSize = *fc.FFTSize
	}
	if fc.HopLength != nil {
		cfg.HopLength = *fc.HopLength
	}
	if fc.MelBins != nil {
		cfg.MelBins = *fc.MelBins
	}
	if fc.ChunkSize != nil {
		cfg.ChunkSize = *fc.ChunkSize
	}
	if fc.Truncate != nil {
		cfg.Truncate = *fc.Truncate
	}
	if fc.Flip != nil {
		cfg.Flip = *fc.Flip
	}
	if fc.HalfPrecision != nil {
		cfg.HalfPrecision = *fc.HalfPrecision
	}
	if fc.TopDB != nil {
		cfg.TopDB = *fc.TopDB
	}
	if fc.ReferenceAmplitude != nil {
		cfg.ReferenceAmplitude = *fc.ReferenceAmplitude
	}
	if fc.AudioFormat != nil {
		cfg.AudioFormat = *fc.AudioFormat
	}
	if fc.GriffinLimIterations != nil {
		cfg.GriffinLimIterations = *fc.GriffinLimIterations
	}
	if fc.Compress != nil {
		cfg.Compress = *fc.Compress
	}
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
}
