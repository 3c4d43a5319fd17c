package main

import (
	"github.com/spf13/cobra"

	"github.com/tasercake/beatbrain/pipeline"
)

// convertFlags holds the flag variables shared by every convert subcommand.
type convertFlags struct {
	sampleRate           int
	offset               float64
	duration             float64
	fftSize              int
	hopLength            int
	melBins              int
	chunkSize            int
	pad                  bool
	flip                 bool
	halfPrecision        bool
	skip                 int
	topDB                float64
	referenceAmplitude   float64
	audioFormat          string
	griffinLimIterations int
	compress             bool
	workers              int
}

func (f *convertFlags) register(cmd *cobra.Command) {
	defaults := pipeline.DefaultConfig()
	flags := cmd.Flags()
	flags.IntVar(&f.sampleRate, "sample-rate", defaults.SampleRate, "Rate to resample audio to (0 keeps the source rate)")
	flags.Float64Var(&f.offset, "offset", 0, "Audio start timestamp in seconds")
	flags.Float64Var(&f.duration, "duration", 0, "Audio duration in seconds (0 reads to the end)")
	flags.IntVar(&f.fftSize, "fft-size", defaults.FFTSize, "FFT window size")
	flags.IntVar(&f.hopLength, "hop-length", defaults.HopLength, "STFT hop length")
	flags.IntVar(&f.melBins, "mel-bins", defaults.MelBins, "Number of mel frequency bins")
	flags.IntVar(&f.chunkSize, "chunk-size", defaults.ChunkSize, "Frames per spectrogram chunk")
	flags.BoolVar(&f.pad, "pad", false, "Zero-pad the trailing chunk instead of truncating it")
	flags.BoolVar(&f.flip, "flip", defaults.Flip, "Flip spectrogram images vertically on save and load")
	flags.BoolVar(&f.halfPrecision, "half", false, "Store image samples as 16-bit half floats")
	flags.IntVar(&f.skip, "skip", 0, "Number of items to skip (resume a failed run)")
	flags.Float64Var(&f.topDB, "top-db", defaults.TopDB, "Normalization dynamic range in dB")
	flags.Float64Var(&f.referenceAmplitude, "reference-amplitude", defaults.ReferenceAmplitude, "Fixed denormalization power reference")
	flags.StringVar(&f.audioFormat, "audio-format", defaults.AudioFormat, "Output audio container format")
	flags.IntVar(&f.griffinLimIterations, "griffin-lim-iterations", defaults.GriffinLimIterations, "Phase estimation iterations for audio reconstruction")
	flags.BoolVar(&f.compress, "compress", defaults.Compress, "Deflate array container members")
	flags.IntVar(&f.workers, "workers", defaults.Workers, "Worker pool size for parallel batches")
}

// apply copies only the flags the user actually set onto cfg, so file-config
// values survive unless overridden on the command line.
func (f *convertFlags) apply(cmd *cobra.Command, cfg *pipeline.Config) {
	set := cmd.Flags().Changed
	if set("sample-rate") {
		cfg.SampleRate = f.sampleRate
	}
	if set("offset") {
		cfg.Offset = f.offset
	}
	if set("duration") {
		cfg.Duration = f.duration
	}
	if set("fft-size") {
		cfg.FFTSize = f.fftSize
	}
	if set("hop-length") {
		cfg.HopLength = f.hopLength
	}
	if set("mel-bins") {
		cfg.MelBins = f.melBins
	}
	if set("chunk-size") {
		cfg.ChunkSize = f.chunkSize
	}
	if set("pad") {
		cfg.Truncate = !f.pad
	}
	if set("flip") {
		cfg.Flip = f.flip
	}
	if set("half") {
		cfg.HalfPrecision = f.halfPrecision
	}
	if set("skip") {
		cfg.Skip = f.skip
	}
	if set("top-db") {
		cfg.TopDB = f.topDB
	}
	if set("reference-amplitude") {
		cfg.ReferenceAmplitude = f.referenceAmplitude
	}
	if set("audio-format") {
		cfg.AudioFormat = f.audioFormat
	}
	if set("griffin-lim-iterations") {
		cfg.GriffinLimIterations = f.griffinLimIterations
	}
	if set("compress") {
		cfg.Compress = f.compress
	}
	if set("workers") {
		cfg.Workers = f.workers
	}
}

func newConvertCommand(configFlag *string) *cobra.Command {
	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Data conversion utilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	convertCmd.AddCommand(newConvertArraysCommand(configFlag))
	convertCmd.AddCommand(newConvertImagesCommand(configFlag))
	convertCmd.AddCommand(newConvertAudioCommand(configFlag))
	convertCmd.AddCommand(newConvertFormatCommand(configFlag))

	return convertCmd
}

type runFunc func(p *pipeline.Pipeline, in, out string) (*pipeline.Summary, error)

func newConversionCommand(configFlag *string, use, short string, run runFunc) *cobra.Command {
	flags := &convertFlags{}
	cmd := &cobra.Command{
		Use:   use + " <input> <output>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configFlag, flags)
			if err != nil {
				return err
			}
			in, out := args[0], args[1]
			p, finish := newPipeline(cfg, in, out)
			summary, err := run(p, in, out)
			finish(summary)
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func newConvertArraysCommand(configFlag *string) *cobra.Command {
	return newConversionCommand(configFlag, "arrays",
		"Convert audio files or image sequences to array containers",
		func(p *pipeline.Pipeline, in, out string) (*pipeline.Summary, error) {
			return p.ToArrays(in, out)
		})
}

func newConvertImagesCommand(configFlag *string) *cobra.Command {
	return newConversionCommand(configFlag, "images",
		"Convert audio files or array containers to spectrogram images",
		func(p *pipeline.Pipeline, in, out string) (*pipeline.Summary, error) {
			return p.ToImages(in, out)
		})
}

func newConvertAudioCommand(configFlag *string) *cobra.Command {
	return newConversionCommand(configFlag, "audio",
		"Reconstruct audio from array containers or image sequences",
		func(p *pipeline.Pipeline, in, out string) (*pipeline.Summary, error) {
			return p.ToAudio(in, out)
		})
}

func newConvertFormatCommand(configFlag *string) *cobra.Command {
	flags := &convertFlags{}
	var split bool
	var chunkDuration, discardShorter float64

	cmd := &cobra.Command{
		Use:   "format <input> <output>",
		Short: "Re-encode audio files, optionally splitting them into segments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configFlag, flags)
			if err != nil {
				return err
			}
			in, out := args[0], args[1]
			p, finish := newPipeline(cfg, in, out)
			summary, err := p.ConvertAudio(in, out, pipeline.SplitOptions{
				Split:          split,
				ChunkDuration:  chunkDuration,
				DiscardShorter: discardShorter,
			})
			finish(summary)
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&split, "split", false, "Split each recording into fixed-duration segments")
	cmd.Flags().Float64Var(&chunkDuration, "chunk-duration", 10, "Maximum segment duration in seconds")
	cmd.Flags().Float64Var(&discardShorter, "discard-shorter", 4, "Drop trailing segments shorter than this many seconds")
	return cmd
}
