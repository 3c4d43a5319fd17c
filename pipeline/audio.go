package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tasercake/beatbrain/audioio"
	"github.com/tasercake/beatbrain/pathing"
)

// SplitOptions control ConvertAudio's duration-based splitting.
type SplitOptions struct {
	// Split cuts each recording into chunks of at most ChunkDuration seconds.
	Split bool
	// ChunkDuration is the maximum chunk length in seconds.
	ChunkDuration float64
	// DiscardShorter drops a trailing chunk shorter than this many seconds;
	// 0 keeps everything.
	DiscardShorter float64
}

// ConvertAudio re-encodes every audio file under in to the configured output
// format and sample rate, optionally splitting recordings into fixed-duration
// segments. Items are independent, so the batch fans out over the configured
// worker pool; each worker owns one input file and a disjoint output subtree.
func (p *Pipeline) ConvertAudio(in, out string, opts SplitOptions) (*Summary, error) {
	if err := checkAudioFormat(p.Config.AudioFormat); err != nil {
		return nil, err
	}
	if opts.Split && opts.ChunkDuration <= 0 {
		return nil, fmt.Errorf("split requested with non-positive chunk duration %v", opts.ChunkDuration)
	}
	items, err := pathing.ListFiles(in)
	if err != nil {
		return nil, err
	}
	fn := func(src string) error {
		if opts.Split {
			return p.splitAudio(src, out, in, opts)
		}
		return p.convertAudioFile(src, out, in)
	}
	return p.run(items, fn, true)
}

func (p *Pipeline) convertAudioFile(src, outRoot, inRoot string) error {
	samples, rate, err := p.loadAudio(src)
	if err != nil {
		return err
	}
	target, err := pathing.AudioTarget(src, outRoot, inRoot, p.Config.AudioFormat)
	if err != nil {
		return err
	}
	return audioio.Save(target, samples, rate, p.Config.AudioFormat)
}

func (p *Pipeline) splitAudio(src, outRoot, inRoot string, opts SplitOptions) error {
	samples, rate, err := p.loadAudio(src)
	if err != nil {
		return err
	}
	target, err := pathing.AudioTarget(src, outRoot, inRoot, p.Config.AudioFormat)
	if err != nil {
		return err
	}
	ext := filepath.Ext(target)
	stem := strings.TrimSuffix(target, ext)

	chunkSamples := int(opts.ChunkDuration * float64(rate))
	minSamples := int(opts.DiscardShorter * float64(rate))
	index := 0
	for start := 0; start < len(samples); start += chunkSamples {
		end := start + chunkSamples
		if end > len(samples) {
			end = len(samples)
		}
		chunk := samples[start:end]
		if minSamples > 0 && len(chunk) < minSamples {
			break
		}
		index++
		name := fmt.Sprintf("%s_%d%s", stem, index, ext)
		if err := audioio.Save(name, chunk, rate, p.Config.AudioFormat); err != nil {
			return err
		}
	}
	return nil
}
