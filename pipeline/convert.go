package pipeline

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/tasercake/beatbrain/audioio"
	"github.com/tasercake/beatbrain/chunks"
	"github.com/tasercake/beatbrain/pathing"
	"github.com/tasercake/beatbrain/store"
)

// ToArrays converts everything under in (audio files or image-sequence
// directories) into array containers under out. The input kind is classified
// strictly: an unknown or mixed tree aborts before any work starts.
func (p *Pipeline) ToArrays(in, out string) (*Summary, error) {
	kind, err := pathing.Classify(in, true)
	if err != nil {
		return nil, err
	}
	switch kind {
	case pathing.KindAudio:
		items, err := pathing.ListFiles(in)
		if err != nil {
			return nil, err
		}
		return p.run(items, func(src string) error { return p.audioToArrays(src, out, in) }, false)
	case pathing.KindImages:
		items, err := pathing.ListDirs(in)
		if err != nil {
			return nil, err
		}
		return p.run(items, func(src string) error { return p.imagesToArrays(src, out, in) }, false)
	case pathing.KindArrays:
		return nil, fmt.Errorf("input %s already contains array containers", in)
	case pathing.KindUnknown, pathing.KindAmbiguous:
		// Unreachable after a strict Classify; kept so the switch stays
		// exhaustive.
		return nil, fmt.Errorf("input %s has no definite data kind", in)
	}
	return nil, fmt.Errorf("unhandled data kind %v", kind)
}

// ToImages converts audio files or array containers under in into image
// sequences under out.
func (p *Pipeline) ToImages(in, out string) (*Summary, error) {
	kind, err := pathing.Classify(in, true)
	if err != nil {
		return nil, err
	}
	switch kind {
	case pathing.KindAudio:
		items, err := pathing.ListFiles(in)
		if err != nil {
			return nil, err
		}
		return p.run(items, func(src string) error { return p.audioToImages(src, out, in) }, false)
	case pathing.KindArrays:
		items, err := pathing.ListFiles(in)
		if err != nil {
			return nil, err
		}
		return p.run(items, func(src string) error { return p.arraysToImages(src, out, in) }, false)
	case pathing.KindImages:
		return nil, fmt.Errorf("input %s already contains image sequences", in)
	case pathing.KindUnknown, pathing.KindAmbiguous:
		return nil, fmt.Errorf("input %s has no definite data kind", in)
	}
	return nil, fmt.Errorf("unhandled data kind %v", kind)
}

// ToAudio reconstructs audio from array containers or image sequences under
// in, writing one audio file per item under out.
func (p *Pipeline) ToAudio(in, out string) (*Summary, error) {
	if err := checkAudioFormat(p.Config.AudioFormat); err != nil {
		return nil, err
	}
	kind, err := pathing.Classify(in, true)
	if err != nil {
		return nil, err
	}
	switch kind {
	case pathing.KindArrays:
		items, err := pathing.ListFiles(in)
		if err != nil {
			return nil, err
		}
		return p.run(items, func(src string) error { return p.arraysToAudio(src, out, in) }, false)
	case pathing.KindImages:
		items, err := pathing.ListDirs(in)
		if err != nil {
			return nil, err
		}
		return p.run(items, func(src string) error { return p.imagesToAudio(src, out, in) }, false)
	case pathing.KindAudio:
		return nil, fmt.Errorf("input %s already contains audio; use ConvertAudio for format conversion", in)
	case pathing.KindUnknown, pathing.KindAmbiguous:
		return nil, fmt.Errorf("input %s has no definite data kind", in)
	}
	return nil, fmt.Errorf("unhandled data kind %v", kind)
}

func checkAudioFormat(format string) error {
	if !strings.EqualFold(format, "wav") {
		return fmt.Errorf("%w: %q", audioio.ErrUnsupportedFormat, format)
	}
	return nil
}

func (p *Pipeline) loadAudio(src string) ([]float64, int, error) {
	return audioio.Load(src, audioio.LoadOptions{
		SampleRate: p.Config.SampleRate,
		Offset:     p.Config.Offset,
		Duration:   p.Config.Duration,
	})
}

func (p *Pipeline) audioToArrays(src, outRoot, inRoot string) error {
	samples, rate, err := p.loadAudio(src)
	if err != nil {
		return err
	}
	spec := p.Config.mel(rate).ToSpectrogram(samples, true)
	chunkSeq := chunks.Split(spec, p.Config.ChunkSize, p.Config.Truncate)
	target, err := pathing.ArrayTarget(src, outRoot, inRoot)
	if err != nil {
		return err
	}
	return store.SaveArrays(target, chunkSeq, p.Config.Compress)
}

func (p *Pipeline) audioToImages(src, outRoot, inRoot string) error {
	samples, rate, err := p.loadAudio(src)
	if err != nil {
		return err
	}
	spec := p.Config.mel(rate).ToSpectrogram(samples, true)
	chunkSeq := chunks.Split(spec, p.Config.ChunkSize, p.Config.Truncate)
	target, err := pathing.ImageTarget(src, outRoot, inRoot)
	if err != nil {
		return err
	}
	return store.SaveImages(target, chunkSeq, p.Config.Flip, p.Config.HalfPrecision)
}

func (p *Pipeline) imagesToArrays(srcDir, outRoot, inRoot string) error {
	chunkSeq, err := store.LoadImages(srcDir, p.Config.Flip, false, false)
	if err != nil {
		return err
	}
	target, err := pathing.ArrayTarget(srcDir, outRoot, inRoot)
	if err != nil {
		return err
	}
	return store.SaveArrays(target, chunkSeq, p.Config.Compress)
}

func (p *Pipeline) arraysToImages(src, outRoot, inRoot string) error {
	chunkSeq, err := store.LoadArrays(src, false, false)
	if err != nil {
		return err
	}
	target, err := pathing.ImageTarget(src, outRoot, inRoot)
	if err != nil {
		return err
	}
	return store.SaveImages(target, chunkSeq, p.Config.Flip, p.Config.HalfPrecision)
}

func (p *Pipeline) arraysToAudio(src, outRoot, inRoot string) error {
	loaded, err := store.LoadArrays(src, true, false)
	if err != nil {
		return err
	}
	return p.specToAudio(loaded[0], src, outRoot, inRoot)
}

func (p *Pipeline) imagesToAudio(srcDir, outRoot, inRoot string) error {
	loaded, err := store.LoadImages(srcDir, p.Config.Flip, true, false)
	if err != nil {
		return err
	}
	return p.specToAudio(loaded[0], srcDir, outRoot, inRoot)
}

func (p *Pipeline) specToAudio(spec *mat.Dense, src, outRoot, inRoot string) error {
	rate := p.Config.SampleRate
	m := p.Config.mel(rate)
	samples := m.ToAudio(spec, true)
	target, err := pathing.AudioTarget(src, outRoot, inRoot, p.Config.AudioFormat)
	if err != nil {
		return err
	}
	return audioio.Save(target, samples, rate, p.Config.AudioFormat)
}
