package audioio

import (
	"fmt"
	"io"
	"os"

	beepwav "github.com/faiface/beep/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

func decodeWav(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	stream, format, err := beepwav.Decode(f)
	if err != nil {
		return nil, 0, err
	}
	defer stream.Close()

	var out []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := stream.Stream(buf)
		for i := 0; i < n; i++ {
			out = append(out, (buf[i][0]+buf[i][1])/2)
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return nil, 0, err
	}
	return out, int(format.SampleRate), nil
}

func decodeFlac(path string) ([]float64, int, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, 0, err
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	scale := float64(int64(1) << (stream.Info.BitsPerSample - 1))
	var out []float64
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			var sum float64
			for ch := 0; ch < channels; ch++ {
				sum += float64(frame.Subframes[ch].Samples[i]) / scale
			}
			out = append(out, sum/float64(channels))
		}
	}
	return out, int(stream.Info.SampleRate), nil
}

func decodeMP3(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec, err := gomp3.NewDecoder(f)
	if err != nil {
		return nil, 0, err
	}
	// go-mp3 always emits interleaved stereo 16-bit little-endian PCM.
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, err
	}
	frames := len(raw) / 4
	out := make([]float64, 0, frames)
	for i := 0; i < frames; i++ {
		l := int16(uint16(raw[4*i]) | uint16(raw[4*i+1])<<8)
		r := int16(uint16(raw[4*i+2]) | uint16(raw[4*i+3])<<8)
		out = append(out, (float64(l)+float64(r))/2/32768)
	}
	return out, dec.SampleRate(), nil
}

func decodeVorbis(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	data, format, err := oggvorbis.ReadAll(f)
	if err != nil {
		return nil, 0, err
	}
	if format.Channels < 1 {
		return nil, 0, fmt.Errorf("vorbis stream reports %d channels", format.Channels)
	}
	frames := len(data) / format.Channels
	out := make([]float64, 0, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < format.Channels; ch++ {
			sum += float64(data[i*format.Channels+ch])
		}
		out = append(out, sum/float64(format.Channels))
	}
	return out, format.SampleRate, nil
}
