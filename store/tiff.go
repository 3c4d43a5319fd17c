package store

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/x448/float16"
	"gonum.org/v1/gonum/mat"
)

// Minimal baseline TIFF with IEEE floating-point samples: single strip,
// grayscale, one sample per pixel. This is the profile imageio and most HDR
// tools accept for spectrogram data; x/image/tiff handles integer samples
// only, so the float profile is coded here directly.

const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagPhotometric     = 262
	tagStripOffsets    = 273
	tagSamplesPerPixel = 277
	tagRowsPerStrip    = 278
	tagStripByteCounts = 279
	tagSampleFormat    = 339

	typeShort = 3
	typeLong  = 4

	sampleFormatIEEEFP = 3
)

type ifdEntry struct {
	tag   uint16
	typ   uint16
	value uint32
}

// encodeTIFF writes m as a little-endian float TIFF. With half set, samples
// are stored as 16-bit IEEE half floats, otherwise as 32-bit floats.
func encodeTIFF(w io.Writer, m *mat.Dense, half bool) error {
	rows, cols := m.Dims()
	bits := 32
	if half {
		bits = 16
	}
	data := make([]byte, rows*cols*bits/8)
	idx := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := float32(m.At(i, j))
			if half {
				binary.LittleEndian.PutUint16(data[idx:], float16.Fromfloat32(v).Bits())
				idx += 2
			} else {
				binary.LittleEndian.PutUint32(data[idx:], math.Float32bits(v))
				idx += 4
			}
		}
	}

	// Layout: 8-byte header, pixel data, IFD.
	const headerSize = 8
	ifdOffset := uint32(headerSize + len(data))
	if ifdOffset%2 != 0 {
		data = append(data, 0)
		ifdOffset++
	}

	entries := []ifdEntry{
		{tagImageWidth, typeLong, uint32(cols)},
		{tagImageLength, typeLong, uint32(rows)},
		{tagBitsPerSample, typeShort, uint32(bits)},
		{tagCompression, typeShort, 1},
		{tagPhotometric, typeShort, 1},
		{tagStripOffsets, typeLong, headerSize},
		{tagSamplesPerPixel, typeShort, 1},
		{tagRowsPerStrip, typeLong, uint32(rows)},
		{tagStripByteCounts, typeLong, uint32(rows * cols * bits / 8)},
		{tagSampleFormat, typeShort, sampleFormatIEEEFP},
	}

	buf := make([]byte, 0, headerSize+len(data)+2+12*len(entries)+4)
	buf = append(buf, 'I', 'I', 42, 0)
	buf = binary.LittleEndian.AppendUint32(buf, ifdOffset)
	buf = append(buf, data...)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(entries)))
	for _, e := range entries {
		buf = binary.LittleEndian.AppendUint16(buf, e.tag)
		buf = binary.LittleEndian.AppendUint16(buf, e.typ)
		buf = binary.LittleEndian.AppendUint32(buf, 1)
		if e.typ == typeShort {
			// Values are left-justified within the 4-byte field.
			buf = binary.LittleEndian.AppendUint16(buf, uint16(e.value))
			buf = append(buf, 0, 0)
		} else {
			buf = binary.LittleEndian.AppendUint32(buf, e.value)
		}
	}
	buf = binary.LittleEndian.AppendUint32(buf, 0) // no next IFD

	_, err := w.Write(buf)
	return err
}

// decodeTIFF reads a float TIFF produced by encodeTIFF or any compatible
// single-strip grayscale IEEE-float image, in either byte order.
func decodeTIFF(r io.Reader) (*mat.Dense, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(raw) < 8 {
		return nil, fmt.Errorf("tiff: truncated header")
	}
	var order binary.ByteOrder
	switch {
	case raw[0] == 'I' && raw[1] == 'I':
		order = binary.LittleEndian
	case raw[0] == 'M' && raw[1] == 'M':
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("tiff: bad byte-order mark %q", raw[:2])
	}
	if order.Uint16(raw[2:4]) != 42 {
		return nil, fmt.Errorf("tiff: bad magic")
	}

	ifdOffset := order.Uint32(raw[4:8])
	if int(ifdOffset)+2 > len(raw) {
		return nil, fmt.Errorf("tiff: IFD offset out of range")
	}
	count := int(order.Uint16(raw[ifdOffset : ifdOffset+2]))
	base := int(ifdOffset) + 2
	if base+12*count > len(raw) {
		return nil, fmt.Errorf("tiff: truncated IFD")
	}

	tags := make(map[uint16]uint32, count)
	for i := 0; i < count; i++ {
		off := base + 12*i
		tag := order.Uint16(raw[off : off+2])
		typ := order.Uint16(raw[off+2 : off+4])
		n := order.Uint32(raw[off+4 : off+8])
		if n != 1 {
			// Multi-valued tags only appear in layouts this codec never
			// writes (for example multiple strips).
			switch tag {
			case tagStripOffsets, tagStripByteCounts, tagBitsPerSample:
				return nil, fmt.Errorf("tiff: unsupported multi-strip or multi-sample layout")
			}
			continue
		}
		switch typ {
		case typeShort:
			tags[tag] = uint32(order.Uint16(raw[off+8 : off+10]))
		case typeLong:
			tags[tag] = order.Uint32(raw[off+8 : off+12])
		}
	}

	width := int(tags[tagImageWidth])
	height := int(tags[tagImageLength])
	bits := int(tags[tagBitsPerSample])
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("tiff: missing image dimensions")
	}
	if c, ok := tags[tagCompression]; ok && c != 1 {
		return nil, fmt.Errorf("tiff: unsupported compression %d", c)
	}
	if sf := tags[tagSampleFormat]; sf != sampleFormatIEEEFP {
		return nil, fmt.Errorf("tiff: sample format %d is not floating point", sf)
	}
	if spp, ok := tags[tagSamplesPerPixel]; ok && spp != 1 {
		return nil, fmt.Errorf("tiff: %d samples per pixel, want 1", spp)
	}
	if bits != 16 && bits != 32 && bits != 64 {
		return nil, fmt.Errorf("tiff: unsupported bit depth %d", bits)
	}

	strip := int(tags[tagStripOffsets])
	size := height * width * bits / 8
	if got := int(tags[tagStripByteCounts]); got != size {
		return nil, fmt.Errorf("tiff: strip holds %d bytes, want %d", got, size)
	}
	if strip+size > len(raw) {
		return nil, fmt.Errorf("tiff: strip out of range")
	}

	m := mat.NewDense(height, width, nil)
	data := raw[strip : strip+size]
	idx := 0
	for i := 0; i < height; i++ {
		for j := 0; j < width; j++ {
			var v float64
			switch bits {
			case 16:
				v = float64(float16.Frombits(order.Uint16(data[idx:])).Float32())
				idx += 2
			case 32:
				v = float64(math.Float32frombits(order.Uint32(data[idx:])))
				idx += 4
			case 64:
				v = math.Float64frombits(order.Uint64(data[idx:]))
				idx += 8
			}
			m.Set(i, j, v)
		}
	}
	return m, nil
}
