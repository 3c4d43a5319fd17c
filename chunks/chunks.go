// Package chunks splits spectrograms along the time axis into fixed-width
// chunks and reassembles them by concatenation.
package chunks

import (
	"gonum.org/v1/gonum/mat"
)

// Split divides spec into chunks of chunkSize columns (time frames).
//
// An input narrower than chunkSize is returned as a single undersized chunk,
// unmodified. Otherwise a trailing remainder is either dropped (truncate) or
// zero-padded up to a full chunk. Chunk order follows column order; Split is a
// pure function of its arguments and the returned chunks do not alias spec.
func Split(spec *mat.Dense, chunkSize int, truncate bool) []*mat.Dense {
	rows, cols := spec.Dims()
	if cols < chunkSize {
		return []*mat.Dense{mat.DenseCopyOf(spec)}
	}

	remainder := cols % chunkSize
	width := cols
	if remainder != 0 {
		if truncate {
			width = cols - remainder
		} else {
			width = cols + chunkSize - remainder
		}
	}

	padded := spec
	if width != cols {
		padded = mat.NewDense(rows, width, nil)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols && j < width; j++ {
				padded.Set(i, j, spec.At(i, j))
			}
		}
	}

	out := make([]*mat.Dense, 0, width/chunkSize)
	for start := 0; start < width; start += chunkSize {
		view := padded.Slice(0, rows, start, start+chunkSize)
		out = append(out, mat.DenseCopyOf(view))
	}
	return out
}

// Concat reassembles an ordered chunk sequence by concatenating along the time
// axis. This inverts Split up to the dropped remainder (truncate) or the zero
// padding (pad); callers that need the exact original must crop back to the
// known original width themselves.
func Concat(chunkSeq []*mat.Dense) *mat.Dense {
	if len(chunkSeq) == 0 {
		return nil
	}
	rows, _ := chunkSeq[0].Dims()
	total := 0
	for _, c := range chunkSeq {
		_, w := c.Dims()
		total += w
	}
	out := mat.NewDense(rows, total, nil)
	offset := 0
	for _, c := range chunkSeq {
		_, w := c.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < w; j++ {
				out.Set(i, offset+j, c.At(i, j))
			}
		}
		offset += w
	}
	return out
}
