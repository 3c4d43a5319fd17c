// Package audioio decodes audio files into mono float64 sample vectors and
// writes sample vectors back out as PCM audio.
//
// Decoding dispatches on the file extension: wav, flac, mp3 and ogg (vorbis)
// are supported. Multichannel sources are mixed down to mono by channel
// average, an optional offset/duration window is applied at the source rate,
// and the result is resampled to the requested rate by cubic interpolation.
// Every decode failure wraps ErrDecode so batch callers can isolate bad files
// without aborting.
package audioio
