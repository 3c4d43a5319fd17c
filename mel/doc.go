// Package mel converts between audio waveforms and mel-scale power
// spectrograms.
//
// The forward transform is a Hann-window STFT binned onto a mel-frequency
// filterbank, with optional log-power normalization into [0, 1]. The inverse
// maps mel bins back to linear frequencies and reconstructs a waveform by
// Griffin-Lim phase estimation, so audio round trips are approximate by
// design: phase is discarded, and the normalization peak is only recoverable
// up to a fixed reference amplitude.
package mel
