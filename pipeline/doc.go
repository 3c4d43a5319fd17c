// Package pipeline drives batched conversions between the three dataset
// representations: audio files, multi-array containers and spectrogram image
// sequences.
//
// A Pipeline applies one conversion function per enumerated source item,
// mirroring the input tree under the output root. Items whose audio cannot be
// decoded are logged and skipped; every other failure aborts the batch. The
// Skip setting resumes an interrupted run by dropping the first N items of
// the (stable, naturally ordered) enumeration.
package pipeline
