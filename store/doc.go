// Package store persists chunk sequences either as a single multi-array
// container file (npz: a zip archive of npy members) or as a directory of
// floating-point TIFF images, one file per chunk.
//
// Container keys and image file names are loaded back in natural order, not
// insertion or lexical order, because chunk order is the temporal order of the
// source recording. Image storage applies an optional vertical flip
// symmetrically on save and load; the flip is an orientation convention and
// never accumulates across round trips.
package store
