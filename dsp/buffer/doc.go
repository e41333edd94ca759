// Package buffer provides the sample-rate-tagged mono buffer exchanged by
// the voxlab packages, and a pool of scratch slices for hot loops.
//
// A Buffer is immutable once produced: every operation returns a new
// Buffer, and buffers may share backing arrays. Scratch slices from a Pool
// are the only mutable storage handed out here.
package buffer
