// Package core holds the numeric helpers, MIDI conversions and error kinds
// shared by the voxlab packages.
//
// Building with the fastmath tag switches the log2/exp2 used by the MIDI
// conversions to algo-approx approximations.
package core
