// Package time provides time-domain signal statistics, including the
// short-time energy envelope used for voiced-region detection.
package time

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Frame is the RMS level of one analysis frame starting at Start.
type Frame struct {
	Start int
	RMS   float64
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Sqrt(Energy(signal) / float64(len(signal)))
}

// Energy returns the sum of squares of the signal.
func Energy(signal []float64) float64 {
	return vecmath.DotProduct(signal, signal)
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	return vecmath.MaxAbs(signal)
}

// ShortTimeRMS computes the RMS of every complete frame of length win,
// advancing by hop. Frames that would run past the end are not emitted.
// Returns nil if win or hop is not positive or the signal is shorter than
// one frame.
func ShortTimeRMS(signal []float64, win, hop int) []Frame {
	if win <= 0 || hop <= 0 || len(signal) < win {
		return nil
	}

	frames := make([]Frame, 0, (len(signal)-win)/hop+1)
	for pos := 0; pos+win <= len(signal); pos += hop {
		frames = append(frames, Frame{Start: pos, RMS: RMS(signal[pos : pos+win])})
	}

	return frames
}

// MaxRMS returns the largest RMS among frames, or 0 for no frames.
func MaxRMS(frames []Frame) float64 {
	maxRMS := 0.0
	for _, f := range frames {
		maxRMS = math.Max(maxRMS, f.RMS)
	}

	return maxRMS
}
