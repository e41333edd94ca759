package psola

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voxlab/dsp/buffer"
	"github.com/cwbudde/algo-voxlab/dsp/core"
)

const (
	// MinResynthesisLength is the shortest buffer Resynthesize transforms;
	// shorter input is returned unchanged.
	MinResynthesisLength = 2048

	outputHeadroom   = 4096
	silenceThreshold = 1e-6
)

// Resynthesize re-spaces the grains of buf to scale its pitch by
// pitchRatio and its duration by timeStretch.
//
// Each Hann-windowed grain is overlap-added at a cursor that starts at the
// first grain's period and advances by (period/pitchRatio)*timeStretch.
// The sum is normalised by the accumulated window weight, trailing
// near-silence is trimmed, and the result is scaled down if its peak
// exceeds 1.
//
// Buffers shorter than MinResynthesisLength, or without analysis windows
// or grains, are returned unchanged.
func Resynthesize(buf *buffer.Buffer, pitchRatio, timeStretch float64, opts ...Option) (*buffer.Buffer, error) {
	if !core.IsFinitePositive(pitchRatio) {
		return nil, fmt.Errorf("%w: pitch ratio must be positive and finite: %f", core.ErrInvalidParameter, pitchRatio)
	}
	if !core.IsFinitePositive(timeStretch) {
		return nil, fmt.Errorf("%w: time stretch must be positive and finite: %f", core.ErrInvalidParameter, timeStretch)
	}

	if buf.Len() < MinResynthesisLength {
		return buf, nil
	}
	a := AnalyzeGrains(buf, opts...)
	if len(a.Windows) == 0 || len(a.Grains) == 0 {
		return buf, nil
	}

	outLen := int(math.Ceil(float64(buf.Len())*timeStretch)) + outputHeadroom
	acc := newAccumulator(outLen)

	cursor := float64(a.Grains[0].Period)
	for _, g := range a.Grains {
		acc.add(g.Samples(), int(math.Round(cursor)))

		newPeriod := math.Max(float64(g.Period)/pitchRatio, 1)
		cursor += newPeriod * timeStretch

		if int(cursor) >= max(outLen-(g.Len()+1), 0) {
			break
		}
	}

	out := trimTrailingSilence(acc.normalize())
	limitPeak(out)

	return buffer.FromSlice(buf.SampleRate(), out)
}

// trimTrailingSilence drops samples below silenceThreshold from the tail,
// keeping at least one.
func trimTrailingSilence(x []float64) []float64 {
	end := len(x)
	for end > 0 && math.Abs(x[end-1]) < silenceThreshold {
		end--
	}
	return x[:max(end, 1)]
}

// limitPeak scales x so that its peak is exactly 1 when it exceeds 1.
func limitPeak(x []float64) {
	if peak := vecmath.MaxAbs(x); peak > 1 {
		vecmath.ScaleBlock(x, x, 1/peak)
	}
}
