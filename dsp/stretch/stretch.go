package stretch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voxlab/dsp/buffer"
	"github.com/cwbudde/algo-voxlab/dsp/core"
	"github.com/cwbudde/algo-voxlab/dsp/interp"
	"github.com/cwbudde/algo-voxlab/dsp/window"
)

const (
	// WindowSize is the OLA frame length.
	WindowSize = 1024
	// AnalysisHop is the input advance between OLA frames.
	AnalysisHop = 256
)

// PitchShift reads buf at ratio times its speed with linear interpolation.
// Pitch rises and duration shrinks by ratio.
func PitchShift(buf *buffer.Buffer, ratio float64) (*buffer.Buffer, error) {
	if !core.IsFinitePositive(ratio) {
		return nil, fmt.Errorf("stretch: %w: pitch ratio %f", core.ErrInvalidParameter, ratio)
	}
	src := buf.Samples()
	n := int(math.Floor(float64(len(src)) / ratio))
	out := make([]float64, n)
	for i := range out {
		out[i] = interp.At(src, float64(i)*ratio, interp.ModeLinear)
	}
	return buffer.FromSlice(buf.SampleRate(), out)
}

// TimeStretch overlap-adds periodic Hann-windowed frames taken every AnalysisHop
// input samples at a synthesis hop of floor(AnalysisHop*factor). The
// output has ceil(len*factor) samples and is not gain-normalised.
func TimeStretch(buf *buffer.Buffer, factor float64) (*buffer.Buffer, error) {
	if !core.IsFinitePositive(factor) {
		return nil, fmt.Errorf("stretch: %w: stretch factor %f", core.ErrInvalidParameter, factor)
	}
	src := buf.Samples()
	out := make([]float64, int(math.Ceil(float64(len(src))*factor)))
	hop := int(math.Floor(AnalysisHop * factor))

	ola := newOverlapAdder()
	for in, at := 0, 0; in+WindowSize < len(src); in, at = in+AnalysisHop, at+hop {
		ola.add(out, src[in:in+WindowSize], at)
	}
	return buffer.FromSlice(buf.SampleRate(), out)
}

// TimeGlide is TimeStretch with a factor that varies over the input.
// factor receives the relative input position in [0, 1) of each frame and
// must return a positive stretch. The output grows as frames need room.
func TimeGlide(buf *buffer.Buffer, factor func(pos float64) float64) (*buffer.Buffer, error) {
	src := buf.Samples()
	out := make([]float64, len(src))

	ola := newOverlapAdder()
	at := 0
	for in := 0; in+WindowSize < len(src); in += AnalysisHop {
		f := factor(float64(in) / float64(len(src)))
		if !core.IsFinitePositive(f) {
			return nil, fmt.Errorf("stretch: %w: stretch %f at input sample %d", core.ErrInvalidParameter, f, in)
		}
		if need := at + WindowSize; need > len(out) {
			out = append(out, make([]float64, need-len(out))...)
		}
		ola.add(out, src[in:in+WindowSize], at)
		at += int(AnalysisHop * f)
	}
	return buffer.FromSlice(buf.SampleRate(), out)
}

type overlapAdder struct {
	window []float64
	frame  []float64
}

func newOverlapAdder() *overlapAdder {
	return &overlapAdder{
		window: window.Generate(window.TypeHann, WindowSize, window.WithPeriodic()),
		frame:  make([]float64, WindowSize),
	}
}

// add windows frame and adds it to out at offset at, dropping what does
// not fit.
func (o *overlapAdder) add(out, frame []float64, at int) {
	vecmath.MulBlock(o.frame, frame, o.window)
	n := min(WindowSize, len(out)-at)
	if n <= 0 {
		return
	}
	vecmath.AddBlockInPlace(out[at:at+n], o.frame[:n])
}
