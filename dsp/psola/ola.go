package psola

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voxlab/dsp/buffer"
	"github.com/cwbudde/algo-voxlab/dsp/core"
	"github.com/cwbudde/algo-voxlab/dsp/window"
)

// WeightEpsilon is the accumulated window weight below which an output
// sample is left at zero instead of being normalised.
const WeightEpsilon = 1e-6

var scratchPool = buffer.NewPool()

// accumulator overlap-adds Hann-windowed grains and tracks the summed
// window weight per output sample.
type accumulator struct {
	out    []float64
	weight []float64
	hann   map[int][]float64
}

func newAccumulator(length int) *accumulator {
	return &accumulator{
		out:    make([]float64, length),
		weight: make([]float64, length),
		hann:   make(map[int][]float64),
	}
}

func (a *accumulator) window(n int) []float64 {
	w, ok := a.hann[n]
	if !ok {
		w = window.Generate(window.TypeHann, n)
		a.hann[n] = w
	}
	return w
}

// add windows samples and adds them centred on center. Samples outside
// the output are dropped.
func (a *accumulator) add(samples []float64, center int) {
	n := len(samples)
	if n == 0 {
		return
	}
	w := a.window(n)

	scratch := scratchPool.Get(n)
	defer scratchPool.Put(scratch)
	windowed := scratch.Samples()
	vecmath.MulBlock(windowed, samples, w)

	start := center - n/2
	lo := max(0, -start)
	hi := min(n, len(a.out)-start)
	if lo >= hi {
		return
	}
	vecmath.AddBlockInPlace(a.out[start+lo:start+hi], windowed[lo:hi])
	vecmath.AddBlockInPlace(a.weight[start+lo:start+hi], w[lo:hi])
}

// normalize divides every sample by its accumulated weight when the
// weight exceeds WeightEpsilon, and zeroes it otherwise.
func (a *accumulator) normalize() []float64 {
	for i, d := range a.weight {
		if d > WeightEpsilon {
			a.out[i] /= d
		} else {
			a.out[i] = 0
		}
	}
	return a.out
}

// OverlapAdd places each grain centred on the matching position, blends
// overlaps with Hann weights and normalises by the summed weight. The
// result has exactly length samples.
func OverlapAdd(grains [][]float64, centers []int, length int) ([]float64, error) {
	if len(grains) != len(centers) {
		return nil, fmt.Errorf("%w: %d grains but %d centers", core.ErrInvalidParameter, len(grains), len(centers))
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative output length %d", core.ErrInvalidParameter, length)
	}
	acc := newAccumulator(length)
	for i, g := range grains {
		acc.add(g, centers[i])
	}
	return acc.normalize(), nil
}
