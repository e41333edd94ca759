package splice

import (
	"fmt"

	"github.com/cwbudde/algo-voxlab/dsp/core"
)

// TransitionWeight returns the blend weight of fade grain k out of n:
// smoothstep of k/(n-1), except that the two grains either side of n/2
// are held at exactly 0.5. 0 favours the outgoing buffer, 1 the incoming.
func TransitionWeight(k, n int) (float64, error) {
	if n < 2 {
		return 0, fmt.Errorf("%w: fade of %d grains", core.ErrInvalidParameter, n)
	}
	if k < 0 || k >= n {
		return 0, fmt.Errorf("%w: grain %d outside fade of %d", core.ErrInvalidParameter, k, n)
	}

	mid := n / 2
	if k == mid || k == mid-1 {
		return 0.5, nil
	}
	return core.Smoothstep(float64(k) / float64(n-1)), nil
}

// TransitionWeights returns TransitionWeight(k, n) for every k in [0, n).
func TransitionWeights(n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: fade of %d grains", core.ErrInvalidParameter, n)
	}
	w := make([]float64, n)
	for k := range w {
		w[k], _ = TransitionWeight(k, n)
	}
	return w, nil
}
