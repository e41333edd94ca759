package interp

import "math"

// Mode selects the kernel used by Resample and At.
type Mode int

const (
	ModeLinear Mode = iota
	ModeHermite
)

// Linear2 interpolates from x0 to x1 by t in [0,1].
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// At reads x at fractional position pos. Positions outside [0, len(x)-1]
// read the edge sample. Hermite neighbours beyond the edges are
// extrapolated linearly, so ramps are reproduced exactly.
func At(x []float64, pos float64, mode Mode) float64 {
	if len(x) == 0 {
		return 0
	}
	pos = math.Max(0, math.Min(pos, float64(len(x)-1)))
	idx := int(math.Floor(pos))
	frac := pos - float64(idx)
	if mode == ModeHermite {
		return Hermite4(frac, extrapolated(x, idx-1), x[idx], extrapolated(x, idx+1), extrapolated(x, idx+2))
	}
	return Linear2(frac, x[idx], extrapolated(x, idx+1))
}

// Resample stretches src onto n output samples so that the first and last
// samples line up.
func Resample(src []float64, n int, mode Mode) []float64 {
	if n <= 0 || len(src) == 0 {
		return nil
	}
	out := make([]float64, n)
	if len(src) == 1 || n == 1 {
		for i := range out {
			out[i] = src[0]
		}
		return out
	}
	step := float64(len(src)-1) / float64(n-1)
	for i := range out {
		out[i] = At(src, float64(i)*step, mode)
	}
	return out
}

// extrapolated returns x[idx], continuing the line through the two edge
// samples for indices outside x.
func extrapolated(x []float64, idx int) float64 {
	n := len(x)
	switch {
	case idx >= 0 && idx < n:
		return x[idx]
	case n == 1:
		return x[0]
	case idx < 0:
		return x[0] + float64(idx)*(x[1]-x[0])
	default:
		return x[n-1] + float64(idx-n+1)*(x[n-1]-x[n-2])
	}
}
