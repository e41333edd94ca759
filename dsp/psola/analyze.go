package psola

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voxlab/dsp/buffer"
)

// WindowEstimate is the dominant pitch period, in samples, of the analysis
// frame beginning at Start.
type WindowEstimate struct {
	Start  int
	Period int
}

// LagRange returns the inclusive lag search range for a sample rate and
// frame size: [sampleRate/300, min(sampleRate/80, frameSize-1)].
func LagRange(sampleRate, frameSize int) (minLag, maxLag int) {
	minLag = sampleRate / maxPitchHz
	maxLag = min(sampleRate/minPitchHz, frameSize-1)
	return minLag, maxLag
}

// Analyze estimates the local pitch period of every complete frame of buf.
// Frames start every frameSize/4 samples. For each frame the lag in
// LagRange maximising the average autocorrelation
// sum(x[i]*x[i+L]) / (F-L) is chosen; ties keep the smaller lag.
//
// Buffers shorter than one frame yield nil, which callers must treat as
// "no reliable pitch" rather than an error.
func Analyze(buf *buffer.Buffer, opts ...Option) []WindowEstimate {
	cfg := applyOptions(opts)
	return analyze(buf, cfg)
}

func analyze(buf *buffer.Buffer, cfg config) []WindowEstimate {
	frame := cfg.frameSize
	hop := max(frame/4, 1)
	x := buf.Samples()
	if len(x) < frame {
		return nil
	}

	minLag, maxLag := LagRange(buf.SampleRate(), frame)

	lagFn := bestLagDirect
	if cfg.fft {
		fa, err := newFFTAutocorrelator(frame)
		if err == nil {
			lagFn = fa.bestLag
		}
	}

	estimates := make([]WindowEstimate, 0, (len(x)-frame)/hop+1)
	for start := 0; start+frame <= len(x); start += hop {
		lag := lagFn(x[start:start+frame], minLag, maxLag)
		estimates = append(estimates, WindowEstimate{Start: start, Period: lag})
	}

	if cfg.observer != nil {
		report(cfg.observer, estimates)
	}

	return estimates
}

func bestLagDirect(frame []float64, minLag, maxLag int) int {
	n := len(frame)
	best := minLag
	bestScore := math.Inf(-1)

	for lag := minLag; lag <= maxLag; lag++ {
		score := vecmath.DotProduct(frame[:n-lag], frame[lag:]) / float64(n-lag)

		if score > bestScore {
			bestScore = score
			best = lag
		}
	}

	return best
}

// fftAutocorrelator evaluates all lags of a frame at once through the
// power spectrum. The zero padding to at least 2F keeps the circular
// correlation equal to the linear one for every lag below F.
type fftAutocorrelator struct {
	plan *algofft.Plan[complex128]
	in   []complex128
	spec []complex128
	corr []complex128
}

func newFFTAutocorrelator(frame int) (*fftAutocorrelator, error) {
	size := nextPowerOf2(2 * frame)
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("psola: failed to create FFT plan: %w", err)
	}
	return &fftAutocorrelator{
		plan: plan,
		in:   make([]complex128, size),
		spec: make([]complex128, size),
		corr: make([]complex128, size),
	}, nil
}

func (f *fftAutocorrelator) bestLag(frame []float64, minLag, maxLag int) int {
	n := len(frame)
	for i := range f.in {
		f.in[i] = 0
	}
	for i, v := range frame {
		f.in[i] = complex(v, 0)
	}

	if err := f.plan.Forward(f.spec, f.in); err != nil {
		return bestLagDirect(frame, minLag, maxLag)
	}
	for i, c := range f.spec {
		f.spec[i] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}
	if err := f.plan.Inverse(f.corr, f.spec); err != nil {
		return bestLagDirect(frame, minLag, maxLag)
	}

	best := minLag
	bestScore := math.Inf(-1)
	for lag := minLag; lag <= maxLag; lag++ {
		score := real(f.corr[lag]) / float64(n-lag)
		if score > bestScore {
			bestScore = score
			best = lag
		}
	}
	return best
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func report(obs Observer, estimates []WindowEstimate) {
	xs := make([]float64, len(estimates))
	starts := make([]float64, len(estimates))
	periods := make([]float64, len(estimates))
	for i, e := range estimates {
		xs[i] = float64(i)
		starts[i] = float64(e.Start)
		periods[i] = float64(e.Period)
	}
	obs(Curve{Name: "window_start", X: xs, Y: starts})
	obs(Curve{Name: "window_period", X: xs, Y: periods})
}
