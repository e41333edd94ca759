package psola

const (
	// DefaultFrameSize is the analysis frame length in samples.
	DefaultFrameSize = 1024

	minPitchHz = 80
	maxPitchHz = 300
)

// Curve is a diagnostic series reported to an Observer.
type Curve struct {
	Name string
	X    []float64
	Y    []float64
}

// Observer receives intermediate analysis curves. It must not retain or
// modify the slices it is handed and has no influence on results.
type Observer func(Curve)

// Option configures analysis.
type Option func(*config)

type config struct {
	frameSize int
	fft       bool
	observer  Observer
}

func defaultConfig() config {
	return config{frameSize: DefaultFrameSize}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithFrameSize sets the analysis frame length. The hop is a quarter of
// the frame. Values below 2 are ignored.
func WithFrameSize(n int) Option {
	return func(c *config) {
		if n >= 2 {
			c.frameSize = n
		}
	}
}

// WithFFTAutocorrelation computes frame autocorrelations through an FFT
// instead of direct lag sums. Scores agree up to rounding.
func WithFFTAutocorrelation() Option {
	return func(c *config) {
		c.fft = true
	}
}

// WithObserver reports the window-start and window-period curves of every
// analysis to fn.
func WithObserver(fn Observer) Option {
	return func(c *config) {
		c.observer = fn
	}
}
