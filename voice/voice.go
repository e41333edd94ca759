// Package voice caches the recordings of a singer and the pitch data
// derived from them.
package voice

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/cwbudde/algo-voxlab/dsp/buffer"
	"github.com/cwbudde/algo-voxlab/dsp/core"
	"github.com/cwbudde/algo-voxlab/dsp/psola"
	"github.com/cwbudde/algo-voxlab/dsp/splice"
	"github.com/cwbudde/algo-voxlab/phoneme"
)

// DefaultSilenceLength is the length of the buffer returned for
// phoneme.Silence.
const DefaultSilenceLength = 256

// Loader resolves a phoneme to its raw mono recording.
type Loader interface {
	Load(p phoneme.Phoneme) (*buffer.Buffer, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(p phoneme.Phoneme) (*buffer.Buffer, error)

// Load calls f(p).
func (f LoaderFunc) Load(p phoneme.Phoneme) (*buffer.Buffer, error) { return f(p) }

// Voice lazily loads recordings and memoizes, per phoneme, the raw
// sample, its base pitch and its pitch marks. Entries are computed on
// first successful request and kept for the Voice's lifetime; failures
// are not cached.
//
// A Voice is not safe for concurrent use.
type Voice struct {
	loader     Loader
	sampleRate int
	silenceLen int
	analysis   []psola.Option
	log        *slog.Logger

	samples map[phoneme.Phoneme]*buffer.Buffer
	pitches map[phoneme.Phoneme]float64
	marks   map[phoneme.Phoneme][]int
}

// Option configures a Voice.
type Option func(*Voice)

// WithKnownPitches seeds base pitches, as MIDI note numbers, that
// BasePitch returns without analysis.
func WithKnownPitches(pitches map[phoneme.Phoneme]float64) Option {
	return func(v *Voice) {
		for p, note := range pitches {
			v.pitches[p] = note
		}
	}
}

// WithSilenceLength sets the length of the silence sample. Non-positive
// values are ignored.
func WithSilenceLength(n int) Option {
	return func(v *Voice) {
		if n > 0 {
			v.silenceLen = n
		}
	}
}

// WithAnalysisOptions passes options to the pitch analysis behind
// BasePitch and PitchMarks.
func WithAnalysisOptions(opts ...psola.Option) Option {
	return func(v *Voice) {
		v.analysis = append(v.analysis, opts...)
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Voice) {
		if logger != nil {
			v.log = logger
		}
	}
}

// New returns an empty Voice at sampleRate backed by loader.
func New(loader Loader, sampleRate int, opts ...Option) (*Voice, error) {
	if loader == nil {
		return nil, fmt.Errorf("voice: %w: nil loader", core.ErrInvalidParameter)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("voice: %w: sample rate %d", core.ErrInvalidParameter, sampleRate)
	}

	v := &Voice{
		loader:     loader,
		sampleRate: sampleRate,
		silenceLen: DefaultSilenceLength,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		samples:    make(map[phoneme.Phoneme]*buffer.Buffer),
		pitches:    make(map[phoneme.Phoneme]float64),
		marks:      make(map[phoneme.Phoneme][]int),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	v.log = v.log.With(slog.String("component", "voice"))

	return v, nil
}

// SampleRate returns the rate shared by every sample of the voice.
func (v *Voice) SampleRate() int { return v.sampleRate }

// Sample returns the raw recording of p. Silence yields a zero buffer.
// Load failures wrap core.ErrLoadFailure.
func (v *Voice) Sample(p phoneme.Phoneme) (*buffer.Buffer, error) {
	return getOrCompute(v.samples, p, func() (*buffer.Buffer, error) {
		if p.IsSilence() {
			return buffer.Zeros(v.sampleRate, v.silenceLen)
		}

		b, err := v.loader.Load(p)
		if err != nil {
			return nil, fmt.Errorf("voice: %w: %s: %w", core.ErrLoadFailure, p.FileStem(), err)
		}
		if b.SampleRate() != v.sampleRate {
			return nil, fmt.Errorf("voice: %w: %s: %w: recorded at %d Hz, voice is %d Hz",
				core.ErrLoadFailure, p.FileStem(), core.ErrSampleRateMismatch, b.SampleRate(), v.sampleRate)
		}

		v.log.Debug("loaded sample", slog.String("phoneme", p.FileStem()), slog.Int("samples", b.Len()))
		return b, nil
	})
}

// BasePitch returns the MIDI note of p's recording, 69+12*log2(f0/440)
// with f0 the sample rate over the average pitch period of the voiced
// region (or the whole sample when none is found). Silent or aperiodic
// recordings fail with core.ErrNoPeriodicSignal.
func (v *Voice) BasePitch(p phoneme.Phoneme) (float64, error) {
	return getOrCompute(v.pitches, p, func() (float64, error) {
		s, err := v.Sample(p)
		if err != nil {
			return 0, err
		}
		if s.Peak() == 0 {
			return 0, fmt.Errorf("voice: base pitch of %s: %w: silent sample", p.FileStem(), core.ErrNoPeriodicSignal)
		}

		if r, ok := splice.VoicedRegion(s); ok {
			s = s.Slice(r.Start, r.End)
		}
		period, err := psola.AvgPeriod(s, v.analysis...)
		if err != nil {
			return 0, fmt.Errorf("voice: base pitch of %s: %w", p.FileStem(), err)
		}

		f0 := float64(v.sampleRate) / float64(period)
		note := core.FrequencyToMIDI(f0)
		v.log.Debug("estimated base pitch",
			slog.String("phoneme", p.FileStem()),
			slog.Int("period", period),
			slog.Float64("f0", f0),
			slog.Float64("note", note))
		return note, nil
	})
}

// PitchMarks returns the pitch marks of p's full recording.
func (v *Voice) PitchMarks(p phoneme.Phoneme) ([]int, error) {
	return getOrCompute(v.marks, p, func() ([]int, error) {
		s, err := v.Sample(p)
		if err != nil {
			return nil, err
		}
		return psola.PitchMarks(s, psola.Analyze(s, v.analysis...)), nil
	})
}

func getOrCompute[V any](cache map[phoneme.Phoneme]V, key phoneme.Phoneme, compute func() (V, error)) (V, error) {
	if v, ok := cache[key]; ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return v, err
	}
	cache[key] = v
	return v, nil
}
