package buffer

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voxlab/dsp/core"
)

// Buffer is a mono sequence of samples tagged with an integer sample rate.
type Buffer struct {
	sampleRate int
	samples    []float64
}

// New returns a Buffer holding a copy of samples.
func New(sampleRate int, samples []float64) (*Buffer, error) {
	if err := validateRate(sampleRate); err != nil {
		return nil, err
	}
	s := make([]float64, len(samples))
	copy(s, samples)
	return &Buffer{sampleRate: sampleRate, samples: s}, nil
}

// FromSlice wraps samples without copying. Ownership passes to the Buffer:
// the caller must not modify s afterwards.
func FromSlice(sampleRate int, s []float64) (*Buffer, error) {
	if err := validateRate(sampleRate); err != nil {
		return nil, err
	}
	return &Buffer{sampleRate: sampleRate, samples: s}, nil
}

// Zeros returns a silent Buffer of the given length.
func Zeros(sampleRate, length int) (*Buffer, error) {
	if length < 0 {
		length = 0
	}
	return FromSlice(sampleRate, make([]float64, length))
}

func validateRate(sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be > 0: %d", core.ErrInvalidParameter, sampleRate)
	}
	return nil
}

// SampleRate returns the sample rate in Hz.
func (b *Buffer) SampleRate() int { return b.sampleRate }

// Samples returns the underlying samples. The slice must not be modified.
func (b *Buffer) Samples() []float64 { return b.samples }

// Len returns the number of samples.
func (b *Buffer) Len() int { return len(b.samples) }

// Seconds returns the duration of the buffer.
func (b *Buffer) Seconds() float64 {
	return float64(len(b.samples)) / float64(b.sampleRate)
}

// Slice returns the sub-buffer [start, end), clamped to valid bounds.
// The result shares storage with b.
func (b *Buffer) Slice(start, end int) *Buffer {
	start = core.ClampInt(start, 0, len(b.samples))
	end = core.ClampInt(end, start, len(b.samples))
	return &Buffer{sampleRate: b.sampleRate, samples: b.samples[start:end:end]}
}

// Copy returns a deep copy of the buffer.
func (b *Buffer) Copy() *Buffer {
	s := make([]float64, len(b.samples))
	copy(s, b.samples)
	return &Buffer{sampleRate: b.sampleRate, samples: s}
}

// Peak returns the maximum absolute sample value.
func (b *Buffer) Peak() float64 {
	return vecmath.MaxAbs(b.samples)
}

// SameRate returns ErrSampleRateMismatch unless both buffers share a rate.
func SameRate(a, b *Buffer) error {
	if a.sampleRate != b.sampleRate {
		return fmt.Errorf("%w: %d Hz vs %d Hz", core.ErrSampleRateMismatch, a.sampleRate, b.sampleRate)
	}
	return nil
}

// Concat joins buffers in order. All buffers must share the first one's
// sample rate.
func Concat(first *Buffer, rest ...*Buffer) (*Buffer, error) {
	total := first.Len()
	for _, r := range rest {
		if err := SameRate(first, r); err != nil {
			return nil, err
		}
		total += r.Len()
	}
	s := make([]float64, 0, total)
	s = append(s, first.samples...)
	for _, r := range rest {
		s = append(s, r.samples...)
	}
	return &Buffer{sampleRate: first.sampleRate, samples: s}, nil
}
