package psola

import (
	"fmt"

	"github.com/cwbudde/algo-voxlab/dsp/buffer"
	"github.com/cwbudde/algo-voxlab/dsp/core"
)

// Grain is one glottal cycle's excerpt: the samples [Center-Period,
// Center+Period) of its source buffer. Grains borrow their source's
// storage and are never mutated.
type Grain struct {
	Center int
	Period int

	src []float64
}

// Start returns the offset of the grain's first sample in its source.
func (g Grain) Start() int { return g.Center - g.Period }

// Len returns the grain length, 2*Period.
func (g Grain) Len() int { return 2 * g.Period }

// Samples returns the grain's view of its source buffer.
func (g Grain) Samples() []float64 {
	start, end := g.Center-g.Period, g.Center+g.Period
	return g.src[start:end:end]
}

// PeriodAt returns the period active at pos: that of the last window
// starting at or before pos, or the first window's when pos precedes them
// all. windows must not be empty.
func PeriodAt(pos int, windows []WindowEstimate) int {
	lag := windows[0].Period
	for _, w := range windows {
		if w.Start > pos {
			break
		}
		lag = w.Period
	}
	return lag
}

// ExtractGrains cuts a grain around every mark. Marks whose span would
// touch either buffer edge are dropped silently.
func ExtractGrains(buf *buffer.Buffer, marks []int, windows []WindowEstimate) []Grain {
	if len(windows) == 0 {
		return nil
	}

	src := buf.Samples()
	n := len(src)

	grains := make([]Grain, 0, len(marks))
	for _, mark := range marks {
		period := PeriodAt(mark, windows)
		if period <= 0 || mark < period || mark+period >= n {
			continue
		}
		grains = append(grains, Grain{Center: mark, Period: period, src: src})
	}

	return grains
}

// Analysis bundles the windows, marks and grains of one buffer.
type Analysis struct {
	Windows []WindowEstimate
	Marks   []int
	Grains  []Grain
}

// AnalyzeGrains runs the analyzer, mark generator and grain extractor.
func AnalyzeGrains(buf *buffer.Buffer, opts ...Option) Analysis {
	windows := Analyze(buf, opts...)
	marks := PitchMarks(buf, windows)
	return Analysis{
		Windows: windows,
		Marks:   marks,
		Grains:  ExtractGrains(buf, marks, windows),
	}
}

// AvgPeriod returns the arithmetic mean (integer division) of the grain
// periods.
func (a Analysis) AvgPeriod() (int, error) {
	if len(a.Grains) == 0 {
		return 0, fmt.Errorf("average period: %w: no extractable grains", core.ErrNoPeriodicSignal)
	}
	sum := 0
	for _, g := range a.Grains {
		sum += g.Period
	}
	return sum / len(a.Grains), nil
}

// AvgPeriod returns the characteristic pitch period of buf in samples.
// It fails with core.ErrNoPeriodicSignal when no grain can be extracted.
func AvgPeriod(buf *buffer.Buffer, opts ...Option) (int, error) {
	return AnalyzeGrains(buf, opts...).AvgPeriod()
}
