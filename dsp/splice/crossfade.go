package splice

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voxlab/dsp/buffer"
	"github.com/cwbudde/algo-voxlab/dsp/core"
	"github.com/cwbudde/algo-voxlab/dsp/interp"
	"github.com/cwbudde/algo-voxlab/dsp/psola"
)

// MinTransitionPeriods is the shortest fade, in pitch periods, Crossfade
// will render regardless of the requested length.
const MinTransitionPeriods = 5

// GrainInterp describes a requested transition. TargetGrain is the index
// of the instance preceding the splice; FadeLen is the requested fade in
// samples.
type GrainInterp struct {
	TargetGrain int
	FadeLen     int
}

// Plan holds the splice points chosen for a crossfade.
type Plan struct {
	// Period is the average pitch period of the outgoing buffer.
	Period int
	// FadeLen is the effective fade in samples, at least
	// MinTransitionPeriods periods.
	FadeLen int
	// CutA is the pitch mark in A where the fade ends.
	CutA int
	// StartB is the phase-aligned offset in B where the fade begins.
	StartB int
}

// AStart returns the offset in A where the fade begins.
func (p Plan) AStart() int { return p.CutA - p.FadeLen }

// OutputLen returns the length of the spliced buffer: A up to the fade,
// the fade, then the remainder of B.
func (p Plan) OutputLen(lenB int) int {
	return p.AStart() + p.FadeLen + (lenB - (p.StartB + p.FadeLen))
}

// FindCutA returns the last mark m with m+period <= voicedEnd and
// m >= fadeLen. marks must be strictly increasing.
func FindCutA(marks []int, voicedEnd, fadeLen, period int) (int, bool) {
	m, ok := psola.LastMarkAtOrBefore(marks, voicedEnd-period)
	if !ok || m < fadeLen {
		return 0, false
	}
	return m, true
}

// FindStartB returns the first mark m with m >= voicedStart and
// m+fadeLen+period <= bufferLen. marks must be strictly increasing.
func FindStartB(marks []int, voicedStart, fadeLen, period, bufferLen int) (int, bool) {
	m, ok := psola.FirstMarkAtOrAfter(marks, voicedStart)
	if !ok || m+fadeLen+period > bufferLen {
		return 0, false
	}
	return m, true
}

// AlignStartB searches startB±period for the offset whose period-long
// window of b best correlates with the period-long window of a ending at
// cutA. Near either edge the search is skipped and startB returned as is.
func AlignStartB(a, b []float64, cutA, startB, period int) int {
	n := max(period, 1)
	if cutA < n || cutA > len(a) || startB+n >= len(b) {
		return startB
	}

	ref := a[cutA-n : cutA]
	best := startB
	bestScore := math.Inf(-1)
	for d := -period; d <= period; d++ {
		cand := startB + d
		if cand < 0 || cand+n > len(b) {
			continue
		}
		if score := Correlation(ref, b[cand:cand+n]); score > bestScore {
			bestScore = score
			best = cand
		}
	}
	return best
}

// Correlation returns the raw dot product of a and b over their common
// length.
func Correlation(a, b []float64) float64 {
	n := min(len(a), len(b))
	return vecmath.DotProduct(a[:n], b[:n])
}

// Option configures PlanSplice and Crossfade.
type Option func(*config)

type config struct {
	analysis []psola.Option
	mode     interp.Mode
}

func applyOptions(opts []Option) config {
	cfg := config{mode: interp.ModeLinear}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithAnalysisOptions sets the options of the pitch analysis run on both
// buffers.
func WithAnalysisOptions(opts ...psola.Option) Option {
	return func(c *config) {
		c.analysis = append(c.analysis, opts...)
	}
}

// WithInterpolation selects the kernel used to resample grains during the
// fade. The default is interp.ModeLinear.
func WithInterpolation(mode interp.Mode) Option {
	return func(c *config) {
		c.mode = mode
	}
}

// PlanSplice chooses the splice points for crossfading a into b.
func PlanSplice(a, b *buffer.Buffer, gi GrainInterp, opts ...Option) (Plan, error) {
	return planSplice(a, b, gi, applyOptions(opts))
}

func planSplice(a, b *buffer.Buffer, gi GrainInterp, cfg config) (Plan, error) {
	if gi.FadeLen <= 0 {
		return Plan{}, fmt.Errorf("splice: %w: fade length %d", core.ErrInvalidParameter, gi.FadeLen)
	}
	if err := buffer.SameRate(a, b); err != nil {
		return Plan{}, fmt.Errorf("splice: %w", err)
	}

	analysisA := psola.AnalyzeGrains(a, cfg.analysis...)
	period, err := analysisA.AvgPeriod()
	if err != nil {
		return Plan{}, fmt.Errorf("splice: outgoing buffer: %w", err)
	}
	fade := max(gi.FadeLen, MinTransitionPeriods*period)

	regionA, ok := VoicedRegion(a)
	if !ok {
		return Plan{}, fmt.Errorf("splice: outgoing buffer: %w", core.ErrNoVoicedRegion)
	}
	cutA, ok := FindCutA(analysisA.Marks, regionA.End, fade, period)
	if !ok {
		return Plan{}, fmt.Errorf("splice: %w: no cut mark in A before %d for a %d-sample fade",
			core.ErrUnsatisfiableSplice, regionA.End, fade)
	}

	regionB, ok := VoicedRegion(b)
	if !ok {
		return Plan{}, fmt.Errorf("splice: incoming buffer: %w", core.ErrNoVoicedRegion)
	}
	marksB := psola.PitchMarks(b, psola.Analyze(b, cfg.analysis...))
	startB, ok := FindStartB(marksB, regionB.Start, fade, period, b.Len())
	if !ok {
		return Plan{}, fmt.Errorf("splice: %w: no start mark in B after %d for a %d-sample fade",
			core.ErrUnsatisfiableSplice, regionB.Start, fade)
	}

	return Plan{
		Period:  period,
		FadeLen: fade,
		CutA:    cutA,
		StartB:  AlignStartB(a.Samples(), b.Samples(), cutA, startB, period),
	}, nil
}

// Crossfade splices a into b. A plays up to the fade, the fade blends A's
// grains into B's from the aligned start, and the remainder of B follows.
// B's grains are shifted so that StartB lands on the fade start in A.
func Crossfade(a, b *buffer.Buffer, gi GrainInterp, opts ...Option) (*buffer.Buffer, error) {
	cfg := applyOptions(opts)
	plan, err := planSplice(a, b, gi, cfg)
	if err != nil {
		return nil, err
	}
	return render(a, b, plan, cfg)
}

func render(a, b *buffer.Buffer, plan Plan, cfg config) (*buffer.Buffer, error) {
	grainsA := psola.AnalyzeGrains(a, cfg.analysis...).Grains
	grainsB := psola.AnalyzeGrains(b, cfg.analysis...).Grains

	unit := plan.Period + 1
	aStartG := plan.AStart() / unit
	bStartG := plan.StartB / unit
	fadeG := plan.FadeLen / unit

	if aStartG+fadeG > len(grainsA) || bStartG+fadeG > len(grainsB) {
		return nil, fmt.Errorf("splice: %w: fade of %d grains exceeds %d/%d available",
			core.ErrUnsatisfiableSplice, fadeG, len(grainsA)-aStartG, len(grainsB)-bStartG)
	}
	weights, err := TransitionWeights(fadeG)
	if err != nil {
		return nil, fmt.Errorf("splice: %w", err)
	}

	shift := plan.AStart() - plan.StartB
	count := aStartG + fadeG + len(grainsB) - (bStartG + fadeG)
	samples := make([][]float64, 0, count)
	centers := make([]int, 0, count)

	for _, g := range grainsA[:aStartG] {
		samples = append(samples, g.Samples())
		centers = append(centers, g.Center)
	}
	for k, t := range weights {
		ga, gb := grainsA[aStartG+k], grainsB[bStartG+k]
		samples = append(samples, BlendGrains(ga.Samples(), gb.Samples(), t, cfg.mode))
		centers = append(centers, int(math.Round(core.Lerp(float64(ga.Center), float64(gb.Center+shift), t))))
	}
	for _, g := range grainsB[bStartG+fadeG:] {
		samples = append(samples, g.Samples())
		centers = append(centers, g.Center+shift)
	}

	out, err := psola.OverlapAdd(samples, centers, plan.OutputLen(b.Len()))
	if err != nil {
		return nil, fmt.Errorf("splice: %w", err)
	}
	return buffer.FromSlice(a.SampleRate(), out)
}

// BlendGrains mixes two grains as (1-t)*a + t*b after resampling both to
// the interpolated length with the given kernel.
func BlendGrains(a, b []float64, t float64, mode interp.Mode) []float64 {
	n := int(math.Round(core.Lerp(float64(len(a)), float64(len(b)), t)))
	if n <= 0 {
		return nil
	}
	ra := interp.Resample(a, n, mode)
	rb := interp.Resample(b, n, mode)

	vecmath.ScaleBlock(ra, ra, 1-t)
	vecmath.ScaleBlock(rb, rb, t)
	vecmath.AddBlockInPlace(ra, rb)
	return ra
}
