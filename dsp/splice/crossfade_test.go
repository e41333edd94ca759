package splice

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-voxlab/dsp/buffer"
	"github.com/cwbudde/algo-voxlab/dsp/core"
	"github.com/cwbudde/algo-voxlab/dsp/interp"
	"github.com/cwbudde/algo-voxlab/dsp/psola"
	"github.com/cwbudde/algo-voxlab/internal/testutil"
	timestats "github.com/cwbudde/algo-voxlab/stats/time"
)

func TestFindCutA(t *testing.T) {
	marks := []int{0, 100, 200, 300, 400, 500}
	tests := []struct {
		name                    string
		voicedEnd, fade, period int
		want                    int
		ok                      bool
	}{
		{"last fitting", 600, 0, 100, 500, true},
		{"voiced end bound", 450, 0, 100, 300, true},
		{"fade bound", 600, 250, 100, 500, true},
		{"fade bound inclusive", 350, 200, 100, 200, true},
		{"fade too long", 350, 300, 100, 0, false},
		{"no voiced room", 50, 0, 100, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindCutA(marks, tt.voicedEnd, tt.fade, tt.period)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("FindCutA() = %d, %v, want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFindStartB(t *testing.T) {
	marks := []int{0, 100, 200, 300, 400, 500}
	tests := []struct {
		name                           string
		voicedStart, fade, period, len int
		want                           int
		ok                             bool
	}{
		{"first", 0, 100, 100, 1000, 0, true},
		{"voiced start bound", 150, 100, 100, 1000, 200, true},
		{"length bound inclusive", 150, 300, 100, 600, 200, true},
		{"buffer too short", 150, 300, 100, 550, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindStartB(marks, tt.voicedStart, tt.fade, tt.period, tt.len)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("FindStartB() = %d, %v, want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestAlignStartBFindsMatchingPhase(t *testing.T) {
	a := testutil.DeterministicNoise(11, 1, 2000)
	b := a[500:]

	// a[900:1000] reappears at b[400:500].
	if got := AlignStartB(a, b, 1000, 450, 100); got != 400 {
		t.Fatalf("AlignStartB() = %d, want 400", got)
	}
}

func TestAlignStartBFallsBackNearEdges(t *testing.T) {
	a := testutil.DeterministicNoise(1, 1, 1000)
	b := testutil.DeterministicNoise(2, 1, 1000)
	if got := AlignStartB(a, b, 50, 300, 100); got != 300 {
		t.Fatalf("cut too early: got %d, want 300", got)
	}
	if got := AlignStartB(a, b, 500, 900, 100); got != 900 {
		t.Fatalf("start too late: got %d, want 900", got)
	}
}

func TestCorrelation(t *testing.T) {
	if got := Correlation([]float64{1, 2, 3}, []float64{4, 5, 6}); got != 32 {
		t.Fatalf("Correlation() = %v, want 32", got)
	}
	if got := Correlation([]float64{1, 2, 3}, []float64{4, 5}); got != 14 {
		t.Fatalf("Correlation() over common length = %v, want 14", got)
	}
	if got := Correlation(nil, []float64{1}); got != 0 {
		t.Fatalf("Correlation(nil) = %v, want 0", got)
	}
}

func TestBlendGrains(t *testing.T) {
	a := []float64{1, 1, 1, 1}
	b := []float64{3, 3, 3, 3, 3, 3, 3, 3}

	for _, mode := range []interp.Mode{interp.ModeLinear, interp.ModeHermite} {
		if got := BlendGrains(a, b, 0, mode); len(got) != 4 {
			t.Fatalf("mode %d t=0 len = %d, want 4", mode, len(got))
		}
		got := BlendGrains(a, b, 0.5, mode)
		if len(got) != 6 {
			t.Fatalf("mode %d t=0.5 len = %d, want 6", mode, len(got))
		}
		testutil.RequireSliceNearlyEqual(t, got, testutil.DC(2, 6), 1e-12)
		testutil.RequireSliceNearlyEqual(t, BlendGrains(a, b, 1, mode), b, 1e-12)
	}
}

func TestBlendGrainsHermiteKeepsRamp(t *testing.T) {
	a := []float64{0, 1, 2, 3, 4}
	got := BlendGrains(a, a, 0.5, interp.ModeHermite)
	testutil.RequireSliceNearlyEqual(t, got, a, 1e-12)
}

func TestCrossfadeAppliesOptions(t *testing.T) {
	a := tone(t, 0.8, 16384)
	b := tone(t, 0.6, 16384)
	gi := GrainInterp{FadeLen: 10}

	analyses := 0
	observe := psola.WithObserver(func(c psola.Curve) {
		if c.Name == "window_period" {
			analyses++
		}
	})
	if _, err := PlanSplice(a, b, gi, WithAnalysisOptions(observe)); err != nil {
		t.Fatalf("PlanSplice() error = %v", err)
	}
	if analyses != 2 {
		t.Fatalf("PlanSplice ran %d observed analyses, want 2", analyses)
	}

	analyses = 0
	out, err := Crossfade(a, b, gi,
		WithAnalysisOptions(psola.WithFFTAutocorrelation(), observe),
		WithInterpolation(interp.ModeHermite))
	if err != nil {
		t.Fatalf("Crossfade() error = %v", err)
	}
	if analyses != 4 {
		t.Fatalf("Crossfade ran %d observed analyses, want 4", analyses)
	}
	testutil.RequireFinite(t, out.Samples())
}

func TestCrossfadeContinuity(t *testing.T) {
	a := tone(t, 0.8, 16384)
	b := tone(t, 0.6, 16384)
	gi := GrainInterp{TargetGrain: 0, FadeLen: 10}

	plan, err := PlanSplice(a, b, gi)
	if err != nil {
		t.Fatalf("PlanSplice() error = %v", err)
	}
	if plan.FadeLen != MinTransitionPeriods*plan.Period {
		t.Fatalf("fade = %d, want %d periods of %d", plan.FadeLen, MinTransitionPeriods, plan.Period)
	}
	if plan.CutA < plan.FadeLen || plan.StartB < 0 || plan.StartB+plan.FadeLen > b.Len() {
		t.Fatalf("plan %+v violates bounds", plan)
	}

	out, err := Crossfade(a, b, gi)
	if err != nil {
		t.Fatalf("Crossfade() error = %v", err)
	}
	want := plan.AStart() + plan.FadeLen + (b.Len() - (plan.StartB + plan.FadeLen))
	if out.Len() != want {
		t.Fatalf("length = %d, want %d", out.Len(), want)
	}
	if out.SampleRate() != testRate {
		t.Fatalf("sample rate = %d", out.SampleRate())
	}
	testutil.RequireFinite(t, out.Samples())

	ref := timestats.RMS(b.Samples())
	inner := out.Samples()[1000 : out.Len()-1000]
	for _, f := range timestats.ShortTimeRMS(inner, 320, 160) {
		if f.RMS < 0.2*ref {
			t.Fatalf("envelope drops to %v at %d (reference %v)", f.RMS, f.Start+1000, ref)
		}
	}
}

func TestCrossfadeHonoursLongFade(t *testing.T) {
	a := tone(t, 0.8, 16384)
	b := tone(t, 0.8, 16384)
	plan, err := PlanSplice(a, b, GrainInterp{FadeLen: 3000})
	if err != nil {
		t.Fatalf("PlanSplice() error = %v", err)
	}
	if plan.FadeLen != 3000 {
		t.Fatalf("fade = %d, want 3000", plan.FadeLen)
	}
	out, err := Crossfade(a, b, GrainInterp{FadeLen: 3000})
	if err != nil {
		t.Fatalf("Crossfade() error = %v", err)
	}
	if out.Len() != plan.OutputLen(b.Len()) {
		t.Fatalf("length = %d, want %d", out.Len(), plan.OutputLen(b.Len()))
	}
}

func TestCrossfadeErrors(t *testing.T) {
	a := tone(t, 0.8, 16384)
	silent, _ := buffer.Zeros(testRate, 16384)
	short := tone(t, 0.8, 500)
	other, _ := buffer.FromSlice(44100, a.Samples())

	tests := []struct {
		name string
		a, b *buffer.Buffer
		fade int
		want error
	}{
		{"zero fade", a, a, 0, core.ErrInvalidParameter},
		{"negative fade", a, a, -5, core.ErrInvalidParameter},
		{"rate mismatch", a, other, 10, core.ErrSampleRateMismatch},
		{"aperiodic A", short, a, 10, core.ErrNoPeriodicSignal},
		{"silent A", silent, a, 10, core.ErrNoVoicedRegion},
		{"silent B", a, silent, 10, core.ErrNoVoicedRegion},
		{"fade longer than A", a, a, 20000, core.ErrUnsatisfiableSplice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Crossfade(tt.a, tt.b, GrainInterp{FadeLen: tt.fade})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Crossfade() error = %v, want %v", err, tt.want)
			}
		})
	}
}
