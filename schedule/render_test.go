package schedule

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/cwbudde/algo-voxlab/dsp/buffer"
	"github.com/cwbudde/algo-voxlab/dsp/core"
	"github.com/cwbudde/algo-voxlab/dsp/interp"
	"github.com/cwbudde/algo-voxlab/dsp/psola"
	"github.com/cwbudde/algo-voxlab/dsp/splice"
	"github.com/cwbudde/algo-voxlab/internal/testutil"
	"github.com/cwbudde/algo-voxlab/phoneme"
	timestats "github.com/cwbudde/algo-voxlab/stats/time"
	"github.com/cwbudde/algo-voxlab/voice"
)

const testRate = 32000

// testVoice sings a 125 Hz tone for ɑ but claims it is note 62, so that
// the 60/62/64 score resynthesizes with periods between 228 and 288
// samples.
func testVoice(t *testing.T) *voice.Voice {
	t.Helper()
	tone := testutil.HarmonicTone(125, testRate, 0.8, 24000, 6)
	loader := voice.LoaderFunc(func(p phoneme.Phoneme) (*buffer.Buffer, error) {
		if p != phoneme.OpenBackUnrounded {
			return nil, errors.New("no recording")
		}
		return buffer.FromSlice(testRate, tone)
	})
	v, err := voice.New(loader, testRate,
		voice.WithKnownPitches(map[phoneme.Phoneme]float64{phoneme.OpenBackUnrounded: 62}))
	if err != nil {
		t.Fatalf("voice.New() error = %v", err)
	}
	return v
}

func renderOrFail(t *testing.T, insts []PhonemeInstance, v Voice, opts ...RenderOption) *buffer.Buffer {
	t.Helper()
	tl, err := Schedule(insts)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	out, err := tl.Render(v, opts...)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return out
}

func resynth(t *testing.T, v Voice, pitch, length float64) *buffer.Buffer {
	t.Helper()
	s, _ := v.Sample(phoneme.OpenBackUnrounded)
	out, err := psola.Resynthesize(s, core.SemitoneRatio(pitch-62), length)
	if err != nil {
		t.Fatalf("Resynthesize() error = %v", err)
	}
	return out
}

func TestRenderWithoutTransitionsConcatenates(t *testing.T) {
	v := testVoice(t)
	insts := threeNotes()
	for i := range insts {
		insts[i].Options = PhonemeOptions{}
	}

	out := renderOrFail(t, insts, v)

	var want []float64
	for _, p := range []float64{60, 62, 64} {
		want = append(want, resynth(t, v, p, 1).Samples()...)
	}
	testutil.RequireSliceNearlyEqual(t, out.Samples(), want, 0)
	if out.SampleRate() != testRate {
		t.Fatalf("sample rate = %d", out.SampleRate())
	}
}

func TestRenderThreeNotesWithTransitions(t *testing.T) {
	v := testVoice(t)
	out := renderOrFail(t, threeNotes(), v)

	total := 0
	for _, p := range []float64{60, 62, 64} {
		total += resynth(t, v, p, 1).Len()
	}
	if out.Len() >= total {
		t.Fatalf("length = %d, want less than the %d samples of the parts", out.Len(), total)
	}
	if out.Len() < total/2 {
		t.Fatalf("length = %d, too short for parts totalling %d", out.Len(), total)
	}
	testutil.RequireFinite(t, out.Samples())
	if p := out.Peak(); p > 1+1e-9 {
		t.Fatalf("peak = %v", p)
	}

	// The envelope stays up across both splices.
	ref := timestats.RMS(out.Samples())
	inner := out.Samples()[2000 : out.Len()-2000]
	for _, f := range timestats.ShortTimeRMS(inner, 320, 160) {
		if f.RMS < 0.2*ref {
			t.Fatalf("envelope drops to %v at %d (overall %v)", f.RMS, f.Start+2000, ref)
		}
	}
}

func TestRenderSilence(t *testing.T) {
	v := testVoice(t)
	insts := []PhonemeInstance{
		{ID: 0, Phoneme: phoneme.OpenBackUnrounded, Length: 1, Pitch: 62},
		{ID: 1, Phoneme: phoneme.Silence, Length: 2},
		{ID: 2, Phoneme: phoneme.OpenBackUnrounded, Length: 1, Pitch: 62},
	}
	out := renderOrFail(t, insts, v)

	part := resynth(t, v, 62, 1).Len()
	if want := 2*part + 2*voice.DefaultSilenceLength; out.Len() != want {
		t.Fatalf("length = %d, want %d", out.Len(), want)
	}
	gap := out.Samples()[part : part+2*voice.DefaultSilenceLength]
	if timestats.Peak(gap) != 0 {
		t.Fatal("silence event is not silent")
	}
}

func TestRenderEmptyTimeline(t *testing.T) {
	out, err := Timeline{}.Render(testVoice(t))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out.Len() != 0 || out.SampleRate() != testRate {
		t.Fatalf("got %d samples at %d Hz", out.Len(), out.SampleRate())
	}
}

func TestRenderPropagatesErrors(t *testing.T) {
	v := testVoice(t)
	insts := []PhonemeInstance{
		{ID: 0, Phoneme: phoneme.OpenBackUnrounded, Length: 1, Pitch: 62},
		{ID: 1, Phoneme: phoneme.CloseFrontUnrounded, Length: 1, Pitch: 62},
	}
	tl, _ := Schedule(insts)
	_, err := tl.Render(v)
	if !errors.Is(err, core.ErrLoadFailure) {
		t.Fatalf("Render() error = %v, want ErrLoadFailure", err)
	}
	if !strings.Contains(err.Error(), "P1") {
		t.Fatalf("error %q does not name the failing instance", err)
	}
}

func TestRenderCrossfadeIntoSilenceFails(t *testing.T) {
	v := testVoice(t)
	insts := []PhonemeInstance{
		{ID: 0, Phoneme: phoneme.OpenBackUnrounded, SteadyGrains: 4, Length: 1, Pitch: 62, Options: transition(4)},
		{ID: 1, Phoneme: phoneme.Silence, Length: 40},
	}
	tl, _ := Schedule(insts)
	if _, err := tl.Render(v); !errors.Is(err, core.ErrNoVoicedRegion) {
		t.Fatalf("Render() error = %v, want ErrNoVoicedRegion", err)
	}
}

func TestRenderCustomResynthesizer(t *testing.T) {
	v := testVoice(t)
	var ratios, stretches []float64
	fake := func(buf *buffer.Buffer, ratio, stretch float64) (*buffer.Buffer, error) {
		ratios = append(ratios, ratio)
		stretches = append(stretches, stretch)
		return buffer.Zeros(buf.SampleRate(), 10)
	}

	insts := []PhonemeInstance{
		{ID: 0, Phoneme: phoneme.OpenBackUnrounded, Length: 1.5, Pitch: 74},
		{ID: 1, Phoneme: phoneme.OpenBackUnrounded, Length: 0.5, Pitch: 50},
	}
	out := renderOrFail(t, insts, v, WithResynthesizer(fake))
	if out.Len() != 20 {
		t.Fatalf("length = %d, want 20", out.Len())
	}
	testutil.RequireSliceNearlyEqual(t, ratios, []float64{2, 0.5}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, stretches, []float64{1.5, 0.5}, 0)
}

func TestRenderPassesSpliceOptions(t *testing.T) {
	analyses := 0
	observe := psola.WithObserver(func(c psola.Curve) {
		if c.Name == "window_period" {
			analyses++
		}
	})
	out := renderOrFail(t, threeNotes(), testVoice(t),
		WithSpliceOptions(splice.WithAnalysisOptions(observe), splice.WithInterpolation(interp.ModeHermite)))

	// Each of the two splices analyses both sides while planning and again
	// while rendering.
	if analyses != 8 {
		t.Fatalf("observed %d splice analyses, want 8", analyses)
	}
	testutil.RequireFinite(t, out.Samples())
}

func TestRenderRejectsMixedRates(t *testing.T) {
	v := testVoice(t)
	calls := 0
	mixed := func(buf *buffer.Buffer, _, _ float64) (*buffer.Buffer, error) {
		calls++
		return buffer.Zeros(buf.SampleRate()*calls, 10)
	}
	insts := []PhonemeInstance{
		{ID: 0, Phoneme: phoneme.OpenBackUnrounded, Length: 1, Pitch: 62},
		{ID: 1, Phoneme: phoneme.OpenBackUnrounded, Length: 1, Pitch: 62},
	}
	tl, err := Schedule(insts)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if _, err := tl.Render(v, WithResynthesizer(mixed)); !errors.Is(err, core.ErrSampleRateMismatch) {
		t.Fatalf("Render() error = %v, want ErrSampleRateMismatch", err)
	}
}

func TestRenderLogsEvents(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	insts := threeNotes()[2:]
	renderOrFail(t, insts, testVoice(t), WithLogger(logger))

	got := logs.String()
	for _, want := range []string{"rendered event", "instance=P2", "component=schedule"} {
		if !strings.Contains(got, want) {
			t.Fatalf("log %q missing %q", got, want)
		}
	}
}
