// Command voxrender sings a YAML score with a voice and writes a WAV file.
//
// Usage:
//
//	voxrender -voice voice.yaml -score score.yaml [-out out.wav] [-naive] [-fft] [-hermite] [-v]
//
// The voice manifest names the sample rate, the directory holding
// <kind>_<ipa>.wav recordings and optional known base pitches. See
// package voicebank and package schedule for the file formats.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cwbudde/algo-voxlab/dsp/buffer"
	"github.com/cwbudde/algo-voxlab/dsp/interp"
	"github.com/cwbudde/algo-voxlab/dsp/psola"
	"github.com/cwbudde/algo-voxlab/dsp/splice"
	"github.com/cwbudde/algo-voxlab/dsp/stretch"
	"github.com/cwbudde/algo-voxlab/schedule"
	"github.com/cwbudde/algo-voxlab/voice"
	"github.com/cwbudde/algo-voxlab/voicebank"
)

func main() {
	voicePath := flag.String("voice", "voice.yaml", "voice manifest")
	scorePath := flag.String("score", "score.yaml", "score to render")
	outPath := flag.String("out", "out.wav", "output WAV file")
	naive := flag.Bool("naive", false, "resample and OLA-stretch instead of PSOLA")
	fft := flag.Bool("fft", false, "compute pitch autocorrelation via FFT")
	hermite := flag.Bool("hermite", false, "resample transition grains with cubic Hermite interpolation")
	verbose := flag.Bool("v", false, "log every rendered event")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: voxrender [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders a phoneme score with a recorded voice.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, *voicePath, *scorePath, *outPath, *naive, *fft, *hermite); err != nil {
		logger.Error("render failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, voicePath, scorePath, outPath string, naive, fft, hermite bool) error {
	manifest, err := voicebank.LoadManifest(voicePath)
	if err != nil {
		return err
	}

	var analysis []psola.Option
	if fft {
		analysis = append(analysis, psola.WithFFTAutocorrelation())
	}
	v, err := manifest.Voice(logger, voice.WithAnalysisOptions(analysis...))
	if err != nil {
		return err
	}

	instances, err := schedule.LoadScore(scorePath)
	if err != nil {
		return err
	}
	timeline, err := schedule.Schedule(instances)
	if err != nil {
		return err
	}

	spliceOpts := []splice.Option{splice.WithAnalysisOptions(analysis...)}
	if hermite {
		spliceOpts = append(spliceOpts, splice.WithInterpolation(interp.ModeHermite))
	}
	opts := []schedule.RenderOption{
		schedule.WithLogger(logger),
		schedule.WithSpliceOptions(spliceOpts...),
	}
	if naive {
		opts = append(opts, schedule.WithResynthesizer(naiveResynth))
	} else if fft {
		opts = append(opts, schedule.WithResynthesizer(func(buf *buffer.Buffer, ratio, length float64) (*buffer.Buffer, error) {
			return psola.Resynthesize(buf, ratio, length, analysis...)
		}))
	}

	out, err := timeline.Render(v, opts...)
	if err != nil {
		return err
	}
	if err := voicebank.WriteWAVFile(outPath, out); err != nil {
		return err
	}

	logger.Info("wrote output",
		slog.String("path", outPath),
		slog.Int("events", len(timeline.Events)),
		slog.Int("samples", out.Len()),
		slog.Float64("seconds", out.Seconds()))
	return nil
}

// naiveResynth resamples for pitch, then OLA-stretches for duration, so
// that the result has the same length as the PSOLA path.
func naiveResynth(buf *buffer.Buffer, ratio, length float64) (*buffer.Buffer, error) {
	shifted, err := stretch.PitchShift(buf, ratio)
	if err != nil {
		return nil, err
	}
	return stretch.TimeStretch(shifted, length)
}
