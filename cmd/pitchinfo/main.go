// Command pitchinfo prints the pitch analysis of mono WAV recordings.
//
// Usage:
//
//	pitchinfo [flags] file.wav ...
//
// Examples:
//
//	pitchinfo samples/vowel_ɑ.wav
//	pitchinfo -fft -frame 2048 samples/*.wav
//	pitchinfo -track samples/vowel_i.wav
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-voxlab/dsp/core"
	"github.com/cwbudde/algo-voxlab/dsp/psola"
	"github.com/cwbudde/algo-voxlab/dsp/splice"
	"github.com/cwbudde/algo-voxlab/voicebank"
)

func main() {
	frame := flag.Int("frame", psola.DefaultFrameSize, "analysis frame length in samples")
	fft := flag.Bool("fft", false, "compute autocorrelation via FFT")
	track := flag.Bool("track", false, "print the per-window period track after the table")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pitchinfo [flags] file.wav ...\n\n")
		fmt.Fprintf(os.Stderr, "Prints the estimated pitch period, f0, MIDI note and voiced region of\n")
		fmt.Fprintf(os.Stderr, "mono 16/24/32-bit PCM WAV files.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pitchinfo samples/vowel_ɑ.wav\n")
		fmt.Fprintf(os.Stderr, "  pitchinfo -fft -frame 2048 samples/*.wav\n")
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	opts := []psola.Option{psola.WithFrameSize(*frame)}
	if *fft {
		opts = append(opts, psola.WithFFTAutocorrelation())
	}

	var tracks []namedCurve
	if *track {
		opts = append(opts, psola.WithObserver(func(c psola.Curve) {
			if c.Name == "window_period" {
				tracks = append(tracks, namedCurve{Curve: c})
			}
		}))
	}

	failed := printAnalysis(flag.Args(), opts, &tracks)
	if *track {
		printTracks(tracks)
	}
	if failed {
		os.Exit(1)
	}
}

type namedCurve struct {
	psola.Curve
	file string
}

func printAnalysis(files []string, opts []psola.Option, tracks *[]namedCurve) (failed bool) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "File\tRate\tSamples\tFrames\tPeriod\tf0 [Hz]\tMIDI\tVoiced [s]\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return true
	}
	if _, err := fmt.Fprintf(tw, "----\t----\t-------\t------\t------\t-------\t----\t----------\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return true
	}

	for _, path := range files {
		buf, err := voicebank.ReadWAVFile(path)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			failed = true
			continue
		}

		before := len(*tracks)
		a := psola.AnalyzeGrains(buf, opts...)
		for i := before; i < len(*tracks); i++ {
			(*tracks)[i].file = path
		}

		voiced := "-"
		if r, ok := splice.VoicedRegion(buf); ok {
			sr := float64(buf.SampleRate())
			voiced = fmt.Sprintf("%.3f-%.3f", float64(r.Start)/sr, float64(r.End)/sr)
		}

		period, err := a.AvgPeriod()
		var row string
		if err != nil {
			row = fmt.Sprintf("%s\t%d\t%d\t%d\t-\t-\t-\t%s\n", path, buf.SampleRate(), buf.Len(), len(a.Windows), voiced)
		} else {
			f0 := float64(buf.SampleRate()) / float64(period)
			row = fmt.Sprintf("%s\t%d\t%d\t%d\t%d\t%.2f\t%.2f\t%s\n",
				path, buf.SampleRate(), buf.Len(), len(a.Windows), period, f0, core.FrequencyToMIDI(f0), voiced)
		}
		if _, err := fmt.Fprint(tw, row); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return true
		}
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
		return true
	}
	return failed
}

func printTracks(tracks []namedCurve) {
	for _, tr := range tracks {
		fmt.Printf("\n# %s\n", tr.file)
		for i := range tr.X {
			fmt.Printf("%d\t%.0f\n", int(tr.X[i]), tr.Y[i])
		}
	}
}
