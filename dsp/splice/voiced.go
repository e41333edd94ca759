package splice

import (
	"github.com/cwbudde/algo-voxlab/dsp/buffer"
	timestats "github.com/cwbudde/algo-voxlab/stats/time"
)

const (
	// VoicedWindowSeconds and VoicedHopSeconds size the short-time RMS
	// frames used for voiced-region detection.
	VoicedWindowSeconds = 0.010
	VoicedHopSeconds    = 0.005

	// VoicedThreshold is the fraction of the loudest frame's RMS a frame
	// must reach to count as voiced.
	VoicedThreshold = 0.05
)

// Region is a half-open sample range [Start, End).
type Region struct {
	Start int
	End   int
}

// Len returns End - Start.
func (r Region) Len() int { return r.End - r.Start }

// VoicedRegion returns the span from the first to the end of the last
// frame whose RMS reaches VoicedThreshold of the loudest frame. It reports
// false for buffers shorter than one window and for all-zero buffers.
func VoicedRegion(buf *buffer.Buffer) (Region, bool) {
	sr := float64(buf.SampleRate())
	win := int(VoicedWindowSeconds * sr)
	hop := max(int(VoicedHopSeconds*sr), 1)

	frames := timestats.ShortTimeRMS(buf.Samples(), win, hop)
	peak := timestats.MaxRMS(frames)
	if len(frames) == 0 || peak == 0 {
		return Region{}, false
	}

	threshold := VoicedThreshold * peak
	first, last := -1, -1
	for i, f := range frames {
		if f.RMS >= threshold {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	return Region{
		Start: frames[first].Start,
		End:   min(frames[last].Start+win, buf.Len()),
	}, true
}
