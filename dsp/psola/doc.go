// Package psola implements pitch-synchronous overlap-add analysis and
// resynthesis of voiced mono audio.
//
// The pipeline runs leaves first:
//   - Analyze estimates the local pitch period of fixed-size frames by
//     short-window autocorrelation.
//   - PitchMarks walks the buffer forward one period at a time, producing
//     strictly increasing glottal-cycle marks.
//   - ExtractGrains cuts a two-period grain around every mark that fits
//     inside the buffer.
//   - Resynthesize overlap-adds Hann-windowed grains at a new spacing to
//     change pitch and duration independently.
//
// Grains are views into their source buffer; nothing here copies the input.
package psola
