package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// HarmonicTone generates a voiced-like tone: the first harmonics partials
// of freqHz with 1/k amplitudes, scaled so that |x| never exceeds amplitude.
// The strong fundamental and sharp waveform give clear autocorrelation peaks.
func HarmonicTone(freqHz, sampleRate, amplitude float64, length, harmonics int) []float64 {
	if harmonics < 1 {
		harmonics = 1
	}
	bound := 0.0
	for k := 1; k <= harmonics; k++ {
		bound += 1 / float64(k)
	}
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		v := 0.0
		for k := 1; k <= harmonics; k++ {
			v += math.Sin(step*float64(k*i)) / float64(k)
		}
		out[i] = amplitude * v / bound
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Pad surrounds x with lead and tail zeros.
func Pad(x []float64, lead, tail int) []float64 {
	out := make([]float64, lead+len(x)+tail)
	copy(out[lead:], x)
	return out
}

// Envelope applies linear attack and release ramps to a copy of x.
func Envelope(x []float64, attack, release int) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	for i := 0; i < attack && i < len(out); i++ {
		out[i] *= float64(i) / float64(attack)
	}
	for i := 0; i < release && i < len(out); i++ {
		out[len(out)-1-i] *= float64(i) / float64(release)
	}
	return out
}
