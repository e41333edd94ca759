package core

// ConcertA is the reference frequency of MIDI note 69.
const ConcertA = 440.0

// FrequencyToMIDI maps a frequency in Hz onto the MIDI note scale,
// 69 + 12*log2(f/440). Fractional notes are preserved.
func FrequencyToMIDI(freqHz float64) float64 {
	return 69 + 12*mathLog2(freqHz/ConcertA)
}

// MIDIToFrequency is the inverse of FrequencyToMIDI.
func MIDIToFrequency(note float64) float64 {
	return ConcertA * mathPower2((note-69)/12)
}

// SemitoneRatio returns the frequency ratio spanning the given number of
// semitones, 2^(semitones/12).
func SemitoneRatio(semitones float64) float64 {
	return mathPower2(semitones / 12)
}
