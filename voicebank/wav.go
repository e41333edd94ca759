package voicebank

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-voxlab/dsp/buffer"
)

const wavFormatPCM = 1

// ErrUnsupportedFormat is returned for WAV files that are not mono
// 16, 24 or 32-bit integer PCM.
var ErrUnsupportedFormat = errors.New("unsupported wav format")

// ReadWAV decodes a mono integer PCM WAV stream into samples normalised
// to [-1, 1).
func ReadWAV(r io.ReadSeeker) (*buffer.Buffer, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: not a wav file", ErrUnsupportedFormat)
	}
	if d.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: audio format %d, want PCM", ErrUnsupportedFormat, d.WavAudioFormat)
	}
	if d.NumChans != 1 {
		return nil, fmt.Errorf("%w: %d channels, want mono", ErrUnsupportedFormat, d.NumChans)
	}
	switch d.BitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, d.BitDepth)
	}

	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}

	scale := 1 / float64(int64(1)<<(d.BitDepth-1))
	samples := make([]float64, len(pcm.Data))
	for i, v := range pcm.Data {
		samples[i] = float64(v) * scale
	}
	return buffer.FromSlice(int(d.SampleRate), samples)
}

// ReadWAVFile opens path and decodes it with ReadWAV.
func ReadWAVFile(path string) (*buffer.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := ReadWAV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// WriteWAV encodes b as 16-bit mono PCM. Samples are clamped to [-1, 1].
func WriteWAV(w io.WriteSeeker, b *buffer.Buffer) error {
	data := make([]int, b.Len())
	for i, v := range b.Samples() {
		data[i] = int(math.Round(math.Max(-1, math.Min(1, v)) * math.MaxInt16))
	}

	enc := wav.NewEncoder(w, b.SampleRate(), 16, 1, wavFormatPCM)
	pcm := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: b.SampleRate(), NumChannels: 1},
		SourceBitDepth: 16,
	}
	if err := enc.Write(pcm); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}

// WriteWAVFile creates path and encodes b into it with WriteWAV.
func WriteWAVFile(path string, b *buffer.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteWAV(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
