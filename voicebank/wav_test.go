package voicebank

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-voxlab/dsp/buffer"
	"github.com/cwbudde/algo-voxlab/internal/testutil"
)

func writeRawWAV(t *testing.T, path string, rate, depth, chans int, data []int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, depth, chans, 1)
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: rate, NumChannels: chans},
		SourceBitDepth: depth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	in, _ := buffer.FromSlice(22050, testutil.DeterministicSine(220, 22050, 0.7, 4000))

	if err := WriteWAVFile(path, in); err != nil {
		t.Fatalf("WriteWAVFile() error = %v", err)
	}
	out, err := ReadWAVFile(path)
	if err != nil {
		t.Fatalf("ReadWAVFile() error = %v", err)
	}
	if out.SampleRate() != 22050 {
		t.Fatalf("sample rate = %d, want 22050", out.SampleRate())
	}
	testutil.RequireSliceNearlyEqual(t, out.Samples(), in.Samples(), 2.0/32768)
}

func TestWriteWAVClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loud.wav")
	in, _ := buffer.FromSlice(8000, []float64{2, -3, 0.5})

	if err := WriteWAVFile(path, in); err != nil {
		t.Fatalf("WriteWAVFile() error = %v", err)
	}
	out, err := ReadWAVFile(path)
	if err != nil {
		t.Fatalf("ReadWAVFile() error = %v", err)
	}
	want := []float64{32767.0 / 32768, -32767.0 / 32768, 16384.0 / 32768}
	testutil.RequireSliceNearlyEqual(t, out.Samples(), want, 1e-12)
}

func TestReadWAV24Bit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep.wav")
	writeRawWAV(t, path, 48000, 24, 1, []int{0, 1 << 22, -(1 << 23)})

	out, err := ReadWAVFile(path)
	if err != nil {
		t.Fatalf("ReadWAVFile() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out.Samples(), []float64{0, 0.5, -1}, 1e-12)
}

func TestReadWAVRejects(t *testing.T) {
	dir := t.TempDir()

	stereo := filepath.Join(dir, "stereo.wav")
	writeRawWAV(t, stereo, 8000, 16, 2, []int{1, 2, 3, 4})
	if _, err := ReadWAVFile(stereo); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("stereo error = %v, want ErrUnsupportedFormat", err)
	}

	bytes8 := filepath.Join(dir, "eight.wav")
	writeRawWAV(t, bytes8, 8000, 8, 1, []int{1, 2, 3, 4})
	if _, err := ReadWAVFile(bytes8); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("8-bit error = %v, want ErrUnsupportedFormat", err)
	}

	junk := filepath.Join(dir, "junk.wav")
	if err := os.WriteFile(junk, []byte("definitely not RIFF data"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := ReadWAVFile(junk); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("junk error = %v, want ErrUnsupportedFormat", err)
	}

	if _, err := ReadWAVFile(filepath.Join(dir, "missing.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing error = %v, want os.ErrNotExist", err)
	}
}

func TestWriteWAVRoundsToNearest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.wav")
	in, _ := buffer.FromSlice(8000, []float64{0.4 / 32767, 0.6 / 32767})
	if err := WriteWAVFile(path, in); err != nil {
		t.Fatalf("WriteWAVFile() error = %v", err)
	}
	out, _ := ReadWAVFile(path)
	if out.Samples()[0] != 0 || math.Abs(out.Samples()[1]-1.0/32768) > 1e-15 {
		t.Fatalf("samples = %v", out.Samples())
	}
}
