package voicebank

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-voxlab/dsp/core"
	"github.com/cwbudde/algo-voxlab/phoneme"
	"github.com/cwbudde/algo-voxlab/voice"
)

// Manifest describes a voice:
//
//	sample_rate: 44100
//	root: samples
//	known_pitches:
//	  vowel_ɑ: 57.2
//
// Root is resolved against the manifest's directory when relative. Known
// pitches are MIDI notes keyed by anything phoneme.Parse accepts.
type Manifest struct {
	SampleRate   int                `yaml:"sample_rate"`
	Root         string             `yaml:"root"`
	KnownPitches map[string]float64 `yaml:"known_pitches"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (Manifest, error) {
	var m Manifest

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, fmt.Errorf("manifest not found: %w", err)
		}
		return m, fmt.Errorf("failed to read manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if m.Root == "" {
		m.Root = "."
	}
	if !filepath.IsAbs(m.Root) {
		m.Root = filepath.Join(filepath.Dir(path), m.Root)
	}
	if err := m.validate(); err != nil {
		return m, err
	}
	return m, nil
}

func (m Manifest) validate() error {
	if m.SampleRate <= 0 {
		return fmt.Errorf("manifest: %w: sample_rate must be positive, got %d", core.ErrInvalidParameter, m.SampleRate)
	}
	_, err := m.Pitches()
	return err
}

// Pitches parses KnownPitches into phoneme keys.
func (m Manifest) Pitches() (map[phoneme.Phoneme]float64, error) {
	out := make(map[phoneme.Phoneme]float64, len(m.KnownPitches))
	for name, note := range m.KnownPitches {
		p, err := phoneme.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("manifest: known_pitches: %w", err)
		}
		out[p] = note
	}
	return out, nil
}

// Voice builds a Voice backed by a Store at the manifest root, seeded
// with the manifest's known pitches.
func (m Manifest) Voice(logger *slog.Logger, opts ...voice.Option) (*voice.Voice, error) {
	pitches, err := m.Pitches()
	if err != nil {
		return nil, err
	}
	opts = append([]voice.Option{voice.WithKnownPitches(pitches), voice.WithLogger(logger)}, opts...)
	return voice.New(NewStore(m.Root), m.SampleRate, opts...)
}
