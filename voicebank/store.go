// Package voicebank stores voice recordings on disk as WAV files and
// describes voices with a YAML manifest.
package voicebank

import (
	"path/filepath"

	"github.com/cwbudde/algo-voxlab/dsp/buffer"
	"github.com/cwbudde/algo-voxlab/phoneme"
)

// Store loads recordings named <kind>_<ipa>.wav from a directory.
// It implements voice.Loader.
type Store struct {
	root string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the store directory.
func (s *Store) Root() string { return s.root }

// Path returns the file that holds p's recording.
func (s *Store) Path(p phoneme.Phoneme) string {
	return filepath.Join(s.root, p.FileStem()+".wav")
}

// Load reads p's recording.
func (s *Store) Load(p phoneme.Phoneme) (*buffer.Buffer, error) {
	return ReadWAVFile(s.Path(p))
}

// Save writes b as p's recording.
func (s *Store) Save(p phoneme.Phoneme, b *buffer.Buffer) error {
	return WriteWAVFile(s.Path(p), b)
}
