// Package phoneme identifies the phonemes a voice can sing.
//
// A Phoneme is a small comparable value and may be used as a map key. The
// synthesis packages only compare phonemes and ask whether one is silence.
package phoneme

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a phoneme.
type Kind uint8

const (
	KindSilence Kind = iota
	KindVowel
	KindConsonant
)

func (k Kind) String() string {
	switch k {
	case KindSilence:
		return "silence"
	case KindVowel:
		return "vowel"
	case KindConsonant:
		return "consonant"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ErrUnknown is returned when a name does not denote a phoneme.
var ErrUnknown = errors.New("unknown phoneme")

// Phoneme is a kind plus its IPA symbol. The zero value is Silence.
type Phoneme struct {
	kind Kind
	ipa  string
}

var (
	// Silence renders as zeros and has no recording.
	Silence = Phoneme{}

	// OpenBackUnrounded is the vowel ɑ.
	OpenBackUnrounded = Vowel("ɑ")
	// CloseFrontUnrounded is the vowel i.
	CloseFrontUnrounded = Vowel("i")
)

// Inventory lists the phonemes with a known IPA symbol.
var Inventory = []Phoneme{OpenBackUnrounded, CloseFrontUnrounded}

// Vowel returns the vowel with the given IPA symbol.
func Vowel(ipa string) Phoneme { return Phoneme{kind: KindVowel, ipa: ipa} }

// Consonant returns the consonant with the given IPA symbol.
func Consonant(ipa string) Phoneme { return Phoneme{kind: KindConsonant, ipa: ipa} }

// Kind returns the phoneme's class.
func (p Phoneme) Kind() Kind { return p.kind }

// IPA returns the IPA symbol, or "" for silence.
func (p Phoneme) IPA() string { return p.ipa }

// IsSilence reports whether p is Silence.
func (p Phoneme) IsSilence() bool { return p.kind == KindSilence }

// FileStem returns the recording name, e.g. "vowel_ɑ", or "silence".
func (p Phoneme) FileStem() string {
	if p.IsSilence() {
		return KindSilence.String()
	}
	return p.kind.String() + "_" + p.ipa
}

func (p Phoneme) String() string {
	if p.IsSilence() {
		return "_"
	}
	return "/" + p.ipa + "/"
}

// Parse accepts a file stem ("vowel_ɑ"), a bare symbol from Inventory
// ("ɑ"), or "_", "" and "silence" for Silence.
func Parse(s string) (Phoneme, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "_", KindSilence.String():
		return Silence, nil
	}

	if kind, sym, ok := strings.Cut(s, "_"); ok && sym != "" {
		switch kind {
		case KindVowel.String():
			return Vowel(sym), nil
		case KindConsonant.String():
			return Consonant(sym), nil
		}
	}

	for _, p := range Inventory {
		if p.ipa == s {
			return p, nil
		}
	}
	return Silence, fmt.Errorf("%w: %q", ErrUnknown, s)
}

// MarshalText encodes p as its file stem.
func (p Phoneme) MarshalText() ([]byte, error) {
	return []byte(p.FileStem()), nil
}

// UnmarshalText decodes any form accepted by Parse.
func (p *Phoneme) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
