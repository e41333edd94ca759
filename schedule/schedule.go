// Package schedule turns an ordered list of phoneme instances into a
// render plan and renders it against a voice.
package schedule

import (
	"fmt"

	"github.com/cwbudde/algo-voxlab/dsp/core"
	"github.com/cwbudde/algo-voxlab/dsp/splice"
	"github.com/cwbudde/algo-voxlab/phoneme"
)

// InstanceID identifies a PhonemeInstance within its score. It prints as
// P<index>.
type InstanceID int

func (id InstanceID) String() string { return fmt.Sprintf("P%d", int(id)) }

// TransitionOptions requests a crossfade into the following instance.
type TransitionOptions struct {
	LengthGrains int `yaml:"length_grains"`
}

// PhonemeOptions holds per-instance hints.
type PhonemeOptions struct {
	NextTransition *TransitionOptions `yaml:"next_transition"`
}

// PhonemeInstance is one occurrence of a phoneme in a score. Pitch is a
// MIDI note number; Length multiplies the recording's duration.
type PhonemeInstance struct {
	ID           InstanceID      `yaml:"-"`
	Phoneme      phoneme.Phoneme `yaml:"phoneme"`
	SteadyGrains int             `yaml:"steady_grains"`
	Length       float64         `yaml:"length"`
	Pitch        float64         `yaml:"pitch"`
	Options      PhonemeOptions  `yaml:",inline"`
}

// Validate checks the instance's own invariants.
func (p PhonemeInstance) Validate() error {
	if !core.IsFinitePositive(p.Length) {
		return fmt.Errorf("%s: %w: length %f", p.ID, core.ErrInvalidParameter, p.Length)
	}
	if p.SteadyGrains < 0 {
		return fmt.Errorf("%s: %w: steady grains %d", p.ID, core.ErrInvalidParameter, p.SteadyGrains)
	}
	if t := p.Options.NextTransition; t != nil {
		if t.LengthGrains <= 0 {
			return fmt.Errorf("%s: %w: transition of %d grains", p.ID, core.ErrInvalidParameter, t.LengthGrains)
		}
		if t.LengthGrains > p.SteadyGrains {
			return fmt.Errorf("%s: %w: transition of %d grains exceeds %d steady grains",
				p.ID, core.ErrInvalidParameter, t.LengthGrains, p.SteadyGrains)
		}
	}
	return nil
}

// GrainEvent is a resolved render instruction. Interp is set when the
// event's output crossfades into the next event's.
type GrainEvent struct {
	InstanceID InstanceID
	Source     phoneme.Phoneme
	Length     float64
	Pitch      float64
	Interp     *splice.GrainInterp
}

// Timeline is the ordered, voice-agnostic render plan.
type Timeline struct {
	Events []GrainEvent
}

// Schedule maps instances one-to-one onto events. An event carries an
// Interp only when its instance requests a transition and is not the last
// one. Every instance is validated first.
func Schedule(instances []PhonemeInstance) (Timeline, error) {
	for _, inst := range instances {
		if err := inst.Validate(); err != nil {
			return Timeline{}, fmt.Errorf("schedule: %w", err)
		}
	}

	events := make([]GrainEvent, len(instances))
	for i, inst := range instances {
		ev := GrainEvent{
			InstanceID: inst.ID,
			Source:     inst.Phoneme,
			Length:     inst.Length,
			Pitch:      inst.Pitch,
		}
		if t := inst.Options.NextTransition; t != nil && i+1 < len(instances) {
			ev.Interp = &splice.GrainInterp{TargetGrain: i, FadeLen: t.LengthGrains}
		}
		events[i] = ev
	}
	return Timeline{Events: events}, nil
}
