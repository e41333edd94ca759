package schedule

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-voxlab/dsp/buffer"
	"github.com/cwbudde/algo-voxlab/dsp/core"
	"github.com/cwbudde/algo-voxlab/dsp/psola"
	"github.com/cwbudde/algo-voxlab/dsp/splice"
	"github.com/cwbudde/algo-voxlab/phoneme"
)

// Voice supplies recordings and their base pitches. *voice.Voice
// implements it.
type Voice interface {
	SampleRate() int
	Sample(p phoneme.Phoneme) (*buffer.Buffer, error)
	BasePitch(p phoneme.Phoneme) (float64, error)
}

// Resynthesizer changes the pitch of buf by pitchRatio and its duration by
// timeStretch. psola.Resynthesize is the default.
type Resynthesizer func(buf *buffer.Buffer, pitchRatio, timeStretch float64) (*buffer.Buffer, error)

// RenderOption configures Render.
type RenderOption func(*renderer)

type renderer struct {
	resynth Resynthesizer
	splice  []splice.Option
	log     *slog.Logger
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) RenderOption {
	return func(r *renderer) {
		if logger != nil {
			r.log = logger
		}
	}
}

// WithResynthesizer replaces the per-event resynthesis.
func WithResynthesizer(fn Resynthesizer) RenderOption {
	return func(r *renderer) {
		if fn != nil {
			r.resynth = fn
		}
	}
}

// WithSpliceOptions sets the options passed to every splice.Crossfade.
func WithSpliceOptions(opts ...splice.Option) RenderOption {
	return func(r *renderer) {
		r.splice = append(r.splice, opts...)
	}
}

func newRenderer(opts []RenderOption) *renderer {
	r := &renderer{
		resynth: func(buf *buffer.Buffer, pitchRatio, timeStretch float64) (*buffer.Buffer, error) {
			return psola.Resynthesize(buf, pitchRatio, timeStretch)
		},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.log = r.log.With(slog.String("component", "schedule"))
	return r
}

// Render resynthesizes every event at its target pitch and length and
// joins the results in order. When an event carries an Interp its output
// is not emitted directly: it is crossfaded into the next event's output
// and the blend takes its place, so chained transitions compose.
func (tl Timeline) Render(v Voice, opts ...RenderOption) (*buffer.Buffer, error) {
	r := newRenderer(opts)

	var (
		parts   []*buffer.Buffer
		pending *buffer.Buffer
		interp  *splice.GrainInterp
		prevID  InstanceID
	)
	for _, ev := range tl.Events {
		cur, err := r.renderEvent(v, ev)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", ev.InstanceID, err)
		}

		if pending != nil && interp != nil {
			pending, err = splice.Crossfade(pending, cur, *interp, r.splice...)
			if err != nil {
				return nil, fmt.Errorf("render %s -> %s: %w", prevID, ev.InstanceID, err)
			}
		} else {
			if pending != nil {
				parts = append(parts, pending)
			}
			pending = cur
		}
		interp = ev.Interp
		prevID = ev.InstanceID

		r.log.Debug("rendered event",
			slog.String("instance", ev.InstanceID.String()),
			slog.String("phoneme", ev.Source.FileStem()),
			slog.Int("samples", cur.Len()))
	}
	if pending != nil {
		parts = append(parts, pending)
	}

	head, err := buffer.Zeros(v.SampleRate(), 0)
	if err != nil {
		return nil, err
	}
	return buffer.Concat(head, parts...)
}

func (r *renderer) renderEvent(v Voice, ev GrainEvent) (*buffer.Buffer, error) {
	sample, err := v.Sample(ev.Source)
	if err != nil {
		return nil, err
	}
	if ev.Source.IsSilence() {
		n := int(math.Round(float64(sample.Len()) * ev.Length))
		return buffer.Zeros(v.SampleRate(), n)
	}

	base, err := v.BasePitch(ev.Source)
	if err != nil {
		return nil, err
	}
	ratio := core.SemitoneRatio(ev.Pitch - base)
	return r.resynth(sample, ratio, ev.Length)
}
