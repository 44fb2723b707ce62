package annotator

import (
	"log"
	"time"

	"pointerapp/internal/config"
	"pointerapp/pkg/window"
)

// Observer is notified when the idle annotation appears or disappears.
// It cannot influence the state machine.
type Observer interface {
	AnnotationShown(at window.Point, lastMove, shownAt time.Time)
	AnnotationHidden(hiddenAt time.Time)
}

// Label is the text painted near the pointer and how it looks
type Label struct {
	Text   string
	Offset window.Vec
	Font   window.Font
	Color  window.Color
}

// IdleLabel returns the label painted by the idle variant
func IdleLabel(cfg *config.Config) Label {
	return Label{
		Text:   cfg.Annotation.IdleMessage,
		Offset: cfg.Annotation.Offset,
		Font:   window.Monospace(cfg.Annotation.FontSize),
		Color:  cfg.Annotation.Color,
	}
}

// DecorativeLabel returns the label painted by the decorative variants
func DecorativeLabel(cfg *config.Config) Label {
	l := IdleLabel(cfg)
	l.Text = cfg.Annotation.DecorativeMessage
	return l
}

// paint draws the label at pos + offset, anchored at its top-left corner
func (l Label) paint(s window.Surface, pos window.Point) error {
	return s.Text(pos.Add(l.Offset), window.AlignLeftTop, l.Text, l.Font, l.Color)
}

// Idle is the idle-pointer annotator: it shows its label only after the
// pointer has stayed still for the idle threshold.
type Idle struct {
	label     Label
	threshold time.Duration
	now       func() time.Time
	observer  Observer
	state     *State
	lastErr   string
}

// Option configures an Idle annotator
type Option func(*Idle)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(a *Idle) {
		a.now = now
	}
}

// WithObserver registers an observer for visibility transitions
func WithObserver(o Observer) Option {
	return func(a *Idle) {
		a.observer = o
	}
}

// NewIdle creates the idle annotator with a fresh state
func NewIdle(label Label, threshold time.Duration, opts ...Option) *Idle {
	a := &Idle{
		label:     label,
		threshold: threshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.state = NewState(a.now())
	return a
}

// State returns the annotator's state
func (a *Idle) State() *State {
	return a.state
}

// Update implements window.App
func (a *Idle) Update(ctx window.Context) {
	now := a.now()
	pos, ok := ctx.LatestPointer()

	_, tr := Step(a.state, pos, ok, now, a.threshold)
	a.notify(tr, now)

	if a.state.Visible {
		a.report(a.label.paint(ctx.Surface(), a.state.Position))
	}

	ctx.RequestRepaint()
}

func (a *Idle) notify(tr Transition, now time.Time) {
	if a.observer == nil {
		return
	}
	switch tr {
	case Shown:
		a.observer.AnnotationShown(a.state.Position, a.state.LastMove, now)
	case Hidden:
		a.observer.AnnotationHidden(now)
	}
}

// report logs paint failures once per distinct error
func (a *Idle) report(err error) {
	if err == nil {
		a.lastErr = ""
		return
	}
	if err.Error() != a.lastErr {
		log.Printf("Failed to paint annotation: %v", err)
		a.lastErr = err.Error()
	}
}

// Decorative paints its label next to the pointer on every frame that has a
// pointer sample. There is no timer and no movement tracking.
type Decorative struct {
	label    Label
	position window.Point
}

// NewDecorative creates the always-visible annotator
func NewDecorative(label Label) *Decorative {
	return &Decorative{label: label}
}

// Position returns the last sampled pointer position
func (d *Decorative) Position() window.Point {
	return d.position
}

// Update implements window.App
func (d *Decorative) Update(ctx window.Context) {
	if pos, ok := ctx.LatestPointer(); ok {
		d.position = pos
		if err := d.label.paint(ctx.Surface(), pos); err != nil {
			log.Printf("Failed to paint label: %v", err)
		}
	}

	ctx.RequestRepaint()
}
