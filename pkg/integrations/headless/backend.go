package headless

import (
	"github.com/pkg/errors"

	"pointerapp/pkg/window"
)

// Sample is the pointer input for one scripted frame
type Sample struct {
	Pointer window.Point
	Present bool
}

// At returns a sample with the pointer at (x, y)
func At(x, y float64) Sample {
	return Sample{Pointer: window.Point{X: x, Y: y}, Present: true}
}

// Away returns a sample with no pointer over the surface
func Away() Sample {
	return Sample{}
}

// TextCall is one recorded Surface.Text call
type TextCall struct {
	Pos   window.Point
	Align window.Align
	Text  string
	Font  window.Font
	Color window.Color
}

// Backend replays scripted pointer samples and records what gets painted.
// Once the script is exhausted the last sample repeats; the window closes
// after CloseAfter frames when it is non-zero.
type Backend struct {
	Script     []Sample
	CloseAfter int

	// FailAt makes BeginFrame return an error on that frame (1-based)
	FailAt int

	Frames [][]TextCall

	title   string
	opened  bool
	closed  bool
	current []TextCall
}

// NewBackend creates a headless backend replaying script
func NewBackend(script ...Sample) *Backend {
	return &Backend{Script: script}
}

func (b *Backend) Open(title string) error {
	if b.opened {
		return errors.New("headless window already open")
	}
	b.title = title
	b.opened = true
	return nil
}

// Title returns the title the window was opened with
func (b *Backend) Title() string {
	return b.title
}

func (b *Backend) BeginFrame() (window.Context, error) {
	if !b.opened {
		return nil, errors.New("headless window not open")
	}

	n := len(b.Frames)
	if b.FailAt > 0 && n+1 == b.FailAt {
		return nil, errors.Errorf("scripted failure at frame %d", b.FailAt)
	}

	var sample Sample
	switch {
	case n < len(b.Script):
		sample = b.Script[n]
	case len(b.Script) > 0:
		sample = b.Script[len(b.Script)-1]
	}

	b.current = nil
	return window.NewFrame(sample.Pointer, sample.Present, b), nil
}

// Text implements window.Surface
func (b *Backend) Text(pos window.Point, align window.Align, text string, font window.Font, color window.Color) error {
	b.current = append(b.current, TextCall{Pos: pos, Align: align, Text: text, Font: font, Color: color})
	return nil
}

func (b *Backend) EndFrame() error {
	b.Frames = append(b.Frames, b.current)
	if b.CloseAfter > 0 && len(b.Frames) >= b.CloseAfter {
		b.closed = true
	}
	return nil
}

func (b *Backend) Closed() bool {
	return b.closed
}

func (b *Backend) Name() string {
	return "headless"
}

func (b *Backend) Close() error {
	b.opened = false
	return nil
}
