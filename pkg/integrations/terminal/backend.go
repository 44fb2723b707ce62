package terminal

import (
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"

	"pointerapp/pkg/window"
)

// Backend implements window.Backend on a terminal screen. Coordinates are
// cells; font descriptors are ignored since the terminal picks the font.
type Backend struct {
	screen tcell.Screen
	bg     window.Color

	pointer    window.Point
	hasPointer bool
	focused    bool

	opened bool
	closed bool
}

// NewBackend wraps screen. A nil screen opens the controlling terminal.
func NewBackend(screen tcell.Screen, bg window.Color) (*Backend, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create terminal screen")
		}
		screen = s
	}

	return &Backend{
		screen:  screen,
		bg:      bg,
		focused: true,
	}, nil
}

func (b *Backend) Open(title string) error {
	if b.opened {
		return errors.New("terminal screen already open")
	}

	if err := b.screen.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize terminal screen")
	}
	b.opened = true

	b.screen.SetTitle(title)
	b.screen.EnableMouse(tcell.MouseMotionEvents)
	b.screen.EnableFocus()
	b.screen.HideCursor()
	b.screen.SetStyle(b.style(b.bg))
	b.screen.Fill(' ', b.style(b.bg))

	w, h := b.screen.Size()
	log.Printf("Opened %dx%d terminal screen %q", w, h, title)
	return nil
}

// BeginFrame drains pending terminal events without blocking
func (b *Backend) BeginFrame() (window.Context, error) {
	if !b.opened {
		return nil, errors.New("terminal screen not open")
	}

	for b.screen.HasPendingEvent() {
		ev := b.screen.PollEvent()
		if ev == nil {
			b.closed = true
			break
		}
		b.handle(ev)
	}

	b.screen.Fill(' ', b.style(b.bg))

	return window.NewFrame(b.pointer, b.hasPointer && b.focused, b), nil
}

func (b *Backend) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		x, y := ev.Position()
		b.pointer = window.Point{X: float64(x), Y: float64(y)}
		b.hasPointer = true

	case *tcell.EventFocus:
		b.focused = ev.Focused

	case *tcell.EventResize:
		w, h := ev.Size()
		if b.pointer.X >= float64(w) || b.pointer.Y >= float64(h) {
			b.hasPointer = false
		}
		b.screen.Sync()

	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			b.closed = true
		}
	}
}

// Text implements window.Surface. Cells outside the screen are clipped.
func (b *Backend) Text(pos window.Point, align window.Align, text string, _ window.Font, color window.Color) error {
	style := b.style(color)

	col, row := cell(pos, align, runewidth.StringWidth(text))
	for _, r := range text {
		b.screen.SetContent(col, row, r, nil, style)
		col += runewidth.RuneWidth(r)
	}
	return nil
}

// cell converts an anchored position to the top-left cell of the text
func cell(pos window.Point, align window.Align, width int) (int, int) {
	col, row := int(pos.X), int(pos.Y)
	switch align {
	case window.AlignLeftBottom:
		row--
	case window.AlignCenter:
		col -= width / 2
	}
	return col, row
}

func (b *Backend) style(fg window.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(tcellColor(fg)).Background(tcellColor(b.bg))
}

func tcellColor(c window.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (b *Backend) EndFrame() error {
	if !b.opened {
		return errors.New("terminal screen not open")
	}
	b.screen.Show()
	return nil
}

func (b *Backend) Closed() bool {
	return b.closed
}

func (b *Backend) Name() string {
	return "terminal"
}

// Close restores the terminal
func (b *Backend) Close() error {
	if b.opened {
		b.screen.Fini()
		b.opened = false
	}
	return nil
}
