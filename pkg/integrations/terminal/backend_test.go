package terminal

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"pointerapp/pkg/window"
)

func newSimBackend(t *testing.T) (*Backend, tcell.SimulationScreen) {
	t.Helper()

	sim := tcell.NewSimulationScreen("UTF-8")
	b, err := NewBackend(sim, window.Black)
	if err != nil {
		t.Fatalf("NewBackend() error: %v", err)
	}
	if err := b.Open("Pointer App"); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b, sim
}

func rowText(sim tcell.SimulationScreen, row, col, n int) string {
	cells, w, _ := sim.GetContents()
	out := ""
	for i := 0; i < n; i++ {
		out += string(cells[row*w+col+i].Bytes)
	}
	return out
}

func TestBackendInterface(t *testing.T) {
	var _ window.Backend = (*Backend)(nil)
	var _ window.Surface = (*Backend)(nil)
}

func TestOpenSetsTitle(t *testing.T) {
	b, sim := newSimBackend(t)
	if sim.GetTitle() != "Pointer App" {
		t.Errorf("title = %q, want Pointer App", sim.GetTitle())
	}
	if err := b.Open("again"); err == nil {
		t.Error("second Open() returned nil error")
	}
	if b.Name() != "terminal" {
		t.Errorf("Name() = %s, want terminal", b.Name())
	}
}

func TestPointerSamples(t *testing.T) {
	b, sim := newSimBackend(t)

	ctx, err := b.BeginFrame()
	if err != nil {
		t.Fatalf("BeginFrame() error: %v", err)
	}
	if _, ok := ctx.LatestPointer(); ok {
		t.Error("pointer present before any mouse event")
	}
	b.EndFrame()

	sim.InjectMouse(5, 7, tcell.ButtonNone, tcell.ModNone)
	ctx, _ = b.BeginFrame()
	pos, ok := ctx.LatestPointer()
	if !ok || pos != (window.Point{X: 5, Y: 7}) {
		t.Errorf("LatestPointer() = %v, %v, want (5,7) true", pos, ok)
	}
	b.EndFrame()

	sim.PostEvent(tcell.NewEventFocus(false))
	ctx, _ = b.BeginFrame()
	if _, ok := ctx.LatestPointer(); ok {
		t.Error("pointer present while the terminal is unfocused")
	}
	b.EndFrame()

	sim.PostEvent(tcell.NewEventFocus(true))
	ctx, _ = b.BeginFrame()
	if pos, ok := ctx.LatestPointer(); !ok || pos != (window.Point{X: 5, Y: 7}) {
		t.Errorf("after refocus LatestPointer() = %v, %v", pos, ok)
	}
	b.EndFrame()
}

func TestTextIsPainted(t *testing.T) {
	b, sim := newSimBackend(t)

	ctx, _ := b.BeginFrame()
	err := ctx.Surface().Text(window.Point{X: 15, Y: 15}, window.AlignLeftTop, "here", window.Monospace(16), window.White)
	if err != nil {
		t.Fatalf("Text() error: %v", err)
	}
	if err := b.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error: %v", err)
	}

	if got := rowText(sim, 15, 15, 4); got != "here" {
		t.Errorf("cells at (15,15) = %q, want here", got)
	}

	// the next frame starts from a clear screen
	b.BeginFrame()
	b.EndFrame()
	if got := rowText(sim, 15, 15, 4); got != "    " {
		t.Errorf("cells at (15,15) after clear = %q, want blanks", got)
	}
}

func TestTextClipsOffscreen(t *testing.T) {
	b, _ := newSimBackend(t)

	ctx, _ := b.BeginFrame()
	err := ctx.Surface().Text(window.Point{X: 78, Y: 30}, window.AlignLeftTop, "clipped", window.Monospace(16), window.White)
	if err != nil {
		t.Errorf("Text() error: %v", err)
	}
	b.EndFrame()
}

func TestCloseKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
	}{
		{"escape", tcell.KeyEscape, 0},
		{"ctrl-c", tcell.KeyCtrlC, 0},
		{"q", tcell.KeyRune, 'q'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, sim := newSimBackend(t)
			sim.InjectKey(tt.key, tt.r, tcell.ModNone)
			b.BeginFrame()
			if !b.Closed() {
				t.Error("Closed() = false after close key")
			}
		})
	}
}

func TestCell(t *testing.T) {
	tests := []struct {
		name    string
		align   window.Align
		wantCol int
		wantRow int
	}{
		{"left top", window.AlignLeftTop, 15, 15},
		{"left bottom", window.AlignLeftBottom, 15, 14},
		{"center", window.AlignCenter, 13, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row := cell(window.Point{X: 15, Y: 15}, tt.align, 4)
			if col != tt.wantCol || row != tt.wantRow {
				t.Errorf("cell() = (%d, %d), want (%d, %d)", col, row, tt.wantCol, tt.wantRow)
			}
		})
	}
}
