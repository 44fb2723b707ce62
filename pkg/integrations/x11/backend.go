package x11

import (
	"encoding/binary"
	"fmt"
	"log"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"

	"pointerapp/pkg/window"
)

// Backend implements window.Backend with a native X11 window
type Backend struct {
	conn   *xgb.Conn
	screen *xproto.ScreenInfo
	win    xproto.Window
	gc     xproto.Gcontext
	atoms  map[string]xproto.Atom

	width  uint16
	height uint16
	bg     window.Color

	fonts  map[float64]*font
	pixels map[window.Color]uint32

	gcFont  xproto.Font
	gcPixel uint32

	closed bool
}

// NewBackend connects to the X server named by $DISPLAY. The window is not
// created until Open.
func NewBackend(width, height uint16, bg window.Color) (*Backend, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to X server")
	}

	return &Backend{
		conn:   conn,
		screen: xproto.Setup(conn).DefaultScreen(conn),
		atoms:  make(map[string]xproto.Atom),
		width:  width,
		height: height,
		bg:     bg,
		fonts:  make(map[float64]*font),
		pixels: make(map[window.Color]uint32),
	}, nil
}

var atomNames = []string{
	"WM_PROTOCOLS",
	"WM_DELETE_WINDOW",
	"_NET_WM_NAME",
	"UTF8_STRING",
}

func (b *Backend) internAtoms() error {
	for _, name := range atomNames {
		reply, err := xproto.InternAtom(b.conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return errors.Wrapf(err, "failed to intern atom %s", name)
		}
		b.atoms[name] = reply.Atom
	}
	return nil
}

// Open creates and maps the window
func (b *Backend) Open(title string) error {
	if b.win != 0 {
		return errors.New("x11 window already open")
	}

	if err := b.internAtoms(); err != nil {
		return err
	}

	win, err := xproto.NewWindowId(b.conn)
	if err != nil {
		return errors.Wrap(err, "failed to allocate window id")
	}

	bgPixel := b.pixel(b.bg)
	mask := uint32(xproto.CwBackPixel | xproto.CwEventMask)
	values := []uint32{
		bgPixel,
		xproto.EventMaskExposure | xproto.EventMaskStructureNotify,
	}

	err = xproto.CreateWindowChecked(b.conn, b.screen.RootDepth, win, b.screen.Root,
		0, 0, b.width, b.height, 0,
		xproto.WindowClassInputOutput, b.screen.RootVisual, mask, values).Check()
	if err != nil {
		return errors.Wrap(err, "failed to create window")
	}
	b.win = win

	b.setTitle(title)
	b.setProtocols()

	gc, err := xproto.NewGcontextId(b.conn)
	if err != nil {
		return errors.Wrap(err, "failed to allocate graphics context id")
	}
	err = xproto.CreateGCChecked(b.conn, gc, xproto.Drawable(win),
		xproto.GcForeground|xproto.GcBackground|xproto.GcGraphicsExposures,
		[]uint32{b.screen.WhitePixel, bgPixel, 0}).Check()
	if err != nil {
		return errors.Wrap(err, "failed to create graphics context")
	}
	b.gc = gc
	b.gcPixel = b.screen.WhitePixel

	if err := xproto.MapWindowChecked(b.conn, win).Check(); err != nil {
		return errors.Wrap(err, "failed to map window")
	}

	log.Printf("Opened %dx%d X11 window %q (0x%x)", b.width, b.height, title, uint32(win))
	return nil
}

func (b *Backend) setTitle(title string) {
	name := latin1(title)
	xproto.ChangeProperty(b.conn, xproto.PropModeReplace, b.win,
		xproto.AtomWmName, xproto.AtomString, 8, uint32(len(name)), name)
	xproto.ChangeProperty(b.conn, xproto.PropModeReplace, b.win,
		b.atoms["_NET_WM_NAME"], b.atoms["UTF8_STRING"], 8, uint32(len(title)), []byte(title))
}

// setProtocols asks the window manager to send WM_DELETE_WINDOW instead of
// killing the connection when the window is closed
func (b *Backend) setProtocols() {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, uint32(b.atoms["WM_DELETE_WINDOW"]))
	xproto.ChangeProperty(b.conn, xproto.PropModeReplace, b.win,
		b.atoms["WM_PROTOCOLS"], xproto.AtomAtom, 32, 1, data)
}

// BeginFrame drains pending events, samples the pointer and clears the window
func (b *Backend) BeginFrame() (window.Context, error) {
	if b.win == 0 {
		return nil, errors.New("x11 window not open")
	}

	b.drainEvents()

	pos, ok, err := b.queryPointer()
	if err != nil {
		return nil, err
	}

	xproto.ClearArea(b.conn, false, b.win, 0, 0, 0, 0)

	return window.NewFrame(pos, ok, b), nil
}

func (b *Backend) drainEvents() {
	for {
		ev, xerr := b.conn.PollForEvent()
		if ev == nil && xerr == nil {
			return
		}
		if xerr != nil {
			log.Printf("X11 error: %v", xerr)
			continue
		}

		switch e := ev.(type) {
		case xproto.ConfigureNotifyEvent:
			if e.Window == b.win {
				b.width, b.height = e.Width, e.Height
			}
		case xproto.ClientMessageEvent:
			if e.Type == b.atoms["WM_PROTOCOLS"] && e.Format == 32 &&
				len(e.Data.Data32) > 0 && xproto.Atom(e.Data.Data32[0]) == b.atoms["WM_DELETE_WINDOW"] {
				b.closed = true
			}
		case xproto.DestroyNotifyEvent:
			if e.Window == b.win {
				b.closed = true
			}
		}
	}
}

// queryPointer returns the pointer position relative to the window. There
// is no sample while the pointer is on another screen or outside the window.
func (b *Backend) queryPointer() (window.Point, bool, error) {
	reply, err := xproto.QueryPointer(b.conn, b.win).Reply()
	if err != nil {
		return window.Point{}, false, errors.Wrap(err, "failed to query pointer")
	}

	if !reply.SameScreen || !inside(reply.WinX, reply.WinY, b.width, b.height) {
		return window.Point{}, false, nil
	}

	return window.Point{X: float64(reply.WinX), Y: float64(reply.WinY)}, true, nil
}

func inside(x, y int16, width, height uint16) bool {
	return x >= 0 && y >= 0 && int(x) < int(width) && int(y) < int(height)
}

// Text implements window.Surface with a core font
func (b *Backend) Text(pos window.Point, align window.Align, text string, f window.Font, color window.Color) error {
	fnt, err := b.font(f)
	if err != nil {
		return err
	}

	encoded := latin1(text)
	if len(encoded) > 255 {
		encoded = encoded[:255]
	}

	x, y := fnt.origin(pos, align, len(encoded))
	b.useGC(fnt.id, b.pixel(color))

	xproto.ImageText8(b.conn, byte(len(encoded)), xproto.Drawable(b.win), b.gc, x, y, string(encoded))
	return nil
}

func (b *Backend) useGC(fid xproto.Font, pixel uint32) {
	if fid == b.gcFont && pixel == b.gcPixel {
		return
	}
	xproto.ChangeGC(b.conn, b.gc, xproto.GcForeground|xproto.GcFont, []uint32{pixel, uint32(fid)})
	b.gcFont, b.gcPixel = fid, pixel
}

// pixel resolves a color in the default colormap, falling back to the
// TrueColor layout when allocation fails
func (b *Backend) pixel(c window.Color) uint32 {
	if p, ok := b.pixels[c]; ok {
		return p
	}

	p := c.Pixel()
	reply, err := xproto.AllocColor(b.conn, b.screen.DefaultColormap,
		uint16(c.R)<<8|uint16(c.R), uint16(c.G)<<8|uint16(c.G), uint16(c.B)<<8|uint16(c.B)).Reply()
	if err != nil {
		log.Printf("Failed to allocate color %v, using 0x%06x: %v", c, p, err)
	} else {
		p = reply.Pixel
	}

	b.pixels[c] = p
	return p
}

// EndFrame waits for the server to process the frame's requests
func (b *Backend) EndFrame() error {
	if b.win == 0 {
		return errors.New("x11 window not open")
	}
	if _, err := xproto.GetInputFocus(b.conn).Reply(); err != nil {
		return errors.Wrap(err, "failed to sync with X server")
	}
	return nil
}

func (b *Backend) Closed() bool {
	return b.closed
}

func (b *Backend) Name() string {
	return "x11"
}

// Close releases fonts, the graphics context and the window, then closes
// the connection
func (b *Backend) Close() error {
	for _, f := range b.fonts {
		xproto.CloseFont(b.conn, f.id)
	}
	if b.gc != 0 {
		xproto.FreeGC(b.conn, b.gc)
	}
	if b.win != 0 {
		xproto.DestroyWindow(b.conn, b.win)
	}
	b.conn.Sync()
	b.conn.Close()
	return nil
}

// String describes the backend for logs
func (b *Backend) String() string {
	return fmt.Sprintf("x11 window 0x%x (%dx%d)", uint32(b.win), b.width, b.height)
}
