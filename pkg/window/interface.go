package window

// Point is a position on the drawing surface, in the backend's native units
// (pixels for native windows, cells for terminals).
type Point struct {
	X float64
	Y float64
}

// Vec is an offset between two points
type Vec struct {
	X float64
	Y float64
}

// Add returns p shifted by v
func (p Point) Add(v Vec) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Align is the anchor of painted text relative to its position
type Align int

const (
	AlignLeftTop Align = iota
	AlignLeftBottom
	AlignCenter
)

// Font describes the font a backend should paint text with
type Font struct {
	Family string // "monospace" or an XLFD family name
	Size   float64
}

// Monospace returns the monospace font at the given size
func Monospace(size float64) Font {
	return Font{Family: "monospace", Size: size}
}

// Color is a non-premultiplied RGBA color
type Color struct {
	R, G, B, A uint8
}

var (
	White = Color{R: 255, G: 255, B: 255, A: 255}
	Black = Color{A: 255}
)

// Pixel packs the color into 0xRRGGBB, the layout used by TrueColor visuals
func (c Color) Pixel() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Surface is what an App paints on during a frame
type Surface interface {
	// Text paints a string at pos, anchored by align
	Text(pos Point, align Align, text string, font Font, color Color) error
}

// Context is handed to App.Update once per frame
type Context interface {
	// LatestPointer returns the latest known pointer position, or false
	// when the pointer is not over the surface
	LatestPointer() (Point, bool)

	// Surface returns the drawing surface for this frame
	Surface() Surface

	// RequestRepaint asks the host to run the next frame promptly
	RequestRepaint()
}

// App is the per-frame callback driven by the host loop
type App interface {
	Update(ctx Context)
}

// Backend is the interface every windowing integration must satisfy
type Backend interface {
	// Open creates the window (or screen) with the given title
	Open(title string) error

	// BeginFrame processes pending events, samples the pointer and clears
	// the surface. The returned Context is valid until EndFrame.
	BeginFrame() (Context, error)

	// EndFrame flushes everything painted since BeginFrame
	EndFrame() error

	// Closed reports whether the user asked to close the window
	Closed() bool

	// Name returns the backend type ("x11" or "terminal")
	Name() string

	// Close releases the window and the connection
	Close() error
}
