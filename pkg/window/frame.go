package window

// Frame is the Context implementation shared by all backends
type Frame struct {
	pointer    Point
	hasPointer bool
	surface    Surface
	repaint    bool
}

// NewFrame builds the context for one frame. hasPointer is false when the
// backend has no pointer sample this frame.
func NewFrame(pointer Point, hasPointer bool, surface Surface) *Frame {
	return &Frame{
		pointer:    pointer,
		hasPointer: hasPointer,
		surface:    surface,
	}
}

func (f *Frame) LatestPointer() (Point, bool) {
	return f.pointer, f.hasPointer
}

func (f *Frame) Surface() Surface {
	return f.surface
}

func (f *Frame) RequestRepaint() {
	f.repaint = true
}

// RepaintRequested reports whether the app asked for another frame promptly
func (f *Frame) RepaintRequested() bool {
	return f.repaint
}
