package x11

import (
	"fmt"
	"log"
	"math"

	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"pointerapp/pkg/window"
)

// fallbackFont is guaranteed to exist on every X server
const fallbackFont = "fixed"

type font struct {
	id      xproto.Font
	name    string
	ascent  int16
	descent int16
	advance int16 // width of one character cell
}

// xlfd returns the core font patterns to try for f, most specific first
func xlfd(f window.Font) []string {
	px := int(math.Round(f.Size))
	family := f.Family
	if family == "" || family == "monospace" {
		family = "fixed"
	}
	return []string{
		fmt.Sprintf("-*-%s-medium-r-normal--%d-*-*-*-c-*-iso8859-1", family, px),
		fmt.Sprintf("-*-%s-medium-r-*--%d-*-*-*-*-*-iso8859-1", family, px),
		fmt.Sprintf("-*-*-medium-r-*--%d-*-*-*-m-*-iso8859-1", px),
		fallbackFont,
	}
}

// font opens (once) the best matching core font for f
func (b *Backend) font(f window.Font) (*font, error) {
	if fnt, ok := b.fonts[f.Size]; ok {
		return fnt, nil
	}

	fid, err := xproto.NewFontId(b.conn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to allocate font id")
	}

	var opened string
	for _, name := range xlfd(f) {
		if err := xproto.OpenFontChecked(b.conn, fid, uint16(len(name)), name).Check(); err == nil {
			opened = name
			break
		}
	}
	if opened == "" {
		return nil, errors.Errorf("no core font available for size %g", f.Size)
	}

	reply, err := xproto.QueryFont(b.conn, xproto.Fontable(fid)).Reply()
	if err != nil {
		xproto.CloseFont(b.conn, fid)
		return nil, errors.Wrapf(err, "failed to query font %s", opened)
	}

	fnt := &font{
		id:      fid,
		name:    opened,
		ascent:  reply.FontAscent,
		descent: reply.FontDescent,
		advance: reply.MaxBounds.CharacterWidth,
	}
	b.fonts[f.Size] = fnt

	log.Printf("Loaded font %s (ascent %d, descent %d)", opened, fnt.ascent, fnt.descent)
	return fnt, nil
}

// origin converts an anchored position into the baseline origin core text
// requests expect
func (f *font) origin(pos window.Point, align window.Align, n int) (int16, int16) {
	x := pos.X
	y := pos.Y

	switch align {
	case window.AlignLeftTop:
		y += float64(f.ascent)
	case window.AlignLeftBottom:
		y -= float64(f.descent)
	case window.AlignCenter:
		x -= float64(int(f.advance)*n) / 2
		y += float64(f.ascent-f.descent) / 2
	}

	return clamp16(x), clamp16(y)
}

func clamp16(v float64) int16 {
	v = math.Round(v)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// latin1 encodes s for 8-bit core text requests, replacing characters the
// charset cannot represent
func latin1(s string) []byte {
	enc := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}
