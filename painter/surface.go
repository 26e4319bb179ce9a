package painter

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/roman-mazur/filaments/model"
	"seehuhn.de/go/geom/matrix"
)

// Composite selects how strokes combine with what is already on the surface.
type Composite int

const (
	CompositeSourceOver Composite = iota // stroke covers the destination
	CompositeLighten                     // per channel maximum, overlapping strokes intensify
)

// Surface is an off-screen drawing surface. It keeps a current transform,
// a global alpha, a composite mode and a stroke colour, like a 2D canvas
// context restricted to what the filament renderer needs.
//
// A Surface is owned by a single goroutine.
type Surface struct {
	img       *image.RGBA
	ctm       matrix.Matrix
	alpha     float64
	composite Composite
	stroke    colorful.Color
}

// NewSurface allocates a cleared surface of the given size.
func NewSurface(width, height int) *Surface {
	return &Surface{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		ctm:    matrix.Identity,
		alpha:  1,
		stroke: colorful.Color{},
	}
}

func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// Clear resets every pixel to transparent black.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

func (s *Surface) ResetTransform() { s.ctm = matrix.Identity }

// Translate moves the origin of subsequent drawing by (tx, ty) user units.
func (s *Surface) Translate(tx, ty float64) {
	s.ctm[4] += s.ctm[0]*tx + s.ctm[2]*ty
	s.ctm[5] += s.ctm[1]*tx + s.ctm[3]*ty
}

// SetGlobalAlpha sets the opacity applied to every stroke, clamped to [0, 1].
func (s *Surface) SetGlobalAlpha(a float64) {
	s.alpha = math.Max(0, math.Min(1, a))
}

func (s *Surface) SetComposite(c Composite) { s.composite = c }

func (s *Surface) SetStrokeColor(c colorful.Color) { s.stroke = c.Clamped() }

// TransferToBitmap hands the current pixels to the caller and continues with
// a fresh cleared buffer. The returned image is no longer referenced by s.
func (s *Surface) TransferToBitmap() *image.RGBA {
	bitmap := s.img
	s.img = image.NewRGBA(bitmap.Rect)
	return bitmap
}

// StrokeLine draws a one pixel wide anti-aliased segment from p0 to p1 in user
// space. A zero length segment draws nothing.
func (s *Surface) StrokeLine(p0, p1 model.Point) {
	x0, y0 := s.apply(p0)
	x1, y1 := s.apply(p1)
	s.hairline(x0, y0, x1, y1)
}

func (s *Surface) apply(p model.Point) (float64, float64) {
	m := s.ctm
	return m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]
}

// hairline walks the major axis one pixel centre at a time and splits the
// coverage between the two pixels straddling the line on the minor axis.
func (s *Surface) hairline(x0, y0, x1, y1 float64) {
	steep := math.Abs(y1-y0) > math.Abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}
	dx := x1 - x0
	if dx == 0 {
		return
	}
	gradient := (y1 - y0) / dx

	b := s.img.Rect
	major, minor := float64(b.Dx()), float64(b.Dy())
	if steep {
		major, minor = minor, major
	}
	if hi := math.Max(y0, y1); hi < -1 || math.Min(y0, y1) > minor+1 {
		return
	}
	first := math.Max(math.Ceil(x0-0.5), 0)
	last := math.Min(math.Floor(x1-0.5), major-1)
	for x := first; x <= last; x++ {
		y := y0 + gradient*(x+0.5-x0) - 0.5
		yi := math.Floor(y)
		f := y - yi
		if steep {
			s.plot(int(yi), int(x), 1-f)
			s.plot(int(yi)+1, int(x), f)
		} else {
			s.plot(int(x), int(yi), 1-f)
			s.plot(int(x), int(yi)+1, f)
		}
	}
}

func (s *Surface) plot(x, y int, coverage float64) {
	if coverage <= 0 || !(image.Point{X: x, Y: y}).In(s.img.Rect) {
		return
	}
	sa := s.alpha * coverage
	if sa <= 0 {
		return
	}
	i := s.img.PixOffset(x, y)
	px := s.img.Pix[i : i+4 : i+4]

	da := float64(px[3]) / 255
	src := [3]float64{s.stroke.R, s.stroke.G, s.stroke.B}
	for c := 0; c < 3; c++ {
		// premultiplied destination back to straight colour
		var cb float64
		if da > 0 {
			cb = float64(px[c]) / 255 / da
		}
		cs := src[c]
		mixed := cs
		if s.composite == CompositeLighten {
			mixed = (1-da)*cs + da*math.Max(cb, cs)
		}
		out := sa*mixed + (1-sa)*da*cb
		px[c] = toByte(out)
	}
	px[3] = toByte(sa + da*(1-sa))
}

func toByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v*255))))
}
