package ui

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	hudMargin     = 8
	hudLineHeight = 15
)

var (
	hudBackdrop = image.NewUniform(color.RGBA{A: 0xb0})
	hudText     = image.NewUniform(color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff})
	hudFocus    = image.NewUniform(color.RGBA{R: 0xff, G: 0xd0, B: 0x60, A: 0xff})
)

// Compose flattens bitmap onto black in dst and draws lines over its top-left
// corner. dst and bitmap are expected to share a size.
func Compose(dst *image.RGBA, bitmap *image.RGBA, lines []string) {
	xdraw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, xdraw.Src)
	if bitmap != nil {
		xdraw.Copy(dst, dst.Bounds().Min, bitmap, bitmap.Bounds(), xdraw.Over, nil)
	}
	drawLines(dst, lines)
}

func drawLines(dst *image.RGBA, lines []string) {
	if len(lines) == 0 {
		return
	}
	face := basicfont.Face7x13
	width := 0
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > width {
			width = w
		}
	}
	origin := dst.Bounds().Min
	backdrop := image.Rect(0, 0, width+2*hudMargin, len(lines)*hudLineHeight+2*hudMargin).Add(origin)
	xdraw.Draw(dst, backdrop.Intersect(dst.Bounds()), hudBackdrop, image.Point{}, xdraw.Over)

	d := &font.Drawer{Dst: dst, Face: face}
	for i, line := range lines {
		d.Src = hudText
		if len(line) > 0 && line[0] == '>' {
			d.Src = hudFocus
		}
		d.Dot = fixed.P(origin.X+hudMargin, origin.Y+hudMargin+i*hudLineHeight+face.Ascent)
		d.DrawString(line)
	}
}

// fitRect returns the largest rectangle of the aspect ratio of size that is
// centred in window.
func fitRect(window image.Rectangle, size image.Point) image.Rectangle {
	if size.X <= 0 || size.Y <= 0 || window.Empty() {
		return window
	}
	w, h := window.Dx(), window.Dy()
	if w*size.Y > h*size.X {
		w = h * size.X / size.Y
	} else {
		h = w * size.Y / size.X
	}
	min := window.Min.Add(image.Pt((window.Dx()-w)/2, (window.Dy()-h)/2))
	return image.Rectangle{Min: min, Max: min.Add(image.Pt(w, h))}
}
