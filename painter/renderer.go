package painter

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/roman-mazur/filaments/model"
)

// Hue returns the stroke hue in degrees for a sample phase: a 60 degree band
// around cyan that swings once per sweep.
func Hue(phase float64) float64 {
	return 180 + math.Sin(phase*model.TAU)*30
}

// RenderFrame draws one frame of the scene at time t and returns the number
// of segments stroked. Each sample connects path 0 and path 1 at the same
// phase; the fractional part of t shears the two paths against each other.
func RenderFrame(s *Surface, scene *model.Scene, t float64) int {
	bounds := s.Bounds()
	s.Clear()
	s.ResetTransform()
	s.Translate(float64(bounds.Dx())/2, float64(bounds.Dy())/2)
	s.SetComposite(CompositeLighten)
	s.SetGlobalAlpha(scene.Alpha.Get())

	path0, path1 := scene.Path(0), scene.Path(1)
	saturation, brightness := scene.Saturation.Get(), scene.Brightness.Get()
	offset0 := math.Ceil(t) - t
	offset1 := t - math.Floor(t)

	n := scene.Resolution.Get()
	for i := 0; i < n; i++ {
		phase := float64(i) / float64(n)
		p0 := path0.Eval(phase, offset0)
		p1 := path1.Eval(phase, offset1)
		s.SetStrokeColor(colorful.Hsl(Hue(phase), saturation, brightness))
		s.StrokeLine(p0, p1)
	}
	return max(n, 0)
}
