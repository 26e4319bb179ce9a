package model

import (
	"math"

	"github.com/roman-mazur/filaments/observable"
)

// PolygonPath walks the edges of a regular N-gon. With a non-zero Resolution
// the position along each edge snaps to multiples of 1/Resolution, which
// gives the faceted look; zero means continuous interpolation.
type PolygonPath struct {
	N          *observable.Value[int]
	Frequency  *observable.Value[float64]
	Radius     *observable.Value[float64]
	Resolution *observable.Value[int]
}

func NewPolygonPath(n int, frequency, radius float64, resolution int) *PolygonPath {
	return &PolygonPath{
		N:          observable.NewValue(n),
		Frequency:  observable.NewValue(frequency),
		Radius:     observable.NewValue(radius),
		Resolution: observable.NewValue(resolution),
	}
}

func (p *PolygonPath) Name() string { return PolygonName }

// Eval ignores offset. Vertex angles are index/n and (index+1)/n turns with no
// modulo, so frequencies above one wind past a full turn; cos and sin absorb it.
func (p *PolygonPath) Eval(phase, offset float64) Point {
	n := float64(p.N.Get())
	phaseN := phase * p.Frequency.Get() * n
	index := math.Floor(phaseN)
	angleA := index / n * TAU
	angleB := (index + 1) / n * TAU
	radius := p.Radius.Get()
	ax, ay := math.Cos(angleA)*radius, math.Sin(angleA)*radius
	bx, by := math.Cos(angleB)*radius, math.Sin(angleB)*radius

	ratio := phaseN - index
	if resolution := float64(p.Resolution.Get()); resolution != 0 {
		ratio = math.Round(ratio*resolution) / resolution
	}
	return Point{
		X: ax + ratio*(bx-ax),
		Y: ay + ratio*(by-ay),
	}
}

func (p *PolygonPath) Serialize() PathFormat {
	return PathFormat{
		Name:       PolygonName,
		N:          p.N.Get(),
		Frequency:  p.Frequency.Get(),
		Radius:     p.Radius.Get(),
		Resolution: p.Resolution.Get(),
	}
}

func (p *PolygonPath) Deserialize(format PathFormat) error {
	if err := checkName(PolygonName, format); err != nil {
		return err
	}
	p.N.Set(format.N)
	p.Frequency.Set(format.Frequency)
	p.Radius.Set(format.Radius)
	p.Resolution.Set(format.Resolution)
	return nil
}

func (p *PolygonPath) AddObserver(fn func()) observable.Terminable {
	var t observable.Terminator
	t.With(p.N.AddObserver(func(int) { fn() }, false))
	t.With(p.Frequency.AddObserver(func(float64) { fn() }, false))
	t.With(p.Radius.AddObserver(func(float64) { fn() }, false))
	t.With(p.Resolution.AddObserver(func(int) { fn() }, false))
	return &t
}
