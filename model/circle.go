package model

import (
	"math"

	"github.com/roman-mazur/filaments/observable"
)

// CirclePath runs around a circle centred on the origin, Frequency times per
// phase sweep.
type CirclePath struct {
	Frequency *observable.Value[float64]
	Radius    *observable.Value[float64]
}

func NewCirclePath(frequency, radius float64) *CirclePath {
	return &CirclePath{
		Frequency: observable.NewValue(frequency),
		Radius:    observable.NewValue(radius),
	}
}

func (p *CirclePath) Name() string { return CircleName }

func (p *CirclePath) Eval(phase, offset float64) Point {
	angle := (phase*p.Frequency.Get() + offset) * TAU
	radius := p.Radius.Get()
	return Point{
		X: math.Cos(angle) * radius,
		Y: math.Sin(angle) * radius,
	}
}

func (p *CirclePath) Serialize() PathFormat {
	return PathFormat{
		Name:      CircleName,
		Frequency: p.Frequency.Get(),
		Radius:    p.Radius.Get(),
	}
}

func (p *CirclePath) Deserialize(format PathFormat) error {
	if err := checkName(CircleName, format); err != nil {
		return err
	}
	p.Frequency.Set(format.Frequency)
	p.Radius.Set(format.Radius)
	return nil
}

func (p *CirclePath) AddObserver(fn func()) observable.Terminable {
	var t observable.Terminator
	t.With(p.Frequency.AddObserver(func(float64) { fn() }, false))
	t.With(p.Radius.AddObserver(func(float64) { fn() }, false))
	return &t
}
