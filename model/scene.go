package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/roman-mazur/filaments/observable"
)

// ErrInvalidFormat is wrapped by SceneFormat.Validate.
var ErrInvalidFormat = errors.New("invalid scene format")

// SceneFormat is a complete, plain-data snapshot of a Scene. It is the only
// form in which a scene crosses from the UI side to the render worker.
type SceneFormat struct {
	Paths      [2]PathFormat `json:"paths"`
	Resolution int           `json:"resolution"`
	Alpha      float64       `json:"alpha"`
	Saturation float64       `json:"saturation"`
	Brightness float64       `json:"brightness"`
}

// DefaultSceneFormat returns the startup scene.
func DefaultSceneFormat() SceneFormat {
	return SceneFormat{
		Paths: [2]PathFormat{
			{Name: PolygonName, N: 4, Frequency: 1, Radius: 1024},
			{Name: PolygonName, N: 4, Frequency: 11, Radius: 256},
		},
		Resolution: 1 << 13,
		Alpha:      0.04,
		Saturation: 0.75,
		Brightness: 0.50,
	}
}

// Validate reports parameters outside their documented ranges. Deserialize
// does not call it; callers accepting external input do.
func (f SceneFormat) Validate() error {
	if f.Resolution < 0 {
		return fmt.Errorf("%w: resolution %d is negative", ErrInvalidFormat, f.Resolution)
	}
	units := []struct {
		name  string
		value float64
	}{{"alpha", f.Alpha}, {"saturation", f.Saturation}, {"brightness", f.Brightness}}
	for _, u := range units {
		// written so that NaN fails too
		if !(u.value >= 0 && u.value <= 1) {
			return fmt.Errorf("%w: %s %v outside [0, 1]", ErrInvalidFormat, u.name, u.value)
		}
	}
	for i, p := range f.Paths {
		if !finite(p.Frequency) || !finite(p.Radius) {
			return fmt.Errorf("%w: path %d has a non-finite frequency or radius", ErrInvalidFormat, i)
		}
		switch p.Name {
		case CircleName:
		case PolygonName:
			if p.N < 3 {
				return fmt.Errorf("%w: path %d has n = %d, need at least 3", ErrInvalidFormat, i, p.N)
			}
			if p.Resolution < 0 {
				return fmt.Errorf("%w: path %d has negative resolution", ErrInvalidFormat, i)
			}
		default:
			return fmt.Errorf("%w: path %d: %w", ErrInvalidFormat, i, &UnknownVariantError{Name: p.Name})
		}
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Scene owns two path slots and the global rendering parameters, each of
// which can be observed independently.
type Scene struct {
	Paths      [2]*observable.Value[Path]
	Resolution *observable.Value[int]
	Alpha      *observable.Value[float64]
	Saturation *observable.Value[float64]
	Brightness *observable.Value[float64]
}

// NewScene creates a scene holding the default parameters.
func NewScene() *Scene {
	return &Scene{
		Paths: [2]*observable.Value[Path]{
			observable.NewValue[Path](NewPolygonPath(4, 1, 1024, 0)),
			observable.NewValue[Path](NewPolygonPath(4, 11, 256, 0)),
		},
		Resolution: observable.NewValue(1 << 13),
		Alpha:      observable.NewValue(0.04),
		Saturation: observable.NewValue(0.75),
		Brightness: observable.NewValue(0.50),
	}
}

// Path returns the path currently installed in slot i.
func (s *Scene) Path(i int) Path {
	return s.Paths[i].Get()
}

func (s *Scene) Serialize() SceneFormat {
	return SceneFormat{
		Paths: [2]PathFormat{
			s.Paths[0].Get().Serialize(),
			s.Paths[1].Get().Serialize(),
		},
		Resolution: s.Resolution.Get(),
		Alpha:      s.Alpha.Get(),
		Saturation: s.Saturation.Get(),
		Brightness: s.Brightness.Get(),
	}
}

// Deserialize replaces both path slots with fresh instances built from the
// format and loads the scalar parameters. Both paths are built before
// anything is applied, so on error the scene is left untouched.
func (s *Scene) Deserialize(format SceneFormat) (*Scene, error) {
	var paths [2]Path
	for i, f := range format.Paths {
		p, err := PathFromFormat(f)
		if err != nil {
			return s, fmt.Errorf("path %d: %w", i, err)
		}
		paths[i] = p
	}
	for i, p := range paths {
		s.Paths[i].Set(p)
	}
	s.Resolution.Set(format.Resolution)
	s.Alpha.Set(format.Alpha)
	s.Saturation.Set(format.Saturation)
	s.Brightness.Set(format.Brightness)
	return s, nil
}

// SetPath installs p in slot i. Subscriptions held for the outgoing path
// through AddObserver are released before p is observed.
func (s *Scene) SetPath(i int, p Path) {
	s.Paths[i].Set(p)
}

// AddObserver calls fn whenever any parameter of the scene changes, including
// the fields of whichever paths are installed at the time.
func (s *Scene) AddObserver(fn func()) observable.Terminable {
	var t observable.Terminator
	t.With(s.Resolution.AddObserver(func(int) { fn() }, false))
	t.With(s.Alpha.AddObserver(func(float64) { fn() }, false))
	t.With(s.Saturation.AddObserver(func(float64) { fn() }, false))
	t.With(s.Brightness.AddObserver(func(float64) { fn() }, false))
	for _, slot := range s.Paths {
		t.With(observable.Attach(slot, func(p Path) observable.Terminable {
			return p.AddObserver(fn)
		}, fn))
	}
	return &t
}
