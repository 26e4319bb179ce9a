// Package model holds the parametric paths and the scene that the painter
// evaluates, together with their serialized formats.
package model

import (
	"fmt"
	"math"

	"github.com/roman-mazur/filaments/observable"
	"seehuhn.de/go/geom/vec"
)

// TAU is a full turn in radians.
const TAU = 2 * math.Pi

// Variant names used as the PathFormat discriminant.
const (
	CircleName  = "circle"
	PolygonName = "polygon"
)

// Variants lists every known path variant in display order.
var Variants = []string{CircleName, PolygonName}

// Point is a position in the scene, with the origin at the surface centre.
type Point = vec.Vec2

// Path is a closed curve sampled by phase in [0, 1).
//
// Eval must be free of side effects: the renderer calls it thousands of times
// per frame.
type Path interface {
	Name() string
	Eval(phase, offset float64) Point
	Serialize() PathFormat
	Deserialize(format PathFormat) error
	// AddObserver calls fn after any numeric field of the path changes.
	AddObserver(fn func()) observable.Terminable
}

// PathFormat is the serialized form of any path. Name selects the variant;
// fields a variant does not use are left at zero.
type PathFormat struct {
	Name       string  `json:"name"`
	N          int     `json:"n,omitempty"`
	Frequency  float64 `json:"frequency"`
	Radius     float64 `json:"radius"`
	Resolution int     `json:"resolution,omitempty"`
}

// UnknownVariantError reports a PathFormat whose name matches no variant.
type UnknownVariantError struct {
	Name string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown path variant %q", e.Name)
}

// NewPath creates a path of the named variant with default parameters.
func NewPath(name string) (Path, error) {
	switch name {
	case CircleName:
		return NewCirclePath(1, 256), nil
	case PolygonName:
		return NewPolygonPath(3, 1, 256, 0), nil
	default:
		return nil, &UnknownVariantError{Name: name}
	}
}

// PathFromFormat creates the variant named by format and loads its fields.
func PathFromFormat(format PathFormat) (Path, error) {
	p, err := NewPath(format.Name)
	if err != nil {
		return nil, err
	}
	if err := p.Deserialize(format); err != nil {
		return nil, err
	}
	return p, nil
}

func checkName(want string, format PathFormat) error {
	if format.Name != want {
		return fmt.Errorf("%s path cannot load %q format: %w", want, format.Name, &UnknownVariantError{Name: format.Name})
	}
	return nil
}
