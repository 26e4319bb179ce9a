// Package controls binds keyboard-adjustable controls to the observable
// parameters of a scene.
package controls

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roman-mazur/filaments/model"
	"github.com/roman-mazur/filaments/observable"
)

// Mapping prints a control value.
type Mapping func(v float64) string

var (
	Integer         Mapping = func(v float64) string { return strconv.Itoa(int(math.Round(v))) }
	FloatOne        Mapping = func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
	UnipolarPercent Mapping = func(v float64) string { return strconv.FormatFloat(v*100, 'f', 1, 64) + "%" }
)

// Control is a single labelled value the user can step up and down.
type Control interface {
	Label() string
	Text() string
	Adjust(steps int)
}

type Number interface {
	~int | ~float64
}

// Numeric steps an observable number within [Min, Max].
type Numeric[T Number] struct {
	label   string
	value   *observable.Value[T]
	mapping Mapping

	Step, Min, Max T
}

func NewNumeric[T Number](label string, value *observable.Value[T], mapping Mapping, step, min, max T) *Numeric[T] {
	return &Numeric[T]{label: label, value: value, mapping: mapping, Step: step, Min: min, Max: max}
}

func (n *Numeric[T]) Label() string { return n.label }

func (n *Numeric[T]) Text() string { return n.mapping(float64(n.value.Get())) }

// Adjust moves the value by steps increments and clamps it. Float values are
// snapped to the step grid so repeated stepping does not drift.
func (n *Numeric[T]) Adjust(steps int) {
	x := float64(n.value.Get()) + float64(steps)*float64(n.Step)
	if step := float64(n.Step); step != 0 {
		x = math.Round(x/step) * step
	}
	x = math.Max(float64(n.Min), math.Min(float64(n.Max), x))
	n.value.Set(T(x))
}

// Global builds the scene-wide controls.
func Global(scene *model.Scene) []Control {
	return []Control{
		NewNumeric("Path Count", scene.Resolution, Integer, 256, 0, 1<<16),
		NewNumeric("Brightness", scene.Brightness, UnipolarPercent, 0.01, 0, 1),
		NewNumeric("Saturation", scene.Saturation, UnipolarPercent, 0.01, 0, 1),
		NewNumeric("Alpha", scene.Alpha, UnipolarPercent, 0.005, 0, 1),
	}
}

// ForPath builds the controls of a path's own parameters. Unknown path
// implementations get none.
func ForPath(path model.Path) []Control {
	switch p := path.(type) {
	case *model.CirclePath:
		return []Control{
			NewNumeric("Freq", p.Frequency, FloatOne, 1, -64, 64),
			NewNumeric("Radius", p.Radius, FloatOne, 8, 0, 4096),
		}
	case *model.PolygonPath:
		return []Control{
			NewNumeric("N", p.N, Integer, 1, 3, 64),
			NewNumeric("Freq", p.Frequency, FloatOne, 1, -64, 64),
			NewNumeric("Radius", p.Radius, FloatOne, 8, 0, 4096),
			NewNumeric("Resolution", p.Resolution, Integer, 1, 0, 256),
		}
	default:
		return nil
	}
}

// TypeSwitch cycles the variant held by a scene slot. Every switch installs a
// fresh path with default parameters.
type TypeSwitch struct {
	label string
	scene *model.Scene
	slot  int
}

func NewTypeSwitch(label string, scene *model.Scene, slot int) *TypeSwitch {
	return &TypeSwitch{label: label, scene: scene, slot: slot}
}

func (s *TypeSwitch) Label() string { return s.label }

func (s *TypeSwitch) Text() string {
	name := s.scene.Path(s.slot).Name()
	return strings.ToUpper(name[:1]) + name[1:]
}

func (s *TypeSwitch) Adjust(steps int) {
	current := 0
	name := s.scene.Path(s.slot).Name()
	for i, v := range model.Variants {
		if v == name {
			current = i
		}
	}
	// one variant per adjustment regardless of the step multiplier
	dir := 1
	if steps < 0 {
		dir = -1
	} else if steps == 0 {
		return
	}
	n := len(model.Variants)
	next := ((current+dir)%n + n) % n
	p, err := model.NewPath(model.Variants[next])
	if err != nil {
		panic(fmt.Sprintf("controls: listed variant is not constructible: %v", err))
	}
	s.scene.SetPath(s.slot, p)
}
