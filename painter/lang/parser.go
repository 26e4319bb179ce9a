package lang

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/roman-mazur/filaments/model"
)

// Command changes the scene.
type Command interface {
	Apply(scene *model.Scene) error
}

type SetResolution struct{ Value int }

func (c SetResolution) Apply(scene *model.Scene) error {
	scene.Resolution.Set(c.Value)
	return nil
}

type SetAlpha struct{ Value float64 }

func (c SetAlpha) Apply(scene *model.Scene) error {
	scene.Alpha.Set(c.Value)
	return nil
}

type SetSaturation struct{ Value float64 }

func (c SetSaturation) Apply(scene *model.Scene) error {
	scene.Saturation.Set(c.Value)
	return nil
}

type SetBrightness struct{ Value float64 }

func (c SetBrightness) Apply(scene *model.Scene) error {
	scene.Brightness.Set(c.Value)
	return nil
}

// SetPath installs a fresh path built from Format into slot Slot.
type SetPath struct {
	Slot   int
	Format model.PathFormat
}

func (c SetPath) Apply(scene *model.Scene) error {
	p, err := model.PathFromFormat(c.Format)
	if err != nil {
		return err
	}
	scene.SetPath(c.Slot, p)
	return nil
}

// Reset restores the startup scene.
type Reset struct{}

func (Reset) Apply(scene *model.Scene) error {
	_, err := scene.Deserialize(model.DefaultSceneFormat())
	return err
}

// Parse parses a single command line.
func Parse(commandLine string) (Command, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, errors.New("empty command")
	}

	command := fields[0]
	args := fields[1:]

	switch command {
	case "resolution":
		if len(args) != 1 {
			return nil, errors.New("resolution command requires 1 argument (segments)")
		}
		v, err := parseInt(args[0], 0)
		if err != nil {
			return nil, fmt.Errorf("resolution: %w", err)
		}
		return SetResolution{Value: v}, nil
	case "alpha", "saturation", "brightness":
		if len(args) != 1 {
			return nil, fmt.Errorf("%s command requires 1 argument (0.0-1.0)", command)
		}
		v, err := parseUnit(args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", command, err)
		}
		switch command {
		case "alpha":
			return SetAlpha{Value: v}, nil
		case "saturation":
			return SetSaturation{Value: v}, nil
		default:
			return SetBrightness{Value: v}, nil
		}
	case model.CircleName:
		if len(args) != 3 {
			return nil, errors.New("circle command requires 3 arguments (slot frequency radius)")
		}
		slot, err := parseSlot(args[0])
		if err != nil {
			return nil, err
		}
		freq, radius, err := parseFreqRadius(args[1], args[2])
		if err != nil {
			return nil, fmt.Errorf("circle: %w", err)
		}
		return SetPath{Slot: slot, Format: model.PathFormat{
			Name:      model.CircleName,
			Frequency: freq,
			Radius:    radius,
		}}, nil
	case model.PolygonName:
		if len(args) != 4 && len(args) != 5 {
			return nil, errors.New("polygon command requires 4 or 5 arguments (slot n frequency radius [resolution])")
		}
		slot, err := parseSlot(args[0])
		if err != nil {
			return nil, err
		}
		n, err := parseInt(args[1], 3)
		if err != nil {
			return nil, fmt.Errorf("polygon n: %w", err)
		}
		freq, radius, err := parseFreqRadius(args[2], args[3])
		if err != nil {
			return nil, fmt.Errorf("polygon: %w", err)
		}
		resolution := 0
		if len(args) == 5 {
			if resolution, err = parseInt(args[4], 0); err != nil {
				return nil, fmt.Errorf("polygon resolution: %w", err)
			}
		}
		return SetPath{Slot: slot, Format: model.PathFormat{
			Name:       model.PolygonName,
			N:          n,
			Frequency:  freq,
			Radius:     radius,
			Resolution: resolution,
		}}, nil
	case "reset":
		if len(args) != 0 {
			return nil, errors.New("reset command takes no arguments")
		}
		return Reset{}, nil
	default:
		return nil, errors.New("unknown command: " + command)
	}
}

// ParseScript parses one command per line. Blank lines and lines starting
// with '#' are skipped. Nothing is returned if any line fails.
func ParseScript(r io.Reader) ([]Command, error) {
	scanner := bufio.NewScanner(r)
	var commands []Command
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cmd, err := Parse(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		commands = append(commands, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading commands: %w", err)
	}
	return commands, nil
}

// ApplyAll applies commands in order and stops at the first failure.
func ApplyAll(scene *model.Scene, commands []Command) error {
	for i, cmd := range commands {
		if err := cmd.Apply(scene); err != nil {
			return fmt.Errorf("command %d: %w", i+1, err)
		}
	}
	return nil
}

func parseInt(arg string, min int) (int, error) {
	v, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.New("invalid integer: " + arg)
	}
	if v < min {
		return 0, fmt.Errorf("value %d below %d", v, min)
	}
	return v, nil
}

func parseFloat(arg string) (float64, error) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("invalid number: " + arg)
	}
	return v, nil
}

func parseUnit(arg string) (float64, error) {
	v, err := parseFloat(arg)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 1 {
		return 0, errors.New("value out of range (0.0-1.0): " + arg)
	}
	return v, nil
}

func parseSlot(arg string) (int, error) {
	slot, err := strconv.Atoi(arg)
	if err != nil || slot < 0 || slot > 1 {
		return 0, errors.New("invalid path slot (0 or 1): " + arg)
	}
	return slot, nil
}

func parseFreqRadius(freqArg, radiusArg string) (float64, float64, error) {
	freq, err := parseFloat(freqArg)
	if err != nil {
		return 0, 0, err
	}
	radius, err := parseFloat(radiusArg)
	if err != nil {
		return 0, 0, err
	}
	if radius < 0 {
		return 0, 0, errors.New("negative radius: " + radiusArg)
	}
	return freq, radius, nil
}
