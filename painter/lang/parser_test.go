package lang_test

import (
	"strings"
	"testing"

	"github.com/roman-mazur/filaments/model"
	"github.com/roman-mazur/filaments/painter/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		commandLine string
		expected    lang.Command
		expectError bool
	}{
		{name: "resolution", commandLine: "resolution 512", expected: lang.SetResolution{Value: 512}},
		{name: "zero resolution", commandLine: "resolution 0", expected: lang.SetResolution{Value: 0}},
		{name: "alpha", commandLine: "alpha 0.1", expected: lang.SetAlpha{Value: 0.1}},
		{name: "saturation", commandLine: "saturation 1", expected: lang.SetSaturation{Value: 1}},
		{name: "brightness", commandLine: "brightness 0", expected: lang.SetBrightness{Value: 0}},
		{name: "reset", commandLine: "reset", expected: lang.Reset{}},
		{
			name:        "circle",
			commandLine: "circle 1 3 120",
			expected: lang.SetPath{Slot: 1, Format: model.PathFormat{
				Name: model.CircleName, Frequency: 3, Radius: 120,
			}},
		},
		{
			name:        "polygon without resolution",
			commandLine: "polygon 0 5 1 300",
			expected: lang.SetPath{Slot: 0, Format: model.PathFormat{
				Name: model.PolygonName, N: 5, Frequency: 1, Radius: 300,
			}},
		},
		{
			name:        "polygon with resolution and extra spaces",
			commandLine: "  polygon   1 4  -2 50   8 ",
			expected: lang.SetPath{Slot: 1, Format: model.PathFormat{
				Name: model.PolygonName, N: 4, Frequency: -2, Radius: 50, Resolution: 8,
			}},
		},

		{name: "empty", commandLine: "", expectError: true},
		{name: "whitespace", commandLine: "   ", expectError: true},
		{name: "unknown command", commandLine: "triangle 0 1 2", expectError: true},
		{name: "negative resolution", commandLine: "resolution -1", expectError: true},
		{name: "fractional resolution", commandLine: "resolution 1.5", expectError: true},
		{name: "resolution without value", commandLine: "resolution", expectError: true},
		{name: "alpha above one", commandLine: "alpha 1.5", expectError: true},
		{name: "brightness below zero", commandLine: "brightness -0.1", expectError: true},
		{name: "saturation not a number", commandLine: "saturation high", expectError: true},
		{name: "circle bad slot", commandLine: "circle 2 1 10", expectError: true},
		{name: "circle too few args", commandLine: "circle 0 1", expectError: true},
		{name: "circle negative radius", commandLine: "circle 0 1 -10", expectError: true},
		{name: "polygon with two sides", commandLine: "polygon 0 2 1 10", expectError: true},
		{name: "polygon too many args", commandLine: "polygon 0 3 1 10 4 5", expectError: true},
		{name: "polygon negative resolution", commandLine: "polygon 0 3 1 10 -4", expectError: true},
		{name: "reset with arguments", commandLine: "reset now", expectError: true},
		{name: "alpha NaN", commandLine: "alpha NaN", expectError: true},
		{name: "brightness infinite", commandLine: "brightness +Inf", expectError: true},
		{name: "circle NaN frequency", commandLine: "circle 0 NaN 100", expectError: true},
		{name: "circle infinite radius", commandLine: "circle 0 1 Inf", expectError: true},
		{name: "polygon infinite frequency", commandLine: "polygon 1 4 -Inf 10", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := lang.Parse(tt.commandLine)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cmd)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cmd)
		})
	}
}

func TestParseScript(t *testing.T) {
	script := `
# dense mesh
resolution 2048

circle 0 1 200
alpha 0.2
`
	commands, err := lang.ParseScript(strings.NewReader(script))
	require.NoError(t, err)
	assert.Equal(t, []lang.Command{
		lang.SetResolution{Value: 2048},
		lang.SetPath{Slot: 0, Format: model.PathFormat{Name: model.CircleName, Frequency: 1, Radius: 200}},
		lang.SetAlpha{Value: 0.2},
	}, commands)

	commands, err = lang.ParseScript(strings.NewReader("alpha 0.2\nbogus\n"))
	assert.ErrorContains(t, err, "line 2")
	assert.Nil(t, commands)
}

func TestApplyAll(t *testing.T) {
	scene := model.NewScene()
	oldPath := scene.Path(1)
	commands := []lang.Command{
		lang.SetResolution{Value: 64},
		lang.SetSaturation{Value: 0.1},
		lang.SetPath{Slot: 1, Format: model.PathFormat{Name: model.CircleName, Frequency: 7, Radius: 9}},
	}
	require.NoError(t, lang.ApplyAll(scene, commands))

	assert.Equal(t, 64, scene.Resolution.Get())
	assert.Equal(t, 0.1, scene.Saturation.Get())
	assert.NotSame(t, oldPath, scene.Path(1))
	assert.Equal(t, model.PathFormat{Name: model.CircleName, Frequency: 7, Radius: 9}, scene.Path(1).Serialize())

	require.NoError(t, lang.ApplyAll(scene, []lang.Command{lang.Reset{}}))
	assert.Equal(t, model.DefaultSceneFormat(), scene.Serialize())
}

func TestSetPath_UnknownVariant(t *testing.T) {
	scene := model.NewScene()
	before := scene.Serialize()

	err := lang.SetPath{Slot: 0, Format: model.PathFormat{Name: "spiral"}}.Apply(scene)
	var unknown *model.UnknownVariantError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "spiral", unknown.Name)
	assert.Equal(t, before, scene.Serialize())
}
