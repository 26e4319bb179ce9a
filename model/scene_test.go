package model_test

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/roman-mazur/filaments/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScene_Defaults(t *testing.T) {
	s := model.NewScene()
	assert.Equal(t, model.DefaultSceneFormat(), s.Serialize())
	assert.NoError(t, s.Serialize().Validate())
}

func TestScene_RoundTrip(t *testing.T) {
	formats := []model.SceneFormat{
		model.DefaultSceneFormat(),
		{
			Paths: [2]model.PathFormat{
				{Name: model.CircleName, Frequency: 2, Radius: 300},
				{Name: model.PolygonName, N: 6, Frequency: 0.5, Radius: 128, Resolution: 4},
			},
			Resolution: 17,
			Alpha:      1,
			Saturation: 0,
			Brightness: 0.33,
		},
	}
	for _, f := range formats {
		s, err := model.NewScene().Deserialize(f)
		require.NoError(t, err)
		assert.Equal(t, f, s.Serialize())

		again, err := s.Deserialize(s.Serialize())
		require.NoError(t, err)
		assert.Same(t, s, again)
		assert.Equal(t, f, again.Serialize())
	}
}

func TestScene_JSON(t *testing.T) {
	data, err := json.Marshal(model.DefaultSceneFormat())
	require.NoError(t, err)

	var decoded model.SceneFormat
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, model.DefaultSceneFormat(), decoded)
	assert.Contains(t, string(data), `"name":"polygon"`)
}

func TestScene_DeserializeUnknownVariantLeavesSceneUntouched(t *testing.T) {
	s := model.NewScene()
	before := s.Serialize()
	first := s.Path(0)

	f := model.DefaultSceneFormat()
	f.Paths[1] = model.PathFormat{Name: "triangle"}
	f.Alpha = 0.9

	_, err := s.Deserialize(f)
	var unknown *model.UnknownVariantError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "triangle", unknown.Name)
	assert.Equal(t, before, s.Serialize())
	assert.Same(t, first, s.Path(0))
}

func TestScene_DeserializeSwitchesVariant(t *testing.T) {
	s := model.NewScene()
	f := s.Serialize()
	f.Paths[0] = model.PathFormat{Name: model.CircleName, Frequency: 3, Radius: 10}

	_, err := s.Deserialize(f)
	require.NoError(t, err)
	c, ok := s.Path(0).(*model.CirclePath)
	require.True(t, ok)
	assert.Equal(t, 3.0, c.Frequency.Get())
}

func TestScene_AddObserverFollowsSlotReplacement(t *testing.T) {
	s := model.NewScene()
	calls := 0
	sub := s.AddObserver(func() { calls++ })

	old := s.Path(1).(*model.PolygonPath)
	old.Frequency.Set(12)
	assert.Equal(t, 1, calls)

	circle := model.NewCirclePath(1, 64)
	s.SetPath(1, circle)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, old.Frequency.Observers(), "outgoing path must be released")

	old.Frequency.Set(13)
	assert.Equal(t, 2, calls)

	circle.Radius.Set(65)
	assert.Equal(t, 3, calls)

	s.Alpha.Set(0.5)
	assert.Equal(t, 4, calls)

	sub.Terminate()
	circle.Radius.Set(66)
	s.Resolution.Set(3)
	assert.Equal(t, 4, calls)
	assert.Equal(t, 0, circle.Radius.Observers())
	assert.Equal(t, 0, s.Paths[1].Observers())
}

func TestSceneFormat_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *model.SceneFormat)
		valid  bool
	}{
		{"defaults", func(f *model.SceneFormat) {}, true},
		{"zero resolution", func(f *model.SceneFormat) { f.Resolution = 0 }, true},
		{"negative resolution", func(f *model.SceneFormat) { f.Resolution = -1 }, false},
		{"alpha above one", func(f *model.SceneFormat) { f.Alpha = 1.5 }, false},
		{"negative brightness", func(f *model.SceneFormat) { f.Brightness = -0.1 }, false},
		{"degenerate polygon", func(f *model.SceneFormat) { f.Paths[0].N = 2 }, false},
		{"negative polygon resolution", func(f *model.SceneFormat) { f.Paths[1].Resolution = -2 }, false},
		{"unknown variant", func(f *model.SceneFormat) { f.Paths[1].Name = "spiral" }, false},
		{"NaN alpha", func(f *model.SceneFormat) { f.Alpha = math.NaN() }, false},
		{"NaN saturation", func(f *model.SceneFormat) { f.Saturation = math.NaN() }, false},
		{"infinite brightness", func(f *model.SceneFormat) { f.Brightness = math.Inf(1) }, false},
		{"NaN frequency", func(f *model.SceneFormat) { f.Paths[0].Frequency = math.NaN() }, false},
		{"infinite radius", func(f *model.SceneFormat) { f.Paths[1].Radius = math.Inf(-1) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := model.DefaultSceneFormat()
			tt.modify(&f)
			err := f.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, model.ErrInvalidFormat)
			}
		})
	}
}

func randomPathFormat(rng *rand.Rand) model.PathFormat {
	freq := (rng.Float64() - 0.5) * 64
	radius := rng.Float64() * 4096
	if rng.Intn(2) == 0 {
		return model.PathFormat{Name: model.CircleName, Frequency: freq, Radius: radius}
	}
	return model.PathFormat{
		Name:       model.PolygonName,
		N:          3 + rng.Intn(62),
		Frequency:  freq,
		Radius:     radius,
		Resolution: rng.Intn(257),
	}
}

func TestScene_RandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	scene := model.NewScene()
	for i := 0; i < 500; i++ {
		f := model.SceneFormat{
			Paths:      [2]model.PathFormat{randomPathFormat(rng), randomPathFormat(rng)},
			Resolution: rng.Intn(1 << 14),
			Alpha:      rng.Float64(),
			Saturation: rng.Float64(),
			Brightness: rng.Float64(),
		}
		require.NoError(t, f.Validate())

		_, err := scene.Deserialize(f)
		require.NoError(t, err)
		require.Equal(t, f, scene.Serialize(), "iteration %d", i)

		fresh, err := model.NewScene().Deserialize(scene.Serialize())
		require.NoError(t, err)
		require.Equal(t, f, fresh.Serialize(), "iteration %d", i)
	}
}

func TestScene_ConcurrentSlotReplacementKeepsCurrentPathObserved(t *testing.T) {
	s := model.NewScene()
	stale := model.NewCirclePath(1, 10)
	entered := make(chan struct{})
	proceed := make(chan struct{})
	// runs before the scene observer in every round of slot 1
	s.Paths[1].AddObserver(func(p model.Path) {
		if p == model.Path(stale) {
			close(entered)
			<-proceed
		}
	}, false)

	var calls atomic.Int32
	sub := s.AddObserver(func() { calls.Add(1) })
	defer sub.Terminate()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.SetPath(1, stale)
	}()
	<-entered

	latest := model.NewCirclePath(2, 20)
	s.SetPath(1, latest)
	close(proceed)
	<-done

	require.Same(t, latest, s.Path(1))
	assert.Equal(t, 1, latest.Radius.Observers())
	assert.Equal(t, 0, stale.Radius.Observers())

	before := calls.Load()
	latest.Radius.Set(99)
	assert.Equal(t, before+1, calls.Load(), "edits to the held path still notify")
}

func TestScene_DeserializeNotifiesPerParameter(t *testing.T) {
	s := model.NewScene()
	target := model.SceneFormat{
		Paths: [2]model.PathFormat{
			{Name: model.PolygonName, N: 5, Frequency: 2, Radius: 50, Resolution: 3},
			{Name: model.CircleName, Frequency: -1, Radius: 70},
		},
		Resolution: 77,
		Alpha:      0.3,
		Saturation: 0.4,
		Brightness: 0.5,
	}

	var seen []model.SceneFormat
	sub := s.AddObserver(func() { seen = append(seen, s.Serialize()) })
	defer sub.Terminate()

	_, err := s.Deserialize(target)
	require.NoError(t, err)

	require.Len(t, seen, 6, "one notification per applied parameter")
	assert.Equal(t, target.Paths[0], seen[0].Paths[0])
	assert.NotEqual(t, target, seen[0], "first notification sees a partly applied scene")
	assert.Equal(t, target, seen[len(seen)-1])
}
