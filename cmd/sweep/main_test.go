package main

import (
	"testing"

	"github.com/roman-mazur/filaments/model"
	"github.com/roman-mazur/filaments/painter/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepScript(t *testing.T) {
	assert.Equal(t, "polygon 1 4 1.000 256.0", stepScript(0, 40))
	assert.Equal(t, "polygon 1 4 21.000 256.0", stepScript(39, 40))
	assert.Equal(t, "polygon 1 4 1.000 256.0", stepScript(0, 1))

	cmd, err := lang.Parse(stepScript(10, 21))
	require.NoError(t, err)
	assert.Equal(t, lang.SetPath{Slot: 1, Format: model.PathFormat{
		Name: model.PolygonName, N: 4, Frequency: 11, Radius: 256,
	}}, cmd)
}
