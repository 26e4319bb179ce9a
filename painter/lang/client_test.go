package lang_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roman-mazur/filaments/model"
	"github.com/roman-mazur/filaments/painter/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	scene := model.NewScene()
	server := httptest.NewServer(lang.HttpHandler(scene))
	defer server.Close()

	require.NoError(t, lang.Send(context.Background(), server.Client(), server.URL, "resolution 100\nbrightness 1\n"))
	assert.Equal(t, 100, scene.Resolution.Get())
	assert.Equal(t, 1.0, scene.Brightness.Get())

	err := lang.Send(context.Background(), server.Client(), server.URL, "brightness 2\n")
	assert.ErrorContains(t, err, "400")
	assert.Equal(t, 1.0, scene.Brightness.Get())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, lang.Send(ctx, http.DefaultClient, server.URL, "reset\n"))
}
