package painter

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/roman-mazur/filaments/model"
)

// ErrProtocolViolation marks a message that arrived out of contract, such as
// an update before init.
var ErrProtocolViolation = errors.New("render protocol violation")

// Message is an instruction processed by the render worker, one at a time and
// in arrival order.
type Message interface {
	// Do applies the message to the worker state. Messages that respond
	// return the rendered bitmap or the error that prevented it.
	Do(c *Context) (bitmap *image.RGBA, err error)
	// Responds reports whether the worker must post a Result for the message.
	Responds() bool
}

// Result is the worker's reply to a responding message. Ownership of Bitmap
// passes to whoever receives the Result.
type Result struct {
	Bitmap *image.RGBA
	Err    error
}

// Context is the state owned by the render worker goroutine. It is never
// shared with the UI side; scenes reach it only in serialized form.
type Context struct {
	Surface *Surface
	Scene   *model.Scene
}

// InitMessage allocates the drawing surface. It must precede every update.
type InitMessage struct {
	Width, Height int
}

func (m InitMessage) Do(c *Context) (*image.RGBA, error) {
	if m.Width <= 0 || m.Height <= 0 {
		return nil, fmt.Errorf("%w: init with surface %dx%d", ErrProtocolViolation, m.Width, m.Height)
	}
	log.Printf("InitMessage.Do: Allocating %dx%d surface", m.Width, m.Height)
	c.Surface = NewSurface(m.Width, m.Height)
	if c.Scene == nil {
		c.Scene = model.NewScene()
	}
	return nil, nil
}

func (m InitMessage) Responds() bool { return false }

// UpdateMessage renders one frame of Format at Time.
type UpdateMessage struct {
	Format model.SceneFormat
	Time   float64
}

func (m UpdateMessage) Do(c *Context) (*image.RGBA, error) {
	if c.Surface == nil {
		return nil, fmt.Errorf("%w: update before init", ErrProtocolViolation)
	}
	if _, err := c.Scene.Deserialize(m.Format); err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	segments := RenderFrame(c.Surface, c.Scene, m.Time)
	log.Printf("UpdateMessage.Do: Rendered %d segments", segments)
	return c.Surface.TransferToBitmap(), nil
}

func (m UpdateMessage) Responds() bool { return true }
