package ui

import (
	"image"
	"image/color"
	"log"
	"sync"

	"github.com/roman-mazur/filaments/controls"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// bitmapEvent carries a rendered frame into the window's event loop.
type bitmapEvent struct {
	bitmap *image.RGBA
}

// Visualizer shows rendered frames in a window together with the control
// panel, and routes arrow keys to the panel.
type Visualizer struct {
	Title         string
	Width, Height int
	Panel         *controls.Panel

	// OnReady, if set, is called once the window exists.
	OnReady func()

	mu      sync.Mutex
	pw      screen.Window
	pending *image.RGBA
	closed  bool

	s    screen.Screen
	tx   screen.Texture
	sz   size.Event
	last *image.RGBA
}

// Update takes ownership of bitmap and schedules it for display. It is safe
// to call from any goroutine; frames arriving before the window opens are
// held until it does, and only the latest is kept. Frames arriving after
// the window closed are dropped.
func (v *Visualizer) Update(bitmap *image.RGBA) {
	if bitmap == nil {
		log.Println("Visualizer.Update: Received nil bitmap, ignoring.")
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case v.closed:
		log.Println("Visualizer.Update: Window is closed, dropping frame.")
	case v.pw == nil:
		v.pending = bitmap
	default:
		// Send only queues the event; holding mu keeps detach from
		// releasing the window underneath it.
		v.pw.Send(bitmapEvent{bitmap: bitmap})
	}
}

// attach makes w the target of Update and hands it any held frame.
func (v *Visualizer) attach(w screen.Window) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pw = w
	if v.pending != nil {
		w.Send(bitmapEvent{bitmap: v.pending})
		v.pending = nil
	}
}

// detach stops Update from reaching the window. It must run before the
// window is released.
func (v *Visualizer) detach() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pw = nil
	v.pending = nil
	v.closed = true
}

// Main runs the window event loop until the window closes or Escape is pressed.
func (v *Visualizer) Main() {
	driver.Main(func(s screen.Screen) {
		w, err := s.NewWindow(&screen.NewWindowOptions{
			Title:  v.Title,
			Width:  v.Width,
			Height: v.Height,
		})
		if err != nil {
			log.Fatalf("Failed to create window: %v", err)
		}
		defer w.Release()
		v.s = s
		defer func() {
			if v.tx != nil {
				v.tx.Release()
			}
		}()

		v.attach(w)
		defer v.detach()
		if v.OnReady != nil {
			v.OnReady()
		}

		for {
			switch e := w.NextEvent().(type) {
			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}
				if e.Crosses(lifecycle.StageVisible) == lifecycle.CrossOn {
					w.Send(paint.Event{})
				}

			case size.Event:
				v.sz = e
				w.Send(paint.Event{})

			case bitmapEvent:
				v.last = e.bitmap
				v.present(w)

			case paint.Event:
				v.paint(w)

			case key.Event:
				if e.Direction == key.DirRelease {
					continue
				}
				if e.Code == key.CodeEscape {
					log.Println("Visualizer: Escape pressed, exiting")
					return
				}
				if v.handleKey(e) {
					v.present(w)
				}

			case error:
				log.Printf("Visualizer: System error event: %v", e)
			}
		}
	})
}

// handleKey reports whether the panel needs to be redrawn.
func (v *Visualizer) handleKey(e key.Event) bool {
	if v.Panel == nil {
		return false
	}
	steps := 1
	if e.Modifiers&key.ModShift != 0 {
		steps = 10
	}
	switch e.Code {
	case key.CodeUpArrow:
		v.Panel.Prev()
	case key.CodeDownArrow:
		v.Panel.Next()
	case key.CodeLeftArrow:
		v.Panel.Adjust(-steps)
	case key.CodeRightArrow:
		v.Panel.Adjust(steps)
	default:
		return false
	}
	return true
}

// present composes the last frame with the panel into the window texture.
func (v *Visualizer) present(w screen.Window) {
	if v.last == nil {
		return
	}
	sz := v.last.Bounds().Size()
	buf, err := v.s.NewBuffer(sz)
	if err != nil {
		log.Printf("Visualizer.present: Failed to create buffer: %v", err)
		return
	}
	defer buf.Release()

	var lines []string
	if v.Panel != nil {
		lines = v.Panel.Lines()
	}
	Compose(buf.RGBA(), v.last, lines)

	if v.tx == nil || v.tx.Size() != sz {
		if v.tx != nil {
			v.tx.Release()
		}
		if v.tx, err = v.s.NewTexture(sz); err != nil {
			log.Printf("Visualizer.present: Failed to create texture: %v", err)
			v.tx = nil
			return
		}
	}
	v.tx.Upload(image.Point{}, buf, buf.Bounds())
	w.Send(paint.Event{})
}

func (v *Visualizer) paint(w screen.Window) {
	bounds := v.sz.Bounds()
	w.Fill(bounds, color.Black, screen.Src)
	if v.tx != nil {
		w.Scale(fitRect(bounds, v.tx.Size()), v.tx, v.tx.Bounds(), screen.Src, nil)
	}
	w.Publish()
}
