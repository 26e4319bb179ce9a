package painter

import (
	"context"
	"log"
	"sync"

	"github.com/roman-mazur/filaments/model"
)

// Source produces the scene snapshot to render.
type Source interface {
	Serialize() model.SceneFormat
}

// Renderer turns a snapshot into a bitmap asynchronously. Queue implements it.
type Renderer interface {
	Render(format model.SceneFormat) <-chan Result
}

// CoalescerStats counts what the coalescer did with its triggers.
type CoalescerStats struct {
	Requests  uint64 // render requests issued
	Coalesced uint64 // triggers folded into a pending follow-up render
	Failures  uint64 // results that carried an error
}

// Coalescer keeps at most one render in flight. Triggers that arrive while a
// render is running collapse into a single follow-up render of whatever the
// scene looks like when the running one completes.
//
// States: idle (working false), rendering (working, no pending change) and
// rendering with a pending change (working and changesPending).
type Coalescer struct {
	source   Source
	renderer Renderer
	receiver Receiver

	mu             sync.Mutex
	idle           *sync.Cond
	working        bool
	changesPending bool
	stats          CoalescerStats
}

func NewCoalescer(source Source, renderer Renderer, receiver Receiver) *Coalescer {
	c := &Coalescer{source: source, renderer: renderer, receiver: receiver}
	c.idle = sync.NewCond(&c.mu)
	return c
}

// Trigger reports that the scene changed. It never blocks on rendering: when
// idle it serializes the scene and posts a request right away, otherwise it
// only marks a pending change.
func (c *Coalescer) Trigger() {
	c.mu.Lock()
	if c.working {
		c.changesPending = true
		c.stats.Coalesced++
		c.mu.Unlock()
		return
	}
	c.working = true
	c.mu.Unlock()

	go c.await(c.issue())
}

func (c *Coalescer) issue() <-chan Result {
	format := c.source.Serialize()
	c.mu.Lock()
	c.stats.Requests++
	c.mu.Unlock()
	return c.renderer.Render(format)
}

// await delivers results and keeps issuing follow-up renders for as long as
// changes arrived during the previous one.
func (c *Coalescer) await(pending <-chan Result) {
	for {
		r := <-pending
		c.deliver(r)

		c.mu.Lock()
		if !c.changesPending {
			c.working = false
			c.idle.Broadcast()
			c.mu.Unlock()
			return
		}
		c.changesPending = false
		c.mu.Unlock()

		pending = c.issue()
	}
}

func (c *Coalescer) deliver(r Result) {
	if r.Err != nil {
		c.mu.Lock()
		c.stats.Failures++
		c.mu.Unlock()
		log.Printf("Coalescer: Render failed: %v", r.Err)
		return
	}
	if c.receiver == nil {
		log.Println("Coalescer: Error - Receiver is nil.")
		return
	}
	c.receiver.Update(r.Bitmap)
}

// Stats returns a snapshot of the counters.
func (c *Coalescer) Stats() CoalescerStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Working reports whether a render is in flight.
func (c *Coalescer) Working() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.working
}

// WaitIdle blocks until no render is in flight or ctx ends.
func (c *Coalescer) WaitIdle(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.idle.Broadcast()
	})
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	for c.working {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.idle.Wait()
	}
	return nil
}
