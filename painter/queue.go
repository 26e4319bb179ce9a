package painter

import (
	"context"
	"image"
	"log"
	"sync"

	"github.com/roman-mazur/filaments/model"
)

// Transport carries messages to a render context and results back, both in
// order. Worker implements it.
type Transport interface {
	Post(m Message)
	Results() <-chan Result
}

// Queue is the UI-side proxy of the render worker. Requests and results are
// paired by order only, so every Render call appends its resolver to a FIFO
// and every incoming Result resolves the head of that FIFO.
//
// Queue neither deduplicates nor cancels; keeping the number of outstanding
// requests small is the caller's job (see Coalescer).
type Queue struct {
	transport Transport

	mu    sync.Mutex
	tasks []chan Result

	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewQueue initialises the transport with a width x height surface and starts
// delivering results. The init message is posted before any update can be.
func NewQueue(t Transport, width, height int) *Queue {
	q := &Queue{
		transport: t,
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	t.Post(InitMessage{Width: width, Height: height})
	go q.dispatch()
	return q
}

// Render requests a frame of format at time zero. The returned channel
// receives exactly one Result.
func (q *Queue) Render(format model.SceneFormat) <-chan Result {
	return q.RenderAt(format, 0)
}

// RenderAt requests a frame of format at time t.
func (q *Queue) RenderAt(format model.SceneFormat, t float64) <-chan Result {
	resolve := make(chan Result, 1)
	q.mu.Lock()
	// posting and enqueueing under one lock keeps the FIFO in post order
	q.tasks = append(q.tasks, resolve)
	q.transport.Post(UpdateMessage{Format: format, Time: t})
	q.mu.Unlock()
	return resolve
}

// RenderWait renders format and waits for the bitmap. If ctx ends first the
// request stays queued and its result is discarded when it arrives.
func (q *Queue) RenderWait(ctx context.Context, format model.SceneFormat) (*image.RGBA, error) {
	select {
	case r := <-q.Render(format):
		return r.Bitmap, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Pending returns the number of unresolved requests.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Close stops result delivery. Requests still pending are never resolved.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.done) })
	<-q.stopped
}

func (q *Queue) dispatch() {
	defer close(q.stopped)
	for {
		select {
		case <-q.done:
			return
		case r, ok := <-q.transport.Results():
			if !ok {
				log.Println("Queue: Transport closed its results channel.")
				return
			}
			q.resolve(r)
		}
	}
}

func (q *Queue) resolve(r Result) {
	q.mu.Lock()
	if len(q.tasks) == 0 {
		q.mu.Unlock()
		log.Printf("Queue: %v: result without a pending request, dropped", ErrProtocolViolation)
		return
	}
	head := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	q.mu.Unlock()

	head <- r
}
