// painter/loop.go

package painter

import (
	"image"
	"log"
	"sync"
)

// Receiver defines an interface for components that display rendered bitmaps.
// Update takes ownership of the bitmap.
type Receiver interface {
	Update(bitmap *image.RGBA)
}

// MessageQueue is a thread-safe FIFO of worker messages.
type MessageQueue struct {
	mu       sync.Mutex
	messages []Message
	ch       chan struct{} // signals that messages are available
}

// NewMessageQueue creates a new message queue.
func NewMessageQueue() *MessageQueue {
	return &MessageQueue{
		// one pending signal is enough: Pull drains everything
		ch: make(chan struct{}, 1),
	}
}

// Push appends a message and signals availability without blocking.
func (mq *MessageQueue) Push(m Message) {
	mq.mu.Lock()
	mq.messages = append(mq.messages, m)
	mq.mu.Unlock()

	select {
	case mq.ch <- struct{}{}:
	default:
	}
}

// Pull retrieves all queued messages in arrival order and empties the queue.
func (mq *MessageQueue) Pull() []Message {
	mq.mu.Lock()
	messages := mq.messages
	// a fresh slice so later appends never touch the returned array
	mq.messages = nil
	mq.mu.Unlock()
	return messages
}

// Wait returns a channel that signals when new messages might be available.
func (mq *MessageQueue) Wait() <-chan struct{} {
	return mq.ch
}

// Len returns the number of queued messages.
func (mq *MessageQueue) Len() int {
	mq.mu.Lock()
	defer mq.mu.Unlock()
	return len(mq.messages)
}

// Worker is the background render context. It owns its own scene and drawing
// surface and talks to the outside only through messages and results.
type Worker struct {
	Mq *MessageQueue

	ctx     *Context
	results chan Result

	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewWorker creates a worker. No surface exists until an InitMessage is processed.
func NewWorker() *Worker {
	return &Worker{
		Mq:      NewMessageQueue(),
		ctx:     &Context{},
		results: make(chan Result),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start runs the message processing goroutine.
func (w *Worker) Start() {
	go func() {
		defer close(w.stopped)
		for {
			select {
			case <-w.stop:
				log.Println("Worker: Stop signal received, terminating.")
				return
			case <-w.Mq.Wait():
				for _, m := range w.Mq.Pull() {
					if !w.process(m) {
						return
					}
				}
			}
		}
	}()
	log.Println("Worker.Start: Event loop running.")
}

// process handles a single message and reports whether the loop should go on.
func (w *Worker) process(m Message) bool {
	bitmap, err := m.Do(w.ctx)
	if err != nil {
		log.Printf("Worker: %T failed: %v", m, err)
	}
	if !m.Responds() {
		return true
	}
	select {
	case w.results <- Result{Bitmap: bitmap, Err: err}:
		return true
	case <-w.stop:
		return false
	}
}

// Post queues a message for the worker. Messages are processed in Post order.
func (w *Worker) Post(m Message) {
	w.Mq.Push(m)
}

// Results delivers one Result per responding message, in Post order.
func (w *Worker) Results() <-chan Result {
	return w.results
}

// Stop signals the worker goroutine to terminate and waits for it.
// Stop must only be called after Start.
func (w *Worker) Stop() {
	w.once.Do(func() {
		log.Println("Worker.Stop: Signaling stop channel...")
		close(w.stop)
	})
	<-w.stopped
}
