package observable

import "sync"

// Terminator collects terminables and releases them together.
type Terminator struct {
	mu          sync.Mutex
	terminables []Terminable
}

// With registers t and returns it.
func (t *Terminator) With(x Terminable) Terminable {
	t.mu.Lock()
	t.terminables = append(t.terminables, x)
	t.mu.Unlock()
	return x
}

// Terminate releases everything registered so far, in registration order.
// The terminator can be reused afterwards.
func (t *Terminator) Terminate() {
	t.mu.Lock()
	terminables := t.terminables
	t.terminables = nil
	t.mu.Unlock()

	for _, x := range terminables {
		x.Terminate()
	}
}

// Attach binds to the owner currently held by v and follows it: whenever v
// changes, the subscription returned by attach for the outgoing owner is
// terminated before attach runs for the incoming one. changed, if not nil, is
// called after every switch.
//
// Notifications from concurrent Sets may arrive out of order, so every switch
// binds to the value v holds at that moment rather than to the notified one.
func Attach[T comparable](v *Value[T], attach func(owner T) Terminable, changed func()) Terminable {
	var (
		mu       sync.Mutex
		current  Terminable
		attached T
		bound    bool
		closed   bool
	)
	install := func() {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		owner := v.Get()
		if bound && owner == attached {
			return
		}
		if current != nil {
			current.Terminate()
		}
		current = attach(owner)
		attached, bound = owner, true
	}

	sub := v.AddObserver(func(T) {
		install()
		if changed != nil {
			changed()
		}
	}, false)
	install()

	return TerminableFunc(func() {
		sub.Terminate()
		mu.Lock()
		defer mu.Unlock()
		closed = true
		if current != nil {
			current.Terminate()
			current = nil
		}
	})
}
