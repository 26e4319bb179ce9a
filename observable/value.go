package observable

import (
	"sync"
	"sync/atomic"
)

// Terminable is anything that holds a resource which can be released.
type Terminable interface {
	Terminate()
}

// TerminableFunc adapts a plain function to Terminable.
type TerminableFunc func()

func (f TerminableFunc) Terminate() { f() }

// Observer receives the new value after every change.
type Observer[T any] func(value T)

type subscription[T any] struct {
	observer Observer[T]
	active   atomic.Bool
}

// Value is an observable cell. Observers are notified synchronously, in
// registration order, outside the cell's lock.
type Value[T comparable] struct {
	mu        sync.Mutex
	value     T
	observers []*subscription[T]
}

// NewValue creates a cell holding v.
func NewValue[T comparable](v T) *Value[T] {
	return &Value[T]{value: v}
}

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Set stores x and notifies observers. Storing an equal value is a no-op and
// returns false.
func (v *Value[T]) Set(x T) bool {
	v.mu.Lock()
	if v.value == x {
		v.mu.Unlock()
		return false
	}
	v.value = x
	observers := make([]*subscription[T], len(v.observers))
	copy(observers, v.observers)
	v.mu.Unlock()

	for _, s := range observers {
		// a subscription terminated by an earlier observer in this round is skipped
		if s.active.Load() {
			s.observer(x)
		}
	}
	return true
}

// AddObserver registers o. When notify is true o is called immediately with
// the current value. The returned Terminable removes the observer.
func (v *Value[T]) AddObserver(o Observer[T], notify bool) Terminable {
	s := &subscription[T]{observer: o}
	s.active.Store(true)

	v.mu.Lock()
	v.observers = append(v.observers, s)
	current := v.value
	v.mu.Unlock()

	if notify {
		o(current)
	}
	return TerminableFunc(func() {
		if !s.active.Swap(false) {
			return
		}
		v.mu.Lock()
		defer v.mu.Unlock()
		for i, other := range v.observers {
			if other == s {
				v.observers = append(v.observers[:i:i], v.observers[i+1:]...)
				break
			}
		}
	})
}

// Observers returns the number of live subscriptions.
func (v *Value[T]) Observers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.observers)
}
