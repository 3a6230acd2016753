package observability

import "context"

// NoOpObserver discards all events.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}

// MultiObserver fans out events to multiple observers in order.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver creates a MultiObserver over the non-nil observers.
// Nested MultiObservers are flattened and NoOpObservers dropped.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		switch o := obs.(type) {
		case nil, NoOpObserver:
		case *MultiObserver:
			filtered = append(filtered, o.observers...)
		default:
			filtered = append(filtered, o)
		}
	}
	return &MultiObserver{observers: filtered}
}

// Combine returns the single observer that forwards to all non-nil
// observers: a NoOpObserver for none, the observer itself for one.
func Combine(observers ...Observer) Observer {
	m := NewMultiObserver(observers...)
	switch len(m.observers) {
	case 0:
		return NoOpObserver{}
	case 1:
		return m.observers[0]
	default:
		return m
	}
}

// Len returns the number of observers events are forwarded to.
func (m *MultiObserver) Len() int {
	return len(m.observers)
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}
