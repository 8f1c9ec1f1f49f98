package scene

import (
	"log"
	"reflect"
	"sync"
)

// EventType names a lifecycle notification.
type EventType string

const (
	TransitionBegin    EventType = "TransitionBegin"
	TransitionComplete EventType = "TransitionComplete"
	TransitionFailed   EventType = "TransitionFailed"
)

// Event describes one lifecycle notification. Err is only set for
// TransitionFailed.
type Event struct {
	Type EventType
	From Index
	To   Index
	Err  error
}

// Listener receives lifecycle notifications.
type Listener interface {
	OnTransition(evt Event)
}

// ListenerFunc adapts a function to a Listener. Function listeners are not
// comparable, so remove them with the func returned by Subscribe.
type ListenerFunc func(evt Event)

func (f ListenerFunc) OnTransition(evt Event) { f(evt) }

type subscription struct {
	id       uint64
	listener Listener
}

// Dispatcher fans events out to listeners in registration order.
type Dispatcher struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[EventType][]subscription
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[EventType][]subscription)}
}

// Subscribe registers l for events of type t and returns a func that
// removes exactly this registration.
func (d *Dispatcher) Subscribe(t EventType, l Listener) func() {
	if l == nil {
		return func() {}
	}
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.listeners[t] = append(d.listeners[t], subscription{id: id, listener: l})
	d.mu.Unlock()

	return func() { d.remove(t, func(s subscription) bool { return s.id == id }) }
}

// Unsubscribe removes the first registration of l for t. Listeners whose
// dynamic type is not comparable never match; use the func from Subscribe.
func (d *Dispatcher) Unsubscribe(t EventType, l Listener) {
	d.remove(t, func(s subscription) bool { return sameListener(s.listener, l) })
}

func (d *Dispatcher) remove(t EventType, match func(subscription) bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	subs := d.listeners[t]
	for i, s := range subs {
		if !match(s) {
			continue
		}
		next := make([]subscription, 0, len(subs)-1)
		next = append(next, subs[:i]...)
		d.listeners[t] = append(next, subs[i+1:]...)
		return
	}
}

// Dispatch delivers evt synchronously. A panicking listener is logged and
// skipped; the remaining listeners still run.
func (d *Dispatcher) Dispatch(evt Event) {
	d.mu.Lock()
	subs := make([]subscription, len(d.listeners[evt.Type]))
	copy(subs, d.listeners[evt.Type])
	d.mu.Unlock()

	for _, s := range subs {
		deliver(s.listener, evt)
	}
}

func deliver(l Listener, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("scene: %s listener panicked: %v", evt.Type, r)
		}
	}()
	l.OnTransition(evt)
}

func sameListener(a, b Listener) bool {
	if a == nil || b == nil {
		return false
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
