package ui

import (
	"fmt"
	"sync"

	"github.com/milk9111/snowfight/scene"
)

// LoadingOverlay tracks whether a level is loading. It listens to the
// sequencer's events; Complete and Failed arrive off the frame goroutine,
// so reads go through the mutex.
type LoadingOverlay struct {
	name func(scene.Index) string

	mu      sync.Mutex
	visible bool
	target  scene.Index
	lastErr error
}

var _ scene.Listener = (*LoadingOverlay)(nil)

// NewLoadingOverlay returns a hidden overlay. name labels level indexes; a
// nil name prints the bare index.
func NewLoadingOverlay(name func(scene.Index) string) *LoadingOverlay {
	if name == nil {
		name = func(i scene.Index) string { return fmt.Sprintf("level %d", i) }
	}
	return &LoadingOverlay{name: name, target: scene.NoLevel}
}

// Attach subscribes the overlay to every lifecycle event of seq and returns
// a func that detaches it.
func (o *LoadingOverlay) Attach(seq *scene.Sequencer) func() {
	unsubs := []func(){
		seq.Subscribe(scene.TransitionBegin, o),
		seq.Subscribe(scene.TransitionComplete, o),
		seq.Subscribe(scene.TransitionFailed, o),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (o *LoadingOverlay) OnTransition(evt scene.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch evt.Type {
	case scene.TransitionBegin:
		o.visible = true
		o.target = evt.To
		o.lastErr = nil
	case scene.TransitionComplete:
		o.visible = false
	case scene.TransitionFailed:
		o.visible = false
		o.lastErr = evt.Err
	}
}

func (o *LoadingOverlay) Visible() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.visible
}

// LastError is the failure of the most recent transition, cleared when the
// next one begins.
func (o *LoadingOverlay) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Status is the text the overlay shows, or "" when there is nothing to show.
func (o *LoadingOverlay) Status() string {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch {
	case o.visible:
		return "Loading " + o.name(o.target) + "..."
	case o.lastErr != nil:
		return "Could not load " + o.name(o.target) + ": " + o.lastErr.Error()
	}
	return ""
}
