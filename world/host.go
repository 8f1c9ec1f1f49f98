package world

import (
	"context"
	"fmt"
	"sync"

	"github.com/milk9111/snowfight/levels"
	"github.com/milk9111/snowfight/scene"
	"github.com/milk9111/snowfight/script"
)

// Host loads levels into a World. Reading and scripting happen off the
// frame goroutine; attaching to and detaching from the physics space is
// deferred to Pump, which the game loop calls once per frame.
type Host struct {
	world   *World
	library *levels.Library

	mu      sync.Mutex
	pending []func()
}

var _ scene.Host = (*Host)(nil)

func NewHost(w *World, library *levels.Library) *Host {
	return &Host{world: w, library: library}
}

func (h *Host) LoadAdditive(index scene.Index) *scene.Operation {
	op := scene.NewOperation()
	entry, ok := h.library.Entry(index)
	if !ok {
		op.Complete(fmt.Errorf("world: level %d not in catalog", index))
		return op
	}

	go func() {
		layer, err := BuildLayer(index, entry)
		h.enqueue(func() {
			if err != nil {
				op.Complete(err)
				return
			}
			op.Complete(h.world.Attach(layer))
		})
	}()
	return op
}

func (h *Host) Unload(index scene.Index) *scene.Operation {
	op := scene.NewOperation()
	h.enqueue(func() {
		op.Complete(h.world.Detach(index))
	})
	return op
}

// Pump runs the frame work queued since the last call and returns how many
// items ran.
func (h *Host) Pump() int {
	h.mu.Lock()
	work := h.pending
	h.pending = nil
	h.mu.Unlock()

	for _, fn := range work {
		fn()
	}
	return len(work)
}

func (h *Host) enqueue(fn func()) {
	h.mu.Lock()
	h.pending = append(h.pending, fn)
	h.mu.Unlock()
}

// BuildLayer reads a level and runs its script. It does not touch a World,
// so it is safe to call off the frame goroutine.
func BuildLayer(index scene.Index, entry levels.Entry) (*Layer, error) {
	lvl, err := levels.LoadLevel(entry.File)
	if err != nil {
		return nil, err
	}

	var spawns []script.Spawn
	if entry.Script != "" {
		src, err := levels.LoadScript(entry.Script)
		if err != nil {
			return nil, fmt.Errorf("world: level %s script %s: %w", entry.Name, entry.Script, err)
		}
		spawns, err = script.Run(context.Background(), entry.Script, src, script.Env{
			LevelName:  entry.Name,
			LevelIndex: int(index),
		})
		if err != nil {
			return nil, err
		}
	}
	return NewLayer(index, entry, lvl, spawns), nil
}

// Reload rebuilds a resident level from its files and swaps it in on the
// next Pump. A level that is unloaded meanwhile stays unloaded.
func (h *Host) Reload(index scene.Index) *scene.Operation {
	op := scene.NewOperation()
	entry, ok := h.library.Entry(index)
	if !ok {
		op.Complete(fmt.Errorf("world: level %d not in catalog", index))
		return op
	}

	go func() {
		layer, err := BuildLayer(index, entry)
		h.enqueue(func() {
			if err != nil {
				op.Complete(err)
				return
			}
			if err := h.world.Detach(index); err != nil {
				op.Complete(err)
				return
			}
			op.Complete(h.world.Attach(layer))
		})
	}()
	return op
}
