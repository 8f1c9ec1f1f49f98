package scene

import (
	"errors"
	"sync/atomic"
)

var errNilSequencer = errors.New("scene: nil sequencer")

var instance atomic.Pointer[Sequencer]

// Install publishes s as the process-wide sequencer. Only the first call
// succeeds; later calls return ErrDuplicateInitialization and leave the
// installed sequencer in place.
func Install(s *Sequencer) error {
	if s == nil {
		return errNilSequencer
	}
	if !instance.CompareAndSwap(nil, s) {
		return ErrDuplicateInitialization
	}
	return nil
}

// Instance returns the installed sequencer, or nil before Install.
func Instance() *Sequencer {
	return instance.Load()
}
