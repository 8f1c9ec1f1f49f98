package scene

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

var errNilOperation = errors.New("host returned no operation")

// State is a consistent snapshot of the sequencer.
type State struct {
	Current       Index
	Transitioning bool
}

// Transition is the handle for one accepted transition cycle.
type Transition struct {
	From Index
	To   Index
	op   *Operation
}

// Done is closed once the cycle has finished and its final event was
// delivered.
func (t *Transition) Done() <-chan struct{} { return t.op.Done() }

// Err reports the cycle's failure, if any. It is nil while pending.
func (t *Transition) Err() error { return t.op.Err() }

// Wait blocks until the cycle finishes. Cancelling ctx only stops waiting;
// the cycle itself keeps running.
func (t *Transition) Wait(ctx context.Context) error { return t.op.Wait(ctx) }

// Sequencer owns the current level and serializes transitions between
// levels. At most one transition is in flight; requests made meanwhile,
// including while its Complete or Failed listeners run, are rejected with
// ErrTransitionInProgress.
type Sequencer struct {
	host    Host
	catalog Catalog
	events  *Dispatcher

	mu            sync.Mutex
	current       Index
	transitioning bool
	// busy outlives transitioning until the cycle's final event has been
	// delivered, so no Begin can overtake the previous Complete.
	busy bool
}

func NewSequencer(host Host, catalog Catalog) *Sequencer {
	return &Sequencer{
		host:    host,
		catalog: catalog,
		events:  NewDispatcher(),
		current: NoLevel,
	}
}

// Subscribe registers l for events of type t. The returned func removes it.
func (s *Sequencer) Subscribe(t EventType, l Listener) func() {
	return s.events.Subscribe(t, l)
}

func (s *Sequencer) Unsubscribe(t EventType, l Listener) {
	s.events.Unsubscribe(t, l)
}

func (s *Sequencer) CurrentLevel() Index {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Sequencer) IsTransitioning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitioning
}

func (s *Sequencer) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Current: s.current, Transitioning: s.transitioning}
}

// Start performs the initial transition to the menu.
func (s *Sequencer) Start() (*Transition, error) {
	return s.GoToMenu()
}

func (s *Sequencer) GoToMenu() (*Transition, error) {
	return s.begin(func(Index) Index { return s.catalog.MenuIndex() })
}

func (s *Sequencer) GoToLevel(index Index) (*Transition, error) {
	return s.begin(func(Index) Index { return index })
}

// LoadNext advances one level, wrapping to the menu past the last level.
func (s *Sequencer) LoadNext() (*Transition, error) {
	return s.begin(func(current Index) Index {
		next := current + 1
		if int(next) >= s.catalog.Count() {
			return s.catalog.MenuIndex()
		}
		return next
	})
}

// LoadPrevious steps back one level, stopping at the menu.
func (s *Sequencer) LoadPrevious() (*Transition, error) {
	return s.begin(func(current Index) Index {
		menu := s.catalog.MenuIndex()
		prev := current - 1
		if prev <= menu {
			return menu
		}
		return prev
	})
}

func (s *Sequencer) begin(resolve func(current Index) Index) (*Transition, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrTransitionInProgress
	}
	from := s.current
	to := resolve(from)
	if !validIndex(s.catalog, to) {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %d (catalog has %d levels)", ErrInvalidLevelIndex, to, s.catalog.Count())
	}
	s.transitioning = true
	s.busy = true
	s.mu.Unlock()

	t := &Transition{From: from, To: to, op: NewOperation()}
	s.events.Dispatch(Event{Type: TransitionBegin, From: from, To: to})
	go s.run(t)
	return t, nil
}

func (s *Sequencer) run(t *Transition) {
	err := s.cycle(t.From, t.To)

	s.mu.Lock()
	s.transitioning = false
	if err == nil {
		s.current = t.To
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("scene: transition %d -> %d failed: %v", t.From, t.To, err)
		s.events.Dispatch(Event{Type: TransitionFailed, From: t.From, To: t.To, Err: err})
	} else {
		s.events.Dispatch(Event{Type: TransitionComplete, From: t.From, To: t.To})
	}

	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
	t.op.Complete(err)
}

// cycle unloads the current level and loads the target additively. A target
// that is already resident needs neither call.
func (s *Sequencer) cycle(from, to Index) error {
	if from == to {
		return nil
	}
	if from != NoLevel {
		if err := await(s.host.Unload(from)); err != nil {
			return fmt.Errorf("%w: unload level %d: %w", ErrSceneHost, from, err)
		}
	}
	if err := await(s.host.LoadAdditive(to)); err != nil {
		return fmt.Errorf("%w: load level %d: %w", ErrSceneHost, to, err)
	}
	return nil
}

func await(op *Operation) error {
	if op == nil {
		return errNilOperation
	}
	<-op.Done()
	return op.Err()
}
