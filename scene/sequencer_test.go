package scene

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fixedCatalog struct {
	count int
	menu  Index
}

func (c fixedCatalog) Count() int       { return c.count }
func (c fixedCatalog) MenuIndex() Index { return c.menu }

type hostCall struct {
	op    string
	index Index
}

func (c hostCall) String() string { return fmt.Sprintf("%s(%d)", c.op, c.index) }

// fakeHost resolves operations immediately unless manual is set, in which
// case every issued operation is handed to the test through issued.
type fakeHost struct {
	mu     sync.Mutex
	calls  []hostCall
	fail   map[hostCall]error
	manual bool
	issued chan *Operation
}

func newFakeHost() *fakeHost {
	return &fakeHost{fail: map[hostCall]error{}, issued: make(chan *Operation, 8)}
}

func (h *fakeHost) LoadAdditive(i Index) *Operation { return h.record("load", i) }
func (h *fakeHost) Unload(i Index) *Operation       { return h.record("unload", i) }

func (h *fakeHost) record(op string, i Index) *Operation {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := hostCall{op: op, index: i}
	h.calls = append(h.calls, c)
	if h.manual {
		o := NewOperation()
		h.issued <- o
		return o
	}
	return Completed(h.fail[c])
}

func (h *fakeHost) Calls() []hostCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]hostCall(nil), h.calls...)
}

func (h *fakeHost) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = nil
}

func (h *fakeHost) next(t *testing.T) *Operation {
	t.Helper()
	select {
	case op := <-h.issued:
		return op
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a host call")
		return nil
	}
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnTransition(evt Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recorder) Types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func subscribeAll(s *Sequencer, l Listener) {
	s.Subscribe(TransitionBegin, l)
	s.Subscribe(TransitionComplete, l)
	s.Subscribe(TransitionFailed, l)
}

func wait(t *testing.T, tr *Transition, err error) error {
	t.Helper()
	if err != nil {
		t.Fatalf("request rejected: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	werr := tr.Wait(ctx)
	if errors.Is(werr, context.DeadlineExceeded) {
		t.Fatalf("transition %d -> %d did not finish", tr.From, tr.To)
	}
	return werr
}

func started(t *testing.T, count int) (*Sequencer, *fakeHost) {
	t.Helper()
	host := newFakeHost()
	seq := NewSequencer(host, fixedCatalog{count: count, menu: 0})
	tr, err := seq.Start()
	if werr := wait(t, tr, err); werr != nil {
		t.Fatalf("start failed: %v", werr)
	}
	host.reset()
	return seq, host
}

func equalCalls(a, b []hostCall) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStartLoadsMenuWithoutUnload(t *testing.T) {
	host := newFakeHost()
	seq := NewSequencer(host, fixedCatalog{count: 3, menu: 0})
	if got := seq.CurrentLevel(); got != NoLevel {
		t.Fatalf("expected NoLevel before start, got %d", got)
	}

	tr, err := seq.Start()
	if werr := wait(t, tr, err); werr != nil {
		t.Fatalf("start failed: %v", werr)
	}

	want := []hostCall{{"load", 0}}
	if got := host.Calls(); !equalCalls(got, want) {
		t.Fatalf("expected calls %v, got %v", want, got)
	}
	if st := seq.Snapshot(); st.Current != 0 || st.Transitioning {
		t.Fatalf("unexpected state after start: %+v", st)
	}
}

func TestLoadNextWrapsToMenu(t *testing.T) {
	seq, host := started(t, 3)

	steps := []struct {
		name  string
		calls []hostCall
		level Index
	}{
		{"menu_to_level1", []hostCall{{"unload", 0}, {"load", 1}}, 1},
		{"level1_to_level2", []hostCall{{"unload", 1}, {"load", 2}}, 2},
		{"level2_wraps_to_menu", []hostCall{{"unload", 2}, {"load", 0}}, 0},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			host.reset()
			tr, err := seq.LoadNext()
			if werr := wait(t, tr, err); werr != nil {
				t.Fatalf("LoadNext failed: %v", werr)
			}
			if got := host.Calls(); !equalCalls(got, step.calls) {
				t.Fatalf("expected calls %v, got %v", step.calls, got)
			}
			if got := seq.CurrentLevel(); got != step.level {
				t.Fatalf("expected current level %d, got %d", step.level, got)
			}
		})
	}
}

func TestLoadPrevious(t *testing.T) {
	cases := []struct {
		name  string
		menu  Index
		from  Index
		want  Index
		calls []hostCall
	}{
		{"steps_back", 0, 3, 2, []hostCall{{"unload", 3}, {"load", 2}}},
		{"stops_at_menu", 0, 1, 0, []hostCall{{"unload", 1}, {"load", 0}}},
		{"below_nonzero_menu", 2, 3, 2, []hostCall{{"unload", 3}, {"load", 2}}},
		{"at_menu_is_elided", 0, 0, 0, nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			host := newFakeHost()
			seq := NewSequencer(host, fixedCatalog{count: 5, menu: c.menu})
			tr, err := seq.GoToLevel(c.from)
			if werr := wait(t, tr, err); werr != nil {
				t.Fatalf("setup failed: %v", werr)
			}
			host.reset()

			rec := &recorder{}
			subscribeAll(seq, rec)

			tr, err = seq.LoadPrevious()
			if werr := wait(t, tr, err); werr != nil {
				t.Fatalf("LoadPrevious failed: %v", werr)
			}
			if got := seq.CurrentLevel(); got != c.want {
				t.Fatalf("expected level %d, got %d", c.want, got)
			}
			if got := host.Calls(); !equalCalls(got, c.calls) {
				t.Fatalf("expected calls %v, got %v", c.calls, got)
			}
			types := rec.Types()
			if len(types) != 2 || types[0] != TransitionBegin || types[1] != TransitionComplete {
				t.Fatalf("expected one begin and one complete, got %v", types)
			}
		})
	}
}

func TestGoToLevelEveryValidIndex(t *testing.T) {
	seq, _ := started(t, 4)
	for i := Index(0); i < 4; i++ {
		tr, err := seq.GoToLevel(i)
		if werr := wait(t, tr, err); werr != nil {
			t.Fatalf("GoToLevel(%d) failed: %v", i, werr)
		}
		if got := seq.CurrentLevel(); got != i {
			t.Fatalf("expected level %d, got %d", i, got)
		}
	}
}

func TestGoToLevelInvalidIndex(t *testing.T) {
	seq, host := started(t, 3)
	rec := &recorder{}
	subscribeAll(seq, rec)

	for _, idx := range []Index{5, 3, -1, NoLevel - 1} {
		tr, err := seq.GoToLevel(idx)
		if !errors.Is(err, ErrInvalidLevelIndex) {
			t.Fatalf("GoToLevel(%d): expected ErrInvalidLevelIndex, got %v", idx, err)
		}
		if tr != nil {
			t.Fatalf("GoToLevel(%d): expected no transition handle", idx)
		}
	}

	if st := seq.Snapshot(); st.Current != 0 || st.Transitioning {
		t.Fatalf("state changed after invalid requests: %+v", st)
	}
	if calls := host.Calls(); len(calls) != 0 {
		t.Fatalf("expected no host calls, got %v", calls)
	}
	if types := rec.Types(); len(types) != 0 {
		t.Fatalf("expected no events, got %v", types)
	}
}

func TestEmptyCatalogRejectsMenu(t *testing.T) {
	seq := NewSequencer(newFakeHost(), fixedCatalog{count: 0, menu: 0})
	if _, err := seq.Start(); !errors.Is(err, ErrInvalidLevelIndex) {
		t.Fatalf("expected ErrInvalidLevelIndex, got %v", err)
	}
	if seq.IsTransitioning() {
		t.Fatalf("rejected start must not leave the sequencer transitioning")
	}
}

func TestHostFailureRestoresIdle(t *testing.T) {
	hostErr := errors.New("disk on fire")

	cases := []struct {
		name string
		fail hostCall
	}{
		{"load_fails", hostCall{"load", 1}},
		{"unload_fails", hostCall{"unload", 0}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			seq, host := started(t, 3)
			host.fail[c.fail] = hostErr
			rec := &recorder{}
			subscribeAll(seq, rec)

			tr, err := seq.GoToLevel(1)
			werr := wait(t, tr, err)
			if !errors.Is(werr, ErrSceneHost) || !errors.Is(werr, hostErr) {
				t.Fatalf("expected ErrSceneHost wrapping cause, got %v", werr)
			}
			if !errors.Is(tr.Err(), ErrSceneHost) {
				t.Fatalf("Err() should report the failure, got %v", tr.Err())
			}
			if st := seq.Snapshot(); st.Current != 0 || st.Transitioning {
				t.Fatalf("expected idle at level 0, got %+v", st)
			}
			types := rec.Types()
			if len(types) != 2 || types[0] != TransitionBegin || types[1] != TransitionFailed {
				t.Fatalf("expected begin then failed, got %v", types)
			}

			// The sequencer accepts new work after a failure.
			delete(host.fail, c.fail)
			tr, err = seq.GoToLevel(2)
			if werr := wait(t, tr, err); werr != nil {
				t.Fatalf("follow-up transition failed: %v", werr)
			}
		})
	}
}

type nilHost struct{}

func (nilHost) LoadAdditive(Index) *Operation { return nil }
func (nilHost) Unload(Index) *Operation       { return nil }

func TestNilOperationIsHostFailure(t *testing.T) {
	seq := NewSequencer(nilHost{}, fixedCatalog{count: 2, menu: 0})
	tr, err := seq.Start()
	if werr := wait(t, tr, err); !errors.Is(werr, ErrSceneHost) {
		t.Fatalf("expected ErrSceneHost, got %v", werr)
	}
	if got := seq.CurrentLevel(); got != NoLevel {
		t.Fatalf("expected NoLevel after failed start, got %d", got)
	}
}

func TestRequestDuringTransitionIsRejected(t *testing.T) {
	host := newFakeHost()
	host.manual = true
	seq := NewSequencer(host, fixedCatalog{count: 3, menu: 0})
	rec := &recorder{}
	subscribeAll(seq, rec)

	tr, err := seq.Start()
	if err != nil {
		t.Fatalf("start rejected: %v", err)
	}
	load := host.next(t)

	if !seq.IsTransitioning() {
		t.Fatalf("expected transitioning while load is pending")
	}
	requests := []struct {
		name string
		call func() (*Transition, error)
	}{
		{"next", seq.LoadNext},
		{"previous", seq.LoadPrevious},
		{"menu", seq.GoToMenu},
		{"level", func() (*Transition, error) { return seq.GoToLevel(2) }},
		{"invalid_level", func() (*Transition, error) { return seq.GoToLevel(9) }},
	}
	for _, r := range requests {
		if _, err := r.call(); !errors.Is(err, ErrTransitionInProgress) {
			t.Fatalf("%s: expected ErrTransitionInProgress, got %v", r.name, err)
		}
	}

	load.Complete(nil)
	if werr := wait(t, tr, nil); werr != nil {
		t.Fatalf("start failed: %v", werr)
	}
	types := rec.Types()
	if len(types) != 2 || types[0] != TransitionBegin || types[1] != TransitionComplete {
		t.Fatalf("rejected requests must not emit events, got %v", types)
	}
}

func TestSuspendsOnlyOnHostCompletion(t *testing.T) {
	seq, host := started(t, 3)
	host.manual = true

	tr, err := seq.LoadNext()
	if err != nil {
		t.Fatalf("LoadNext rejected: %v", err)
	}

	unload := host.next(t)
	select {
	case <-tr.Done():
		t.Fatalf("transition finished before unload completed")
	default:
	}
	if got := host.Calls(); !equalCalls(got, []hostCall{{"unload", 0}}) {
		t.Fatalf("load issued before unload completed: %v", got)
	}
	unload.Complete(nil)

	load := host.next(t)
	if seq.CurrentLevel() != 0 {
		t.Fatalf("current level changed before load completed")
	}
	load.Complete(nil)

	if werr := wait(t, tr, nil); werr != nil {
		t.Fatalf("transition failed: %v", werr)
	}
	if seq.CurrentLevel() != 1 {
		t.Fatalf("expected level 1, got %d", seq.CurrentLevel())
	}
}

func TestEventOrdering(t *testing.T) {
	seq, host := started(t, 3)

	var (
		mu               sync.Mutex
		callsAtBegin     = -1
		stateAtComplete  State
		beginCount       int
		completeCount    int
		completeCallSeen int
	)
	seq.Subscribe(TransitionBegin, ListenerFunc(func(evt Event) {
		mu.Lock()
		defer mu.Unlock()
		beginCount++
		callsAtBegin = len(host.Calls())
		if evt.From != 0 || evt.To != 1 {
			t.Errorf("unexpected begin payload %+v", evt)
		}
	}))
	seq.Subscribe(TransitionComplete, ListenerFunc(func(evt Event) {
		mu.Lock()
		defer mu.Unlock()
		completeCount++
		stateAtComplete = seq.Snapshot()
		completeCallSeen = len(host.Calls())
	}))

	tr, err := seq.LoadNext()
	if werr := wait(t, tr, err); werr != nil {
		t.Fatalf("LoadNext failed: %v", werr)
	}

	mu.Lock()
	defer mu.Unlock()
	if beginCount != 1 || completeCount != 1 {
		t.Fatalf("expected one begin and one complete, got %d/%d", beginCount, completeCount)
	}
	if callsAtBegin != 0 {
		t.Fatalf("begin fired after %d host calls", callsAtBegin)
	}
	if completeCallSeen != 2 {
		t.Fatalf("complete fired after %d host calls, want 2", completeCallSeen)
	}
	if stateAtComplete.Current != 1 || stateAtComplete.Transitioning {
		t.Fatalf("complete observed stale state %+v", stateAtComplete)
	}
}

func TestBeginIsSynchronous(t *testing.T) {
	host := newFakeHost()
	host.manual = true
	seq := NewSequencer(host, fixedCatalog{count: 2, menu: 0})

	fired := false
	seq.Subscribe(TransitionBegin, ListenerFunc(func(Event) { fired = true }))

	if _, err := seq.Start(); err != nil {
		t.Fatalf("start rejected: %v", err)
	}
	if !fired {
		t.Fatalf("begin must fire before the request returns")
	}
	host.next(t).Complete(nil)
}

func TestRequestDuringCompleteDeliveryIsRejected(t *testing.T) {
	host := newFakeHost()
	seq := NewSequencer(host, fixedCatalog{count: 3, menu: 0})

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	seq.Subscribe(TransitionComplete, ListenerFunc(func(Event) {
		once.Do(func() {
			close(entered)
			<-release
		})
	}))
	rec := &recorder{}
	subscribeAll(seq, rec)

	tr, err := seq.Start()
	if err != nil {
		t.Fatalf("start rejected: %v", err)
	}
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("Complete was never delivered")
	}

	// State is already final while listeners run.
	if st := seq.Snapshot(); st.Transitioning || st.Current != 0 {
		t.Fatalf("expected idle on the menu during Complete, got %+v", st)
	}
	if _, err := seq.LoadNext(); !errors.Is(err, ErrTransitionInProgress) {
		t.Fatalf("expected ErrTransitionInProgress while Complete is delivered, got %v", err)
	}

	close(release)
	if werr := wait(t, tr, nil); werr != nil {
		t.Fatalf("start failed: %v", werr)
	}
	next, err := seq.LoadNext()
	if werr := wait(t, next, err); werr != nil {
		t.Fatalf("LoadNext after Complete failed: %v", werr)
	}

	want := []EventType{TransitionBegin, TransitionComplete, TransitionBegin, TransitionComplete}
	got := rec.Types()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
