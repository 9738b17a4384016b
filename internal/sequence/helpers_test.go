package sequence_test

import (
	"sort"
	"sync"
	"time"

	"karolbroda.com/residences/internal/sequence"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeViewport struct {
	mu           sync.Mutex
	subs         map[int]func(float64)
	next         int
	offset       float64
	pinned       bool
	pinChanges   int
	subscribed   int
	unsubscribed int
	scrolledTo   []float64
}

func newFakeViewport() *fakeViewport {
	return &fakeViewport{subs: make(map[int]func(float64))}
}

func (v *fakeViewport) Subscribe(fn func(float64)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.next
	v.next++
	v.subs[id] = fn
	v.subscribed++

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.unsubscribed++
		delete(v.subs, id)
	}
}

func (v *fakeViewport) SetPinned(pinned bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pinned = pinned
	v.pinChanges++
}

func (v *fakeViewport) ScrollTo(offset float64) {
	v.mu.Lock()
	v.scrolledTo = append(v.scrolledTo, offset)
	v.mu.Unlock()
	v.scroll(offset)
}

// scroll simulates the user moving the page to offset.
func (v *fakeViewport) scroll(offset float64) {
	v.mu.Lock()
	v.offset = offset
	ids := make([]int, 0, len(v.subs))
	for id := range v.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(float64), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, v.subs[id])
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(offset)
	}
}

func (v *fakeViewport) isPinned() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pinned
}

func (v *fakeViewport) subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

type recorder struct {
	mu          sync.Mutex
	transitions []sequence.Transition
}

func (r *recorder) record(tr sequence.Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, tr)
}

func (r *recorder) all() []sequence.Transition {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sequence.Transition, len(r.transitions))
	copy(out, r.transitions)
	return out
}

func (r *recorder) forTrack(name string) []sequence.Transition {
	var out []sequence.Transition
	for _, tr := range r.all() {
		if tr.Track == name {
			out = append(out, tr)
		}
	}
	return out
}

func newTestSequencer(vp sequence.Viewport, clock sequence.Clock) (*sequence.Sequencer, *recorder) {
	rec := &recorder{}
	seq := sequence.New(vp, sequence.Options{
		Clock:        clock,
		OnTransition: rec.record,
	})
	return seq, rec
}
