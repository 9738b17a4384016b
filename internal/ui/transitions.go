package ui

import (
	"sync"

	"karolbroda.com/residences/internal/sequence"
)

// transitionLog keeps the most recent transitions for the footer. record is
// called from timer goroutines with the sequencer lock held.
type transitionLog struct {
	mu      sync.Mutex
	size    int
	entries []sequence.Transition
	total   int
}

func newTransitionLog(size int) *transitionLog {
	return &transitionLog{size: size}
}

func (l *transitionLog) record(tr sequence.Transition) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.total++
	l.entries = append(l.entries, tr)
	if len(l.entries) > l.size {
		l.entries = l.entries[len(l.entries)-l.size:]
	}
}

func (l *transitionLog) last() (sequence.Transition, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == 0 {
		return sequence.Transition{}, false
	}
	return l.entries[len(l.entries)-1], true
}

func (l *transitionLog) all() []sequence.Transition {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]sequence.Transition, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *transitionLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}
