// Package store holds the small reactive stores shared between the ui and
// the sequencer. stores are created once per program and passed by pointer.
package store

import (
	"sort"
	"sync"
)

// Value is a comparable value with change subscribers.
type Value[T comparable] struct {
	mu   sync.Mutex
	val  T
	subs map[int]func(T)
	next int
}

func NewValue[T comparable](initial T) *Value[T] {
	return &Value[T]{val: initial}
}

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.val
}

// Set stores val and notifies subscribers when it changed. subscribers run
// on the calling goroutine after the lock is released.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	if v.val == val {
		v.mu.Unlock()
		return
	}
	v.val = val
	fns := v.snapshot()
	v.mu.Unlock()

	for _, fn := range fns {
		fn(val)
	}
}

// Notify republishes the current value to every subscriber.
func (v *Value[T]) Notify() {
	v.mu.Lock()
	val := v.val
	fns := v.snapshot()
	v.mu.Unlock()

	for _, fn := range fns {
		fn(val)
	}
}

// Subscribe registers fn for changes and returns the function that removes it.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.subs == nil {
		v.subs = make(map[int]func(T))
	}
	id := v.next
	v.next++
	v.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			delete(v.subs, id)
		})
	}
}

func (v *Value[T]) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// must be called with lock held
func (v *Value[T]) snapshot() []func(T) {
	ids := make([]int, 0, len(v.subs))
	for id := range v.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, v.subs[id])
	}
	return fns
}
