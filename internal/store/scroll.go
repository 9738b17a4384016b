package store

import "sync"

// ScrollStore is the document scroll position. it satisfies the viewport the
// sequencer observes: offset changes are published to subscribers and the
// pinned flag is owned by whoever currently pins the page.
type ScrollStore struct {
	offset *Value[float64]

	mu     sync.Mutex
	max    float64
	pinned bool
}

func NewScrollStore(max float64) *ScrollStore {
	if max < 0 {
		max = 0
	}
	return &ScrollStore{
		offset: NewValue(0.0),
		max:    max,
	}
}

func (s *ScrollStore) Offset() float64 {
	return s.offset.Get()
}

func (s *ScrollStore) Max() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.max
}

// SetBounds changes the scrollable height, pulling the offset back in range.
func (s *ScrollStore) SetBounds(max float64) {
	if max < 0 {
		max = 0
	}
	s.mu.Lock()
	s.max = max
	s.mu.Unlock()

	if s.Offset() > max {
		s.offset.Set(max)
	}
}

// Scroll moves the offset by delta and returns the new offset.
func (s *ScrollStore) Scroll(delta float64) float64 {
	return s.scrollTo(s.Offset() + delta)
}

// ScrollTo clamps offset to the bounds before publishing it.
func (s *ScrollStore) ScrollTo(offset float64) {
	s.scrollTo(offset)
}

func (s *ScrollStore) scrollTo(offset float64) float64 {
	s.mu.Lock()
	max := s.max
	s.mu.Unlock()

	if offset < 0 {
		offset = 0
	}
	if offset > max {
		offset = max
	}
	s.offset.Set(offset)
	return offset
}

// Refresh republishes the offset, so a subscriber added since the last move
// sees where the page is.
func (s *ScrollStore) Refresh() {
	s.offset.Notify()
}

func (s *ScrollStore) Subscribe(fn func(offset float64)) func() {
	return s.offset.Subscribe(fn)
}

func (s *ScrollStore) SetPinned(pinned bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinned = pinned
}

func (s *ScrollStore) Pinned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pinned
}

// Progress is the offset as a fraction of the scrollable height.
func (s *ScrollStore) Progress() float64 {
	max := s.Max()
	if max <= 0 {
		return 0
	}
	return s.Offset() / max
}
