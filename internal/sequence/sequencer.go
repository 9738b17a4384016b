// Package sequence maps scroll progress through a pinned region onto a
// discrete active item, and cross-fades between items once scrolling settles.
//
// A Sequencer is mounted with one or more tracks. Every track derives its own
// index from the shared progress, debounces index changes, and owns an
// independent cross-fade. Direct navigation (Click) bypasses the debounce and
// moves the viewport so later scroll updates agree with it.
package sequence

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Options struct {
	Clock Clock
	// Debounce is the quiet period before a scroll-driven transition.
	// zero uses DefaultDebounce, negative disables debouncing.
	Debounce time.Duration
	// FadeDuration of a cross-fade; zero uses DefaultFadeDuration.
	FadeDuration time.Duration
	Easing       Easing
	Variant      Variant
	Logger       *slog.Logger
	// OnTransition is called with the sequencer lock held and must not
	// call back into the Sequencer.
	OnTransition func(Transition)
}

type Sequencer struct {
	mu sync.Mutex

	clock    Clock
	debounce time.Duration
	fade     time.Duration
	easing   Easing
	variant  Variant
	logger   *slog.Logger
	notify   func(Transition)
	viewport Viewport

	pin         PinRange
	tracks      []*track
	source      *Source
	unsubscribe func()
}

func New(viewport Viewport, opts Options) *Sequencer {
	s := &Sequencer{
		clock:    opts.Clock,
		debounce: opts.Debounce,
		fade:     opts.FadeDuration,
		easing:   opts.Easing,
		variant:  opts.Variant,
		logger:   opts.Logger,
		notify:   opts.OnTransition,
		viewport: viewport,
	}

	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.debounce == 0 {
		s.debounce = DefaultDebounce
	}
	if s.fade == 0 {
		s.fade = DefaultFadeDuration
	}
	if s.easing == nil {
		s.easing = EaseNone
	}
	if s.variant == "" {
		s.variant = VariantStackingCards
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	return s
}

// Mount tears down any previous mount and starts tracking pin with the given
// tracks. every track starts at its initial index without animating.
// a missing viewport, an empty pin range or no non-empty track leaves the
// sequencer unmounted.
func (s *Sequencer) Mount(pin PinRange, specs ...TrackSpec) {
	s.Unmount()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.viewport == nil {
		s.logger.Debug("sequence: no viewport, skipping mount")
		return
	}
	if !pin.Valid() {
		s.logger.Debug("sequence: empty pin range, skipping mount", "distance", pin.Distance)
		return
	}

	tracks := make([]*track, 0, len(specs))
	for _, spec := range specs {
		if spec.Count <= 0 {
			continue
		}
		variant := spec.Variant
		if variant == "" {
			variant = s.variant
		}
		t := &track{
			name:   spec.Name,
			count:  spec.Count,
			fade:   NewCrossFade(s.clock, s.fade, s.easing, variant),
			sched:  NewCoalescer(s.clock, s.debounceWindow(), &s.mu),
			notify: s.transitioned,
		}
		if spec.Labels {
			t.emphasis = NewEmphasis(s.clock, s.fade)
		}
		t.reset(spec.Initial)
		tracks = append(tracks, t)
	}
	if len(tracks) == 0 {
		s.logger.Debug("sequence: no items, skipping mount")
		return
	}

	src := NewSource(pin, s.viewport, s.onProgress)
	s.pin = pin
	s.tracks = tracks
	s.source = src
	s.unsubscribe = s.viewport.Subscribe(func(offset float64) {
		s.observe(src, offset)
	})

	s.logger.Debug("sequence: mounted",
		"start", pin.Start,
		"distance", pin.Distance,
		"tracks", len(tracks),
	)
}

// Unmount cancels pending transitions, freezes running ones, unsubscribes
// from the viewport and releases the pin. safe to call repeatedly.
func (s *Sequencer) Unmount() {
	s.mu.Lock()

	unsubscribe := s.unsubscribe
	wasMounted := s.source != nil
	for _, t := range s.tracks {
		t.teardown()
	}
	if s.source != nil {
		s.source.Dispose()
	}
	s.tracks = nil
	s.source = nil
	s.unsubscribe = nil

	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if wasMounted {
		s.logger.Debug("sequence: unmounted")
	}
}

func (s *Sequencer) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source != nil
}

// Click jumps track name to index k immediately and repositions the viewport
// at the offset matching k, so the next scroll update maps back to k.
func (s *Sequencer) Click(name string, k int) error {
	s.mu.Lock()

	t, err := s.lookup(name, k)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	t.jump(k)
	progress, ok := ProgressForIndex(k, t.count)
	pin := s.pin

	s.mu.Unlock()

	// a single item has no scroll position of its own
	if ok {
		s.viewport.ScrollTo(pin.Offset(progress))
	}
	return nil
}

// ScrollToIndex only moves the viewport; the transition then follows the
// regular debounced path.
func (s *Sequencer) ScrollToIndex(name string, k int) error {
	s.mu.Lock()

	t, err := s.lookup(name, k)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	progress, _ := ProgressForIndex(k, t.count)
	pin := s.pin

	s.mu.Unlock()

	s.viewport.ScrollTo(pin.Offset(progress))
	return nil
}

func (s *Sequencer) Snapshot(name string) (TrackState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tracks {
		if t.name == name {
			return t.state(), true
		}
	}
	return TrackState{}, false
}

func (s *Sequencer) Progress() (ProgressState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return ProgressState{}, false
	}
	return s.source.State(), true
}

func (s *Sequencer) Pinned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source != nil && s.source.Pinned()
}

func (s *Sequencer) Pin() PinRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pin
}

func (s *Sequencer) observe(src *Source, offset float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// a late callback from a subscription that was already replaced
	if s.source != src {
		return
	}
	src.Observe(offset)
}

// must be called with lock held
func (s *Sequencer) onProgress(progress float64) {
	for _, t := range s.tracks {
		t.retarget(MapIndex(progress, t.count))
	}
}

// must be called with lock held
func (s *Sequencer) transitioned(tr Transition) {
	s.logger.Debug("sequence: transition",
		"track", tr.Track,
		"from", tr.From,
		"to", tr.To,
		"cause", string(tr.Cause),
	)
	if s.notify != nil {
		s.notify(tr)
	}
}

// must be called with lock held
func (s *Sequencer) lookup(name string, k int) (*track, error) {
	if s.source == nil {
		return nil, ErrNotMounted
	}
	for _, t := range s.tracks {
		if t.name != name {
			continue
		}
		if k < 0 || k >= t.count {
			return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, k, t.count)
		}
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTrack, name)
}

func (s *Sequencer) debounceWindow() time.Duration {
	if s.debounce < 0 {
		return 0
	}
	return s.debounce
}
