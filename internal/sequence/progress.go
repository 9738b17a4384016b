package sequence

// Viewport is the scroll collaborator a Source observes.
type Viewport interface {
	// Subscribe registers fn for every scroll offset change and returns
	// the function that removes it. fn must not be called from inside
	// Subscribe itself.
	Subscribe(fn func(offset float64)) (unsubscribe func())
	SetPinned(pinned bool)
	ScrollTo(offset float64)
}

// PinRange is the stretch of scroll offsets mapped onto progress 0..1.
type PinRange struct {
	Start    float64
	Distance float64
}

func (r PinRange) Valid() bool {
	return r.Distance > 0
}

func (r PinRange) End() float64 {
	return r.Start + r.Distance
}

func (r PinRange) raw(offset float64) float64 {
	return (offset - r.Start) / r.Distance
}

// Progress returns the clamped progress for an offset.
func (r PinRange) Progress(offset float64) float64 {
	if !r.Valid() {
		return 0
	}
	return clamp(r.raw(offset), 0, 1)
}

// Offset returns the scroll offset that corresponds to progress.
func (r PinRange) Offset(progress float64) float64 {
	return r.Start + clamp(progress, 0, 1)*r.Distance
}

type ProgressState struct {
	Raw   float64
	Start float64
	End   float64
}

// Source turns viewport offsets into progress callbacks while the pinned
// region is in range, and pins the viewport for that duration.
type Source struct {
	pin        PinRange
	viewport   Viewport
	onProgress func(float64)

	state    ProgressState
	pinned   bool
	emitted  bool
	last     float64
	disposed bool
}

func NewSource(pin PinRange, viewport Viewport, onProgress func(float64)) *Source {
	return &Source{
		pin:        pin,
		viewport:   viewport,
		onProgress: onProgress,
		state:      ProgressState{Start: pin.Start, End: pin.End()},
	}
}

// Observe feeds one scroll offset into the source.
func (s *Source) Observe(offset float64) {
	if s.disposed || !s.pin.Valid() {
		return
	}

	raw := s.pin.raw(offset)
	s.state.Raw = raw
	inside := raw >= 0 && raw <= 1
	s.setPinned(inside)

	// outside the range this collapses to a single boundary emission
	progress := clamp(raw, 0, 1)
	if s.emitted && progress == s.last {
		return
	}

	s.last = progress
	s.emitted = true
	if s.onProgress != nil {
		s.onProgress(progress)
	}
}

func (s *Source) State() ProgressState {
	return s.state
}

func (s *Source) Pinned() bool {
	return s.pinned
}

// Dispose stops emission and releases the pin.
func (s *Source) Dispose() {
	if s.disposed {
		return
	}
	s.setPinned(false)
	s.disposed = true
}

func (s *Source) setPinned(pinned bool) {
	if s.pinned == pinned {
		return
	}
	s.pinned = pinned
	if s.viewport != nil {
		s.viewport.SetPinned(pinned)
	}
}
