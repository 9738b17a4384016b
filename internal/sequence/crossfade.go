package sequence

import "time"

// DefaultFadeDuration is the cross-fade length for every item in a transition.
const DefaultFadeDuration = 300 * time.Millisecond

const (
	zBack  = 0
	zFront = 1
)

type ItemVisual struct {
	Opacity float64
	Offset  float64
	Z       int
}

type timeline struct {
	start    time.Time
	duration time.Duration
	ease     Easing
	to       int
	from     []ItemVisual
	target   []ItemVisual
}

func (tl *timeline) progress(now time.Time) float64 {
	return tweenProgress(float64(now.Sub(tl.start)), float64(tl.duration), tl.ease)
}

func (tl *timeline) done(now time.Time) bool {
	return now.Sub(tl.start) >= tl.duration
}

func (tl *timeline) sample(now time.Time) []ItemVisual {
	t := tl.progress(now)
	out := make([]ItemVisual, len(tl.target))
	for i := range tl.target {
		out[i] = ItemVisual{
			Opacity: lerp(tl.from[i].Opacity, tl.target[i].Opacity, t),
			Offset:  lerp(tl.from[i].Offset, tl.target[i].Offset, t),
			// stacking order switches at the start of the timeline
			Z: tl.target[i].Z,
		}
	}
	return out
}

// CrossFade animates every item of one track toward a single active item.
// all item tweens in a timeline share start, duration and easing.
type CrossFade struct {
	clock    Clock
	duration time.Duration
	ease     Easing
	variant  Variant

	base   []ItemVisual
	active *timeline
}

func NewCrossFade(clock Clock, duration time.Duration, ease Easing, variant Variant) *CrossFade {
	if clock == nil {
		clock = SystemClock{}
	}
	if ease == nil {
		ease = EaseNone
	}
	return &CrossFade{
		clock:    clock,
		duration: duration,
		ease:     ease,
		variant:  variant,
	}
}

// Reset snaps every item to the state where active is shown, without animating.
func (a *CrossFade) Reset(count int, active int) {
	a.active = nil
	a.base = a.finals(count, active)
}

// Animate retargets the track to item to. an in-flight timeline heading
// elsewhere is killed where it stands and the new one starts from there.
// reports whether a new timeline was started.
func (a *CrossFade) Animate(to int) bool {
	if to < 0 || to >= len(a.base) {
		return false
	}

	now := a.clock.Now()
	if a.active != nil && a.active.to == to {
		return false
	}

	current := a.sampleAt(now)
	a.active = nil
	a.base = current

	a.active = &timeline{
		start:    now,
		duration: a.duration,
		ease:     a.ease,
		to:       to,
		from:     current,
		target:   a.finals(len(current), to),
	}
	return true
}

// Kill freezes every item at its current value.
func (a *CrossFade) Kill() {
	if a.active == nil {
		return
	}
	a.base = a.sampleAt(a.clock.Now())
	a.active = nil
}

func (a *CrossFade) Animating() bool {
	return a.active != nil && !a.active.done(a.clock.Now())
}

func (a *CrossFade) Visuals() []ItemVisual {
	return a.sampleAt(a.clock.Now())
}

func (a *CrossFade) Visual(i int) ItemVisual {
	visuals := a.Visuals()
	if i < 0 || i >= len(visuals) {
		return ItemVisual{}
	}
	return visuals[i]
}

func (a *CrossFade) sampleAt(now time.Time) []ItemVisual {
	if a.active == nil {
		out := make([]ItemVisual, len(a.base))
		copy(out, a.base)
		return out
	}
	if a.active.done(now) {
		// settle so later samples skip the interpolation
		a.base = a.active.target
		a.active = nil
		out := make([]ItemVisual, len(a.base))
		copy(out, a.base)
		return out
	}
	return a.active.sample(now)
}

func (a *CrossFade) finals(count int, active int) []ItemVisual {
	out := make([]ItemVisual, count)
	for i := range out {
		if i == active {
			out[i] = ItemVisual{Opacity: 1, Offset: 0, Z: zFront}
			continue
		}
		out[i] = ItemVisual{Opacity: 0, Offset: a.variant.RestOffset(), Z: zBack}
	}
	return out
}
