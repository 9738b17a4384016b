package ui

import (
	"math"
)

// ScrollAnim eases the page offset toward a target over a few frames, so a
// key press produces a stream of offsets like a real scroll would.
type ScrollAnim struct {
	Position float64
	Target   float64
	Prev     float64
	Progress float64
}

const scrollTransitionTicks = 8

func (a *ScrollAnim) Reset() {
	a.Position = 0
	a.Target = 0
	a.Prev = 0
	a.Progress = 1
}

// Retarget starts a new ease from wherever the animation currently is.
func (a *ScrollAnim) Retarget(target float64) {
	a.Prev = a.Position
	a.Target = target
	a.Progress = 0
}

// Snap jumps to pos without animating.
func (a *ScrollAnim) Snap(pos float64) {
	a.Position = pos
	a.Target = pos
	a.Prev = pos
	a.Progress = 1
}

func (a *ScrollAnim) Animating() bool {
	return a.Progress < 1
}

// Update advances one frame and reports whether the position moved.
func (a *ScrollAnim) Update(transitionTicks int) bool {
	if transitionTicks <= 0 {
		transitionTicks = scrollTransitionTicks
	}
	if !a.Animating() {
		return false
	}

	a.Progress += 1.0 / float64(transitionTicks)
	if a.Progress > 1.0 {
		a.Progress = 1.0
	}

	before := a.Position
	a.Position = lerp(a.Prev, a.Target, easeOutCubic(a.Progress))
	if a.Progress >= 1 {
		a.Position = a.Target
	}
	return a.Position != before
}

func easeOutCubic(t float64) float64 {
	if t >= 1 {
		return 1
	}
	if t <= 0 {
		return 0
	}
	return 1 - math.Pow(1-t, 3)
}

func lerp(a float64, b float64, t float64) float64 {
	return a + (b-a)*t
}

func clamp(val float64, min float64, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
