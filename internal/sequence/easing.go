package sequence

import "math"

// Easing maps linear progress in [0,1] onto eased progress.
type Easing func(t float64) float64

// EaseNone is used for scroll-driven transitions; the driving signal is
// already continuous.
func EaseNone(t float64) float64 {
	return clamp(t, 0, 1)
}

func EaseOutCubic(t float64) float64 {
	if t >= 1 {
		return 1
	}
	if t <= 0 {
		return 0
	}
	return 1 - math.Pow(1-t, 3)
}

func EaseInOutCubic(t float64) float64 {
	if t >= 1 {
		return 1
	}
	if t <= 0 {
		return 0
	}
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func lerp(a float64, b float64, t float64) float64 {
	return a + (b-a)*t
}

// tweenProgress returns eased progress of a tween started at start.
func tweenProgress(elapsed float64, duration float64, ease Easing) float64 {
	if duration <= 0 || elapsed >= duration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	if ease == nil {
		ease = EaseNone
	}
	return ease(elapsed / duration)
}
