package sequence

import "time"

// LabelStyle is the non-content emphasis of a label: how visible, how heavy
// and how far indented it is, each in [0,1].
type LabelStyle struct {
	Opacity float64
	Weight  float64
	Indent  float64
}

var (
	focusedLabel = LabelStyle{Opacity: 1, Weight: 1, Indent: 1}
	idleLabel    = LabelStyle{Opacity: 0.4, Weight: 0, Indent: 0}
)

// Emphasis tweens label styles toward the immediate target index. unlike the
// cross-fade it is never debounced; it follows every target change.
type Emphasis struct {
	clock    Clock
	duration time.Duration
	ease     Easing

	focus int
	start time.Time
	from  []LabelStyle
}

func NewEmphasis(clock Clock, duration time.Duration) *Emphasis {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Emphasis{
		clock:    clock,
		duration: duration,
		ease:     EaseNone,
		focus:    -1,
	}
}

func (e *Emphasis) Reset(count int, focus int) {
	e.focus = focus
	e.from = make([]LabelStyle, count)
	for i := range e.from {
		e.from[i] = labelTarget(i, focus)
	}
	e.start = time.Time{}
}

// Focus retargets the tween; a repeated focus keeps the running tween.
func (e *Emphasis) Focus(idx int) {
	if idx == e.focus || idx < 0 || idx >= len(e.from) {
		return
	}
	now := e.clock.Now()
	e.from = e.sampleAt(now)
	e.focus = idx
	e.start = now
}

func (e *Emphasis) Focused() int {
	return e.focus
}

func (e *Emphasis) Styles() []LabelStyle {
	return e.sampleAt(e.clock.Now())
}

func (e *Emphasis) sampleAt(now time.Time) []LabelStyle {
	out := make([]LabelStyle, len(e.from))
	t := 1.0
	if !e.start.IsZero() {
		t = tweenProgress(float64(now.Sub(e.start)), float64(e.duration), e.ease)
	}
	for i, from := range e.from {
		to := labelTarget(i, e.focus)
		out[i] = LabelStyle{
			Opacity: lerp(from.Opacity, to.Opacity, t),
			Weight:  lerp(from.Weight, to.Weight, t),
			Indent:  lerp(from.Indent, to.Indent, t),
		}
	}
	return out
}

func labelTarget(i int, focus int) LabelStyle {
	if i == focus {
		return focusedLabel
	}
	return idleLabel
}
