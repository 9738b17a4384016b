package sequence

// Cause tells what started a transition.
type Cause string

const (
	CauseScroll Cause = "scroll"
	CauseClick  Cause = "click"
)

type Transition struct {
	Track string
	From  int
	To    int
	Cause Cause
}

// TrackSpec describes one index timeline driven by the shared progress.
type TrackSpec struct {
	Name    string
	Count   int
	Initial int
	// Labels enables label emphasis for this track.
	Labels bool
	// Variant overrides the sequencer's variant for this track.
	Variant Variant
}

type TrackState struct {
	Name      string
	Count     int
	Stable    int
	Target    int
	Pending   bool
	Animating bool
	Items     []ItemVisual
	Labels    []LabelStyle
}

// track owns the index bookkeeping of one timeline. target is written by
// retarget and jump; stable only by transition.
type track struct {
	name   string
	count  int
	stable int
	target int

	fade     *CrossFade
	emphasis *Emphasis
	sched    *Coalescer
	notify   func(Transition)
}

func (t *track) reset(initial int) {
	initial = clampIndex(initial, t.count)
	t.stable = initial
	t.target = initial
	t.fade.Reset(t.count, initial)
	if t.emphasis != nil {
		t.emphasis.Reset(t.count, initial)
	}
}

// retarget records a scroll-derived index and debounces the cross-fade.
func (t *track) retarget(idx int) {
	if idx < 0 || idx == t.target {
		return
	}
	t.target = idx
	if t.emphasis != nil {
		t.emphasis.Focus(idx)
	}
	t.sched.Schedule(t.settle)
}

func (t *track) settle() {
	if t.target == t.stable {
		return
	}
	t.transition(t.target, CauseScroll)
}

// jump bypasses the debounce for direct navigation.
func (t *track) jump(idx int) {
	if t.emphasis != nil {
		t.emphasis.Focus(idx)
	}
	t.target = idx
	t.sched.Cancel()
	if idx == t.stable {
		return
	}
	t.transition(idx, CauseClick)
}

func (t *track) transition(to int, cause Cause) {
	from := t.stable
	t.fade.Animate(to)
	t.stable = to
	if t.notify != nil {
		t.notify(Transition{Track: t.name, From: from, To: to, Cause: cause})
	}
}

func (t *track) teardown() {
	t.sched.Cancel()
	t.fade.Kill()
}

func (t *track) state() TrackState {
	st := TrackState{
		Name:      t.name,
		Count:     t.count,
		Stable:    t.stable,
		Target:    t.target,
		Pending:   t.sched.Pending(),
		Animating: t.fade.Animating(),
		Items:     t.fade.Visuals(),
	}
	if t.emphasis != nil {
		st.Labels = t.emphasis.Styles()
	}
	return st
}
