package sequence_test

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karolbroda.com/residences/internal/sequence"
)

func scrollTransition(track string, from, to int) sequence.Transition {
	return sequence.Transition{Track: track, From: from, To: to, Cause: sequence.CauseScroll}
}

func clickTransition(track string, from, to int) sequence.Transition {
	return sequence.Transition{Track: track, From: from, To: to, Cause: sequence.CauseClick}
}

func TestSequencer_MountStartsAtInitialIndex(t *testing.T) {
	vp := newFakeViewport()
	clock := sequence.NewManualClock(epoch)
	seq, rec := newTestSequencer(vp, clock)

	seq.Mount(sequence.PinRange{Start: 0, Distance: 1000}, sequence.TrackSpec{Name: "text", Count: 4, Initial: 2})

	require.True(t, seq.Mounted())
	st, ok := seq.Snapshot("text")
	require.True(t, ok)
	assert.Equal(t, 2, st.Stable)
	assert.Equal(t, 2, st.Target)
	assert.Equal(t, 1.0, st.Items[2].Opacity)
	assert.False(t, st.Animating)
	assert.Equal(t, 1, vp.subscribers())
	assert.Empty(t, rec.all())
}

func TestSequencer_BurstCollapsesToOneTransition(t *testing.T) {
	vp := newFakeViewport()
	clock := sequence.NewManualClock(epoch)
	seq, rec := newTestSequencer(vp, clock)
	seq.Mount(sequence.PinRange{Start: 0, Distance: 1000}, sequence.TrackSpec{Name: "text", Count: 5})

	for i := 0; i < 5; i++ {
		vp.scroll(float64(i*200 + 10))
	}

	st, _ := seq.Snapshot("text")
	assert.Equal(t, 4, st.Target)
	assert.Equal(t, 0, st.Stable)
	assert.True(t, st.Pending)
	assert.Empty(t, rec.all())

	clock.Advance(sequence.DefaultDebounce)

	assert.Equal(t, []sequence.Transition{scrollTransition("text", 0, 4)}, rec.all())
	st, _ = seq.Snapshot("text")
	assert.Equal(t, 4, st.Stable)
	assert.False(t, st.Pending)
	assert.Zero(t, clock.Pending())
}

func TestSequencer_LastIntentWins(t *testing.T) {
	vp := newFakeViewport()
	clock := sequence.NewManualClock(epoch)
	seq, rec := newTestSequencer(vp, clock)
	seq.Mount(sequence.PinRange{Start: 0, Distance: 1000}, sequence.TrackSpec{Name: "text", Count: 6})

	vp.scroll(400)
	clock.Advance(50 * time.Millisecond)
	vp.scroll(900)
	clock.Advance(60 * time.Millisecond)
	assert.Empty(t, rec.all(), "index 2 was replaced inside the window")

	clock.Advance(40 * time.Millisecond)
	assert.Equal(t, []sequence.Transition{scrollTransition("text", 0, 5)}, rec.all())
}

func TestSequencer_ClickRoundTrip(t *testing.T) {
	vp := newFakeViewport()
	clock := sequence.NewManualClock(epoch)
	seq, rec := newTestSequencer(vp, clock)
	pin := sequence.PinRange{Start: 120, Distance: 1500}
	seq.Mount(pin, sequence.TrackSpec{Name: "text", Count: 6})

	for k := 0; k < 6; k++ {
		require.NoError(t, seq.Click("text", k))

		st, _ := seq.Snapshot("text")
		assert.Equal(t, k, st.Stable)
		assert.Equal(t, k, st.Target)
		assert.False(t, st.Pending, "scroll echo of click %d must not schedule", k)
	}
	clock.Advance(time.Second)

	want := []sequence.Transition{
		clickTransition("text", 0, 1),
		clickTransition("text", 1, 2),
		clickTransition("text", 2, 3),
		clickTransition("text", 3, 4),
		clickTransition("text", 4, 5),
	}
	assert.Equal(t, want, rec.all())
	require.Len(t, vp.scrolledTo, 6)
	assert.Equal(t, pin.End(), vp.scrolledTo[5])
}

func TestSequencer_ClickCancelsPendingScroll(t *testing.T) {
	vp := newFakeViewport()
	clock := sequence.NewManualClock(epoch)
	seq, rec := newTestSequencer(vp, clock)
	seq.Mount(sequence.PinRange{Start: 0, Distance: 1500}, sequence.TrackSpec{Name: "text", Count: 6})

	vp.scroll(800)
	st, _ := seq.Snapshot("text")
	require.True(t, st.Pending)

	require.NoError(t, seq.Click("text", 1))
	clock.Advance(time.Second)

	assert.Equal(t, []sequence.Transition{clickTransition("text", 0, 1)}, rec.all())
	st, _ = seq.Snapshot("text")
	assert.Equal(t, 1, st.Stable)
	assert.Zero(t, clock.Pending())
}

func TestSequencer_ClickSingleItemKeepsViewport(t *testing.T) {
	vp := newFakeViewport()
	clock := sequence.NewManualClock(epoch)
	seq, rec := newTestSequencer(vp, clock)
	seq.Mount(sequence.PinRange{Start: 0, Distance: 500}, sequence.TrackSpec{Name: "text", Count: 1})

	require.NoError(t, seq.Click("text", 0))

	assert.Empty(t, vp.scrolledTo)
	assert.Empty(t, rec.all())
}

func TestSequencer_ClickErrors(t *testing.T) {
	vp := newFakeViewport()
	clock := sequence.NewManualClock(epoch)
	seq, _ := newTestSequencer(vp, clock)

	require.ErrorIs(t, seq.Click("text", 0), sequence.ErrNotMounted)

	seq.Mount(sequence.PinRange{Start: 0, Distance: 500}, sequence.TrackSpec{Name: "text", Count: 3})

	require.ErrorIs(t, seq.Click("images", 0), sequence.ErrUnknownTrack)
	require.ErrorIs(t, seq.Click("text", 3), sequence.ErrIndexOutOfRange)
	require.ErrorIs(t, seq.Click("text", -1), sequence.ErrIndexOutOfRange)
	require.ErrorIs(t, seq.ScrollToIndex("text", 7), sequence.ErrIndexOutOfRange)
	assert.Empty(t, vp.scrolledTo)
}

func TestSequencer_ScrollToIndexIsDebounced(t *testing.T) {
	vp := newFakeViewport()
	clock := sequence.NewManualClock(epoch)
	seq, rec := newTestSequencer(vp, clock)
	seq.Mount(sequence.PinRange{Start: 0, Distance: 1000}, sequence.TrackSpec{Name: "text", Count: 5})

	require.NoError(t, seq.ScrollToIndex("text", 3))
	assert.Equal(t, []float64{750}, vp.scrolledTo)
	assert.Empty(t, rec.all())

	clock.Advance(sequence.DefaultDebounce)
	assert.Equal(t, []sequence.Transition{scrollTransition("text", 0, 3)}, rec.all())
}

func TestSequencer_TracksAreIndependent(t *testing.T) {
	tests := []struct {
		name       string
		textCount  int
		imageCount int
		want       sequence.Transition
	}{
		{
			name:       "only images move",
			textCount:  2,
			imageCount: 4,
			want:       scrollTransition("images", 0, 1),
		},
		{
			name:       "only text moves",
			textCount:  4,
			imageCount: 2,
			want:       scrollTransition("text", 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := newFakeViewport()
			clock := sequence.NewManualClock(epoch)
			seq, rec := newTestSequencer(vp, clock)
			seq.Mount(sequence.PinRange{Start: 0, Distance: 1000},
				sequence.TrackSpec{Name: "text", Count: tt.textCount, Labels: true},
				sequence.TrackSpec{Name: "images", Count: tt.imageCount},
			)

			vp.scroll(300)
			clock.Advance(sequence.DefaultDebounce)

			assert.Equal(t, []sequence.Transition{tt.want}, rec.all())
		})
	}
}

func TestSequencer_UnmountReleasesEverything(t *testing.T) {
	vp := newFakeViewport()
	clock := sequence.NewManualClock(epoch)
	seq, rec := newTestSequencer(vp, clock)
	seq.Mount(sequence.PinRange{Start: 0, Distance: 1000}, sequence.TrackSpec{Name: "text", Count: 4})

	vp.scroll(500)
	require.True(t, vp.isPinned())
	require.Equal(t, 1, clock.Pending())

	seq.Unmount()

	assert.False(t, seq.Mounted())
	assert.Equal(t, 1, vp.unsubscribed)
	assert.Zero(t, vp.subscribers())
	assert.Zero(t, clock.Pending())
	assert.False(t, vp.isPinned())

	seq.Unmount()
	assert.Equal(t, 1, vp.unsubscribed)

	clock.Advance(time.Second)
	vp.scroll(900)
	assert.Empty(t, rec.all())
}

func TestSequencer_MountThenUnmountWithoutScroll(t *testing.T) {
	vp := newFakeViewport()
	clock := sequence.NewManualClock(epoch)
	seq, rec := newTestSequencer(vp, clock)

	seq.Mount(sequence.PinRange{Start: 0, Distance: 1000},
		sequence.TrackSpec{Name: "text", Count: 4, Labels: true},
		sequence.TrackSpec{Name: "images", Count: 3},
	)
	require.True(t, seq.Mounted())
	require.Equal(t, 1, vp.subscribed)

	seq.Unmount()

	assert.Equal(t, 1, vp.unsubscribed)
	assert.Zero(t, vp.subscribers())
	assert.Zero(t, clock.Pending())
	assert.False(t, vp.isPinned())
	assert.Zero(t, vp.pinChanges)
	assert.Empty(t, rec.all())
}

func TestSequencer_SettlesOnLastIndex(t *testing.T) {
	vp := newFakeViewport()
	clock := sequence.NewManualClock(epoch)
	seq, rec := newTestSequencer(vp, clock)
	seq.Mount(sequence.PinRange{Start: 0, Distance: 1500}, sequence.TrackSpec{Name: "text", Count: 6})

	for step := 1; step <= 10; step++ {
		vp.scroll(float64(step * 150))
		clock.Advance(16 * time.Millisecond)
	}
	clock.Advance(sequence.DefaultDebounce)

	st, _ := seq.Snapshot("text")
	assert.Equal(t, 5, st.Stable)

	vp.scroll(750)
	clock.Advance(sequence.DefaultDebounce)

	st, _ = seq.Snapshot("text")
	assert.Equal(t, 3, st.Stable)
	assert.Equal(t, []sequence.Transition{
		scrollTransition("text", 0, 5),
		scrollTransition("text", 5, 3),
	}, rec.all())

	clock.Advance(sequence.DefaultFadeDuration)
	st, _ = seq.Snapshot("text")
	assert.False(t, st.Animating)
	assert.Equal(t, 1.0, st.Items[3].Opacity)
	assert.Equal(t, 0.0, st.Items[5].Opacity)
}

func TestSequencer_RemountResetsIndices(t *testing.T) {
	vp := newFakeViewport()
	clock := sequence.NewManualClock(epoch)
	seq, _ := newTestSequencer(vp, clock)
	pin := sequence.PinRange{Start: 0, Distance: 1000}

	seq.Mount(pin, sequence.TrackSpec{Name: "text", Count: 6})
	require.NoError(t, seq.Click("text", 4))

	seq.Mount(pin, sequence.TrackSpec{Name: "text", Count: 3})

	st, ok := seq.Snapshot("text")
	require.True(t, ok)
	assert.Equal(t, 3, st.Count)
	assert.Equal(t, 0, st.Stable)
	assert.Equal(t, 0, st.Target)
	assert.Equal(t, 1, vp.unsubscribed)
	assert.Equal(t, 1, vp.subscribers())
}

func TestSequencer_MountWithoutViewportIsNoop(t *testing.T) {
	clock := sequence.NewManualClock(epoch)
	seq := sequence.New(nil, sequence.Options{Clock: clock})

	seq.Mount(sequence.PinRange{Start: 0, Distance: 1000}, sequence.TrackSpec{Name: "text", Count: 3})

	assert.False(t, seq.Mounted())
	assert.ErrorIs(t, seq.Click("text", 1), sequence.ErrNotMounted)
	seq.Unmount()
}

func TestSequencer_MountSkipsEmptyInput(t *testing.T) {
	vp := newFakeViewport()
	clock := sequence.NewManualClock(epoch)
	seq, _ := newTestSequencer(vp, clock)

	seq.Mount(sequence.PinRange{Start: 0, Distance: 0}, sequence.TrackSpec{Name: "text", Count: 3})
	assert.False(t, seq.Mounted())

	seq.Mount(sequence.PinRange{Start: 0, Distance: 100}, sequence.TrackSpec{Name: "text", Count: 0})
	assert.False(t, seq.Mounted())
	assert.Zero(t, vp.subscribed)
}

func TestSequencer_LabelsFollowTargetBeforeDebounce(t *testing.T) {
	vp := newFakeViewport()
	clock := sequence.NewManualClock(epoch)
	seq := sequence.New(vp, sequence.Options{
		Clock:        clock,
		FadeDuration: 50 * time.Millisecond,
	})
	seq.Mount(sequence.PinRange{Start: 0, Distance: 1000}, sequence.TrackSpec{Name: "text", Count: 5, Labels: true})

	vp.scroll(610)
	clock.Advance(60 * time.Millisecond)

	st, _ := seq.Snapshot("text")
	require.Len(t, st.Labels, 5)
	assert.Equal(t, 0, st.Stable)
	assert.True(t, st.Pending)
	assert.InDelta(t, 1.0, st.Labels[3].Weight, 1e-9)
	assert.InDelta(t, 0.0, st.Labels[0].Weight, 1e-9)
}

func TestSequencer_ProgressAndPin(t *testing.T) {
	vp := newFakeViewport()
	clock := sequence.NewManualClock(epoch)
	seq, _ := newTestSequencer(vp, clock)

	_, ok := seq.Progress()
	assert.False(t, ok)

	seq.Mount(sequence.PinRange{Start: 100, Distance: 400}, sequence.TrackSpec{Name: "text", Count: 2})
	vp.scroll(300)

	p, ok := seq.Progress()
	require.True(t, ok)
	assert.Equal(t, 0.5, p.Raw)
	assert.Equal(t, 500.0, p.End)
	assert.True(t, seq.Pinned())

	vp.scroll(800)
	assert.False(t, seq.Pinned())
}

func TestSequencer_SystemClockDebounce(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		vp := newFakeViewport()
		rec := &recorder{}
		seq := sequence.New(vp, sequence.Options{OnTransition: rec.record})
		seq.Mount(sequence.PinRange{Start: 0, Distance: 1000}, sequence.TrackSpec{Name: "text", Count: 4})
		defer seq.Unmount()

		vp.scroll(300)
		time.Sleep(50 * time.Millisecond)
		vp.scroll(800)
		time.Sleep(99 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, rec.all())

		time.Sleep(2 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []sequence.Transition{scrollTransition("text", 0, 3)}, rec.all())
	})
}

func TestSequencer_TrackVariantOverride(t *testing.T) {
	vp := newFakeViewport()
	clock := sequence.NewManualClock(epoch)
	seq, _ := newTestSequencer(vp, clock)

	seq.Mount(sequence.PinRange{Start: 0, Distance: 1000},
		sequence.TrackSpec{Name: "cards", Count: 3},
		sequence.TrackSpec{Name: "images", Count: 3, Variant: sequence.VariantSequence},
	)

	cards, _ := seq.Snapshot("cards")
	images, _ := seq.Snapshot("images")
	assert.Equal(t, 1.0, cards.Items[1].Offset, "stacking cards rest below")
	assert.Equal(t, 0.0, images.Items[1].Offset)
}
