package sequence_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karolbroda.com/residences/internal/sequence"
)

func TestCoalescer_BurstRunsLastActionOnce(t *testing.T) {
	clock := sequence.NewManualClock(epoch)
	c := sequence.NewCoalescer(clock, 100*time.Millisecond, nil)

	var ran []int
	for i := 0; i < 5; i++ {
		i := i
		c.Schedule(func() { ran = append(ran, i) })
		clock.Advance(20 * time.Millisecond)
	}
	require.Empty(t, ran)
	require.Equal(t, 1, clock.Pending())

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, []int{4}, ran)
	assert.False(t, c.Pending())
	assert.Zero(t, clock.Pending())
}

func TestCoalescer_ReplacedActionNeverRuns(t *testing.T) {
	clock := sequence.NewManualClock(epoch)
	c := sequence.NewCoalescer(clock, 100*time.Millisecond, nil)

	var ran []string
	c.Schedule(func() { ran = append(ran, "a") })
	clock.Advance(50 * time.Millisecond)
	c.Schedule(func() { ran = append(ran, "b") })

	clock.Advance(60 * time.Millisecond)
	assert.Empty(t, ran, "a was replaced before its window elapsed")

	clock.Advance(40 * time.Millisecond)
	assert.Equal(t, []string{"b"}, ran)
}

func TestCoalescer_Cancel(t *testing.T) {
	clock := sequence.NewManualClock(epoch)
	c := sequence.NewCoalescer(clock, 100*time.Millisecond, nil)

	assert.False(t, c.Cancel())

	ran := false
	c.Schedule(func() { ran = true })
	require.True(t, c.Pending())
	assert.True(t, c.Cancel())
	assert.False(t, c.Pending())

	clock.Advance(time.Second)
	assert.False(t, ran)
	assert.Zero(t, clock.Pending())
}

func TestCoalescer_ZeroDelayRunsImmediately(t *testing.T) {
	clock := sequence.NewManualClock(epoch)
	c := sequence.NewCoalescer(clock, 0, nil)

	ran := 0
	c.Schedule(func() { ran++ })
	assert.Equal(t, 1, ran)
	assert.False(t, c.Pending())
}

func TestManualClock_FiresInDeadlineOrder(t *testing.T) {
	clock := sequence.NewManualClock(epoch)

	var order []string
	clock.AfterFunc(30*time.Millisecond, func() { order = append(order, "late") })
	clock.AfterFunc(10*time.Millisecond, func() { order = append(order, "early") })
	stopped := clock.AfterFunc(20*time.Millisecond, func() { order = append(order, "stopped") })
	require.True(t, stopped.Stop())
	require.False(t, stopped.Stop())

	clock.Advance(25 * time.Millisecond)
	assert.Equal(t, []string{"early"}, order)
	assert.Equal(t, epoch.Add(25*time.Millisecond), clock.Now())

	clock.Advance(5 * time.Millisecond)
	assert.Equal(t, []string{"early", "late"}, order)
}

func TestManualClock_NeverMovesBackwards(t *testing.T) {
	clock := sequence.NewManualClock(epoch)

	fired := 0
	clock.AfterFunc(50*time.Millisecond, func() { fired++ })

	clock.Advance(-time.Second)
	assert.Equal(t, epoch, clock.Now())
	clock.Advance(0)
	assert.Equal(t, epoch, clock.Now())
	assert.Zero(t, fired)

	clock.Advance(50 * time.Millisecond)
	assert.Equal(t, epoch.Add(50*time.Millisecond), clock.Now())
	assert.Equal(t, 1, fired)
}
