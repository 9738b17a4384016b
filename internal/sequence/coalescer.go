package sequence

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a scroll-driven transition runs.
const DefaultDebounce = 100 * time.Millisecond

// Coalescer holds at most one pending action. scheduling replaces whatever
// is pending, so only the last intent inside the window ever runs.
//
// Schedule and Cancel must be called with locker held; the delayed action
// runs with locker held. a nil locker means single-goroutine use.
type Coalescer struct {
	clock  Clock
	delay  time.Duration
	locker sync.Locker

	timer Timer
	gen   uint64
}

func NewCoalescer(clock Clock, delay time.Duration, locker sync.Locker) *Coalescer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Coalescer{
		clock:  clock,
		delay:  delay,
		locker: locker,
	}
}

func (c *Coalescer) Schedule(fn func()) {
	c.Cancel()

	if c.delay <= 0 {
		fn()
		return
	}

	c.gen++
	gen := c.gen
	c.timer = c.clock.AfterFunc(c.delay, func() {
		if c.locker != nil {
			c.locker.Lock()
			defer c.locker.Unlock()
		}
		// replaced or cancelled after the runtime already queued us
		if gen != c.gen || c.timer == nil {
			return
		}
		c.timer = nil
		fn()
	})
}

// Cancel drops the pending action, reporting whether there was one.
func (c *Coalescer) Cancel() bool {
	if c.timer == nil {
		return false
	}
	c.timer.Stop()
	c.timer = nil
	c.gen++
	return true
}

func (c *Coalescer) Pending() bool {
	return c.timer != nil
}

func (c *Coalescer) Delay() time.Duration {
	return c.delay
}
