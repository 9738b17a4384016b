package cache

import "time"

func (c *SessionCache) SetNow(now func() time.Time) {
	c.now = now
}
