package chat

import (
	"sync"
	"time"
)

// Clock hands out stored timestamps that strictly increase: each reading is
// at least one millisecond after the previous one. Sharing one Clock between
// the services keeps a post that lands in the same millisecond as a MarkSeen
// ordered after it, so the discussion still reads as unseen.
type Clock struct {
	mu   sync.Mutex
	src  func() time.Time
	last time.Time
}

// NewClock returns a Clock reading from src, or time.Now when src is nil.
func NewClock(src func() time.Time) *Clock {
	if src == nil {
		src = time.Now
	}
	return &Clock{src: src}
}

// Now returns the next timestamp in UTC at millisecond precision.
func (c *Clock) Now() time.Time {
	t := c.src().UTC().Truncate(time.Millisecond)
	c.mu.Lock()
	defer c.mu.Unlock()
	if !t.After(c.last) {
		t = c.last.Add(time.Millisecond)
	}
	c.last = t
	return t
}
