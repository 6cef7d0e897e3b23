package game

import (
	"sync"
	"time"
)

// Clock tracks each player's remaining time bank. It is purely
// informational: callers may poll it concurrently, but it has no authority
// to end the game and never issues actions.
type Clock struct {
	mu        sync.Mutex
	remaining [2]time.Duration
	active    int
	running   bool
	lastTick  time.Time
	now       func() time.Time
}

// NewClock creates a stopped clock with the given time bank per player.
func NewClock(perPlayer time.Duration) *Clock {
	return &Clock{
		remaining: [2]time.Duration{perPlayer, perPlayer},
		active:    -1,
		now:       time.Now,
	}
}

// SwitchTo charges elapsed time to the previously active player and starts
// counting against seat idx. Called by the session on turn handover.
func (c *Clock) SwitchTo(idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settleLocked()
	c.active = idx
	c.running = true
	c.lastTick = c.now()
}

// Stop halts the clock, charging elapsed time to the active player.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settleLocked()
	c.running = false
	c.active = -1
}

// Remaining returns the time bank left for seat idx.
func (c *Clock) Remaining(idx int) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx < 0 || idx > 1 {
		return 0
	}
	rem := c.remaining[idx]
	if c.running && c.active == idx {
		rem -= c.now().Sub(c.lastTick)
	}
	if rem < 0 {
		return 0
	}
	return rem
}

// Expired reports whether seat idx has exhausted its bank.
func (c *Clock) Expired(idx int) bool {
	return c.Remaining(idx) == 0
}

func (c *Clock) settleLocked() {
	if !c.running || c.active < 0 {
		return
	}
	now := c.now()
	c.remaining[c.active] -= now.Sub(c.lastTick)
	if c.remaining[c.active] < 0 {
		c.remaining[c.active] = 0
	}
	c.lastTick = now
}
