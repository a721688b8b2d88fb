// Package testutil provides deterministic test doubles for the playback
// engine, chiefly a manually advanced clock so timeline tests never sleep.
package testutil

import (
	"sync"
	"time"

	"github.com/igenius/soroban/internal/clock"
)

// FakeClock is a clock.Clock whose time only moves when the test calls
// Advance. Timers due within an Advance window fire synchronously, in
// (deadline, scheduling order) order, before Advance returns.
//
// Callbacks run without the clock's lock held, so they may schedule or stop
// timers themselves. A callback that schedules a timer still due within the
// current Advance window will see it fire in the same call.
//
// Thread-safety: all methods are safe for concurrent use, but deterministic
// tests should drive Advance from a single goroutine.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	c        *FakeClock
	deadline time.Time
	seq      int
	f        func()
	stopped  bool
	fired    bool
}

// NewFakeClock creates a clock positioned at the Unix epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Unix(0, 0).UTC()}
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to run when the clock is advanced past d.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{c: c, deadline: c.now.Add(d), seq: c.seq, f: f}
	c.seq++
	c.timers = append(c.timers, t)
	return t
}

// Stop cancels the timer, reporting whether it was still pending.
func (t *fakeTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward by d, firing every due timer in order.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)

	for {
		t := c.nextDueLocked(target)
		if t == nil {
			break
		}
		if t.deadline.After(c.now) {
			c.now = t.deadline
		}
		t.fired = true

		// Run the callback unlocked so it can interact with the clock.
		c.mu.Unlock()
		t.f()
		c.mu.Lock()
	}

	c.now = target
	c.mu.Unlock()
}

// nextDueLocked returns the earliest pending timer with deadline <= target,
// breaking deadline ties by scheduling order. Spent timers are compacted out.
func (c *FakeClock) nextDueLocked(target time.Time) *fakeTimer {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			live = append(live, t)
		}
	}
	c.timers = live

	var due *fakeTimer
	for _, t := range c.timers {
		if t.deadline.After(target) {
			continue
		}
		if due == nil || t.deadline.Before(due.deadline) ||
			(t.deadline.Equal(due.deadline) && t.seq < due.seq) {
			due = t
		}
	}
	return due
}

// Pending returns the number of scheduled, unfired, unstopped timers.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}
