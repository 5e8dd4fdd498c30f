package cache

import (
	"context"
	"time"
)

// Sweep evicts every entry whose TTL elapsed at or before now, then reloads
// every recipe whose TTL elapsed at or before now.
//
// The entry sweep runs fully under the lock: the expiry index is walked from
// its oldest slot and stops at the first unexpired one, which index order
// guarantees is followed only by younger slots. The path sweep is two-phase:
// expired recipes are collected and removed under the lock, then the lock is
// released and each subtree is reloaded via InsertPath (filesystem I/O must
// not happen under the lock, and InsertPath locks internally to register the
// fresh recipe). Between the phases other goroutines observe no recipe for a
// reloading path, and its entries may be stale; a failed reload leaves the
// recipe dropped.
func (c *Cache) Sweep(now time.Time) {
	if c.closed.Load() {
		return
	}
	ts := now.UnixNano()

	c.mu.Lock()
	for {
		s, ok := c.entryIdx.front()
		if !ok {
			break
		}
		if c.entries[s.key].deadline() > ts {
			break
		}
		c.entryIdx.remove(s.ts)
		delete(c.entries, s.key)
		c.evicts.Add(1)
		c.opt.Metrics.Evict(EvictExpired)
	}

	type expired struct {
		path   string
		prefix string
		ttl    time.Duration
		h      Handler
	}
	var due []expired
	for {
		s, ok := c.pathIdx.front()
		if !ok {
			break
		}
		r := c.paths[s.key]
		if r.deadline() > ts {
			break
		}
		c.pathIdx.remove(s.ts)
		delete(c.paths, s.key)
		due = append(due, expired{path: s.key, prefix: r.prefix, ttl: r.ttl, h: r.handler})
	}
	c.opt.Metrics.Size(len(c.entries), len(c.paths))
	c.mu.Unlock()

	for _, r := range due {
		ok := c.reloadGroup.Do(r.path, func() bool {
			return c.InsertPath(r.path, r.prefix, r.ttl, r.h)
		})
		if ok {
			c.reloads.Add(1)
		} else {
			c.failedReloads.Add(1)
		}
		c.opt.Metrics.Reload(ok)
	}
}

// SweepNow runs Sweep anchored at the configured clock's current time.
func (c *Cache) SweepNow() {
	c.Sweep(time.Unix(0, c.nowUnixNano()))
}

// sweepLoop is the background watchdog started by New when SweepInterval is
// positive. It exits when ctx is cancelled by Close.
func (c *Cache) sweepLoop(ctx context.Context, every time.Duration) {
	defer c.wg.Done()

	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.SweepNow()
		}
	}
}
