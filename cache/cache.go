package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IvanBrykalov/treecache/internal/singleflight"
	"github.com/IvanBrykalov/treecache/internal/util"
)

// nextID hands out instance ids used to order locks in Swap.
var nextID atomic.Uint64

// Cache is an in-memory key/value store with TTL expiry and filesystem
// subtree loading. All methods are safe for concurrent use by multiple
// goroutines.
type Cache struct {
	id uint64

	// ---- guarded by mu ----
	mu       sync.Mutex
	entries  map[string]entry
	entryIdx *expiryIndex
	paths    map[string]recipe
	pathIdx  *expiryIndex
	lastTS   int64 // last issued timestamp (UnixNano)

	opt    Options
	closed atomic.Bool

	// Background watchdog ownership (only when SweepInterval > 0).
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Coalesces duplicate subtree reloads from overlapping sweeps.
	reloadGroup singleflight.Group

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_             util.CacheLinePad
	hits          util.PaddedAtomicUint64
	misses        util.PaddedAtomicUint64
	evicts        util.PaddedAtomicUint64
	reloads       util.PaddedAtomicUint64
	failedReloads util.PaddedAtomicUint64
}

// New constructs a cache with the provided Options.
// Defaults:
//   - nil Clock   -> time.Now
//   - nil FS      -> the operating system filesystem
//   - nil Metrics -> NoopMetrics
//
// A positive SweepInterval starts a background watchdog; stop it with Close.
func New(opt Options) *Cache {
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.FS == nil {
		opt.FS = osFS{}
	}

	c := &Cache{
		id:       nextID.Add(1),
		entries:  make(map[string]entry),
		entryIdx: newExpiryIndex(),
		paths:    make(map[string]recipe),
		pathIdx:  newExpiryIndex(),
		opt:      opt,
	}

	if opt.SweepInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		c.wg.Add(1)
		go c.sweepLoop(ctx, opt.SweepInterval)
	}
	return c
}

// Close marks the cache as closed and stops the background watchdog, if any.
// Future mutating operations are ignored; reads miss. Safe to call twice.
func (c *Cache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return nil
}

// Add inserts or replaces the value for key. A positive ttl schedules the
// entry for eviction by the watchdog; ttl <= 0 means the entry never
// expires. Returns false only on a closed cache.
func (c *Cache) Add(key, value string, ttl time.Duration) bool {
	if c.closed.Load() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.removeEntryLocked(key) {
		c.opt.Metrics.Evict(EvictReplaced)
	}

	e := entry{val: value}
	if ttl > 0 {
		e.insertedAt = c.issueLocked()
		e.ttl = ttl
		c.entryIdx.insert(e.insertedAt, key)
	}
	c.entries[key] = e
	c.opt.Metrics.Size(len(c.entries), len(c.paths))
	return true
}

// Find returns the value stored under key. It has no side effects: an entry
// past its TTL is still returned until a sweep evicts it.
func (c *Cache) Find(key string) (string, bool) {
	if c.closed.Load() {
		c.miss()
		return "", false
	}
	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()

	if !ok {
		c.miss()
		return "", false
	}
	c.hits.Add(1)
	c.opt.Metrics.Hit()
	return e.val, true
}

// FindWithExpiry is Find plus the entry's absolute expiry time.
// The expiry is the zero time for entries without a TTL (and on a miss).
func (c *Cache) FindWithExpiry(key string) (string, time.Time, bool) {
	if c.closed.Load() {
		c.miss()
		return "", time.Time{}, false
	}
	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()

	if !ok {
		c.miss()
		return "", time.Time{}, false
	}
	c.hits.Add(1)
	c.opt.Metrics.Hit()

	var exp time.Time
	if d := e.deadline(); d != 0 {
		exp = time.Unix(0, d)
	}
	return e.val, exp, true
}

// Remove deletes the entry for key and its expiry-index slot, if present.
// Returns false if the key was absent.
func (c *Cache) Remove(key string) bool {
	if c.closed.Load() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.removeEntryLocked(key) {
		return false
	}
	c.opt.Metrics.Size(len(c.entries), len(c.paths))
	return true
}

// Clear empties the cache: entries, recipes, and both expiry indexes.
func (c *Cache) Clear() {
	if c.closed.Load() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
	c.paths = make(map[string]recipe)
	c.entryIdx.reset()
	c.pathIdx.reset()
	c.opt.Metrics.Size(0, 0)
}

// Len returns the number of resident entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Empty reports whether the cache holds no entries.
func (c *Cache) Empty() bool { return c.Len() == 0 }

// PathCount returns the number of registered path recipes.
func (c *Cache) PathCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.paths)
}

// Stats is a snapshot of the cache's hot counters.
type Stats struct {
	Hits          uint64
	Misses        uint64
	Evictions     uint64 // TTL evictions by the watchdog
	Reloads       uint64 // successful subtree reloads
	FailedReloads uint64
}

// Stats returns a point-in-time snapshot of operation counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Evictions:     c.evicts.Load(),
		Reloads:       c.reloads.Load(),
		FailedReloads: c.failedReloads.Load(),
	}
}

// ---- internals (mu held unless noted) ----

// removeEntryLocked drops key's entry and its index slot, if any.
func (c *Cache) removeEntryLocked(key string) bool {
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	if e.insertedAt != 0 {
		c.entryIdx.remove(e.insertedAt)
	}
	delete(c.entries, key)
	return true
}

// removePathLocked drops path's recipe and its index slot, if any.
func (c *Cache) removePathLocked(path string) bool {
	r, ok := c.paths[path]
	if !ok {
		return false
	}
	if r.insertedAt != 0 {
		c.pathIdx.remove(r.insertedAt)
	}
	delete(c.paths, path)
	return true
}

// issueLocked hands out the next timestamp. Issued timestamps are strictly
// increasing even when the clock stalls or steps backwards, which keeps
// expiry-index slots unique. Shared by both stores.
func (c *Cache) issueLocked() int64 {
	now := c.nowUnixNano()
	if now <= c.lastTS {
		now = c.lastTS + 1
	}
	c.lastTS = now
	return now
}

// nowUnixNano reads the configured clock. Callers may hold mu.
func (c *Cache) nowUnixNano() int64 {
	if c.opt.Clock != nil {
		return c.opt.Clock.NowUnixNano()
	}
	return time.Now().UnixNano()
}

func (c *Cache) miss() {
	c.misses.Add(1)
	c.opt.Metrics.Miss()
}
