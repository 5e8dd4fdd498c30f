// Package cache provides a concurrency-safe in-memory key/value cache with
// per-entry TTL, bulk population from filesystem subtrees, and a watchdog
// sweep that evicts expired entries and reloads expired subtrees.
//
// Design
//
//   - Concurrency: one mutex per cache instance guards the entry map, the
//     path map, both expiry indexes, and the timestamp counter. Every public
//     operation is a short in-memory critical section; the only exception is
//     subtree loading, which performs filesystem I/O outside the lock.
//
//   - Storage: entries and path recipes are immutable records stored by
//     value. An update replaces the mapping entry; fields are never edited
//     in place.
//
//   - TTL: timestamps are issued strictly increasing per instance (a clock
//     read that does not advance past the last issued timestamp is bumped by
//     one nanosecond). Each store keeps an expiry index of (timestamp, key)
//     slots in issuance order, so the front of the index is always the
//     oldest live slot and a sweep stops at the first unexpired one.
//     Expiration happens only during Sweep, never on read.
//
//   - Subtrees: InsertPath walks a directory recursively, mapping structure
//     onto keys ("/sub/b.txt" for sub/b.txt under prefix "/"), percent-
//     decoding names and decoding file bytes as tolerant UTF-8. The walk is
//     recorded as a recipe (path, prefix, handler, TTL) so the watchdog can
//     reproduce it after expiry.
//
//   - Handlers: every loaded file goes through a Handler, the one
//     customization point for transforming or rejecting content before it
//     becomes an entry. Handlers are stored inside recipes and invoked again
//     on reload, so they must be safe for concurrent use.
//
//   - Watchdog: Sweep(now) first evicts expired entries under the lock, then
//     collects expired recipes, releases the lock and reloads each subtree
//     via InsertPath. During a reload the recipe is briefly absent and the
//     subtree's entries may be stale; FindPath reports false in that window.
//
//   - Swap: two instances can exchange their entire state atomically. Locks
//     are taken in a global order (by instance id), so concurrent swaps of
//     the same pair in opposite argument order cannot deadlock.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Reload/Size signals;
//     NoopMetrics is the default. A Prometheus adapter lives in metrics/prom.
//
// Basic usage
//
//	c := cache.New(cache.Options{})
//	c.Add("/greeting", "hello", 0) // never expires
//	if v, ok := c.Find("/greeting"); ok {
//	    _ = v
//	}
//
// Loading a subtree with a TTL
//
//	c := cache.New(cache.Options{SweepInterval: time.Minute})
//	defer c.Close()
//
//	// Mount ./static under "/" and refresh it every ten minutes.
//	if !c.InsertPath("./static", "/", 10*time.Minute, nil) {
//	    // partial state may remain; Clear and retry, or serve what loaded
//	}
//	v, ok := c.Find("/css/site.css")
//
// Custom handler
//
//	keepSmall := func(c *cache.Cache, key, value string, ttl time.Duration) bool {
//	    if len(value) > 1<<20 {
//	        return true // skip, keep walking
//	    }
//	    return c.Add(key, value, ttl)
//	}
//	c.InsertPath("./static", "/", time.Hour, keepSmall)
//
// A handler returning false aborts the whole InsertPath call; a handler that
// wants to skip a file returns true without calling Add.
package cache
