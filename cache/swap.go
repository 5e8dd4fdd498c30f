package cache

// Swap exchanges the entire internal state of c and other: the timestamp
// counter, both entry structures, and both path structures. Options, metrics
// and stats counters stay with their instance.
//
// Both locks are taken in instance-id order, a single global order, so two
// goroutines swapping the same pair with opposite argument order cannot
// deadlock. Swapping a cache with itself is a no-op.
func (c *Cache) Swap(other *Cache) {
	if other == nil || other == c {
		return
	}

	first, second := c, other
	if first.id > second.id {
		first, second = second, first
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	// lastTS travels with the indexes: future issues on either instance
	// stay above every slot it now holds, preserving index ordering.
	c.lastTS, other.lastTS = other.lastTS, c.lastTS
	c.entries, other.entries = other.entries, c.entries
	c.entryIdx, other.entryIdx = other.entryIdx, c.entryIdx
	c.paths, other.paths = other.paths, c.paths
	c.pathIdx, other.pathIdx = other.pathIdx, c.pathIdx

	c.opt.Metrics.Size(len(c.entries), len(c.paths))
	other.opt.Metrics.Size(len(other.entries), len(other.paths))
}

// Swap exchanges the state of two externally held caches.
// It delegates to the method form.
func Swap(a, b *Cache) {
	if a == nil {
		return
	}
	a.Swap(b)
}
