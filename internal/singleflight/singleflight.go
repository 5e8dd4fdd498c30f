// Package singleflight coalesces duplicate subtree reloads: when sweeps
// overlap, only one walk per path actually runs and the others wait for its
// result.
package singleflight

import "sync"

// Group deduplicates concurrent calls keyed by string. The first caller for
// a key runs fn; followers block until it finishes and share its result.
// Calls are not cancellable — reloads run to completion.
type Group struct {
	mu sync.Mutex
	m  map[string]*call
}

type call struct {
	done chan struct{} // closed once ok is published
	ok   bool
}

// Do runs fn once for key. Concurrent calls with the same key wait for and
// return the leader's result.
func (g *Group) Do(key string, fn func() bool) bool {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[string]*call)
	}
	if c, ok := g.m[key]; ok {
		g.mu.Unlock()
		<-c.done
		return c.ok
	}

	c := &call{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	// Run fn outside the lock; publish happens-before close(done).
	c.ok = fn()
	close(c.done)

	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()

	return c.ok
}
