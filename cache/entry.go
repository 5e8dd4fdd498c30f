package cache

import "time"

// entry is a stored value with optional expiry metadata.
// Entries are immutable: updates replace the map slot, never the fields.
type entry struct {
	val string

	// Issue timestamp in UnixNano. Zero means "no TTL"; a non-zero
	// timestamp has exactly one matching slot in the entry expiry index.
	insertedAt int64
	ttl        time.Duration
}

// deadline returns the absolute expiry in UnixNano, or 0 for no TTL.
func (e entry) deadline() int64 {
	if e.insertedAt == 0 {
		return 0
	}
	return e.insertedAt + int64(e.ttl)
}

// recipe records how a filesystem subtree was loaded, so the watchdog can
// reproduce the load after expiry. prefix is the caller's original (not
// normalized) prefix argument; reloading with it yields identical keys.
type recipe struct {
	prefix  string
	handler Handler

	insertedAt int64 // UnixNano, 0 = no TTL
	ttl        time.Duration
}

func (r recipe) deadline() int64 {
	if r.insertedAt == 0 {
		return 0
	}
	return r.insertedAt + int64(r.ttl)
}
