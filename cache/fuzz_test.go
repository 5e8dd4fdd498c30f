//go:build go1.18

package cache

import (
	"strings"
	"testing"
	"time"
)

// Fuzz basic Add/Find/Remove semantics under arbitrary string inputs.
// Guards against panics and ensures core invariants hold.
// NOTE: We cap key/value lengths to avoid pathological memory usage
// during fuzzing (this does not weaken the invariants we check).
func FuzzCache_AddFindRemove(f *testing.F) {
	// Seed corpus: empty, ASCII, Unicode, long strings.
	f.Add("", "")
	f.Add("/a.txt", "1")
	f.Add("b", "2")
	f.Add("αβγ", "δ")
	f.Add("emoji🙂", "🙂🙂")
	f.Add("long", strings.Repeat("x", 1024))

	f.Fuzz(func(t *testing.T, k, v string) {
		// Cap lengths to keep memory bounded during fuzzing.
		const limit = 1 << 12 // 4096
		if len(k) > limit {
			k = k[:limit]
		}
		if len(v) > limit {
			v = v[:limit]
		}

		c := New(Options{})
		t.Cleanup(func() { _ = c.Close() })

		// Add -> Find must return the same value.
		if !c.Add(k, v, 0) {
			t.Fatalf("Add returned false")
		}
		got, ok := c.Find(k)
		if !ok || got != v {
			t.Fatalf("after Add/Find: want %q, got %q ok=%v", v, got, ok)
		}

		// A second Add wins and never double-counts.
		c.Add(k, "other", time.Minute)
		if got2, ok := c.Find(k); !ok || got2 != "other" {
			t.Fatalf("after second Add: want other, got %q ok=%v", got2, ok)
		}
		if c.Len() != 1 {
			t.Fatalf("Len after duplicate Add: want 1, got %d", c.Len())
		}

		// Remove must delete and return true once.
		if !c.Remove(k) {
			t.Fatalf("Remove must return true")
		}
		if c.Remove(k) {
			t.Fatalf("second Remove must return false")
		}
		if _, ok := c.Find(k); ok {
			t.Fatalf("key must be absent after Remove")
		}

		// After removal, a TTL'd Add and an immediate far-future sweep
		// must evict cleanly (no stale index slot panics).
		if ok := c.Add(k, v, time.Nanosecond); !ok {
			t.Fatalf("Add after Remove must return true")
		}
		c.Sweep(time.Now().Add(time.Hour))
		if !c.Empty() {
			t.Fatalf("sweep must evict the TTL'd entry, Len=%d", c.Len())
		}
	})
}
