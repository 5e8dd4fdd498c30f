package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t int64 }

func (f *fakeClock) NowUnixNano() int64  { return f.t }
func (f *fakeClock) add(d time.Duration) { f.t += int64(d) }

// Basic Add/Find/Remove semantics. Add always succeeds; Remove reports
// whether the key existed.
func TestCache_BasicAddFindRemove(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	t.Cleanup(func() { _ = c.Close() })

	if !c.Add("a", "1", 0) {
		t.Fatal("Add a=1 must be true")
	}
	if v, ok := c.Find("a"); !ok || v != "1" {
		t.Fatalf("Find a want 1, got %q ok=%v", v, ok)
	}

	if !c.Remove("a") {
		t.Fatal("Remove a must be true")
	}
	if c.Remove("a") {
		t.Fatal("Remove absent key must be false")
	}
	if _, ok := c.Find("a"); ok {
		t.Fatal("a must be absent after Remove")
	}
	if !c.Empty() {
		t.Fatalf("cache must be empty, Len=%d", c.Len())
	}
}

// A second Add under the same key replaces the value and never double-counts.
func TestCache_SecondAddWins(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: 1}
	c := New(Options{Clock: clk})
	t.Cleanup(func() { _ = c.Close() })

	c.Add("k", "old", time.Second)
	c.Add("k", "new", 0)

	if c.Len() != 1 {
		t.Fatalf("Len want 1, got %d", c.Len())
	}
	v, exp, ok := c.FindWithExpiry("k")
	if !ok || v != "new" {
		t.Fatalf("want new, got %q ok=%v", v, ok)
	}
	// Replacement dropped the TTL, so the expiry must be gone too.
	if !exp.IsZero() {
		t.Fatalf("expiry must be zero after TTL-less replacement, got %v", exp)
	}
	// The old index slot must be gone: a sweep far in the future evicts nothing.
	c.Sweep(time.Unix(0, clk.t).Add(time.Hour))
	if c.Len() != 1 {
		t.Fatalf("entry without TTL must survive sweeps, Len=%d", c.Len())
	}
}

// Entries stored with ttl=0 never expire regardless of elapsed time.
func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: 1}
	c := New(Options{Clock: clk})
	t.Cleanup(func() { _ = c.Close() })

	c.Add("forever", "v", 0)
	clk.add(1000 * time.Hour)
	c.SweepNow()

	if v, ok := c.Find("forever"); !ok || v != "v" {
		t.Fatalf("entry must survive, got %q ok=%v", v, ok)
	}
}

// FindWithExpiry reports insertedAt+ttl for TTL'd entries and the zero time
// otherwise.
func TestCache_FindWithExpiry(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: int64(1000 * time.Hour)}
	c := New(Options{Clock: clk})
	t.Cleanup(func() { _ = c.Close() })

	c.Add("ttl", "v", time.Minute)
	c.Add("plain", "w", 0)

	_, exp, ok := c.FindWithExpiry("ttl")
	if !ok {
		t.Fatal("ttl key must be present")
	}
	want := time.Unix(0, clk.t).Add(time.Minute)
	if !exp.Equal(want) {
		t.Fatalf("expiry want %v, got %v", want, exp)
	}

	if _, exp, ok := c.FindWithExpiry("plain"); !ok || !exp.IsZero() {
		t.Fatalf("plain key: want zero expiry, got %v ok=%v", exp, ok)
	}
	if _, exp, ok := c.FindWithExpiry("absent"); ok || !exp.IsZero() {
		t.Fatalf("absent key: want miss with zero expiry, got %v ok=%v", exp, ok)
	}
}

// Two insertions in the same clock tick must get distinct, increasing
// timestamps so expiry-index slots never collide.
func TestCache_TimestampsStrictlyIncrease(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: 42} // frozen: every read returns the same instant
	c := New(Options{Clock: clk})
	t.Cleanup(func() { _ = c.Close() })

	c.Add("a", "1", time.Second)
	c.Add("b", "2", time.Second)
	c.Add("c", "3", time.Second)

	_, expA, _ := c.FindWithExpiry("a")
	_, expB, _ := c.FindWithExpiry("b")
	_, expC, _ := c.FindWithExpiry("c")

	if !expA.Before(expB) || !expB.Before(expC) {
		t.Fatalf("expiries must strictly increase: %v %v %v", expA, expB, expC)
	}
	if got := expB.Sub(expA); got != time.Nanosecond {
		t.Fatalf("stalled clock must advance by exactly 1ns, got %v", got)
	}
}

// Clear empties entries, recipes and both indexes.
func TestCache_Clear(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: 1}
	c := New(Options{Clock: clk})
	t.Cleanup(func() { _ = c.Close() })

	c.Add("a", "1", time.Second)
	c.Add("b", "2", 0)
	c.Clear()

	if !c.Empty() || c.PathCount() != 0 {
		t.Fatalf("cache must be empty after Clear: Len=%d paths=%d", c.Len(), c.PathCount())
	}
	// Re-adding after Clear must work and sweep cleanly (no stale slots).
	c.Add("a", "1", time.Second)
	clk.add(2 * time.Second)
	c.SweepNow()
	if !c.Empty() {
		t.Fatalf("sweep after Clear+Add must evict, Len=%d", c.Len())
	}
}

// Operations on a closed cache are no-ops; reads miss.
func TestCache_Closed(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	c.Add("a", "1", 0)
	_ = c.Close()

	if c.Add("b", "2", 0) {
		t.Fatal("Add on closed cache must be false")
	}
	if _, ok := c.Find("a"); ok {
		t.Fatal("Find on closed cache must miss")
	}
	if c.Remove("a") {
		t.Fatal("Remove on closed cache must be false")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

// Stats counters track hits, misses and evictions.
func TestCache_Stats(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: 1}
	c := New(Options{Clock: clk})
	t.Cleanup(func() { _ = c.Close() })

	c.Add("a", "1", time.Second)
	c.Find("a")     // hit
	c.Find("ghost") // miss
	clk.add(2 * time.Second)
	c.SweepNow() // evicts a

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Evictions != 1 {
		t.Fatalf("stats want 1/1/1, got %+v", st)
	}
}
