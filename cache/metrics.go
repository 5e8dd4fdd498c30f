package cache

// EvictReason explains why an entry left the cache.
type EvictReason int

const (
	// EvictExpired — removed by the watchdog sweep after its TTL elapsed.
	EvictExpired EvictReason = iota
	// EvictReplaced — displaced by a new Add under the same key.
	EvictReplaced
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
// Methods may be called while the cache lock is held; keep them lightweight.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	// Reload reports the outcome of a watchdog-triggered subtree reload.
	Reload(success bool)
	Size(entries, paths int)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) Hit()                    {}
func (NoopMetrics) Miss()                   {}
func (NoopMetrics) Evict(EvictReason)       {}
func (NoopMetrics) Reload(bool)             {}
func (NoopMetrics) Size(entries, paths int) {}

// Ensure NoopMetrics implements the Metrics interface at compile time.
var _ Metrics = NoopMetrics{}
