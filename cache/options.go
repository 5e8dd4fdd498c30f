package cache

import "time"

// Clock provides time in UnixNano; useful for deterministic tests.
// Implementations must be safe for concurrent use.
type Clock interface{ NowUnixNano() int64 }

// Options configures the cache behavior. The zero value is usable;
// defaults are applied in New():
//   - nil Clock    => time.Now
//   - nil FS       => the operating system filesystem
//   - nil Metrics  => NoopMetrics
type Options struct {
	// Clock overrides the time source used to issue entry/recipe
	// timestamps and to anchor SweepNow.
	Clock Clock

	// FS is the filesystem capability used by InsertPath and by watchdog
	// reloads. Replace it to load from a virtual tree or to fail loads in
	// tests.
	FS FS

	// Metrics receives Hit/Miss/Evict/Reload/Size signals.
	Metrics Metrics

	// SweepInterval, when positive, starts a background goroutine that
	// calls SweepNow on that period. Close stops it. Zero leaves all
	// sweeping to the caller.
	SweepInterval time.Duration
}
