package cache

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// Handler decides how (or whether) a loaded file becomes a cache entry.
// It is invoked once per file with the computed key, the decoded content and
// the TTL given to InsertPath. Returning false aborts the whole load.
//
// Handlers are stored inside recipes and re-invoked on watchdog reloads
// without any caller synchronization, so they must be safe for concurrent
// use.
type Handler func(c *Cache, key, value string, ttl time.Duration) bool

// DefaultHandler stores the file content as-is.
func DefaultHandler(c *Cache, key, value string, ttl time.Duration) bool {
	return c.Add(key, value, ttl)
}

// InsertPath recursively loads the filesystem subtree rooted at path,
// mounting it under prefix: a file sub/b.txt becomes the key
// normalized(prefix) + "sub/b.txt", with directory and file names
// percent-decoded ("%20" in a name becomes a space in the key) and file
// bytes decoded as tolerant UTF-8. A nil handler means DefaultHandler.
//
// Any existing recipe for path is removed first. On success the walk is
// recorded as a recipe so the watchdog can reload the subtree after ttl
// elapses (ttl <= 0 registers a recipe that never expires).
//
// InsertPath returns false if any filesystem operation fails, a name fails
// to decode, or the handler rejects a file. There is no rollback: entries
// stored earlier in the same walk remain. Entries from a previous load of
// the same path are never purged, so keys absent from the new tree persist
// until their own TTL fires.
func (c *Cache) InsertPath(path, prefix string, ttl time.Duration, h Handler) bool {
	if c.closed.Load() {
		return false
	}
	if h == nil {
		h = DefaultHandler
	}

	c.mu.Lock()
	c.removePathLocked(path)
	c.mu.Unlock()

	// The walk performs filesystem I/O and re-enters Add through the
	// handler, so it must run outside the lock.
	if !c.loadTree(path, normalizePrefix(prefix), ttl, h) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.removePathLocked(path) // a concurrent InsertPath may have raced the walk
	r := recipe{prefix: prefix, handler: h, ttl: ttl}
	if ttl > 0 {
		r.insertedAt = c.issueLocked()
		c.pathIdx.insert(r.insertedAt, path)
	}
	c.paths[path] = r
	c.opt.Metrics.Size(len(c.entries), len(c.paths))
	return true
}

// FindPath reports whether a recipe is registered for path.
// It does not consult the entry store.
func (c *Cache) FindPath(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.paths[path]
	return ok
}

// FindPathWithExpiry reports whether a recipe is registered for path, along
// with its absolute expiry time (zero for recipes without a TTL).
func (c *Cache) FindPathWithExpiry(path string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.paths[path]
	if !ok {
		return time.Time{}, false
	}
	var exp time.Time
	if d := r.deadline(); d != 0 {
		exp = time.Unix(0, d)
	}
	return exp, true
}

// RemovePath deletes the recipe for path and its expiry-index slot, if
// present. Entries previously loaded from the path are left in place.
// Returns false if no recipe was registered.
func (c *Cache) RemovePath(path string) bool {
	if c.closed.Load() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.removePathLocked(path) {
		return false
	}
	c.opt.Metrics.Size(len(c.entries), len(c.paths))
	return true
}

// loadTree walks dir depth-first: subdirectories before files, both in the
// order the FS reports them. keyPrefix always ends with the key separator.
func (c *Cache) loadTree(dir, keyPrefix string, ttl time.Duration, h Handler) bool {
	subs, err := c.opt.FS.SubDirs(dir)
	if err != nil {
		return false
	}
	for _, sub := range subs {
		name, err := url.PathUnescape(filepath.Base(sub))
		if err != nil {
			return false
		}
		if !c.loadTree(sub, keyPrefix+name+"/", ttl, h) {
			return false
		}
	}

	files, err := c.opt.FS.Files(dir)
	if err != nil {
		return false
	}
	for _, f := range files {
		name, err := url.PathUnescape(filepath.Base(f))
		if err != nil {
			return false
		}
		raw, err := c.opt.FS.ReadFile(f)
		if err != nil {
			return false
		}
		if !h(c, keyPrefix+name, decodeText(raw), ttl) {
			return false
		}
	}
	return true
}

// normalizePrefix turns the caller's mount prefix into a key prefix ending
// with the separator: "" and "/" map to "/", anything else gets "/" added.
func normalizePrefix(prefix string) string {
	if prefix == "" || prefix == "/" {
		return "/"
	}
	return prefix + "/"
}

// decodeText decodes file bytes as UTF-8, replacing malformed sequences
// with U+FFFD rather than rejecting them.
func decodeText(b []byte) string {
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}
