package engine

import (
	"sync"
	"time"
)

// probeEntry stores the outcome of one asset probe with a TTL.
type probeEntry struct {
	ok        bool
	expiresAt time.Time
}

// ProbeMemory remembers which conventional asset URLs exist, so that
// re-extracting the same site (extract, then seed, then refresh) does not
// repeat every existence check. Entries expire after the configured TTL
// and are cleaned up periodically.
type ProbeMemory struct {
	store sync.Map // asset URL (string) -> *probeEntry
	ttl   time.Duration
	done  chan struct{}
	once  sync.Once
}

// NewProbeMemory creates a ProbeMemory with the given TTL and starts
// a background goroutine that prunes expired entries.
func NewProbeMemory(ttl time.Duration) *ProbeMemory {
	pm := &ProbeMemory{
		ttl:  ttl,
		done: make(chan struct{}),
	}
	go pm.cleanupLoop()
	return pm
}

// Get returns the remembered outcome for url and whether one was found.
func (pm *ProbeMemory) Get(url string) (ok bool, found bool) {
	val, loaded := pm.store.Load(url)
	if !loaded {
		return false, false
	}
	entry := val.(*probeEntry)
	if time.Now().After(entry.expiresAt) {
		pm.store.Delete(url)
		return false, false
	}
	return entry.ok, true
}

// Set records a probe outcome.
func (pm *ProbeMemory) Set(url string, ok bool) {
	pm.store.Store(url, &probeEntry{
		ok:        ok,
		expiresAt: time.Now().Add(pm.ttl),
	})
}

// Stop terminates the background cleanup goroutine.
func (pm *ProbeMemory) Stop() {
	pm.once.Do(func() { close(pm.done) })
}

// cleanupLoop runs every ttl (at least once a minute), deleting expired entries.
func (pm *ProbeMemory) cleanupLoop() {
	interval := pm.ttl
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-pm.done:
			return
		case <-ticker.C:
			now := time.Now()
			pm.store.Range(func(key, value any) bool {
				if now.After(value.(*probeEntry).expiresAt) {
					pm.store.Delete(key)
				}
				return true
			})
		}
	}
}
