package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/airgauge/airgauge/pkg/types"
)

// Entry is a device's latest sample together with the time it was received.
type Entry struct {
	Sample    *types.Sample
	UpdatedAt time.Time
}

// Store is a thread-safe in-memory sample store, keyed by device_id.
// The latest sample per device is subject to TTL eviction; every accepted
// sample is also appended to a per-device history ring capped at histCap.
// A background goroutine (Run) periodically evicts latest entries that have
// not been updated within the configured TTL.
type Store struct {
	mu      sync.RWMutex
	latest  map[string]*Entry
	history map[string][]*types.Sample
	ttl     time.Duration
	histCap int
	now     func() time.Time // injectable for deterministic tests
}

// New creates a Store with the given TTL and per-device history cap.
func New(ttl time.Duration, histCap int) *Store {
	return &Store{
		latest:  make(map[string]*Entry),
		history: make(map[string][]*types.Sample),
		ttl:     ttl,
		histCap: histCap,
		now:     time.Now,
	}
}

// Put stores or replaces the latest sample for s.DeviceID and appends it to
// the device's history, dropping the oldest sample when the cap is reached.
// Callers must not modify s after calling Put.
func (st *Store) Put(s *types.Sample) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.latest[s.DeviceID] = &Entry{
		Sample:    s,
		UpdatedAt: st.now(),
	}

	h := append(st.history[s.DeviceID], s)
	if len(h) > st.histCap {
		h = h[len(h)-st.histCap:]
	}
	st.history[s.DeviceID] = h
}

// Get returns the latest Entry for the given device ID and a boolean
// indicating whether an entry was found. The entry may be stale if TTL has
// elapsed.
func (st *Store) Get(deviceID string) (*Entry, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	e, ok := st.latest[deviceID]
	return e, ok
}

// List returns all latest entries whose UpdatedAt is within the TTL.
// Stale entries that have not yet been evicted are excluded.
func (st *Store) List() []*Entry {
	st.mu.RLock()
	defer st.mu.RUnlock()
	cutoff := st.now().Add(-st.ttl)
	out := make([]*Entry, 0, len(st.latest))
	for _, e := range st.latest {
		if e.UpdatedAt.After(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// History returns the device's retained samples with Timestamp in [from, to].
// A zero from or to leaves that end of the range open. Samples are returned
// oldest first.
func (st *Store) History(deviceID string, from, to time.Time) []*types.Sample {
	st.mu.RLock()
	defer st.mu.RUnlock()
	var out []*types.Sample
	for _, s := range st.history[deviceID] {
		if !from.IsZero() && s.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && s.Timestamp.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// TTL returns the configured latest-entry time-to-live.
func (st *Store) TTL() time.Duration {
	return st.ttl
}

// Count returns the total number of latest entries currently held,
// including stale ones.
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.latest)
}

// Evict removes latest entries whose UpdatedAt is older than now minus TTL.
// History is retained so a flapping device keeps its record. It returns the
// number of entries removed.
func (st *Store) Evict(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	cutoff := now.Add(-st.ttl)
	removed := 0
	for id, e := range st.latest {
		if !e.UpdatedAt.After(cutoff) {
			delete(st.latest, id)
			removed++
		}
	}
	return removed
}

// Run starts the background TTL eviction loop. It ticks at half the TTL interval
// (minimum 1 second) so entries are evicted promptly. Run blocks until ctx is
// cancelled.
func (st *Store) Run(ctx context.Context) {
	interval := st.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.Evict(now); n > 0 {
				slog.Debug("store: evicted stale devices", "count", n)
			}
		}
	}
}
