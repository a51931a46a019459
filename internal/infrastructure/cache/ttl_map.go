package cache

import (
	"sync"
	"time"
)

type ttlEntry struct {
	value     string
	expiresAt time.Time
}

// ttlMap is a mutex-guarded map whose entries expire. A janitor goroutine
// sweeps expired entries until close is called.
type ttlMap struct {
	mu        sync.RWMutex
	entries   map[string]ttlEntry
	now       func() time.Time
	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func newTTLMap(sweepEvery time.Duration) *ttlMap {
	m := &ttlMap{
		entries: make(map[string]ttlEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	m.wg.Add(1)
	go m.sweepLoop(sweepEvery)
	return m
}

func (m *ttlMap) get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok || !m.now().Before(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

func (m *ttlMap) set(key, value string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = ttlEntry{value: value, expiresAt: m.now().Add(ttl)}
}

// setIfAbsent stores value unless a live entry exists and reports whether it stored
func (m *ttlMap) setIfAbsent(key, value string, ttl time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if e, ok := m.entries[key]; ok && now.Before(e.expiresAt) {
		return false
	}
	m.entries[key] = ttlEntry{value: value, expiresAt: now.Add(ttl)}
	return true
}

func (m *ttlMap) delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

func (m *ttlMap) deletePrefix(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key := range m.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(m.entries, key)
			n++
		}
	}
	return n
}

func (m *ttlMap) size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *ttlMap) close() {
	m.closeOnce.Do(func() {
		close(m.stop)
		m.wg.Wait()
	})
}

func (m *ttlMap) sweepLoop(every time.Duration) {
	defer m.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *ttlMap) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for key, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, key)
		}
	}
}
