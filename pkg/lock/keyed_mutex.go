package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// Interval for cleaning up stale entries
	cleanupInterval = 10 * time.Minute

	// How long an entry must be unused before cleanup
	staleThreshold = 10 * time.Minute
)

// KeyedMutex provides per-key mutual exclusion with context-aware
// acquisition. Entries for keys that have not been used for a while are
// removed by a background goroutine; call Stop() during graceful shutdown.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*entry

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// entry is a channel-based semaphore so acquisition can honor context
// cancellation. refs counts waiters plus the holder; an entry is only
// cleaned up when refs is zero and lastUsed is stale.
type entry struct {
	ch       chan struct{}
	refs     int
	lastUsed time.Time
}

func NewKeyedMutex() *KeyedMutex {
	m := &KeyedMutex{
		entries:  make(map[string]*entry),
		stopChan: make(chan struct{}),
	}

	m.wg.Add(1)
	go m.cleanupLoop()

	return m
}

// Lock acquires the mutex for key, blocking until it is available or ctx is
// done. On success it returns an unlock function that must be called exactly
// once.
func (m *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		m.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	unlock := func() {
		once.Do(func() {
			<-e.ch
			m.release(key, e)
		})
	}
	return unlock, nil
}

func (m *KeyedMutex) release(key string, e *entry) {
	m.mu.Lock()
	e.refs--
	e.lastUsed = time.Now()
	m.mu.Unlock()
}

// Stop shuts down the cleanup goroutine. Safe to call multiple times.
func (m *KeyedMutex) Stop() {
	if m.stopped.CompareAndSwap(false, true) {
		close(m.stopChan)
		m.wg.Wait()
	}
}

func (m *KeyedMutex) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stopChan:
			return
		}
	}
}

func (m *KeyedMutex) cleanup() {
	cutoff := time.Now().Add(-staleThreshold)

	m.mu.Lock()
	for key, e := range m.entries {
		if e.refs == 0 && e.lastUsed.Before(cutoff) {
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
}
