package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLock_MutualExclusion(t *testing.T) {
	m := NewKeyedMutex()
	defer m.Stop()

	unlock, err := m.Lock(context.Background(), "a")
	require.NoError(t, err)

	// A second acquisition of the same key must block until unlock.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = m.Lock(ctx, "a")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()

	unlock2, err := m.Lock(context.Background(), "a")
	require.NoError(t, err)
	unlock2()
}

func TestLock_IndependentKeys(t *testing.T) {
	m := NewKeyedMutex()
	defer m.Stop()

	unlockA, err := m.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := m.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()
}

func TestLock_ContextCancelWhileWaiting(t *testing.T) {
	m := NewKeyedMutex()
	defer m.Stop()

	unlock, err := m.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := m.Lock(ctx, "a")
		errCh <- err
	}()

	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)

	// The canceled waiter must not have consumed the lock.
	unlock()
	unlock2, err := m.Lock(context.Background(), "a")
	require.NoError(t, err)
	unlock2()
}

func TestLock_UnlockIsIdempotent(t *testing.T) {
	m := NewKeyedMutex()
	defer m.Stop()

	unlock, err := m.Lock(context.Background(), "a")
	require.NoError(t, err)

	unlock()
	unlock()

	unlock2, err := m.Lock(context.Background(), "a")
	require.NoError(t, err)
	unlock2()
}

func TestCleanup_RemovesStaleEntries(t *testing.T) {
	m := NewKeyedMutex()
	defer m.Stop()

	unlock, err := m.Lock(context.Background(), "a")
	require.NoError(t, err)
	unlock()

	// Backdate the entry and force a cleanup pass.
	m.mu.Lock()
	m.entries["a"].lastUsed = time.Now().Add(-2 * staleThreshold)
	m.mu.Unlock()

	m.cleanup()

	m.mu.Lock()
	_, ok := m.entries["a"]
	m.mu.Unlock()
	require.False(t, ok)
}

func TestCleanup_KeepsHeldEntries(t *testing.T) {
	m := NewKeyedMutex()
	defer m.Stop()

	unlock, err := m.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlock()

	m.cleanup()

	m.mu.Lock()
	_, ok := m.entries["a"]
	m.mu.Unlock()
	require.True(t, ok)
}

func TestStop_SafeToCallTwice(t *testing.T) {
	m := NewKeyedMutex()
	m.Stop()
	m.Stop()
}
