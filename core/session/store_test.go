package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestActivateThenConsumeWithinTTL(t *testing.T) {
	store := NewStore(WithClock(fixedClock(epoch)))
	sess := store.Activate(1, 42, 10*time.Minute)
	require.Equal(t, epoch.Add(10*time.Minute), sess.ExpiresAt)

	for _, offset := range []time.Duration{0, time.Second, 9*time.Minute + 59*time.Second, 10*time.Minute - time.Nanosecond} {
		got, status := store.Consume(1, epoch.Add(offset))
		require.Equal(t, Active, status, "offset %s", offset)
		assert.Equal(t, int64(42), got.TargetID)
	}
}

func TestConsumeAtOrAfterExpiry(t *testing.T) {
	for _, offset := range []time.Duration{10 * time.Minute, 10*time.Minute + time.Second, time.Hour} {
		store := NewStore(WithClock(fixedClock(epoch)))
		store.Activate(1, 42, 10*time.Minute)

		got, status := store.Consume(1, epoch.Add(offset))
		require.Equal(t, Expired, status, "offset %s", offset)
		assert.Equal(t, int64(42), got.TargetID)
		assert.Equal(t, 0, store.Len())
	}
}

func TestConsumeExpiredClearsSession(t *testing.T) {
	store := NewStore(WithClock(fixedClock(epoch)))
	store.Activate(1, 42, time.Minute)

	_, status := store.Consume(1, epoch.Add(2*time.Minute))
	require.Equal(t, Expired, status)

	_, status = store.Consume(1, epoch.Add(2*time.Minute))
	assert.Equal(t, Absent, status)

	// Even a clock that went backwards cannot resurrect it.
	_, status = store.Consume(1, epoch)
	assert.Equal(t, Absent, status)
}

func TestConsumeAbsent(t *testing.T) {
	store := NewStore()
	got, status := store.Consume(7, time.Now())
	assert.Equal(t, Absent, status)
	assert.Equal(t, Session{}, got)
}

func TestActivateLastWriteWins(t *testing.T) {
	store := NewStore(WithClock(fixedClock(epoch)))
	store.Activate(1, 42, 10*time.Minute)
	store.Activate(1, 43, 10*time.Minute)

	got, status := store.Consume(1, epoch.Add(time.Minute))
	require.Equal(t, Active, status)
	assert.Equal(t, int64(43), got.TargetID)
	assert.Equal(t, 1, store.Len())
}

func TestActivateRefreshesExpiredSession(t *testing.T) {
	now := epoch
	store := NewStore(WithClock(func() time.Time { return now }))
	store.Activate(1, 42, time.Minute)

	now = epoch.Add(5 * time.Minute)
	store.Activate(1, 42, time.Minute)

	_, status := store.Consume(1, now.Add(30*time.Second))
	assert.Equal(t, Active, status)
}

func TestSessionsAreKeyedByOperator(t *testing.T) {
	store := NewStore(WithClock(fixedClock(epoch)))
	store.Activate(1, 42, time.Minute)

	_, status := store.Consume(2, epoch)
	assert.Equal(t, Absent, status)

	got, status := store.Consume(1, epoch)
	require.Equal(t, Active, status)
	assert.Equal(t, int64(42), got.TargetID)
}

func TestConsumeDoesNotClearActiveSession(t *testing.T) {
	store := NewStore(WithClock(fixedClock(epoch)))
	store.Activate(1, 42, time.Minute)

	for i := 0; i < 3; i++ {
		_, status := store.Consume(1, epoch.Add(time.Duration(i)*time.Second))
		require.Equal(t, Active, status)
	}
}

func TestPeekNeverClears(t *testing.T) {
	store := NewStore(WithClock(fixedClock(epoch)))
	store.Activate(1, 42, time.Minute)

	sess, status := store.Peek(1, epoch.Add(2*time.Minute))
	require.Equal(t, Expired, status)
	assert.Equal(t, int64(42), sess.TargetID)
	assert.Equal(t, 1, store.Len())

	sess, status = store.Peek(1, epoch.Add(30*time.Second))
	require.Equal(t, Active, status)
	assert.Equal(t, 30*time.Second, sess.Remaining(epoch.Add(30*time.Second)))

	_, status = store.Peek(2, epoch)
	assert.Equal(t, Absent, status)
}

func TestRemaining(t *testing.T) {
	sess := Session{TargetID: 1, ExpiresAt: epoch.Add(time.Minute)}
	assert.Equal(t, time.Minute, sess.Remaining(epoch))
	assert.Equal(t, time.Duration(0), sess.Remaining(epoch.Add(2*time.Minute)))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "absent", Absent.String())
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "expired", Expired.String())
}

func TestConcurrentActivateAndConsume(t *testing.T) {
	store := NewStore(WithClock(fixedClock(epoch)))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(target int64) {
			defer wg.Done()
			store.Activate(1, target, time.Minute)
		}(int64(i + 1))
		go func() {
			defer wg.Done()
			if sess, status := store.Consume(1, epoch); status == Active {
				assert.NotZero(t, sess.TargetID)
			}
		}()
	}
	wg.Wait()

	sess, status := store.Consume(1, epoch)
	require.Equal(t, Active, status)
	assert.True(t, sess.TargetID >= 1 && sess.TargetID <= 50)
}

func TestConcurrentExpiryReportedOnce(t *testing.T) {
	store := NewStore(WithClock(fixedClock(epoch)))
	store.Activate(1, 42, time.Minute)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		expired int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, status := store.Consume(1, epoch.Add(time.Hour)); status == Expired {
				mu.Lock()
				expired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, expired)
}
