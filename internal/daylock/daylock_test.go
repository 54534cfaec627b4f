package daylock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLocker(t *testing.T) (*miniredis.Miniredis, *Locker) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewLocker(client, time.Minute)
}

func TestAcquireAndRelease(t *testing.T) {
	_, locker := setupLocker(t)
	ctx := context.Background()
	date := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)

	release, err := locker.Acquire(ctx, "tour", date)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "tour", date)
	assert.ErrorIs(t, err, ErrLocked)

	release()

	release2, err := locker.Acquire(ctx, "tour", date)
	require.NoError(t, err)
	release2()
}

func TestLocksAreScopedPerDomainAndDate(t *testing.T) {
	_, locker := setupLocker(t)
	ctx := context.Background()
	date := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)

	release, err := locker.Acquire(ctx, "tour", date)
	require.NoError(t, err)
	defer release()

	releaseOther, err := locker.Acquire(ctx, "restaurant", date)
	require.NoError(t, err)
	defer releaseOther()

	releaseNext, err := locker.Acquire(ctx, "tour", date.AddDate(0, 0, 1))
	require.NoError(t, err)
	defer releaseNext()
}

func TestReleaseDoesNotStealReacquiredLock(t *testing.T) {
	mr, locker := setupLocker(t)
	ctx := context.Background()
	date := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)

	staleRelease, err := locker.Acquire(ctx, "tour", date)
	require.NoError(t, err)

	// the lock expires while the stale holder is still working
	mr.FastForward(2 * time.Minute)

	release, err := locker.Acquire(ctx, "tour", date)
	require.NoError(t, err)
	defer release()

	staleRelease()

	_, err = locker.Acquire(ctx, "tour", date)
	assert.ErrorIs(t, err, ErrLocked)
}
