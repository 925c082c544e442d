package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "casebridge/pkg/domain-errors"
	"casebridge/pkg/platform/sentinel"
)

func setupLocker(t *testing.T, ttl time.Duration) (*CaseLocker, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, ttl), s
}

func TestAcquire_ExclusivePerCase(t *testing.T) {
	locker, _ := setupLocker(t, time.Minute)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "1452061")
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "1452061")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	assert.ErrorIs(t, err, sentinel.ErrConflict)

	other, err := locker.Acquire(ctx, "999")
	require.NoError(t, err, "other cases are independent")
	require.NoError(t, other(ctx))

	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx), "release is idempotent")

	again, err := locker.Acquire(ctx, "1452061")
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestAcquire_LeaseExpires(t *testing.T) {
	locker, s := setupLocker(t, 10*time.Second)
	ctx := context.Background()

	stale, err := locker.Acquire(ctx, "1")
	require.NoError(t, err)

	s.FastForward(11 * time.Second)

	fresh, err := locker.Acquire(ctx, "1")
	require.NoError(t, err)

	// The expired holder must not release the new lease.
	require.NoError(t, stale(ctx))
	assert.True(t, s.Exists(keyPrefix+"1"))

	require.NoError(t, fresh(ctx))
	assert.False(t, s.Exists(keyPrefix+"1"))
}

func TestAcquire_RedisDown(t *testing.T) {
	locker, s := setupLocker(t, time.Minute)
	s.Close()

	_, err := locker.Acquire(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestAcquire_NilClient(t *testing.T) {
	locker := New(nil, time.Minute)

	release, err := locker.Acquire(context.Background(), "1")
	require.NoError(t, err)
	assert.NoError(t, release(context.Background()))
}

// Justification: a mediated addition can outlive the lease ttl; the holder
// must keep the case locked until it releases.
func TestAcquire_RenewsWhileHeld(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	locker := New(client, 30*time.Second, WithRenewInterval(10*time.Millisecond))
	ctx := context.Background()
	key := keyPrefix + "1452061"

	release, err := locker.Acquire(ctx, "1452061")
	require.NoError(t, err)

	for range 3 {
		s.FastForward(20 * time.Second)
		require.Eventually(t, func() bool { return s.TTL(key) > 20*time.Second }, time.Second, 5*time.Millisecond)
	}

	_, err = locker.Acquire(ctx, "1452061")
	require.Error(t, err, "lease outlived its ttl while held")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	require.NoError(t, release(ctx))
	assert.False(t, s.Exists(key))

	// No renewal after release.
	time.Sleep(30 * time.Millisecond)
	assert.False(t, s.Exists(key))
}

func TestAcquire_StopsRenewingLostLease(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	locker := New(client, 30*time.Second, WithRenewInterval(10*time.Millisecond))
	ctx := context.Background()
	key := keyPrefix + "1"

	release, err := locker.Acquire(ctx, "1")
	require.NoError(t, err)

	s.Del(key)
	require.NoError(t, s.Set(key, "someone-else"))
	time.Sleep(30 * time.Millisecond)

	ttl := s.TTL(key)
	assert.Zero(t, ttl, "foreign key must not get our ttl")
	require.NoError(t, release(ctx))
	assert.True(t, s.Exists(key), "release leaves a foreign lease alone")
}
