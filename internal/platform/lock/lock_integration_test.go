//go:build integration

package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"casebridge/pkg/testutil/containers"
)

func TestAcquire_RealRedisSingleWinner(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	locker := New(rc.Client, time.Minute)
	ctx := context.Background()

	var (
		mu       sync.Mutex
		winners  int
		releases []func(context.Context) error
		wg       sync.WaitGroup
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locker.Acquire(ctx, "1452061")
			if err != nil {
				return
			}
			mu.Lock()
			winners++
			releases = append(releases, release)
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	for _, release := range releases {
		assert.NoError(t, release(ctx))
	}
}
