package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casebridge/internal/platform/config"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("empty url disables redis", func(t *testing.T) {
		client, err := New(ctx, config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("connects and reports health", func(t *testing.T) {
		s := miniredis.RunT(t)
		client, err := New(ctx, config.RedisConfig{URL: "redis://" + s.Addr(), PoolSize: 2})
		require.NoError(t, err)
		defer client.Close()

		assert.NoError(t, client.Health(ctx))
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := New(ctx, config.RedisConfig{URL: "not-a-url"})
		assert.Error(t, err)
	})

	t.Run("unreachable server", func(t *testing.T) {
		s := miniredis.RunT(t)
		addr := s.Addr()
		s.Close()

		_, err := New(ctx, config.RedisConfig{URL: "redis://" + addr})
		assert.Error(t, err)
	})
}
