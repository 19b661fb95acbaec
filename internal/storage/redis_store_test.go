package storage

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	require.Equal(t, "validator:history:twitter", historyKey("twitter"))
	require.Equal(t, "validator:result:r1", resultKey("r1"))
	require.Equal(t, "validator:lookup:https://x.com/a/status/1", lookupKey("https://x.com/a/status/1"))
}

// Empty inputs must not touch Redis; the client points nowhere.
func TestNoopsWithoutInput(t *testing.T) {
	s := NewRedisStore(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))
	ctx := context.Background()
	require.NoError(t, s.AddHistory(ctx, "twitter"))
	got, err := s.CachedItems(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, got)
	require.NoError(t, s.CacheItems(ctx, nil, 0))
}
