// internal/db/redis_test.go
package db

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClientConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(RedisConfig{
		Addr:     mr.Addr(),
		Password: "",
		DB:       0,
		PoolSize: 10,
	})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestNewRedisClientRequiresAddr(t *testing.T) {
	_, err := NewRedisClient(RedisConfig{PoolSize: 10})
	assert.Error(t, err)
}
