package cache

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hcw-deploy-api/pkg/config"
)

func TestNewRedisDisabled(t *testing.T) {
	client, err := NewRedis(config.RedisConfig{Enabled: false}, nil)
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.Error(t, Pinger{}.PingContext(context.Background()))
}

func TestNewRedisConnects(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Enabled: true, Host: srv.Host(), Port: mustPort(t, srv.Port())}, nil)
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, Pinger{Client: client}.PingContext(context.Background()))

	srv.Close()
	assert.Error(t, Pinger{Client: client}.PingContext(context.Background()))
}

func TestNewRedisUnreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	port := mustPort(t, srv.Port())
	srv.Close()

	_, err := NewRedis(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: port}, nil)
	assert.Error(t, err)
}

func mustPort(t *testing.T, raw string) int {
	t.Helper()
	port, err := strconv.Atoi(raw)
	require.NoError(t, err)
	return port
}
