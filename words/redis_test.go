package words

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisSource(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)
	url := fmt.Sprintf("redis://%s:%s/0", host, port.Port())

	seed := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	defer seed.Close()
	require.NoError(t, seed.SAdd(ctx, "words", "owl", "cat", "dog").Err())

	src, err := NewRedisSource(url, "words")
	require.NoError(t, err)
	defer src.Close()

	got, err := src.Words(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog", "owl"}, got)

	added, err := src.AddWords(ctx, "cat", "emu")
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	got, err = src.Words(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog", "emu", "owl"}, got)

	added, err = src.AddWords(ctx)
	require.NoError(t, err)
	assert.Zero(t, added)

	empty, err := NewRedisSource(url, "no-such-key")
	require.NoError(t, err)
	defer empty.Close()
	got, err = empty.Words(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewRedisSource_BadURL(t *testing.T) {
	t.Parallel()
	_, err := NewRedisSource("not a url", "words")
	assert.Error(t, err)
}
