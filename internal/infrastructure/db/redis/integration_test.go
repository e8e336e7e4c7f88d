//go:build integration

package redis_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	store "github.com/linkvault/linkvault/internal/infrastructure/db/redis"
)

var addr string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		panic(err)
	}
	addr = fmt.Sprintf("%s:%s", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestLoginThrottle(t *testing.T) {
	ctx := context.Background()
	client, err := store.Connect(ctx, store.Config{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, store.Ping(ctx, client))

	throttle := store.NewLoginThrottle(client, 2, time.Minute)

	blocked, err := throttle.Blocked(ctx, "alice")
	require.NoError(t, err)
	require.False(t, blocked)

	require.NoError(t, throttle.Fail(ctx, "alice"))
	blocked, err = throttle.Blocked(ctx, "alice")
	require.NoError(t, err)
	require.False(t, blocked)

	require.NoError(t, throttle.Fail(ctx, "alice"))
	blocked, err = throttle.Blocked(ctx, "alice")
	require.NoError(t, err)
	require.True(t, blocked)

	ttl, err := client.TTL(ctx, "login:alice").Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))

	blocked, err = throttle.Blocked(ctx, "bob")
	require.NoError(t, err)
	require.False(t, blocked)

	require.NoError(t, throttle.Reset(ctx, "alice"))
	blocked, err = throttle.Blocked(ctx, "alice")
	require.NoError(t, err)
	require.False(t, blocked)
}

func TestLoginThrottle_WindowExpires(t *testing.T) {
	ctx := context.Background()
	client, err := store.Connect(ctx, store.Config{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	throttle := store.NewLoginThrottle(client, 1, time.Second)
	require.NoError(t, throttle.Fail(ctx, "carol"))

	require.Eventually(t, func() bool {
		blocked, err := throttle.Blocked(ctx, "carol")
		return err == nil && !blocked
	}, 5*time.Second, 100*time.Millisecond)
}
