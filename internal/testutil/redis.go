package testutil

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// TestRedis wraps a throwaway Redis container for store integration
// tests.
type TestRedis struct {
	container *tcredis.RedisContainer
	Client    *redis.Client
}

func NewTestRedis(t *testing.T) *TestRedis {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}

	connStr, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get redis connection string: %v", err)
	}

	opts, err := redis.ParseURL(connStr)
	if err != nil {
		t.Fatalf("failed to parse redis connection string: %v", err)
	}

	return &TestRedis{
		container: container,
		Client:    redis.NewClient(opts),
	}
}

// Flush clears all keys so each test starts from a clean slate.
func (r *TestRedis) Flush(t *testing.T) {
	t.Helper()
	if err := r.Client.FlushAll(context.Background()).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}
}

func (r *TestRedis) Close() {
	if r.Client != nil {
		_ = r.Client.Close()
	}
	if r.container != nil {
		_ = r.container.Terminate(context.Background())
	}
}
