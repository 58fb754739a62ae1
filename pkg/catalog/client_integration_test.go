//go:build integration

package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sternrassler/artic-selector/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Failed to get Redis endpoint: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: endpoint})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	t.Cleanup(func() {
		redisClient.Close()
		container.Terminate(ctx)
	})

	return redisClient
}

func newRedisClient(t *testing.T, baseURL string, rdb *redis.Client) *Client {
	t.Helper()

	cfg := DefaultConfig("ArticSelectorIntegration/1.0")
	cfg.BaseURL = baseURL
	cfg.Redis = rdb
	cfg.CacheRetention = time.Minute

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestIntegration_RevalidatesStoredPage(t *testing.T) {
	rdb := setupRedis(t)
	mock := testutil.NewMockCatalog(25)
	defer mock.Close()
	mock.EnableETag(`"catalog-v1"`)

	client := newRedisClient(t, mock.URL(), rdb)
	ctx := context.Background()

	first, err := client.FetchPage(ctx, 1)
	if err != nil {
		t.Fatalf("first FetchPage() error = %v", err)
	}
	if mock.GetConditionalCount() != 0 {
		t.Errorf("first request should not be conditional")
	}

	second, err := client.FetchPage(ctx, 1)
	if err != nil {
		t.Fatalf("second FetchPage() error = %v", err)
	}

	if mock.GetRequestCount() != 2 {
		t.Errorf("RequestCount = %d, want 2 (every fetch reaches the server)", mock.GetRequestCount())
	}
	if mock.GetConditionalCount() != 1 {
		t.Errorf("ConditionalCount = %d, want 1", mock.GetConditionalCount())
	}
	if second.Total != first.Total || second.Page.Len() != first.Page.Len() {
		t.Errorf("revalidated page differs: %+v vs %+v", second, first)
	}
	if second.Page.Items[0].ID != 1 {
		t.Errorf("first item id = %d, want 1", second.Page.Items[0].ID)
	}
}

func TestIntegration_RateLimitBlocksNextRequest(t *testing.T) {
	rdb := setupRedis(t)
	mock := testutil.NewMockCatalog(25)
	defer mock.Close()
	mock.SetPageResponse(1, testutil.NewRateLimitResponse())

	client := newRedisClient(t, mock.URL(), rdb)
	ctx := context.Background()

	_, err := client.FetchPage(ctx, 1)
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Class != ErrorClassRateLimit {
		t.Fatalf("first FetchPage() error = %v, want rate_limit FetchError", err)
	}

	_, err = client.FetchPage(ctx, 2)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("second FetchPage() error = %v, want ErrRateLimited", err)
	}
	if mock.GetRequestCount() != 1 {
		t.Errorf("RequestCount = %d, want 1 (blocked request must not reach the server)", mock.GetRequestCount())
	}
}
