package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	redisOnce      sync.Once
	redisContainer testcontainers.Container
	redisAddr      string
	redisErr       error
)

// GetRedisAddress returns host:port of a shared Redis container, starting it
// on first use. Tests are skipped when no container runtime is available.
func GetRedisAddress(t *testing.T) string {
	t.Helper()

	redisOnce.Do(startRedisContainer)
	if redisErr != nil {
		t.Skipf("redis container unavailable: %v", redisErr)
	}
	return redisAddr
}

func startRedisContainer() {
	// Give generous timeout in CI environments
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	redisC, err := testcontainers.Run(
		ctx, "redis:latest",
		testcontainers.WithExposedPorts("6379/tcp"),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("6379/tcp"),
			wait.ForLog("Ready to accept connections"),
		),
	)
	if err != nil {
		redisErr = err
		return
	}

	endpoint, err := redisC.Endpoint(ctx, "")
	if err != nil {
		_ = redisC.Terminate(context.Background()) // best-effort cleanup
		redisErr = err
		return
	}

	redisContainer = redisC
	redisAddr = endpoint
}
