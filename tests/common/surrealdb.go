// Package common provides shared helpers for integration tests.
package common

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const surrealImage = "surrealdb/surrealdb:v3.0.0"

var (
	startOnce sync.Once
	shared    *SurrealDBContainer
	startErr  error
)

// SurrealDBContainer is a running SurrealDB instance shared by the
// storage integration tests.
type SurrealDBContainer struct {
	inner testcontainers.Container
	addr  string
}

// StartSurrealDB returns the shared container, starting it on first
// use. Tests isolate themselves with per-test database names, so one
// instance serves the whole run.
func StartSurrealDB(t *testing.T) *SurrealDBContainer {
	t.Helper()

	startOnce.Do(func() {
		ctx := context.Background()

		c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        surrealImage,
				ExposedPorts: []string{"8000/tcp"},
				Cmd:          []string{"start", "--user", "root", "--pass", "root"},
				WaitingFor: wait.ForAll(
					wait.ForListeningPort("8000/tcp"),
					wait.ForLog("Started web server"),
				).WithDeadline(60 * time.Second),
			},
			Started: true,
		})
		if err != nil {
			startErr = fmt.Errorf("start SurrealDB container: %w", err)
			return
		}

		host, err := c.Host(ctx)
		if err != nil {
			c.Terminate(ctx)
			startErr = fmt.Errorf("resolve SurrealDB host: %w", err)
			return
		}
		port, err := c.MappedPort(ctx, "8000/tcp")
		if err != nil {
			c.Terminate(ctx)
			startErr = fmt.Errorf("resolve SurrealDB port: %w", err)
			return
		}

		shared = &SurrealDBContainer{
			inner: c,
			addr:  fmt.Sprintf("ws://%s:%s/rpc", host, port.Port()),
		}
	})

	if startErr != nil {
		t.Fatalf("SurrealDB container unavailable: %v", startErr)
	}

	return shared
}

// Address returns the WebSocket RPC endpoint.
func (c *SurrealDBContainer) Address() string {
	return c.addr
}

// Cleanup terminates the container. Call from TestMain if needed.
func (c *SurrealDBContainer) Cleanup() {
	if c != nil && c.inner != nil {
		c.inner.Terminate(context.Background())
	}
}
