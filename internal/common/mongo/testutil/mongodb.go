// Package testutil provides testing utilities for MongoDB integration tests
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	commonmongo "go.trackdeck.dev/internal/common/mongo"
	"go.trackdeck.dev/internal/config"
)

// MongoContainer wraps a MongoDB container for testing
type MongoContainer struct {
	Container testcontainers.Container
	URI       string
	Client    *commonmongo.Client
}

// StartMongoDB starts a MongoDB container and connects a client to the
// given database.
func StartMongoDB(ctx context.Context, t *testing.T, database string) (*MongoContainer, error) {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp"),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start mongodb: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get port: %w", err)
	}

	uri := fmt.Sprintf("mongodb://%s:%s", host, port.Port())

	client, err := commonmongo.Connect(ctx, config.MongoDBConfig{
		URI:      uri,
		Database: database,
	})
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	return &MongoContainer{
		Container: container,
		URI:       uri,
		Client:    client,
	}, nil
}

// Terminate disconnects the client and stops the container.
func (m *MongoContainer) Terminate(ctx context.Context) {
	if m.Client != nil {
		m.Client.Disconnect(ctx)
	}
	if m.Container != nil {
		m.Container.Terminate(ctx)
	}
}
