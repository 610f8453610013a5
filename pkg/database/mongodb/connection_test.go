package mongodb

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/huynhanx03/go-batchbuffer/pkg/settings"
)

const (
	mongoImage = "mongo:6"
	mongoPort  = "27017/tcp"
)

func TestBuildURI(t *testing.T) {
	tests := []struct {
		name string
		cfg  settings.MongoDB
		want string
	}{
		{"anonymous", settings.MongoDB{Host: "db", Port: 27017}, "mongodb://db:27017"},
		{"credentials", settings.MongoDB{Host: "db", Port: 27018, Username: "app", Password: "p@ss"}, "mongodb://app:p%40ss@db:27018"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildURI(tt.cfg))
		})
	}
}

func TestSetDefaultConfig(t *testing.T) {
	var cfg settings.MongoDB
	setDefaultConfig(&cfg)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.Equal(t, uint64(defaultMaxPoolSize), cfg.MaxPoolSize)
	assert.Equal(t, uint64(defaultMaxConnIdleTime), cfg.MaxConnIdleTime)
}

func TestInsertSink_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	if !isDockerRunning(ctx) {
		t.Skip("Docker is not running, skipping integration test")
	}

	uri, terminate, err := setupMongoDBContainer(ctx)
	if err != nil {
		t.Fatalf("failed to setup mongodb container: %v", err)
	}
	defer terminate()

	parsedURI, _ := url.Parse(uri)
	port, _ := strconv.Atoi(parsedURI.Port())

	client, err := Connect(ctx, settings.MongoDB{
		Host:     parsedURI.Hostname(),
		Port:     port,
		Database: "testdb",
		Timeout:  5,
	})
	if err != nil {
		t.Fatalf("Failed to connect to mongodb: %v", err)
	}
	defer client.Disconnect(ctx)

	col := client.Database("testdb").Collection("readings")
	sink := NewInsertSink[reading](col)

	for i := 0; i < 3; i++ {
		batch := []reading{{fmt.Sprintf("s%d", i), float64(i)}, {fmt.Sprintf("s%d", i), float64(i) + 0.5}}
		if err := sink.Consume(ctx, batch); err != nil {
			t.Fatalf("Failed to consume batch %d: %v", i, err)
		}
	}

	n, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("Failed to count documents: %v", err)
	}
	if n != 6 {
		t.Errorf("Expected 6 documents, got %d", n)
	}
}

func setupMongoDBContainer(ctx context.Context) (string, func(), error) {
	req := testcontainers.ContainerRequest{
		Image:        mongoImage,
		ExposedPorts: []string{mongoPort},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to start container: %w", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		container.Terminate(ctx)
		return "", nil, fmt.Errorf("failed to get endpoint: %w", err)
	}

	terminate := func() {
		if err := container.Terminate(ctx); err != nil {
			fmt.Printf("failed to terminate container: %v\n", err)
		}
	}

	return fmt.Sprintf("mongodb://%s", endpoint), terminate, nil
}

func isDockerRunning(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "docker", "info")
	return cmd.Run() == nil
}
