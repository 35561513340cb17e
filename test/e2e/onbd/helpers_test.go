package onbd_test

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/onbd/pkg/onbdsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup and shared helpers for the onbd end-to-end tests.
 */

const (
	testImageName = "onbd-test:latest"

	bootstrapToken = "test-bootstrap-token-12345"
	adminEmail     = "admin@pss.com"
	adminName      = "Platform Admin"
	adminPassword  = "Admin123!"

	jwtSecret = "e2e-secret-that-is-at-least-32-bytes"
	aesKey    = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
)

// TestMain builds the image once for every test in the package.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	fmt.Fprintf(os.Stdout, "Building onbd Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up onbd Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/onbd/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image may already be gone
}

// setupContainer starts onbd on an in-container sqlite file and returns a
// client pointed at it.
func setupContainer(t *testing.T) *onbdsdk.SDKClient {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"ONBD_JWT_SECRET":    jwtSecret,
			"ONBD_AES_KEY":       aesKey,
			"ONBD_DATABASE_FILE": "/data/onbd.db",
			"BOOTSTRAP_TOKEN":    bootstrapToken,
			"ENV":                "test",
			"LOG_LEVEL":          "info",
			"LOG_FORMAT":         "json",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return onbdsdk.NewSDKClient(fmt.Sprintf("http://%s:%s", host, mappedPort.Port()))
}

// bootstrapAdmin creates the administrator and returns a logged-in session.
func bootstrapAdmin(t *testing.T, client *onbdsdk.SDKClient) *onbdsdk.Session {
	t.Helper()
	ctx := context.Background()

	_, err := client.Bootstrap(ctx, bootstrapToken, onbdsdk.BootstrapRequest{
		AdminEmail:    adminEmail,
		AdminName:     adminName,
		AdminPassword: adminPassword,
	})
	require.NoError(t, err)

	session, err := client.AuthenticateWithPassword(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	return session
}

// requireAPIError asserts err is an *onbdsdk.APIError with the given status
// and code.
func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()

	var apiErr *onbdsdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}
