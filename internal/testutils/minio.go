//go:build integration

package testutils

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	_ "gocloud.dev/blob/s3blob"
)

const (
	minioUser     = "minioadmin"
	minioPassword = "minioadmin"
)

// MinioEnv is a running Minio server holding one bucket.
type MinioEnv struct {
	Container testcontainers.Container
	// BucketURL opens the bucket through gocloud.dev/blob/s3blob.
	BucketURL string
}

// Close terminates the Minio container.
func (e *MinioEnv) Close(ctx context.Context) error {
	return e.Container.Terminate(ctx)
}

// StartMinioContainer starts Minio with an empty bucket and points the AWS
// credentials of the test at it.
func StartMinioContainer(t *testing.T, ctx context.Context, bucketName string) *MinioEnv {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     minioUser,
				"MINIO_ROOT_PASSWORD": minioPassword,
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/ready").WithPort("9000"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start minio container: %v", err)
	}

	// The minio image ships the mc client.
	script := fmt.Sprintf("mc alias set local http://localhost:9000 %s %s && mc mb local/%s",
		minioUser, minioPassword, bucketName)
	code, out, err := container.Exec(ctx, []string{"sh", "-c", script})
	if err != nil || code != 0 {
		var msg []byte
		if out != nil {
			msg, _ = io.ReadAll(out)
		}
		container.Terminate(ctx)
		t.Fatalf("create bucket %s: exit %d: %v\n%s", bucketName, code, err, msg)
	}

	endpoint, err := container.PortEndpoint(ctx, "9000/tcp", "http")
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("get minio endpoint: %v", err)
	}

	t.Setenv("AWS_ACCESS_KEY_ID", minioUser)
	t.Setenv("AWS_SECRET_ACCESS_KEY", minioPassword)

	return &MinioEnv{
		Container: container,
		BucketURL: fmt.Sprintf("s3://%s?endpoint=%s&use_path_style=true&disable_https=true&region=us-east-1",
			bucketName, endpoint),
	}
}
