package minio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/hupe1980/vfcprobe/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeServer answers every HEAD with 404 and every DELETE with 204.
func newFakeServer(t *testing.T) *minio.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotImplemented)
		}
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	client, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4("key", "secret", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return client
}

func TestStore_OpenNotFound(t *testing.T) {
	store := NewStore(newFakeServer(t), "bucket", "probes/")

	_, err := store.Open(context.Background(), "missing.csv")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(newFakeServer(t), "bucket", "probes/")
	assert.NoError(t, store.Delete(context.Background(), "missing.csv"))
}

func TestStore_Key(t *testing.T) {
	store := NewStore(nil, "bucket", "probes/")
	assert.Equal(t, "probes/nightly/run.csv", store.key("nightly/run.csv"))

	bare := NewStore(nil, "bucket", "")
	assert.Equal(t, "run.csv", bare.key("run.csv"))
}

// TestStore_Integration requires a running MinIO instance at MINIO_ENDPOINT.
func TestStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("Skipping MinIO integration test: MINIO_ENDPOINT not set")
	}
	accessKey := envOr("MINIO_ACCESS_KEY", "minioadmin")
	secretKey := envOr("MINIO_SECRET_KEY", "minioadmin")
	bucket := envOr("MINIO_BUCKET", "test-vfcprobe")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	require.NoError(t, err)

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, fmt.Sprintf("test-%d/", time.Now().UnixNano()))
	data := []byte("t:x,AAAAAAAA8D8=\nt:y,AAAAAAAACEA=\n")

	w, err := store.Create(ctx, "probes.csv")
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"probes.csv"}, names)

	b, err := store.Open(ctx, "probes.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), b.Size())
	got, err := io.ReadAll(b)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	require.NoError(t, b.Close())

	aborted, err := store.Create(ctx, "aborted.csv")
	require.NoError(t, err)
	_, _ = aborted.Write([]byte("partial"))
	require.NoError(t, aborted.Abort())

	_, err = store.Open(ctx, "aborted.csv")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, store.Delete(ctx, "probes.csv"))
	_, err = store.Open(ctx, "probes.csv")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
