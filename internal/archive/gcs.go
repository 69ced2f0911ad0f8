package archive

import (
	"context"
	"fmt"
	"io"

	"fjacquet/fincat/internal/logging"

	"cloud.google.com/go/storage"
)

// GCSArchiver writes objects to a Google Cloud Storage bucket using
// Application Default Credentials.
type GCSArchiver struct {
	client *storage.Client
	bucket string
	logger logging.Logger
}

// NewGCSArchiver creates a storage client for bucket.
func NewGCSArchiver(ctx context.Context, bucket string, logger logging.Logger) (*GCSArchiver, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs archive: bucket is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSArchiver{client: client, bucket: bucket, logger: logging.OrDefault(logger)}, nil
}

func (g *GCSArchiver) Name() string { return "gcs" }

// Archive streams r into gs://bucket/key.
func (g *GCSArchiver) Archive(ctx context.Context, key string, r io.Reader) (string, error) {
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("copy upload to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}
	return fmt.Sprintf("gs://%s/%s", g.bucket, key), nil
}

func (g *GCSArchiver) Close() error {
	return g.client.Close()
}
