package snapshot

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
)

// fetchGCS downloads the object behind a "gs://bucket/object" URI.
func fetchGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	trimmed := strings.TrimPrefix(gcsURI, "gs://")
	bucket, object, ok := strings.Cut(trimmed, "/")
	if !ok || bucket == "" || object == "" {
		return nil, fmt.Errorf("fetchGCS: malformed GCS URI %q", gcsURI)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetchGCS: create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetchGCS: open object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("fetchGCS: read object: %w", err)
	}
	return data, nil
}
