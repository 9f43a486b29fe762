// Package storage selects the blob backend that receives result JSON and
// page snapshots.
package storage

import (
	"context"
	"fmt"
	"strings"

	gcsclient "cloud.google.com/go/storage"

	"github.com/JakeFAU/ecourts-cnr/internal/ecourts"
	"github.com/JakeFAU/ecourts-cnr/internal/storage/gcs"
	"github.com/JakeFAU/ecourts-cnr/internal/storage/local"
	"github.com/JakeFAU/ecourts-cnr/internal/storage/memory"
)

// Backend names accepted in configuration.
const (
	BackendLocal  = "local"
	BackendGCS    = "gcs"
	BackendMemory = "memory"
)

// Config selects and configures a backend.
type Config struct {
	Backend   string
	BaseDir   string
	GCSBucket string
	Prefix    string
}

// Open builds the configured BlobStore. The returned close function releases
// any client the backend holds and is never nil.
func Open(ctx context.Context, cfg Config) (ecourts.BlobStore, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendLocal:
		store, err := local.New(local.Config{BaseDir: cfg.BaseDir})
		if err != nil {
			return nil, noop, fmt.Errorf("init local store: %w", err)
		}
		return store, noop, nil
	case BackendMemory:
		return memory.NewBlobStore(), noop, nil
	case BackendGCS:
		return openGCS(ctx, cfg)
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// openGCS authenticates with Application Default Credentials and checks the
// bucket up front so a bad config fails before the browser opens.
func openGCS(ctx context.Context, cfg Config) (ecourts.BlobStore, func() error, error) {
	noop := func() error { return nil }
	client, err := gcsclient.NewClient(ctx)
	if err != nil {
		return nil, noop, fmt.Errorf("create GCS client: %w", err)
	}
	if _, err := client.Bucket(cfg.GCSBucket).Attrs(ctx); err != nil {
		_ = client.Close()
		return nil, noop, fmt.Errorf("get GCS bucket %q attributes: %w", cfg.GCSBucket, err)
	}
	store, err := gcs.New(client, gcs.Config{Bucket: cfg.GCSBucket, Prefix: cfg.Prefix})
	if err != nil {
		_ = client.Close()
		return nil, noop, fmt.Errorf("init gcs store: %w", err)
	}
	return store, client.Close, nil
}
