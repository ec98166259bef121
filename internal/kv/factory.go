package kv

import (
	"context"
	"fmt"

	"steadfast/internal/anchor"
	"steadfast/internal/config"
)

// NewKeyValueFromConfig opens the medium named by cfg.Type. When sealer is
// non-nil every value is encrypted before it reaches the medium.
func NewKeyValueFromConfig(ctx context.Context, cfg config.StoreConfig, sealer Sealer) (anchor.KeyValue, error) {
	var (
		store anchor.KeyValue
		err   error
	)

	switch cfg.Type {
	case "memory":
		store = NewMemoryStore()
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem store requires fs_root")
		}
		store, err = NewDiskStore(cfg.FSRoot)
	case "sqlite":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite store requires sqlite_path")
		}
		store, err = NewSQLiteStore(cfg.SQLitePath)
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 store requires s3_bucket")
		}
		client, cerr := NewS3Client(ctx, S3Options{
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if cerr != nil {
			return nil, cerr
		}
		store = NewS3Store(client, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return nil, fmt.Errorf("unknown store type: %q", cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Type, err)
	}

	if sealer != nil {
		store = NewSealedStore(store, sealer)
	}
	return store, nil
}
