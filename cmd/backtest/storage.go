package main

import (
	"fmt"

	"github.com/ianfmc/livewell-nadex/config"
	"github.com/ianfmc/livewell-nadex/internal/adapters/blob"
	"github.com/ianfmc/livewell-nadex/internal/ports"
)

// openStore construye el BlobStore configurado. closeFn libera los recursos
// del backend (solo SQLite tiene algo que cerrar).
func openStore(cfg config.StorageConfig) (store ports.BlobStore, closeFn func() error, err error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendLocal:
		return blob.NewFSStore(cfg.LocalDir), noop, nil
	case config.BackendSQLite:
		s, err := blob.NewSQLiteStore(cfg.SQLiteDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("openStore: %w", err)
		}
		return s, s.Close, nil
	case config.BackendS3:
		s, err := blob.NewS3Store(blob.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.SSL(),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("openStore: %w", err)
		}
		return s, noop, nil
	default:
		return nil, nil, fmt.Errorf("openStore: unknown backend %q", cfg.Backend)
	}
}
