// Package backend opens the storage backend named in the configuration.
package backend

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/config"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/memory"
	"github.com/carson-networks/finance-server/internal/storage/sqlconfig"
)

// Open returns the configured storage. The postgres backend is migrated to the
// latest schema before it is returned.
func Open(cfg *config.Config, log *logrus.Entry) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendMemory:
		log.Warn("Backend.Open.memory: data is lost on exit")
		return memory.New(), nil

	case config.StorageBackendPostgres:
		store, err := storage.NewPostgresStorage(cfg)
		if err != nil {
			return nil, err
		}
		result, err := sqlconfig.RunMigrations(store.DB)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("RunMigrations: %w", err)
		}
		log.WithFields(logrus.Fields{
			"preMigrationVersion":  result.PreMigrationVersion,
			"postMigrationVersion": result.PostMigrationVersion,
		}).Info("Backend.Open.migrated")
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
