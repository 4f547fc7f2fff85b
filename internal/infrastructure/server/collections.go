package server

import (
	"fmt"

	"github.com/inventra/core/internal/adapters/repository"
	"github.com/inventra/core/internal/adapters/storage"
	"github.com/inventra/core/internal/application/services"
	"github.com/inventra/core/internal/infrastructure/config"
	"github.com/inventra/core/internal/infrastructure/database"
	"github.com/inventra/core/internal/infrastructure/logger"
	"github.com/inventra/core/internal/infrastructure/metrics"
	"github.com/inventra/core/internal/ports"
)

// Collection names
const (
	CollectionItems      = "items"
	CollectionCategories = "categories"
)

// Definitions returns the served collections as configured
func Definitions(cfg *config.Config) []ports.CollectionDefinition {
	return []ports.CollectionDefinition{
		{
			Name:                 CollectionItems,
			Singular:             "Item",
			RequireOwnerOnDelete: cfg.Collections.Items.RequireOwnerOnDelete,
		},
		{
			Name:                 CollectionCategories,
			Singular:             "Category",
			RequireOwnerOnDelete: cfg.Collections.Categories.RequireOwnerOnDelete,
		},
	}
}

// NewCollectionStorage picks the storage driver for one collection.
// db is only used by the postgres driver and may be nil otherwise.
func NewCollectionStorage(cfg *config.Config, db *database.DB, name string) (ports.CollectionStorage, error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		switch name {
		case CollectionItems:
			return storage.NewFileStorage(cfg.Storage.ItemsPath()), nil
		case CollectionCategories:
			return storage.NewFileStorage(cfg.Storage.CategoriesPath()), nil
		}
		return nil, fmt.Errorf("no file configured for collection %q", name)
	case config.DriverMemory:
		return storage.NewMemoryStorage(nil), nil
	case config.DriverPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres storage driver requires a database connection")
		}
		return storage.NewPostgresStorage(db.DB, name), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// BuildCollections wires storage, record store and service for every collection
func BuildCollections(cfg *config.Config, db *database.DB, appLogger *logger.Logger, m *metrics.Metrics) ([]ports.RecordService, error) {
	defs := Definitions(cfg)
	out := make([]ports.RecordService, 0, len(defs))

	for _, def := range defs {
		store, err := NewCollectionStorage(cfg, db, def.Name)
		if err != nil {
			return nil, err
		}

		repo := repository.NewRecordStore(def.Name, store, repository.StoreOptions{
			RequireOwnerOnDelete: def.RequireOwnerOnDelete,
			IDStrategy:           repository.IDStrategy(cfg.Storage.IDStrategy),
		})

		out = append(out, services.NewCollectionService(def, repo, appLogger, m))
	}

	return out, nil
}
