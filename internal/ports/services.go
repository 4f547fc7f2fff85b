package ports

import (
	"context"

	"github.com/inventra/core/internal/domain/entities"
)

// RecordService interface for collection operations exposed over HTTP and the CLI
type RecordService interface {
	Collection() CollectionDefinition
	List(ctx context.Context, ownerID *int64) ([]entities.Record, error)
	Create(ctx context.Context, record entities.Record) (entities.Record, error)
	Update(ctx context.Context, id int64, patch entities.Record) (entities.Record, error)
	Delete(ctx context.Context, id int64, ownerID *int64) error
	Probe(ctx context.Context) (int, error)
}

// CollectionDefinition describes one served collection
type CollectionDefinition struct {
	// Name is the collection and route name, e.g. "items".
	Name string
	// Singular is used in human-readable messages, e.g. "Item".
	Singular             string
	RequireOwnerOnDelete bool
}
