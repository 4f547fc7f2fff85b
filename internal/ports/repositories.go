package ports

import (
	"context"

	"github.com/inventra/core/internal/domain/entities"
)

// CollectionStorage is the durable home of one collection document.
// Read bootstraps an empty "[]" document when none exists yet.
type CollectionStorage interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// RecordRepository defines the interface for record collection operations
type RecordRepository interface {
	Name() string
	Load(ctx context.Context) ([]entities.Record, error)
	ListByOwner(ctx context.Context, ownerID *int64) ([]entities.Record, error)
	Insert(ctx context.Context, record entities.Record) (entities.Record, error)
	UpdateByID(ctx context.Context, id int64, patch entities.Record) (entities.Record, error)
	DeleteByID(ctx context.Context, id int64, ownerID *int64) error
}
