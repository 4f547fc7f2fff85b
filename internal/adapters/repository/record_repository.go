package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/inventra/core/internal/domain/entities"
	"github.com/inventra/core/internal/ports"
)

// IDStrategy selects how Insert computes the next identifier.
type IDStrategy string

const (
	// IDStrategyLast uses the last element's id + 1. Reordered or hand-edited
	// collections can end up with colliding ids under this strategy.
	IDStrategyLast IDStrategy = "last"
	// IDStrategyMax uses the largest id in the collection + 1.
	IDStrategyMax IDStrategy = "max"
)

// StoreOptions configures a RecordStore
type StoreOptions struct {
	RequireOwnerOnDelete bool
	IDStrategy           IDStrategy
}

// RecordStore implements the RecordRepository interface on top of a whole-document storage.
// Every operation reads the full collection; every mutation rewrites it.
type RecordStore struct {
	name    string
	storage ports.CollectionStorage
	opts    StoreOptions

	// mu serializes load→persist cycles so concurrent writers cannot lose updates.
	mu sync.RWMutex
}

var _ ports.RecordRepository = (*RecordStore)(nil)

// NewRecordStore creates a new record store
func NewRecordStore(name string, storage ports.CollectionStorage, opts StoreOptions) *RecordStore {
	if opts.IDStrategy == "" {
		opts.IDStrategy = IDStrategyLast
	}
	return &RecordStore{
		name:    name,
		storage: storage,
		opts:    opts,
	}
}

// Name returns the collection name
func (s *RecordStore) Name() string {
	return s.name
}

// Load returns the whole collection in stored order
func (s *RecordStore) Load(ctx context.Context) ([]entities.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.load(ctx)
}

// ListByOwner returns records whose ownerId equals ownerID, or all records when ownerID is nil
func (s *RecordStore) ListByOwner(ctx context.Context, ownerID *int64) ([]entities.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if ownerID == nil {
		return records, nil
	}

	filtered := make([]entities.Record, 0, len(records))
	for _, rec := range records {
		if rec.OwnedBy(*ownerID) {
			filtered = append(filtered, rec)
		}
	}

	return filtered, nil
}

// Insert assigns the next id to record, appends it and persists the collection
func (s *RecordStore) Insert(ctx context.Context, record entities.Record) (entities.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	created := record.Clone()
	created[entities.FieldID] = s.nextID(records)
	records = append(records, created)

	if err := s.persist(ctx, records); err != nil {
		return nil, err
	}

	return created.Clone(), nil
}

// UpdateByID shallow-merges patch over the first record with the given id
func (s *RecordStore) UpdateByID(ctx context.Context, id int64, patch entities.Record) (entities.Record, error) {
	if raw, ok := patch[entities.FieldID]; ok {
		if !patch.HasID(id) {
			return nil, fmt.Errorf("%w: id %v in body does not match %s id %d", entities.ErrValidation, raw, s.name, id)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, rec := range records {
		if rec.HasID(id) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s id %d", entities.ErrNotFound, s.name, id)
	}

	existing := records[idx]
	updated := existing.Merge(patch)
	updated[entities.FieldID] = existing[entities.FieldID]
	records[idx] = updated

	if err := s.persist(ctx, records); err != nil {
		return nil, err
	}

	return updated.Clone(), nil
}

// DeleteByID removes every record with the given id; owner-scoped stores also match ownerID
func (s *RecordStore) DeleteByID(ctx context.Context, id int64, ownerID *int64) error {
	if s.opts.RequireOwnerOnDelete && ownerID == nil {
		return fmt.Errorf("%w: ownerId is required to delete from %s", entities.ErrValidation, s.name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := make([]entities.Record, 0, len(records))
	for _, rec := range records {
		if s.matchesDelete(rec, id, ownerID) {
			continue
		}
		kept = append(kept, rec)
	}

	if len(kept) == len(records) {
		return fmt.Errorf("%w: %s id %d", entities.ErrNotFound, s.name, id)
	}

	return s.persist(ctx, kept)
}

func (s *RecordStore) matchesDelete(rec entities.Record, id int64, ownerID *int64) bool {
	if !rec.HasID(id) {
		return false
	}
	if s.opts.RequireOwnerOnDelete {
		return rec.OwnedBy(*ownerID)
	}
	return true
}

// nextID must be called with the write lock held.
func (s *RecordStore) nextID(records []entities.Record) int64 {
	if len(records) == 0 {
		return 1
	}

	switch s.opts.IDStrategy {
	case IDStrategyMax:
		var highest int64
		for _, rec := range records {
			if id, ok := rec.ID(); ok && id > highest {
				highest = id
			}
		}
		return highest + 1
	default:
		// A last element without an integer id counts as 0.
		last, _ := records[len(records)-1].ID()
		return last + 1
	}
}

func (s *RecordStore) load(ctx context.Context) ([]entities.Record, error) {
	data, err := s.storage.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", entities.ErrStorageUnavailable, s.name, err)
	}

	records, err := entities.DecodeCollection(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.name, err)
	}

	return records, nil
}

func (s *RecordStore) persist(ctx context.Context, records []entities.Record) error {
	data, err := entities.EncodeCollection(records)
	if err != nil {
		return fmt.Errorf("persist %s: %w", s.name, err)
	}

	if err := s.storage.Write(ctx, data); err != nil {
		return fmt.Errorf("%w: write %s: %w", entities.ErrStorageUnavailable, s.name, err)
	}

	return nil
}
