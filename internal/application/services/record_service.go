package services

import (
	"context"
	"errors"
	"time"

	"github.com/inventra/core/internal/domain/entities"
	"github.com/inventra/core/internal/infrastructure/logger"
	"github.com/inventra/core/internal/infrastructure/metrics"
	"github.com/inventra/core/internal/ports"
)

// Operation outcomes reported to metrics
const (
	outcomeOK         = "ok"
	outcomeNotFound   = "not_found"
	outcomeValidation = "invalid"
	outcomeError      = "error"
)

// CollectionService handles operations on one record collection
type CollectionService struct {
	def     ports.CollectionDefinition
	repo    ports.RecordRepository
	logger  *logger.Logger
	metrics *metrics.Metrics
}

var _ ports.RecordService = (*CollectionService)(nil)

// NewCollectionService creates a new collection service. metrics may be nil.
func NewCollectionService(def ports.CollectionDefinition, repo ports.RecordRepository, logger *logger.Logger, metrics *metrics.Metrics) *CollectionService {
	return &CollectionService{
		def:     def,
		repo:    repo,
		logger:  logger.WithCollection(def.Name),
		metrics: metrics,
	}
}

// Collection returns the served collection definition
func (s *CollectionService) Collection() ports.CollectionDefinition {
	return s.def
}

// List returns the collection, filtered by owner when ownerID is set
func (s *CollectionService) List(ctx context.Context, ownerID *int64) ([]entities.Record, error) {
	start := time.Now()
	records, err := s.repo.ListByOwner(ctx, ownerID)
	s.observe("list", start, err, map[string]interface{}{"owner_id": ownerValue(ownerID)})
	if err != nil {
		return nil, err
	}

	if ownerID == nil && s.metrics != nil {
		s.metrics.SetCollectionSize(s.def.Name, len(records))
	}

	return records, nil
}

// Create stores a new record and returns it with its assigned id
func (s *CollectionService) Create(ctx context.Context, record entities.Record) (entities.Record, error) {
	start := time.Now()
	created, err := s.repo.Insert(ctx, record)
	if err != nil {
		s.observe("insert", start, err, nil)
		return nil, err
	}

	id, _ := created.ID()
	s.observe("insert", start, nil, map[string]interface{}{"record_id": id})
	s.logger.Infow("Record created", "record_id", id, "owner_id", created[entities.FieldOwnerID])

	return created, nil
}

// Update merges patch into the record with the given id
func (s *CollectionService) Update(ctx context.Context, id int64, patch entities.Record) (entities.Record, error) {
	start := time.Now()
	updated, err := s.repo.UpdateByID(ctx, id, patch)
	s.observe("update", start, err, map[string]interface{}{"record_id": id})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Record updated", "record_id", id, "fields", len(patch))

	return updated, nil
}

// Delete removes the record with the given id
func (s *CollectionService) Delete(ctx context.Context, id int64, ownerID *int64) error {
	start := time.Now()
	err := s.repo.DeleteByID(ctx, id, ownerID)
	s.observe("delete", start, err, map[string]interface{}{"record_id": id, "owner_id": ownerValue(ownerID)})
	if err != nil {
		return err
	}

	s.logger.Infow("Record deleted", "record_id", id, "owner_id", ownerValue(ownerID))

	return nil
}

// Probe loads the collection and reports its size
func (s *CollectionService) Probe(ctx context.Context) (int, error) {
	start := time.Now()
	records, err := s.repo.Load(ctx)
	s.observe("load", start, err, nil)
	if err != nil {
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.SetCollectionSize(s.def.Name, len(records))
	}

	return len(records), nil
}

func (s *CollectionService) observe(operation string, start time.Time, err error, metadata map[string]interface{}) {
	elapsed := time.Since(start)
	outcome := outcomeOf(err)

	if s.metrics != nil {
		s.metrics.ObserveStoreOperation(s.def.Name, operation, outcome, elapsed)
	}

	// Not-found and validation failures are client errors, not store failures.
	var logErr error
	if outcome == outcomeError {
		logErr = err
	}
	s.logger.LogStoreOperation(operation, float64(elapsed.Microseconds())/1000, logErr, metadata)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, entities.ErrNotFound):
		return outcomeNotFound
	case errors.Is(err, entities.ErrValidation):
		return outcomeValidation
	default:
		return outcomeError
	}
}

func ownerValue(ownerID *int64) interface{} {
	if ownerID == nil {
		return nil
	}
	return *ownerID
}
