package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/inventra/core/internal/ports"
)

// PostgresStorage keeps a collection document as one JSONB row of the collections table
type PostgresStorage struct {
	db   *sqlx.DB
	name string
}

var _ ports.CollectionStorage = (*PostgresStorage)(nil)

// NewPostgresStorage creates a Postgres-backed collection storage
func NewPostgresStorage(db *sqlx.DB, name string) *PostgresStorage {
	return &PostgresStorage{db: db, name: name}
}

func (s *PostgresStorage) Read(ctx context.Context) ([]byte, error) {
	query := `SELECT document FROM collections WHERE name = $1`

	var document []byte
	err := s.db.GetContext(ctx, &document, query, s.name)
	if err == nil {
		return document, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get collection %s: %w", s.name, err)
	}

	bootstrap := `
		INSERT INTO collections (name, document, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (name) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, bootstrap, s.name, string(emptyCollection)); err != nil {
		return nil, fmt.Errorf("bootstrap collection %s: %w", s.name, err)
	}

	return append([]byte(nil), emptyCollection...), nil
}

func (s *PostgresStorage) Write(ctx context.Context, data []byte) error {
	query := `
		INSERT INTO collections (name, document, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (name) DO UPDATE
		SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`

	if _, err := s.db.ExecContext(ctx, query, s.name, string(data)); err != nil {
		return fmt.Errorf("write collection %s: %w", s.name, err)
	}

	return nil
}
