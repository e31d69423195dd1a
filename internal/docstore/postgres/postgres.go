// Package postgres stores documents as JSONB rows in a single table.
package postgres

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"capstone_backend/internal/docstore"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrations holds the schema for the documents table.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations.
const MigrationsDir = "migrations"

const (
	queryGet    = `SELECT data FROM documents WHERE collection = $1 AND id = $2`
	queryList   = `SELECT id, data FROM documents WHERE collection = $1 ORDER BY created_at, id`
	queryWhere  = `SELECT id, data FROM documents WHERE collection = $1 AND data @> $2::jsonb ORDER BY created_at, id`
	queryInsert = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)`
	queryUpsert = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)
ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
	queryMerge  = `UPDATE documents SET data = data || $3::jsonb, updated_at = now() WHERE collection = $1 AND id = $2`
	queryDelete = `DELETE FROM documents WHERE collection = $1 AND id = $2`
)

// Store is the pgx-backed document store.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// New wraps an open pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) encode(data map[string]any) (string, error) {
	raw, err := json.Marshal(docstore.ResolveTimestamps(data, s.now()))
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(raw), nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	var data map[string]any
	err := s.pool.QueryRow(ctx, queryGet, collection, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return docstore.Document{}, docstore.ErrNotFound
	}
	if err != nil {
		return docstore.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return docstore.Document{ID: id, Data: data}, nil
}

func (s *Store) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	rows, err := s.pool.Query(ctx, queryList, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return collect(rows)
}

func (s *Store) Where(ctx context.Context, collection, field string, value any) ([]docstore.Document, error) {
	// Containment keeps the lookup on the GIN index.
	raw, err := json.Marshal(map[string]any{field: value})
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}
	rows, err := s.pool.Query(ctx, queryWhere, collection, string(raw))
	if err != nil {
		return nil, fmt.Errorf("query %s where %s: %w", collection, field, err)
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]docstore.Document, error) {
	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (docstore.Document, error) {
		var doc docstore.Document
		err := row.Scan(&doc.ID, &doc.Data)
		return doc, err
	})
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = make([]docstore.Document, 0)
	}
	return docs, nil
}

func (s *Store) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	payload, err := s.encode(data)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if _, err := s.pool.Exec(ctx, queryInsert, collection, id, payload); err != nil {
		return "", fmt.Errorf("add to %s: %w", collection, err)
	}
	return id, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data map[string]any) error {
	payload, err := s.encode(data)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, queryUpsert, collection, id, payload); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	payload, err := s.encode(fields)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, queryMerge, collection, id, payload)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.pool.Exec(ctx, queryDelete, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

var _ docstore.Store = (*Store)(nil)
