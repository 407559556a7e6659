// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgConn is the part of *pgxpool.Pool the Postgres store needs.
type pgConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	pgCreateTable = `CREATE TABLE IF NOT EXISTS puc_documents (
	doc_key    TEXT PRIMARY KEY,
	body       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	pgSelectDoc = `SELECT body FROM puc_documents WHERE doc_key = $1`
	pgUpsertDoc = `INSERT INTO puc_documents (doc_key, body, updated_at) VALUES ($1, $2, now())
ON CONFLICT (doc_key) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`
	pgDeleteDoc = `DELETE FROM puc_documents WHERE doc_key = $1`
)

// PGStore keeps one jsonb row per document key.
type PGStore struct {
	db pgConn
}

// NewPGStore wraps an open connection and makes sure the table exists.
func NewPGStore(ctx context.Context, db pgConn) (*PGStore, error) {
	if _, err := db.Exec(ctx, pgCreateTable); err != nil {
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	return &PGStore{db: db}, nil
}

// OpenPGStore connects to dsn with a small pool. The returned func closes it.
func OpenPGStore(ctx context.Context, dsn string) (*PGStore, func(), error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse db config: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	store, err := NewPGStore(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store, pool.Close, nil
}

// Get reads the document stored under key into v.
func (s *PGStore) Get(ctx context.Context, key string, v any) error {
	var body []byte
	if err := s.db.QueryRow(ctx, pgSelectDoc, key).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return os.ErrNotExist
		}
		return fmt.Errorf("select %s: %w", key, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// Put upserts the document stored under key.
func (s *PGStore) Put(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if _, err := s.db.Exec(ctx, pgUpsertDoc, key, body); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Delete removes the document. Deleting a missing key is not an error.
func (s *PGStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, pgDeleteDoc, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
