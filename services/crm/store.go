// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package crm

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database holding all CRM entities.
//
// Thread Safety: Store is safe for concurrent use. database/sql
// serializes access to the underlying connection pool, and the WAL
// journal mode allows concurrent readers alongside a single writer.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the
// schema exists.
//
// Description:
//
//	Opens the database with WAL journaling, a busy timeout, and foreign
//	keys enabled, then creates any missing tables. The same path can be
//	opened repeatedly; schema creation is idempotent.
//
// Inputs:
//   - path: Filesystem path to the database file. ":memory:" is valid
//     for tests but does not survive process restart.
//
// Outputs:
//   - *Store: Ready-to-use store on success.
//   - error: Non-nil if the database cannot be opened or initialized.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("crm: failed to open database at %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("crm: failed to apply %s: %w", pragma, err)
		}
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("crm store opened", "path", path)
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("crm: database ping failed: %w", err)
	}
	return nil
}

func (s *Store) initSchema() error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS organizations (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			org_id     TEXT NOT NULL,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS leads (
			id         TEXT PRIMARY KEY,
			org_id     TEXT NOT NULL,
			owner_id   TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL,
			company    TEXT NOT NULL DEFAULT '',
			email      TEXT NOT NULL DEFAULT '',
			phone      TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT 'New',
			rating     TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_org ON leads(org_id)`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id         TEXT PRIMARY KEY,
			org_id     TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL,
			company    TEXT NOT NULL DEFAULT '',
			email      TEXT NOT NULL DEFAULT '',
			phone      TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_org ON contacts(org_id)`,
		`CREATE TABLE IF NOT EXISTS deals (
			id         TEXT PRIMARY KEY,
			org_id     TEXT NOT NULL,
			name       TEXT NOT NULL,
			stage      TEXT NOT NULL DEFAULT 'Prospecting',
			amount     REAL NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_deals_org ON deals(org_id)`,
		`CREATE TABLE IF NOT EXISTS activities (
			id         TEXT PRIMARY KEY,
			org_id     TEXT NOT NULL,
			user_id    TEXT NOT NULL DEFAULT '',
			type       TEXT NOT NULL DEFAULT '',
			subject    TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_org ON activities(org_id)`,
	}

	for _, schema := range schemas {
		if _, err := s.db.Exec(schema); err != nil {
			return fmt.Errorf("crm: failed to create schema: %w", err)
		}
	}
	return nil
}
