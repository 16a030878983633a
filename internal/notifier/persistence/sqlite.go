// Copyright 2026 Esteban Alvarez. All Rights Reserved.
//
// Created: August 2026
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"changeq"
)

// sqliteTables maps each category to its table. The fixed map doubles as a
// guard: table names never come from caller input.
var sqliteTables = map[changeq.Category]string{
	changeq.ItemsAdded:         "items_added_queue",
	changeq.ItemsUpdated:       "items_updated_queue",
	changeq.ItemsRemoved:       "items_removed_queue",
	changeq.FoldersAddedTo:     "folders_added_queue",
	changeq.FoldersRemovedFrom: "folders_removed_queue",
}

// SQLiteStore persists the five queues in a single SQLite database file.
// Each table enforces UNIQUE(user_id, entity_id); duplicate enqueues are
// absorbed by INSERT OR IGNORE.
type SQLiteStore struct {
	db  *sql.DB
	log *logrus.Entry
}

// NewSQLiteStore creates the storage directory if needed, opens (or
// creates) the database at path, and creates all five queue tables. Any
// failure here is unrecoverable: the caller must not activate the
// notifier.
func NewSQLiteStore(path string, log *logrus.Entry) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create queue db directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open queue db %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect queue db %s: %w", path, err)
	}
	s := &SQLiteStore{db: db, log: log}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	log.WithField("path", path).Info("queue store opened")
	return s, nil
}

func (s *SQLiteStore) createTables() error {
	for _, cat := range changeq.Categories {
		table := sqliteTables[cat]
		stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			user_id   TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			enqueued_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, entity_id)
		)`, table)
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}

// Enqueue inserts one row per entity id, counting only rows that were
// actually new. Rows hitting the uniqueness constraint are skipped by
// INSERT OR IGNORE and contribute nothing to the count.
func (s *SQLiteStore) Enqueue(ctx context.Context, userID string, entityIDs []string, cat changeq.Category) (int, error) {
	if err := checkCategory(cat); err != nil {
		return 0, err
	}
	if len(entityIDs) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin enqueue tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf(`INSERT OR IGNORE INTO %s (user_id, entity_id) VALUES (?, ?)`, sqliteTables[cat]))
	if err != nil {
		return 0, fmt.Errorf("prepare enqueue: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, id := range entityIDs {
		res, err := stmt.ExecContext(ctx, userID, id)
		if err != nil {
			return inserted, fmt.Errorf("enqueue %s user=%s entity=%s: %w", cat, userID, id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("rows affected: %w", err)
		}
		inserted += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit enqueue: %w", err)
	}
	return inserted, nil
}

// PendingCounts reports the number of queued, undelivered records per
// category. Used by the demo's end-of-run summary.
func (s *SQLiteStore) PendingCounts(ctx context.Context) (map[changeq.Category]int, error) {
	out := make(map[changeq.Category]int, len(changeq.Categories))
	for _, cat := range changeq.Categories {
		var n int
		row := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, sqliteTables[cat]))
		if err := row.Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", sqliteTables[cat], err)
		}
		out[cat] = n
	}
	return out, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
