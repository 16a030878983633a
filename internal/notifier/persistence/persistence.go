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

// Package persistence provides the durable, deduplicated notification
// queues behind the dispatcher: five logical tables (one per change
// category), each unique over (user id, entity id). Re-enqueueing an
// already-queued pair is a silent no-op, never an error, so flush cycles
// may safely overlap with undelivered records.
//
// Backends: SQLite (default, embedded file database), Pebble (embedded
// key-value store), and Redis (set-per-queue on a shared server). All
// adapters implement the same Store interface and are selected through
// Build.
package persistence

import (
	"context"
	"fmt"

	"changeq"
)

// Store is the queue-facing persistence contract. Enqueue inserts one
// record per entity id for the given user and category, silently skipping
// records that already exist, and returns the number of newly inserted
// records. Empty input is a no-op returning 0.
//
// Open/creation failures are fatal at construction time; Enqueue errors
// are per-call and must be treated as non-fatal by callers.
type Store interface {
	Enqueue(ctx context.Context, userID string, entityIDs []string, cat changeq.Category) (int, error)
	Close() error
}

// checkCategory rejects categories outside the fixed set before they can
// reach a backend (the SQLite adapter maps them to table names).
func checkCategory(cat changeq.Category) error {
	if !cat.Valid() {
		return fmt.Errorf("unknown queue category: %q", cat)
	}
	return nil
}
