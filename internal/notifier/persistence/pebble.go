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
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/sirupsen/logrus"

	"changeq"
)

// PebbleStore persists the queues in an embedded Pebble database.
// Key format: q/<category>/<user_id>/<entity_id>; value is the enqueue
// timestamp. Key existence is the uniqueness constraint.
type PebbleStore struct {
	db  *pebble.DB
	log *logrus.Entry
}

// NewPebbleStore opens (or creates) a Pebble database at path. Open
// failures are fatal to initialization.
func NewPebbleStore(path string, log *logrus.Entry) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble queue db %s: %w", path, err)
	}
	log.WithField("path", path).Info("queue store opened")
	return &PebbleStore{db: db, log: log}, nil
}

func pebbleQueueKey(cat changeq.Category, userID, entityID string) []byte {
	return []byte(fmt.Sprintf("q/%s/%s/%s", cat, userID, entityID))
}

// Enqueue writes one key per entity id, counting only keys that did not
// already exist. The batch is committed with a synced write so queued
// records survive a crash.
func (p *PebbleStore) Enqueue(ctx context.Context, userID string, entityIDs []string, cat changeq.Category) (int, error) {
	if err := checkCategory(cat); err != nil {
		return 0, err
	}
	if len(entityIDs) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	batch := p.db.NewBatch()
	defer batch.Close()

	now := []byte(time.Now().UTC().Format(time.RFC3339Nano))
	inserted := 0
	for _, id := range entityIDs {
		key := pebbleQueueKey(cat, userID, id)
		_, closer, err := p.db.Get(key)
		switch err {
		case nil:
			closer.Close() // already queued, skip
			continue
		case pebble.ErrNotFound:
			// new record
		default:
			return 0, fmt.Errorf("pebble get %s: %w", key, err)
		}
		if err := batch.Set(key, now, nil); err != nil {
			return 0, fmt.Errorf("pebble set %s: %w", key, err)
		}
		inserted++
	}
	if inserted == 0 {
		return 0, nil
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return 0, fmt.Errorf("pebble commit %s user=%s: %w", cat, userID, err)
	}
	return inserted, nil
}

// Close closes the underlying database.
func (p *PebbleStore) Close() error {
	return p.db.Close()
}
