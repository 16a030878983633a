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

// Package changeq provides the in-memory change-set data structures used to
// coalesce a burst of raw media-library mutations into a single deduplicated
// batch. A Batch collects changed entities per category, keyed by their
// stable identifier; a Snapshot is the immutable result of draining a Batch.
package changeq

// Entity is the minimal surface the change set needs from a library item or
// folder: an opaque, immutable key that uniquely identifies it.
type Entity interface {
	ID() string
}

// Category names one of the five per-user notification queues a change can
// land in. Categories are independent: the same entity may legitimately
// appear in several of them within one batch.
type Category string

const (
	ItemsAdded         Category = "items_added"
	ItemsUpdated       Category = "items_updated"
	ItemsRemoved       Category = "items_removed"
	FoldersAddedTo     Category = "folders_added_to"
	FoldersRemovedFrom Category = "folders_removed_from"
)

// Categories lists every category in a stable order. Persistence backends
// and the dispatcher iterate this slice rather than hard-coding the set.
var Categories = []Category{
	ItemsAdded,
	ItemsUpdated,
	ItemsRemoved,
	FoldersAddedTo,
	FoldersRemovedFrom,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case ItemsAdded, ItemsUpdated, ItemsRemoved, FoldersAddedTo, FoldersRemovedFrom:
		return true
	}
	return false
}

// Batch is the mutable buffer of pending changes accumulated between
// flushes. Membership per category is a set: recording the same identifier
// twice is a no-op. Batch is NOT safe for concurrent use; the accumulator
// that owns it serializes access under its own lock.
type Batch[E Entity] struct {
	sets map[Category]map[string]E
}

// NewBatch returns an empty batch.
func NewBatch[E Entity]() *Batch[E] {
	return &Batch[E]{sets: make(map[Category]map[string]E, len(Categories))}
}

// Record adds e to the pending set for cat, deduplicating by stable
// identifier. It reports whether the entity was newly recorded.
func (b *Batch[E]) Record(cat Category, e E) bool {
	set := b.sets[cat]
	if set == nil {
		set = make(map[string]E)
		b.sets[cat] = set
	}
	if _, ok := set[e.ID()]; ok {
		return false
	}
	set[e.ID()] = e
	return true
}

// Len returns the total number of pending entries across all categories.
func (b *Batch[E]) Len() int {
	n := 0
	for _, set := range b.sets {
		n += len(set)
	}
	return n
}

// Drain returns an immutable snapshot of the pending sets and resets the
// batch to empty. An entity recorded both as added and updated within the
// same batch is dropped from the updated set: the add already implies a
// superseding, more complete notification.
func (b *Batch[E]) Drain() Snapshot[E] {
	snap := Snapshot[E]{sets: make(map[Category][]E, len(b.sets))}
	added := b.sets[ItemsAdded]
	for cat, set := range b.sets {
		out := make([]E, 0, len(set))
		for id, e := range set {
			if cat == ItemsUpdated {
				if _, dup := added[id]; dup {
					continue
				}
			}
			out = append(out, e)
		}
		if len(out) > 0 {
			snap.sets[cat] = out
		}
	}
	b.sets = make(map[Category]map[string]E, len(Categories))
	return snap
}

// Snapshot is a drained batch: per-category entity lists, deduplicated by
// identifier, with order not significant. Snapshots are constructed once by
// Drain and never mutated afterwards.
type Snapshot[E Entity] struct {
	sets map[Category][]E
}

// Entities returns the entities captured for cat. The returned slice must
// be treated as read-only.
func (s Snapshot[E]) Entities(cat Category) []E {
	return s.sets[cat]
}

// Size returns the total number of entities across all categories.
func (s Snapshot[E]) Size() int {
	n := 0
	for _, list := range s.sets {
		n += len(list)
	}
	return n
}

// Empty reports whether the snapshot carries no changes at all.
func (s Snapshot[E]) Empty() bool {
	return s.Size() == 0
}
