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

package changeq

import (
	"sort"
	"testing"
)

// fakeEntity is the simplest possible Entity for exercising the batch.
type fakeEntity string

func (f fakeEntity) ID() string { return string(f) }

func ids[E Entity](list []E) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.ID())
	}
	sort.Strings(out)
	return out
}

func TestBatch_RecordDeduplicatesByID(t *testing.T) {
	b := NewBatch[fakeEntity]()
	if !b.Record(ItemsAdded, fakeEntity("a")) {
		t.Fatalf("first record of 'a' should be new")
	}
	if b.Record(ItemsAdded, fakeEntity("a")) {
		t.Fatalf("second record of 'a' should be a no-op")
	}
	if b.Len() != 1 {
		t.Fatalf("expected 1 pending entry, got %d", b.Len())
	}
	// Same identifier in a different category is a distinct entry.
	if !b.Record(ItemsRemoved, fakeEntity("a")) {
		t.Fatalf("record of 'a' in a second category should be new")
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 pending entries, got %d", b.Len())
	}
}

func TestBatch_DrainAddedWinsOverUpdated(t *testing.T) {
	b := NewBatch[fakeEntity]()
	b.Record(ItemsAdded, fakeEntity("a"))
	b.Record(ItemsUpdated, fakeEntity("a"))
	b.Record(ItemsUpdated, fakeEntity("b"))

	snap := b.Drain()
	if got := ids(snap.Entities(ItemsAdded)); len(got) != 1 || got[0] != "a" {
		t.Fatalf("expected added={a}, got %v", got)
	}
	if got := ids(snap.Entities(ItemsUpdated)); len(got) != 1 || got[0] != "b" {
		t.Fatalf("expected updated={b} (a suppressed by add), got %v", got)
	}
}

func TestBatch_DrainResetsPendingState(t *testing.T) {
	b := NewBatch[fakeEntity]()
	b.Record(ItemsAdded, fakeEntity("a"))
	b.Record(FoldersAddedTo, fakeEntity("f"))

	first := b.Drain()
	if first.Size() != 2 {
		t.Fatalf("expected snapshot size 2, got %d", first.Size())
	}
	if b.Len() != 0 {
		t.Fatalf("expected empty batch after drain, got %d entries", b.Len())
	}
	second := b.Drain()
	if !second.Empty() {
		t.Fatalf("expected empty snapshot from drained batch, got size %d", second.Size())
	}
}

func TestBatch_NoCrossCategorySuppression(t *testing.T) {
	// An entity added and removed in the same window stays in both sets;
	// only updated-vs-added is suppressed.
	b := NewBatch[fakeEntity]()
	b.Record(ItemsAdded, fakeEntity("b"))
	b.Record(ItemsRemoved, fakeEntity("b"))

	snap := b.Drain()
	if got := ids(snap.Entities(ItemsAdded)); len(got) != 1 || got[0] != "b" {
		t.Fatalf("expected added={b}, got %v", got)
	}
	if got := ids(snap.Entities(ItemsRemoved)); len(got) != 1 || got[0] != "b" {
		t.Fatalf("expected removed={b}, got %v", got)
	}
}

func TestCategory_Valid(t *testing.T) {
	for _, cat := range Categories {
		if !cat.Valid() {
			t.Fatalf("category %q should be valid", cat)
		}
	}
	if Category("bogus").Valid() {
		t.Fatalf("unknown category should be invalid")
	}
}
