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

package core

import (
	"testing"

	"changeq"
	"changeq/internal/notifier/library"
)

// captureRecorder collects Record calls per category.
type captureRecorder struct {
	records map[changeq.Category][]string
}

func newCaptureRecorder() *captureRecorder {
	return &captureRecorder{records: make(map[changeq.Category][]string)}
}

func (r *captureRecorder) Record(cat changeq.Category, it library.Item) {
	r.records[cat] = append(r.records[cat], it.ID())
}

func (r *captureRecorder) ids(cat changeq.Category) []string { return r.records[cat] }

func startListener(t *testing.T) (*library.MemoryProvider, *captureRecorder, *Listener) {
	t.Helper()
	prov := library.NewMemoryProvider("physical-root")
	rec := newCaptureRecorder()
	l := NewListener(prov, rec, testLogger())
	l.Start()
	return prov, rec, l
}

func TestListener_AddRecordsItemAndParentFolder(t *testing.T) {
	prov, rec, l := startListener(t)
	defer l.Stop()

	folder := &library.MemItem{ItemID: "folder-f"}
	prov.PublishAdded(&library.MemItem{ItemID: "item-a", ParentItem: folder})

	if got := rec.ids(changeq.ItemsAdded); len(got) != 1 || got[0] != "item-a" {
		t.Fatalf("items_added = %v", got)
	}
	if got := rec.ids(changeq.FoldersAddedTo); len(got) != 1 || got[0] != "folder-f" {
		t.Fatalf("folders_added_to = %v", got)
	}
}

func TestListener_UpdateLeavesFoldersAlone(t *testing.T) {
	prov, rec, l := startListener(t)
	defer l.Stop()

	folder := &library.MemItem{ItemID: "folder-f"}
	prov.PublishUpdated(&library.MemItem{ItemID: "item-a", ParentItem: folder})

	if got := rec.ids(changeq.ItemsUpdated); len(got) != 1 || got[0] != "item-a" {
		t.Fatalf("items_updated = %v", got)
	}
	if got := rec.ids(changeq.FoldersAddedTo); len(got) != 0 {
		t.Fatalf("update touched folders_added_to: %v", got)
	}
	if got := rec.ids(changeq.FoldersRemovedFrom); len(got) != 0 {
		t.Fatalf("update touched folders_removed_from: %v", got)
	}
}

func TestListener_RemoveRecordsItemAndParentFolder(t *testing.T) {
	prov, rec, l := startListener(t)
	defer l.Stop()

	folder := &library.MemItem{ItemID: "folder-f"}
	prov.PublishRemoved(&library.MemItem{ItemID: "item-a", ParentItem: folder})

	if got := rec.ids(changeq.ItemsRemoved); len(got) != 1 || got[0] != "item-a" {
		t.Fatalf("items_removed = %v", got)
	}
	if got := rec.ids(changeq.FoldersRemovedFrom); len(got) != 1 || got[0] != "folder-f" {
		t.Fatalf("folders_removed_from = %v", got)
	}
}

func TestListener_ParentlessItemIsFine(t *testing.T) {
	prov, rec, l := startListener(t)
	defer l.Stop()

	prov.PublishAdded(&library.MemItem{ItemID: "orphan"})

	if got := rec.ids(changeq.ItemsAdded); len(got) != 1 || got[0] != "orphan" {
		t.Fatalf("items_added = %v", got)
	}
	if got := rec.ids(changeq.FoldersAddedTo); len(got) != 0 {
		t.Fatalf("folders_added_to = %v, want empty", got)
	}
}

func TestListener_FiltersVirtualAndChannelItems(t *testing.T) {
	prov, rec, l := startListener(t)
	defer l.Stop()

	prov.PublishAdded(&library.MemItem{ItemID: "virtual", Virtual: true})
	prov.PublishUpdated(&library.MemItem{ItemID: "channel", FromChannel: true})
	prov.PublishRemoved(&library.MemItem{ItemID: "virtual-2", Virtual: true})

	if len(rec.records) != 0 {
		t.Fatalf("filtered items were recorded: %v", rec.records)
	}
}

func TestListener_StopUnsubscribes(t *testing.T) {
	prov, rec, l := startListener(t)
	l.Stop()

	prov.PublishAdded(&library.MemItem{ItemID: "after-stop"})
	if len(rec.records) != 0 {
		t.Fatalf("events delivered after Stop: %v", rec.records)
	}

	// Stop twice is harmless.
	l.Stop()
}

func TestListener_StartTwiceRegistersOnce(t *testing.T) {
	prov, rec, l := startListener(t)
	defer l.Stop()
	l.Start()

	prov.PublishAdded(&library.MemItem{ItemID: "once"})
	if got := rec.ids(changeq.ItemsAdded); len(got) != 1 {
		t.Fatalf("items_added = %v, want a single record", got)
	}
}
