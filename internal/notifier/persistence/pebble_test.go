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
	"path/filepath"
	"testing"

	"changeq"
)

func newPebble(t *testing.T) *PebbleStore {
	t.Helper()
	p, err := NewPebbleStore(filepath.Join(t.TempDir(), "pebble"), testLogger())
	if err != nil {
		t.Fatalf("NewPebbleStore: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestPebbleStore_EnqueueIsIdempotent(t *testing.T) {
	p := newPebble(t)
	ctx := context.Background()

	n, err := p.Enqueue(ctx, "u1", []string{"a", "b"}, changeq.ItemsAdded)
	if err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if n != 2 {
		t.Fatalf("first enqueue inserted %d, want 2", n)
	}

	n, err = p.Enqueue(ctx, "u1", []string{"a", "b", "c"}, changeq.ItemsAdded)
	if err != nil {
		t.Fatalf("second enqueue: %v", err)
	}
	if n != 1 {
		t.Fatalf("second enqueue inserted %d, want 1", n)
	}
}

func TestPebbleStore_EmptyInputIsNoOp(t *testing.T) {
	p := newPebble(t)
	n, err := p.Enqueue(context.Background(), "u1", nil, changeq.ItemsAdded)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if n != 0 {
		t.Fatalf("inserted %d, want 0", n)
	}
}

func TestPebbleStore_UniquenessIsPerUserAndCategory(t *testing.T) {
	p := newPebble(t)
	ctx := context.Background()

	if n, _ := p.Enqueue(ctx, "u1", []string{"a"}, changeq.ItemsAdded); n != 1 {
		t.Fatalf("u1 enqueue inserted %d, want 1", n)
	}
	if n, _ := p.Enqueue(ctx, "u2", []string{"a"}, changeq.ItemsAdded); n != 1 {
		t.Fatalf("u2 enqueue inserted %d, want 1", n)
	}
	if n, _ := p.Enqueue(ctx, "u1", []string{"a"}, changeq.FoldersAddedTo); n != 1 {
		t.Fatalf("cross-category enqueue inserted %d, want 1", n)
	}
}

func TestPebbleStore_CancelledContext(t *testing.T) {
	p := newPebble(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Enqueue(ctx, "u1", []string{"a"}, changeq.ItemsAdded); err == nil {
		t.Fatal("enqueue succeeded on a cancelled context")
	}
}
