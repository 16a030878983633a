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
	"sync"

	"github.com/sirupsen/logrus"

	"changeq"
	"changeq/internal/notifier/library"
)

// Recorder is the accumulator surface the listener feeds. Satisfied by
// *Accumulator.
type Recorder interface {
	Record(cat changeq.Category, item library.Item)
}

// Listener subscribes to the host's three mutation hooks and feeds the
// accumulator, filtering out entities that are virtual placeholders or
// channel-sourced. For adds and removes the entity's parent folder is
// recorded as touched; updates leave folders alone.
type Listener struct {
	hooks library.Hooks
	rec   Recorder
	log   *logrus.Entry

	mu      sync.Mutex
	cancels []func()
}

// NewListener returns an unstarted listener.
func NewListener(hooks library.Hooks, rec Recorder, log *logrus.Entry) *Listener {
	return &Listener{hooks: hooks, rec: rec, log: log}
}

// Start registers the three subscriptions. Calling Start twice is a no-op.
func (l *Listener) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.cancels) > 0 {
		return
	}
	l.cancels = []func(){
		l.hooks.SubscribeItemAdded(l.onAdded),
		l.hooks.SubscribeItemUpdated(l.onUpdated),
		l.hooks.SubscribeItemRemoved(l.onRemoved),
	}
	l.log.Debug("subscribed to library change hooks")
}

// Stop unregisters all subscriptions. Safe to call more than once.
func (l *Listener) Stop() {
	l.mu.Lock()
	cancels := l.cancels
	l.cancels = nil
	l.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

// relevant applies the physical-library filter: virtual placeholders and
// channel content never reach the accumulator.
func (l *Listener) relevant(it library.Item) bool {
	if it.IsVirtual() || it.IsFromChannel() {
		eventsFilteredTotal.Inc()
		return false
	}
	return true
}

func (l *Listener) onAdded(it library.Item) {
	if !l.relevant(it) {
		return
	}
	l.rec.Record(changeq.ItemsAdded, it)
	if parent, ok := it.Parent(); ok {
		l.rec.Record(changeq.FoldersAddedTo, parent)
	}
}

func (l *Listener) onUpdated(it library.Item) {
	if !l.relevant(it) {
		return
	}
	l.rec.Record(changeq.ItemsUpdated, it)
}

func (l *Listener) onRemoved(it library.Item) {
	if !l.relevant(it) {
		return
	}
	l.rec.Record(changeq.ItemsRemoved, it)
	if parent, ok := it.Parent(); ok {
		l.rec.Record(changeq.FoldersRemovedFrom, parent)
	}
}
