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
	"context"

	"github.com/sirupsen/logrus"

	"changeq"
	"changeq/internal/notifier/library"
	"changeq/internal/notifier/persistence"
)

// UpdateInfo is the per-user projection of a flushed snapshot: only the
// identifier strings that end up in the persisted queues, nothing else.
// An explicit view type, so nothing needs to be stripped on the way to
// storage.
type UpdateInfo struct {
	ItemsAdded         []string
	ItemsUpdated       []string
	ItemsRemoved       []string
	FoldersAddedTo     []string
	FoldersRemovedFrom []string
}

// ids returns the identifier list for cat.
func (u UpdateInfo) ids(cat changeq.Category) []string {
	switch cat {
	case changeq.ItemsAdded:
		return u.ItemsAdded
	case changeq.ItemsUpdated:
		return u.ItemsUpdated
	case changeq.ItemsRemoved:
		return u.ItemsRemoved
	case changeq.FoldersAddedTo:
		return u.FoldersAddedTo
	case changeq.FoldersRemovedFrom:
		return u.FoldersRemovedFrom
	}
	return nil
}

// Dispatcher turns a flushed snapshot into per-user queue records. Users
// are enumerated fresh on every flush; per-call persistence failures are
// logged and counted but never abort the remaining categories or users.
type Dispatcher struct {
	dir   library.Directory
	store persistence.Store
	trans *Translator
	log   *logrus.Entry
}

// NewDispatcher wires a dispatcher against the host directory, the queue
// store, and the visibility translator.
func NewDispatcher(dir library.Directory, store persistence.Store, trans *Translator, log *logrus.Entry) *Dispatcher {
	return &Dispatcher{dir: dir, store: store, trans: trans, log: log}
}

// Flush fans the snapshot out to every registered user. It is the
// FlushFunc the accumulator invokes after releasing its lock; everything
// here is lock-free with respect to Record. The context is checked
// between users so an interrupted shutdown stops promptly.
func (d *Dispatcher) Flush(ctx context.Context, snap changeq.Snapshot[library.Item]) {
	users, err := d.dir.Users(ctx)
	if err != nil {
		userEnumErrorsTotal.Inc()
		d.log.WithError(err).Error("user enumeration failed, dropping flush")
		return
	}
	for _, u := range users {
		if ctx.Err() != nil {
			d.log.WithError(ctx.Err()).Warn("flush interrupted")
			return
		}
		// Active sessions are looked up per user but do not gate
		// enqueueing: notifications are queued for offline users too.
		if _, err := d.dir.ActiveSessions(ctx, u.ID()); err != nil {
			d.log.WithError(err).WithField("user", u.ID()).Debug("session lookup failed")
		}
		d.persist(ctx, u.ID(), d.buildUpdateInfo(snap, u))
	}
}

// buildUpdateInfo reduces the snapshot to what user is allowed to see.
// The removed category passes visibility unconditionally: the entity is
// already gone and can no longer be checked.
func (d *Dispatcher) buildUpdateInfo(snap changeq.Snapshot[library.Item], user library.User) UpdateInfo {
	return UpdateInfo{
		ItemsAdded:         d.trans.TranslateAll(snap.Entities(changeq.ItemsAdded), user, false),
		ItemsUpdated:       d.trans.TranslateAll(snap.Entities(changeq.ItemsUpdated), user, false),
		ItemsRemoved:       d.trans.TranslateAll(snap.Entities(changeq.ItemsRemoved), user, true),
		FoldersAddedTo:     d.trans.TranslateAll(snap.Entities(changeq.FoldersAddedTo), user, false),
		FoldersRemovedFrom: d.trans.TranslateAll(snap.Entities(changeq.FoldersRemovedFrom), user, false),
	}
}

// persist issues the five enqueue calls for one user, sequentially.
// Failures are isolated per call.
func (d *Dispatcher) persist(ctx context.Context, userID string, info UpdateInfo) {
	for _, cat := range changeq.Categories {
		ids := info.ids(cat)
		n, err := d.store.Enqueue(ctx, userID, ids, cat)
		if err != nil {
			enqueueErrorsTotal.WithLabelValues(string(cat)).Inc()
			d.log.WithError(err).WithFields(logrus.Fields{
				"user":      userID,
				"category":  cat,
				"attempted": len(ids),
			}).Error("enqueue failed")
			continue
		}
		if n > 0 {
			enqueuedRowsTotal.WithLabelValues(string(cat)).Add(float64(n))
		}
	}
}
