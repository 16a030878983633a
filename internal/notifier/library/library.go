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

// Package library defines the interfaces the notifier needs from the host
// media-library system: changed items, registered users, active sessions,
// and subscriptions to the raw mutation stream. The host owns all of these;
// the notifier holds item references only for the duration of a batch.
package library

import "context"

// Item is a library item or folder affected by a mutation.
type Item interface {
	// ID returns the stable, opaque identifier of the entity.
	ID() string

	// Parent returns the containing folder, if any. Top-level entities
	// report ok=false and contribute no folder-touched records.
	Parent() (Item, bool)

	// IsVirtual reports whether the entity is a placeholder that is not
	// materialized on physical storage.
	IsVirtual() bool

	// IsFromChannel reports whether the entity belongs to a pluggable
	// content channel rather than the physical library.
	IsFromChannel() bool

	// VisibleTo evaluates the host's standard visibility rule for user.
	VisibleTo(user User) bool
}

// User is a registered user of the host system.
type User interface {
	ID() string

	// RootFolderID returns the identifier of the user's personal root
	// folder, substituted whenever the physical library root changes.
	RootFolderID() string
}

// Session is an active client session belonging to a user.
type Session interface {
	ID() string
	UserID() string
}

// Hooks exposes the host's raw mutation stream. Each Subscribe call
// registers a handler and returns a cancel function that unregisters it;
// handlers may be invoked concurrently from the host's own dispatch
// threads.
type Hooks interface {
	SubscribeItemAdded(fn func(Item)) (cancel func())
	SubscribeItemUpdated(fn func(Item)) (cancel func())
	SubscribeItemRemoved(fn func(Item)) (cancel func())
}

// Directory enumerates users and sessions. Users is queried fresh at every
// flush, never cached by the notifier.
type Directory interface {
	Users(ctx context.Context) ([]User, error)
	ActiveSessions(ctx context.Context, userID string) ([]Session, error)
}

// Provider is the full host surface the notifier is wired against.
type Provider interface {
	Hooks
	Directory

	// RootID returns the identifier of the physical aggregate root
	// folder. Users never see it directly; the translator substitutes
	// each user's personal root.
	RootID() string
}
