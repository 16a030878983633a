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

package library

import (
	"context"
	"sync"
)

// MemItem is a concrete Item for the demo binary and tests.
type MemItem struct {
	ItemID      string
	ParentItem  *MemItem
	Virtual     bool
	FromChannel bool

	// HiddenFrom lists user IDs the item is NOT visible to. Everyone
	// else passes the visibility rule.
	HiddenFrom []string
}

func (m *MemItem) ID() string { return m.ItemID }

func (m *MemItem) Parent() (Item, bool) {
	if m.ParentItem == nil {
		return nil, false
	}
	return m.ParentItem, true
}

func (m *MemItem) IsVirtual() bool     { return m.Virtual }
func (m *MemItem) IsFromChannel() bool { return m.FromChannel }

func (m *MemItem) VisibleTo(user User) bool {
	for _, id := range m.HiddenFrom {
		if id == user.ID() {
			return false
		}
	}
	return true
}

// MemUser is a concrete User.
type MemUser struct {
	UserID string
	RootID string
}

func (u *MemUser) ID() string           { return u.UserID }
func (u *MemUser) RootFolderID() string { return u.RootID }

// MemSession is a concrete Session.
type MemSession struct {
	SessionID string
	User      string
}

func (s *MemSession) ID() string     { return s.SessionID }
func (s *MemSession) UserID() string { return s.User }

// MemoryProvider is an in-process Provider implementation. It backs the
// demo binary and the package tests; a production deployment implements
// Provider against the real host system instead.
type MemoryProvider struct {
	rootID string

	mu       sync.Mutex
	users    []*MemUser
	sessions map[string][]*MemSession // keyed by user ID
	nextSub  int
	added    map[int]func(Item)
	updated  map[int]func(Item)
	removed  map[int]func(Item)
}

// NewMemoryProvider creates a provider whose physical library root has the
// given identifier.
func NewMemoryProvider(rootID string) *MemoryProvider {
	return &MemoryProvider{
		rootID:   rootID,
		sessions: make(map[string][]*MemSession),
		added:    make(map[int]func(Item)),
		updated:  make(map[int]func(Item)),
		removed:  make(map[int]func(Item)),
	}
}

func (p *MemoryProvider) RootID() string { return p.rootID }

// AddUser registers a user.
func (p *MemoryProvider) AddUser(u *MemUser) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users = append(p.users, u)
}

// AddSession registers an active session for a user.
func (p *MemoryProvider) AddSession(s *MemSession) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[s.User] = append(p.sessions[s.User], s)
}

func (p *MemoryProvider) Users(ctx context.Context) ([]User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]User, len(p.users))
	for i, u := range p.users {
		out[i] = u
	}
	return out, nil
}

func (p *MemoryProvider) ActiveSessions(ctx context.Context, userID string) ([]Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	list := p.sessions[userID]
	out := make([]Session, len(list))
	for i, s := range list {
		out[i] = s
	}
	return out, nil
}

func (p *MemoryProvider) SubscribeItemAdded(fn func(Item)) (cancel func()) {
	return p.subscribe(p.added, fn)
}

func (p *MemoryProvider) SubscribeItemUpdated(fn func(Item)) (cancel func()) {
	return p.subscribe(p.updated, fn)
}

func (p *MemoryProvider) SubscribeItemRemoved(fn func(Item)) (cancel func()) {
	return p.subscribe(p.removed, fn)
}

func (p *MemoryProvider) subscribe(reg map[int]func(Item), fn func(Item)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextSub
	p.nextSub++
	reg[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(reg, id)
	}
}

// PublishAdded delivers an item-added event to all current subscribers.
func (p *MemoryProvider) PublishAdded(it Item) { p.publish(p.added, it) }

// PublishUpdated delivers an item-updated event to all current subscribers.
func (p *MemoryProvider) PublishUpdated(it Item) { p.publish(p.updated, it) }

// PublishRemoved delivers an item-removed event to all current subscribers.
func (p *MemoryProvider) PublishRemoved(it Item) { p.publish(p.removed, it) }

func (p *MemoryProvider) publish(reg map[int]func(Item), it Item) {
	p.mu.Lock()
	fns := make([]func(Item), 0, len(reg))
	for _, fn := range reg {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	// Deliver outside the lock so handlers may re-enter the provider.
	for _, fn := range fns {
		fn(it)
	}
}
